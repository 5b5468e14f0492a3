package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-sync/internal/domain/team"
	qb "github.com/riskibarqy/football-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"external_id",
	"league_id",
	"season",
	"name",
	"code",
	"country",
	"national",
	"logo_url",
	"created_at",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ExternalID: row.ExternalID,
			LeagueID:   row.LeagueID,
			Season:     row.Season,
			Name:       row.Name,
			Code:       row.Code,
			Country:    row.Country,
			National:   row.National,
			LogoURL:    row.LogoURL,
			UpdatedAt:  row.UpdatedAt,
		})
	}

	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	insertModel := teamInsertModel{
		ExternalID: item.ExternalID,
		LeagueID:   item.LeagueID,
		Season:     item.Season,
		Name:       item.Name,
		Code:       item.Code,
		Country:    item.Country,
		National:   item.National,
		LogoURL:    item.LogoURL,
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (external_id, league_id)
DO UPDATE SET
    season = EXCLUDED.season,
    name = EXCLUDED.name,
    code = EXCLUDED.code,
    country = EXCLUDED.country,
    national = EXCLUDED.national,
    logo_url = EXCLUDED.logo_url,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team external_id=%d: %w", item.ExternalID, err)
	}

	return nil
}
