package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-sync/internal/domain/player"
	qb "github.com/riskibarqy/football-sync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"public_id",
	"external_id",
	"name",
	"nationality",
	"position",
	"age",
	"height",
	"weight",
	"team_name",
	"stats_team_name",
	"goals",
	"assists",
	"appearances",
	"minutes_played",
	"rating",
	"image_url",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	conditions := make([]qb.Condition, 0, 3)
	if v := strings.TrimSpace(filter.TeamName); v != "" {
		conditions = append(conditions, qb.ILike("team_name", v))
	}
	if v := strings.TrimSpace(filter.Nationality); v != "" {
		conditions = append(conditions, qb.ILike("nationality", v))
	}
	if v := strings.TrimSpace(filter.Position); v != "" {
		conditions = append(conditions, qb.Expr("lower(position) = lower(?)", v))
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(conditions...).
		OrderBy("name", "id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", playerID))
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *PlayerRepository) getOne(ctx context.Context, condition qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(condition).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("validate player: %w", err)
	}

	insertModel := playerInsertModel{
		PublicID:      item.ID,
		ExternalID:    nullInt64(item.ExternalID),
		Name:          item.Name,
		Nationality:   item.Nationality,
		Position:      item.Position,
		Age:           item.Age,
		Height:        item.Height,
		Weight:        item.Weight,
		TeamName:      item.TeamName,
		StatsTeamName: item.Stats.TeamName,
		Goals:         item.Stats.Goals,
		Assists:       item.Stats.Assists,
		Appearances:   item.Stats.Appearances,
		MinutesPlayed: item.Stats.MinutesPlayed,
		Rating:        item.Stats.Rating,
		ImageURL:      item.ImageURL,
	}

	query, args, err := qb.InsertModel("players", insertModel, "RETURNING created_at, updated_at")
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return player.Player{}, fmt.Errorf("%w: external_id=%d: %v", player.ErrDuplicateExternalID, item.ExternalID, err)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	return item, nil
}

func (r *PlayerRepository) UpdateByExternalID(ctx context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("validate player: %w", err)
	}
	if item.ExternalID <= 0 {
		return player.Player{}, fmt.Errorf("%w: external id is required for update", player.ErrNotStored)
	}

	query, args, err := qb.Update("players").
		Set("name", item.Name).
		Set("nationality", item.Nationality).
		Set("position", item.Position).
		Set("age", item.Age).
		Set("height", item.Height).
		Set("weight", item.Weight).
		Set("team_name", item.TeamName).
		Set("stats_team_name", item.Stats.TeamName).
		Set("goals", item.Stats.Goals).
		Set("assists", item.Stats.Assists).
		Set("appearances", item.Stats.Appearances).
		Set("minutes_played", item.Stats.MinutesPlayed).
		Set("rating", item.Stats.Rating).
		Set("image_url", item.ImageURL).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("external_id", item.ExternalID)).
		Suffix("RETURNING public_id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build update player query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if isNotFound(err) {
			return player.Player{}, fmt.Errorf("%w: external_id=%d", player.ErrNotStored, item.ExternalID)
		}
		return player.Player{}, fmt.Errorf("update player external_id=%d: %w", item.ExternalID, err)
	}

	return item, nil
}

func (row playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          row.PublicID,
		ExternalID:  nullInt64ToInt64(row.ExternalID),
		Name:        row.Name,
		Nationality: row.Nationality,
		Position:    row.Position,
		Age:         row.Age,
		Height:      row.Height,
		Weight:      row.Weight,
		TeamName:    row.TeamName,
		Stats: player.Statistics{
			TeamName:      row.StatsTeamName,
			Goals:         row.Goals,
			Assists:       row.Assists,
			Appearances:   row.Appearances,
			MinutesPlayed: row.MinutesPlayed,
			Rating:        row.Rating,
		},
		ImageURL:  row.ImageURL,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
