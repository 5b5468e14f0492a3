package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/football-sync/internal/domain/team"
)

type TeamRepository struct {
	mu            sync.RWMutex
	teamsByLeague map[int64]map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	teamsByLeague := make(map[int64]map[int64]team.Team)
	for _, item := range teams {
		if _, ok := teamsByLeague[item.LeagueID]; !ok {
			teamsByLeague[item.LeagueID] = make(map[int64]team.Team)
		}
		teamsByLeague[item.LeagueID][item.ExternalID] = item
	}

	return &TeamRepository{teamsByLeague: teamsByLeague}
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.teamsByLeague[leagueID]
	out := make([]team.Team, 0, len(rows))
	for _, item := range rows {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, ok := r.teamsByLeague[item.LeagueID]
	if !ok {
		rows = make(map[int64]team.Team)
		r.teamsByLeague[item.LeagueID] = rows
	}
	rows[item.ExternalID] = item

	return nil
}
