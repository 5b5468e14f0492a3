package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/football-sync/internal/domain/player"
)

type PlayerRepository struct {
	mu           sync.RWMutex
	byID         map[string]player.Player
	idByExternal map[int64]string
	now          func() time.Time
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	repo := &PlayerRepository{
		byID:         make(map[string]player.Player, len(players)),
		idByExternal: make(map[int64]string, len(players)),
		now:          time.Now,
	}
	for _, p := range players {
		repo.byID[p.ID] = p
		if p.ExternalID > 0 {
			repo.idByExternal[p.ExternalID] = p.ID
		}
	}

	return repo
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byID))
	for _, p := range r.byID {
		if !matchesFilter(p, filter) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []player.Player{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByExternal[externalID]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("validate player: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return player.Player{}, fmt.Errorf("player id %s already exists", item.ID)
	}
	if item.ExternalID > 0 {
		if _, exists := r.idByExternal[item.ExternalID]; exists {
			return player.Player{}, fmt.Errorf("%w: external_id=%d", player.ErrDuplicateExternalID, item.ExternalID)
		}
	}

	now := r.now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.byID[item.ID] = item
	if item.ExternalID > 0 {
		r.idByExternal[item.ExternalID] = item.ID
	}

	return item, nil
}

func (r *PlayerRepository) UpdateByExternalID(_ context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("validate player: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.idByExternal[item.ExternalID]
	if !ok {
		return player.Player{}, fmt.Errorf("%w: external_id=%d", player.ErrNotStored, item.ExternalID)
	}

	current := r.byID[id]
	item.ID = current.ID
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = r.now().UTC()
	r.byID[id] = item

	return item, nil
}

func matchesFilter(p player.Player, filter player.Filter) bool {
	if filter.TeamName != "" && !containsFold(p.TeamName, filter.TeamName) {
		return false
	}
	if filter.Nationality != "" && !containsFold(p.Nationality, filter.Nationality) {
		return false
	}
	if filter.Position != "" && !strings.EqualFold(p.Position, filter.Position) {
		return false
	}
	return true
}

func containsFold(value, part string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(part))
}
