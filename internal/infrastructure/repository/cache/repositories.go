package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/riskibarqy/football-sync/internal/domain/team"
	basecache "github.com/riskibarqy/football-sync/internal/platform/cache"
)

const (
	playerKeyPrefix = "player:"
	teamKeyPrefix   = "team:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	key := teamKeyPrefix + "list:" + strconv.FormatInt(leagueID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamKeyPrefix+"list:"+strconv.FormatInt(item.LeagueID, 10))
	return nil
}

// PlayerRepository caches the read path only. Lookups by external id feed
// reconciliation and always hit the underlying store.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := playerKeyPrefix + "id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	return r.next.GetByExternalID(ctx, externalID)
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return created, nil
}

func (r *PlayerRepository) UpdateByExternalID(ctx context.Context, item player.Player) (player.Player, error) {
	updated, err := r.next.UpdateByExternalID(ctx, item)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return updated, nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

func playerListKey(filter player.Filter) string {
	parts := []string{
		strings.ToLower(filter.TeamName),
		strings.ToLower(filter.Nationality),
		strings.ToLower(filter.Position),
		strconv.Itoa(filter.Limit),
		strconv.Itoa(filter.Offset),
	}
	return playerKeyPrefix + "list:" + strings.Join(parts, "|")
}
