package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
	Upsert(ctx context.Context, item Team) error
}
