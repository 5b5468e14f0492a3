package player

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateExternalID is returned by Create when the external id is already stored.
	ErrDuplicateExternalID = errors.New("player external id already exists")
	// ErrNotStored is returned by UpdateByExternalID when no record matches.
	ErrNotStored = errors.New("player not stored")
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
	Create(ctx context.Context, item Player) (Player, error)
	UpdateByExternalID(ctx context.Context, item Player) (Player, error)
}
