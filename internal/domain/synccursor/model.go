package synccursor

import (
	"context"
	"errors"
	"time"
)

// ErrLocked is returned by Store.Lock while another run holds the cursor.
var ErrLocked = errors.New("sync cursor is locked by another run")

// Cursor remembers the last league processed by a scheduled run.
type Cursor struct {
	LastIndex int       `json:"lastIndex"`
	LastRun   time.Time `json:"lastRun"`
}

// Store persists the single cursor record.
//
// Load reports found=false when nothing was saved yet. Lock acquires the
// run-level lock; the returned release func must be called exactly once.
type Store interface {
	Load(ctx context.Context) (Cursor, bool, error)
	Save(ctx context.Context, cursor Cursor) error
	Lock(ctx context.Context) (release func(), err error)
}
