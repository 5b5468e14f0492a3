package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
	"github.com/riskibarqy/football-sync/internal/platform/logging"
)

// ScheduleCursor walks the configured units round-robin, one unit per scheduled run.
type ScheduleCursor struct {
	store  synccursor.Store
	units  int
	now    func() time.Time
	logger *logging.Logger
}

func NewScheduleCursor(store synccursor.Store, units int, logger *logging.Logger) *ScheduleCursor {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleCursor{
		store:  store,
		units:  units,
		now:    time.Now,
		logger: logger,
	}
}

// Next returns the unit to process. Missing, unreadable or out-of-range state starts over at 0.
func (c *ScheduleCursor) Next(ctx context.Context) int {
	if c.units <= 0 {
		return 0
	}

	state, found, err := c.store.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "sync cursor unreadable, starting from first unit", "error", err)
		return 0
	}
	if !found {
		return 0
	}
	if state.LastIndex < 0 || state.LastIndex >= c.units {
		c.logger.WarnContext(ctx, "sync cursor out of range, starting from first unit",
			"last_index", state.LastIndex,
			"units", c.units,
		)
		return 0
	}

	return (state.LastIndex + 1) % c.units
}

// Commit records that unit index finished. Callers commit only after a run without a fatal error.
func (c *ScheduleCursor) Commit(ctx context.Context, index int) error {
	if index < 0 || index >= c.units {
		return fmt.Errorf("%w: cursor index %d outside [0, %d)", ErrInvalidInput, index, c.units)
	}
	if err := c.store.Save(ctx, synccursor.Cursor{LastIndex: index, LastRun: c.now().UTC()}); err != nil {
		return fmt.Errorf("save sync cursor: %w", err)
	}
	return nil
}

// Lock takes the run-level lock held for the whole read, sync and commit sequence.
func (c *ScheduleCursor) Lock(ctx context.Context) (func(), error) {
	release, err := c.store.Lock(ctx)
	if errors.Is(err, synccursor.ErrLocked) {
		return nil, fmt.Errorf("%w: %v", ErrSyncInProgress, err)
	}
	if err != nil {
		return nil, fmt.Errorf("lock sync cursor: %w", err)
	}
	return release, nil
}

// State returns the persisted cursor without interpreting it.
func (c *ScheduleCursor) State(ctx context.Context) (synccursor.Cursor, bool, error) {
	state, found, err := c.store.Load(ctx)
	if err != nil {
		return synccursor.Cursor{}, false, fmt.Errorf("load sync cursor: %w", err)
	}
	return state, found, nil
}
