package app

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/football-sync/internal/usecase"
)

// RunScheduler triggers one scheduled sync per interval until ctx is done.
// A run still holding the lock when the next tick fires is skipped.
func (a *App) RunScheduler(ctx context.Context, interval time.Duration) {
	if a.SyncService == nil {
		a.logger.Warn("sync scheduler not started", "reason", "sync service is not configured")
		return
	}
	if interval <= 0 {
		a.logger.Warn("sync scheduler not started", "reason", "interval must be positive")
		return
	}

	a.logger.Info("sync scheduler started", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			a.runScheduledOnce(ctx)
		}
	}
}

func (a *App) runScheduledOnce(ctx context.Context) {
	report, err := a.SyncService.RunScheduled(ctx)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrSyncInProgress):
		a.logger.InfoContext(ctx, "scheduled sync skipped", "reason", err.Error())
	case errors.Is(err, context.Canceled):
		a.logger.InfoContext(ctx, "scheduled sync cancelled", "league_id", report.Unit.LeagueID)
	default:
		a.logger.ErrorContext(ctx, "scheduled sync failed", "league_id", report.Unit.LeagueID, "error", err)
	}
}
