package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
	qb "github.com/riskibarqy/football-sync/internal/platform/querybuilder"
)

const (
	defaultSyncCursorName = "players"
	// syncCursorLockKey namespaces the advisory lock for scheduled player syncs.
	syncCursorLockKey int64 = 283_2024_0001
)

type syncCursorTableModel struct {
	Name      string    `db:"name"`
	LastIndex int       `db:"last_index"`
	LastRun   time.Time `db:"last_run"`
}

// SyncCursorRepository stores the cursor as one row and guards runs with a
// session-level advisory lock held on a pinned connection.
type SyncCursorRepository struct {
	db   *sqlx.DB
	name string
}

func NewSyncCursorRepository(db *sqlx.DB) *SyncCursorRepository {
	return &SyncCursorRepository{db: db, name: defaultSyncCursorName}
}

func (r *SyncCursorRepository) Load(ctx context.Context) (synccursor.Cursor, bool, error) {
	query, args, err := qb.Select("name", "last_index", "last_run").From("sync_cursors").
		Where(qb.Eq("name", r.name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return synccursor.Cursor{}, false, fmt.Errorf("build select sync cursor query: %w", err)
	}

	var row syncCursorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synccursor.Cursor{}, false, nil
		}
		return synccursor.Cursor{}, false, fmt.Errorf("select sync cursor: %w", err)
	}

	return synccursor.Cursor{LastIndex: row.LastIndex, LastRun: row.LastRun}, true, nil
}

// Save never moves the cursor back to an older run.
func (r *SyncCursorRepository) Save(ctx context.Context, cursor synccursor.Cursor) error {
	query, args, err := qb.InsertModel("sync_cursors", syncCursorTableModel{
		Name:      r.name,
		LastIndex: cursor.LastIndex,
		LastRun:   cursor.LastRun,
	}, `ON CONFLICT (name)
DO UPDATE SET
    last_index = EXCLUDED.last_index,
    last_run = EXCLUDED.last_run,
    updated_at = NOW()
WHERE sync_cursors.last_run <= EXCLUDED.last_run`)
	if err != nil {
		return fmt.Errorf("build upsert sync cursor query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync cursor: %w", err)
	}
	return nil
}

func (r *SyncCursorRepository) Lock(ctx context.Context) (func(), error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection for sync lock: %w", err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, `SELECT pg_try_advisory_lock($1)`, syncCursorLockKey); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: advisory lock %d", synccursor.ErrLocked, syncCursorLockKey)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, syncCursorLockKey)
			_ = conn.Close()
		})
	}, nil
}
