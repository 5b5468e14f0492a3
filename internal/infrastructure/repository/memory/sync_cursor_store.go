package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
)

// SyncCursorStore keeps the cursor in process memory. It is lost on restart.
type SyncCursorStore struct {
	mu     sync.RWMutex
	state  synccursor.Cursor
	found  bool
	locked sync.Mutex
}

func NewSyncCursorStore() *SyncCursorStore {
	return &SyncCursorStore{}
}

func (s *SyncCursorStore) Load(_ context.Context) (synccursor.Cursor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state, s.found, nil
}

func (s *SyncCursorStore) Save(_ context.Context, cursor synccursor.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = cursor
	s.found = true
	return nil
}

func (s *SyncCursorStore) Lock(_ context.Context) (func(), error) {
	if !s.locked.TryLock() {
		return nil, synccursor.ErrLocked
	}

	var once sync.Once
	return func() { once.Do(s.locked.Unlock) }, nil
}
