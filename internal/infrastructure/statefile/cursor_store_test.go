package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorStore_LoadMissingFile(t *testing.T) {
	store := NewCursorStore(filepath.Join(t.TempDir(), "sync_state.json"))

	_, found, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCursorStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sync_state.json")
	store := NewCursorStore(path)
	lastRun := time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(t.Context(), synccursor.Cursor{LastIndex: 2, LastRun: lastRun}))

	got, found, err := store.Load(t.Context())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.LastIndex)
	assert.True(t, got.LastRun.Equal(lastRun))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastIndex": 2`)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCursorStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, found, err := NewCursorStore(path).Load(t.Context())
	require.Error(t, err)
	assert.False(t, found)
}

func TestCursorStore_LockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")
	first := NewCursorStore(path)
	second := NewCursorStore(path)

	release, err := first.Lock(t.Context())
	require.NoError(t, err)

	_, err = second.Lock(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, synccursor.ErrLocked))

	release()

	again, err := second.Lock(t.Context())
	require.NoError(t, err)
	again()
	again()
}

func TestCursorStore_LeftoverLockFileFromDeadProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_state.json")
	require.NoError(t, os.WriteFile(path+".lock", []byte("999999"), 0o644))

	store := NewCursorStore(path)
	release, err := store.Lock(t.Context())
	require.NoError(t, err)
	defer release()

	owner, err := os.ReadFile(path + ".lock")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(owner))

	_, err = NewCursorStore(path).Lock(t.Context())
	assert.ErrorIs(t, err, synccursor.ErrLocked)
}
