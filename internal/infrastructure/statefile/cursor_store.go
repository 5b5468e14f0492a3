package statefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
	"golang.org/x/sys/unix"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CursorStore persists the sync cursor as a small JSON document on disk.
// Writes go through a temp file and rename so readers never see a torn file.
// Lock takes an exclusive flock on a sibling ".lock" file, so two processes
// sharing the path cannot run at once and a crashed holder never leaves it stuck.
type CursorStore struct {
	path string
	mu   sync.Mutex
}

func NewCursorStore(path string) *CursorStore {
	return &CursorStore{path: path}
}

func (s *CursorStore) Path() string {
	return s.path
}

func (s *CursorStore) Load(_ context.Context) (synccursor.Cursor, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return synccursor.Cursor{}, false, nil
	}
	if err != nil {
		return synccursor.Cursor{}, false, fmt.Errorf("read cursor file: %w", err)
	}

	var out synccursor.Cursor
	if err := json.Unmarshal(raw, &out); err != nil {
		return synccursor.Cursor{}, false, fmt.Errorf("decode cursor file %s: %w", s.path, err)
	}
	return out, true, nil
}

func (s *CursorStore) Save(_ context.Context, cursor synccursor.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(cursor, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cursor temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cursor temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync cursor temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cursor temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace cursor file: %w", err)
	}
	return nil
}

func (s *CursorStore) Lock(_ context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cursor dir: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		owner, _ := os.ReadFile(lockPath)
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: lock file %s held by pid %s", synccursor.ErrLocked, lockPath, strings.TrimSpace(string(owner)))
		}
		return nil, fmt.Errorf("flock %s: %w", lockPath, err)
	}

	// The pid is informational; the kernel drops the lock when the holder exits.
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
			_ = f.Close()
		})
	}, nil
}
