package memory

import (
	"errors"
	"testing"

	"github.com/riskibarqy/football-sync/internal/domain/player"
)

func TestPlayerRepository_CreateRejectsDuplicateExternalID(t *testing.T) {
	repo := NewPlayerRepository(nil)
	item := player.Player{ID: "ply_1", ExternalID: 42, Name: "A. Ionescu"}

	if _, err := repo.Create(t.Context(), item); err != nil {
		t.Fatalf("create player: %v", err)
	}

	item.ID = "ply_2"
	_, err := repo.Create(t.Context(), item)
	if !errors.Is(err, player.ErrDuplicateExternalID) {
		t.Fatalf("expected duplicate external id error, got %v", err)
	}
}

func TestPlayerRepository_UpdateByExternalIDKeepsIdentity(t *testing.T) {
	repo := NewPlayerRepository(nil)
	created, err := repo.Create(t.Context(), player.Player{ID: "ply_1", ExternalID: 42, Name: "A. Ionescu", TeamName: "Romania"})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	updated, err := repo.UpdateByExternalID(t.Context(), player.Player{ExternalID: 42, Name: "A. Ionescu", TeamName: "FCSB"})
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("unexpected id: got=%s want=%s", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed on update")
	}

	got, found, err := repo.GetByExternalID(t.Context(), 42)
	if err != nil || !found {
		t.Fatalf("get by external id: found=%v err=%v", found, err)
	}
	if got.TeamName != "FCSB" {
		t.Fatalf("unexpected team: %s", got.TeamName)
	}
}

func TestPlayerRepository_UpdateByExternalIDMissing(t *testing.T) {
	repo := NewPlayerRepository(nil)

	_, err := repo.UpdateByExternalID(t.Context(), player.Player{ExternalID: 7, Name: "Nobody"})
	if !errors.Is(err, player.ErrNotStored) {
		t.Fatalf("expected not stored error, got %v", err)
	}
}

func TestPlayerRepository_ListFiltersAndPages(t *testing.T) {
	repo := NewPlayerRepository(SeedPlayers())

	items, err := repo.List(t.Context(), player.Filter{TeamName: "fcsb"})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != 1 || items[0].ID != "ply_seed_olaru" {
		t.Fatalf("unexpected filtered players: %+v", items)
	}

	items, err = repo.List(t.Context(), player.Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != 1 || items[0].ID != "ply_seed_sava" {
		t.Fatalf("unexpected page: %+v", items)
	}
}

func TestSyncCursorStore_LockIsExclusive(t *testing.T) {
	store := NewSyncCursorStore()

	release, err := store.Lock(t.Context())
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := store.Lock(t.Context()); err == nil {
		t.Fatalf("expected second lock to fail")
	}

	release()
	release()

	again, err := store.Lock(t.Context())
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	again()
}
