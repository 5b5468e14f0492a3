package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/riskibarqy/football-sync/internal/domain/team"
	playermock "github.com/riskibarqy/football-sync/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/football-sync/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestPlayerService_ListPlayers_AppliesDefaultLimitUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo)

	repo.
		On("List", mock.Anything, player.Filter{TeamName: "FCSB", Limit: defaultPlayerListLimit}).
		Return([]player.Player{{ID: "ply_1", Name: "D. Olaru"}}, nil).
		Once()

	got, err := service.ListPlayers(ctx, player.Filter{TeamName: "  FCSB "})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ply_1" {
		t.Fatalf("unexpected players: %+v", got)
	}
}

func TestPlayerService_ListPlayers_CapsLimitUsingMockery(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo)

	repo.
		On("List", mock.Anything, mock.MatchedBy(func(f player.Filter) bool { return f.Limit == maxPlayerListLimit })).
		Return([]player.Player{}, nil).
		Once()

	if _, err := service.ListPlayers(context.Background(), player.Filter{Limit: 10_000}); err != nil {
		t.Fatalf("list players: %v", err)
	}
}

func TestPlayerService_ListPlayers_RejectsNegativePaging(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(playermock.NewRepository(t))

	_, err := service.ListPlayers(context.Background(), player.Filter{Offset: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPlayerService_GetPlayer_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	service := NewPlayerService(repo)

	repo.On("GetByID", mock.Anything, "ply_missing").Return(player.Player{}, false, nil).Once()

	_, err := service.GetPlayer(context.Background(), "ply_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlayerService_GetPlayer_RequiresID(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(playermock.NewRepository(t))

	_, err := service.GetPlayer(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTeamService_ListTeamsUsingMockery(t *testing.T) {
	t.Parallel()

	repo := teammock.NewRepository(t)
	service := NewTeamService(repo)
	expected := []team.Team{{ExternalID: 559, LeagueID: 283, Name: "FCSB"}}

	repo.On("ListByLeague", mock.Anything, int64(283)).Return(expected, nil).Once()

	got, err := service.ListTeams(context.Background(), 283)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(got) != 1 || got[0].Name != "FCSB" {
		t.Fatalf("unexpected teams: %+v", got)
	}

	if _, err := service.ListTeams(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for league 0, got %v", err)
	}
}
