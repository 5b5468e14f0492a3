package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-sync/internal/domain/player"
	idgen "github.com/riskibarqy/football-sync/internal/platform/id"
)

type ReconcileMode string

const (
	// ModeRegular applies the club-roster appearance filter.
	ModeRegular ReconcileMode = "regular"
	// ModePriority is used for national-team rosters and top-scorer feeds and never skips.
	ModePriority ReconcileMode = "priority"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

var defaultGenericTeamMarkers = []string{"national", "nationala"}

// ReconciliationEngine decides and applies insert, update or skip for one
// normalized record, keyed only on the provider external id.
type ReconciliationEngine struct {
	players player.Repository
	ids     idgen.Generator
	markers []string
}

func NewReconciliationEngine(players player.Repository, ids idgen.Generator, genericTeamMarkers []string) *ReconciliationEngine {
	markers := make([]string, 0, len(genericTeamMarkers))
	for _, marker := range genericTeamMarkers {
		if m := strings.ToLower(strings.TrimSpace(marker)); m != "" {
			markers = append(markers, m)
		}
	}
	if len(markers) == 0 {
		markers = append(markers, defaultGenericTeamMarkers...)
	}

	return &ReconciliationEngine{
		players: players,
		ids:     ids,
		markers: markers,
	}
}

func (e *ReconciliationEngine) Reconcile(ctx context.Context, rec NormalizedPlayer, mode ReconcileMode) (Action, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationEngine.Reconcile")
	defer span.End()

	if rec.ExternalID <= 0 {
		return ActionSkip, fmt.Errorf("%w: external id must be greater than zero", ErrInvalidInput)
	}
	if mode != ModePriority && rec.Stats.Appearances == 0 && !player.IsGoalkeeper(rec.Position) {
		return ActionSkip, nil
	}

	existing, found, err := e.players.GetByExternalID(ctx, rec.ExternalID)
	if err != nil {
		return ActionSkip, fmt.Errorf("get player external_id=%d: %w", rec.ExternalID, err)
	}

	if !found {
		publicID, err := e.ids.NewID()
		if err != nil {
			return ActionSkip, fmt.Errorf("generate player id: %w", err)
		}
		item := rec.toPlayer()
		item.ID = publicID
		_, err = e.players.Create(ctx, item)
		if err == nil {
			return ActionInsert, nil
		}
		if !errors.Is(err, player.ErrDuplicateExternalID) {
			return ActionSkip, fmt.Errorf("create player external_id=%d: %w", rec.ExternalID, err)
		}

		// Another writer inserted the same external id first.
		existing, found, err = e.players.GetByExternalID(ctx, rec.ExternalID)
		if err != nil {
			return ActionSkip, fmt.Errorf("get player external_id=%d after conflict: %w", rec.ExternalID, err)
		}
		if !found {
			return ActionSkip, fmt.Errorf("create player external_id=%d: %w", rec.ExternalID, player.ErrDuplicateExternalID)
		}
	}

	merged := e.merge(existing, rec)
	if _, err := e.players.UpdateByExternalID(ctx, merged); err != nil {
		return ActionSkip, fmt.Errorf("update player external_id=%d: %w", rec.ExternalID, err)
	}
	return ActionUpdate, nil
}

// IsGenericTeam reports whether a team name is a placeholder rather than a club.
func (e *ReconciliationEngine) IsGenericTeam(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == player.Unknown {
		return true
	}
	for _, marker := range e.markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// merge always refreshes team and statistics, except that a specific club is
// never replaced by a generic or national team; profile fields change only when informative.
func (e *ReconciliationEngine) merge(existing player.Player, rec NormalizedPlayer) player.Player {
	out := existing

	incomingGeneric := rec.National || e.IsGenericTeam(rec.TeamName)
	if !(incomingGeneric && !e.IsGenericTeam(existing.TeamName)) {
		out.TeamName = rec.TeamName
		out.Stats = rec.Stats
	}

	out.Name = informative(rec.Name, existing.Name)
	out.Nationality = informative(rec.Nationality, existing.Nationality)
	out.Position = informative(rec.Position, existing.Position)
	out.Height = informative(rec.Height, existing.Height)
	out.Weight = informative(rec.Weight, existing.Weight)
	out.ImageURL = informative(rec.ImageURL, existing.ImageURL)
	if rec.Age > 0 {
		out.Age = rec.Age
	}

	return out
}

func informative(incoming, current string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || incoming == player.Unknown {
		return current
	}
	return incoming
}
