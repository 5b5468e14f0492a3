package httpapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/riskibarqy/football-sync/internal/domain/team"
	"github.com/riskibarqy/football-sync/internal/usecase"
)

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type listPlayersQuery struct {
	Team        string `validate:"max=100"`
	Nationality string `validate:"max=100"`
	Position    string `validate:"max=50"`
	Limit       int    `validate:"gte=0,lte=500"`
	Offset      int    `validate:"gte=0"`
}

type scheduledSyncJobRequest struct {
	LeagueID int64 `json:"league_id" validate:"gte=0"`
}

type playerStatisticsDTO struct {
	Team          string `json:"team"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	Appearances   int    `json:"appearances"`
	MinutesPlayed int    `json:"minutesPlayed"`
	Rating        string `json:"rating"`
}

type playerDTO struct {
	ID          string              `json:"id"`
	ExternalID  int64               `json:"externalId"`
	Name        string              `json:"name"`
	Nationality string              `json:"nationality"`
	Position    string              `json:"position"`
	Age         int                 `json:"age"`
	Height      string              `json:"height"`
	Weight      string              `json:"weight"`
	Team        string              `json:"team"`
	Statistics  playerStatisticsDTO `json:"statistics"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	UpdatedAt   string              `json:"updatedAt,omitempty"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	LeagueID int64  `json:"leagueId"`
	Season   int    `json:"season"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Country  string `json:"country,omitempty"`
	National bool   `json:"national"`
	LogoURL  string `json:"logoUrl,omitempty"`
}

type syncUnitDTO struct {
	LeagueID int64  `json:"leagueId"`
	Name     string `json:"name"`
}

type runReportDTO struct {
	UnitIndex int         `json:"unitIndex"`
	Unit      syncUnitDTO `json:"unit"`
	Teams     int         `json:"teams"`
	Fetched   int         `json:"fetched"`
	Inserted  int         `json:"inserted"`
	Updated   int         `json:"updated"`
	Skipped   int         `json:"skipped"`
	Unmapped  int         `json:"unmapped"`
	Failed    int         `json:"failed"`
	Partial   bool        `json:"partial"`
	StartedAt string      `json:"startedAt"`
	EndedAt   string      `json:"endedAt"`
}

type unitFailureDTO struct {
	Unit  syncUnitDTO `json:"unit"`
	Error string      `json:"error"`
}

type loadReportDTO struct {
	Units     []runReportDTO   `json:"units"`
	Failures  []unitFailureDTO `json:"failures"`
	StartedAt string           `json:"startedAt"`
	EndedAt   string           `json:"endedAt"`
}

type syncCursorDTO struct {
	Found     bool        `json:"found"`
	LastIndex int         `json:"lastIndex"`
	LastRun   string      `json:"lastRun,omitempty"`
	NextIndex int         `json:"nextIndex"`
	NextUnit  syncUnitDTO `json:"nextUnit"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:          v.ID,
		ExternalID:  v.ExternalID,
		Name:        v.Name,
		Nationality: v.Nationality,
		Position:    v.Position,
		Age:         v.Age,
		Height:      v.Height,
		Weight:      v.Weight,
		Team:        v.TeamName,
		Statistics: playerStatisticsDTO{
			Team:          v.Stats.TeamName,
			Goals:         v.Stats.Goals,
			Assists:       v.Stats.Assists,
			Appearances:   v.Stats.Appearances,
			MinutesPlayed: v.Stats.MinutesPlayed,
			Rating:        v.Stats.Rating,
		},
		ImageURL:  v.ImageURL,
		UpdatedAt: formatTime(v.UpdatedAt),
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:       v.ExternalID,
		LeagueID: v.LeagueID,
		Season:   v.Season,
		Name:     v.Name,
		Code:     v.Code,
		Country:  v.Country,
		National: v.National,
		LogoURL:  v.LogoURL,
	}
}

func unitToDTO(v usecase.Unit) syncUnitDTO {
	return syncUnitDTO{LeagueID: v.LeagueID, Name: v.Name}
}

func runReportToDTO(v usecase.RunReport) runReportDTO {
	return runReportDTO{
		UnitIndex: v.UnitIndex,
		Unit:      unitToDTO(v.Unit),
		Teams:     v.Teams,
		Fetched:   v.Fetched,
		Inserted:  v.Inserted,
		Updated:   v.Updated,
		Skipped:   v.Skipped,
		Unmapped:  v.Unmapped,
		Failed:    v.Failed,
		Partial:   v.Partial,
		StartedAt: formatTime(v.StartedAt),
		EndedAt:   formatTime(v.EndedAt),
	}
}

func loadReportToDTO(v usecase.LoadReport) loadReportDTO {
	out := loadReportDTO{
		Units:     make([]runReportDTO, 0, len(v.Units)),
		Failures:  make([]unitFailureDTO, 0, len(v.Failures)),
		StartedAt: formatTime(v.StartedAt),
		EndedAt:   formatTime(v.EndedAt),
	}
	for _, item := range v.Units {
		out.Units = append(out.Units, runReportToDTO(item))
	}
	for _, item := range v.Failures {
		out.Failures = append(out.Failures, unitFailureDTO{Unit: unitToDTO(item.Unit), Error: item.Error})
	}
	return out
}

func cursorToDTO(v usecase.CursorStatus) syncCursorDTO {
	out := syncCursorDTO{
		Found:     v.Found,
		LastIndex: v.LastIndex,
		NextIndex: v.NextIndex,
		NextUnit:  unitToDTO(v.NextUnit),
	}
	if v.Found {
		out.LastRun = formatTime(v.LastRun)
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func queryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func parseID(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}
