package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/football-sync/internal/usecase"
)

// RunScheduledSyncJob advances the round-robin schedule by one league, or
// syncs the requested league without touching the cursor.
func (h *Handler) RunScheduledSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScheduledSyncJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req scheduledSyncJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var (
		report usecase.RunReport
		err    error
	)
	if req.LeagueID > 0 {
		report, err = h.syncService.SyncUnit(ctx, h.unitFor(req.LeagueID))
	} else {
		report, err = h.syncService.RunScheduled(ctx)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runReportToDTO(report))
}

func (h *Handler) RunInitialLoadJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunInitialLoadJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.syncService.InitialLoad(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run initial load job failed", "units_done", len(report.Units), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loadReportToDTO(report))
}

func (h *Handler) RunTopScorersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTopScorersJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	leagueID, err := parseID(r.PathValue("leagueID"), "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.SyncTopScorers(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "run top scorers job failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runReportToDTO(report))
}

func (h *Handler) RunNationalTeamJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunNationalTeamJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	teamID, err := parseID(r.PathValue("teamID"), "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.SyncNationalTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "run national team job failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runReportToDTO(report))
}

func (h *Handler) GetSyncCursor(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncCursor")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	status, err := h.syncService.CursorState(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync cursor failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cursorToDTO(status))
}

func (h *Handler) unitFor(leagueID int64) usecase.Unit {
	for _, unit := range h.syncService.Units() {
		if unit.LeagueID == leagueID {
			return unit
		}
	}
	return usecase.Unit{LeagueID: leagueID}
}

// decodeJobRequest accepts an empty body as the zero request.
func decodeJobRequest(r *http.Request, out any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
