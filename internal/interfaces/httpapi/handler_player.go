package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/football-sync/internal/domain/player"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	values := r.URL.Query()
	limit, err := queryInt(values, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := queryInt(values, "offset")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := listPlayersQuery{
		Team:        strings.TrimSpace(values.Get("team")),
		Nationality: strings.TrimSpace(values.Get("nationality")),
		Position:    strings.TrimSpace(values.Get("position")),
		Limit:       limit,
		Offset:      offset,
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, player.Filter{
		TeamName:    query.Team,
		Nationality: query.Nationality,
		Position:    query.Position,
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team", query.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}
