package httpapi

import (
	"net/http"
	"time"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/teams", handler.ListTeamsByLeague)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string, jobTimeout time.Duration) {
	job := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, JobDeadline(jobTimeout, h))
	}

	mux.Handle("POST /v1/internal/jobs/sync", job(handler.RunScheduledSyncJob))
	mux.Handle("POST /v1/internal/jobs/sync/initial", job(handler.RunInitialLoadJob))
	mux.Handle("POST /v1/internal/jobs/sync/topscorers/{leagueID}", job(handler.RunTopScorersJob))
	mux.Handle("POST /v1/internal/jobs/sync/national-teams/{teamID}", job(handler.RunNationalTeamJob))
	mux.Handle("GET /v1/internal/sync/cursor", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncCursor)))
}
