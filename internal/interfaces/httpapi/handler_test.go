package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-sync/internal/platform/id"
	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"github.com/riskibarqy/football-sync/internal/platform/resilience"
	"github.com/riskibarqy/football-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-token"

type stubProvider struct {
	teams []usecase.ExternalTeam
	page  usecase.ExternalPage
}

func (p *stubProvider) FetchPage(_ context.Context, _ string, _ map[string]string, page int) (usecase.ExternalPage, error) {
	if page > 1 {
		return usecase.ExternalPage{Current: page, Total: 1}, nil
	}
	return p.page, nil
}

func (p *stubProvider) FetchTeams(_ context.Context, _ int64, _ int) ([]usecase.ExternalTeam, error) {
	return p.teams, nil
}

type responseBody struct {
	Data  any `json:"data"`
	Error *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, jobToken string) (http.Handler, *memory.PlayerRepository) {
	t.Helper()

	logger := logging.NewNop()
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	teams := memory.NewTeamRepository(memory.SeedTeams())

	provider := &stubProvider{
		teams: []usecase.ExternalTeam{{ExternalID: 559, Name: "FCSB", Country: "Romania"}},
		page: usecase.ExternalPage{
			Current: 1,
			Total:   1,
			Records: []usecase.ExternalRecord{
				usecase.ExternalRecord(`{"player":{"id":501,"name":"A. Popescu","nationality":"Romania","age":25},"statistics":[{"team":{"id":559,"name":"FCSB"},"league":{"id":283},"games":{"appearences":3,"minutes":210,"position":"Attacker","rating":"6.9"},"goals":{"total":1,"assists":0}}]}`),
			},
		},
	}
	pacer := resilience.NewPacer()
	fetcher := usecase.NewPaginatedFetcher(provider, pacer, 0, 5, logger)
	engine := usecase.NewReconciliationEngine(players, id.NewPrefixedGenerator("ply"), nil)
	cursor := usecase.NewScheduleCursor(memory.NewSyncCursorStore(), 1, logger)
	syncService := usecase.NewSyncService(provider, fetcher, usecase.NewRecordMapper(), engine, cursor, teams, pacer, usecase.SyncConfig{
		Season: 2024,
		Units:  []usecase.Unit{{LeagueID: memory.LeagueIDLigaI, Name: "Liga I"}},
	}, logger)

	handler := NewHandler(usecase.NewPlayerService(players), usecase.NewTeamService(teams), syncService, logger)
	return NewRouter(handler, logger, true, []string{"*"}, jobToken, time.Minute), players
}

func serve(t *testing.T, router http.Handler, method, target, token string) (*httptest.ResponseRecorder, responseBody) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(""))
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body responseBody
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body.Error)
}

func TestListPlayers_FiltersByPosition(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodGet, "/v1/players?position=goalkeeper", "")

	require.Equal(t, http.StatusOK, rec.Code)
	items, ok := body.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "ply_seed_sava", items[0].(map[string]any)["id"])
}

func TestListPlayers_RejectsBadPaging(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	for _, target := range []string{"/v1/players?limit=abc", "/v1/players?limit=501", "/v1/players?offset=-1"} {
		rec, body := serve(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.NotNil(t, body.Error, target)
		assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status, target)
	}
}

func TestGetPlayer(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodGet, "/v1/players/ply_seed_olaru", "")
	require.Equal(t, http.StatusOK, rec.Code)
	item := body.Data.(map[string]any)
	assert.Equal(t, "D. Olaru", item["name"])
	assert.Equal(t, "FCSB", item["team"])

	rec, body = serve(t, router, http.MethodGet, "/v1/players/ply_missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Status)
}

func TestListTeams(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodGet, "/v1/teams?league=283", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Data.([]any), 2)

	rec, _ = serve(t, router, http.MethodGet, "/v1/teams", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalJobs_RequireToken(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodPost, "/v1/internal/jobs/sync", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)

	rec, _ = serve(t, router, http.MethodPost, "/v1/internal/jobs/sync", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	unconfigured, _ := newTestRouter(t, "")
	rec, _ = serve(t, unconfigured, http.MethodGet, "/v1/internal/sync/cursor", "anything")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInternalJobs_ScheduledSyncAdvancesCursor(t *testing.T) {
	router, players := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodGet, "/v1/internal/sync/cursor", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body.Data.(map[string]any)["found"])

	rec, body = serve(t, router, http.MethodPost, "/v1/internal/jobs/sync", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	report := body.Data.(map[string]any)
	assert.EqualValues(t, 1, report["inserted"])
	assert.EqualValues(t, 1, report["teams"])

	stored, found, err := players.GetByExternalID(context.Background(), 501)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "FCSB", stored.TeamName)

	rec, body = serve(t, router, http.MethodGet, "/v1/internal/sync/cursor", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	cursor := body.Data.(map[string]any)
	assert.Equal(t, true, cursor["found"])
	assert.EqualValues(t, 0, cursor["lastIndex"])
}

func TestInternalJobs_PriorityFeeds(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodPost, "/v1/internal/jobs/sync/topscorers/283", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body.Data.(map[string]any)["inserted"])

	rec, body = serve(t, router, http.MethodPost, "/v1/internal/jobs/sync/national-teams/774", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body.Data.(map[string]any)["updated"])

	rec, _ = serve(t, router, http.MethodPost, "/v1/internal/jobs/sync/topscorers/abc", testJobToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalJobs_InitialLoad(t *testing.T) {
	router, _ := newTestRouter(t, testJobToken)

	rec, body := serve(t, router, http.MethodPost, "/v1/internal/jobs/sync/initial", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	report := body.Data.(map[string]any)
	assert.Len(t, report["units"].([]any), 1)
	assert.Empty(t, report["failures"])
}
