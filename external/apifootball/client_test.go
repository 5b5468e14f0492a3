package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/football-sync/internal/platform/resilience"
	"github.com/riskibarqy/football-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     "secret-key",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client := NewClient(cfg)
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client
}

func TestClient_FetchPage_DecodesRecordsAndPaging(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-apisports-key"))
		assert.Equal(t, "2599", r.URL.Query().Get("team"))
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"errors": []any{},
			"paging": map[string]any{"current": 2, "total": 3},
			"response": []any{
				map[string]any{"player": map[string]any{"id": 1001, "name": "D. Olaru"}},
				map[string]any{"player": map[string]any{"id": 1002, "name": "F. Tanase"}},
			},
		})
	}, nil)

	page, err := client.FetchPage(context.Background(), usecase.ResourcePlayers, map[string]string{"team": "2599", "season": "2024"}, 2)
	require.NoError(t, err)

	assert.Len(t, page.Records, 2)
	assert.Equal(t, 2, page.Current)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Errors)
	assert.Contains(t, string(page.Records[0]), `"D. Olaru"`)
}

func TestClient_FetchPage_FirstPageOmitsPageParam(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("page"))
		_, _ = w.Write([]byte(`{"errors":[],"paging":{"current":1,"total":1},"response":[]}`))
	}, nil)

	_, err := client.FetchPage(context.Background(), usecase.ResourceTopScorers, map[string]string{"league": "283"}, 1)
	require.NoError(t, err)
}

func TestClient_FetchPage_RateLimitPayloadIsNotAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"rateLimit":"Too many requests. Your rate limit is 10 requests per minute."},"response":[]}`))
	}, nil)

	page, err := client.FetchPage(context.Background(), usecase.ResourcePlayers, nil, 1)
	require.NoError(t, err)
	require.Len(t, page.Errors, 1)
	assert.Contains(t, page.Errors["rateLimit"], "Too many requests")
}

func TestClient_FetchPage_FlattensSquads(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/squads", r.URL.Path)
		_, _ = w.Write([]byte(`{"errors":[],"response":[{"team":{"id":774,"name":"Romania"},"players":[
			{"id":1,"name":"H. Moldovan","position":"Goalkeeper"},
			{"id":2,"name":"R. Dragusin","position":"Defender"}]}]}`))
	}, nil)

	page, err := client.FetchPage(context.Background(), usecase.ResourceSquads, map[string]string{"team": "774"}, 1)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, 1, page.Current)
	assert.Equal(t, 1, page.Total)

	var member struct {
		Team   struct{ Name string } `json:"team"`
		Player struct{ Name string } `json:"player"`
	}
	require.NoError(t, jsoniter.Unmarshal(page.Records[1], &member))
	assert.Equal(t, "Romania", member.Team.Name)
	assert.Equal(t, "R. Dragusin", member.Player.Name)
}

func TestClient_FetchTeams(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams", r.URL.Path)
		assert.Equal(t, "283", r.URL.Query().Get("league"))
		_, _ = w.Write([]byte(`{"errors":[],"response":[
			{"team":{"id":559,"name":"FCSB","code":"FCS","country":"Romania","national":false,"logo":"https://img/559.png"}},
			{"team":{"id":0,"name":"broken"}}]}`))
	}, nil)

	teams, err := client.FetchTeams(context.Background(), 283, 2024)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, usecase.ExternalTeam{ExternalID: 559, Name: "FCSB", Code: "FCS", Country: "Romania", LogoURL: "https://img/559.png"}, teams[0])
}

func TestClient_FetchTeams_RejectionIsError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"token":"Error/Missing application key."},"response":[]}`))
	}, nil)

	_, err := client.FetchTeams(context.Background(), 283, 2024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrProviderRejected))
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, nil)

	_, err := client.FetchTeams(context.Background(), 283, 2024)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	}, nil)

	_, err := client.FetchPage(context.Background(), usecase.ResourcePlayers, nil, 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "status=403")
	assert.False(t, strings.Contains(err.Error(), "secret-key"))
}

func TestClient_RapidAPIHeaders(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "api-football-v1.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
		assert.Empty(t, r.Header.Get("x-apisports-key"))
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, func(cfg *ClientConfig) {
		cfg.Host = "api-football-v1.p.rapidapi.com"
	})

	_, err := client.FetchTeams(context.Background(), 283, 2024)
	require.NoError(t, err)
}

func TestClient_CircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchPage(context.Background(), usecase.ResourcePlayers, nil, 1)
		require.Error(t, err)
	}

	_, err := client.FetchPage(context.Background(), usecase.ResourcePlayers, nil, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.Equal(t, int32(2), calls.Load())
}

func TestProviderErrors_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "empty array", raw: `[]`, want: 0},
		{name: "object", raw: `{"rateLimit":"too many","plan":"free"}`, want: 2},
		{name: "array of strings", raw: `["bad season"]`, want: 1},
		{name: "null", raw: `null`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got providerErrors
			require.NoError(t, got.UnmarshalJSON([]byte(tt.raw)))
			assert.Len(t, got, tt.want)
		})
	}
}
