package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/football-sync/internal/platform/logging"
)

func slowJob(d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("done"))
	})
}

func startServer(t *testing.T, handler http.Handler, writeTimeout time.Duration) *httptest.Server {
	t.Helper()

	srv := httptest.NewUnstartedServer(handler)
	srv.Config.WriteTimeout = writeTimeout
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func TestJobDeadline_OutlivesServerWriteTimeout(t *testing.T) {
	logger := logging.NewNop()
	handler := RequestTracing(RequestLogging(logger, JobDeadline(5*time.Second, slowJob(300*time.Millisecond))))
	srv := startServer(t, handler, 100*time.Millisecond)

	resp, err := srv.Client().Post(srv.URL, "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "done" {
		t.Fatalf("expected completed job response, got %d %q", resp.StatusCode, string(body))
	}
}

func TestJobDeadline_WithoutItTheServerDropsTheResponse(t *testing.T) {
	srv := startServer(t, slowJob(300*time.Millisecond), 100*time.Millisecond)

	resp, err := srv.Client().Post(srv.URL, "application/json", nil)
	if err == nil {
		_, err = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected the write timeout to break the response")
	}
}

func TestJobDeadline_BoundsJobContext(t *testing.T) {
	handler := JobDeadline(50*time.Millisecond, slowJob(time.Second))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected status %d, got %d", http.StatusGatewayTimeout, rec.Code)
	}
}
