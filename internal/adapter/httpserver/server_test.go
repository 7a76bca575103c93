package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestecon/forest-rents/internal/adapter/httpserver"
)

type stubStatus struct {
	status httpserver.StageStatus
	err    error
}

func (s *stubStatus) PipelineStatus(_ context.Context) (httpserver.StageStatus, error) {
	return s.status, s.err
}

func newTestServer(status httpserver.StageStatus, err error) *httpserver.Server {
	return httpserver.NewServer(":0", &stubStatus{status: status, err: err}, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(httpserver.StageStatus{}, errors.New("no pipeline stage has completed"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReportsCompletedStage(t *testing.T) {
	srv := newTestServer(httpserver.StageStatus{Stage: "combine", Rows: 12500}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "combine", body["stage"])
}

func TestReadyzReturns503BeforeFirstStage(t *testing.T) {
	srv := newTestServer(httpserver.StageStatus{}, errors.New("no pipeline stage has completed"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no pipeline stage has completed", body["error"])
}

func TestStatuszPayload(t *testing.T) {
	completed := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	srv := newTestServer(httpserver.StageStatus{
		Stage: "estimate", Rows: 4050, CompletedAt: completed,
	}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/statusz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body httpserver.StageStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "estimate", body.Stage)
	assert.Equal(t, 4050, body.Rows)
	assert.Equal(t, completed, body.CompletedAt)

	t.Run("503 before first stage", func(t *testing.T) {
		srv := newTestServer(httpserver.StageStatus{}, errors.New("no pipeline stage has completed"))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statusz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(httpserver.StageStatus{Stage: "panel"}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
