package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "defasagem/internal/errors"
	"defasagem/internal/services"
	"defasagem/internal/shared/testutil"
	"defasagem/internal/store"
)

type stubModels struct {
	err    error
	status store.Status
}

func (s *stubModels) Load(ctx context.Context) (*store.Artifacts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &store.Artifacts{}, nil
}

func (s *stubModels) Status() store.Status { return s.status }

func newHealthHandler(t *testing.T, models services.ModelStatusProvider) *HealthHandler {
	logger, _ := testutil.NewTestLogger(t)
	return NewHealthHandler(services.NewHealthService("v1.0.0-test", models, logger), logger)
}

func TestHealthHandler(t *testing.T) {
	loaded := &stubModels{status: store.Status{Loaded: true, ModelName: "RandomForest", ModelKind: "random_forest"}}
	missing := &stubModels{err: store.ErrArtifactNotFound}

	tests := []struct {
		name       string
		models     *stubModels
		handler    func(h *HealthHandler) http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{"health ok", loaded, func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck }, http.StatusOK, "ok"},
		{"health degraded", missing, func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck }, http.StatusOK, "degraded"},
		{"ready", loaded, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusOK, "ready"},
		{"not ready", missing, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusServiceUnavailable, "not_ready"},
		{"alive without model", missing, func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck }, http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthHandler(t, tt.models)

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, "v1.0.0-test", body.Version)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := newHealthHandler(t, &stubModels{})

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "v1.0.0-test", body["version"])
	assert.Contains(t, body, "go_version")
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("defasagem_predictions_total 1\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "predictions_total")
	})

}
