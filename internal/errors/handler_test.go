package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defasagem/internal/infrastructure"
	"defasagem/internal/services"
	"defasagem/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)

	assert.NotNil(t, handler)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "Invalid request format",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("decode: %w", ErrRowNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeRowNotFound,
		},
		{
			name:       "model unavailable",
			err:        fmt.Errorf("%w: artifact not found", services.ErrModelUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeModelUnavailable,
			wantDetail: services.MessageModelUnavailable,
		},
		{
			name:       "prediction failure hides its cause",
			err:        fmt.Errorf("%w: column \"mat\": cannot convert", services.ErrPredictionFailed),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypePredictionFailed,
			wantDetail: services.MessageTechnicalError,
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: record is empty", services.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("header row missing", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnprocessable,
			wantDetail: "header row missing",
		},
		{
			name:       "not found app error",
			err:        fmt.Errorf("import: %w", NewNotFoundError("Sheet", nil).WithContext("sheet", "2024")),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "Sheet not found",
		},
		{
			name:       "generic error",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-123"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/predict", body["instance"])
			assert.Equal(t, "trace-123", body["trace_id"])
			assert.NotContains(t, body, "stack")
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rec := httptest.NewRecorder()

	NewErrorHandler(logger, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, handler.Count())
}

func TestErrorHandler_LogLevels(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/model", nil)

	handler.HandleError(httptest.NewRecorder(), req, ErrNotFound)
	handler.HandleError(httptest.NewRecorder(), req, fmt.Errorf("boom"))

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
	testutil.AssertLogAttr(t, logs, "component", "error_handler")
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	rec := httptest.NewRecorder()

	err := NewValidationErrors([]ValidationError{{Field: "idade", Message: "idade must be greater than or equal to 6"}})
	handler.HandleError(rec, httptest.NewRequest(http.MethodPost, "/api/v1/predict", nil), err)

	body := decodeProblem(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	errs, ok := details["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "idade", errs[0].(map[string]any)["field"])
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)
	rec := httptest.NewRecorder()

	handler.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "nil map", body["panic"])
	assert.Contains(t, body, "stack")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}
