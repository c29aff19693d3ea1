package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "defasagem/internal/errors"
	"defasagem/internal/shared/testutil"
	api "defasagem/pkg/contracts/api/v1"
)

func newTestValidator(t *testing.T) *Validator {
	logger, _ := testutil.NewTestLogger(t)
	return NewValidator(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidatorDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantFields []string
	}{
		{
			name:   "valid request",
			body:   `{"idade": 12, "genero": "Menina", "fase_ideal": "Fase 3", "mat": 7.5}`,
			wantOK: true,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"idade": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"idade": 12, "genero": "Menina", "fase_ideal": "Fase 3", "shoe_size": 40}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "out of range values",
			body:       `{"idade": 4, "genero": "Menina", "fase_ideal": "Fase 9", "mat": 11}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"idade", "fase_ideal", "mat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst api.PredictRequest
			ok := v.DecodeJSON(rec, req, &dst)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, 12, dst.Idade)
				require.NotNil(t, dst.Mat)
				assert.Equal(t, 7.5, *dst.Mat)
				return
			}
			assert.Equal(t, tt.wantStatus, rec.Code)

			if len(tt.wantFields) > 0 {
				var body struct {
					Details apierrors.ValidationErrors `json:"details"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				var fields []string
				for _, e := range body.Details.Errors {
					fields = append(fields, e.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
			}
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator("application/json")(okHandler)

	tests := []struct {
		method, contentType string
		want                int
	}{
		{http.MethodGet, "", http.StatusOK},
		{http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{http.MethodPost, "", http.StatusBadRequest},
		{http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/", nil)
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, "%s %q", tt.method, tt.contentType)
	}
}

func TestQueryParamValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(apierrors.NewErrorHandler(logger, false))

	tests := []struct {
		query  string
		want   int
		wantOK bool
	}{
		{"", 10, true},
		{"max_display=5", 5, true},
		{"max_display=0", 0, false},
		{"max_display=abc", 0, false},
		{"max_display=51", 0, false},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil), "max_display", 1, 50, 10)
		assert.Equal(t, tt.wantOK, ok, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	}
}
