package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "defasagem/internal/errors"
	"defasagem/internal/features"
	"defasagem/internal/middleware"
	"defasagem/internal/services"
	"defasagem/internal/shared/testutil"
	"defasagem/pkg/contracts/domain"
)

// MockPredictionService is a mock implementation of PredictionServiceInterface
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Predict(ctx context.Context, raw features.Record) (*domain.Prediction, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func (m *MockPredictionService) Normalize(ctx context.Context, raw features.Record) features.Record {
	args := m.Called(raw)
	return args.Get(0).(features.Record)
}

func (m *MockPredictionService) Translate(names []string) []string {
	args := m.Called(names)
	return args.Get(0).([]string)
}

func (m *MockPredictionService) Model(ctx context.Context) (*services.ModelSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ModelSummary), args.Error(1)
}

func newTestRouter(t *testing.T, svc PredictionServiceInterface) http.Handler {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidator(logger, errorHandler)

	form, err := NewFormHandler(svc, validator, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/v1", NewPredictionHandler(svc, validator, errorHandler, logger, 1<<20).Routes())
	r.Mount("/", form.Routes())
	return r
}

func fptr(v float64) *float64 { return &v }

func highRiskPrediction() *domain.Prediction {
	return &domain.Prediction{
		ID:             "pred-1",
		Probability:    0.8,
		Threshold:      0.5,
		Risk:           domain.RiskHigh,
		HighRisk:       true,
		Headline:       services.HeadlineHighRisk,
		Recommendation: services.RecommendationHighRisk,
		Model:          domain.ModelInfo{Name: "RandomForest", Kind: "random_forest"},
		Explanation: &domain.Explanation{
			Supported:   true,
			Space:       "probability",
			BaseValue:   0.4,
			OutputValue: 0.8,
			Steps: []domain.WaterfallStep{
				{Feature: "num__idade", Label: "Idade do Aluno", Value: fptr(15), Contribution: 0.3, Start: 0.5, End: 0.8},
				{Feature: "num__media_academica", Label: "Média Acadêmica (Mat, Por, Ing)", Value: fptr(3.1667), Contribution: 0.1, Start: 0.4, End: 0.5},
			},
			Mapping: []domain.FeatureMapping{
				{Technical: "num__idade", Translated: "Idade do Aluno", Value: 15},
			},
		},
	}
}

func lowRiskLinearPrediction() *domain.Prediction {
	return &domain.Prediction{
		ID:             "pred-2",
		Probability:    0.1234,
		Threshold:      0.5,
		Risk:           domain.RiskLow,
		Headline:       services.HeadlineLowRisk,
		Recommendation: services.RecommendationLowRisk,
		Model:          domain.ModelInfo{Name: "LogisticRegression", Kind: "logistic_regression"},
		Explanation:    &domain.Explanation{Supported: false, Notice: services.NoticeLinearModel},
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, target, field string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "alunos.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
