package http

import (
	"context"

	"defasagem/internal/features"
	"defasagem/internal/services"
	"defasagem/pkg/contracts/domain"
)

// PredictionServiceInterface defines the prediction operations the handlers need
type PredictionServiceInterface interface {
	Predict(ctx context.Context, raw features.Record) (*domain.Prediction, error)
	Normalize(ctx context.Context, raw features.Record) features.Record
	Translate(names []string) []string
	Model(ctx context.Context) (*services.ModelSummary, error)
}
