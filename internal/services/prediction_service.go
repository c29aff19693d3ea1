package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"defasagem/internal/config"
	"defasagem/internal/features"
	"defasagem/internal/infrastructure"
	"defasagem/internal/model"
	"defasagem/internal/store"
	"defasagem/pkg/contracts/domain"
)

// ArtifactLoader provides the trained pipeline and its config.
type ArtifactLoader interface {
	Load(ctx context.Context) (*store.Artifacts, error)
}

// ModelSummary describes the active model.
type ModelSummary struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Threshold     float64   `json:"threshold"`
	Explainable   bool      `json:"explainable"`
	Features      []string  `json:"features"`
	FeatureLabels []string  `json:"feature_labels"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// PredictionService prepares a student record, scores it and explains the score.
type PredictionService struct {
	loader  ArtifactLoader
	cfg     config.PredictionConfig
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	tracer  trace.Tracer
}

// NewPredictionService creates the service. metrics may be nil; a nil
// tracer uses the global provider.
func NewPredictionService(loader ArtifactLoader, cfg config.PredictionConfig, logger *slog.Logger, metrics *infrastructure.Metrics, tracer trace.Tracer) *PredictionService {
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	if cfg.MaxDisplay <= 0 {
		cfg.MaxDisplay = model.DefaultMaxDisplay
	}
	return &PredictionService{
		loader:  loader,
		cfg:     cfg,
		logger:  infrastructure.WithComponent(logger, "prediction_service"),
		metrics: metrics,
		tracer:  tracer,
	}
}

// Predict scores one raw record. Missing artifacts yield ErrModelUnavailable
// and scoring failures ErrPredictionFailed. A failed explanation does not
// fail the prediction; it is reported in Explanation.Error instead.
func (s *PredictionService) Predict(ctx context.Context, raw features.Record) (*domain.Prediction, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "prediction.predict")
	defer span.End()

	artifacts, err := s.loader.Load(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Prediction requested without a loaded model",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	prepared := features.Prepare(raw)

	probs, err := artifacts.Pipeline.PredictProba(prepared)
	if err == nil && (len(probs) != 2 || math.IsNaN(probs[1])) {
		err = fmt.Errorf("classifier returned %v", probs)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordPredictionError(ctx, "predict")
		s.logger.ErrorContext(ctx, "Prediction failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}

	probability := probs[1]
	threshold := artifacts.Config.Threshold
	highRisk := probability >= threshold

	pred := &domain.Prediction{
		ID:          uuid.New().String(),
		Probability: probability,
		Threshold:   threshold,
		HighRisk:    highRisk,
		Model: domain.ModelInfo{
			Name: artifacts.Config.BestModel,
			Kind: artifacts.Pipeline.Classifier.Kind(),
		},
		Prepared:  prepared.Map(),
		CreatedAt: time.Now().UTC(),
	}
	if highRisk {
		pred.Risk = domain.RiskHigh
		pred.Headline = HeadlineHighRisk
		pred.Recommendation = RecommendationHighRisk
	} else {
		pred.Risk = domain.RiskLow
		pred.Headline = HeadlineLowRisk
		pred.Recommendation = RecommendationLowRisk
	}

	explanation, err := s.Explain(ctx, artifacts.Pipeline, prepared)
	if err != nil {
		s.metrics.RecordPredictionError(ctx, "explain")
		s.logger.WarnContext(ctx, "Explanation failed", slog.String("error", err.Error()))
	}
	pred.Explanation = explanation

	span.SetAttributes(
		attribute.Float64("prediction.probability", probability),
		attribute.Bool("prediction.high_risk", highRisk),
		attribute.String("model.kind", pred.Model.Kind),
	)
	s.metrics.RecordPrediction(ctx, highRisk, probability, time.Since(start))
	s.logger.InfoContext(ctx, "Prediction completed",
		slog.String("prediction_id", pred.ID),
		slog.Float64("probability", probability),
		slog.Float64("threshold", threshold),
		slog.String("risk", string(pred.Risk)),
		slog.Bool("explained", explanation.Supported && explanation.Error == ""),
		slog.Duration("duration", time.Since(start)))

	return pred, nil
}

// Explain attributes the pipeline's output for a prepared record. Models
// without attribution support get an explanation carrying a notice and no
// error. On failure the returned explanation carries a user-facing message
// and the error wraps ErrExplanationFailed.
func (s *PredictionService) Explain(ctx context.Context, pipeline *model.Pipeline, prepared features.Record) (*domain.Explanation, error) {
	_, span := s.tracer.Start(ctx, "prediction.explain")
	defer span.End()

	exp, err := s.explain(pipeline, prepared)
	if errors.Is(err, model.ErrNotAttributable) {
		return &domain.Explanation{Supported: false, Notice: NoticeLinearModel}, nil
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return &domain.Explanation{Supported: true, Error: MessageExplanationError},
			fmt.Errorf("%w: %w", ErrExplanationFailed, err)
	}
	return exp, nil
}

func (s *PredictionService) explain(pipeline *model.Pipeline, prepared features.Record) (*domain.Explanation, error) {
	x, attribution, err := pipeline.Attribute(prepared)
	if err != nil {
		return nil, err
	}

	names := pipeline.FeatureNamesOut()
	labels := features.TranslateFeatureNames(names)
	steps, err := model.Waterfall(names, labels, x, attribution, s.cfg.MaxDisplay)
	if err != nil {
		return nil, err
	}

	exp := &domain.Explanation{
		Supported:   true,
		Space:       string(attribution.Space),
		BaseValue:   attribution.BaseValue,
		OutputValue: attribution.Output,
		Steps:       make([]domain.WaterfallStep, len(steps)),
	}
	for i, st := range steps {
		exp.Steps[i] = domain.WaterfallStep{
			Feature:      st.Feature,
			Label:        st.Label,
			Value:        st.Value,
			Contribution: st.Contribution,
			Start:        st.Start,
			End:          st.End,
			Aggregated:   st.Aggregated,
		}
	}

	if s.cfg.Debug {
		exp.Mapping = make([]domain.FeatureMapping, len(names))
		for i := range names {
			exp.Mapping[i] = domain.FeatureMapping{Technical: names[i], Translated: labels[i], Value: x[i]}
		}
	}
	return exp, nil
}

// Normalize runs the feature preparation alone, without a model.
func (s *PredictionService) Normalize(ctx context.Context, raw features.Record) features.Record {
	prepared := features.Prepare(raw)
	s.logger.DebugContext(ctx, "Record normalized", slog.Int("columns", len(prepared)))
	return prepared
}

// Translate maps technical feature names to display labels.
func (s *PredictionService) Translate(names []string) []string {
	return features.TranslateFeatureNames(names)
}

// Model describes the loaded model, loading it if needed.
func (s *PredictionService) Model(ctx context.Context) (*ModelSummary, error) {
	artifacts, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	names := artifacts.Pipeline.FeatureNamesOut()
	return &ModelSummary{
		Name:          artifacts.Config.BestModel,
		Kind:          artifacts.Pipeline.Classifier.Kind(),
		Threshold:     artifacts.Config.Threshold,
		Explainable:   artifacts.Pipeline.Explainable(),
		Features:      names,
		FeatureLabels: features.TranslateFeatureNames(names),
		LoadedAt:      artifacts.LoadedAt,
	}, nil
}
