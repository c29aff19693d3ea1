package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments. A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	PredictionsTotal      metric.Int64Counter
	PredictionProbability metric.Float64Histogram
	PredictionDuration    metric.Float64Histogram
	PredictionErrors      metric.Int64Counter
	ModelLoadFailures     metric.Int64Counter
}

// NewMetrics creates the application instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.PredictionsTotal, err = meter.Int64Counter(
		"predictions_total",
		metric.WithDescription("Total number of risk predictions by risk class"),
	); err != nil {
		return nil, err
	}

	if m.PredictionProbability, err = meter.Float64Histogram(
		"prediction_probability",
		metric.WithDescription("Predicted probability of lag risk"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	); err != nil {
		return nil, err
	}

	if m.PredictionDuration, err = meter.Float64Histogram(
		"prediction_duration_seconds",
		metric.WithDescription("Time spent preparing, scoring and explaining one record"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.PredictionErrors, err = meter.Int64Counter(
		"prediction_errors_total",
		metric.WithDescription("Total number of failed predictions or explanations"),
	); err != nil {
		return nil, err
	}

	if m.ModelLoadFailures, err = meter.Int64Counter(
		"model_load_failures_total",
		metric.WithDescription("Total number of failed model artifact loads"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordHTTPRequest records one finished request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TrackActiveRequest adjusts the in-flight gauge by delta.
func (m *Metrics) TrackActiveRequest(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}

// RecordPrediction records a successful prediction.
func (m *Metrics) RecordPrediction(ctx context.Context, highRisk bool, probability float64, duration time.Duration) {
	if m == nil {
		return
	}
	risk := "low"
	if highRisk {
		risk = "high"
	}
	m.PredictionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("risk", risk)))
	m.PredictionProbability.Record(ctx, probability)
	m.PredictionDuration.Record(ctx, duration.Seconds())
}

// RecordPredictionError counts a failure at stage ("predict" or "explain").
func (m *Metrics) RecordPredictionError(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.PredictionErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordModelLoadFailure counts a failed artifact load.
func (m *Metrics) RecordModelLoadFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.ModelLoadFailures.Add(ctx, 1)
}
