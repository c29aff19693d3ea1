package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"defasagem/internal/store"
	"defasagem/pkg/contracts"
)

// ModelStatusProvider is the part of the model store health checks need.
type ModelStatusProvider interface {
	Load(ctx context.Context) (*store.Artifacts, error)
	Status() store.Status
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	models    ModelStatusProvider
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service over the model store.
func NewHealthService(version string, models ModelStatusProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		models:    models,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health. The service is "ok" while it
// serves, and "degraded" when the model is not loaded.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	st := hs.models.Status()
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]any{"model": st},
	}
	if !st.Loaded {
		status.Status = "degraded"
	}
	return status
}

// ReadinessCheck reports ready only when the model artifacts load.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]any),
	}

	if _, err := hs.models.Load(ctx); err != nil {
		status.Status = "not_ready"
		status.Services["model"] = ServiceHealth{Status: "not_ready", Message: err.Error()}
		hs.logger.WarnContext(ctx, "Readiness check failed", slog.String("error", err.Error()))
		return status
	}

	st := hs.models.Status()
	status.Services["model"] = ServiceHealth{
		Status:  "ready",
		Message: st.ModelName + " (" + st.ModelKind + ")",
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]any {
	info := contracts.GetVersionInfo()
	return map[string]any{
		"version":         hs.version,
		"api_version":     info.APIVersion,
		"artifact_format": info.ArtifactFormat,
		"build_time":      info.BuildTime,
		"git_commit":      info.GitCommit,
		"go_version":      info.GoVersion,
		"os":              info.OS,
		"arch":            info.Architecture,
		"uptime":          time.Since(hs.startTime).Seconds(),
		"start_time":      hs.startTime.Format(time.RFC3339),
	}
}
