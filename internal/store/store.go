package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v2"

	"defasagem/internal/config"
	"defasagem/internal/infrastructure"
	"defasagem/internal/model"
)

var (
	// ErrArtifactNotFound is returned when a model artifact file does not
	// exist. errors.Is(err, fs.ErrNotExist) also holds.
	ErrArtifactNotFound = errors.New("model artifact not found")
	// ErrInvalidArtifact is returned when an artifact exists but cannot be used.
	ErrInvalidArtifact = model.ErrInvalidArtifact
)

// ModelConfig is the training run's summary shipped next to the pipeline.
type ModelConfig struct {
	BestModel string  `yaml:"best_model" json:"best_model"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// Artifacts is the loaded pipeline with its config. It is shared
// read-only between requests.
type Artifacts struct {
	Pipeline *model.Pipeline
	Config   ModelConfig
	LoadedAt time.Time
}

// Status describes the store for health checks.
type Status struct {
	Loaded      bool      `json:"loaded"`
	ModelName   string    `json:"model_name,omitempty"`
	ModelKind   string    `json:"model_kind,omitempty"`
	Threshold   float64   `json:"threshold,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
}

// Store loads the model artifacts on first use and keeps them for the
// life of the process. A failed load is not remembered, so the next call
// tries again.
type Store struct {
	modelPath  string
	configPath string
	logger     *slog.Logger
	metrics    *infrastructure.Metrics

	group  singleflight.Group
	loaded atomic.Pointer[Artifacts]

	mu          sync.RWMutex
	lastErr     error
	lastAttempt time.Time
}

// New returns a store reading the two artifact files.
func New(modelPath, configPath string, logger *slog.Logger, metrics *infrastructure.Metrics) *Store {
	return &Store{
		modelPath:  modelPath,
		configPath: configPath,
		logger:     infrastructure.WithComponent(logger, "model_store"),
		metrics:    metrics,
	}
}

// NewFromConfig resolves the artifact paths from the paths configuration.
func NewFromConfig(paths config.PathsConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Store {
	return New(paths.ModelPath(), paths.ModelConfigPath(), logger, metrics)
}

// Load returns the artifacts, reading them if this is the first successful
// call. Concurrent first callers share a single read. ctx only bounds the
// wait; an abandoned read still completes and is cached.
func (s *Store) Load(ctx context.Context) (*Artifacts, error) {
	if a := s.loaded.Load(); a != nil {
		return a, nil
	}

	ch := s.group.DoChan("load", func() (any, error) {
		if a := s.loaded.Load(); a != nil {
			return a, nil
		}
		a, err := s.read()
		s.record(a, err)
		if err != nil {
			return nil, err
		}
		s.loaded.Store(a)
		return a, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Artifacts), nil
	}
}

// Status reports whether the artifacts are loaded and the last failure.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{LastAttempt: s.lastAttempt}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if a := s.loaded.Load(); a != nil {
		st.Loaded = true
		st.ModelName = a.Config.BestModel
		st.ModelKind = a.Pipeline.Classifier.Kind()
		st.Threshold = a.Config.Threshold
		st.LoadedAt = a.LoadedAt
		st.LastError = ""
	}
	return st
}

func (s *Store) record(a *Artifacts, err error) {
	s.mu.Lock()
	s.lastAttempt = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	ctx := context.Background()
	if err != nil {
		s.metrics.RecordModelLoadFailure(ctx)
		s.logger.ErrorContext(ctx, "Failed to load model artifacts",
			slog.String("model_path", s.modelPath),
			slog.String("config_path", s.configPath),
			slog.String("error", err.Error()))
		return
	}
	s.logger.InfoContext(ctx, "Model artifacts loaded",
		slog.String("model", a.Config.BestModel),
		slog.String("kind", a.Pipeline.Classifier.Kind()),
		slog.Float64("threshold", a.Config.Threshold),
		slog.Int("features", a.Pipeline.Classifier.NumFeatures()))
}

func (s *Store) read() (*Artifacts, error) {
	pipeline, err := ReadPipeline(s.modelPath)
	if err != nil {
		return nil, err
	}
	cfg, err := ReadModelConfig(s.configPath)
	if err != nil {
		return nil, err
	}
	return &Artifacts{Pipeline: pipeline, Config: cfg, LoadedAt: time.Now()}, nil
}

// ReadPipeline reads, validates and decodes a pipeline artifact.
func ReadPipeline(path string) (*model.Pipeline, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if err := ValidatePipelineJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

type rawModelConfig struct {
	BestModel string   `yaml:"best_model"`
	Threshold *float64 `yaml:"threshold"`
}

// ReadModelConfig reads the model config. threshold is required and must
// lie in [0, 1].
func ReadModelConfig(path string) (ModelConfig, error) {
	data, err := readArtifact(path)
	if err != nil {
		return ModelConfig{}, err
	}

	var raw rawModelConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return ModelConfig{}, fmt.Errorf("%s: %w: %v", path, ErrInvalidArtifact, err)
	}
	if raw.Threshold == nil {
		return ModelConfig{}, fmt.Errorf("%s: %w: threshold is missing", path, ErrInvalidArtifact)
	}
	if t := *raw.Threshold; t < 0 || t > 1 {
		return ModelConfig{}, fmt.Errorf("%s: %w: threshold %g outside [0, 1]", path, ErrInvalidArtifact, t)
	}
	return ModelConfig{BestModel: raw.BestModel, Threshold: *raw.Threshold}, nil
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrArtifactNotFound, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
