package app

import (
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	promclient "github.com/prometheus/client_golang/prometheus"

	"defasagem/internal/config"
	apierrors "defasagem/internal/errors"
	"defasagem/internal/infrastructure"
	customMiddleware "defasagem/internal/middleware"
	"defasagem/internal/services"
	"defasagem/internal/store"
	handlers "defasagem/internal/transport/http"
	"defasagem/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config            *config.Config
	Router            *chi.Mux
	Server            *http.Server
	Logger            *slog.Logger
	Store             *store.Store
	PredictionService *services.PredictionService
	HealthService     *services.HealthService
	OTelProviders     *infrastructure.OTelProviders
	Metrics           *infrastructure.Metrics
}

// Option customizes an Application before it is wired.
type Option func(*options)

type options struct {
	registry *promclient.Registry
}

// WithPrometheusRegistry registers the metrics collector on reg instead of
// the global default registry.
func WithPrometheusRegistry(reg *promclient.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// NewApplication loads the configuration, initializes the process-wide
// logger and wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	return New(cfg, logger)
}

// New wires an application from an explicit configuration and logger.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	otelCfg := infrastructure.NewOTelConfig(cfg.Telemetry)
	otelCfg.Registry = o.registry
	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	a.Store = store.NewFromConfig(a.Config.Paths, a.Logger, a.Metrics)

	a.PredictionService = services.NewPredictionService(
		a.Store,
		a.Config.Prediction,
		a.Logger,
		a.Metrics,
		a.OTelProviders.Tracer,
	)
	a.HealthService = services.NewHealthService(contracts.Version, a.Store, a.Logger)

	a.Logger.Info("Services initialized",
		slog.String("model_path", a.Config.Paths.ModelPath()),
		slog.String("model_config_path", a.Config.Paths.ModelConfigPath()),
		slog.Bool("debug_mapping", a.Config.Prediction.Debug))
	return nil
}

// setupRouter builds the middleware chain and mounts the handlers.
// Order: RequestID → RealIP → Telemetry → Logger → Recoverer → headers → CORS → rate limit.
func (a *Application) setupRouter() error {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	validator := customMiddleware.NewValidator(a.Logger, errorHandler)

	formHandler, err := handlers.NewFormHandler(a.PredictionService, validator, a.Logger)
	if err != nil {
		return err
	}
	predictionHandler := handlers.NewPredictionHandler(
		a.PredictionService, validator, errorHandler, a.Logger, a.Config.Server.MaxUploadBytes)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler)

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Telemetry(a.OTelProviders.Tracer, a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	// Scrapes stay outside the timeout and compression group.
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.BodyLimit(a.Config.Server.MaxUploadBytes))
		r.Use(customMiddleware.Compress(flate.DefaultCompression))

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			r.Mount("/"+contracts.APIVersion, predictionHandler.Routes())
		})

		r.Mount("/", formHandler.Routes())
	})

	a.Router = r
	return nil
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start loads the model and starts serving. A model that fails to load
// leaves the service up in degraded mode. Listener failures call cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	if _, err := a.Store.Load(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Model not loaded, serving in degraded mode",
			slog.String("error", err.Error()))
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", "http://"+ln.Addr().String()))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	return a.Stop(ctx)
}
