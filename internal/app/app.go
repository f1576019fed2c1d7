package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"debtboard/internal/config"
	apperrors "debtboard/internal/errors"
	"debtboard/internal/infrastructure"
	custommw "debtboard/internal/middleware"
	"debtboard/internal/services"
	handlers "debtboard/internal/transport/http"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// Application is the dependency container for the dashboard server.
type Application struct {
	Config      *config.Config
	Paths       *config.Paths
	Router      *chi.Mux
	Server      *http.Server
	DebtService *services.DebtService
	Logger      *slog.Logger
}

// New wires the application: config, logging, services, router. The
// canonical table is loaded here; an entirely failed load aborts startup
// before the server ever listens.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}

	app := &Application{
		Config:      cfg,
		Paths:       paths,
		DebtService: services.NewDebtService(paths, logger),
		Logger:      logger,
	}

	if err := app.DebtService.Reload(context.Background(), false); err != nil {
		return nil, fmt.Errorf("initial data load failed: %w", err)
	}

	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (app *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	errorHandler := apperrors.NewErrorHandler(app.Logger, false)
	metrics := custommw.NewMetrics(prometheus.DefaultRegisterer)

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(app.Logger))
	r.Use(custommw.Recoverer(app.Logger))
	r.Use(metrics.Handler)
	r.Use(custommw.CORS(app.Config.Server.AllowedOrigins))
	if app.Config.Limits.RateLimitEnabled {
		limiter := custommw.NewRateLimiter(app.Config.Limits.RPS, app.Config.Limits.Burst, app.Logger)
		r.Use(limiter.Handler)
	}

	debtHandler := handlers.NewDebtHandler(app.DebtService, app.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(app.DebtService, app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/", debtHandler.Routes())
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
			render.JSON(w, req, map[string]string{"version": Version})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", app.serveDashboard)

	return r
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening",
			slog.Int("port", app.Config.Server.Port),
			slog.String("version", Version))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		app.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}
