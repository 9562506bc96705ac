// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/scribe/internal/api"
	"github.com/starford/scribe/internal/mcpserver"
	"github.com/starford/scribe/internal/noteservice"
	"github.com/starford/scribe/internal/sse"
	"github.com/starford/scribe/internal/store"
	pkgconfig "github.com/starford/scribe/pkg/config"
)

var errConfigRequired = errors.New("config is required")

// Run starts the HTTP service with the given options and blocks until ctx is
// cancelled or SIGINT/SIGTERM is received.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Structured JSON logger; the level can be changed at runtime.
	var level slog.LevelVar
	level.Set(cfg.App.Level())
	logger := newLogger(os.Stdout, &level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Any("cors_allowed_origins", cfg.CORS.AllowedOrigins),
		slog.Bool("events_enabled", cfg.Events.Enabled),
		slog.String("log_level", level.Level().String()))

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	var (
		publisher noteservice.Publisher
		events    http.Handler
	)
	if cfg.Events.Enabled {
		broker := sse.NewBroker(cfg.Events.ClientBuffer)
		defer broker.Close()
		publisher = broker
		events = broker
	}

	svc := noteservice.NewService(db, publisher)
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRootRouter(db, api.NewRouter(svc, cfg.CORS.AllowedOrigins, events)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	if app.configFile != "" {
		g.Go(func() error {
			err := pkgconfig.Watch(gCtx, app.configFile, 0, logger, func() {
				reloadLogLevel(app.configFile, &level, logger)
			})
			if err != nil {
				// Hot reload is optional; keep serving without it.
				logger.Warn("config watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the note tools over stdio. Logs go to stderr because stdout
// carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	var level slog.LevelVar
	level.Set(cfg.App.Level())
	logger := newLogger(os.Stderr, &level)
	slog.SetDefault(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	logger.Info("MCP server starting", slog.String("sqlite_path", cfg.SQLite.Path))
	srv := mcpserver.New(noteservice.NewService(db, nil), app.version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Migrate creates the database and applies the schema, then exits.
func Migrate(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	db, err := store.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	slog.Info("schema applied", slog.String("sqlite_path", app.config.SQLite.Path))
	return db.Close()
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRootRouter wraps the API with request middleware and health probes.
func newRootRouter(db api.Pinger, apiRouter http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", api.Live)
	r.Get("/health/ready", api.Ready(db))

	r.Mount("/", apiRouter)
	return r
}

// reloadLogLevel re-reads the config file and applies its log level. Other
// settings need a restart.
func reloadLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config reload failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}
	if next := cfg.App.Level(); next != level.Level() {
		level.Set(next)
		logger.Info("log level changed", slog.String("log_level", next.String()))
	}
}
