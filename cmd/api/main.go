package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PratikDhanave/iss-tracker-service/internal/config"
	"github.com/PratikDhanave/iss-tracker-service/internal/exposure"
	"github.com/PratikDhanave/iss-tracker-service/internal/httpserver"
	"github.com/PratikDhanave/iss-tracker-service/internal/poller"
	"github.com/PratikDhanave/iss-tracker-service/internal/store"
	"github.com/PratikDhanave/iss-tracker-service/internal/telemetry"
)

// main boots the service: config → store → schema → poller → HTTP server,
// and on SIGINT/SIGTERM unwinds in reverse, reconciling the exposure log last.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := telemetry.NewClient(cfg.TelemetryURL, cfg.TelemetryTimeout)
	p := poller.New(client, st, poller.Config{Interval: cfg.PollInterval}, logger.With("component", "poller"))
	p.Start(ctx)

	windows := exposure.NewService(st, nil)
	router := httpserver.NewRouter(cfg, st, windows, logger.With("component", "http"))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server started",
			"addr", cfg.HTTPAddr,
			"store", cfg.StoreDriver,
			"telemetry_url", client.SourceURL(),
			"poll_interval_seconds", cfg.PollInterval.Seconds(),
			"write_auth_enabled", len(cfg.APIKeys) > 0,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	p.Stop()

	// Runs only on graceful termination; a crash can still leave a dangling start.
	reconcileExposures(windows, reconcileTimeout, logger)

	logger.Info("server stopped")
}

// reconcileTimeout bounds shutdown reconciliation. It is separate from the HTTP
// drain deadline so a slow drain cannot starve it.
const reconcileTimeout = 3 * time.Second

func reconcileExposures(windows *exposure.Service, timeout time.Duration, logger *slog.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	removed, err := windows.Reconcile(ctx)
	if err != nil {
		logger.Error("sun exposure reconciliation failed", "error", err)
		return false
	}
	if removed {
		logger.Info("removed dangling sun exposure start")
	}
	return removed
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("using in-memory store; history is lost on restart")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		return nil, err
	}

	// Ensure required tables exist so `docker compose up --build` is enough.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
