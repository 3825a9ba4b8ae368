package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/menezmethod/helpdesk/internal/account"
	"github.com/menezmethod/helpdesk/internal/config"
	"github.com/menezmethod/helpdesk/internal/handler"
	"github.com/menezmethod/helpdesk/internal/infra"
	"github.com/menezmethod/helpdesk/internal/logging"
	"github.com/menezmethod/helpdesk/internal/middleware"
	"github.com/menezmethod/helpdesk/internal/observability"
	"github.com/menezmethod/helpdesk/internal/server"
	"github.com/menezmethod/helpdesk/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional, env vars work without it)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading HELPDESK_* variables")
	flag.Parse()

	// Variables already set in the environment win over the dotenv file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load env file", "path", *envFile, "err", err)
		os.Exit(1)
	}

	// Load configuration: defaults -> YAML file -> env vars.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, cfg.Log.CloudFormat, cfg.Observability.OTelServiceName)

	ctx := context.Background()

	// Session store.
	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		rdb := infra.NewRedis(cfg.Redis)
		defer rdb.Close()
		store = session.NewRedisStore(rdb, "")
		logger.Info("session store ready", "store", "redis", "addr", cfg.Redis.Addr)
	default:
		ms := session.NewMemoryStore()
		defer ms.Stop()
		store = ms
		logger.Warn("sessions kept in memory; they are lost on restart and not shared between instances")
	}
	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	// User directory.
	dbCtx, cancelDB := context.WithTimeout(ctx, 10*time.Second)
	pool, err := infra.NewDB(dbCtx, cfg.Database.DSN)
	cancelDB()
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer limiter.Stop()

	rt, err := server.NewRouter(cfg, server.Deps{
		Sessions:  sessions,
		Directory: account.NewDirectory(pool),
		Limiter:   limiter,
		Checks: []handler.Check{
			{Name: "sessions", Pinger: sessions},
			{Name: "database", Pinger: pool},
		},
	}, logger)
	if err != nil {
		logger.Error("invalid route configuration", "err", err)
		os.Exit(1)
	}

	srv := server.New(cfg, rt, logger)

	// Optional OpenTelemetry tracing: wrap handler so all requests are traced.
	var tp *observability.TracerProvider
	if cfg.Observability.OTelEnabled {
		tp, err = observability.NewTracerProvider(ctx, cfg.Observability.OTelEndpoint, cfg.Observability.OTelServiceName)
		if err != nil {
			logger.Error("otel tracer provider failed", "err", err)
			os.Exit(1)
		}
		srv.Handler = observability.HTTPHandler(srv.Handler, cfg.Observability.OTelServiceName)
		logger.Info("opentelemetry tracing enabled", "endpoint", cfg.Observability.OTelEndpoint)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		logger.Error("server error", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if tp != nil {
		_ = tp.Shutdown(shutdownCtx)
	}
	server.Shutdown(shutdownCtx, srv, logger)
	logger.Info("server stopped")
}
