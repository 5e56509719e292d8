// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"govscheme-workers/internal/audit"
	"govscheme-workers/internal/catalog"
	"govscheme-workers/internal/common/camunda"
	"govscheme-workers/internal/common/config"
	"govscheme-workers/internal/common/database"
	gateway "govscheme-workers/internal/common/http"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/observability"
	"govscheme-workers/internal/session"

	// Assistant
	scm "govscheme-workers/internal/workers/assistant/send-chat-message"

	// Reference data
	exc "govscheme-workers/internal/workers/reference/explore-catalog"

	// Scheme discovery
	cls "govscheme-workers/internal/workers/scheme/classify-schemes"
	fr "govscheme-workers/internal/workers/scheme/fetch-recommendations"
	flr "govscheme-workers/internal/workers/scheme/filter-results"
	sd "govscheme-workers/internal/workers/scheme/search-directory"

	// Session
	nv "govscheme-workers/internal/workers/session/navigate-view"
	rs "govscheme-workers/internal/workers/session/reset-session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
	}, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Backing stores ---
	conns, err := database.Open(cfg)
	if err != nil {
		zapLog.Fatal("failed to open backing stores", zap.Error(err))
	}
	defer conns.Close()

	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, "backing store connection", log, func(ctx context.Context) error {
		var errs []error
		for name, err := range conns.Ping(ctx) {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return errors.Join(errs...)
	})
	if err != nil {
		zapLog.Fatal("backing stores unreachable after retries", zap.Error(err))
	}
	zapLog.Info("Backing stores connected", zap.Strings("stores", conns.Names()))

	opts := session.Options{
		Observer:      obs,
		MaxChatTurns:  cfg.Chat.MaxTurns,
		StrictProfile: cfg.Session.StrictProfile,
	}
	if conns.Postgres != nil {
		recorder := audit.NewRecorder(conns.Postgres.DB, cfg.Audit.Table)
		if err := recorder.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("failed to prepare audit table", zap.Error(err))
		}
		opts.Audit = recorder
	}
	if conns.Elasticsearch != nil {
		indexer := catalog.NewIndexer(conns.Elasticsearch.Client, cfg.Catalog.Index)
		if err := indexer.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("failed to prepare catalog index", zap.Error(err))
		}
		opts.Catalog = indexer
	}

	var store session.Store
	if conns.Redis != nil {
		store = session.NewRedisStore(conns.Redis.Client, cfg.Session.KeyPrefix, cfg.SessionTTL())
	} else {
		store = session.NewMemoryStore()
	}
	zapLog.Info("Session store ready", zap.String("backend", cfg.Session.Backend))

	gw := gateway.NewGateway(gateway.GatewayConfig{
		BaseURL: cfg.APIs.GovScheme.BaseURL,
		Timeout: config.GetDuration(cfg.APIs.GovScheme.Timeout),
	}, log)
	controller := session.NewController(store, gw, log, opts)

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewWorkers(zeebe.Zeebe(), log)
	registerWorkers(workers, cfg, controller, store, log)
	zapLog.Info("Workers registered",
		zap.Strings("started", workers.Started()),
		zap.Int("count", len(workers.Started())),
	)

	// --- Health & Metrics Server ---
	srv := newServer(cfg.App.HTTPPort, conns, zeebe, gw, log)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !isServerClosed(err) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func registerWorkers(w *camunda.Workers, cfg *config.Config, controller *session.Controller, store session.Store, log logger.Logger) {
	// --- 1. Scheme discovery (4) ---
	{
		wcfg := config.GetWorkerConfig(cfg, fr.TaskType)
		handler := fr.NewHandler(fr.LoadConfig(wcfg), controller, log)
		w.Start(fr.TaskType, wcfg, handler.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, cls.TaskType)
		handler := cls.NewHandler(cls.LoadConfig(wcfg), log)
		w.Start(cls.TaskType, wcfg, handler.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, flr.TaskType)
		handler := flr.NewHandler(flr.LoadConfig(wcfg), controller, log)
		w.Start(flr.TaskType, wcfg, handler.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, sd.TaskType)
		handler := sd.NewHandler(sd.LoadConfig(wcfg), controller, log)
		w.Start(sd.TaskType, wcfg, handler.Handle)
	}

	// --- 2. Assistant (1) ---
	{
		wcfg := config.GetWorkerConfig(cfg, scm.TaskType)
		handler := scm.NewHandler(scm.LoadConfig(wcfg), controller, log)
		w.Start(scm.TaskType, wcfg, handler.Handle)
	}

	// --- 3. Session (2) ---
	{
		wcfg := config.GetWorkerConfig(cfg, rs.TaskType)
		handler := rs.NewHandler(rs.LoadConfig(wcfg), controller, store, log)
		w.Start(rs.TaskType, wcfg, handler.Handle)
	}
	{
		wcfg := config.GetWorkerConfig(cfg, nv.TaskType)
		handler := nv.NewHandler(nv.LoadConfig(wcfg), controller, log)
		w.Start(nv.TaskType, wcfg, handler.Handle)
	}

	// --- 4. Reference data (1) ---
	{
		wcfg := config.GetWorkerConfig(cfg, exc.TaskType)
		handler := exc.NewHandler(exc.LoadConfig(wcfg), log)
		w.Start(exc.TaskType, wcfg, handler.Handle)
	}
}
