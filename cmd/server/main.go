package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forumhub/webhook-notifier/internal/api"
	"github.com/forumhub/webhook-notifier/internal/config"
	"github.com/forumhub/webhook-notifier/internal/dispatch"
	"github.com/forumhub/webhook-notifier/internal/queue"
	"github.com/forumhub/webhook-notifier/internal/store"
	ws "github.com/forumhub/webhook-notifier/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	if err := pgStore.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	eventQueue, err := queue.New(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer eventQueue.Close()
	logger.Info("connected to Redis")

	hub := ws.NewHub(logger)

	client := dispatch.NewClient(cfg.DeliveryTimeout)
	dispatcher := dispatch.NewDispatcher(pgStore, pgStore, client, hub, logger)

	pool := queue.NewPool(cfg.NumWorkers, dispatcher, logger)
	worker := queue.NewWorker(eventQueue, pool, logger)

	workerCtx, stopWorker := context.WithCancel(ctx)
	pool.Start(workerCtx)
	go worker.Start(workerCtx)

	router := api.NewRouter(pgStore, eventQueue, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	// Stop taking new events, then drain in-flight dispatches so no
	// delivery ends up sent but unrecorded.
	stopWorker()
	pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
