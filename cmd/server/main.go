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

	"github.com/trackforever/backend/internal/config"
	"github.com/trackforever/backend/internal/handler"
	"github.com/trackforever/backend/internal/logging"
	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(os.Getenv("LOG_LEVEL"))
		logging.Fatal("invalid configuration", "error", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	projectRepo, err := repository.Open(ctx, repository.Options{
		Driver:      cfg.StoreDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		BadgerPath:  cfg.BadgerPath,
		Logger:      logger,
	})
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer projectRepo.Close()

	// 起動時に全データを削除する（clearAll）
	if cfg.ClearAllOnStart {
		if err := projectRepo.DeleteAll(ctx); err != nil {
			logging.Fatal("failed to clear store", "error", err)
		}
		slog.Warn("store cleared on start")
	}

	syncService := service.NewSyncService(projectRepo, cfg.SyncWorkers)
	router, closeRouter := handler.NewRouter(handler.RouterConfig{
		DB:                 projectRepo,
		Lookup:             service.NewLookupService(projectRepo, cfg.SyncWorkers),
		Sync:               syncService,
		Issues:             service.NewIssueService(projectRepo),
		Admin:              service.NewAdminService(projectRepo, syncService),
		CORSOrigin:         cfg.CORSOrigin,
		AdminToken:         cfg.AdminToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxyCount:  1,
	})
	defer closeRouter()

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set, admin routes are unauthenticated")
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
