package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/config"
	"github.com/synqtech/synq-site/internal/database"
	"github.com/synqtech/synq-site/internal/logging"
	"github.com/synqtech/synq-site/internal/migration"
	"github.com/synqtech/synq-site/internal/routes"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting application", zap.String("app", cfg.AppName), zap.String("database_type", cfg.DatabaseType))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	// Create upload directory
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// Seed admin user
	authService := services.NewAuthService(cfg, db)
	if created, err := routes.SeedAdminUser(cfg, authService); err != nil {
		logger.Warn("Failed to seed admin user", zap.Error(err))
	} else if created {
		logger.Info("Admin user created", zap.String("email", cfg.AdminEmail))
	}

	migrator, closeMigrator, err := migration.FromConfig(cfg, db, logger.Named("migration"))
	if err != nil {
		return fmt.Errorf("setup data migration: %w", err)
	}
	defer func() {
		if err := closeMigrator(); err != nil {
			logger.Warn("Failed to close migration lock client", zap.Error(err))
		}
	}()

	if cfg.MigrationEnabled {
		// Runs in the background; the server does not wait for it.
		migrator.Start(ctx)
	}

	gin.SetMode(cfg.GinMode)
	router := routes.SetupRouter(cfg, routes.Deps{
		DB:       db,
		Migrator: migrator,
		Logger:   logger.Named("http"),
	})

	addr := cfg.ServerHost + ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", addr), zap.String("url", cfg.AppURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
