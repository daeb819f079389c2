package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reflective-notes-be/internal/bootstrap"
	"reflective-notes-be/internal/config"
	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/server"
	"reflective-notes-be/internal/tracer"
	"reflective-notes-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer sysLogger.Sync()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, "reflective-notes-backend", sysLogger)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
		if err != nil {
			sysLogger.Error("MAIN", "Unable to connect to GORM DB", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	if err != nil {
		sysLogger.Error("MAIN", "Failed to bootstrap", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer container.Close()

	srv := server.New(cfg, container, sysLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// 4. Background Services
	g.Go(func() error {
		sysLogger.Info("MAIN", "Starting Consumer Service", nil)
		if err := container.ConsumerService.Consume(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	})
	g.Go(func() error {
		return container.WebSocketHub.Run(ctx)
	})

	// 5. Server
	g.Go(srv.Run)
	g.Go(func() error {
		<-ctx.Done()
		sysLogger.Info("MAIN", "Shutting down", nil)
		done := make(chan error, 1)
		go func() { done <- srv.Shutdown() }()
		select {
		case err := <-done:
			return err
		case <-time.After(10 * time.Second):
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("MAIN", "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
