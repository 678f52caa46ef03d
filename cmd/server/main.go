package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shettytas/fitquest-web/internal/config"
	"github.com/shettytas/fitquest-web/internal/logging"
	"github.com/shettytas/fitquest-web/internal/middleware"
	"github.com/shettytas/fitquest-web/internal/routes"
	"github.com/shettytas/fitquest-web/internal/services"
	"github.com/shettytas/fitquest-web/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("production", "info").WithError(err).Fatal("failed to load config")
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := store.Open(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	storage, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to configure storage")
	}
	if storage == nil {
		log.Info("avatar storage not configured; uploads disabled")
	}

	app, err := routes.NewApp(cfg, routes.Dependencies{
		Store:   st,
		Storage: storage,
		Metrics: middleware.NewMetrics(),
		Log:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to register routes")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).WithField("origin", cfg.ClientOrigin).Info("server starting")
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("server stopped")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
