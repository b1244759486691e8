package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/daway0/pors/internal/config"
	"github.com/daway0/pors/internal/scheduler"
	"github.com/daway0/pors/internal/server/handlers"
	"github.com/daway0/pors/internal/server/router"
	"github.com/daway0/pors/internal/service/session"
	"github.com/daway0/pors/pkg/clients/ledger"
	"github.com/daway0/pors/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ledgerClient := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.Timeout)
	sessions := session.NewManager(ledgerClient, cfg.Auth.BypassAccounts, cfg.Auth.GuestAccounts, baseLogger.Named("svc"))

	panelHandler := handlers.NewPanelHandler(sessions, cfg.Auth.GatewayURL, baseLogger.Named("handlers.panel"))
	engine := router.New(panelHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, sessions, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
