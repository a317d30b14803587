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

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/cron"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/view"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
)

const serviceName = "lhci-dashboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: &cfg.Database})
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	tf, err := view.NewTimeFormatter(cfg.Dashboard.Locale, cfg.Dashboard.TimeZone)
	if err != nil {
		slog.Error("invalid dashboard locale", "error", err)
		os.Exit(1)
	}

	r, svc := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Time:        tf,
	})

	if rdb != nil {
		scheduler := cronjob.NewScheduler(svc, cfg.Cache.WarmSchedule)
		if err := scheduler.Start(); err != nil {
			slog.Error("cache warmer disabled", "error", err)
		} else {
			defer scheduler.Stop()
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
