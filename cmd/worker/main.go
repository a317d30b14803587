package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/cron"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/logging"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/storage/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: worker <migrate|warm>")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "migrate":
		runMigrate(ctx, cfg)
	case "warm":
		runWarm(ctx, cfg)
	default:
		fatal("unknown command", "command", os.Args[1])
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) {
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: &cfg.Database})
	if err != nil {
		fatal("database unavailable", "error", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		fatal("migration failed", "error", err)
	}
	slog.Info("schema applied")
}

func runWarm(ctx context.Context, cfg *config.Config) {
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: &cfg.Database})
	if err != nil {
		fatal("database unavailable", "error", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		fatal("redis unavailable", "error", err)
	}
	if rdb == nil {
		fatal("REDIS_ADDR is required for warm")
	}
	defer rdb.Close()

	svc, _ := bootstrap.NewDashboardService(db, rdb, cfg.Cache.TTL)
	if err := cronjob.RunOnce(ctx, svc); err != nil {
		fatal("cache warm failed", "error", err)
	}
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
