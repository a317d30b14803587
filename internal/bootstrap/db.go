package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/storage/postgres"
)

type DBOptions struct {
	Config *config.DatabaseConfig
	PingTO time.Duration
}

// OpenDB opens the Postgres pool and fails fast if the server is unreachable.
func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, error) {
	if opt.Config == nil {
		return nil, fmt.Errorf("database config is not set")
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	db, err := postgres.NewConnection(opt.Config)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
