package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
)

// NewConnection opens a database/sql pool backed by the pgx driver.
// It does not ping; callers decide how long to wait for the server.
func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(maxConns/2, 1))
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
