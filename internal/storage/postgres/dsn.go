package postgres

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
)

// DSN returns the configured DSN, or builds a key/value one from the
// individual DB_* settings. Empty settings are left out.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	parts := []string{fmt.Sprintf("host=%s port=%d", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		parts = append(parts, "user="+cfg.User)
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	if cfg.Name != "" {
		parts = append(parts, "dbname="+cfg.Name)
	}
	parts = append(parts, "sslmode=disable")
	return strings.Join(parts, " ")
}
