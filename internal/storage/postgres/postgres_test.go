package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/lhci-dashboard/config"
)

func TestDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		cfg := &config.DatabaseConfig{DSN: "postgres://u:p@db:5432/lhci", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@db:5432/lhci", DSN(cfg))
	})

	t.Run("built from parts", func(t *testing.T) {
		cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "lhci", Password: "secret", Name: "dash"}
		assert.Equal(t, "host=db port=5433 user=lhci password=secret dbname=dash sslmode=disable", DSN(cfg))
	})

	t.Run("empty password omitted", func(t *testing.T) {
		cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "lhci"}
		assert.Equal(t, "host=localhost port=5432 user=postgres dbname=lhci sslmode=disable", DSN(cfg))
	})
}

func TestNewConnection(t *testing.T) {
	db, err := NewConnection(&config.DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "lhci", MaxConns: 4})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)

	_, err = NewConnection(&config.DatabaseConfig{DSN: "postgres://%zz"})
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))
	assert.Error(t, Migrate(context.Background(), db))
}
