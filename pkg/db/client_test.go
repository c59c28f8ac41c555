package db

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelink/tradelink-backend/pkg/config"
	"github.com/tradelink/tradelink-backend/pkg/logger"
)

func TestNew_SQLiteDriver(t *testing.T) {
	cfg := config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          "file:dbclient?mode=memory&cache=shared",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	client, err := New(context.Background(), cfg, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "sqlite", client.DB().Dialector.Name())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverPostgres}, nil)
	require.Error(t, err)
}

func TestDialectorFor(t *testing.T) {
	assert.Equal(t, "postgres", dialectorFor(config.DBConfig{Driver: "postgres", DSN: "postgres://x@localhost/db"}).Name())
	assert.Equal(t, "sqlite", dialectorFor(config.DBConfig{Driver: "SQLite", DSN: "file::memory:"}).Name())
}

func TestCloseAfterOpen(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:dbclose?mode=memory"}, nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}
