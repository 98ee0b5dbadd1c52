package database

import (
	"path/filepath"
	"testing"

	"github.com/hadmin/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemorySQLitePinsSingleConnection(t *testing.T) {
	conn, err := open(&config.DatabaseConfig{Driver: "sqlite", MaxOpenConns: 50, MaxIdleConns: 20})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenFileSQLiteHonorsPoolConfig(t *testing.T) {
	conn, err := open(&config.DatabaseConfig{
		Driver:       "sqlite",
		Database:     filepath.Join(t.TempDir(), "pool.db"),
		MaxOpenConns: 7,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := open(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
