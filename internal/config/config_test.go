package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// getEnv treats empty as unset, so this isolates the test from the
	// ambient environment.
	for _, key := range []string{"DB_DRIVER", "DB_CONN_STR", "DB_PATH", "PRICE_SOURCE", "LOG_LEVEL", "PORT", "DEV_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "stockfolio.db", cfg.DBConnStr)
	assert.Equal(t, "yahoo", cfg.PriceSource)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "ledger")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DBConnStr, "host=db.internal")
	assert.Contains(t, cfg.DBConnStr, "dbname=ledger")
	assert.Contains(t, cfg.DBConnStr, "sslmode=disable")
}

func TestLoad_ExplicitConnStrWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_CONN_STR", "host=custom dbname=other")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=custom dbname=other", cfg.DBConnStr)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
