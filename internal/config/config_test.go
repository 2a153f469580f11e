package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "qualify.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://brasilapi.com.br/api", cfg.BrasilAPI.BaseURL)
	assert.Equal(t, "https://receitaws.com.br/v1", cfg.ReceitaWS.BaseURL)
	assert.InDelta(t, 0.5, cfg.ReceitaWS.RatePerSec, 0.001)
	assert.Equal(t, 20, cfg.Registry.LookupTimeoutSecs)
	assert.Equal(t, int64(4096), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 5, cfg.Import.MaxConcurrent)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUALIFY_STORE_DRIVER", "postgres")
	t.Setenv("QUALIFY_STORE_DATABASE_URL", "postgres://localhost/qualify")
	t.Setenv("QUALIFY_LOG_LEVEL", "debug")
	t.Setenv("QUALIFY_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/qualify", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
