package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":8090", cfg.Addr)
	require.Equal(t, "dev-api-key", cfg.APIKey)
	require.False(t, cfg.BackupEnabled)
	require.Equal(t, time.Hour, cfg.BackupInterval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VIGIA_STORE_ADDR", ":9999")
	t.Setenv("VIGIA_BACKUP_ENABLED", "true")
	t.Setenv("VIGIA_BACKUP_INTERVAL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.Addr)
	require.True(t, cfg.BackupEnabled)
	require.Equal(t, 15*time.Minute, cfg.BackupInterval)
}
