package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "openapi-sync", cfg.Storage.Bucket)
	assert.Equal(t, 3000, cfg.Sync.GuardWindowMs)
	assert.Equal(t, 3*time.Second, cfg.Sync.GuardWindow())
	assert.True(t, cfg.Sync.ArchivePlans)
	assert.Equal(t, 20, cfg.Sync.KeepPlans)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_GUARD_WINDOW_MS", "500")
	t.Setenv("SYNC_SOURCE", "remote")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.GuardWindow())
	assert.Equal(t, "remote", cfg.Sync.Source)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\nSYNC_PERSISTENCE=storage\n"), 0644)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("SYNC_PERSISTENCE")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "storage", cfg.Sync.Persistence)
}
