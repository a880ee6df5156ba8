package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "kyoo", "config.toml")
	require.NoError(t, WriteDefault(cfgPath))

	// 2. Point the data directory somewhere writable
	t.Setenv("KYOO_DATA", tmp)

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// 4. Verify substitution and values from the file
	assert.Equal(t, filepath.Join(tmp, "kyoo.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 28, cfg.Log.MaxAgeDays)
	assert.True(t, cfg.Log.Compress)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, 90*24*time.Hour, cfg.Events.Retention)
}

func TestFullWorkflow_DataDirDefault(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(cfgPath))
	t.Setenv("KYOO_DATA", "")

	cfg, err := LoadWithoutValidation(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "./data/kyoo.db", cfg.Database.Path)
}
