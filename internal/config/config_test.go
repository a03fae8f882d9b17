package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, FrontendRaw, cfg.Frontend)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultTodoName), cfg.TodoPath)
	assert.Equal(t, 16*time.Millisecond, cfg.TickRate())
	assert.True(t, cfg.ClampCursor)
	assert.True(t, cfg.SeedComplete)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
storage = "sqlite"
db_path = "/var/tmp/tasks.db"
frontend = "bubbletea"
tick_ms = 0
clamp_cursor = false
seed_complete = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/var/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, FrontendBubbleTea, cfg.Frontend)
	assert.Equal(t, DefaultTickMillis, cfg.TickMillis)
	assert.False(t, cfg.ClampCursor)
	assert.False(t, cfg.SeedComplete)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.LogPath)
}

func TestLoadOrCreateRejectsUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`storage = "cloud"`), 0o644))

	_, err := LoadOrCreate(path)
	assert.ErrorContains(t, err, `unknown storage "cloud"`)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(envConfigPath, "/tmp/explicit.toml")
	assert.Equal(t, "/tmp/explicit.toml", ResolveConfigPath())

	t.Setenv(envConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", appDirName, DefaultConfigFileName), ResolveConfigPath())
}
