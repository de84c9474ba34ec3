package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.SoftWrap)
	assert.True(t, cfg.Suggestions)
	assert.Equal(t, time.Second, cfg.AutosaveDelay())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.DataDir = "/tmp/elsewhere"
	cfg.AutosaveDelayMS = 2500
	cfg.Suggestions = false
	cfg.Theme.Accent = "99"
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 2500*time.Millisecond, loaded.AutosaveDelay())
}

func TestLoadMergesPartialFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "vellum")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	partial := "autosave_delay_ms: 300\ntheme:\n  accent: \"120\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(partial), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.AutosaveDelayMS)
	assert.Equal(t, "120", cfg.Theme.Accent)
	assert.Equal(t, Default().DataDir, cfg.DataDir)
	assert.Equal(t, Default().Theme.Muted, cfg.Theme.Muted)
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "vellum")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o600))

	cfg, err := Load()
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestAutosaveDelayFloor(t *testing.T) {
	cfg := Default()
	cfg.AutosaveDelayMS = 5
	assert.Equal(t, time.Second, cfg.AutosaveDelay())

	cfg.AutosaveDelayMS = -100
	assert.Equal(t, time.Second, cfg.AutosaveDelay())
}

func TestSaveCreatesDirAndTightPerms(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, Save(Default()))

	path := filepath.Join(home, ".config", "vellum", "config.yaml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "data_dir:"))
}
