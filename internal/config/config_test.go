package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitThenLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), DefaultDir)
	cfg, err := Init(dir, "pipeline")
	require.NoError(t, err)

	info, err := os.Stat(cfg.LeadsPath())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "pipeline", loaded.Board.Name)
	assert.Equal(t, DefaultPalette, loaded.Palette)
	assert.Equal(t, DefaultCommentAuthor, loaded.Author())
	assert.Equal(t, filepath.Join(loaded.Dir(), DefaultStorageFile), loaded.StoragePath())
	assert.Equal(t, filepath.Join(loaded.Dir(), DefaultCatalogFile), loaded.CatalogPath())
}

func TestLoadMissingBoard(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMigratesV1(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v1 := "version: 1\nboard:\n  name: legacy\nleads_dir: leads\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultPalette, cfg.Palette)
	assert.Equal(t, DefaultStorageFile, cfg.StorageFile)
	assert.Equal(t, DefaultCommentAuthor, cfg.CommentAuthor)

	// The migrated file is persisted.
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, again.Version)
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Board.Name = "" }},
		{"empty leads dir", func(c *Config) { c.LeadsDir = "" }},
		{"empty storage file", func(c *Config) { c.StorageFile = "" }},
		{"empty palette", func(c *Config) { c.Palette = nil }},
		{"duplicate palette", func(c *Config) { c.Palette = []string{"blue", "blue"} }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"title lines too high", func(c *Config) { c.TUI.TitleLines = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefault("b")
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	assert.NoError(t, NewDefault("ok").Validate())
}

func TestFindDirWalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := Init(filepath.Join(root, DefaultDir), "walk")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultDir), found)
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	cfg := NewDefault("x")
	cfg.LogLevel = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = ""
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
