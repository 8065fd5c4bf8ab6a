package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesAtLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := Init(dir, slog.LevelWarn)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("visible", "key", "crmColumns")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "key=crmColumns")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
