package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"/b/storage.yml.lock", true},
		{"/b/.storage-1234", true},
		{"/b/activity.jsonl", true},
		{"/b/storage.yml", false},
		{"/b/leads/001-ana.md", false},
		{"/b/config.yml", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ignored(tt.name), tt.name)
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan struct{}, 10)
	w, err := New([]string{dir}, func() { fired <- struct{}{} })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := range 5 {
		name := filepath.Join(dir, "00"+string(rune('1'+i))+"-x.md")
		require.NoError(t, os.WriteFile(name, []byte("---\nid: 1\n---\n"), 0o600))
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("callback never fired")
	}

	// The burst collapses into one callback.
	select {
	case <-fired:
		t.Fatal("burst fired more than once")
	case <-time.After(4 * debounceDelay):
	}
}

func TestNewFailsOnMissingPath(t *testing.T) {
	t.Parallel()

	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, func() {})
	assert.Error(t, err)
}
