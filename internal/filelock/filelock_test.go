package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCreatesSiblingLockFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "storage.yml")
	ran := false
	err := With(target, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	_, statErr := os.Stat(target + ".lock")
	assert.NoError(t, statErr)
}

func TestWithReturnsCallbackError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := With(filepath.Join(t.TempDir(), "x"), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestLockIsReentrantAfterUnlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".lock")
	unlock, err := Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())

	unlock, err = Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}
