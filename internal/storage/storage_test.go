package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.yml")
	s := NewFileStore(path)

	_, ok, err := s.Get(ColumnsKey)
	require.NoError(t, err)
	assert.False(t, ok, "absent file reads as empty store")

	payload := `[{"id":"lead-in","name":"Lead In","color":"blue"}]`
	require.NoError(t, s.Set(ColumnsKey, payload))
	require.NoError(t, s.Set("other", "x"))

	// A second handle on the same file sees the write.
	v, ok, err := NewFileStore(path).Get(ColumnsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, v)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{ColumnsKey, "other"}, keys)

	require.NoError(t, s.Delete("other"))
	require.NoError(t, s.Delete("never-there"))
	_, ok, err = s.Get("other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.yml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a\n- map\n"), 0o600))

	_, _, err := NewFileStore(path).Get(ColumnsKey)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStoreWriteReplacesCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.yml")
	corrupt := []byte("crmColumns: [unterminated\n")
	require.NoError(t, os.WriteFile(path, corrupt, 0o600))

	s := NewFileStore(path)
	require.NoError(t, s.Set(ColumnsKey, "[]"))

	v, ok, err := s.Get(ColumnsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	backup, err := os.ReadFile(s.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, corrupt, backup)

	require.NoError(t, os.WriteFile(path, corrupt, 0o600))
	require.NoError(t, s.Delete(ColumnsKey))
	_, ok, err = s.Get(ColumnsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreWriteFailsInMissingDir(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "storage.yml"))
	assert.Error(t, s.Set(ColumnsKey, "[]"))
}

func TestMemoryStoreInjectedFailures(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	require.NoError(t, m.Set("k", "v"))

	quota := errors.New("quota exceeded")
	m.FailWrites = quota
	assert.ErrorIs(t, m.Set("k", "w"), quota)
	assert.ErrorIs(t, m.Delete("k"), quota)

	v, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	m.FailReads = quota
	_, _, err = m.Get("k")
	assert.ErrorIs(t, err, quota)
}
