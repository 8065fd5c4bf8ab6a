package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMutationAndReadLog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	LogMutation(dir, "create", 1, "Ana")
	LogColumnMutation(dir, "column-add", "col-1", "Proposta")
	LogMutation(dir, "move", 1, "lead-in -> call")

	all, err := ReadLog(dir, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "create", all[0].Action)
	assert.Equal(t, "col-1", all[1].ColumnID)

	last, err := ReadLog(dir, 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "move", last[0].Action)
}

func TestReadLogMissing(t *testing.T) {
	t.Parallel()

	entries, err := ReadLog(t.TempDir(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
