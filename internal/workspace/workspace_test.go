package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

func newBoardDir(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Init(filepath.Join(t.TempDir(), config.DefaultDir), "Vendas")
	require.NoError(t, err)
	return cfg
}

func TestSyncWritesOnlyChangedLeads(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	ws, err := Open(cfg, Options{Pick: board.FixedPick(0)})
	require.NoError(t, err)

	ana := ws.Board.AddLead(lead.Fields{Name: "Ana"})
	bruno := ws.Board.AddLead(lead.Fields{Name: "Bruno"})
	written, err := ws.Sync()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{ana.ID, bruno.ID}, written)

	written, err = ws.Sync()
	require.NoError(t, err)
	assert.Empty(t, written)

	require.NoError(t, ws.Board.MoveLead(bruno.ID, board.ColumnCall))
	written, err = ws.Sync()
	require.NoError(t, err)
	assert.Equal(t, []int{bruno.ID}, written)

	reopened, err := Open(cfg, Options{})
	require.NoError(t, err)
	l, ok := reopened.Lead(bruno.ID)
	require.True(t, ok)
	assert.Equal(t, board.ColumnCall, l.Column)
	assert.Equal(t, filepath.Join(cfg.LeadsPath(), "002-bruno.md"), l.File)
}

func TestSyncRenamesAndDeletes(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	ws, err := Open(cfg, Options{})
	require.NoError(t, err)

	ana := ws.Board.AddLead(lead.Fields{Name: "Ana"})
	_, err = ws.Sync()
	require.NoError(t, err)
	oldPath, ok := ws.File(ana.ID)
	require.True(t, ok)

	name := "Ana Lima"
	require.NoError(t, ws.Board.EditLead(ana.ID, lead.Patch{Name: &name}))
	_, err = ws.Sync()
	require.NoError(t, err)
	newPath, _ := ws.File(ana.ID)
	assert.Equal(t, filepath.Join(cfg.LeadsPath(), "001-ana-lima.md"), newPath)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, ws.Board.DeleteLead(ana.ID))
	written, err := ws.Sync()
	require.NoError(t, err)
	assert.Equal(t, []int{ana.ID}, written)
	_, err = os.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestColumnRemovalPersistsEverywhere(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	ws, err := Open(cfg, Options{})
	require.NoError(t, err)

	l := ws.Board.AddLead(lead.Fields{Name: "Ana"})
	require.NoError(t, ws.Board.MoveLead(l.ID, board.ColumnClosed))
	_, err = ws.Sync()
	require.NoError(t, err)

	ws.Board.BeginColumnEdit()
	require.NoError(t, ws.Board.RemoveColumn(board.ColumnClosed))
	require.NoError(t, ws.Board.CommitColumnEdit())
	_, err = ws.Sync()
	require.NoError(t, err)

	reopened, err := Open(cfg, Options{})
	require.NoError(t, err)
	assert.Len(t, reopened.Board.Columns(), 4)
	got, _ := reopened.Board.Lead(l.ID)
	assert.Equal(t, board.ColumnLeadIn, got.Column)
}

func TestCommitOverCorruptStorage(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	require.NoError(t, os.WriteFile(cfg.StoragePath(), []byte("crmColumns: [unterminated\n"), 0o600))

	ws, err := Open(cfg, Options{Pick: board.FixedPick(0)})
	require.NoError(t, err)
	require.Len(t, ws.Board.Columns(), len(board.DefaultColumns()))

	ws.Board.BeginColumnEdit()
	ws.Board.AddColumn("Perdido")
	require.NoError(t, ws.Board.CommitColumnEdit())

	reopened, err := Open(cfg, Options{})
	require.NoError(t, err)
	cols := reopened.Board.Columns()
	require.Len(t, cols, len(board.DefaultColumns())+1)
	assert.Equal(t, "Perdido", cols[len(cols)-1].Name)
	assert.FileExists(t, ws.Store.BackupPath())
}

func TestOpenReportsBrokenFiles(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.LeadsPath(), "009-bad.md"), []byte("oops"), 0o600))

	ws, err := Open(cfg, Options{})
	require.NoError(t, err)
	require.Len(t, ws.Warnings, 1)
	assert.Equal(t, "009-bad.md", ws.Warnings[0].File)
	assert.Empty(t, ws.Board.Leads())
}

func TestWatchPaths(t *testing.T) {
	t.Parallel()

	cfg := newBoardDir(t)
	ws, err := Open(cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.LeadsPath(), cfg.Dir()}, ws.WatchPaths())
}
