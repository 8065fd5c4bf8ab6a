package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
)

func openTest(t *testing.T) *Client {
	t.Helper()
	c, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInsertSelectDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openTest(t)

	res := c.Insert(ctx, Categories, Record{Name: " Marketing ", Description: "campaigns"})
	require.NoError(t, res.Error)
	require.Len(t, res.Data, 1)
	created := res.Data[0]
	assert.Equal(t, "Marketing", created.Name)
	assert.Len(t, created.ID, 36)

	require.NoError(t, c.Insert(ctx, Categories, Record{Name: "ads"}).Error)

	sel := c.Select(ctx, Categories)
	require.NoError(t, sel.Error)
	require.Len(t, sel.Data, 2)
	assert.Equal(t, "ads", sel.Data[0].Name)
	assert.Equal(t, "Marketing", sel.Data[1].Name)
	assert.Equal(t, "campaigns", sel.Data[1].Description)
	assert.WithinDuration(t, created.CreatedAt, sel.Data[1].CreatedAt, 0)

	require.NoError(t, c.Delete(ctx, Categories, created.ID).Error)
	assert.Len(t, c.Select(ctx, Categories).Data, 1)
}

func TestTablesAreSeparate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openTest(t)
	require.NoError(t, c.Insert(ctx, Partners, Record{Name: "Acme", Contact: "acme@example.com"}).Error)

	assert.Empty(t, c.Select(ctx, Suppliers).Data)
	assert.Len(t, c.Select(ctx, Partners).Data, 1)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openTest(t)

	assert.ErrorIs(t, c.Select(ctx, "users").Error, ErrInvalidTable)
	assert.ErrorIs(t, c.Insert(ctx, "users; DROP TABLE partners", Record{Name: "x"}).Error, ErrInvalidTable)
	assert.ErrorIs(t, c.Insert(ctx, Suppliers, Record{Name: "  "}).Error, ErrBlankName)
	assert.ErrorIs(t, c.Delete(ctx, Suppliers, "missing").Error, ErrNotFound)

	require.NoError(t, c.Insert(ctx, Suppliers, Record{Name: "Dup"}).Error)
	dup := c.Insert(ctx, Suppliers, Record{Name: "Dup"})
	require.Error(t, dup.Error)
	assert.Nil(t, dup.Data)
	assert.Len(t, c.Select(ctx, Suppliers).Data, 1, "failed insert leaves state unchanged")
}

func TestOpenFileReopens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	c, err := Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, c.Insert(ctx, Partners, Record{Name: "Acme"}).Error)
	require.NoError(t, c.Close())

	again, err := Open(ctx, path, nil)
	require.NoError(t, err)
	defer again.Close()
	assert.Len(t, again.Select(ctx, Partners).Data, 1)
}

func TestSurface(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	rec := &notify.Recorder{}

	assert.False(t, Surface(rec, logger, "Add category", Result{Error: ErrBlankName}))
	last, _ := rec.Last()
	assert.Equal(t, notify.Error, last.Severity)
	assert.Equal(t, "Add category failed", last.Title)
	assert.Contains(t, logBuf.String(), "name is required")

	assert.True(t, Surface(rec, logger, "Add category", Result{Data: []Record{}}))
	last, _ = rec.Last()
	assert.Equal(t, notify.Success, last.Severity)
}
