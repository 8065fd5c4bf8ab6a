package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/storage"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var columnCmd = &cobra.Command{
	Use:     "column",
	Aliases: []string{"col", "columns"},
	Short:   "Manage the pipeline columns",
	Long: `Lists and edits the board's columns. A column can be named by its id,
its name, or its 1-based position. Every change is saved as one column edit.`,
	RunE: runColumnList,
}

var columnListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List columns with their lead counts",
	Args:    cobra.NoArgs,
	RunE:    runColumnList,
}

var columnAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Append a column",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumnAdd,
}

var columnRemoveCmd = &cobra.Command{
	Use:     "remove COLUMN",
	Aliases: []string{"rm"},
	Short:   "Remove a column, moving its leads to the first remaining column",
	Args:    cobra.ExactArgs(1),
	RunE:    runColumnRemove,
}

var columnRenameCmd = &cobra.Command{
	Use:   "rename COLUMN NAME",
	Short: "Rename a column",
	Args:  cobra.ExactArgs(2), //nolint:mnd // column and name
	RunE:  runColumnRename,
}

var columnReorderCmd = &cobra.Command{
	Use:   "reorder COLUMN TARGET",
	Short: "Move a column to the position of another",
	Args:  cobra.ExactArgs(2), //nolint:mnd // source and target
	RunE:  runColumnReorder,
}

var columnResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default columns",
	Long: `Deletes the stored column layout so the defaults apply again. Leads in
columns that no longer exist show up in the first column.`,
	Args: cobra.NoArgs,
	RunE: runColumnReset,
}

func init() {
	columnCmd.AddCommand(columnListCmd, columnAddCmd, columnRemoveCmd, columnRenameCmd, columnReorderCmd, columnResetCmd)
	rootCmd.AddCommand(columnCmd)
}

// resolveColumn finds a column by id, case-insensitive name, or position.
func resolveColumn(b *board.Board, ref string) (board.Column, error) {
	cols := b.Columns()
	for _, c := range cols {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(cols) {
		return cols[n-1], nil
	}
	return board.Column{}, clierr.Newf(clierr.ColumnNotFound, "column %q not found", ref).
		WithDetails(map[string]any{"column": ref})
}

// editColumns runs fn inside a column edit and commits it. The edit is
// discarded when fn fails.
func editColumns(ws *workspace.Workspace, fn func(b *board.Board) error) error {
	ws.Board.BeginColumnEdit()
	if err := fn(ws.Board); err != nil {
		ws.Board.CancelColumnEdit()
		return boardError(err)
	}
	if err := ws.Board.CommitColumnEdit(); err != nil {
		return clierr.Wrap(clierr.StorageError, err)
	}
	return syncLeads(ws)
}

func runColumnList(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	return outputColumns(ws)
}

func outputColumns(ws *workspace.Workspace) error {
	cols := ws.Board.Columns()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, cols)
	case output.FormatCompact:
		output.ColumnCompact(os.Stdout, cols)
		return nil
	}

	counts := make(map[string]int, len(cols))
	for _, l := range ws.Board.Leads() {
		counts[ws.Board.ColumnFor(l)]++
	}
	output.ColumnTable(os.Stdout, cols, counts)
	return nil
}

func runColumnAdd(_ *cobra.Command, args []string) error {
	if strings.TrimSpace(args[0]) == "" {
		return clierr.New(clierr.InvalidInput, "column name is required")
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	var added board.Column
	err = editColumns(ws, func(b *board.Board) error {
		added, _ = b.AddColumn(args[0])
		return nil
	})
	if err != nil {
		return err
	}
	ws.LogColumn("column-add", added.ID, added.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, added)
	}
	output.Messagef(os.Stdout, "Added column %s (%s)", added.Name, added.ID)
	return nil
}

func runColumnRemove(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	col, err := resolveColumn(ws.Board, args[0])
	if err != nil {
		return err
	}

	moved := len(ws.Board.LeadsIn(col.ID))
	err = editColumns(ws, func(b *board.Board) error {
		return b.RemoveColumn(col.ID)
	})
	if err != nil {
		return err
	}
	fallback := ws.Board.Columns()[0]
	ws.LogColumn("column-remove", col.ID, col.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":     "removed",
			"id":         col.ID,
			"name":       col.Name,
			"moved":      moved,
			"moved_into": fallback.ID,
		})
	}
	output.Messagef(os.Stdout, "Removed column %s; %d leads moved to %s", col.Name, moved, fallback.Name)
	return nil
}

func runColumnRename(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	col, err := resolveColumn(ws.Board, args[0])
	if err != nil {
		return err
	}
	if strings.TrimSpace(args[1]) == "" {
		return clierr.New(clierr.InvalidInput, "column name is required")
	}

	err = editColumns(ws, func(b *board.Board) error {
		return b.RenameColumn(col.ID, args[1])
	})
	if err != nil {
		return err
	}
	renamed, _ := ws.Board.Column(col.ID)
	ws.LogColumn("column-rename", col.ID, col.Name+" -> "+renamed.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, renamed)
	}
	output.Messagef(os.Stdout, "Renamed column %s -> %s", col.Name, renamed.Name)
	return nil
}

func runColumnReorder(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	src, err := resolveColumn(ws.Board, args[0])
	if err != nil {
		return err
	}
	dst, err := resolveColumn(ws.Board, args[1])
	if err != nil {
		return err
	}

	// Same path a header drop takes in the TUI.
	action := board.Resolve(board.DragEnd{Kind: board.DragColumn, ActiveID: src.ID, OverColumnID: dst.ID})
	if action.Kind == board.ActionNone {
		return outputColumns(ws)
	}
	err = editColumns(ws, func(b *board.Board) error {
		return b.Dispatch(action)
	})
	if err != nil {
		return err
	}
	ws.LogColumn("column-reorder", src.ID, "before "+dst.ID)
	return outputColumns(ws)
}

func runColumnReset(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if err := ws.Store.Delete(storage.ColumnsKey); err != nil {
		return clierr.Wrap(clierr.StorageError, err)
	}
	ws.Board.LoadColumns()
	ws.LogColumn("column-reset", "", "")
	return outputColumns(ws)
}
