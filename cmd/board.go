package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/watcher"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the pipeline: lead counts per column, leads whose
last contact is more than two weeks old, and leads per responsible.

Use --watch to keep the display live-updating. The board re-renders whenever
lead files or the column layout change on disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().String("group-by", "", "group board by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	if err := renderBoard(ws, groupBy); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(ws, groupBy)
}

func renderBoard(ws *workspace.Workspace, groupBy string) error {
	format := outputFormat()

	if groupBy != "" {
		grouped := ws.Board.GroupBy(groupBy)
		if format == output.FormatJSON {
			return output.JSON(os.Stdout, grouped)
		}
		output.GroupedTable(os.Stdout, grouped)
		return nil
	}

	summary := board.Summary(ws.Cfg.Board.Name, ws.Board)
	switch format {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

func watchBoard(ws *workspace.Workspace, groupBy string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(ws.WatchPaths(), func() {
		clearScreen()
		if reloadErr := ws.Reload(); reloadErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: reloading board: %v\n", reloadErr)
		}
		if renderErr := renderBoard(ws, groupBy); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		logger.Warn("file watcher", "error", watchErr)
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
