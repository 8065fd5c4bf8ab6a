package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/tui"
	"github.com/twiced-technology-gmbh/crmboard/internal/watcher"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the board in the terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model, err := newTUIModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

// newTUIModel opens the board with notifications routed to the status bar.
func newTUIModel(cfg *config.Config) (*tui.Board, error) {
	toasts := &notify.Recorder{}
	ws, err := workspace.Open(cfg, workspace.Options{
		Notifier: notify.Logged(toasts, logger),
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range ws.Warnings {
		logger.Warn("skipping malformed lead file", "file", w.File, "error", w.Err)
	}
	return tui.NewBoard(ws, toasts), nil
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		logger.Warn("live reload disabled", "error", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		logger.Warn("file watcher", "error", watchErr)
	})
}
