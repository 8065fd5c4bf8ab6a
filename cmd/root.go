// Package cmd implements the crmboard CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/logging"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

// logger and logCloser are set once a board is loaded.
var (
	logger    = logging.Discard()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "crmboard",
	Short: "Kanban board for a sales pipeline",
	Long: `crmboard keeps a sales pipeline as a Kanban board of leads.
Run crmboard with no arguments to open the board in the terminal UI.
Leads are markdown files under leads/, the column layout lives in storage.yml.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || !output.ColorSupported(os.Stdout) {
			output.DisableColor()
			notify.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/crmboard.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "crmboard"), nil
}

// resolveDir returns the board directory: --dir, then the nearest board up
// the directory tree, then ~/.config/crmboard.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}
	return defaultHomeDir()
}

// loadConfig finds and loads the board config and starts file logging.
// The home board is created on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			return nil, err
		}
		homeDir, homeErr := defaultHomeDir()
		if homeErr != nil || dir != homeDir {
			return nil, clierr.Wrap(clierr.BoardNotFound, err)
		}
		if cfg, err = config.Init(homeDir, "crmboard"); err != nil {
			return nil, err
		}
	}

	startLogging(cfg)
	return cfg, nil
}

// startLogging points the package logger at the board's log file. Failure
// leaves the discard logger in place.
func startLogging(cfg *config.Config) {
	if logCloser != nil {
		return
	}
	l, closer, err := logging.Init(cfg.LogsPath(), cfg.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: opening log file: %v\n", err)
		return
	}
	logger, logCloser = l, closer
	logger.Debug("board loaded", "dir", cfg.Dir(), "version", version)
}

// openWorkspace loads the board. Notifications go to stderr and the log.
func openWorkspace() (*workspace.Workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Open(cfg, workspace.Options{
		Notifier: notify.Logged(notify.NewWriter(os.Stderr), logger),
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	printWarnings(ws.Warnings)
	return ws, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes lead read warnings to stderr.
func printWarnings(warnings []lead.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}

// boardError maps board sentinel errors to CLI error codes.
func boardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, board.ErrLeadNotFound):
		return clierr.Wrap(clierr.LeadNotFound, err)
	case errors.Is(err, board.ErrColumnNotFound):
		return clierr.Wrap(clierr.ColumnNotFound, err)
	case errors.Is(err, board.ErrLastColumn):
		return clierr.Wrap(clierr.LastColumn, err)
	default:
		return err
	}
}

// syncLeads writes lead changes and maps write failures to STORAGE_ERROR.
func syncLeads(ws *workspace.Workspace) error {
	if _, err := ws.Sync(); err != nil {
		logger.Error("writing leads", "error", err)
		return clierr.Wrap(clierr.StorageError, err)
	}
	return nil
}

// parseIDs splits a comma-separated ID string into deduplicated int IDs.
func parseIDs(arg string) ([]int, error) {
	return board.ParseIDs(arg)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err == nil {
			results = append(results, output.BatchResult{ID: id, OK: true})
			continue
		}
		anyFailed = true
		results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error(), Code: clierr.CodeOf(err)})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: lead #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
