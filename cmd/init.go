package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new CRM board",
	Long: `Creates a board directory with config.yml, a leads/ subdirectory and
storage.yml holding the default column layout.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("author", "", "author recorded on comments")
	initCmd.Flags().StringSlice("palette", nil, "comma-separated color tokens for new columns")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		cfg.CommentAuthor = author
	}
	if palette, _ := cmd.Flags().GetStringSlice("palette"); len(palette) > 0 {
		cfg.Palette = palette
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}

	const dirMode = 0o750
	if err := os.MkdirAll(cfg.LeadsPath(), dirMode); err != nil {
		return fmt.Errorf("creating leads directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cols := board.DefaultColumns()
	raw, err := board.EncodeColumns(cols)
	if err != nil {
		return err
	}
	if err := storage.NewFileStore(cfg.StoragePath()).Set(storage.ColumnsKey, raw); err != nil {
		return clierr.Wrap(clierr.StorageError, err)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"leads":   cfg.LeadsPath(),
			"storage": cfg.StoragePath(),
			"columns": strings.Join(names, ","),
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Leads:   %s", cfg.LeadsPath())
	output.Messagef(os.Stdout, "  Columns: %s", strings.Join(names, ", "))
	return nil
}
