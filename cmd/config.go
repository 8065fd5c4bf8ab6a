package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func setString(dst func(*config.Config) *string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      setString(func(c *config.Config) *string { return &c.Board.Name }),
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      setString(func(c *config.Config) *string { return &c.Board.Description }),
			writable: true,
		},
		"leads_dir": {
			get: func(c *config.Config) any { return c.LeadsDir },
		},
		"storage_file": {
			get: func(c *config.Config) any { return c.StorageFile },
		},
		"catalog_file": {
			get: func(c *config.Config) any { return c.CatalogPath() },
		},
		"palette": {
			get: func(c *config.Config) any { return c.Palette },
			set: func(c *config.Config, v string) error {
				var tokens []string
				for _, t := range strings.Split(v, ",") {
					if t = strings.TrimSpace(t); t != "" {
						tokens = append(tokens, t)
					}
				}
				c.Palette = tokens
				return nil // validation rejects empty and duplicate palettes
			},
			writable: true,
		},
		"comment_author": {
			get:      func(c *config.Config) any { return c.Author() },
			set:      setString(func(c *config.Config) *string { return &c.CommentAuthor }),
			writable: true,
		},
		"log_level": {
			get:      func(c *config.Config) any { return c.LogLevel },
			set:      setString(func(c *config.Config) *string { return &c.LogLevel }),
			writable: true,
		},
		"tui.title_lines": {
			get: func(c *config.Config) any { return c.TitleLines() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.title_lines %q: must be an integer", v)
				}
				c.TUI.TitleLines = n
				return nil // validation handles range check
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"leads_dir",
		"storage_file",
		"catalog_file",
		"palette",
		"comment_author",
		"log_level",
		"tui.title_lines",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("config updated", "key", key)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
