package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/catalog"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage categories, partners and suppliers",
	Long: `Reads and edits the catalog tables kept beside the pipeline: ` +
		strings.Join(catalog.ValidTables(), ", ") + `.`,
}

var catalogListCmd = &cobra.Command{
	Use:     "list TABLE",
	Aliases: []string{"ls"},
	Short:   "List the rows of a catalog table",
	Args:    cobra.ExactArgs(1),
	RunE:    runCatalogList,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add TABLE NAME",
	Short: "Add a row to a catalog table",
	Args:  cobra.ExactArgs(2), //nolint:mnd // table and name
	RunE:  runCatalogAdd,
}

var catalogDeleteCmd = &cobra.Command{
	Use:     "delete TABLE ID",
	Aliases: []string{"rm"},
	Short:   "Delete a row from a catalog table",
	Args:    cobra.ExactArgs(2), //nolint:mnd // table and id
	RunE:    runCatalogDelete,
}

func init() {
	catalogAddCmd.Flags().String("description", "", "description")
	catalogAddCmd.Flags().String("contact", "", "contact (email, phone or person)")
	catalogCmd.AddCommand(catalogListCmd, catalogAddCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}

// withCatalog opens the board's catalog database for the duration of fn.
func withCatalog(ctx context.Context, fn func(*catalog.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := catalog.Open(ctx, cfg.CatalogPath(), logger)
	if err != nil {
		logger.Error("opening catalog", "path", cfg.CatalogPath(), "error", err)
		return clierr.Wrap(clierr.RemoteError, err)
	}
	defer client.Close()
	return fn(client)
}

// catalogNotifier reports catalog outcomes on stderr unless output is JSON.
func catalogNotifier() notify.Notifier {
	if outputFormat() == output.FormatJSON {
		return notify.Discard
	}
	return notify.NewWriter(os.Stderr)
}

// resultError converts a failed result into a CLI error.
func resultError(r catalog.Result) error {
	switch {
	case errors.Is(r.Error, catalog.ErrInvalidTable):
		return clierr.Wrap(clierr.InvalidTable, r.Error).
			WithDetails(map[string]any{"valid": catalog.ValidTables()})
	case errors.Is(r.Error, catalog.ErrBlankName):
		return clierr.Wrap(clierr.InvalidInput, r.Error)
	default:
		return clierr.Wrap(clierr.RemoteError, r.Error)
	}
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd.Context(), func(c *catalog.Client) error {
		r := c.Select(cmd.Context(), args[0])
		if r.Error != nil {
			catalog.Surface(catalogNotifier(), logger, "Carregar "+args[0], r)
			return resultError(r)
		}

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, r.Data)
		case output.FormatCompact:
			output.RecordCompact(os.Stdout, r.Data)
		default:
			output.RecordTable(os.Stdout, r.Data)
		}
		return nil
	})
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	rec := catalog.Record{Name: args[1]}
	rec.Description, _ = cmd.Flags().GetString("description")
	rec.Contact, _ = cmd.Flags().GetString("contact")

	return withCatalog(cmd.Context(), func(c *catalog.Client) error {
		r := c.Insert(cmd.Context(), args[0], rec)
		if !catalog.Surface(catalogNotifier(), logger, "Adicionar "+args[0], r) {
			return resultError(r)
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, r.Data[0])
		}
		output.Messagef(os.Stdout, "%s %s", r.Data[0].ID, r.Data[0].Name)
		return nil
	})
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	return withCatalog(cmd.Context(), func(c *catalog.Client) error {
		r := c.Delete(cmd.Context(), args[0], args[1])
		if !catalog.Surface(catalogNotifier(), logger, "Excluir "+args[0], r) {
			return resultError(r)
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]string{"status": "deleted", "table": args[0], "id": args[1]})
		}
		return nil
	})
}
