package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"activity"},
	Short:   "Show recent board activity",
	Long:    `Shows the most recent lead and column changes recorded in activity.jsonl.`,
	Args:    cobra.NoArgs,
	RunE:    runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page size
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := board.ReadLog(cfg.Dir(), limit)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	}
	output.LogTable(os.Stdout, entries)
	return nil
}
