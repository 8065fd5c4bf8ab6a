package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var leadDeleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a lead",
	Long: `Deletes a lead and its file. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runLeadDelete,
}

func init() {
	leadDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	leadCmd.AddCommand(leadDeleteCmd)
}

func runLeadDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")

	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return deleteSingleLead(ws, ids[0], yes)
	}

	err = runBatch(ids, func(id int) error {
		return executeDelete(ws, id)
	})
	if syncErr := syncLeads(ws); syncErr != nil {
		return syncErr
	}
	return err
}

func deleteSingleLead(ws *workspace.Workspace, id int, yes bool) error {
	l, ok := ws.Board.Lead(id)
	if !ok {
		return lead.NotFound(id)
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete lead #%d %q? [y/N] ", l.ID, l.Name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" && answer != "s" && answer != "sim" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := executeDelete(ws, id); err != nil {
		return err
	}
	if err := syncLeads(ws); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     l.ID,
			"name":   l.Name,
		})
	}
	output.Messagef(os.Stdout, "Deleted lead #%d: %s", l.ID, l.Name)
	return nil
}

func executeDelete(ws *workspace.Workspace, id int) error {
	l, ok := ws.Board.Lead(id)
	if !ok {
		return lead.NotFound(id)
	}
	if err := ws.Board.DeleteLead(id); err != nil {
		return boardError(err)
	}
	ws.Log("delete", id, l.Name)
	return nil
}
