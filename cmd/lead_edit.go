package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var leadEditCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a lead",
	Long: `Modifies fields of existing leads. Only specified fields are changed.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runLeadEdit,
}

var leadCommentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Add a comment to a lead",
	Long:  `Adds a comment to the top of a lead's history, signed with the configured author.`,
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and text
	RunE:  runLeadComment,
}

func init() {
	leadEditCmd.Flags().String("name", "", "new name")
	leadEditCmd.Flags().String("append-notes", "", "append text to the notes")
	addLeadFieldFlags(leadEditCmd)

	leadCmd.AddCommand(leadEditCmd, leadCommentCmd)
}

func runLeadEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	patch, err := editPatch(cmd)
	if err != nil {
		return err
	}
	appendNotes, _ := cmd.Flags().GetString("append-notes")
	if patch.IsEmpty() && appendNotes == "" {
		return clierr.New(clierr.NoChanges, "no changes specified")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	edit := func(id int) error {
		p := patch
		if appendNotes != "" {
			l, ok := ws.Board.Lead(id)
			if !ok {
				return lead.NotFound(id)
			}
			notes := appendText(l.Notes, appendNotes)
			if p.Notes != nil {
				notes = appendText(*p.Notes, appendNotes)
			}
			p.Notes = &notes
		}
		if err := ws.Board.EditLead(id, p); err != nil {
			return boardError(err)
		}
		return nil
	}

	if len(ids) == 1 {
		if err := edit(ids[0]); err != nil {
			return err
		}
		if err := syncLeads(ws); err != nil {
			return err
		}
		return outputEdited(ws, ids[0])
	}

	err = runBatch(ids, edit)
	if syncErr := syncLeads(ws); syncErr != nil {
		return syncErr
	}
	for _, id := range ids {
		if _, ok := ws.Board.Lead(id); ok {
			ws.Log("edit", id, "")
		}
	}
	return err
}

// editPatch builds a patch from the flags the user set.
func editPatch(cmd *cobra.Command) (lead.Patch, error) {
	var p lead.Patch
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	p.Name = str("name")
	p.Company = str("company")
	p.Email = str("email")
	p.Phone = str("phone")
	p.Responsible = str("responsible")
	p.Notes = str("notes")


	if err := lead.ValidatePatch(p); err != nil {
		return p, err
	}
	return p, nil
}

// appendText adds text as a new paragraph after existing.
func appendText(existing, text string) string {
	existing = strings.TrimRight(existing, "\n")
	if existing == "" {
		return text
	}
	return existing + "\n\n" + text
}

func outputEdited(ws *workspace.Workspace, id int) error {
	l, _ := ws.Lead(id)
	ws.Log("edit", id, l.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, l)
	}
	output.Messagef(os.Stdout, "Updated lead #%d: %s", l.ID, l.Name)
	return nil
}

func runLeadComment(_ *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return lead.ValidateLeadID(args[0])
	}
	if strings.TrimSpace(args[1]) == "" {
		return clierr.New(clierr.InvalidInput, "comment text is required")
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if err := ws.Board.AddComment(id, args[1]); err != nil {
		return boardError(err)
	}
	if err := syncLeads(ws); err != nil {
		return err
	}

	l, _ := ws.Lead(id)
	c := l.Comments[0]
	ws.Log("comment", id, c.Text)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, c)
	}
	output.Messagef(os.Stdout, "Commented on lead #%d as %s", id, c.Author)
	return nil
}
