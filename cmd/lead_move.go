package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var leadMoveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [COLUMN]",
	Short: "Move a lead to a different column",
	Long: `Moves leads to another column. Name the column directly, or use
--next/--prev to step along the column order.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runLeadMove,
}

func init() {
	leadMoveCmd.Flags().Bool("next", false, "move to the next column")
	leadMoveCmd.Flags().Bool("prev", false, "move to the previous column")
	leadCmd.AddCommand(leadMoveCmd)
}

// moveResult wraps a lead with a changed flag for JSON output.
type moveResult struct {
	lead.Lead
	Changed bool `json:"changed"`
}

func runLeadMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		from, err := executeMove(ws, ids[0], cmd, args)
		if err != nil {
			return err
		}
		if err := syncLeads(ws); err != nil {
			return err
		}
		return outputMoveResult(ws, ids[0], from)
	}

	err = runBatch(ids, func(id int) error {
		_, err := executeMove(ws, id, cmd, args)
		return err
	})
	if syncErr := syncLeads(ws); syncErr != nil {
		return syncErr
	}
	return err
}

// executeMove resolves the target column and moves the lead. It returns the
// column the lead left, or "" when it was already in place.
func executeMove(ws *workspace.Workspace, id int, cmd *cobra.Command, args []string) (string, error) {
	l, ok := ws.Board.Lead(id)
	if !ok {
		return "", lead.NotFound(id)
	}
	// An orphaned lead shows in the first column but still carries its stale
	// id, so a move onto the first column repairs it.
	target, err := resolveTargetColumn(ws.Board, cmd, args, l, ws.Board.ColumnFor(l))
	if err != nil {
		return "", err
	}

	action := board.Resolve(board.DragEnd{
		Kind:         board.DragLead,
		ActiveID:     strconv.Itoa(id),
		FromColumnID: l.Column,
		OverColumnID: target.ID,
	})
	if action.Kind == board.ActionNone {
		return "", nil
	}
	if err := ws.Board.Dispatch(action); err != nil {
		return "", boardError(err)
	}
	ws.Log("move", id, l.Column+" -> "+target.ID)
	return l.Column, nil
}

func resolveTargetColumn(b *board.Board, cmd *cobra.Command, args []string, l lead.Lead, from string) (board.Column, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	cols := b.Columns()

	idx := -1
	for i, c := range cols {
		if c.ID == from {
			idx = i
		}
	}

	switch {
	case len(args) == 2: //nolint:mnd // positional arg
		return resolveColumn(b, args[1])
	case next:
		if idx >= len(cols)-1 {
			return board.Column{}, clierr.Newf(clierr.InvalidInput, "lead #%d is already in the last column", l.ID)
		}
		return cols[idx+1], nil
	case prev:
		if idx <= 0 {
			return board.Column{}, clierr.Newf(clierr.InvalidInput, "lead #%d is already in the first column", l.ID)
		}
		return cols[idx-1], nil
	default:
		return board.Column{}, clierr.New(clierr.InvalidInput, "provide a target column or use --next/--prev")
	}
}

func outputMoveResult(ws *workspace.Workspace, id int, from string) error {
	l, _ := ws.Lead(id)
	changed := from != ""

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Lead: l, Changed: changed})
	}
	col, _ := ws.Board.Column(ws.Board.ColumnFor(l))
	if !changed {
		output.Messagef(os.Stdout, "Lead #%d is already in %s", l.ID, col.Name)
		return nil
	}
	prev, ok := ws.Board.Column(from)
	if !ok {
		prev.Name = from
	}
	output.Messagef(os.Stdout, "Moved lead #%d: %s -> %s", l.ID, prev.Name, col.Name)
	return nil
}
