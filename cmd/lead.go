package cmd

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

var leadCmd = &cobra.Command{
	Use:     "lead",
	Aliases: []string{"leads"},
	Short:   "Manage leads",
	Long:    `Creates, edits, moves and lists the leads on the board.`,
}

var leadCreateCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add", "new"},
	Short:   "Create a lead in the first column",
	Long: `Creates a lead in the board's first column (or --column) with today's
date as its last contact. The name can be given as an argument or via --name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLeadCreate,
}

var leadListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List leads",
	Long:    `Lists leads with optional filtering, sorting, and output format control.`,
	Args:    cobra.NoArgs,
	RunE:    runLeadList,
}

var leadShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show lead details",
	Long:  `Displays a single lead with its comments and markdown notes.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLeadShow,
}

// normalizeLeadFlags accepts the singular and Portuguese spellings people
// reach for.
func normalizeLeadFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "empresa":
		name = "company"
	case "owner", "responsavel":
		name = "responsible"
	case "description", "body":
		name = "notes"
	}
	return pflag.NormalizedName(name)
}

func addLeadFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("company", "", "company")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("responsible", "", "salesperson responsible for the lead")
	cmd.Flags().String("notes", "", "markdown notes")
	cmd.Flags().SetNormalizeFunc(normalizeLeadFlags)
}

func init() {
	leadCreateCmd.Flags().String("name", "", "lead name (alternative to positional argument)")
	leadCreateCmd.Flags().String("column", "", "column to create the lead in (default first column)")
	addLeadFieldFlags(leadCreateCmd)

	leadListCmd.Flags().StringSlice("column", nil, "filter by column (comma-separated)")
	leadListCmd.Flags().String("responsible", "", "filter by responsible")
	leadListCmd.Flags().StringP("search", "s", "", "search name, company and responsible (case-insensitive)")
	leadListCmd.Flags().String("sort", board.SortID, "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	leadListCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	leadListCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	leadListCmd.Flags().SetNormalizeFunc(normalizeLeadFlags)

	leadCmd.AddCommand(leadCreateCmd, leadListCmd, leadShowCmd)
	rootCmd.AddCommand(leadCmd)
}

func runLeadCreate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if len(args) > 0 {
		if name != "" {
			return clierr.New(clierr.InvalidInput, "provide the name as an argument or with --name, not both")
		}
		name = args[0]
	}

	fields := lead.Fields{Name: name}
	fields.Company, _ = cmd.Flags().GetString("company")
	fields.Email, _ = cmd.Flags().GetString("email")
	fields.Phone, _ = cmd.Flags().GetString("phone")
	fields.Responsible, _ = cmd.Flags().GetString("responsible")
	if err := lead.ValidateFields(fields); err != nil {
		return err
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	var target board.Column
	if ref, _ := cmd.Flags().GetString("column"); ref != "" {
		if target, err = resolveColumn(ws.Board, ref); err != nil {
			return err
		}
	}

	l := ws.Board.AddLead(fields)
	if cmd.Flags().Changed("notes") {
		notes, _ := cmd.Flags().GetString("notes")
		if err := ws.Board.EditLead(l.ID, lead.Patch{Notes: &notes}); err != nil {
			return boardError(err)
		}
	}
	if target.ID != "" {
		if err := ws.Board.MoveLead(l.ID, target.ID); err != nil {
			return boardError(err)
		}
	}
	if err := syncLeads(ws); err != nil {
		return err
	}

	created, _ := ws.Lead(l.ID)
	ws.Log("create", created.ID, created.Name)
	logger.Info("lead created", "id", created.ID, "column", created.Column)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created lead #%d: %s", created.ID, created.Name)
	output.Messagef(os.Stdout, "  File: %s", created.File)
	return nil
}

func runLeadList(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	refs, _ := flags.GetStringSlice("column")
	responsible, _ := flags.GetString("responsible")
	search, _ := flags.GetString("search")
	sortBy, _ := flags.GetString("sort")
	reverse, _ := flags.GetBool("reverse")
	limit, _ := flags.GetInt("limit")

	if !slices.Contains(board.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}

	opts := board.FilterOptions{Responsible: responsible, Search: search}
	for _, ref := range refs {
		col, err := resolveColumn(ws.Board, ref)
		if err != nil {
			return err
		}
		opts.Columns = append(opts.Columns, col.ID)
	}

	leads := board.Filter(displayedLeads(ws), opts)
	board.Sort(leads, sortBy, reverse)
	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, leads)
	case output.FormatCompact:
		output.LeadCompact(os.Stdout, leads)
	default:
		output.LeadTable(os.Stdout, leads, ws.Board.Columns())
	}
	return nil
}

// displayedLeads returns the board's leads with orphans placed in the
// column they are shown in.
func displayedLeads(ws *workspace.Workspace) []lead.Lead {
	leads := ws.Board.Leads()
	for i := range leads {
		leads[i].Column = ws.Board.ColumnFor(leads[i])
		if path, ok := ws.File(leads[i].ID); ok {
			leads[i].File = path
		}
	}
	return leads
}

func runLeadShow(_ *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return lead.ValidateLeadID(args[0])
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	l, ok := ws.Lead(id)
	if !ok {
		return lead.NotFound(id)
	}
	col, _ := ws.Board.Column(ws.Board.ColumnFor(l))

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, l)
	case output.FormatCompact:
		output.LeadDetailCompact(os.Stdout, l)
	default:
		output.LeadDetail(os.Stdout, l, col)
	}
	return nil
}
