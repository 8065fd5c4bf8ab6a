package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/catalog"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// tokenColors maps palette tokens to terminal colors. The TUI uses the same map.
var tokenColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("33"),
	"green":  lipgloss.Color("34"),
	"yellow": lipgloss.Color("220"),
	"purple": lipgloss.Color("135"),
	"pink":   lipgloss.Color("205"),
	"indigo": lipgloss.Color("62"),
	"red":    lipgloss.Color("196"),
}

// TokenColor returns the terminal color for a palette token. Unknown tokens
// are gray.
func TokenColor(token string) lipgloss.Color {
	if c, ok := tokenColors[token]; ok {
		return c
	}
	return lipgloss.Color("245")
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	personStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
	colorEnabled = true
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	personStyle = lipgloss.NewStyle()
	colorEnabled = false
	plainMarkdown = true
}

func columnStyle(token string) lipgloss.Style {
	if !colorEnabled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(TokenColor(token))
}

// LeadTable renders a list of leads as a formatted table. cols resolves
// column ids to names and colors; orphans show their raw id.
func LeadTable(w io.Writer, leads []lead.Lead, cols []board.Column) {
	if len(leads) == 0 {
		fmt.Fprintln(os.Stderr, "No leads found.")
		return
	}

	byID := make(map[string]board.Column, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}

	const pad = 2
	idW, nameW, companyW, columnW, respW := 4, 6, 9, 8, 13
	for _, l := range leads {
		idW = max(idW, len(strconv.Itoa(l.ID))+pad)
		nameW = max(nameW, min(lipgloss.Width(l.Name)+pad, 32))          //nolint:mnd // max name column width
		companyW = max(companyW, min(lipgloss.Width(l.Company)+pad, 24)) //nolint:mnd // max company column width
		columnW = max(columnW, lipgloss.Width(columnLabel(l.Column, byID))+pad)
		respW = max(respW, lipgloss.Width(l.Responsible)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", nameW, "NAME", companyW, "COMPANY", columnW, "COLUMN", respW, "RESPONSIBLE", "LAST CONTACT")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, l := range leads {
		col, ok := byID[l.Column]
		label := columnLabel(l.Column, byID)
		styledColumn := dimStyle.Render(label)
		if ok {
			styledColumn = columnStyle(col.Color).Render(label)
		}
		row := fmt.Sprintf("%-*d %s %s %s %s %s",
			idW, l.ID,
			padRight(truncate(l.Name, nameW-pad), nameW),
			padRight(stringOrDash(truncate(l.Company, companyW-pad)), companyW),
			padRight(styledColumn, columnW),
			padRight(stringOrDash(l.Responsible), respW),
			l.LastContact.Display())
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

func columnLabel(id string, byID map[string]board.Column) string {
	if c, ok := byID[id]; ok {
		return c.Name
	}
	return id
}

// LeadDetail renders a single lead with full detail. Notes and comments are
// rendered as markdown.
func LeadDetail(w io.Writer, l lead.Lead, col board.Column) {
	titleLine := fmt.Sprintf("Lead #%d: %s", l.ID, l.Name)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Column", columnStyle(col.Color).Render(col.Name))
	printField(w, "Company", stringOrDash(l.Company))
	printField(w, "Email", stringOrDash(l.Email))
	printField(w, "Phone", stringOrDash(l.Phone))
	if l.Responsible != "" {
		printField(w, "Responsible", personStyle.Render(l.Responsible))
	} else {
		printField(w, "Responsible", dimStyle.Render("--"))
	}
	printField(w, "Last contact", l.LastContact.Display())

	if l.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Markdown(l.Notes, 80)) //nolint:mnd // wrap width
	}

	if len(l.Comments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Comments (%d)", len(l.Comments))))
		for _, c := range l.Comments {
			fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(c.Date.Display()), personStyle.Render(c.Author))
			for _, line := range strings.Split(Markdown(c.Text, 76), "\n") { //nolint:mnd // wrap width
				fmt.Fprintln(w, "    "+strings.TrimSpace(line))
			}
		}
	}
}

// ColumnTable renders the column layout.
func ColumnTable(w io.Writer, cols []board.Column, counts map[string]int) {
	header := fmt.Sprintf("%-4s %-22s %-28s %-8s %s", "#", "ID", "NAME", "COLOR", "LEADS")
	fmt.Fprintln(w, headerStyle.Render(header))
	for i, c := range cols {
		const idW, nameW, colorW = 22, 28, 8
		fmt.Fprintf(w, "%-4d %s %s %s %d\n", i+1,
			padRight(c.ID, idW),
			padRight(columnStyle(c.Color).Render(c.Name), nameW),
			padRight(c.Color, colorW),
			counts[c.ID])
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d leads\n\n", s.TotalLeads)

	const columnColW = 24
	header := fmt.Sprintf("%-*s %6s %6s", columnColW, "COLUMN", "COUNT", "STALE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, cs := range s.Columns {
		fmt.Fprintf(w, "%s %6d %6d\n",
			padRight(columnStyle(cs.Color).Render(cs.Name), columnColW), cs.Count, cs.Stale)
	}

	if len(s.Responsible) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", columnColW, "RESPONSIBLE", "COUNT")))
	for _, rc := range s.Responsible {
		fmt.Fprintf(w, "%s %6d\n", padRight(rc.Responsible, columnColW), rc.Count)
	}
}

// GroupedTable renders a grouped board view with per-group column breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d leads)", g.Key, g.Total)))

		for _, cs := range g.Columns {
			if cs.Count == 0 {
				continue
			}
			const groupColumnW = 24
			fmt.Fprintf(w, "  %s %d\n", padRight(columnStyle(cs.Color).Render(cs.Name), groupColumnW), cs.Count)
		}
	}
}

// RecordTable renders catalog records.
func RecordTable(w io.Writer, records []catalog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No records found.")
		return
	}

	const pad = 2
	nameW, contactW := 6, 9
	for _, r := range records {
		nameW = max(nameW, lipgloss.Width(r.Name)+pad)
		contactW = max(contactW, lipgloss.Width(r.Contact)+pad)
	}
	header := fmt.Sprintf("%-38s %-*s %-*s %s", "ID", nameW, "NAME", contactW, "CONTACT", "DESCRIPTION")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, r := range records {
		row := fmt.Sprintf("%-38s %s %s %s", r.ID,
			padRight(r.Name, nameW),
			padRight(stringOrDash(r.Contact), contactW),
			stringOrDash(r.Description))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// LogTable renders activity log entries, oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		subject := e.ColumnID
		if e.LeadID != 0 {
			subject = "#" + strconv.Itoa(e.LeadID)
		}
		fmt.Fprintf(w, "%s %-14s %-20s %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")), e.Action, subject, e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-14s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n visible runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}
