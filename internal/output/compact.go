package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/catalog"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// LeadCompact renders a list of leads in one-line-per-record compact format.
func LeadCompact(w io.Writer, leads []lead.Lead) {
	if len(leads) == 0 {
		fmt.Fprintln(os.Stderr, "No leads found.")
		return
	}

	for _, l := range leads {
		fmt.Fprintln(w, formatLeadLine(l))
	}
}

// LeadDetailCompact renders a single lead with its comments in compact format.
func LeadDetailCompact(w io.Writer, l lead.Lead) {
	fmt.Fprintln(w, formatLeadLine(l))

	var contact []string
	if l.Email != "" {
		contact = append(contact, "email:"+l.Email)
	}
	if l.Phone != "" {
		contact = append(contact, "phone:"+l.Phone)
	}
	contact = append(contact, "last:"+l.LastContact.Display())
	fmt.Fprintln(w, "  "+strings.Join(contact, " "))

	for _, c := range l.Comments {
		fmt.Fprintf(w, "  - %s %s: %s\n", c.Date.Display(), c.Author, c.Text)
	}
	if l.Notes != "" {
		for _, noteLine := range strings.Split(strings.TrimRight(l.Notes, "\n"), "\n") {
			fmt.Fprintln(w, "  "+noteLine)
		}
	}
}

// ColumnCompact renders the column layout, one column per line.
func ColumnCompact(w io.Writer, cols []board.Column) {
	for i, c := range cols {
		fmt.Fprintf(w, "%d %s %q %s\n", i+1, c.ID, c.Name, c.Color)
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d leads)\n", s.BoardName, s.TotalLeads)

	for _, cs := range s.Columns {
		line := "  " + cs.Name + ": " + strconv.Itoa(cs.Count)
		if cs.Stale > 0 {
			line += " (" + strconv.Itoa(cs.Stale) + " stale)"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Responsible) > 0 {
		parts := make([]string, 0, len(s.Responsible))
		for _, rc := range s.Responsible {
			parts = append(parts, rc.Responsible+"="+strconv.Itoa(rc.Count))
		}
		fmt.Fprintln(w, "Responsible: "+strings.Join(parts, " "))
	}
}

// RecordCompact renders catalog records one per line.
func RecordCompact(w io.Writer, records []catalog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No records found.")
		return
	}
	for _, r := range records {
		line := r.ID + " " + r.Name
		if r.Contact != "" {
			line += " <" + r.Contact + ">"
		}
		fmt.Fprintln(w, line)
	}
}

// formatLeadLine builds the one-line representation of a lead.
func formatLeadLine(l lead.Lead) string {
	line := "#" + strconv.Itoa(l.ID) + " [" + l.Column + "] " + l.Name
	if l.Company != "" {
		line += " (" + l.Company + ")"
	}
	if l.Responsible != "" {
		line += " @" + l.Responsible
	}
	if n := len(l.Comments); n > 0 {
		line += " " + strconv.Itoa(n) + "c"
	}
	return line
}
