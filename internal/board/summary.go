package board

import (
	"github.com/twiced-technology-gmbh/crmboard/internal/date"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// staleAfterDays is how long since the last contact before a lead counts as stale.
const staleAfterDays = 14

// ColumnSummary holds metrics for a single column.
type ColumnSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
	Stale int    `json:"stale"`
}

// ResponsibleCount holds a count for one owner.
type ResponsibleCount struct {
	Responsible string `json:"responsible"`
	Count       int    `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName   string             `json:"board_name"`
	TotalLeads  int                `json:"total_leads"`
	Columns     []ColumnSummary    `json:"columns"`
	Responsible []ResponsibleCount `json:"responsible"`
}

// Summary computes the board overview. Leads are counted in the column they
// are displayed in.
func Summary(name string, b *Board) Overview {
	owners := make(map[string]int)
	var order []string
	for _, l := range b.leads {
		key := groupKey(l, groupResponsible)
		if _, ok := owners[key]; !ok {
			order = append(order, key)
		}
		owners[key]++
	}

	responsible := make([]ResponsibleCount, 0, len(order))
	for _, k := range order {
		responsible = append(responsible, ResponsibleCount{Responsible: k, Count: owners[k]})
	}

	return Overview{
		BoardName:   name,
		TotalLeads:  len(b.leads),
		Columns:     b.columnCounts(b.leads),
		Responsible: responsible,
	}
}

func (b *Board) columnCounts(leads []lead.Lead) []ColumnSummary {
	today := date.Of(b.now())
	cutoff := today.AddDate(0, 0, -staleAfterDays)

	out := make([]ColumnSummary, len(b.columns))
	for i, c := range b.columns {
		out[i] = ColumnSummary{ID: c.ID, Name: c.Name, Color: c.Color}
	}
	for _, l := range leads {
		i := indexOfColumn(b.columns, b.ColumnFor(l))
		if i < 0 {
			continue
		}
		out[i].Count++
		if !l.LastContact.IsZero() && l.LastContact.Before(cutoff) {
			out[i].Stale++
		}
	}
	return out
}
