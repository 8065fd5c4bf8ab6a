package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

const (
	groupResponsible = "responsible"
	groupCompany     = "company"
	groupColumn      = "column"
)

// GroupedSummary holds leads grouped by a field.
type GroupedSummary struct {
	Field  string         `json:"field"`
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key     string          `json:"key"`
	Columns []ColumnSummary `json:"columns"`
	Total   int             `json:"total"`
}

// GroupBy groups the board's leads by field with per-column counts.
// Orphaned leads count toward the first column.
func (b *Board) GroupBy(field string) GroupedSummary {
	groups := make(map[string][]lead.Lead)
	for _, l := range b.leads {
		key := groupKey(l, field)
		groups[key] = append(groups[key], l)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	if field == groupColumn {
		sort.SliceStable(keys, func(i, j int) bool {
			return indexOfColumn(b.columns, keys[i]) < indexOfColumn(b.columns, keys[j])
		})
	} else {
		sort.Strings(keys)
	}

	result := GroupedSummary{Field: field, Groups: make([]GroupSummary, 0, len(keys))}
	for _, key := range keys {
		members := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:     key,
			Columns: b.columnCounts(members),
			Total:   len(members),
		})
	}
	return result
}

func groupKey(l lead.Lead, field string) string {
	switch field {
	case groupResponsible:
		if l.Responsible == "" {
			return "(unassigned)"
		}
		return l.Responsible
	case groupCompany:
		if l.Company == "" {
			return "(no company)"
		}
		return l.Company
	case groupColumn:
		return l.Column
	default:
		return "(all)"
	}
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{groupResponsible, groupCompany, groupColumn}
}
