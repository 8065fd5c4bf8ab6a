package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// FilterOptions defines which leads to include.
type FilterOptions struct {
	Columns     []string
	Responsible string
	Search      string // case-insensitive substring over name, company and responsible
}

// Search returns the leads whose name, company or responsible contains term,
// ignoring case. The input is not modified; an empty term returns a copy of
// every lead.
func Search(leads []lead.Lead, term string) []lead.Lead {
	return Filter(leads, FilterOptions{Search: term})
}

// Filter returns leads matching all specified criteria (AND logic).
func Filter(leads []lead.Lead, opts FilterOptions) []lead.Lead {
	result := make([]lead.Lead, 0, len(leads))
	for _, l := range leads {
		if matchesFilter(l, opts) {
			result = append(result, l.Clone())
		}
	}
	return result
}

func matchesFilter(l lead.Lead, opts FilterOptions) bool {
	if len(opts.Columns) > 0 && !containsStr(opts.Columns, l.Column) {
		return false
	}
	if opts.Responsible != "" && !strings.EqualFold(l.Responsible, opts.Responsible) {
		return false
	}
	if opts.Search != "" && !matchesSearch(l, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(l lead.Lead, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{l.Name, l.Company, l.Responsible} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
