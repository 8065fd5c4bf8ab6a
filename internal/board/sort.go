package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

// Sort fields.
const (
	SortID          = "id"
	SortName        = "name"
	SortCompany     = "company"
	SortResponsible = "responsible"
	SortLastContact = "last_contact"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{SortID, SortName, SortCompany, SortResponsible, SortLastContact}
}

// Sort sorts leads in place by the given field. Unknown fields sort by id.
func Sort(leads []lead.Lead, field string, reverse bool) {
	sort.SliceStable(leads, func(i, j int) bool {
		if reverse {
			return compareLeads(leads[j], leads[i], field)
		}
		return compareLeads(leads[i], leads[j], field)
	})
}

func compareLeads(a, b lead.Lead, field string) bool {
	switch field {
	case SortName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case SortCompany:
		return strings.ToLower(a.Company) < strings.ToLower(b.Company)
	case SortResponsible:
		return strings.ToLower(a.Responsible) < strings.ToLower(b.Responsible)
	case SortLastContact:
		return compareLastContact(a, b)
	default:
		return a.ID < b.ID
	}
}

func compareLastContact(a, b lead.Lead) bool {
	if a.LastContact.IsZero() {
		return false // never-contacted sorts last
	}
	if b.LastContact.IsZero() {
		return true
	}
	return a.LastContact.Before(b.LastContact.Time)
}
