// Package lead handles lead cards and their markdown files.
package lead

import (
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/date"
)

// Lead is a prospect card on the pipeline board.
type Lead struct {
	ID          int       `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Company     string    `yaml:"company,omitempty" json:"company,omitempty"`
	Email       string    `yaml:"email,omitempty" json:"email,omitempty"`
	Phone       string    `yaml:"phone,omitempty" json:"phone,omitempty"`
	Column      string    `yaml:"column" json:"column"`
	Responsible string    `yaml:"responsible,omitempty" json:"responsible,omitempty"`
	LastContact date.Date `yaml:"last_contact,omitempty" json:"last_contact"`
	Comments    []Comment `yaml:"comments,omitempty" json:"comments"`

	// Notes is the markdown content below the frontmatter (not in YAML).
	Notes string `yaml:"-" json:"notes,omitempty"`

	// File is the path to the lead file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// Comment is one entry in a lead's history. Lists are kept newest first.
type Comment struct {
	ID     int64     `yaml:"id" json:"id"`
	Text   string    `yaml:"text" json:"text"`
	Date   date.Date `yaml:"date" json:"date"`
	Author string    `yaml:"author" json:"author"`
}

// Clone returns a deep copy of l.
func (l Lead) Clone() Lead {
	if l.Comments != nil {
		l.Comments = append([]Comment(nil), l.Comments...)
	}
	return l
}

// Fields are the values a new lead is created with.
type Fields struct {
	Name        string
	Company     string
	Email       string
	Phone       string
	Responsible string
}

// Patch holds the editable fields of a lead. Nil pointers leave the field
// unchanged. LastContact is set at creation and is not editable.
type Patch struct {
	Name        *string
	Company     *string
	Email       *string
	Phone       *string
	Responsible *string
	Notes       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Company == nil && p.Email == nil &&
		p.Phone == nil && p.Responsible == nil && p.Notes == nil
}

// Apply merges the set fields into l.
func (p Patch) Apply(l *Lead) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&l.Name, p.Name)
	set(&l.Company, p.Company)
	set(&l.Email, p.Email)
	set(&l.Phone, p.Phone)
	set(&l.Responsible, p.Responsible)
	if p.Notes != nil {
		l.Notes = ""
		if notes := strings.TrimRight(*p.Notes, " \t\n"); strings.TrimSpace(notes) != "" {
			l.Notes = notes + "\n"
		}
	}
}
