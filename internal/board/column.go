package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Column is one stage of the pipeline.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Default column ids. The first one is the intake column.
const (
	ColumnLeadIn   = "lead-in"
	ColumnCall     = "call"
	ColumnMeeting  = "meeting"
	ColumnFollowUp = "follow-up"
	ColumnClosed   = "closed"
)

// DefaultColumns returns the layout used when nothing valid is stored.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnLeadIn, Name: "Lead In", Color: "blue"},
		{ID: ColumnCall, Name: "Call Apresentação", Color: "yellow"},
		{ID: ColumnMeeting, Name: "Reunião", Color: "purple"},
		{ID: ColumnFollowUp, Name: "Acompanhamento", Color: "indigo"},
		{ID: ColumnClosed, Name: "Fechado", Color: "green"},
	}
}

// EncodeColumns serializes a layout the way it is stored.
func EncodeColumns(cols []Column) (string, error) {
	if cols == nil {
		cols = []Column{}
	}
	data, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("marshaling columns: %w", err)
	}
	return string(data), nil
}

// DecodeColumns parses a stored layout. Empty layouts, blank ids and
// duplicate ids are rejected.
func DecodeColumns(raw string) ([]Column, error) {
	var cols []Column
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return nil, fmt.Errorf("parsing columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, errors.New("parsing columns: empty layout")
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if strings.TrimSpace(c.ID) == "" {
			return nil, errors.New("parsing columns: blank column id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("parsing columns: duplicate column id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return cols, nil
}

func cloneColumns(cols []Column) []Column {
	return append([]Column(nil), cols...)
}

func indexOfColumn(cols []Column, id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
