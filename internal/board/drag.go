package board

import (
	"fmt"
	"strconv"
)

// DragKind says what was being dragged.
type DragKind int

const (
	// DragLead is a card drag.
	DragLead DragKind = iota
	// DragColumn is a column header drag.
	DragColumn
)

// DragEnd is the drop event a rendering surface reports. OverColumnID is
// empty when the drop landed outside every column. For lead drags ActiveID
// is the decimal lead id and FromColumnID the column it was picked up in.
type DragEnd struct {
	Kind         DragKind
	ActiveID     string
	FromColumnID string
	OverColumnID string
}

// ActionKind is the state transition a drop resolves to.
type ActionKind int

const (
	// ActionNone changes nothing.
	ActionNone ActionKind = iota
	// ActionMoveLead moves LeadID into ColumnID.
	ActionMoveLead
	// ActionReorderColumns moves SourceID to DestinationID's index.
	ActionReorderColumns
)

// Action is a resolved drop.
type Action struct {
	Kind          ActionKind
	LeadID        int
	ColumnID      string
	SourceID      string
	DestinationID string
}

// Resolve maps a drop to the transition it implies. It never touches state.
func Resolve(ev DragEnd) Action {
	if ev.OverColumnID == "" || ev.ActiveID == "" {
		return Action{}
	}
	switch ev.Kind {
	case DragLead:
		id, err := strconv.Atoi(ev.ActiveID)
		if err != nil || ev.OverColumnID == ev.FromColumnID {
			return Action{}
		}
		return Action{Kind: ActionMoveLead, LeadID: id, ColumnID: ev.OverColumnID}
	case DragColumn:
		if ev.ActiveID == ev.OverColumnID {
			return Action{}
		}
		return Action{Kind: ActionReorderColumns, SourceID: ev.ActiveID, DestinationID: ev.OverColumnID}
	default:
		return Action{}
	}
}

// Dispatch applies a resolved action.
func (b *Board) Dispatch(a Action) error {
	switch a.Kind {
	case ActionNone:
		return nil
	case ActionMoveLead:
		return b.MoveLead(a.LeadID, a.ColumnID)
	case ActionReorderColumns:
		return b.ReorderColumns(a.SourceID, a.DestinationID)
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
}
