package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   DragEnd
		want Action
	}{
		{
			name: "lead onto other column",
			ev:   DragEnd{Kind: DragLead, ActiveID: "7", FromColumnID: ColumnLeadIn, OverColumnID: ColumnCall},
			want: Action{Kind: ActionMoveLead, LeadID: 7, ColumnID: ColumnCall},
		},
		{
			name: "lead back onto origin",
			ev:   DragEnd{Kind: DragLead, ActiveID: "7", FromColumnID: ColumnCall, OverColumnID: ColumnCall},
			want: Action{},
		},
		{
			name: "lead dropped outside",
			ev:   DragEnd{Kind: DragLead, ActiveID: "7", FromColumnID: ColumnCall},
			want: Action{},
		},
		{
			name: "lead with bad id",
			ev:   DragEnd{Kind: DragLead, ActiveID: "seven", OverColumnID: ColumnCall},
			want: Action{},
		},
		{
			name: "column onto column",
			ev:   DragEnd{Kind: DragColumn, ActiveID: ColumnClosed, OverColumnID: ColumnLeadIn},
			want: Action{Kind: ActionReorderColumns, SourceID: ColumnClosed, DestinationID: ColumnLeadIn},
		},
		{
			name: "column onto itself",
			ev:   DragEnd{Kind: DragColumn, ActiveID: ColumnCall, OverColumnID: ColumnCall},
			want: Action{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.ev))
		})
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	b := New(Options{Leads: []lead.Lead{{ID: 7, Name: "A", Column: ColumnLeadIn}}})

	require.NoError(t, b.Dispatch(Resolve(DragEnd{
		Kind: DragLead, ActiveID: "7", FromColumnID: ColumnLeadIn, OverColumnID: ColumnMeeting,
	})))
	l, _ := b.Lead(7)
	assert.Equal(t, ColumnMeeting, l.Column)

	require.NoError(t, b.Dispatch(Resolve(DragEnd{
		Kind: DragColumn, ActiveID: ColumnClosed, OverColumnID: ColumnLeadIn,
	})))
	assert.Equal(t, ColumnClosed, b.Columns()[0].ID)

	require.NoError(t, b.Dispatch(Action{}))
	assert.ErrorIs(t, b.Dispatch(Action{Kind: ActionMoveLead, LeadID: 99, ColumnID: ColumnCall}), ErrLeadNotFound)
	assert.Error(t, b.Dispatch(Action{Kind: ActionKind(42)}))
}

func TestPalettePickers(t *testing.T) {
	t.Parallel()

	palette := []string{"a", "b", "c"}
	assert.Equal(t, "b", FixedPick(4)(palette))

	cycle := CyclePick()
	assert.Equal(t, []string{"a", "b", "c", "a"},
		[]string{cycle(palette), cycle(palette), cycle(palette), cycle(palette)})

	pick := RandomPick(nil)
	for range 20 {
		assert.Contains(t, palette, pick(palette))
	}
	assert.Empty(t, RandomPick(nil)(nil))
}
