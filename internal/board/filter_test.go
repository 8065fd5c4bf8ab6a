package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/date"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

func pipeline() []lead.Lead {
	return []lead.Lead{
		{ID: 1, Name: "Ana Souza", Company: "Loja Azul", Responsible: "Carlos", Column: ColumnLeadIn,
			LastContact: date.New(2026, time.February, 1)},
		{ID: 2, Name: "Bruno Lima", Company: "Mercado Sol", Responsible: "Marina", Column: ColumnCall,
			LastContact: date.New(2026, time.March, 3)},
		{ID: 3, Name: "Clara Dias", Company: "azul & cia", Responsible: "Carlos", Column: ColumnCall},
		{ID: 4, Name: "Diego", Company: "Padaria", Responsible: "", Column: ColumnClosed,
			LastContact: date.New(2026, time.January, 10),
			Comments:    []lead.Comment{{ID: 1, Text: "x"}}},
	}
}

func leadIDs(leads []lead.Lead) []int {
	ids := make([]int, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return ids
}

func TestSearchMatchesNameCompanyResponsible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want []int
	}{
		{"AZUL", []int{1, 3}},
		{"lima", []int{2}},
		{"carlos", []int{1, 3}},
		{"", []int{1, 2, 3, 4}},
		{"nobody", []int{}},
		{"lima ", []int{}},
		{"souza ", []int{}},
		{"a s", []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, leadIDs(Search(pipeline(), tt.term)))
		})
	}
}

// Property: searching twice equals searching once and never mutates input.
func TestSearchIsIdempotent(t *testing.T) {
	t.Parallel()

	in := pipeline()
	original := pipeline()

	once := Search(in, "azul")
	twice := Search(once, "azul")
	assert.Equal(t, once, twice)
	assert.Equal(t, original, in)

	once[0].Comments = append(once[0].Comments, lead.Comment{ID: 9})
	assert.Equal(t, original, in)
}

func TestFilterComposes(t *testing.T) {
	t.Parallel()

	got := Filter(pipeline(), FilterOptions{Columns: []string{ColumnCall}, Responsible: "carlos"})
	assert.Equal(t, []int{3}, leadIDs(got))

	got = Filter(pipeline(), FilterOptions{Columns: []string{ColumnLeadIn, ColumnClosed}, Search: "d"})
	assert.Equal(t, []int{4}, leadIDs(got))
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field   string
		reverse bool
		want    []int
	}{
		{SortName, false, []int{1, 2, 3, 4}},
		{SortCompany, false, []int{3, 1, 2, 4}},
		{SortResponsible, false, []int{4, 1, 3, 2}},
		{SortLastContact, false, []int{4, 1, 2, 3}},
		{SortID, true, []int{4, 3, 2, 1}},
		{"bogus", false, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()
			leads := pipeline()
			Sort(leads, tt.field, tt.reverse)
			assert.Equal(t, tt.want, leadIDs(leads))
		})
	}
}

func TestGroupByResponsible(t *testing.T) {
	t.Parallel()

	b := New(Options{Leads: pipeline(), Now: func() time.Time { return fixedNow }})
	g := b.GroupBy("responsible")
	require.Len(t, g.Groups, 3)
	assert.Equal(t, "(unassigned)", g.Groups[0].Key)
	assert.Equal(t, "Carlos", g.Groups[1].Key)
	assert.Equal(t, 2, g.Groups[1].Total)
	require.Len(t, g.Groups[1].Columns, 5)
	assert.Equal(t, 1, g.Groups[1].Columns[0].Count)
	assert.Equal(t, 1, g.Groups[1].Columns[1].Count)
}

func TestGroupByColumnFollowsBoardOrder(t *testing.T) {
	t.Parallel()

	b := New(Options{Leads: pipeline()})
	g := b.GroupBy("column")
	keys := make([]string, 0, len(g.Groups))
	for _, grp := range g.Groups {
		keys = append(keys, grp.Key)
	}
	assert.Equal(t, []string{ColumnLeadIn, ColumnCall, ColumnClosed}, keys)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	leads := append(pipeline(), lead.Lead{ID: 5, Name: "Orphan", Column: "gone"})
	b := New(Options{Leads: leads, Now: func() time.Time { return fixedNow }})

	o := Summary("Vendas", b)
	assert.Equal(t, "Vendas", o.BoardName)
	assert.Equal(t, 5, o.TotalLeads)
	require.Len(t, o.Columns, 5)
	assert.Equal(t, 2, o.Columns[0].Count, "orphan counts toward the first column")
	assert.Equal(t, 1, o.Columns[0].Stale)
	assert.Equal(t, 2, o.Columns[1].Count)
	assert.Equal(t, 0, o.Columns[1].Stale)
	assert.Equal(t, 1, o.Columns[4].Stale)
	assert.Equal(t, []ResponsibleCount{
		{Responsible: "Carlos", Count: 2},
		{Responsible: "Marina", Count: 1},
		{Responsible: "(unassigned)", Count: 2},
	}, o.Responsible)
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, err := ParseIDs("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	_, err = ParseIDs("1,x")
	assert.Error(t, err)
	_, err = ParseIDs(" , ")
	assert.Error(t, err)
}
