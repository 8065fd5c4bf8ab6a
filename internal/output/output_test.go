package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/catalog"
	"github.com/twiced-technology-gmbh/crmboard/internal/date"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
)

func init() {
	DisableColor()
}

func sampleLeads() []lead.Lead {
	return []lead.Lead{
		{ID: 1, Name: "Ana Souza", Company: "Loja Azul", Column: board.ColumnLeadIn,
			Responsible: "Carlos", LastContact: date.New(2026, time.March, 2)},
		{ID: 12, Name: "Bruno", Column: "gone",
			Comments: []lead.Comment{{ID: 1, Text: "ligar amanhã", Date: date.New(2026, time.March, 3), Author: "Usuário"}}},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("CRMBOARD_OUTPUT", "")
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv("CRMBOARD_OUTPUT", "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
}

func TestLeadTable(t *testing.T) {
	var buf bytes.Buffer
	LeadTable(&buf, sampleLeads(), board.DefaultColumns())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Lead In")
	assert.Contains(t, lines[1], "02/03/2026")
	assert.Contains(t, lines[2], "gone")
	assert.Contains(t, lines[2], "--")
}

func TestLeadCompact(t *testing.T) {
	var buf bytes.Buffer
	LeadCompact(&buf, sampleLeads())
	assert.Equal(t,
		"#1 [lead-in] Ana Souza (Loja Azul) @Carlos\n#12 [gone] Bruno 1c\n",
		buf.String())
}

func TestLeadDetailCompact(t *testing.T) {
	var buf bytes.Buffer
	LeadDetailCompact(&buf, sampleLeads()[1])
	assert.Contains(t, buf.String(), "last:--")
	assert.Contains(t, buf.String(), "- 03/03/2026 Usuário: ligar amanhã")
}

func TestLeadDetailRendersNotesAndComments(t *testing.T) {
	l := sampleLeads()[1]
	l.Notes = "Met at the fair."
	var buf bytes.Buffer
	LeadDetail(&buf, l, board.DefaultColumns()[0])

	out := buf.String()
	assert.Contains(t, out, "Lead #12: Bruno")
	assert.Contains(t, out, "Lead In")
	assert.Contains(t, out, "Met at the fair.")
	assert.Contains(t, out, "Comments (1)")
	assert.Contains(t, out, "ligar amanhã")
}

func TestOverviewRenderers(t *testing.T) {
	b := board.New(board.Options{Leads: sampleLeads(), Now: func() time.Time {
		return time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	}})
	o := board.Summary("Vendas", b)

	var table bytes.Buffer
	OverviewTable(&table, o)
	assert.Contains(t, table.String(), "Total: 2 leads")
	assert.Contains(t, table.String(), "Fechado")

	var compact bytes.Buffer
	OverviewCompact(&compact, o)
	assert.True(t, strings.HasPrefix(compact.String(), "Vendas (2 leads)\n  Lead In: 2\n"))
	assert.Contains(t, compact.String(), "Responsible: Carlos=1 (unassigned)=1")
}

func TestColumnRenderers(t *testing.T) {
	var buf bytes.Buffer
	ColumnTable(&buf, board.DefaultColumns(), map[string]int{board.ColumnCall: 3})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[2], "Call Apresentação")
	assert.True(t, strings.HasSuffix(lines[2], " 3"))

	buf.Reset()
	ColumnCompact(&buf, board.DefaultColumns()[:1])
	assert.Equal(t, "1 lead-in \"Lead In\" blue\n", buf.String())
}

func TestRecordRenderers(t *testing.T) {
	recs := []catalog.Record{{ID: "abc", Name: "Acme", Contact: "acme@example.com"}}

	var buf bytes.Buffer
	RecordCompact(&buf, recs)
	assert.Equal(t, "abc Acme <acme@example.com>\n", buf.String())

	buf.Reset()
	RecordTable(&buf, recs)
	assert.Contains(t, buf.String(), "Acme")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "LEAD_NOT_FOUND", "lead not found: #3", map[string]any{"id": 3})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "LEAD_NOT_FOUND", resp.Code)
	assert.EqualValues(t, 3, resp.Details["id"])
}

func TestTokenColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tokenColors["red"], TokenColor("red"))
	assert.NotEmpty(t, string(TokenColor("mystery")))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Reuni…", truncate("Reunião geral", 6))
	assert.Equal(t, "short", truncate("short", 10))
}
