// Package board is the pipeline state manager: ordered columns, the leads
// placed on them, the column-edit draft and the open lead.
//
// A Board is not safe for concurrent use. Callers drive it from a single
// goroutine (a command invocation or the TUI update loop).
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/date"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/logging"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/storage"
)

// Sentinel errors.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrLeadNotFound   = errors.New("lead not found")
	ErrLastColumn     = errors.New("cannot remove the last column")
)

// Mode is the column-editing state.
type Mode int

const (
	// Viewing is the resting state.
	Viewing Mode = iota
	// Editing buffers column changes until commit or cancel.
	Editing
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Options configures a Board. Zero values get usable defaults.
type Options struct {
	Store    storage.Store
	Notifier notify.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
	Palette  []string
	Pick     PaletteFunc
	Author   string
	Leads    []lead.Lead
}

// Board owns the columns and leads. All mutation goes through its methods.
type Board struct {
	store    storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
	palette  []string
	pick     PaletteFunc
	author   string

	columns  []Column
	snapshot []Column
	leads    []lead.Lead
	selected *lead.Lead
	mode     Mode
	modified bool
}

// New builds a Board and loads its column layout from the store.
func New(opts Options) *Board {
	b := &Board{
		store:    opts.Store,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Now,
		palette:  append([]string(nil), opts.Palette...),
		pick:     opts.Pick,
		author:   opts.Author,
	}
	if b.store == nil {
		b.store = storage.NewMemoryStore()
	}
	if b.notifier == nil {
		b.notifier = notify.Discard
	}
	if b.logger == nil {
		b.logger = logging.Discard()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if len(b.palette) == 0 {
		b.palette = append([]string(nil), config.DefaultPalette...)
	}
	if b.pick == nil {
		b.pick = RandomPick(nil)
	}
	if b.author == "" {
		b.author = config.DefaultCommentAuthor
	}

	b.leads = make([]lead.Lead, 0, len(opts.Leads))
	for _, l := range opts.Leads {
		b.leads = append(b.leads, l.Clone())
	}
	b.LoadColumns()
	return b
}

// LoadColumns reads the stored layout and makes it current. Missing or
// invalid layouts fall back to DefaultColumns; the failure is logged only.
func (b *Board) LoadColumns() []Column {
	b.columns = b.readColumns()
	return b.Columns()
}

func (b *Board) readColumns() []Column {
	raw, ok, err := b.store.Get(storage.ColumnsKey)
	if err != nil {
		b.logger.Warn("reading column layout, using defaults", "key", storage.ColumnsKey, "error", err)
		return DefaultColumns()
	}
	if !ok {
		return DefaultColumns()
	}
	cols, err := DecodeColumns(raw)
	if err != nil {
		b.logger.Warn("invalid column layout, using defaults", "key", storage.ColumnsKey, "error", err)
		return DefaultColumns()
	}
	return cols
}

// Columns returns a copy of the current column list.
func (b *Board) Columns() []Column {
	return cloneColumns(b.columns)
}

// Column returns the column with the given id.
func (b *Board) Column(id string) (Column, bool) {
	i := indexOfColumn(b.columns, id)
	if i < 0 {
		return Column{}, false
	}
	return b.columns[i], true
}

// Mode reports whether a column edit is in progress.
func (b *Board) Mode() Mode { return b.mode }

// Modified reports whether the draft differs from the snapshot.
func (b *Board) Modified() bool { return b.modified }

// BeginColumnEdit snapshots the columns and enters Editing. Calling it again
// while editing takes a fresh snapshot.
func (b *Board) BeginColumnEdit() {
	b.snapshot = cloneColumns(b.columns)
	b.mode = Editing
}

// AddColumn appends a column with a palette color. Blank names are ignored.
func (b *Board) AddColumn(name string) (Column, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Column{}, false
	}
	col := Column{ID: b.newColumnID(), Name: name, Color: b.pick(b.palette)}
	b.columns = append(b.columns, col)
	b.modified = true
	return col, true
}

// newColumnID derives an id from the clock, bumped until unused.
func (b *Board) newColumnID() string {
	ms := b.now().UnixMilli()
	for {
		id := "col-" + strconv.FormatInt(ms, 10)
		if indexOfColumn(b.columns, id) < 0 {
			return id
		}
		ms++
	}
}

// RemoveColumn deletes a column after moving its leads to the first
// remaining column.
func (b *Board) RemoveColumn(id string) error {
	i := indexOfColumn(b.columns, id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, id)
	}
	if len(b.columns) == 1 {
		return ErrLastColumn
	}

	remaining := make([]Column, 0, len(b.columns)-1)
	remaining = append(remaining, b.columns[:i]...)
	remaining = append(remaining, b.columns[i+1:]...)
	fallback := remaining[0].ID

	for j := range b.leads {
		if b.leads[j].Column == id {
			b.leads[j].Column = fallback
		}
	}
	if b.selected != nil && b.selected.Column == id {
		b.selected.Column = fallback
	}

	b.columns = remaining
	b.modified = true
	return nil
}

// RenameColumn changes a column's label. Blank names are ignored.
func (b *Board) RenameColumn(id, name string) error {
	i := indexOfColumn(b.columns, id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, id)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == b.columns[i].Name {
		return nil
	}
	b.columns[i].Name = name
	b.modified = true
	return nil
}

// ReorderColumns moves the source column to the index held by destination.
// Columns in between shift by one.
func (b *Board) ReorderColumns(sourceID, destinationID string) error {
	from := indexOfColumn(b.columns, sourceID)
	if from < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, sourceID)
	}
	to := indexOfColumn(b.columns, destinationID)
	if to < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, destinationID)
	}
	if from == to {
		return nil
	}

	col := b.columns[from]
	cols := append(b.columns[:from:from], b.columns[from+1:]...)
	cols = append(cols[:to], append([]Column{col}, cols[to:]...)...)
	b.columns = cols
	b.modified = true
	return nil
}

// CommitColumnEdit persists the columns and returns to Viewing. When the
// write fails the draft is kept and the board stays in Editing.
func (b *Board) CommitColumnEdit() error {
	raw, err := EncodeColumns(b.columns)
	if err == nil {
		err = b.store.Set(storage.ColumnsKey, raw)
	}
	if err != nil {
		b.logger.Error("saving column layout", "key", storage.ColumnsKey, "error", err)
		b.notifier.Notify(notify.Notification{
			Severity:    notify.Error,
			Title:       "Erro ao salvar colunas",
			Description: err.Error(),
		})
		return fmt.Errorf("saving columns: %w", err)
	}

	b.modified = false
	b.snapshot = nil
	b.mode = Viewing
	b.notifier.Notify(notify.Notification{
		Severity:    notify.Success,
		Title:       "Colunas salvas",
		Description: "As alterações nas colunas foram salvas.",
	})
	return nil
}

// CancelColumnEdit discards the draft and returns to Viewing.
func (b *Board) CancelColumnEdit() {
	if b.modified && b.snapshot != nil {
		b.columns = cloneColumns(b.snapshot)
	}
	b.modified = false
	b.snapshot = nil
	b.mode = Viewing
}

// Leads returns a copy of all leads in board order.
func (b *Board) Leads() []lead.Lead {
	out := make([]lead.Lead, 0, len(b.leads))
	for _, l := range b.leads {
		out = append(out, l.Clone())
	}
	return out
}

// Lead returns a copy of the lead with the given id.
func (b *Board) Lead(id int) (lead.Lead, bool) {
	i := b.indexOfLead(id)
	if i < 0 {
		return lead.Lead{}, false
	}
	return b.leads[i].Clone(), true
}

// LeadsIn returns the leads displayed in a column, orphans included in the
// first column.
func (b *Board) LeadsIn(columnID string) []lead.Lead {
	var out []lead.Lead
	for _, l := range b.leads {
		if b.ColumnFor(l) == columnID {
			out = append(out, l.Clone())
		}
	}
	return out
}

// ColumnFor returns the column a lead is displayed in. Leads pointing at a
// missing column show up in the first column.
func (b *Board) ColumnFor(l lead.Lead) string {
	if indexOfColumn(b.columns, l.Column) >= 0 || len(b.columns) == 0 {
		return l.Column
	}
	return b.columns[0].ID
}

func (b *Board) indexOfLead(id int) int {
	for i, l := range b.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// mirror copies the updated lead into the open detail copy.
func (b *Board) mirror(i int) {
	if b.selected != nil && b.selected.ID == b.leads[i].ID {
		c := b.leads[i].Clone()
		b.selected = &c
	}
}

// MoveLead places a lead in a column. The column is not validated.
func (b *Board) MoveLead(leadID int, columnID string) error {
	i := b.indexOfLead(leadID)
	if i < 0 {
		return fmt.Errorf("%w: #%d", ErrLeadNotFound, leadID)
	}
	b.leads[i].Column = columnID
	b.mirror(i)
	return nil
}

// AddLead appends a new lead to the intake column.
func (b *Board) AddLead(fields lead.Fields) lead.Lead {
	l := lead.Lead{
		ID:          lead.NextID(b.leads),
		Name:        strings.TrimSpace(fields.Name),
		Company:     strings.TrimSpace(fields.Company),
		Email:       strings.TrimSpace(fields.Email),
		Phone:       strings.TrimSpace(fields.Phone),
		Responsible: strings.TrimSpace(fields.Responsible),
		LastContact: date.Of(b.now()),
		Comments:    []lead.Comment{},
	}
	if len(b.columns) > 0 {
		l.Column = b.columns[0].ID
	}
	b.leads = append(b.leads, l)
	return l.Clone()
}

// EditLead merges the set patch fields into a lead.
func (b *Board) EditLead(leadID int, patch lead.Patch) error {
	i := b.indexOfLead(leadID)
	if i < 0 {
		return fmt.Errorf("%w: #%d", ErrLeadNotFound, leadID)
	}
	patch.Apply(&b.leads[i])
	b.mirror(i)
	return nil
}

// AddComment prepends a comment to a lead. Blank text is ignored.
func (b *Board) AddComment(leadID int, text string) error {
	i := b.indexOfLead(leadID)
	if i < 0 {
		return fmt.Errorf("%w: #%d", ErrLeadNotFound, leadID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	now := b.now()
	id := now.UnixMilli()
	for _, c := range b.leads[i].Comments {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	c := lead.Comment{ID: id, Text: text, Date: date.Of(now), Author: b.author}
	b.leads[i].Comments = append([]lead.Comment{c}, b.leads[i].Comments...)
	b.mirror(i)
	return nil
}

// DeleteLead removes a lead from the board.
func (b *Board) DeleteLead(leadID int) error {
	i := b.indexOfLead(leadID)
	if i < 0 {
		return fmt.Errorf("%w: #%d", ErrLeadNotFound, leadID)
	}
	b.leads = append(b.leads[:i:i], b.leads[i+1:]...)
	if b.selected != nil && b.selected.ID == leadID {
		b.selected = nil
	}
	return nil
}

// Open selects a lead for the detail view.
func (b *Board) Open(leadID int) error {
	i := b.indexOfLead(leadID)
	if i < 0 {
		return fmt.Errorf("%w: #%d", ErrLeadNotFound, leadID)
	}
	c := b.leads[i].Clone()
	b.selected = &c
	return nil
}

// Close clears the open lead.
func (b *Board) Close() { b.selected = nil }

// Selected returns a copy of the open lead.
func (b *Board) Selected() (lead.Lead, bool) {
	if b.selected == nil {
		return lead.Lead{}, false
	}
	return b.selected.Clone(), true
}
