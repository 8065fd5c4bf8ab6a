// Package tui implements a terminal UI for crmboard pipelines.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/workspace"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewInput
	viewConfirmDelete
	viewConfirmRemoveColumn
)

// inputPurpose says what the text prompt is collecting.
type inputPurpose int

const (
	inputNewLead inputPurpose = iota
	inputComment
	inputSearch
	inputAddColumn
	inputRenameColumn
)

// Key and layout constants.
const (
	keyEsc   = "esc"
	keyEnter = "enter"
	keySpace = " "

	boardChrome  = 2                // blank line + status bar below the column area
	errorChrome  = 1                // extra line when an error or toast is displayed
	tickInterval = 60 * time.Second // how often last-contact ages refresh
)

var errFinishColumnEdit = errors.New("finish the column edit first (enter: save, esc: discard)")

// Board is the top-level bubbletea model.
type Board struct {
	ws         *workspace.Workspace
	toasts     *notify.Recorder
	seenToasts int

	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time
	search    string
	titleLines int

	input   textinput.Model
	purpose inputPurpose
	// back is the view to return to when the prompt closes.
	back view

	// carry is the lead being moved with space, if any.
	carry *carried

	deleteID   int
	deleteName string

	removeColID   string
	removeColName string

	// pendingReload is set when a file change arrives mid-edit.
	pendingReload bool
}

type carried struct {
	leadID int
	from   string
	name   string
}

// column groups the leads displayed in a single board column.
type column struct {
	col       board.Column
	leads     []lead.Lead
	scrollOff int // first visible row index
}

// NewBoard creates a Board model over an opened workspace. toasts must be
// the recorder the workspace's notifier forwards to.
func NewBoard(ws *workspace.Workspace, toasts *notify.Recorder) *Board {
	in := textinput.New()
	in.CharLimit = 200

	b := &Board{
		ws:         ws,
		toasts:     toasts,
		now:        time.Now,
		input:      in,
		titleLines: ws.Cfg.TitleLines(),
	}
	b.rebuild()
	return b
}

// SetNow overrides the clock used for last-contact ages (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		b.seenToasts = len(b.toasts.All())
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewInput:
		return b.viewInput()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewConfirmRemoveColumn:
		return b.viewRemoveColumnConfirm()
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewInput:
		return b.handleInputKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewConfirmRemoveColumn:
		return b.handleRemoveColumnKey(msg)
	}
	return b, nil
}

func (b *Board) editing() bool {
	return b.ws.Board.Mode() == board.Editing
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.carry != nil {
		return b.handleCarryKey(msg)
	}
	if b.editing() {
		if done, cmd := b.handleEditKey(msg); done {
			return b, cmd
		}
	}

	switch msg.String() {
	case "q", keyEsc:
		if b.editing() {
			b.err = errFinishColumnEdit
			return b, nil
		}
		if msg.String() == keyEsc && b.search != "" {
			b.search = ""
			b.rebuild()
			return b, nil
		}
		return b, tea.Quit
	case "h", "left":
		b.moveCol(-1)
	case "l", "right":
		b.moveCol(1)
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.leads)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "/":
		b.prompt(inputSearch, "Buscar: ", b.search)
	case "E":
		b.ws.Board.BeginColumnEdit()
		b.err = nil
	default:
		if b.editing() {
			b.err = errFinishColumnEdit
			return b, nil
		}
		b.handleLeadKey(msg)
	}
	return b, nil
}

// handleLeadKey runs the lead actions available outside column editing.
func (b *Board) handleLeadKey(msg tea.KeyMsg) {
	switch msg.String() {
	case keyEnter:
		if l, ok := b.selectedLead(); ok {
			_ = b.ws.Board.Open(l.ID)
			b.view = viewDetail
		}
	case keySpace:
		if l, ok := b.selectedLead(); ok {
			b.carry = &carried{leadID: l.ID, from: l.Column, name: l.Name}
		}
	case "n":
		b.prompt(inputNewLead, "Nome do lead: ", "")
	case "c":
		if _, ok := b.selectedLead(); ok {
			b.prompt(inputComment, "Comentário: ", "")
		}
	case "d", "D":
		if l, ok := b.selectedLead(); ok {
			b.deleteID = l.ID
			b.deleteName = l.Name
			b.view = viewConfirmDelete
		}
	}
}

// handleEditKey handles column-edit keys. It reports whether msg was consumed.
func (b *Board) handleEditKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	col := b.currentColumn()
	switch msg.String() {
	case "a":
		b.prompt(inputAddColumn, "Nova coluna: ", "")
	case "r":
		if col != nil {
			b.prompt(inputRenameColumn, "Renomear coluna: ", col.col.Name)
		}
	case "x":
		if col != nil {
			b.removeColID = col.col.ID
			b.removeColName = col.col.Name
			b.view = viewConfirmRemoveColumn
		}
	case "H", "L":
		b.shiftColumn(msg.String() == "L")
	case keyEnter:
		b.commitColumns()
	case keyEsc:
		b.ws.Board.CancelColumnEdit()
		b.err = nil
		b.reload()
	default:
		return false, nil
	}
	return true, nil
}

// shiftColumn swaps the active column with its neighbor through the drag
// resolver, as if its header had been dropped on the neighbor.
func (b *Board) shiftColumn(right bool) {
	target := b.activeCol - 1
	if right {
		target = b.activeCol + 1
	}
	if target < 0 || target >= len(b.columns) {
		return
	}
	action := board.Resolve(board.DragEnd{
		Kind:         board.DragColumn,
		ActiveID:     b.columns[b.activeCol].col.ID,
		OverColumnID: b.columns[target].col.ID,
	})
	if err := b.ws.Board.Dispatch(action); err != nil {
		b.err = err
		return
	}
	b.activeCol = target
	b.rebuild()
}

func (b *Board) commitColumns() {
	if err := b.ws.Board.CommitColumnEdit(); err != nil {
		b.err = err
		return
	}
	b.err = nil
	if _, err := b.ws.Sync(); err != nil {
		b.err = err
	}
	b.ws.LogColumn("columns-commit", "", strconv.Itoa(len(b.ws.Board.Columns()))+" columns")
	if b.pendingReload {
		b.reload()
		return
	}
	b.rebuild()
}

// handleCarryKey moves the carried lead between columns until it is dropped.
func (b *Board) handleCarryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		b.moveCol(-1)
	case "l", "right":
		b.moveCol(1)
	case keySpace, keyEnter:
		over := ""
		if col := b.currentColumn(); col != nil {
			over = col.col.ID
		}
		b.drop(over)
	case keyEsc, "q":
		b.drop("")
	}
	return b, nil
}

// drop ends a carry over the given column ("" means outside any column).
func (b *Board) drop(over string) {
	c := b.carry
	b.carry = nil
	action := board.Resolve(board.DragEnd{
		Kind:         board.DragLead,
		ActiveID:     strconv.Itoa(c.leadID),
		FromColumnID: c.from,
		OverColumnID: over,
	})
	if action.Kind == board.ActionNone {
		b.rebuild()
		return
	}
	if err := b.ws.Board.Dispatch(action); err != nil {
		b.err = err
		return
	}
	b.persist("move", c.leadID, c.from+" -> "+action.ColumnID)
	b.selectLead(c.leadID)
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l, ok := b.ws.Board.Selected()
	if !ok {
		b.view = viewBoard
		return b, nil
	}
	switch msg.String() {
	case "q", keyEsc:
		b.ws.Board.Close()
		b.view = viewBoard
	case "c":
		b.prompt(inputComment, "Comentário: ", "")
	case "d", "D":
		b.deleteID = l.ID
		b.deleteName = l.Name
		b.view = viewConfirmDelete
	case "h", "l", "left", "right":
		b.stepLead(l, msg.String() == "l" || msg.String() == "right")
	}
	return b, nil
}

// stepLead moves the open lead to the previous or next column.
func (b *Board) stepLead(l lead.Lead, forward bool) {
	cols := b.ws.Board.Columns()
	from := b.ws.Board.ColumnFor(l)
	idx := 0
	for i, c := range cols {
		if c.ID == from {
			idx = i
		}
	}
	if forward {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(cols) {
		return
	}
	if err := b.ws.Board.MoveLead(l.ID, cols[idx].ID); err != nil {
		b.err = err
		return
	}
	b.persist("move", l.ID, from+" -> "+cols[idx].ID)
}

func (b *Board) prompt(p inputPurpose, label, value string) {
	b.purpose = p
	b.back = b.view
	b.input.Prompt = label
	b.input.SetValue(value)
	b.input.CursorEnd()
	b.input.Focus()
	b.view = viewInput
}

func (b *Board) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		b.closePrompt()
		return b, nil
	case keyEnter:
		value := b.input.Value()
		b.closePrompt()
		b.submit(value)
		return b, nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

func (b *Board) closePrompt() {
	b.input.Blur()
	b.view = b.back
}

func (b *Board) submit(value string) {
	switch b.purpose {
	case inputSearch:
		b.search = strings.TrimSpace(value)
		b.activeRow = 0
		b.rebuild()
	case inputNewLead:
		if err := lead.ValidateName(value); err != nil {
			b.err = err
			return
		}
		l := b.ws.Board.AddLead(lead.Fields{Name: value})
		b.persist("create", l.ID, l.Name)
		b.selectLead(l.ID)
	case inputComment:
		id := b.commentTarget()
		if id == 0 || strings.TrimSpace(value) == "" {
			return
		}
		if err := b.ws.Board.AddComment(id, value); err != nil {
			b.err = err
			return
		}
		b.persist("comment", id, value)
	case inputAddColumn:
		if col, ok := b.ws.Board.AddColumn(value); ok {
			b.rebuild()
			b.activeCol = len(b.columns) - 1
			b.clampRow()
			b.ws.LogColumn("column-add", col.ID, col.Name)
		}
	case inputRenameColumn:
		if col := b.currentColumn(); col != nil {
			if err := b.ws.Board.RenameColumn(col.col.ID, value); err != nil {
				b.err = err
			}
			b.rebuild()
		}
	}
}

// commentTarget is the open lead in the detail view, else the selected card.
func (b *Board) commentTarget() int {
	if sel, ok := b.ws.Board.Selected(); ok && b.view == viewDetail {
		return sel.ID
	}
	if l, ok := b.selectedLead(); ok {
		return l.ID
	}
	return 0
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
		if _, ok := b.ws.Board.Selected(); ok {
			b.view = viewDetail
		}
	}
	return b, nil
}

func (b *Board) executeDelete() {
	b.view = viewBoard
	if err := b.ws.Board.DeleteLead(b.deleteID); err != nil {
		b.err = err
		return
	}
	b.persist("delete", b.deleteID, b.deleteName)
}

func (b *Board) handleRemoveColumnKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.view = viewBoard
		if err := b.ws.Board.RemoveColumn(b.removeColID); err != nil {
			b.err = err
			return b, nil
		}
		b.ws.LogColumn("column-remove", b.removeColID, b.removeColName)
		b.rebuild()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

// persist writes lead changes to disk and records the activity.
func (b *Board) persist(action string, leadID int, detail string) {
	if _, err := b.ws.Sync(); err != nil {
		b.err = err
	} else {
		b.err = nil
		b.ws.Log(action, leadID, detail)
	}
	b.rebuild()
}

// reload re-reads the board from disk unless an edit is in flight.
func (b *Board) reload() {
	if b.editing() || b.view == viewInput || b.carry != nil {
		b.pendingReload = true
		return
	}
	b.pendingReload = false

	open, hadOpen := b.ws.Board.Selected()
	if err := b.ws.Reload(); err != nil {
		b.err = err
		return
	}
	if hadOpen {
		if b.ws.Board.Open(open.ID) != nil && b.view == viewDetail {
			b.view = viewBoard
		}
	}
	b.rebuild()
}

// rebuild regroups the board's leads into display columns.
func (b *Board) rebuild() {
	leads := board.Search(b.ws.Board.Leads(), b.search)
	cols := b.ws.Board.Columns()

	prevScroll := make(map[string]int, len(b.columns))
	for _, c := range b.columns {
		prevScroll[c.col.ID] = c.scrollOff
	}

	b.columns = make([]column, len(cols))
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		b.columns[i] = column{col: c, scrollOff: prevScroll[c.ID]}
		index[c.ID] = i
	}
	for _, l := range leads {
		if i, ok := index[b.ws.Board.ColumnFor(l)]; ok {
			b.columns[i].leads = append(b.columns[i].leads, l)
		}
	}

	if b.activeCol >= len(b.columns) {
		b.activeCol = max(len(b.columns)-1, 0)
	}
	b.clampRow()
}

// selectLead moves the cursor onto the lead with id, if it is displayed.
func (b *Board) selectLead(id int) {
	for ci, c := range b.columns {
		for ri, l := range c.leads {
			if l.ID == id {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return
			}
		}
	}
}

func (b *Board) moveCol(delta int) {
	next := b.activeCol + delta
	if next < 0 || next >= len(b.columns) {
		return
	}
	b.activeCol = next
	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedLead() (lead.Lead, bool) {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.leads) {
		return lead.Lead{}, false
	}
	return col.leads[b.activeRow], true
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.leads) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.leads) {
		b.activeRow = len(col.leads) - 1
	}
	b.ensureVisible()
}

// handleMouse selects the clicked card or column.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.view != viewBoard || len(b.columns) == 0 {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}
	b.activeCol = clickedCol

	col := &b.columns[clickedCol]
	lineY := msg.Y - 1
	if col.scrollOff > 0 {
		lineY-- // "↑ N more" indicator
	}
	cardLine := 0
	for rowIdx := col.scrollOff; rowIdx < len(col.leads) && lineY >= 0; rowIdx++ {
		cardH := b.cardHeight(col.leads[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			b.activeRow = rowIdx
			b.ensureVisible()
			return b, nil
		}
		cardLine += cardH
	}
	b.clampRow()
	return b, nil
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	return b.ws.WatchPaths()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically to refresh last-contact ages.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// lastToast returns the newest notification not yet dismissed by a key press.
func (b *Board) lastToast() (notify.Notification, bool) {
	all := b.toasts.All()
	if len(all) <= b.seenToasts {
		return notify.Notification{}, false
	}
	return all[len(all)-1], true
}

func (b *Board) statusLine() string {
	mode := ""
	switch {
	case b.carry != nil:
		mode = fmt.Sprintf(" | movendo #%d %s: h/l coluna, space soltar, esc cancelar", b.carry.leadID, b.carry.name)
	case b.editing():
		mode = " | EDITANDO COLUNAS a:add r:rename x:remove H/L:mover enter:salvar esc:descartar"
	default:
		mode = " | n:novo enter:abrir space:mover c:comentar d:del /:buscar E:colunas q:sair"
	}
	filter := ""
	if b.search != "" {
		filter = fmt.Sprintf(" | busca %q", b.search)
	}
	return fmt.Sprintf(" %s | %d leads%s%s", b.ws.Cfg.Board.Name, len(b.ws.Board.Leads()), filter, mode)
}
