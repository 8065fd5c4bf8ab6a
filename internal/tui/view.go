package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/output"
)

const staleAfter = 14 * 24 * time.Hour

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	carriedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("226")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	staleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	} else if _, ok := b.lastToast(); ok {
		h += errorChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	// Header line.
	avail := budget - 1
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.leads) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()

	for range len(col.leads) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.leads) == 0 || avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.leads); i++ {
		cardLines := b.cardHeight(col.leads[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// --- View rendering ---

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No columns configured."
	}

	colWidth := b.columnWidth()
	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Clamp from the bottom so headers stay visible on tiny terminals.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	const maxColWidth = 60
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.col.Name, len(col.leads))
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.
			Foreground(output.TokenColor(col.col.Color)).
			Width(width).
			Render(headerText)
	}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.leads))
	end := min(start+maxVis, len(col.leads))

	parts := []string{header}

	if start > 0 {
		indicator := fmt.Sprintf("  ↑ %d more", start)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	if len(col.leads) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (vazio)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(col.leads[rowIdx], col.col.Color, active, width))
		}
	}

	if end < len(col.leads) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.leads)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(l lead.Lead, color string, active bool, width int) string {
	content := strings.Join(b.cardContentLines(l, width), "\n")

	style := cardStyle.BorderForeground(output.TokenColor(color))
	switch {
	case b.carry != nil && b.carry.leadID == l.ID:
		style = carriedCardStyle
	case active:
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(l lead.Lead, width int) int {
	return len(b.cardContentLines(l, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(l lead.Lead, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	idLabel := "#" + strconv.Itoa(l.ID) + " "
	lines := wrapTitle2(l.Name, cardWidth-len(idLabel), cardWidth, b.titleLines)
	lines[0] = dimStyle.Render(idLabel) + lines[0]

	if l.Company != "" {
		lines = append(lines, truncate(l.Company, cardWidth))
	}

	var meta []string
	metaStyle := dimStyle
	if l.Responsible != "" {
		meta = append(meta, l.Responsible)
	}
	if !l.LastContact.IsZero() {
		age := b.now().Sub(l.LastContact.Time)
		if age >= staleAfter {
			metaStyle = staleStyle
		}
		meta = append(meta, humanDuration(max(age, 0)))
	}
	if n := len(l.Comments); n > 0 {
		meta = append(meta, strconv.Itoa(n)+"c")
	}
	if len(meta) > 0 {
		lines = append(lines, metaStyle.Render(truncate(strings.Join(meta, " · "), cardWidth)))
	}
	return lines
}

func (b *Board) viewDetail() string {
	l, ok := b.ws.Board.Selected()
	if !ok {
		return b.viewBoard()
	}
	col, _ := b.ws.Board.Column(b.ws.Board.ColumnFor(l))

	var sb strings.Builder
	output.LeadDetail(&sb, l, col)
	body := strings.TrimRight(sb.String(), "\n")

	// Keep the footer on screen; the body is clipped from the bottom.
	budget := b.height - b.chromeHeight()
	if budget > 0 {
		lines := strings.Split(body, "\n")
		if len(lines) > budget {
			body = strings.Join(lines[:budget], "\n")
		}
	}

	help := " esc:voltar c:comentar h/l:mover d:del"
	return lipgloss.JoinVertical(lipgloss.Left, body, "", b.renderMessages()+statusBarStyle.Render(truncate(help, b.width)))
}

func (b *Board) viewInput() string {
	content := b.input.View() + "\n\n" + dimStyle.Render("enter:ok  esc:cancelar")
	return dialogStyle.Render(content)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Excluir lead?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", b.deleteID, b.deleteName) + "\n\n" +
		dimStyle.Render("y:sim  n:não")

	return dialogStyle.Render(content)
}

func (b *Board) viewRemoveColumnConfirm() string {
	target := ""
	for _, c := range b.ws.Board.Columns() {
		if c.ID != b.removeColID {
			target = c.Name
			break
		}
	}
	content := errorStyle.Render("Remover coluna?") + "\n\n" +
		fmt.Sprintf("  %s", b.removeColName) + "\n" +
		dimStyle.Render(fmt.Sprintf("  os leads vão para %q", target)) + "\n\n" +
		dimStyle.Render("y:sim  n:não")

	return dialogStyle.Render(content)
}

// renderMessages returns the error or toast line, newline-terminated, or "".
func (b *Board) renderMessages() string {
	if b.err != nil {
		return errorStyle.Render(truncate("Erro: "+b.err.Error(), b.width)) + "\n"
	}
	if n, ok := b.lastToast(); ok {
		style := successStyle
		if n.Severity == notify.Error {
			style = errorStyle
		}
		return style.Render(truncate(notify.Format(n), b.width)) + "\n"
	}
	return ""
}

func (b *Board) renderStatusBar() string {
	return b.renderMessages() + statusBarStyle.Render(truncate(b.statusLine(), b.width))
}

// wrapTitle2 splits a title across maxLines lines with different widths:
// firstWidth for the first line (shares space with the ID prefix),
// restWidth for continuation lines.
func wrapTitle2(title string, firstWidth, restWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= firstWidth || maxLines == 1 {
		return []string{truncate(title, firstWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		lineWidth := restWidth
		if len(lines) == 0 {
			lineWidth = firstWidth
		}

		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= lineWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), lineWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line takes the remaining words.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		w := restWidth
		if len(lines) == 0 {
			w = firstWidth
		}
		lines = append(lines, truncate(current.String(), w))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// humanDuration formats a duration as a compact human-readable string.
// Examples: "<1d", "3d", "2w", "3mo", "1y".
func humanDuration(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < day:
		return "<1d"
	case d < week:
		return strconv.Itoa(int(d/day)) + "d"
	case d < month:
		return strconv.Itoa(int(d/week)) + "w"
	case d < year:
		return strconv.Itoa(int(d/month)) + "mo"
	default:
		return strconv.Itoa(int(d/year)) + "y"
	}
}
