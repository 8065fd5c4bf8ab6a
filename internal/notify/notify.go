// Package notify is the fire-and-forget notification surface: short
// success/error toasts with a title and a description.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity classifies a notification.
type Severity int

const (
	// Success reports a completed user action.
	Success Severity = iota
	// Error reports a failed user action.
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "success"
}

// Notification is one toast.
type Notification struct {
	Severity    Severity
	Title       string
	Description string
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// DisableColor strips styling from writer output.
func DisableColor() {
	successStyle = lipgloss.NewStyle()
	errorStyle = lipgloss.NewStyle()
	descStyle = lipgloss.NewStyle()
}

// Writer renders notifications as one line each to w.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Notifier printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify implements Notifier.
func (wr *Writer) Notify(n Notification) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	_, _ = fmt.Fprintln(wr.w, Format(n))
}

// Format renders a notification the way Writer prints it.
func Format(n Notification) string {
	title := successStyle.Render("✓ " + n.Title)
	if n.Severity == Error {
		title = errorStyle.Render("✗ " + n.Title)
	}
	if n.Description == "" {
		return title
	}
	return title + " " + descStyle.Render(n.Description)
}

// Logged forwards to next and records every notification on logger.
// Errors are logged at error level, successes at info.
func Logged(next Notifier, logger *slog.Logger) Notifier {
	return Func(func(n Notification) {
		level := slog.LevelInfo
		if n.Severity == Error {
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, "notification", "title", n.Title, "description", n.Description)
		next.Notify(n)
	})
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
