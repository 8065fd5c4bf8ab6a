// Package workspace binds a board directory on disk to a board.Board: it
// loads the lead files and the column store, and writes back whatever the
// board changed.
package workspace

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/twiced-technology-gmbh/crmboard/internal/board"
	"github.com/twiced-technology-gmbh/crmboard/internal/config"
	"github.com/twiced-technology-gmbh/crmboard/internal/filelock"
	"github.com/twiced-technology-gmbh/crmboard/internal/lead"
	"github.com/twiced-technology-gmbh/crmboard/internal/logging"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
	"github.com/twiced-technology-gmbh/crmboard/internal/storage"
)

// Options tune how the board is built. Zero values are fine.
type Options struct {
	Notifier notify.Notifier
	Logger   *slog.Logger
	Pick     board.PaletteFunc
}

// Workspace is an opened board directory.
type Workspace struct {
	Cfg   *config.Config
	Board *board.Board
	Store *storage.FileStore

	// Warnings lists lead files that could not be parsed on the last load.
	Warnings []lead.ReadWarning

	opts  Options
	saved map[int]lead.Lead
}

// Open loads the leads and the column layout of the board at cfg.
func Open(cfg *config.Config, opts Options) (*Workspace, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	w := &Workspace{
		Cfg:   cfg,
		Store: storage.NewFileStore(cfg.StoragePath()).WithLogger(opts.Logger),
		opts:  opts,
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload rebuilds the board from disk, dropping unsaved in-memory state.
func (w *Workspace) Reload() error {
	leads, warnings, err := lead.ReadAllLenient(w.Cfg.LeadsPath())
	if err != nil {
		return err
	}
	for _, warn := range warnings {
		w.opts.Logger.Warn("skipping unreadable lead file", "file", warn.File, "error", warn.Err)
	}

	w.Warnings = warnings
	w.saved = make(map[int]lead.Lead, len(leads))
	for _, l := range leads {
		w.saved[l.ID] = l.Clone()
	}
	w.Board = board.New(board.Options{
		Store:    w.Store,
		Notifier: w.opts.Notifier,
		Logger:   w.opts.Logger,
		Palette:  w.Cfg.Palette,
		Pick:     w.opts.Pick,
		Author:   w.Cfg.Author(),
		Leads:    leads,
	})
	return nil
}

// Sync writes every lead the board created or changed since the last load or
// sync, and removes the files of deleted leads. It returns the ids written.
func (w *Workspace) Sync() ([]int, error) {
	var written []int
	err := filelock.With(w.Cfg.LeadsPath(), func() error {
		current := w.Board.Leads()
		seen := make(map[int]bool, len(current))

		for i := range current {
			l := &current[i]
			seen[l.ID] = true
			prev, existed := w.saved[l.ID]
			if existed {
				l.File = prev.File
				if reflect.DeepEqual(prev, *l) {
					continue
				}
			}
			if err := lead.Save(w.Cfg.LeadsPath(), l); err != nil {
				return fmt.Errorf("saving lead #%d: %w", l.ID, err)
			}
			w.saved[l.ID] = l.Clone()
			written = append(written, l.ID)
		}

		for id, prev := range w.saved {
			if seen[id] {
				continue
			}
			if err := lead.Remove(&prev); err != nil {
				return fmt.Errorf("removing lead #%d: %w", id, err)
			}
			delete(w.saved, id)
			written = append(written, id)
		}
		return nil
	})
	return written, err
}

// File returns the path of the file backing a lead, if it has been saved.
func (w *Workspace) File(id int) (string, bool) {
	l, ok := w.saved[id]
	if !ok || l.File == "" {
		return "", false
	}
	return l.File, true
}

// Lead returns the board's copy of a lead with its file path filled in.
func (w *Workspace) Lead(id int) (lead.Lead, bool) {
	l, ok := w.Board.Lead(id)
	if !ok {
		return lead.Lead{}, false
	}
	if path, ok := w.File(id); ok {
		l.File = path
	}
	return l, true
}

// Log appends a lead activity entry to the board's activity log.
func (w *Workspace) Log(action string, leadID int, detail string) {
	board.LogMutation(w.Cfg.Dir(), action, leadID, detail)
}

// LogColumn appends a column activity entry.
func (w *Workspace) LogColumn(action, columnID, detail string) {
	board.LogColumnMutation(w.Cfg.Dir(), action, columnID, detail)
}

// WatchPaths returns the paths that should be watched for file changes.
func (w *Workspace) WatchPaths() []string {
	paths := []string{w.Cfg.LeadsPath()}
	if w.Cfg.Dir() != w.Cfg.LeadsPath() {
		paths = append(paths, w.Cfg.Dir())
	}
	return paths
}
