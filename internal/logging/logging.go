// Package logging sets up the slog logger that writes to the board's log file.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the log file name inside the logs directory.
const FileName = "crmboard.log"

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Init opens <dir>/crmboard.log in append mode and returns a text logger at
// level, plus the closer for the file. It also becomes the slog default and
// the standard log package output, which goose writes to.
func Init(dir string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, err
	}

	file, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // board-local path
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return logger, file, nil
}
