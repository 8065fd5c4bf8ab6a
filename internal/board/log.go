package board

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// LogEntry represents a single activity log entry.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	LeadID    int       `json:"lead_id,omitempty"`
	ColumnID  string    `json:"column_id,omitempty"`
	Detail    string    `json:"detail"`
}

// AppendLog appends a log entry to the activity log file.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func AppendLog(boardDir string, entry LogEntry) error {
	path := filepath.Join(boardDir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted board dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateLogIfNeeded(path)

	return nil
}

// truncateLogIfNeeded reads the log file and, if it exceeds maxLogEntries,
// rewrites it keeping only the most recent entries.
func truncateLogIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= maxLogEntries {
		return nil
	}

	// Keep only the last maxLogEntries lines.
	lines = lines[len(lines)-maxLogEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}

// LogMutation appends a lead activity entry. Errors are silently discarded
// because logging should never fail a command.
func LogMutation(boardDir, action string, leadID int, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		LeadID:    leadID,
		Detail:    detail,
	})
}

// LogColumnMutation appends a column activity entry.
func LogColumnMutation(boardDir, action, columnID, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		ColumnID:  columnID,
		Detail:    detail,
	})
}

// ReadLog returns the most recent limit entries, oldest first. A limit of
// zero returns everything.
func ReadLog(boardDir string, limit int) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(boardDir, logFileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if json.Unmarshal(scanner.Bytes(), &e) != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

