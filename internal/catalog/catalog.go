// Package catalog is the remote data collaborator for the entities that sit
// beside the pipeline: categories, partners and suppliers. Every operation
// returns a Result and callers branch on its Error.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/twiced-technology-gmbh/crmboard/internal/logging"
	"github.com/twiced-technology-gmbh/crmboard/internal/notify"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Table names.
const (
	Categories = "categories"
	Partners   = "partners"
	Suppliers  = "suppliers"
)

// Sentinel errors.
var (
	ErrInvalidTable = errors.New("unknown table")
	ErrNotFound     = errors.New("record not found")
	ErrBlankName    = errors.New("name is required")
)

// ValidTables returns the tables the catalog serves.
func ValidTables() []string {
	return []string{Categories, Partners, Suppliers}
}

// Record is one catalog row.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result is what every operation returns. Data is nil when Error is set.
type Result struct {
	Data  []Record
	Error error
}

// Client talks to the catalog database.
type Client struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the catalog database at path and migrates
// it to the latest schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// SQLite has one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configuring catalog: %w", err)
		}
	}

	c := &Client{db: db, logger: logger, now: time.Now}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, c.db, fsys)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	for _, r := range results {
		c.logger.Debug("catalog migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Close closes the database.
func (c *Client) Close() error {
	return c.db.Close()
}

func checkTable(table string) error {
	for _, t := range ValidTables() {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w %q (valid: %s)", ErrInvalidTable, table, strings.Join(ValidTables(), ", "))
}

// Select returns every row of table ordered by name.
func (c *Client) Select(ctx context.Context, table string) Result {
	if err := checkTable(table); err != nil {
		return Result{Error: err}
	}

	//nolint:gosec // table name is whitelisted above
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, name, description, contact, created_at FROM %s ORDER BY name COLLATE NOCASE", table))
	if err != nil {
		return Result{Error: fmt.Errorf("selecting %s: %w", table, err)}
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Contact, &created); err != nil {
			return Result{Error: fmt.Errorf("scanning %s: %w", table, err)}
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return Result{Error: fmt.Errorf("parsing created_at in %s: %w", table, err)}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return Result{Error: fmt.Errorf("selecting %s: %w", table, err)}
	}
	return Result{Data: records}
}

// Insert adds a row to table and returns it with its generated id.
func (c *Client) Insert(ctx context.Context, table string, rec Record) Result {
	if err := checkTable(table); err != nil {
		return Result{Error: err}
	}
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return Result{Error: ErrBlankName}
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = c.now().UTC()

	//nolint:gosec // table name is whitelisted above
	_, err := c.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (id, name, description, contact, created_at) VALUES (?, ?, ?, ?, ?)", table),
		rec.ID, rec.Name, strings.TrimSpace(rec.Description), strings.TrimSpace(rec.Contact),
		rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Result{Error: fmt.Errorf("inserting into %s: %w", table, err)}
	}
	return Result{Data: []Record{rec}}
}

// Delete removes the row with id from table.
func (c *Client) Delete(ctx context.Context, table, id string) Result {
	if err := checkTable(table); err != nil {
		return Result{Error: err}
	}

	//nolint:gosec // table name is whitelisted above
	res, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return Result{Error: fmt.Errorf("deleting from %s: %w", table, err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{Error: fmt.Errorf("deleting from %s: %w", table, err)}
	}
	if n == 0 {
		return Result{Error: fmt.Errorf("%w: %s %s", ErrNotFound, table, id)}
	}
	return Result{Data: []Record{}}
}

// Surface reports a result the way every catalog caller does: an error
// notification and an error log line on failure, a success toast otherwise.
// It returns false when the result carries an error.
func Surface(n notify.Notifier, logger *slog.Logger, action string, r Result) bool {
	if r.Error != nil {
		logger.Error("catalog operation failed", "action", action, "error", r.Error)
		n.Notify(notify.Notification{
			Severity:    notify.Error,
			Title:       action + " failed",
			Description: r.Error.Error(),
		})
		return false
	}
	n.Notify(notify.Notification{Severity: notify.Success, Title: action})
	return true
}
