package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no crm board found (run 'crmboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version       int         `yaml:"version"`
	Board         BoardConfig `yaml:"board"`
	LeadsDir      string      `yaml:"leads_dir"`
	StorageFile   string      `yaml:"storage_file"`
	CatalogFile   string      `yaml:"catalog_file,omitempty"`
	Palette       []string    `yaml:"palette"`
	CommentAuthor string      `yaml:"comment_author,omitempty"`
	LogLevel      string      `yaml:"log_level,omitempty"`
	TUI           TUIConfig   `yaml:"tui,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// LeadsPath returns the absolute path to the leads directory.
func (c *Config) LeadsPath() string {
	return filepath.Join(c.dir, c.LeadsDir)
}

// StoragePath returns the absolute path to the local key-value store file.
func (c *Config) StoragePath() string {
	return filepath.Join(c.dir, c.StorageFile)
}

// CatalogPath returns the absolute path to the catalog database.
func (c *Config) CatalogPath() string {
	name := c.CatalogFile
	if name == "" {
		name = DefaultCatalogFile
	}
	return filepath.Join(c.dir, name)
}

// LogsPath returns the directory log files are written to.
func (c *Config) LogsPath() string {
	return filepath.Join(c.dir, "logs")
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:       CurrentVersion,
		Board:         BoardConfig{Name: name},
		LeadsDir:      DefaultLeadsDir,
		StorageFile:   DefaultStorageFile,
		Palette:       append([]string{}, DefaultPalette...),
		CommentAuthor: DefaultCommentAuthor,
		LogLevel:      DefaultLogLevel,
		TUI:           TUIConfig{TitleLines: DefaultTitleLines},
	}
}

// Author returns the comment author, falling back to DefaultCommentAuthor.
func (c *Config) Author() string {
	if c.CommentAuthor == "" {
		return DefaultCommentAuthor
	}
	return c.CommentAuthor
}

// TitleLines returns the configured number of name lines for TUI cards.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// SlogLevel maps log_level to a slog.Level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.LeadsDir == "" {
		return fmt.Errorf("%w: leads_dir is required", ErrInvalid)
	}
	if c.StorageFile == "" {
		return fmt.Errorf("%w: storage_file is required", ErrInvalid)
	}
	if len(c.Palette) < 1 {
		return fmt.Errorf("%w: palette needs at least 1 color", ErrInvalid)
	}
	if hasDuplicates(c.Palette) {
		return fmt.Errorf("%w: palette contains duplicates", ErrInvalid)
	}
	if c.LogLevel != "" && !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("%w: log_level %q must be one of %v", ErrInvalid, c.LogLevel, validLogLevels)
	}
	return c.validateTUI()
}

func (c *Config) validateTUI() error {
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines != 0 && (c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines) {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, leads subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.LeadsPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating leads directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no crm board found (run 'crmboard init' to create one)")
		}
		dir = parent
	}
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
