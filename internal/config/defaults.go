// Package config handles crmboard board configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "crm"
	// DefaultLeadsDir is the default leads subdirectory name.
	DefaultLeadsDir = "leads"
	// DefaultStorageFile is the default name of the local key-value store file.
	DefaultStorageFile = "storage.yml"
	// DefaultCatalogFile is the default name of the catalog database file.
	DefaultCatalogFile = "catalog.db"
	// DefaultCommentAuthor is the author recorded on comments added from this tool.
	DefaultCommentAuthor = "Usuário"
	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"
	// DefaultTitleLines is the default number of name lines in TUI cards.
	DefaultTitleLines = 1

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// DefaultPalette is the fixed set of column style tokens new columns pick from.
var DefaultPalette = []string{
	"blue",
	"green",
	"yellow",
	"purple",
	"pink",
	"indigo",
	"red",
}

// validLogLevels lists the accepted log_level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}
