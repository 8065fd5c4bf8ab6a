// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the appropriate format based on flags and environment.
// Default is table when no explicit format is set.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch os.Getenv("CRMBOARD_OUTPUT") {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}

	return FormatTable
}

// ColorSupported reports whether w is a terminal that can render color,
// honoring NO_COLOR and CLICOLOR_FORCE.
func ColorSupported(w io.Writer) bool {
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}
