package lead

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
)

// idPrefixRe matches the numeric ID prefix of a lead filename.
var idPrefixRe = regexp.MustCompile(`^(\d+)-`)

// FindByID scans the leads directory for a file matching the given ID.
// Returns the full path to the lead file.
func FindByID(leadsDir string, id int) (string, error) {
	entries, err := os.ReadDir(leadsDir)
	if err != nil {
		return "", fmt.Errorf("reading leads directory: %w", err)
	}

	idStr := strconv.Itoa(id)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		dash := strings.IndexByte(name, '-')
		if dash < 1 {
			continue
		}
		if strings.TrimLeft(name[:dash], "0") == idStr {
			return filepath.Join(leadsDir, name), nil
		}
	}

	return "", NotFound(id)
}

// ReadAll reads all lead files from the given directory, ordered by ID.
func ReadAll(leadsDir string) ([]Lead, error) {
	leads, warnings, err := ReadAllLenient(leadsDir)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		return nil, fmt.Errorf("reading %s: %w", warnings[0].File, warnings[0].Err)
	}
	return leads, nil
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all lead files, skipping malformed files instead of aborting.
// Successfully parsed leads are returned along with warnings for files that failed.
func ReadAllLenient(leadsDir string) ([]Lead, []ReadWarning, error) {
	entries, err := os.ReadDir(leadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading leads directory: %w", err)
	}

	var leads []Lead
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		l, readErr := Read(filepath.Join(leadsDir, entry.Name()))
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		leads = append(leads, *l)
	}

	sort.SliceStable(leads, func(i, j int) bool { return leads[i].ID < leads[j].ID })
	return leads, warnings, nil
}

// ExtractIDFromFilename extracts the numeric ID from a lead filename.
func ExtractIDFromFilename(filename string) (int, error) {
	matches := idPrefixRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return 0, fmt.Errorf("cannot extract ID from filename %q", filename)
	}
	return strconv.Atoi(matches[1])
}

// NextID returns max(existing)+1, or 1 when there are no leads.
func NextID(leads []Lead) int {
	highest := 0
	for _, l := range leads {
		if l.ID > highest {
			highest = l.ID
		}
	}
	return highest + 1
}

// NotFound returns the structured error for an unknown lead.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.LeadNotFound, "lead not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}
