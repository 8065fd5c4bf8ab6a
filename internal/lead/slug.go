package lead

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 50

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug converts a name to a filename-friendly slug. Accents are
// folded so "Reunião" becomes "reuniao".
func GenerateSlug(name string) string {
	slug := strings.ToLower(foldAccents(name))
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}

	if slug == "" {
		slug = "lead"
	}
	return slug
}

// foldAccents drops combining marks after canonical decomposition.
func foldAccents(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if r >= 0x300 && r <= 0x36f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GenerateFilename creates a lead filename from an ID and slug.
func GenerateFilename(id int, slug string) string {
	padWidth := 3
	if idStr := strconv.Itoa(id); len(idStr) > padWidth {
		padWidth = len(idStr)
	}
	return fmt.Sprintf("%0*d-%s.md", padWidth, id, slug)
}
