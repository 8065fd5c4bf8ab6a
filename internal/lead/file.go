package lead

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

// Read parses a lead file and returns the Lead with notes populated.
func Read(path string) (*Lead, error) {
	data, err := os.ReadFile(path) //nolint:gosec // lead path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading lead file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var l Lead
	if err := yaml.Unmarshal(fm, &l); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	l.Notes = body
	l.File = path

	return &l, nil
}

// Write serializes a lead to a markdown file with YAML frontmatter.
func Write(path string, l *Lead) error {
	fm, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if l.Notes != "" {
		buf.WriteString("\n")
		buf.WriteString(l.Notes)
		if !strings.HasSuffix(l.Notes, "\n") {
			buf.WriteString("\n")
		}
	}

	return os.WriteFile(path, buf.Bytes(), fileMode)
}

// Save writes l into dir, creating its file on first save. When the name
// changed the file is renamed so the slug follows it. l.File is updated.
func Save(dir string, l *Lead) error {
	want := filepath.Join(dir, GenerateFilename(l.ID, GenerateSlug(l.Name)))
	if l.File == "" {
		l.File = want
	}
	if err := Write(l.File, l); err != nil {
		return err
	}
	if l.File == want {
		return nil
	}
	if err := os.Rename(l.File, want); err != nil {
		return fmt.Errorf("renaming lead file: %w", err)
	}
	l.File = want
	return nil
}

// Remove deletes the backing file of l.
func Remove(l *Lead) error {
	if l.File == "" {
		return nil
	}
	if err := os.Remove(l.File); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lead file: %w", err)
	}
	return nil
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n". Returns frontmatter bytes and body string.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	rest := content[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		if !strings.HasSuffix(rest, "\n---") {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
		idx = len(rest) - len("\n---")
	}

	fm := rest[:idx]
	body := ""
	if closingEnd := idx + len("\n---\n"); closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
	}

	return []byte(fm), body, nil
}
