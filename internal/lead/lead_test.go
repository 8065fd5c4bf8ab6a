package lead

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
	"github.com/twiced-technology-gmbh/crmboard/internal/date"
)

func sample() Lead {
	return Lead{
		ID:          7,
		Name:        "Ana Souza",
		Company:     "Loja Azul",
		Email:       "ana@lojaazul.com",
		Column:      "lead-in",
		Responsible: "Carlos",
		LastContact: date.New(2026, time.March, 2),
		Comments: []Comment{
			{ID: 2, Text: "second", Date: date.New(2026, time.March, 2), Author: "Usuário"},
			{ID: 1, Text: "first", Date: date.New(2026, time.March, 1), Author: "Usuário"},
		},
		Notes: "Met at the **fair**.\n",
	}
}

func TestSaveReadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := sample()
	require.NoError(t, Save(dir, &l))
	assert.Equal(t, filepath.Join(dir, "007-ana-souza.md"), l.File)

	back, err := Read(l.File)
	require.NoError(t, err)
	assert.Equal(t, l, *back)
}

func TestSaveRenamesOnNameChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := sample()
	require.NoError(t, Save(dir, &l))
	old := l.File

	l.Name = "Ana Lima"
	require.NoError(t, Save(dir, &l))
	assert.Equal(t, filepath.Join(dir, "007-ana-lima.md"), l.File)
	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}

func TestReadRejectsMissingFrontmatter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "001-x.md")
	require.NoError(t, os.WriteFile(path, []byte("no frontmatter"), 0o600))

	_, err := Read(path)
	assert.ErrorContains(t, err, "does not start with YAML frontmatter")
}

func TestSplitFrontmatterAtEOF(t *testing.T) {
	t.Parallel()

	fm, body, err := splitFrontmatter([]byte("---\nid: 1\n---"))
	require.NoError(t, err)
	assert.Equal(t, "id: 1", string(fm))
	assert.Empty(t, body)
}

func TestReadAllLenientSkipsBrokenFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, l := range []Lead{{ID: 2, Name: "B", Column: "call"}, {ID: 1, Name: "A", Column: "lead-in"}} {
		l := l
		require.NoError(t, Save(dir, &l))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "003-bad.md"), []byte("---\nid: [\n---\n"), 0o600))

	leads, warnings, err := ReadAllLenient(dir)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, 1, leads[0].ID)
	assert.Equal(t, 2, leads[1].ID)
	require.Len(t, warnings, 1)
	assert.Equal(t, "003-bad.md", warnings[0].File)

	_, err = ReadAll(dir)
	assert.Error(t, err)
}

func TestReadAllMissingDir(t *testing.T) {
	t.Parallel()

	leads, err := ReadAll(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := Lead{ID: 12, Name: "Bruno", Column: "call"}
	require.NoError(t, Save(dir, &l))

	path, err := FindByID(dir, 12)
	require.NoError(t, err)
	assert.Equal(t, l.File, path)

	_, err = FindByID(dir, 99)
	assert.Equal(t, clierr.LeadNotFound, clierr.CodeOf(err))
}

func TestNextID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NextID(nil))
	assert.Equal(t, 10, NextID([]Lead{{ID: 3}, {ID: 9}, {ID: 1}}))
}

func TestGenerateSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Ana Souza", "ana-souza"},
		{"Reunião com João", "reuniao-com-joao"},
		{"  --  ", "lead"},
		{"a very long lead name that keeps going well past the fifty character cap", "a-very-long-lead-name-that-keeps-going-well-past"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "001-x.md", GenerateFilename(1, "x"))
	assert.Equal(t, "1234-x.md", GenerateFilename(1234, "x"))
}

func TestPatchApply(t *testing.T) {
	t.Parallel()

	name, phone := " Ana Lima ", "+55 11 9999"
	l := sample()
	p := Patch{Name: &name, Phone: &phone}
	require.False(t, p.IsEmpty())

	p.Apply(&l)
	assert.Equal(t, "Ana Lima", l.Name)
	assert.Equal(t, "+55 11 9999", l.Phone)
	assert.Equal(t, "Loja Azul", l.Company)
	assert.True(t, Patch{}.IsEmpty())

	notes := "Prefere contato por e-mail.\n\n\n"
	Patch{Notes: &notes}.Apply(&l)
	assert.Equal(t, "Prefere contato por e-mail.\n", l.Notes)

	blank := "  \n"
	Patch{Notes: &blank}.Apply(&l)
	assert.Empty(t, l.Notes)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	l := sample()
	c := l.Clone()
	c.Comments[0].Text = "changed"
	assert.Equal(t, "second", l.Comments[0].Text)
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateFields(Fields{Name: "Ana"}))
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(ValidateFields(Fields{Name: " "})))
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(ValidateFields(Fields{Name: "Ana", Email: "nope"})))

	blank := ""
	assert.Error(t, ValidatePatch(Patch{Name: &blank}))
	assert.NoError(t, ValidatePatch(Patch{Email: &blank}))
}
