package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "sections.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertAndLookupSection(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertSections([]Section{
		{Number: "IPC 378", Title: "Theft", Text: "Whoever, intending to take dishonestly..."},
		{Number: "0420", Title: "Cheating", Text: "Whoever cheats..."},
	}))

	section, err := db.LookupSection("378")
	require.NoError(t, err)
	assert.Equal(t, "Theft", section.Title)

	section, err = db.LookupSection("420")
	require.NoError(t, err)
	assert.Equal(t, "Cheating", section.Title)

	require.NoError(t, db.UpsertSections([]Section{{Number: "378", Title: "Theft (amended)", Text: "new"}}))
	section, err = db.LookupSection("378")
	require.NoError(t, err)
	assert.Equal(t, "Theft (amended)", section.Title)

	count, err := db.CountSections()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = db.LookupSection("999")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestUpsertRejectsMissingNumber(t *testing.T) {
	db := openTestDB(t)
	assert.Error(t, db.UpsertSections([]Section{{Title: "nameless"}}))
}

func TestNormalizeSectionNumber(t *testing.T) {
	tests := map[string]string{
		"378":      "378",
		" IPC 420": "420",
		"ipc354":   "354",
		"0323":     "323",
		"498a":     "498A",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSectionNumber(in), in)
	}
}

func TestExcerpt(t *testing.T) {
	short := Section{Text: "  short text  "}
	assert.Equal(t, "short text", short.Excerpt())

	long := Section{Text: strings.Repeat("a", 450)}
	excerpt := long.Excerpt()
	assert.Equal(t, 403, len(excerpt))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestLoadSectionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipc_sections.json")
	payload := `[
		{"section_number": 378, "section_title": "Theft", "section_text": "Whoever..."},
		{"section_number": "498A", "section_title": "Cruelty", "section_text": "Whoever, being the husband..."},
		{"section_number": null, "section_title": "Broken", "section_text": ""}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	sections, err := LoadSectionsFile(path)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "378", sections[0].Number)
	assert.Equal(t, "498A", sections[1].Number)
}
