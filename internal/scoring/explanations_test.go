package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledExplanations(t *testing.T) {
	book, err := NewExplanationBook("")
	require.NoError(t, err)
	assert.Equal(t, 6, book.Len())

	for _, label := range []string{"378", "420", "323", "326", "506", "354"} {
		exp, ok := book.Lookup(label)
		require.True(t, ok, label)
		assert.NotEmpty(t, exp.Title)
		assert.NotEmpty(t, exp.SimpleExplanation)
	}

	exp, _ := book.Lookup("354")
	assert.Equal(t, "Outraging the Modesty of a Woman", exp.Title)
}

func TestResolveMissing(t *testing.T) {
	book, err := NewExplanationBook(tempJSON(t, map[string]Explanation{
		"379": {Title: "Punishment for theft", Why: "w", SimpleExplanation: "s", Suggestion: "g"},
		"380": {},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, book.Len())

	exp, ok := book.Resolve("999")
	assert.False(t, ok)
	assert.Equal(t, MissingExplanation, exp)
	assert.Equal(t, "Detailed explanation not available for this section.", exp.SimpleExplanation)
}

func TestEmptyExplanationTable(t *testing.T) {
	_, err := NewExplanationBook(tempJSON(t, map[string]Explanation{}))
	assert.Error(t, err)
}
