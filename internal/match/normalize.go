package match

import (
	"regexp"
	"strings"
)

var (
	nonLetter  = regexp.MustCompile(`[^a-z\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// QueryProfile captures the normalization output for a user query.
type QueryProfile struct {
	Original string
	Lower    string
	Tokens   []string
}

// NormalizeQuery lowercases and trims the query and splits it on whitespace.
func NormalizeQuery(input string) QueryProfile {
	lower := Normalize(input)
	return QueryProfile{
		Original: input,
		Lower:    lower,
		Tokens:   strings.Fields(lower),
	}
}

// Normalize lowercases and trims the input.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// CleanIncident prepares incident text for keyword scoring: everything outside
// a-z and whitespace becomes a space, then whitespace runs collapse to one space.
func CleanIncident(input string) string {
	lower := strings.ToLower(input)
	lower = nonLetter.ReplaceAllString(lower, " ")
	lower = whitespace.ReplaceAllString(lower, " ")
	return strings.TrimSpace(lower)
}

// ContainsAny reports whether any phrase occurs as a substring of text.
func ContainsAny(text string, phrases []string) bool {
	_, ok := FirstMatch(text, phrases)
	return ok
}

// FirstMatch returns the first phrase, in list order, contained in text.
func FirstMatch(text string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(text, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// EqualsAny reports whether text equals one of the phrases exactly.
func EqualsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if text == phrase {
			return true
		}
	}
	return false
}

// CompactTerms lowercases, trims and drops empty entries, keeping order and
// removing duplicates.
func CompactTerms(in []string) []string {
	var out []string
	for _, term := range in {
		term = Normalize(term)
		out = appendUnique(out, term)
	}
	return out
}

func appendUnique(s []string, v string) []string {
	if v == "" {
		return s
	}
	for _, existing := range s {
		if existing == v {
			return s
		}
	}
	return append(s, v)
}
