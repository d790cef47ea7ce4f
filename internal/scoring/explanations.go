package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Explanation is the human-readable description of an IPC section.
type Explanation struct {
	Title             string `json:"title"`
	Why               string `json:"why"`
	SimpleExplanation string `json:"simple_explanation"`
	Suggestion        string `json:"suggestion"`
}

// MissingExplanation is used when a predicted label has no curated entry.
var MissingExplanation = Explanation{
	Title:             "Section details not available",
	Why:               "This section may not have predefined explanations in the system.",
	SimpleExplanation: "Detailed explanation not available for this section.",
	Suggestion:        "Consult legal resources or authorities for more information.",
}

// ExplanationBook is an immutable label -> explanation table.
type ExplanationBook struct {
	entries map[string]Explanation
}

// NewExplanationBook loads explanations from path, or the bundled table when
// path is empty.
func NewExplanationBook(path string) (*ExplanationBook, error) {
	data, err := readTable(path, "data/ipc_explanations.json")
	if err != nil {
		return nil, fmt.Errorf("read explanations: %w", err)
	}
	var raw map[string]Explanation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal explanations: %w", err)
	}
	entries := make(map[string]Explanation, len(raw))
	for label, exp := range raw {
		label = strings.TrimSpace(label)
		if label == "" || strings.TrimSpace(exp.Title) == "" {
			continue
		}
		entries[label] = exp
	}
	if len(entries) == 0 {
		return nil, errors.New("explanations missing")
	}
	return &ExplanationBook{entries: entries}, nil
}

// Lookup returns the explanation for label.
func (b *ExplanationBook) Lookup(label string) (Explanation, bool) {
	if b == nil {
		return Explanation{}, false
	}
	exp, ok := b.entries[label]
	return exp, ok
}

// Resolve returns the curated explanation or MissingExplanation.
func (b *ExplanationBook) Resolve(label string) (Explanation, bool) {
	if exp, ok := b.Lookup(label); ok {
		return exp, true
	}
	return MissingExplanation, false
}

// Len reports how many sections carry an explanation.
func (b *ExplanationBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
