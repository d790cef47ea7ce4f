package scoring

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nyaysetu/backend/internal/match"
)

//go:embed data/*.json
var defaultData embed.FS

// RuleResult captures keyword hits per IPC label.
type RuleResult struct {
	Scores  map[string]int      `json:"scores"`
	Matched map[string]struct{} `json:"-"`
}

// Has reports whether at least one keyword for label was found.
func (r RuleResult) Has(label string) bool {
	_, ok := r.Matched[label]
	return ok
}

// MatchedLabels returns the matched labels in label order.
func (r RuleResult) MatchedLabels() []string {
	out := make([]string, 0, len(r.Matched))
	for label := range r.Matched {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool { return labelLess(out[i], out[j]) })
	return out
}

// RuleScorer scores cleaned incident text against per-label keyword lists.
type RuleScorer struct {
	labels []string
	terms  map[string][]string
}

// NewRuleScorer constructs a scorer from the JSON file at path, or from the
// bundled keyword table when path is empty.
func NewRuleScorer(path string) (*RuleScorer, error) {
	data, err := readTable(path, "data/ipc_rules.json")
	if err != nil {
		return nil, fmt.Errorf("read rule keywords: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal rule keywords: %w", err)
	}
	return newRuleScorer(raw), nil
}

func newRuleScorer(raw map[string][]string) *RuleScorer {
	terms := make(map[string][]string, len(raw))
	labels := make([]string, 0, len(raw))
	for label, list := range raw {
		label = strings.TrimSpace(label)
		list = match.CompactTerms(list)
		if label == "" || len(list) == 0 {
			continue
		}
		terms[label] = list
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labelLess(labels[i], labels[j]) })
	return &RuleScorer{labels: labels, terms: terms}
}

// Score counts, per label, how many of its keywords occur in the cleaned text.
// Each keyword contributes at most one point.
func (s *RuleScorer) Score(cleaned string) RuleResult {
	result := RuleResult{Scores: map[string]int{}, Matched: map[string]struct{}{}}
	if s == nil {
		return result
	}
	for _, label := range s.labels {
		for _, kw := range s.terms[label] {
			if strings.Contains(cleaned, kw) {
				result.Scores[label]++
				result.Matched[label] = struct{}{}
			}
		}
	}
	return result
}

// Terms exposes the keyword table (primarily for testing).
func (s *RuleScorer) Terms() map[string][]string {
	return s.terms
}

// Validate ensures the scorer has at least one keyword list.
func (s *RuleScorer) Validate() error {
	if s == nil {
		return errors.New("rule scorer is nil")
	}
	if len(s.terms) == 0 {
		return errors.New("rule keywords missing")
	}
	return nil
}

func readTable(path, fallback string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return defaultData.ReadFile(fallback)
	}
	return os.ReadFile(filepath.Clean(path))
}
