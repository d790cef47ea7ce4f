package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesOf(scores map[string]int) RuleResult {
	matched := map[string]struct{}{}
	for label, n := range scores {
		if n > 0 {
			matched[label] = struct{}{}
		}
	}
	return RuleResult{Scores: scores, Matched: matched}
}

func TestFuse(t *testing.T) {
	tests := []struct {
		name       string
		model      ScoreMap
		rules      RuleResult
		label      string
		confidence int
		override   bool
	}{
		{
			name:       "override wins over model",
			model:      ScoreMap{"378": 0.95, "354": 0.01},
			rules:      rulesOf(map[string]int{"354": 1, "378": 3}),
			label:      "354",
			confidence: 75,
			override:   true,
		},
		{
			name:       "rules shift the winner",
			model:      ScoreMap{"378": 0.6, "420": 0.2, "323": 0.05, "326": 0.05, "506": 0.05, "354": 0.05},
			rules:      rulesOf(map[string]int{"378": 2, "420": 1}),
			label:      "378",
			confidence: 62,
		},
		{
			name:       "confidence clamps at ninety",
			model:      ScoreMap{"378": 0.99, "420": 0.01},
			rules:      rulesOf(map[string]int{}),
			label:      "378",
			confidence: 90,
		},
		{
			name:       "rule-only labels are inert",
			model:      ScoreMap{"420": 0.5, "323": 0.5},
			rules:      rulesOf(map[string]int{"999": 4, "323": 1}),
			label:      "323",
			confidence: 56,
		},
		{
			name:       "tie broken by lowest label",
			model:      ScoreMap{"506": 0.5, "378": 0.5},
			rules:      rulesOf(map[string]int{}),
			label:      "378",
			confidence: 50,
		},
		{
			name:       "zero sum gives zero confidence",
			model:      ScoreMap{"420": 0, "378": 0},
			rules:      rulesOf(map[string]int{}),
			label:      "378",
			confidence: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Fuse(tc.model, tc.rules)
			require.NoError(t, err)
			assert.Equal(t, tc.label, result.Label)
			assert.Equal(t, tc.confidence, result.Confidence)
			assert.Equal(t, tc.override, result.Override)
		})
	}
}

func TestFuseWithoutModelScores(t *testing.T) {
	_, err := Fuse(ScoreMap{}, rulesOf(map[string]int{"378": 1}))
	assert.ErrorIs(t, err, ErrNoModelScores)

	result, err := Fuse(nil, rulesOf(map[string]int{"354": 1}))
	require.NoError(t, err)
	assert.True(t, result.Override)
}

func TestLabelLess(t *testing.T) {
	assert.True(t, labelLess("99", "378"))
	assert.False(t, labelLess("420", "378"))
	assert.True(t, labelLess("abc", "abd"))
}
