package scoring

import (
	"errors"
	"math"
	"strconv"
)

const (
	// OverrideLabel is returned whenever its rule keywords match, regardless of model scores.
	OverrideLabel      = "354"
	OverrideConfidence = 75
	RuleWeight         = 0.15
	MaxConfidence      = 90
)

// ErrNoModelScores is returned when the classifier produced no labels.
var ErrNoModelScores = errors.New("no model scores")

// ScoreMap maps an IPC label to the classifier's probability for it.
type ScoreMap map[string]float64

// FusionResult is the winning label after model and rule signals are merged.
type FusionResult struct {
	Label      string  `json:"label"`
	Confidence int     `json:"confidence"`
	Override   bool    `json:"override"`
	Fused      float64 `json:"fused"`
}

// Fuse merges classifier probabilities with rule hits. Only labels known to the
// model participate; rule hits for other labels carry no weight.
func Fuse(model ScoreMap, rules RuleResult) (FusionResult, error) {
	if rules.Has(OverrideLabel) {
		return FusionResult{Label: OverrideLabel, Confidence: OverrideConfidence, Override: true}, nil
	}
	if len(model) == 0 {
		return FusionResult{}, ErrNoModelScores
	}

	var (
		best    string
		bestVal = math.Inf(-1)
		sum     float64
	)
	for label, prob := range model {
		fused := prob + RuleWeight*float64(rules.Scores[label])
		sum += fused
		if fused > bestVal || (fused == bestVal && labelLess(label, best)) {
			best, bestVal = label, fused
		}
	}

	return FusionResult{
		Label:      best,
		Confidence: confidenceFor(bestVal, sum),
		Fused:      bestVal,
	}, nil
}

func confidenceFor(best, sum float64) int {
	if sum <= 0 || math.IsNaN(sum) || math.IsNaN(best) {
		return 0
	}
	pct := int(math.Floor(best / sum * 100))
	if pct > MaxConfidence {
		return MaxConfidence
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// labelLess orders labels numerically when both parse as integers.
func labelLess(a, b string) bool {
	if b == "" {
		return a != ""
	}
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
