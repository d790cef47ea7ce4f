package ipc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"nyaysetu/backend/internal/classifier"
	"nyaysetu/backend/internal/match"
	"nyaysetu/backend/internal/scoring"
	"nyaysetu/backend/internal/store"
	"nyaysetu/backend/internal/util"
)

const (
	minIncidentLength = 10

	insufficientMessage    = "Please describe the incident with sufficient details."
	insufficientDisclaimer = "This tool requires incident details to provide a legal prediction."
	degradedMessage        = "The prediction service is temporarily unavailable. Please try again later."
	standardDisclaimer     = "This is an AI-assisted legal awareness tool."
	overrideDisclaimer     = "This is an AI-assisted legal awareness tool and does not constitute legal advice."
)

// Outcome labels how a prediction request ended.
type Outcome string

const (
	OutcomeInsufficient Outcome = "insufficient_input"
	OutcomeDegraded     Outcome = "degraded"
	OutcomeOverride     Outcome = "override"
	OutcomePredicted    Outcome = "predicted"
)

// Prediction is the winning section.
type Prediction struct {
	IPCSection string `json:"ipc_section"`
	Title      string `json:"title"`
	Confidence int    `json:"confidence"`
}

// Result is the full answer to one incident description.
type Result struct {
	Prediction  *Prediction `json:"prediction"`
	Explanation string      `json:"explanation,omitempty"`
	Why         string      `json:"why,omitempty"`
	Suggestion  string      `json:"suggestion,omitempty"`
	Disclaimer  string      `json:"disclaimer"`
	Message     string      `json:"message,omitempty"`
	SectionText string      `json:"section_text,omitempty"`
	Outcome     Outcome     `json:"-"`
	Label       string      `json:"-"`
}

// Config tunes the service.
type Config struct {
	ClassifierTimeout time.Duration
}

// Service predicts the applicable IPC section for an incident description.
type Service struct {
	classifier classifier.Classifier
	rules      *scoring.RuleScorer
	book       *scoring.ExplanationBook
	sections   store.SectionLookup
	timeout    time.Duration
}

// NewService wires the predictor. sections may be nil.
func NewService(cfg Config, cls classifier.Classifier, rules *scoring.RuleScorer, book *scoring.ExplanationBook, sections store.SectionLookup) (*Service, error) {
	if cls == nil {
		return nil, errors.New("classifier required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	if book == nil {
		return nil, errors.New("explanations required")
	}
	timeout := cfg.ClassifierTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{classifier: cls, rules: rules, book: book, sections: sections, timeout: timeout}, nil
}

// Predict never returns an error for collaborator failures; those become a
// degraded Result. The error return is reserved for programming mistakes.
func (s *Service) Predict(ctx context.Context, text string) (*Result, error) {
	if s == nil {
		return nil, errors.New("ipc service is nil")
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minIncidentLength {
		return &Result{
			Message:    insufficientMessage,
			Disclaimer: insufficientDisclaimer,
			Outcome:    OutcomeInsufficient,
		}, nil
	}

	cleaned := match.CleanIncident(text)
	timer := util.StartTimer()

	// The override label wins outright, so the model is not consulted.
	rules := s.rules.Score(cleaned)
	if rules.Has(scoring.OverrideLabel) {
		timer.Lap("rules")
		logrus.WithFields(timer.Fields()).WithFields(logrus.Fields{
			"label":     scoring.OverrideLabel,
			"rule_hits": rules.MatchedLabels(),
		}).Info("ipc override")
		return s.result(scoring.FusionResult{
			Label:      scoring.OverrideLabel,
			Confidence: scoring.OverrideConfidence,
			Override:   true,
		}), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	probs, err := s.classifier.PredictProba(callCtx, cleaned)
	cancel()
	timer.Lap("classifier")
	if err != nil {
		logrus.WithError(err).WithFields(timer.Fields()).Warn("ipc classifier failed")
		return s.degraded(), nil
	}

	fused, err := scoring.Fuse(scoring.ScoreMap(probs), rules)
	if err != nil {
		logrus.WithError(err).Warn("ipc fusion failed")
		return s.degraded(), nil
	}
	result := s.result(fused)

	timer.Lap("fusion")
	logrus.WithFields(timer.Fields()).WithFields(logrus.Fields{
		"label":      fused.Label,
		"confidence": fused.Confidence,
		"override":   fused.Override,
		"rule_hits":  rules.MatchedLabels(),
	}).Info("ipc prediction")
	return result, nil
}

func (s *Service) result(fused scoring.FusionResult) *Result {
	exp, known := s.book.Resolve(fused.Label)
	if !known {
		logrus.WithField("label", fused.Label).Debug("no explanation for label")
	}
	result := &Result{
		Prediction: &Prediction{
			IPCSection: "IPC " + fused.Label,
			Title:      exp.Title,
			Confidence: fused.Confidence,
		},
		Explanation: exp.SimpleExplanation,
		Why:         exp.Why,
		Suggestion:  exp.Suggestion,
		Disclaimer:  standardDisclaimer,
		SectionText: s.sectionExcerpt(fused.Label),
		Outcome:     OutcomePredicted,
		Label:       fused.Label,
	}
	if fused.Override {
		result.Disclaimer = overrideDisclaimer
		result.Outcome = OutcomeOverride
	}
	return result
}

func (s *Service) degraded() *Result {
	return &Result{
		Message:    degradedMessage,
		Disclaimer: standardDisclaimer,
		Outcome:    OutcomeDegraded,
	}
}

func (s *Service) sectionExcerpt(label string) string {
	if s.sections == nil {
		return ""
	}
	section, err := s.sections.LookupSection(label)
	if err != nil {
		if !errors.Is(err, store.ErrSectionNotFound) {
			logrus.WithError(err).WithField("label", label).Warn("section lookup failed")
		}
		return ""
	}
	return section.Excerpt()
}
