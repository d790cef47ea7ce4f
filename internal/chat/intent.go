package chat

import (
	"nyaysetu/backend/internal/match"
)

// Intent is the routing class assigned to a non-vague query.
type Intent int

const (
	IntentPureLegalInfo Intent = iota
	IntentDocumentExplanation
	IntentDocumentSelection
	// IntentIncidentAnalysis is part of the vocabulary but ClassifyIntent never returns it.
	IntentIncidentAnalysis
	IntentProcedural
	IntentAdvice
)

func (i Intent) String() string {
	switch i {
	case IntentDocumentExplanation:
		return "DOCUMENT_EXPLANATION"
	case IntentDocumentSelection:
		return "DOCUMENT_SELECTION"
	case IntentIncidentAnalysis:
		return "INCIDENT_ANALYSIS"
	case IntentProcedural:
		return "PROCEDURAL"
	case IntentAdvice:
		return "ADVICE"
	default:
		return "PURE_LEGAL_INFO"
	}
}

var (
	proceduralTriggers = []string{
		"how do i", "how can i", "how to", "steps", "procedure", "process",
		"what should i do", "tell me how", "what should i write",
	}
	adviceTriggers = []string{
		"can police", "can i", "will i", "am i", "is it legal", "will i get",
		"can they", "what will happen", "will the police", "can the police",
	}
	selectionTriggers = []string{
		"which document", "what document", "which legal document", "what should i file",
		"i want information", "i need information", "government office",
		"someone threatened", "i was threatened", "police arrested", "was arrested",
		"in custody", "not returning deposit", "money not returned", "payment dispute",
		"deposit issue", "used when", "required for",
	}
	documentKeywords    = []string{"fir", "rti", "bail", "anticipatory bail", "legal notice", "notice"}
	explanationTriggers = []string{"application", "document", "draft"}
)

// ClassifyIntent assigns exactly one intent. Rules are checked in priority
// order: procedural, advice, selection, explanation, then pure legal info.
func ClassifyIntent(query string) Intent {
	q := match.Normalize(query)

	if match.ContainsAny(q, proceduralTriggers) {
		return IntentProcedural
	}
	if match.ContainsAny(q, adviceTriggers) {
		return IntentAdvice
	}
	if match.ContainsAny(q, selectionTriggers) {
		return IntentDocumentSelection
	}
	if match.ContainsAny(q, documentKeywords) && match.ContainsAny(q, explanationTriggers) {
		return IntentDocumentExplanation
	}
	return IntentPureLegalInfo
}
