package chat

import "fmt"

// ClarificationQuestion builds the single clarification reply for a vague query.
func ClarificationQuestion(reason VagueReason) string {
	var question string
	switch reason {
	case ReasonTooShort:
		question = "Could you please clarify whether your question is about a legal document (such as FIR or RTI), or about understanding a law or legal term?"
	case ReasonTooGeneric:
		question = "Are you trying to understand a legal document, or are you looking for general legal information?"
	case ReasonNoLegalReference:
		question = "Could you please clarify which legal issue, document, or situation you are referring to?"
	default:
		question = "Could you please provide a bit more detail so I can understand your legal question better?"
	}
	return fmt.Sprintf("Clarification Needed\n\n%s\n\nNote:\nThis system provides general legal information only.", question)
}
