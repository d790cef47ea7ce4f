package chat

import (
	"nyaysetu/backend/internal/match"
)

// VagueReason explains why a query was judged too vague to route.
type VagueReason int

const (
	ReasonNone VagueReason = iota
	ReasonTooShort
	ReasonTooGeneric
	ReasonNoLegalReference
)

func (r VagueReason) String() string {
	switch r {
	case ReasonTooShort:
		return "Query is too short and lacks legal context."
	case ReasonTooGeneric:
		return "Query is too generic and lacks legal context."
	case ReasonNoLegalReference:
		return "Query lacks identifiable legal or document references."
	default:
		return ""
	}
}

// VagueCheck is the outcome of CheckVagueness.
type VagueCheck struct {
	IsVague bool        `json:"is_vague"`
	Reason  VagueReason `json:"-"`
}

const minQueryTokens = 4

var genericPhrases = []string{
	"help",
	"legal help",
	"legal issue",
	"problem",
	"need help",
	"what should i do",
	"law help",
}

// Anchors match as substrings, so "fir" also hits "first".
var legalAnchors = []string{
	"fir", "rti", "bail", "legal notice", "ipc", "crpc", "law", "section", "offence",
	"police", "court", "arrest", "arrested", "custody", "detained", "jail",
}

// CheckVagueness applies the vagueness rules in order; the first rule that
// fires decides the reason.
func CheckVagueness(query string) VagueCheck {
	profile := match.NormalizeQuery(query)
	anchored := match.ContainsAny(profile.Lower, legalAnchors)

	switch {
	case len(profile.Tokens) < minQueryTokens && !anchored:
		return VagueCheck{IsVague: true, Reason: ReasonTooShort}
	case match.EqualsAny(profile.Lower, genericPhrases):
		return VagueCheck{IsVague: true, Reason: ReasonTooGeneric}
	case !anchored:
		return VagueCheck{IsVague: true, Reason: ReasonNoLegalReference}
	}
	return VagueCheck{}
}
