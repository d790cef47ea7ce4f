package chat

import (
	"fmt"
	"strings"

	"nyaysetu/backend/internal/match"
)

// DocumentTemplate is the curated, fixed description of a legal document.
type DocumentTemplate struct {
	Title           string   `json:"title"`
	WhatItIs        string   `json:"what_it_is"`
	WhyItExists     string   `json:"why_it_exists"`
	WhenItIsUsed    string   `json:"when_it_is_used"`
	KeyTerms        []string `json:"key_terms,omitempty"`
	RelatedLaws     []string `json:"related_laws,omitempty"`
	WhatItDoesNotDo string   `json:"what_it_does_not_do"`
}

// Render turns the template into the narrative used for explanation replies.
func (t DocumentTemplate) Render() string {
	out := fmt.Sprintf("%s\n\nThis document exists to address a specific legal need. \n%s\n\n"+
		"In practice, it is typically relevant in situations such as the following.\n%s\n\n"+
		"It is also important to be clear about its limitations.\n%s",
		t.WhatItIs, t.WhyItExists, t.WhenItIsUsed, t.WhatItDoesNotDo)
	return strings.TrimSpace(out)
}

// Selection is the document suggested for a described situation.
type Selection struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

type selectionRule struct {
	keywords []string
	Selection
}

type detectionEntry struct {
	key      string
	keywords []string
}

// DocumentCatalog holds the templates plus the two routing tables. The
// detection table (explanation path) and the selection rules (selection path)
// are intentionally independent and cover different documents.
type DocumentCatalog struct {
	templates map[string]DocumentTemplate
	detection []detectionEntry
	selection []selectionRule
}

// NewDocumentCatalog returns the built-in catalog.
func NewDocumentCatalog() *DocumentCatalog {
	return &DocumentCatalog{
		templates: documentTemplates,
		detection: []detectionEntry{
			{key: "fir", keywords: []string{"fir", "first information report"}},
			{key: "rti", keywords: []string{"rti", "right to information"}},
			{key: "bail", keywords: []string{"bail", "bail application", "anticipatory bail"}},
			{key: "legal_notice", keywords: []string{"legal notice"}},
		},
		selection: []selectionRule{
			{
				keywords:  []string{"information", "details", "records", "government office"},
				Selection: Selection{Document: "RTI Application", Reason: "RTI is used to request information from public authorities."},
			},
			{
				keywords:  []string{"threat", "assault", "stolen", "theft", "harassment", "crime"},
				Selection: Selection{Document: "FIR", Reason: "An FIR is used to report serious offences to the police."},
			},
			{
				keywords:  []string{"arrest", "custody", "jail"},
				Selection: Selection{Document: "Bail Application", Reason: "Bail applications are used to seek temporary release from custody."},
			},
			{
				keywords:  []string{"dispute", "payment", "contract", "notice"},
				Selection: Selection{Document: "Legal Notice", Reason: "Legal notices are used to formally communicate disputes before legal action."},
			},
			{
				keywords:  []string{"complaint", "police not registering", "refused to file fir"},
				Selection: Selection{Document: "Complaint", Reason: "A complaint is used to formally bring a grievance to the attention of authorities."},
			},
			{
				keywords:  []string{"summons", "called by court", "court notice"},
				Selection: Selection{Document: "Summons", Reason: "A summons is used to require a person to appear before a court or authority."},
			},
			{
				keywords:  []string{"warrant", "arrest warrant", "search warrant"},
				Selection: Selection{Document: "Warrant", Reason: "A warrant authorizes specific legal actions under court authority."},
			},
		},
	}
}

// DetectDocumentType returns the template key named in the query.
func (c *DocumentCatalog) DetectDocumentType(query string) (string, bool) {
	q := match.Normalize(query)
	for _, entry := range c.detection {
		if match.ContainsAny(q, entry.keywords) {
			return entry.key, true
		}
	}
	return "", false
}

// SelectDocument suggests a document for the situation described in query.
func (c *DocumentCatalog) SelectDocument(query string) (Selection, bool) {
	q := match.Normalize(query)
	for _, rule := range c.selection {
		if match.ContainsAny(q, rule.keywords) {
			return rule.Selection, true
		}
	}
	return Selection{}, false
}

// Template returns the template stored under key.
func (c *DocumentCatalog) Template(key string) (DocumentTemplate, bool) {
	t, ok := c.templates[key]
	return t, ok
}

var documentTemplates = map[string]DocumentTemplate{
	"fir": {
		Title: "First Information Report (FIR)",
		WhatItIs: "A First Information Report (FIR) is the first official written record of information given to the police about the commission of a serious crime. " +
			"It is recorded by the police when the information relates to a cognizable offence, meaning an offence for which the police can take action without prior court approval.",
		WhyItExists: "The FIR exists to formally bring a serious offence to the notice of the police and to ensure that the information is officially documented. " +
			"It creates a starting point for the criminal justice process and helps maintain a transparent record of allegations made.",
		WhenItIsUsed: "An FIR is generally used when a person wants to report a serious crime such as theft, assault, harassment, domestic violence, or other cognizable offences. " +
			"It may be filed by the victim, a witness, or any person with knowledge of the incident.",
		KeyTerms:    []string{"Cognizable Offence", "Police Station", "Complainant", "Investigation"},
		RelatedLaws: []string{"CrPC Section 154"},
		WhatItDoesNotDo: "An FIR does not decide whether an offence has actually occurred. " +
			"It does not determine guilt or innocence, and it does not guarantee arrest or punishment. " +
			"It only records information for the purpose of investigation.",
	},
	"rti": {
		Title: "Right to Information (RTI) Application",
		WhatItIs: "An RTI application is a formal request made by a citizen to seek information from a public authority under the Right to Information Act, 2005. " +
			"It allows citizens to ask for records, documents, or data held by government bodies.",
		WhyItExists: "The RTI mechanism exists to promote transparency and accountability in government functioning. " +
			"It empowers citizens to understand how public authorities make decisions and use public resources.",
		WhenItIsUsed: "RTI applications are commonly used when a person wants information about government decisions, official records, public spending, policies, or administrative actions.",
		KeyTerms:     []string{"Public Authority", "Public Information Officer", "Public Records", "Transparency"},
		RelatedLaws:  []string{"Right to Information Act, 2005"},
		WhatItDoesNotDo: "An RTI application does not resolve disputes, justify decisions, or provide explanations. " +
			"It only gives access to information that already exists with the public authority.",
	},
	"bail": {
		Title: "Bail Application",
		WhatItIs: "A bail application is a formal request made to a court seeking the temporary release of an accused person from custody while the legal proceedings are ongoing. " +
			"It relates to personal liberty during the period before or during trial.",
		WhyItExists:  "The concept of bail exists to protect individual freedom and to ensure that a person is not unnecessarily kept in custody before a court determines guilt or innocence.",
		WhenItIsUsed: "A bail application is generally used after a person has been arrested, or when there is a reasonable fear of arrest in certain serious cases.",
		KeyTerms:     []string{"Bailable Offence", "Non-Bailable Offence", "Judicial Custody", "Anticipatory Bail"},
		RelatedLaws:  []string{"CrPC Sections 436–439"},
		WhatItDoesNotDo: "Grant of bail does not end the criminal case and does not declare the person innocent. " +
			"It only allows temporary release subject to conditions imposed by the court.",
	},
	"legal_notice": {
		Title: "Legal Notice",
		WhatItIs: "A legal notice is a formal written communication sent to a person or organization to inform them about a legal grievance or claim. " +
			"It serves as an official intimation of a legal issue.",
		WhyItExists:     "A legal notice exists to formally communicate a concern and give the recipient an opportunity to respond or address the issue before formal legal proceedings begin.",
		WhenItIsUsed:    "Legal notices are commonly used in civil disputes, contractual matters, property issues, employment disputes, or consumer-related grievances.",
		WhatItDoesNotDo: "A legal notice does not itself start a court case, and it does not decide liability, guilt, or punishment.",
	},
	"complaint": {
		Title: "Complaint",
		WhatItIs: "A complaint is a formal statement made to a legal authority describing an offence, grievance, or unlawful act. " +
			"It may be submitted to the police or directly to a court, depending on the situation.",
		WhyItExists:  "A complaint exists to formally bring a matter to the attention of authorities when a person believes a legal wrong has occurred.",
		WhenItIsUsed: "Complaints are commonly used when an FIR is not registered, or when the matter involves offences that require court intervention.",
		WhatItDoesNotDo: "A complaint does not automatically lead to arrest or punishment. " +
			"It does not by itself establish that an offence has been committed.",
	},
	"charge_sheet": {
		Title: "Charge Sheet",
		WhatItIs: "A charge sheet is a formal document prepared by the police after completing an investigation. " +
			"It lists the allegations, evidence collected, and the sections of law applied.",
		WhyItExists:  "The charge sheet exists to inform the court about the outcome of the police investigation and to formally place the case before the judicial system.",
		WhenItIsUsed: "A charge sheet is used after the police finish investigating a case and are ready to present their findings to the court.",
		WhatItDoesNotDo: "A charge sheet does not decide guilt or innocence. " +
			"It only presents the police version of the case for judicial consideration.",
	},
	"affidavit": {
		Title: "Affidavit",
		WhatItIs: "An affidavit is a written statement of facts sworn to be true by a person and signed before an authorized authority. " +
			"It is used as a formal declaration in legal and official matters.",
		WhyItExists:  "Affidavits exist to allow individuals to formally declare facts and take responsibility for the truthfulness of their statements.",
		WhenItIsUsed: "Affidavits are commonly used in courts, government procedures, and administrative processes where verified statements are required.",
		WhatItDoesNotDo: "An affidavit does not prove the facts stated in it by itself. " +
			"It only records a sworn statement made by the person.",
	},
	"summons": {
		Title:           "Summons",
		WhatItIs:        "A summons is an official legal document issued by a court or authority requiring a person to appear before it at a specified time and place.",
		WhyItExists:     "Summons exist to formally inform a person that their presence is required in connection with a legal matter.",
		WhenItIsUsed:    "Summons are commonly used to call witnesses, accused persons, or parties to a case before a court.",
		WhatItDoesNotDo: "A summons does not imply guilt and does not authorize arrest by itself.",
	},
	"warrant": {
		Title:        "Warrant",
		WhatItIs:     "A warrant is a formal written order issued by a court authorizing a specific legal action, such as arrest or search, under the authority of law.",
		WhyItExists:  "Warrants exist to ensure that certain actions affecting personal liberty or property are carried out only with judicial approval.",
		WhenItIsUsed: "Warrants are generally used when a court believes compulsory legal action is necessary to ensure compliance with the law.",
		WhatItDoesNotDo: "A warrant does not determine guilt or innocence. " +
			"It only authorizes a specific legal action as permitted by law.",
	},
}
