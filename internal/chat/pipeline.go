package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"nyaysetu/backend/internal/ai"
	"nyaysetu/backend/internal/retrieval"
	"nyaysetu/backend/internal/util"
)

const (
	NotAvailableMessage     = "The information is not available in the current legal knowledge base."
	ProceduralRefusal       = "This system provides legal information only. It does not provide procedural guidance or instructions."
	AdviceRefusal           = "This system provides general legal information only. It cannot predict outcomes or give legal advice."
	DegradedMessage         = "I apologize, but I'm temporarily unable to process your request. Please try again."
	generalInformationNote  = "This is general legal information, not legal advice."
	indicativeGuidanceNote  = "This is indicative guidance only and not legal advice."
	suggestedDocumentTitle  = "Suggested Document"
	legalInformationTitle   = "Legal Information"
	defaultRetrievalTimeout = 10 * time.Second
	defaultModelTimeout     = 60 * time.Second
)

// Route records which terminal state produced an answer.
type Route string

const (
	RouteClarify             Route = "clarify"
	RouteProceduralRefusal   Route = "procedural_refusal"
	RouteAdviceRefusal       Route = "advice_refusal"
	RouteDocumentExplanation Route = "document_explanation"
	RouteDocumentSelection   Route = "document_selection"
	RouteNotAvailable        Route = "not_available"
	RouteGrounded            Route = "grounded_answer"
	RouteDegraded            Route = "degraded"
)

// Answer is the chatbot's reply to one query.
type Answer struct {
	Reply  string
	Route  Route
	Intent Intent
}

// Config tunes the pipeline's external calls.
type Config struct {
	RetrievalTimeout time.Duration
	ModelTimeout     time.Duration
}

// Pipeline routes a query through the vagueness gate and intent classifier
// and produces exactly one reply.
type Pipeline struct {
	catalog   *DocumentCatalog
	retriever retrieval.Retriever
	model     ai.Completer
	cfg       Config
}

// NewPipeline wires the orchestrator. retriever and model may be nil, in which
// case pure legal questions get the degraded reply.
func NewPipeline(cfg Config, catalog *DocumentCatalog, retriever retrieval.Retriever, model ai.Completer) *Pipeline {
	if catalog == nil {
		catalog = NewDocumentCatalog()
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = defaultRetrievalTimeout
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = defaultModelTimeout
	}
	return &Pipeline{catalog: catalog, retriever: retriever, model: model, cfg: cfg}
}

// Answer never fails; collaborator errors become the degraded reply.
func (p *Pipeline) Answer(ctx context.Context, query string) Answer {
	check := CheckVagueness(query)
	if check.IsVague {
		return Answer{Reply: ClarificationQuestion(check.Reason), Route: RouteClarify}
	}

	intent := ClassifyIntent(query)
	answer := p.route(ctx, intent, query)
	answer.Intent = intent
	return answer
}

func (p *Pipeline) route(ctx context.Context, intent Intent, query string) Answer {
	switch intent {
	case IntentProcedural:
		return Answer{Reply: ProceduralRefusal, Route: RouteProceduralRefusal}
	case IntentAdvice:
		return Answer{Reply: AdviceRefusal, Route: RouteAdviceRefusal}
	case IntentDocumentExplanation:
		return p.explainDocument(query)
	case IntentDocumentSelection:
		return p.selectDocument(query)
	default:
		return p.grounded(ctx, query)
	}
}

func (p *Pipeline) explainDocument(query string) Answer {
	key, ok := p.catalog.DetectDocumentType(query)
	if !ok {
		return Answer{Reply: NotAvailableMessage, Route: RouteNotAvailable}
	}
	tmpl, ok := p.catalog.Template(key)
	if !ok {
		return Answer{Reply: NotAvailableMessage, Route: RouteNotAvailable}
	}
	return Answer{
		Reply: FormatResponse(tmpl.Title, tmpl.Render(), generalInformationNote),
		Route: RouteDocumentExplanation,
	}
}

func (p *Pipeline) selectDocument(query string) Answer {
	sel, ok := p.catalog.SelectDocument(query)
	if !ok {
		return Answer{Reply: NotAvailableMessage, Route: RouteNotAvailable}
	}
	return Answer{
		Reply: FormatResponse(suggestedDocumentTitle, sel.Document+"\n\n"+sel.Reason, indicativeGuidanceNote),
		Route: RouteDocumentSelection,
	}
}

func (p *Pipeline) grounded(ctx context.Context, query string) Answer {
	log := logrus.WithField("route", "grounded")
	if p.retriever == nil || p.model == nil || !p.model.Enabled() {
		log.Warn("retrieval or language model not configured")
		return Answer{Reply: DegradedMessage, Route: RouteDegraded}
	}

	timer := util.StartTimer()
	retrieveCtx, cancel := context.WithTimeout(ctx, p.cfg.RetrievalTimeout)
	docs, err := p.retriever.Retrieve(retrieveCtx, query)
	cancel()
	timer.Lap("retrieval")
	if err != nil {
		log.WithError(err).Warn("retrieval failed")
		return Answer{Reply: DegradedMessage, Route: RouteDegraded}
	}
	if len(docs) == 0 {
		return Answer{Reply: NotAvailableMessage, Route: RouteNotAvailable}
	}
	legalContext := BuildContext(docs)
	if strings.TrimSpace(legalContext) == "" {
		return Answer{Reply: NotAvailableMessage, Route: RouteNotAvailable}
	}

	modelCtx, cancel := context.WithTimeout(ctx, p.cfg.ModelTimeout)
	defer cancel()
	reply, err := p.model.Complete(modelCtx, ai.Request{
		System: legalQASystemPrompt,
		User:   groundedQuestion(legalContext, query),
	})
	timer.Lap("model")
	log = log.WithFields(timer.Fields())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("language model timed out")
		} else {
			log.WithError(err).Warn("language model failed")
		}
		return Answer{Reply: DegradedMessage, Route: RouteDegraded}
	}

	log.WithField("sources", len(docs)).Info("grounded answer composed")
	return Answer{
		Reply: FormatResponse(legalInformationTitle, reply, generalInformationNote),
		Route: RouteGrounded,
	}
}
