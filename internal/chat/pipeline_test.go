package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaysetu/backend/internal/ai"
	"nyaysetu/backend/internal/retrieval"
)

type fakeRetriever struct {
	docs  []retrieval.Document
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(context.Context, string) ([]retrieval.Document, error) {
	f.calls++
	return f.docs, f.err
}

type fakeModel struct {
	reply string
	err   error
	last  ai.Request
	calls int
}

func (f *fakeModel) Enabled() bool { return true }

func (f *fakeModel) Complete(_ context.Context, req ai.Request) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

func sectionDocs() []retrieval.Document {
	return []retrieval.Document{
		{ID: "a", Content: "IPC 420 — Cheating\n\nWhoever cheats..."},
		{ID: "b", Content: "IPC 415 — Cheating defined"},
	}
}

func TestPipelineShortCircuits(t *testing.T) {
	retriever := &fakeRetriever{docs: sectionDocs()}
	model := &fakeModel{reply: "unused"}
	p := NewPipeline(Config{}, nil, retriever, model)

	tests := []struct {
		name  string
		query string
		route Route
		reply string
	}{
		{"vague", "help", RouteClarify, ClarificationQuestion(ReasonTooShort)},
		{"procedural", "How do I file an FIR?", RouteProceduralRefusal, ProceduralRefusal},
		{"advice", "Can police arrest me without a warrant?", RouteAdviceRefusal, AdviceRefusal},
		{"explanation without template", "explain the court notice document", RouteNotAvailable, NotAvailableMessage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answer := p.Answer(context.Background(), tc.query)
			assert.Equal(t, tc.route, answer.Route)
			assert.Equal(t, tc.reply, answer.Reply)
		})
	}
	assert.Zero(t, retriever.calls)
	assert.Zero(t, model.calls)
}

func TestPipelineDocumentExplanation(t *testing.T) {
	p := NewPipeline(Config{}, nil, nil, nil)
	answer := p.Answer(context.Background(), "Explain the legal notice document")

	assert.Equal(t, RouteDocumentExplanation, answer.Route)
	assert.Equal(t, IntentDocumentExplanation, answer.Intent)
	assert.True(t, strings.HasPrefix(answer.Reply, "Legal Notice\n\nExplanation:\nA legal notice is a formal written communication"))
	assert.True(t, strings.HasSuffix(answer.Reply, "\n\nNote:\nThis is general legal information, not legal advice."))
}

func TestPipelineDocumentSelection(t *testing.T) {
	p := NewPipeline(Config{}, nil, nil, nil)
	answer := p.Answer(context.Background(), "Which document do I need if police arrested my brother")

	assert.Equal(t, RouteDocumentSelection, answer.Route)
	assert.Equal(t, "Suggested Document\n\nExplanation:\nBail Application\n\nBail applications are used to seek temporary release from custody.\n\nNote:\nThis is indicative guidance only and not legal advice.", answer.Reply)
}

func TestPipelineGroundedAnswer(t *testing.T) {
	retriever := &fakeRetriever{docs: sectionDocs()}
	model := &fakeModel{reply: "Cheating means tricking someone."}
	p := NewPipeline(Config{}, nil, retriever, model)

	answer := p.Answer(context.Background(), "What is IPC section 420?")
	require.Equal(t, RouteGrounded, answer.Route)
	assert.Equal(t, "Legal Information\n\nExplanation:\nCheating means tricking someone.\n\nNote:\nThis is general legal information, not legal advice.", answer.Reply)

	assert.Equal(t, legalQASystemPrompt, model.last.System)
	assert.Equal(t, "Legal Context:\n[Source 1]\nIPC 420 — Cheating\n\nWhoever cheats...\n\n[Source 2]\nIPC 415 — Cheating defined\n\nQuestion:\nWhat is IPC section 420?", model.last.User)
}

func TestPipelineNoticeQuestionsReachRetrieval(t *testing.T) {
	for _, q := range []string{"section 80 cpc notice to government", "what does a court notice under law mean"} {
		retriever := &fakeRetriever{docs: sectionDocs()}
		model := &fakeModel{reply: "A notice informs the other side."}
		p := NewPipeline(Config{}, nil, retriever, model)

		answer := p.Answer(context.Background(), q)
		assert.Equal(t, IntentPureLegalInfo, answer.Intent, q)
		assert.Equal(t, RouteGrounded, answer.Route, q)
		assert.Equal(t, 1, retriever.calls, q)
	}
}

func TestPipelineGroundedFailures(t *testing.T) {
	tests := []struct {
		name      string
		retriever retrieval.Retriever
		model     ai.Completer
		route     Route
		reply     string
	}{
		{"no documents", &fakeRetriever{}, &fakeModel{reply: "x"}, RouteNotAvailable, NotAvailableMessage},
		{"retriever error", &fakeRetriever{err: errors.New("store offline")}, &fakeModel{reply: "x"}, RouteDegraded, DegradedMessage},
		{"model error", &fakeRetriever{docs: sectionDocs()}, &fakeModel{err: errors.New("rate limited")}, RouteDegraded, DegradedMessage},
		{"model timeout", &fakeRetriever{docs: sectionDocs()}, &fakeModel{err: context.DeadlineExceeded}, RouteDegraded, DegradedMessage},
		{"no retriever", nil, &fakeModel{reply: "x"}, RouteDegraded, DegradedMessage},
		{"no model", &fakeRetriever{docs: sectionDocs()}, nil, RouteDegraded, DegradedMessage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(Config{}, nil, tc.retriever, tc.model)
			answer := p.Answer(context.Background(), "What is IPC section 420?")
			assert.Equal(t, tc.route, answer.Route)
			assert.Equal(t, tc.reply, answer.Reply)
		})
	}
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "[Source 1]\nonly", BuildContext([]retrieval.Document{{Content: "only\n"}}))
}
