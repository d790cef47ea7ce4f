package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClientComplete(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Theft is taking property.  "}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), Request{System: "sys", User: "question"})
	require.NoError(t, err)
	assert.Equal(t, "Theft is taking property.", reply)

	assert.Equal(t, defaultModel, captured["model"])
	assert.InDelta(t, 0.25, captured["temperature"], 1e-9)
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "question", messages[1].(map[string]any)["content"])
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrEmptyReply},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, ErrEmptyReply},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = client.Complete(context.Background(), Request{User: "q"})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNilClientDisabled(t *testing.T) {
	var c *Client
	assert.False(t, c.Enabled())
	_, err := c.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestCollectText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Bail is "), genai.Text("temporary release.")}}},
		},
	}
	assert.Equal(t, "Bail is temporary release.", collectText(resp))
	assert.Equal(t, "", collectText(nil))
	assert.Equal(t, "", collectText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
}

func TestGeminiRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrDisabled)
}
