package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Classifier returns a probability per IPC label for cleaned incident text.
type Classifier interface {
	PredictProba(ctx context.Context, text string) (map[string]float64, error)
}

// Config drives the model-serving client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls a model server exposing POST /predict_proba.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

var (
	// ErrUnavailable wraps every transport or protocol failure.
	ErrUnavailable = errors.New("classifier unavailable")
	ErrMissingURL  = errors.New("classifier base url missing")
)

// NewClient constructs a classifier client if configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   baseURL + "/predict_proba",
		apiKey:     strings.TrimSpace(cfg.APIKey),
	}, nil
}

// PredictProba posts the text and decodes the label probabilities.
func (c *Client) PredictProba(ctx context.Context, text string) (map[string]float64, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: client is nil", ErrUnavailable)
	}
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	probs, err := payload.scores()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return probs, nil
}

type predictRequest struct {
	Text string `json:"text"`
}

// predictResponse accepts either {"probabilities": {"378": 0.6}} or the
// parallel-array form {"labels": ["378"], "probabilities": [0.6]}.
type predictResponse struct {
	Labels        []string        `json:"labels"`
	Probabilities json.RawMessage `json:"probabilities"`
}

func (p predictResponse) scores() (map[string]float64, error) {
	raw := bytes.TrimSpace(p.Probabilities)
	if len(raw) == 0 {
		return nil, errors.New("probabilities missing")
	}
	switch raw[0] {
	case '{':
		var m map[string]float64
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode probability map: %w", err)
		}
		return cleanLabels(m), nil
	case '[':
		var list []float64
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode probability list: %w", err)
		}
		if len(list) != len(p.Labels) {
			return nil, fmt.Errorf("got %d probabilities for %d labels", len(list), len(p.Labels))
		}
		m := make(map[string]float64, len(list))
		for i, label := range p.Labels {
			m[label] = list[i]
		}
		return cleanLabels(m), nil
	default:
		return nil, errors.New("unsupported probabilities payload")
	}
}

func cleanLabels(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for label, prob := range in {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		out[label] = prob
	}
	return out
}

// Offline stands in when no model server is configured. Every call fails
// with ErrUnavailable so predictions degrade instead of guessing.
type Offline struct{}

func (Offline) PredictProba(context.Context, string) (map[string]float64, error) {
	return nil, fmt.Errorf("%w: no model server configured", ErrUnavailable)
}
