package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	lru "github.com/hashicorp/golang-lru/v2"
	chromem "github.com/philippgille/chromem-go"
	"google.golang.org/api/option"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedFunc adapts a plain function to Embedder.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider  string // "openai" or "gemini"
	Model     string
	APIKey    string
	BaseURL   string
	CacheSize int
}

var ErrNoEmbeddingKey = errors.New("embedding provider api key missing")

// NewEmbedder builds the configured embedder wrapped in an LRU cache.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (Embedder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoEmbeddingKey
	}
	var base Embedder
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		base = newOpenAIEmbedder(cfg)
	case "gemini":
		g, err := newGeminiEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = g
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	return NewCachedEmbedder(base, cfg.CacheSize)
}

func newOpenAIEmbedder(cfg EmbedderConfig) Embedder {
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	normalized := true
	return EmbedFunc(chromem.NewEmbeddingFuncOpenAICompat(baseURL, cfg.APIKey, model, &normalized))
}

type geminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func newGeminiEmbedder(ctx context.Context, cfg EmbedderConfig) (*geminiEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}
	return &geminiEmbedder{client: client, model: client.EmbeddingModel(model)}, nil
}

func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := g.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("gemini returned no embedding")
	}
	return res.Embedding.Values, nil
}

func (g *geminiEmbedder) Close() error {
	return g.client.Close()
}

// CachedEmbedder memoizes embeddings by exact text.
type CachedEmbedder struct {
	next  Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps next with an LRU cache of size entries.
func NewCachedEmbedder(next Embedder, size int) (*CachedEmbedder, error) {
	if next == nil {
		return nil, errors.New("embedder is nil")
	}
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &CachedEmbedder{next: next, cache: cache}, nil
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := c.cache.Get(text); ok {
		return cached, nil
	}
	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, vec)
	return vec, nil
}

// Len reports the number of cached embeddings.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}

// Close drops the cache and closes the wrapped embedder when it holds a client.
func (c *CachedEmbedder) Close() error {
	c.cache.Purge()
	return closeEmbedder(c.next)
}

func closeEmbedder(e Embedder) error {
	if closer, ok := e.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
