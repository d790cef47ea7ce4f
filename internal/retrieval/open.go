package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	BackendChromem  = "chromem"
	BackendPGVector = "pgvector"
)

// OpenConfig selects and configures a vector store backend.
type OpenConfig struct {
	Backend  string
	Embedder EmbedderConfig
	Chromem  ChromemConfig
	PGVector PGVectorConfig
}

// Open builds the embedder and the configured Store.
func Open(ctx context.Context, cfg OpenConfig) (Store, error) {
	embedder, err := NewEmbedder(ctx, cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	log := logrus.WithFields(logrus.Fields{
		"backend":   backend,
		"embedding": cfg.Embedder.Provider,
	})
	switch backend {
	case "", BackendChromem:
		store, err := NewChromemStore(cfg.Chromem, embedder)
		if err != nil {
			_ = closeEmbedder(embedder)
			return nil, err
		}
		log.WithField("path", cfg.Chromem.PersistPath).Info("vector store ready")
		return store, nil
	case BackendPGVector:
		store, err := NewPGVectorStore(ctx, cfg.PGVector, embedder)
		if err != nil {
			_ = closeEmbedder(embedder)
			return nil, err
		}
		log.WithField("table", cfg.PGVector.Table).Info("vector store ready")
		return store, nil
	default:
		_ = closeEmbedder(embedder)
		return nil, fmt.Errorf("unknown retrieval backend %q", cfg.Backend)
	}
}
