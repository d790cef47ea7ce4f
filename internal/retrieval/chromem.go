package retrieval

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemConfig configures the embedded vector store.
type ChromemConfig struct {
	PersistPath string // directory; empty keeps the store in memory
	Collection  string
	TopK        int
}

// ChromemStore is a Store backed by an embedded chromem-go database.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
	topK       int
}

// NewChromemStore opens (or creates) the collection in the configured database.
func NewChromemStore(cfg ChromemConfig, embedder Embedder) (*ChromemStore, error) {
	if embedder == nil {
		return nil, errors.New("chromem store requires an embedder")
	}
	if cfg.Collection == "" {
		cfg.Collection = "legal_knowledge"
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	var (
		db  *chromem.DB
		err error
	)
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(filepath.Join(cfg.PersistPath, "chromem.gob"), false)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, chromem.EmbeddingFunc(embedder.Embed))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &ChromemStore{db: db, collection: collection, embedder: embedder, topK: cfg.TopK}, nil
}

// Retrieve returns up to topK documents. An empty collection yields no documents.
func (s *ChromemStore) Retrieve(ctx context.Context, query string) ([]Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	n := min(s.topK, s.collection.Count())
	if n == 0 {
		return nil, nil
	}
	results, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, Document{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return docs, nil
}

// Add embeds and stores docs. Documents re-added under the same ID replace the old entry.
func (s *ChromemStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
	}
	if err := s.collection.AddDocuments(ctx, batch, 4); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Count returns how many documents the collection holds.
func (s *ChromemStore) Count(context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close releases the embedder. Persistent chromem databases write through on
// every add, so there is nothing to flush.
func (s *ChromemStore) Close() error {
	return closeEmbedder(s.embedder)
}
