package retrieval

import (
	"context"
	"errors"
)

// Document is one legal text passage stored in or returned from a vector store.
type Document struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// Retriever returns the passages most similar to a query, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Store is a Retriever that can also be populated.
type Store interface {
	Retriever
	Add(ctx context.Context, docs []Document) error
	Count(ctx context.Context) (int, error)
	Close() error
}

const DefaultTopK = 3

var ErrEmptyQuery = errors.New("empty retrieval query")
