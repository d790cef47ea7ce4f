package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PGVectorConfig configures the Postgres + pgvector store.
type PGVectorConfig struct {
	DatabaseURL string
	Table       string
	Dimensions  int
	TopK        int
}

// PGVectorStore is a Store over a pgvector table.
type PGVectorStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	table    string
	dims     int
	topK     int
}

// NewPGVectorStore connects, enables the vector extension and ensures the table exists.
func NewPGVectorStore(ctx context.Context, cfg PGVectorConfig, embedder Embedder) (*PGVectorStore, error) {
	if embedder == nil {
		return nil, errors.New("pgvector store requires an embedder")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("database url required")
	}
	if cfg.Table == "" {
		cfg.Table = "legal_knowledge"
	}
	if !validIdentifier(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PGVectorStore{pool: pool, embedder: embedder, table: cfg.Table, dims: cfg.Dimensions, topK: cfg.TopK}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PGVectorStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		logrus.WithError(err).Warn("create pgvector extension")
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		law_type TEXT,
		source TEXT,
		identifier TEXT,
		embedding vector(%d) NOT NULL
	)`, s.table, s.dims)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Retrieve embeds the query and returns the nearest rows by cosine distance.
func (s *PGVectorStore) Retrieve(ctx context.Context, query string) ([]Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	sql := fmt.Sprintf(`
		SELECT id, content, COALESCE(law_type, ''), COALESCE(source, ''), COALESCE(identifier, ''),
			1 - (embedding <=> $1::vector) AS similarity
		FROM %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, sql, formatVector(vec), s.topK)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var lawType, source, identifier string
		var similarity float64
		if err := rows.Scan(&doc.ID, &doc.Content, &lawType, &source, &identifier, &similarity); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		doc.Metadata = map[string]string{"law_type": lawType, "source": source, "identifier": identifier}
		doc.Similarity = float32(similarity)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return docs, nil
}

// Add embeds and upserts docs in one batch.
func (s *PGVectorStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	sql := fmt.Sprintf(`
		INSERT INTO %s (id, content, law_type, source, identifier, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			law_type = EXCLUDED.law_type,
			source = EXCLUDED.source,
			identifier = EXCLUDED.identifier,
			embedding = EXCLUDED.embedding`, s.table)

	batch := &pgx.Batch{}
	for _, doc := range docs {
		vec, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.ID, err)
		}
		batch.Queue(sql, doc.ID, doc.Content, doc.Metadata["law_type"], doc.Metadata["source"], doc.Metadata["identifier"], formatVector(vec))
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for _, doc := range docs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Count returns the number of stored rows.
func (s *PGVectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// Close releases the pool and the embedder.
func (s *PGVectorStore) Close() error {
	s.pool.Close()
	return closeEmbedder(s.embedder)
}

// formatVector renders an embedding in pgvector's text form.
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(embedding))
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
