package config

import "nyaysetu/backend/internal/retrieval"

// OpenConfig translates the retrieval section into vector store options.
func (r RetrievalConfig) OpenConfig() retrieval.OpenConfig {
	return retrieval.OpenConfig{
		Backend: r.Backend,
		Embedder: retrieval.EmbedderConfig{
			Provider:  r.Embedding.Provider,
			Model:     r.Embedding.Model,
			APIKey:    r.Embedding.APIKey,
			BaseURL:   r.Embedding.BaseURL,
			CacheSize: r.Embedding.CacheSize,
		},
		Chromem: retrieval.ChromemConfig{
			PersistPath: r.PersistPath,
			Collection:  r.Collection,
			TopK:        r.TopK,
		},
		PGVector: retrieval.PGVectorConfig{
			DatabaseURL: r.Postgres.URL,
			Table:       r.Postgres.Table,
			Dimensions:  r.Postgres.Dimensions,
			TopK:        r.TopK,
		},
	}
}
