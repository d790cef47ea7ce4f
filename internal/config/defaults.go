package config

import "time"

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"

	BackendChromem  = "chromem"
	BackendPGVector = "pgvector"
)

const (
	DefaultServerPort         = 10000
	DefaultServerMode         = "release"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultClassifierTimeout  = 15 * time.Second
	DefaultLLMProvider        = ProviderOpenAI
	DefaultLLMTimeout         = 60 * time.Second
	DefaultOpenAIModel        = "meta-llama/Llama-3.1-8B-Instruct"
	DefaultOpenAITemperature  = 0.25
	DefaultGeminiModel        = "gemini-1.5-flash"
	DefaultRetrievalBackend   = BackendChromem
	DefaultRetrievalTopK      = 3
	DefaultRetrievalTimeout   = 10 * time.Second
	DefaultPersistPath        = "data/chroma"
	DefaultCollection         = "legal_knowledge"
	DefaultEmbeddingProvider  = ProviderOpenAI
	DefaultEmbeddingCacheSize = 1024
	DefaultPostgresTable      = "legal_knowledge"
	DefaultPostgresDimensions = 1536
	DefaultDatabasePath       = "data/nyaysetu.db"
)

// DefaultAllowedOrigins are the local frontend origins accepted by CORS.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
}

// ApplyDefaults fills zero values. API keys are shared between the chat model
// and the embedder when only one is configured.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = DefaultClassifierTimeout
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = DefaultLLMProvider
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = DefaultLLMTimeout
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.LLM.OpenAI.Temperature == 0 {
		cfg.LLM.OpenAI.Temperature = DefaultOpenAITemperature
	}
	if cfg.LLM.Gemini.Model == "" {
		cfg.LLM.Gemini.Model = DefaultGeminiModel
	}
	if cfg.LLM.Gemini.Temperature == 0 {
		cfg.LLM.Gemini.Temperature = DefaultOpenAITemperature
	}

	r := &cfg.Retrieval
	if r.Backend == "" {
		r.Backend = DefaultRetrievalBackend
	}
	if r.TopK == 0 {
		r.TopK = DefaultRetrievalTopK
	}
	if r.Timeout == 0 {
		r.Timeout = DefaultRetrievalTimeout
	}
	if r.PersistPath == "" {
		r.PersistPath = DefaultPersistPath
	}
	if r.Collection == "" {
		r.Collection = DefaultCollection
	}
	if r.Embedding.Provider == "" {
		r.Embedding.Provider = DefaultEmbeddingProvider
	}
	if r.Embedding.APIKey == "" {
		switch r.Embedding.Provider {
		case ProviderOpenAI:
			r.Embedding.APIKey = cfg.LLM.OpenAI.APIKey
		case ProviderGemini:
			r.Embedding.APIKey = cfg.LLM.Gemini.APIKey
		}
	}
	if r.Embedding.CacheSize == 0 {
		r.Embedding.CacheSize = DefaultEmbeddingCacheSize
	}
	if r.Postgres.Table == "" {
		r.Postgres.Table = DefaultPostgresTable
	}
	if r.Postgres.Dimensions == 0 {
		r.Postgres.Dimensions = DefaultPostgresDimensions
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
}
