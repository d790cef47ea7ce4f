package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the nyaysetu backend.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Data       DataConfig       `mapstructure:"data"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AllowVercelPreviews admits any https://*.vercel.app origin.
	AllowVercelPreviews bool `mapstructure:"allow_vercel_previews"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ClassifierConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Fallback string        `mapstructure:"fallback"`
	Timeout  time.Duration `mapstructure:"timeout"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type RetrievalConfig struct {
	Backend     string          `mapstructure:"backend"`
	TopK        int             `mapstructure:"top_k"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	PersistPath string          `mapstructure:"persist_path"`
	Collection  string          `mapstructure:"collection"`
	Embedding   EmbeddingConfig `mapstructure:"embedding"`
	Postgres    PostgresConfig  `mapstructure:"postgres"`
}

type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	CacheSize int    `mapstructure:"cache_size"`
}

type PostgresConfig struct {
	URL        string `mapstructure:"url"`
	Table      string `mapstructure:"table"`
	Dimensions int    `mapstructure:"dimensions"`
}

type DatabaseConfig struct {
	Path   string `mapstructure:"path"`
	Silent bool   `mapstructure:"silent"`
}

// DataConfig overrides the embedded IPC tables. Empty paths use the built-in copies.
type DataConfig struct {
	RulesPath        string `mapstructure:"rules_path"`
	ExplanationsPath string `mapstructure:"explanations_path"`
}

// Validate checks ranges and enumerations after defaults have been applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range (1-65535)", c.Server.Port)
	}
	if !oneOf(c.Server.Mode, "debug", "release", "test") {
		return fmt.Errorf("config: server.mode %q must be debug, release or test", c.Server.Mode)
	}
	if !oneOf(c.Log.Format, "text", "json") {
		return fmt.Errorf("config: log.format %q must be text or json", c.Log.Format)
	}
	if !oneOf(c.LLM.Provider, ProviderOpenAI, ProviderGemini, ProviderNone) {
		return fmt.Errorf("config: llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Fallback != "" && !oneOf(c.LLM.Fallback, ProviderOpenAI, ProviderGemini, ProviderNone) {
		return fmt.Errorf("config: llm.fallback %q is not supported", c.LLM.Fallback)
	}
	if c.LLM.Fallback != "" && c.LLM.Fallback != ProviderNone && c.LLM.Fallback == c.LLM.Provider {
		return fmt.Errorf("config: llm.fallback must differ from llm.provider")
	}
	if !oneOf(c.Retrieval.Backend, BackendChromem, BackendPGVector) {
		return fmt.Errorf("config: retrieval.backend %q must be chromem or pgvector", c.Retrieval.Backend)
	}
	if c.Retrieval.Backend == BackendPGVector && strings.TrimSpace(c.Retrieval.Postgres.URL) == "" {
		return fmt.Errorf("config: retrieval.postgres.url is required for the pgvector backend")
	}
	if !oneOf(c.Retrieval.Embedding.Provider, ProviderOpenAI, ProviderGemini) {
		return fmt.Errorf("config: retrieval.embedding.provider %q must be openai or gemini", c.Retrieval.Embedding.Provider)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("config: retrieval.top_k must be at least 1")
	}
	if c.LLM.OpenAI.Temperature < 0 || c.LLM.OpenAI.Temperature > 2 {
		return fmt.Errorf("config: llm.openai.temperature %.2f is out of range (0-2)", c.LLM.OpenAI.Temperature)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database.path is required")
	}
	return nil
}

func oneOf(value string, options ...string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}
