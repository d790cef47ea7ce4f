package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8081
  allowed_origins: ["https://nyaysetu.example"]
log:
  level: debug
  format: json
classifier:
  url: "http://classifier:8000"
  timeout: 5s
llm:
  provider: gemini
  fallback: openai
  gemini:
    api_key: "g-key"
retrieval:
  backend: chromem
  top_k: 5
  embedding:
    provider: gemini
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(envName(key), "")
		os.Unsetenv(envName(key))
		for _, legacy := range legacyEnv[key] {
			t.Setenv(legacy, "")
			os.Unsetenv(legacy)
		}
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultAllowedOrigins, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.AllowVercelPreviews)
	assert.Equal(t, DefaultClassifierTimeout, cfg.Classifier.Timeout)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.LLM.OpenAI.Model)
	assert.InDelta(t, DefaultOpenAITemperature, cfg.LLM.OpenAI.Temperature, 1e-9)
	assert.Equal(t, BackendChromem, cfg.Retrieval.Backend)
	assert.Equal(t, DefaultRetrievalTopK, cfg.Retrieval.TopK)
	assert.Equal(t, DefaultRetrievalTimeout, cfg.Retrieval.Timeout)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://nyaysetu.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://classifier:8000", cfg.Classifier.URL)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Fallback)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "g-key", cfg.Retrieval.Embedding.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("NYAYSETU_RETRIEVAL_TOP_K", "7")
	t.Setenv("NYAYSETU_SERVER_ALLOW_VERCEL_PREVIEWS", "false")
	t.Setenv("NYAYSETU_LLM_TIMEOUT", "30s")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-legacy", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 7, cfg.Retrieval.TopK)
	assert.False(t, cfg.Server.AllowVercelPreviews)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestPrefixedEnvBeatsLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("NYAYSETU_SERVER_PORT", "9191")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestEmbeddingKeyFallsBackToOpenAIKey(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.OpenAI.APIKey = "sk-test"
	ApplyDefaults(cfg)
	assert.Equal(t, "sk-test", cfg.Retrieval.Embedding.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"mode", func(c *Config) { c.Server.Mode = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"provider", func(c *Config) { c.LLM.Provider = "anthropic" }},
		{"fallback equals provider", func(c *Config) { c.LLM.Fallback = ProviderOpenAI }},
		{"backend", func(c *Config) { c.Retrieval.Backend = "faiss" }},
		{"pgvector without url", func(c *Config) { c.Retrieval.Backend = BackendPGVector }},
		{"embedding provider", func(c *Config) { c.Retrieval.Embedding.Provider = "local" }},
		{"top k", func(c *Config) { c.Retrieval.TopK = -1 }},
		{"temperature", func(c *Config) { c.LLM.OpenAI.Temperature = 3 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogApply(t *testing.T) {
	assert.NoError(t, LogConfig{Level: "warn", Format: "json"}.Apply())
	assert.Error(t, LogConfig{Level: "chatty"}.Apply())
	assert.NoError(t, LogConfig{Level: "info", Format: "text"}.Apply())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NYAYSETU_CLASSIFIER_URL=http://from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NYAYSETU_CLASSIFIER_URL") })

	LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv", cfg.Classifier.URL)
}

func TestRetrievalOpenConfig(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.OpenAI.APIKey = "sk-test"
	cfg.Retrieval.Backend = BackendPGVector
	cfg.Retrieval.Postgres.URL = "postgres://localhost/nyaysetu"
	ApplyDefaults(cfg)

	open := cfg.Retrieval.OpenConfig()
	assert.Equal(t, BackendPGVector, open.Backend)
	assert.Equal(t, "sk-test", open.Embedder.APIKey)
	assert.Equal(t, DefaultEmbeddingCacheSize, open.Embedder.CacheSize)
	assert.Equal(t, DefaultRetrievalTopK, open.Chromem.TopK)
	assert.Equal(t, DefaultRetrievalTopK, open.PGVector.TopK)
	assert.Equal(t, "postgres://localhost/nyaysetu", open.PGVector.DatabaseURL)
	assert.Equal(t, DefaultPostgresDimensions, open.PGVector.Dimensions)
}
