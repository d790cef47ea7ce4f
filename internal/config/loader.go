// Package config loads nyaysetu settings from an optional YAML file, a .env
// file and NYAYSETU_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "NYAYSETU"

// legacyEnv maps config keys to the unprefixed variable names used by older
// deployments. The prefixed name still wins when both are set.
var legacyEnv = map[string][]string{
	"server.port":               {"PORT"},
	"llm.openai.api_key":        {"OPENAI_API_KEY"},
	"llm.openai.model":          {"OPENAI_MODEL"},
	"llm.openai.base_url":       {"OPENAI_BASE_URL"},
	"llm.openai.temperature":    {"OPENAI_TEMPERATURE"},
	"llm.openai.max_tokens":     {"OPENAI_MAX_TOKENS"},
	"llm.gemini.api_key":        {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"llm.gemini.model":          {"GEMINI_MODEL"},
	"retrieval.postgres.url":    {"DATABASE_URL"},
	"classifier.url":            {"CLASSIFIER_URL"},
	"retrieval.persist_path":    {"CHROMA_PERSIST_PATH"},
	"retrieval.collection":      {"CHROMA_COLLECTION"},
	"retrieval.embedding.model": {"EMBEDDING_MODEL"},
}

// keys lists every setting so that Unmarshal sees environment overrides even
// when no config file defines the key.
var keys = []string{
	"server.port", "server.mode", "server.allowed_origins", "server.allow_vercel_previews",
	"log.level", "log.format",
	"classifier.url", "classifier.api_key", "classifier.timeout",
	"llm.provider", "llm.fallback", "llm.timeout",
	"llm.openai.api_key", "llm.openai.model", "llm.openai.base_url", "llm.openai.temperature", "llm.openai.max_tokens",
	"llm.gemini.api_key", "llm.gemini.model", "llm.gemini.temperature", "llm.gemini.max_tokens",
	"retrieval.backend", "retrieval.top_k", "retrieval.timeout", "retrieval.persist_path", "retrieval.collection",
	"retrieval.embedding.provider", "retrieval.embedding.model", "retrieval.embedding.api_key",
	"retrieval.embedding.base_url", "retrieval.embedding.cache_size",
	"retrieval.postgres.url", "retrieval.postgres.table", "retrieval.postgres.dimensions",
	"database.path", "database.silent",
	"data.rules_path", "data.explanations_path",
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("server.allow_vercel_previews", true)

	for _, key := range keys {
		names := []string{key, envName(key)}
		names = append(names, legacyEnv[key]...)
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}
	return v, nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads the YAML file at configPath when one is given, layers the
// environment on top, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(configPath) != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads the first .env file found among paths. Missing files are
// not an error; variables already present in the environment are kept.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			logrus.WithField("path", path).Debug("loaded environment file")
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).WithField("path", path).Warn("failed to load environment file")
		}
	}
}

// Apply configures the global logrus logger.
func (l LogConfig) Apply() error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	logrus.SetLevel(level)
	if l.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
