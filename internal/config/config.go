package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DataConfig describes the source document folder and how its text is
// split into chunks before indexing.
type DataConfig struct {
	Path         string `yaml:"path"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// IndexConfig selects and configures the vector index backend.
// Backend is "chromem" (persistent local DB at Path) or "postgres"
// (pgvector over DSN).
type IndexConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	DSN        string `yaml:"dsn"`
	Debug      bool   `yaml:"debug"`
}

// ModelConfig configures one OpenAI-compatible model endpoint.
// The API key is read from the environment variable named by KeyEnv.
type ModelConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	KeyEnv  string `yaml:"key_env"`
}

// ChatConfig holds the user-facing knobs of the answer pipeline.
type ChatConfig struct {
	TopK     int    `yaml:"top_k"`
	Persona  string `yaml:"persona"`
	Contact  string `yaml:"contact"`
	Fallback string `yaml:"fallback"`
}

type Config struct {
	Data      DataConfig  `yaml:"data"`
	Index     IndexConfig `yaml:"index"`
	Embedding ModelConfig `yaml:"embedding"`
	LLM       ModelConfig `yaml:"llm"`
	Chat      ChatConfig  `yaml:"chat"`
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultTopK         = 5
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Data.ChunkSize == 0 {
		cfg.Data.ChunkSize = defaultChunkSize
	}
	if cfg.Data.ChunkOverlap == 0 {
		cfg.Data.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "chromem"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "profile"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.KeyEnv == "" {
		cfg.Embedding.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.KeyEnv == "" {
		cfg.LLM.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = defaultTopK
	}
}

// FallbackMessage is the answer returned when retrieval yields no
// knowledge. An explicit chat.fallback in the config wins; otherwise
// it is built from the configured persona and contact.
func (c *Config) FallbackMessage() string {
	if c.Chat.Fallback != "" {
		return c.Chat.Fallback
	}
	return fmt.Sprintf(
		"I'm sorry, I don't have enough information to answer that question. Please reach out to %s directly at %s.",
		c.Chat.Persona, c.Chat.Contact,
	)
}
