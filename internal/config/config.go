package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"chatdoc/internal/chunker"
)

// Config is read from the environment, see Load.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	SessionStore   string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`

	EmbedProvider    string `env:"EMBED_PROVIDER" envDefault:"hash"`
	HashEmbedDim     int    `env:"HASH_EMBED_DIM" envDefault:"384"`
	OllamaURL        string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaEmbedModel string `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	OpenAIEmbedModel string `env:"OPENAI_EMBED_MODEL" envDefault:"text-embedding-3-small"`

	OpenAIKey     string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel      string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens     int     `env:"MAX_TOKENS" envDefault:"1024"`
	Temperature   float32 `env:"TEMPERATURE" envDefault:"0.2"`

	ChunkMethod    string `env:"CHUNK_METHOD" envDefault:"words"`
	ChunkSize      int    `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap   int    `env:"CHUNK_OVERLAP" envDefault:"100"`
	TopK           int    `env:"TOP_K" envDefault:"3"`
	MaxPromptChars int    `env:"MAX_PROMPT_CHARS" envDefault:"12000"`

	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"2"`
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"200ms"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
}

func Init(cfg interface{}) error {
	return env.Parse(cfg)
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := Init(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Chunking() chunker.Config {
	return chunker.Config{Size: c.ChunkSize, Overlap: c.ChunkOverlap}
}

func (c *Config) Validate() error {
	if err := c.Chunking().Validate(); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	switch c.EmbedProvider {
	case "hash", "ollama", "openai", "openai-compat":
	default:
		return fmt.Errorf("unknown EMBED_PROVIDER %q", c.EmbedProvider)
	}
	return nil
}
