// Package config provides unified configuration loading for the answer engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the answer engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Cache         CacheConfig         `yaml:"cache"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	VectorIndex   VectorIndexConfig   `yaml:"vector_index"`
	LLM           LLMConfig           `yaml:"llm"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Generation    GenerationConfig    `yaml:"generation"`
	Security      SecurityConfig      `yaml:"security"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// CacheConfig holds answer cache settings.
type CacheConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// EmbeddingConfig holds embedding service settings.
type EmbeddingConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	Timeout   time.Duration `yaml:"timeout"`
}

// VectorIndexConfig holds vector index service settings.
type VectorIndexConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Namespace string        `yaml:"namespace"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LLMConfig holds language model service settings.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Stream      bool          `yaml:"stream"`
	Timeout     time.Duration `yaml:"timeout"`

	// MaxRetries opts a deployment into transport-level retries of
	// transient completion failures. Zero means a single attempt.
	MaxRetries int `yaml:"max_retries"`
}

// RetrievalConfig holds retrieval policy settings.
type RetrievalConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	ComparisonThreshold float64 `yaml:"comparison_threshold"`
	SemanticWeight      float64 `yaml:"semantic_weight"`
	LexicalWeight       float64 `yaml:"lexical_weight"`
}

// GenerationConfig holds answer generation and validation settings.
type GenerationConfig struct {
	ConfidenceFloor   float64 `yaml:"confidence_floor"`
	LowConfidenceWarn float64 `yaml:"low_confidence_warn"`
	MinSources        int     `yaml:"min_sources"`
}

// SecurityConfig holds rate limiting and PII screening settings.
type SecurityConfig struct {
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	MaskPII           bool          `yaml:"mask_pii"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"http://localhost:3000"},
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "http://localhost:8091",
			Model:     "text-embedding-3-small",
			Dimension: 1536,
			Timeout:   15 * time.Second,
		},
		VectorIndex: VectorIndexConfig{
			BaseURL:   "http://localhost:8092",
			Namespace: "immigration-docs",
			Timeout:   15 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:8093",
			Model:       "gpt-4",
			Temperature: 0.7,
			MaxTokens:   1000,
			Stream:      true,
			Timeout:     60 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:                5,
			SimilarityThreshold: 0.5,
			ComparisonThreshold: 0.3,
			SemanticWeight:      0.7,
			LexicalWeight:       0.3,
		},
		Generation: GenerationConfig{
			ConfidenceFloor:   0.4,
			LowConfidenceWarn: 0.7,
			MinSources:        1,
		},
		Security: SecurityConfig{
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			MaskPII:           true,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 20 {
		return fmt.Errorf("top_k must be between 1 and 20")
	}

	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1")
	}

	if c.Retrieval.ComparisonThreshold < 0 || c.Retrieval.ComparisonThreshold > 1 {
		return fmt.Errorf("comparison_threshold must be between 0 and 1")
	}

	if c.Generation.ConfidenceFloor < 0 || c.Generation.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence_floor must be between 0 and 1")
	}

	if c.Security.RateLimitRequests < 1 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	if v := os.Getenv("VECTOR_INDEX_BASE_URL"); v != "" {
		cfg.VectorIndex.BaseURL = v
	}

	if v := os.Getenv("VECTOR_INDEX_API_KEY"); v != "" {
		cfg.VectorIndex.APIKey = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
