package config

import (
	"errors"
	"fmt"
)

// Config represents the RetailX configuration
type Config struct {
	// Model backend
	Model ModelConfig `json:"model" mapstructure:"model"`

	// Dataset store
	Dataset DatasetConfig `json:"dataset" mapstructure:"dataset"`

	// Workflow routing
	Workflow WorkflowConfig `json:"workflow" mapstructure:"workflow"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// HTTP server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ModelConfig holds model provider configuration
type ModelConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"` // openai, anthropic
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	BaseURL     string  `json:"base_url" mapstructure:"base_url"`
	Name        string  `json:"name" mapstructure:"name"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// DatasetConfig holds dataset store configuration
type DatasetConfig struct {
	Driver          string `json:"driver" mapstructure:"driver"` // sqlite3, postgres
	DSN             string `json:"dsn" mapstructure:"dsn"`
	ReadOnly        bool   `json:"read_only" mapstructure:"read_only"`
	MaxRows         int    `json:"max_rows" mapstructure:"max_rows"`
	DescriptionFile string `json:"description_file" mapstructure:"description_file"`
}

// WorkflowConfig holds routing options
type WorkflowConfig struct {
	RefuseOnQueryError bool `json:"refuse_on_query_error" mapstructure:"refuse_on_query_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string `json:"host" mapstructure:"host"`
	Port               int    `json:"port" mapstructure:"port"`
	RequestTimeout     int    `json:"request_timeout" mapstructure:"request_timeout"` // seconds
	RateLimitPerMinute int    `json:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
	TrustProxyHeaders  bool   `json:"trust_proxy_headers" mapstructure:"trust_proxy_headers"`
}

// Provider dependent model defaults. The openai provider targets the hosted
// Llama API unless base_url says otherwise.
const (
	defaultLlamaBaseURL   = "https://api.llama-api.com"
	defaultLlamaModel     = "llama3-70b"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
)

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0,
			MaxTokens:   1024,
		},
		Dataset: DatasetConfig{
			Driver:   "sqlite3",
			ReadOnly: true,
			MaxRows:  1000,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               8080,
			RequestTimeout:     60,
			RateLimitPerMinute: 60,
		},
	}
	cfg.Model.ApplyProviderDefaults()
	return cfg
}

// ApplyProviderDefaults fills base_url and name when they are unset. An
// anthropic model keeps an empty base_url so the SDK endpoint is used.
func (m *ModelConfig) ApplyProviderDefaults() {
	switch m.Provider {
	case "openai":
		if m.BaseURL == "" {
			m.BaseURL = defaultLlamaBaseURL
		}
		if m.Name == "" {
			m.Name = defaultLlamaModel
		}
	case "anthropic":
		if m.Name == "" {
			m.Name = defaultAnthropicModel
		}
	}
}

// Validate checks that the configuration values are usable. The API key is
// not checked here since seeding and describing run without a model.
func (c *Config) Validate() error {
	if c.Dataset.DSN == "" {
		return fmt.Errorf("dataset dsn is required")
	}
	return errors.Join(NewValidator().ValidateConfig(c)...)
}

// RequireModel reports whether a model can be built from c
func (c *Config) RequireModel() error {
	if c.Model.APIKey == "" {
		return fmt.Errorf("no model API key configured: set model.api_key, RETAILX_MODEL_API_KEY or LLAMA_API")
	}
	return nil
}
