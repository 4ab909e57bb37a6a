package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "RETAILX"

	// legacyAPIKeyEnv is read from the environment or .env when no
	// RETAILX_MODEL_API_KEY is set.
	legacyAPIKeyEnv = "LLAMA_API"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new config loader. An empty configPath uses
// $HOME/.retailx/retailx.json.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envFile:    ".env",
	}
}

// WithEnvFile sets the dotenv file read before the environment. An empty
// path disables dotenv loading.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load reads the dotenv file, the config file if present and RETAILX_*
// environment variables, in increasing precedence over the defaults.
func (l *Loader) Load() (*Config, error) {
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}

	configPath := l.GetConfigPath()
	if configPath == "" {
		return nil, fmt.Errorf("failed to get home directory")
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	if err := v.BindEnv("model.api_key", envPrefix+"_MODEL_API_KEY", legacyAPIKeyEnv); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Model.ApplyProviderDefaults()

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".retailx")
	}

	if cfg.Dataset.DSN == "" && cfg.Dataset.Driver == "sqlite3" {
		cfg.Dataset.DSN = filepath.Join(cfg.DataDir, "retail.db")
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it on
// Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("model.provider", cfg.Model.Provider)
	v.SetDefault("model.api_key", cfg.Model.APIKey)
	// base_url and name depend on the final provider, see ApplyProviderDefaults
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.name", "")
	v.SetDefault("model.temperature", cfg.Model.Temperature)
	v.SetDefault("model.max_tokens", cfg.Model.MaxTokens)

	v.SetDefault("dataset.driver", cfg.Dataset.Driver)
	v.SetDefault("dataset.dsn", cfg.Dataset.DSN)
	v.SetDefault("dataset.read_only", cfg.Dataset.ReadOnly)
	v.SetDefault("dataset.max_rows", cfg.Dataset.MaxRows)
	v.SetDefault("dataset.description_file", cfg.Dataset.DescriptionFile)

	v.SetDefault("workflow.refuse_on_query_error", cfg.Workflow.RefuseOnQueryError)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
	v.SetDefault("logging.redaction", cfg.Logging.Redaction)

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	v.SetDefault("server.rate_limit_per_minute", cfg.Server.RateLimitPerMinute)
	v.SetDefault("server.trust_proxy_headers", cfg.Server.TrustProxyHeaders)

	v.SetDefault("data_dir", cfg.DataDir)
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".retailx", "retailx.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}
