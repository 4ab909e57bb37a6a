package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "https://api.llama-api.com", cfg.Model.BaseURL)
	assert.Equal(t, "llama3-70b", cfg.Model.Name)
	assert.Equal(t, "sqlite3", cfg.Dataset.Driver)
	assert.True(t, cfg.Dataset.ReadOnly)
	assert.False(t, cfg.Workflow.RefuseOnQueryError)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Server.TrustProxyHeaders)
}

func TestApplyProviderDefaults(t *testing.T) {
	tests := []struct {
		name     string
		model    ModelConfig
		baseURL  string
		wantName string
	}{
		{"openai", ModelConfig{Provider: "openai"}, defaultLlamaBaseURL, defaultLlamaModel},
		{"anthropic", ModelConfig{Provider: "anthropic"}, "", defaultAnthropicModel},
		{"anthropic keeps explicit values", ModelConfig{Provider: "anthropic", BaseURL: "http://proxy", Name: "claude-x"}, "http://proxy", "claude-x"},
		{"unknown provider untouched", ModelConfig{Provider: "gemini"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model
			m.ApplyProviderDefaults()
			assert.Equal(t, tt.baseURL, m.BaseURL)
			assert.Equal(t, tt.wantName, m.Name)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Dataset.DSN = "retail.db"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing dsn", func(t *testing.T) {
		cfg := valid()
		cfg.Dataset.DSN = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("collects every error", func(t *testing.T) {
		cfg := valid()
		cfg.Model.Provider = "gemini"
		cfg.Dataset.Driver = "mysql"
		cfg.Server.Port = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gemini")
		assert.Contains(t, err.Error(), "mysql")
		assert.Contains(t, err.Error(), "port")
	})
}

func TestRequireModel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.RequireModel())

	cfg.Model.APIKey = "LL-key"
	assert.NoError(t, cfg.RequireModel())
}
