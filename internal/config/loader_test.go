package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks variables that would leak from the test environment
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LLAMA_API", "RETAILX_MODEL_API_KEY", "RETAILX_MODEL_PROVIDER", "RETAILX_MODEL_BASE_URL", "RETAILX_MODEL_NAME", "RETAILX_DATASET_DSN", "RETAILX_SERVER_PORT"} {
		t.Setenv(key, "")
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/retailx.json")
	assert.Equal(t, "/path/to/retailx.json", loader.configPath)
	assert.Equal(t, ".env", loader.envFile)
	assert.Equal(t, "/path/to/retailx.json", loader.GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("defaults when file doesn't exist", func(t *testing.T) {
		clearEnv(t)
		tmpDir := t.TempDir()
		t.Setenv("RETAILX_DATA_DIR", tmpDir)

		cfg, err := NewLoader(filepath.Join(tmpDir, "missing.json")).WithEnvFile("").Load()
		require.NoError(t, err)

		assert.Equal(t, "llama3-70b", cfg.Model.Name)
		assert.Equal(t, "https://api.llama-api.com", cfg.Model.BaseURL)
		assert.True(t, cfg.Dataset.ReadOnly)
		assert.Equal(t, tmpDir, cfg.DataDir)
		assert.Equal(t, filepath.Join(tmpDir, "retail.db"), cfg.Dataset.DSN)
	})

	t.Run("load config from file", func(t *testing.T) {
		clearEnv(t)
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "retailx.json")

		testConfig := `{
			"model": {"provider": "anthropic", "api_key": "sk-ant-test", "name": "claude-sonnet-4"},
			"dataset": {"driver": "postgres", "dsn": "postgres://retail@localhost/retail"},
			"workflow": {"refuse_on_query_error": true},
			"server": {"port": 9090}
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

		cfg, err := NewLoader(configPath).WithEnvFile("").Load()
		require.NoError(t, err)

		assert.Equal(t, "anthropic", cfg.Model.Provider)
		assert.Equal(t, "sk-ant-test", cfg.Model.APIKey)
		assert.Equal(t, "claude-sonnet-4", cfg.Model.Name)
		assert.Equal(t, "postgres", cfg.Dataset.Driver)
		assert.Equal(t, "postgres://retail@localhost/retail", cfg.Dataset.DSN)
		assert.True(t, cfg.Workflow.RefuseOnQueryError)
		assert.Equal(t, 9090, cfg.Server.Port)

		// Unset keys keep their defaults
		assert.True(t, cfg.Dataset.ReadOnly)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "retailx.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"server": {"port": 9090}}`), 0644))

		t.Setenv("RETAILX_SERVER_PORT", "7070")
		t.Setenv("RETAILX_MODEL_API_KEY", "env-key")

		cfg, err := NewLoader(configPath).WithEnvFile("").Load()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "env-key", cfg.Model.APIKey)
	})

	t.Run("LLAMA_API from env file", func(t *testing.T) {
		clearEnv(t)
		// godotenv only fills unset variables
		require.NoError(t, os.Unsetenv("LLAMA_API"))
		tmpDir := t.TempDir()
		envFile := filepath.Join(tmpDir, ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("LLAMA_API=LL-from-dotenv\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("LLAMA_API") })

		cfg, err := NewLoader(filepath.Join(tmpDir, "missing.json")).WithEnvFile(envFile).Load()
		require.NoError(t, err)
		assert.Equal(t, "LL-from-dotenv", cfg.Model.APIKey)
	})

	t.Run("RETAILX_MODEL_API_KEY wins over LLAMA_API", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLAMA_API", "LL-legacy")
		t.Setenv("RETAILX_MODEL_API_KEY", "preferred")

		cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).WithEnvFile("").Load()
		require.NoError(t, err)
		assert.Equal(t, "preferred", cfg.Model.APIKey)
	})

	t.Run("anthropic provider from env uses SDK endpoint", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RETAILX_MODEL_PROVIDER", "anthropic")

		cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).WithEnvFile("").Load()
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Model.Provider)
		assert.Empty(t, cfg.Model.BaseURL)
		assert.Equal(t, defaultAnthropicModel, cfg.Model.Name)
	})

	t.Run("explicit base url and name survive provider defaults", func(t *testing.T) {
		clearEnv(t)
		configPath := filepath.Join(t.TempDir(), "retailx.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"model": {"provider": "openai", "base_url": "https://api.openai.com/v1", "name": "gpt-4o-mini"}}`), 0644))

		cfg, err := NewLoader(configPath).WithEnvFile("").Load()
		require.NoError(t, err)
		assert.Equal(t, "https://api.openai.com/v1", cfg.Model.BaseURL)
		assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	})

	t.Run("trust proxy headers from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RETAILX_SERVER_TRUST_PROXY_HEADERS", "true")

		cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).WithEnvFile("").Load()
		require.NoError(t, err)
		assert.True(t, cfg.Server.TrustProxyHeaders)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		clearEnv(t)
		configPath := filepath.Join(t.TempDir(), "invalid.json")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0644))

		_, err := NewLoader(configPath).WithEnvFile("").Load()
		assert.Error(t, err)
	})

	t.Run("default config path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		assert.Equal(t, filepath.Join(home, ".retailx", "retailx.json"), NewLoader("").GetConfigPath())
	})
}
