package llm

import (
	"context"
	"fmt"

	"github.com/harun/retailx/pkg/prompt"
	"github.com/rs/zerolog"
)

// Default model settings. The openai provider defaults to the hosted Llama API.
const (
	DefaultBaseURL        = "https://api.llama-api.com"
	DefaultModel          = "llama3-70b"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
)

// Config selects and configures the model backend. It is loaded once at
// startup and passed explicitly to New.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client completes single prompts against a configured model
type Client struct {
	provider Provider
	cfg      Config
	logger   zerolog.Logger
}

// New creates a client for cfg
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model api key is required")
	}
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = DefaultModel
		}
	case ProviderAnthropic:
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(provider, cfg, logger), nil
}

// NewWithProvider creates a client around an existing provider
func NewWithProvider(provider Provider, cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "llm").Str("provider", provider.Provider()).Logger(),
	}
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends p to the model, the system part as system instructions,
// and returns the raw completion text
func (c *Client) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	resp, err := c.provider.Call(ctx, Request{
		Model:        c.cfg.Model,
		SystemPrompt: p.System,
		Prompt:       p.User,
		Temperature:  c.cfg.Temperature,
		MaxTokens:    c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.provider.Provider(), err)
	}

	event := c.logger.Debug().Str("model", c.cfg.Model).Int("prompt_chars", len(p.System)+len(p.User))
	if resp.Usage != nil {
		event = event.Int("input_tokens", resp.Usage.InputTokens).Int("output_tokens", resp.Usage.OutputTokens)
	}
	event.Msg("Model call completed")

	return resp.Content, nil
}
