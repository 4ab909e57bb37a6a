package cli

import (
	"context"
	"fmt"

	"github.com/harun/retailx/internal/config"
	"github.com/harun/retailx/internal/logger"
	"github.com/harun/retailx/internal/metrics"
	"github.com/harun/retailx/pkg/dataset"
	"github.com/harun/retailx/pkg/llm"
	"github.com/harun/retailx/pkg/workflow"
	"github.com/rs/zerolog"
)

// newModel builds the completion model. Tests replace it.
var newModel = func(cfg config.ModelConfig, log zerolog.Logger) (workflow.Model, error) {
	return llm.New(llm.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Name,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, log)
}

// app holds what every command needs: validated config and a logger
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Debug().
		Str("config", config.NewLoader(cfgFile).GetConfigPath()).
		Str("provider", cfg.Model.Provider).
		Str("driver", cfg.Dataset.Driver).
		Msg("Configuration loaded")
	if !cfg.Logging.Redaction {
		log.Warn().Msg("Log redaction is disabled, API keys may be written to logs")
	}

	return &app{cfg: cfg, log: log}, nil
}

func (a *app) Close() error {
	return a.log.Close()
}

// openStore opens the configured dataset. Seeding needs a writable store, so
// readOnly is only honored when the config asks for it.
func (a *app) openStore(ctx context.Context, readOnly bool) (*dataset.SQLStore, error) {
	store, err := dataset.Open(ctx, dataset.Config{
		Driver:   a.cfg.Dataset.Driver,
		DSN:      a.cfg.Dataset.DSN,
		ReadOnly: readOnly && a.cfg.Dataset.ReadOnly,
		MaxRows:  a.cfg.Dataset.MaxRows,
		Logger:   a.log.GetZerolog(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	return store, nil
}

func (a *app) description() (string, error) {
	if a.cfg.Dataset.DescriptionFile != "" {
		return dataset.LoadDescription(a.cfg.Dataset.DescriptionFile)
	}
	engine := "SQLite3"
	if a.cfg.Dataset.Driver == dataset.DriverPostgres {
		engine = "PostgreSQL"
	}
	return dataset.Describe(engine, dataset.DefaultTable, dataset.RetailColumns), nil
}

// newRunner wires the model, the store and an optional recorder into a runner
func (a *app) newRunner(store dataset.Store, m *metrics.Metrics) (*workflow.Runner, error) {
	if err := a.cfg.RequireModel(); err != nil {
		return nil, err
	}

	model, err := newModel(a.cfg.Model, a.log.GetZerolog())
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	description, err := a.description()
	if err != nil {
		return nil, err
	}

	cfg := workflow.Config{
		Model:       model,
		Store:       store,
		Description: description,
		Options:     workflow.Options{RefuseOnQueryError: a.cfg.Workflow.RefuseOnQueryError},
		Logger:      a.log.GetZerolog(),
	}
	if m != nil {
		cfg.Recorder = m
	}
	return workflow.NewRunner(cfg)
}
