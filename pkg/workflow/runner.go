package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harun/retailx/internal/tracing"
	"github.com/harun/retailx/pkg/dataset"
	"github.com/rs/zerolog"
)

// Run outcomes
const (
	OutcomeAnswered = "answered"
	OutcomeRefused  = "refused"
	OutcomeFailed   = "failed"
)

// Config holds runner configuration
type Config struct {
	Model       Model
	Store       dataset.Store
	Description string
	Options     Options
	Logger      zerolog.Logger
	Recorder    Recorder
}

// Runner answers questions. It holds no per-question state and is safe for
// concurrent use when its collaborators are.
type Runner struct {
	graph    *Graph
	logger   zerolog.Logger
	recorder Recorder
}

// Result is the outcome of one run
type Result struct {
	SessionID  string        `json:"session_id"`
	Outcome    string        `json:"outcome"`
	Answer     string        `json:"answer"`
	State      Snapshot      `json:"state"`
	Path       []Node        `json:"path"`
	QueryError string        `json:"query_error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// NewRunner creates a new runner
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Model == nil {
		return nil, errors.New("model is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("dataset store is required")
	}
	if strings.TrimSpace(cfg.Description) == "" {
		cfg.Description = dataset.DefaultDescription
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	logger := cfg.Logger.With().Str("component", "workflow").Logger()
	steps := NewSteps(cfg.Model, cfg.Store, cfg.Description, logger, recorder)

	return &Runner{
		graph:    NewGraph(steps, cfg.Options, logger),
		logger:   logger,
		recorder: recorder,
	}, nil
}

// Ask answers question and returns only the answer text
func (r *Runner) Ask(ctx context.Context, question string) (string, error) {
	result, err := r.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}

// Run answers question with a fresh session. The question is kept as given;
// blank questions are rejected.
func (r *Runner) Run(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	if tracing.GetSessionID(ctx) == "" {
		ctx = tracing.WithSessionID(ctx, tracing.NewSessionID())
	}
	logger := tracing.LoggerFromContext(ctx, r.logger)
	logger.Info().Str("question", question).Msg("Workflow started")

	start := time.Now()
	session, path, err := r.graph.Run(ctx, question)
	duration := time.Since(start)

	result := &Result{
		SessionID: tracing.GetSessionID(ctx),
		State:     session.Snapshot(),
		Path:      path,
		Duration:  duration,
	}

	if err != nil {
		result.Outcome = OutcomeFailed
		r.recorder.RunCompleted(result.Outcome, duration)
		return result, err
	}

	answered, ok := session.(Answered)
	if !ok {
		result.Outcome = OutcomeFailed
		r.recorder.RunCompleted(result.Outcome, duration)
		return result, ErrInvalidState
	}

	result.Answer = answered.Answer
	result.Outcome = OutcomeAnswered
	switch prior := answered.Prior.(type) {
	case Routed:
		result.Outcome = OutcomeRefused
	case Executed:
		if prior.ExecErr != nil {
			result.QueryError = prior.ExecErr.Error()
			if path[len(path)-1] == NodeCannotAnswer {
				result.Outcome = OutcomeRefused
			}
		}
	}

	r.recorder.RunCompleted(result.Outcome, duration)
	logger.Info().
		Str("outcome", result.Outcome).
		Int("steps", len(path)).
		Dur("duration", duration).
		Msg("Workflow completed")

	return result, nil
}
