package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harun/retailx/internal/tracing"
	"github.com/harun/retailx/pkg/dataset"
	"github.com/harun/retailx/pkg/prompt"
	"github.com/rs/zerolog"
)

// Model completes a single rendered prompt
type Model interface {
	Complete(ctx context.Context, p prompt.Prompt) (string, error)
}

// Steps holds the five step functions and the collaborators they share
type Steps struct {
	model       Model
	store       dataset.Store
	description string
	logger      zerolog.Logger
	recorder    Recorder
}

// NewSteps creates the step functions. A nil recorder disables telemetry.
func NewSteps(model Model, store dataset.Store, description string, logger zerolog.Logger, recorder Recorder) *Steps {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Steps{
		model:       model,
		store:       store,
		description: description,
		logger:      logger,
		recorder:    recorder,
	}
}

// CheckIfCanAnswer asks the model whether the data can answer the question.
// Unparseable model output routes to a refusal instead of failing.
func (s *Steps) CheckIfCanAnswer(ctx context.Context, in Initial) (Routed, error) {
	raw, err := s.complete(ctx, NodeCheckIfCanAnswer, prompt.Feasibility, map[string]string{
		prompt.VarDataDescription: s.description,
		prompt.VarQuestion:        in.Question,
	})
	if err != nil {
		return Routed{}, err
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		s.recorder.VerdictFallback()
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str("output", truncate(raw, 200)).
			Msg("Feasibility output unparseable, treating question as unanswerable")
	}

	return Routed{
		Initial:   in,
		Plan:      verdict.Reasoning,
		CanAnswer: verdict.CanAnswer,
	}, nil
}

// WriteQuery asks the model for a SQL query following the plan. The query
// is not validated here.
func (s *Steps) WriteQuery(ctx context.Context, in Routed) (Queried, error) {
	raw, err := s.complete(ctx, NodeWriteQuery, prompt.WriteQuery, map[string]string{
		prompt.VarDataDescription: s.description,
		prompt.VarPlan:            in.Plan,
		prompt.VarQuestion:        in.Question,
	})
	if err != nil {
		return Queried{}, err
	}
	return Queried{Routed: in, SQLQuery: parseStringOutput(raw)}, nil
}

// ExecuteQuery runs the query. A failure is captured as the result text.
func (s *Steps) ExecuteQuery(ctx context.Context, in Queried) Executed {
	start := time.Now()
	table, err := s.store.Query(ctx, in.SQLQuery)
	s.recorder.QueryExecuted(time.Since(start), err)

	if err != nil {
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str("sql_query", in.SQLQuery).
			Msg("Query execution failed")
		return Executed{Queried: in, SQLResult: err.Error(), ExecErr: err}
	}
	return Executed{Queried: in, SQLResult: table.Markdown()}
}

// WriteAnswer asks the model to answer the question from the query result
func (s *Steps) WriteAnswer(ctx context.Context, in Executed) (Answered, error) {
	raw, err := s.complete(ctx, NodeWriteAnswer, prompt.WriteAnswer, map[string]string{
		prompt.VarPlan:      in.Plan,
		prompt.VarSQLQuery:  in.SQLQuery,
		prompt.VarSQLResult: in.SQLResult,
		prompt.VarQuestion:  in.Question,
	})
	if err != nil {
		return Answered{}, err
	}
	return Answered{Prior: in, Answer: parseStringOutput(raw)}, nil
}

// CannotAnswer asks the model to apologize. in must be Routed, where the plan
// explains the problem, or Executed with a failed query, where the error does.
func (s *Steps) CannotAnswer(ctx context.Context, in Session) (Answered, error) {
	var question, problem string
	switch v := in.(type) {
	case Routed:
		question, problem = v.Question, v.Plan
	case Executed:
		if v.ExecErr == nil {
			return Answered{}, fmt.Errorf("%w: refusal after successful query", ErrInvalidState)
		}
		question, problem = v.Question, v.SQLResult
	default:
		return Answered{}, fmt.Errorf("%w: %T cannot be refused", ErrInvalidState, in)
	}

	raw, err := s.complete(ctx, NodeCannotAnswer, prompt.CannotAnswer, map[string]string{
		prompt.VarProblem:  problem,
		prompt.VarQuestion: question,
	})
	if err != nil {
		return Answered{}, err
	}
	return Answered{Prior: in, Answer: parseStringOutput(raw)}, nil
}

func (s *Steps) complete(ctx context.Context, node Node, tmpl *prompt.Template, values map[string]string) (string, error) {
	p, err := tmpl.Render(values)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := s.model.Complete(ctx, p)
	s.recorder.ModelCalled(string(node), time.Since(start), err)
	return out, err
}

func parseStringOutput(output string) string {
	return strings.TrimSpace(output)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
