package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/harun/retailx/internal/tracing"
	"github.com/rs/zerolog"
)

// Options tunes routing
type Options struct {
	// RefuseOnQueryError sends failed query executions to cannot_answer
	// instead of write_answer.
	RefuseOnQueryError bool
}

// transition picks the next node from the session produced by the current one
type transition func(s Session, opts Options) (Node, error)

func always(next Node) transition {
	return func(Session, Options) (Node, error) {
		return next, nil
	}
}

var transitions = map[Node]transition{
	NodeStart: always(NodeCheckIfCanAnswer),
	NodeCheckIfCanAnswer: func(s Session, _ Options) (Node, error) {
		routed, ok := s.(Routed)
		if !ok {
			return "", fmt.Errorf("%w: %T after %s", ErrInvalidState, s, NodeCheckIfCanAnswer)
		}
		return Route(routed), nil
	},
	NodeWriteQuery: always(NodeExecuteQuery),
	NodeExecuteQuery: func(s Session, opts Options) (Node, error) {
		executed, ok := s.(Executed)
		if !ok {
			return "", fmt.Errorf("%w: %T after %s", ErrInvalidState, s, NodeExecuteQuery)
		}
		return RouteExecution(executed, opts.RefuseOnQueryError), nil
	},
	NodeWriteAnswer:  always(NodeEnd),
	NodeCannotAnswer: always(NodeEnd),
}

// maxVisits bounds a run; the graph is acyclic so no run visits more nodes
// than the graph has.
var maxVisits = len(transitions)

// Graph drives a session from __start__ to __end__
type Graph struct {
	steps  *Steps
	opts   Options
	logger zerolog.Logger
}

// NewGraph creates a graph over steps
func NewGraph(steps *Steps, opts Options, logger zerolog.Logger) *Graph {
	return &Graph{steps: steps, opts: opts, logger: logger}
}

// Run drives question to completion and returns the terminal session with
// the nodes visited, in order. On error the last good session is returned.
func (g *Graph) Run(ctx context.Context, question string) (Session, []Node, error) {
	logger := tracing.LoggerFromContext(ctx, g.logger)

	var session Session = Initial{Question: question}
	path := make([]Node, 0, maxVisits)
	node := NodeStart

	for node != NodeEnd {
		if node != NodeStart {
			if len(path) >= maxVisits {
				return session, path, fmt.Errorf("%w: run exceeded %d nodes", ErrInvalidState, maxVisits)
			}

			start := time.Now()
			next, err := g.exec(ctx, node, session)
			g.steps.recorder.NodeCompleted(string(node), time.Since(start), err)
			if err != nil {
				logger.Error().Err(err).Str("node", string(node)).Msg("Workflow step failed")
				return session, path, &StepError{Node: node, Err: err}
			}

			logger.Debug().
				Str("node", string(node)).
				Dur("duration", time.Since(start)).
				Msg("Workflow step completed")

			session = next
			path = append(path, node)
		}

		route, ok := transitions[node]
		if !ok {
			return session, path, fmt.Errorf("%w: no transition from %s", ErrInvalidState, node)
		}
		var err error
		if node, err = route(session, g.opts); err != nil {
			return session, path, err
		}
	}

	return session, path, nil
}

func (g *Graph) exec(ctx context.Context, node Node, session Session) (Session, error) {
	switch node {
	case NodeCheckIfCanAnswer:
		in, ok := session.(Initial)
		if !ok {
			break
		}
		return g.steps.CheckIfCanAnswer(ctx, in)
	case NodeWriteQuery:
		in, ok := session.(Routed)
		if !ok {
			break
		}
		return g.steps.WriteQuery(ctx, in)
	case NodeExecuteQuery:
		in, ok := session.(Queried)
		if !ok {
			break
		}
		return g.steps.ExecuteQuery(ctx, in), nil
	case NodeWriteAnswer:
		in, ok := session.(Executed)
		if !ok {
			break
		}
		return g.steps.WriteAnswer(ctx, in)
	case NodeCannotAnswer:
		return g.steps.CannotAnswer(ctx, session)
	default:
		return nil, fmt.Errorf("%w: unknown node %s", ErrInvalidState, node)
	}
	return nil, fmt.Errorf("%w: %s cannot run on %T", ErrInvalidState, node, session)
}
