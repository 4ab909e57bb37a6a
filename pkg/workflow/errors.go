package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion is returned when the question is blank
	ErrEmptyQuestion = errors.New("question is required")
	// ErrInvalidState is returned when a node receives a session of the wrong stage
	ErrInvalidState = errors.New("invalid session state")
)

// StepError reports a step that could not complete, typically because the
// model call failed.
type StepError struct {
	Node Node
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Node, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
