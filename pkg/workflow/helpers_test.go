package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harun/retailx/pkg/dataset"
	"github.com/harun/retailx/pkg/prompt"
	"github.com/stretchr/testify/mock"
)

// Markers that identify which template produced a prompt
const (
	feasibilityMarker  = "decide whether the question can be answered"
	writeQueryMarker   = "Return an SQL query"
	writeAnswerMarker  = "Return a text answering"
	cannotAnswerMarker = "apologize for the inconvenience"
)

// MockModel is a mock implementation of Model
type MockModel struct {
	mock.Mock
}

func (m *MockModel) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

// prompts returns the prompts the model received as single texts, in call order
func (m *MockModel) prompts() []string {
	out := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(1).(prompt.Prompt).String())
	}
	return out
}

// rendered returns the prompts the model received, in call order
func (m *MockModel) rendered() []prompt.Prompt {
	out := make([]prompt.Prompt, 0, len(m.Calls))
	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(1).(prompt.Prompt))
	}
	return out
}

func promptWith(marker string) interface{} {
	return mock.MatchedBy(func(p prompt.Prompt) bool {
		return strings.Contains(p.String(), marker)
	})
}

// MockStore is a mock implementation of dataset.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Query(ctx context.Context, query string) (*dataset.Table, error) {
	args := m.Called(ctx, query)
	if table := args.Get(0); table != nil {
		return table.(*dataset.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeRecorder counts telemetry events
type fakeRecorder struct {
	mu        sync.Mutex
	nodes     []string
	modelErrs int
	models    []string
	queries   int
	queryErrs int
	fallbacks int
	outcomes  []string
}

func (r *fakeRecorder) NodeCompleted(node string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, node)
}

func (r *fakeRecorder) ModelCalled(node string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, node)
	if err != nil {
		r.modelErrs++
	}
}

func (r *fakeRecorder) QueryExecuted(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if err != nil {
		r.queryErrs++
	}
}

func (r *fakeRecorder) VerdictFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks++
}

func (r *fakeRecorder) RunCompleted(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}
