package server

import (
	"context"
	"net/http"
	"time"

	"github.com/harun/retailx/pkg/workflow"
)

// Options holds server configuration
type Options struct {
	Host               string
	Port               int
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration
	// TrustProxyHeaders keys rate limiting on X-Forwarded-For and X-Real-IP
	TrustProxyHeaders bool
}

// Asker answers questions
type Asker interface {
	Run(ctx context.Context, question string) (*workflow.Result, error)
}

// Metrics records served requests and exposes the metrics endpoint
type Metrics interface {
	HTTPRequest(route string, code int)
	Handler() http.Handler
}

// AskRequest is the body of POST /v1/ask
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is returned by POST /v1/ask
type AskResponse struct {
	RequestID  string            `json:"request_id"`
	SessionID  string            `json:"session_id"`
	Outcome    string            `json:"outcome"`
	Answer     string            `json:"answer"`
	State      workflow.Snapshot `json:"state"`
	Path       []workflow.Node   `json:"path"`
	QueryError string            `json:"query_error,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}
