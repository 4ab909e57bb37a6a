package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harun/retailx/internal/tracing"
	"github.com/harun/retailx/pkg/workflow"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Seconds(),
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	requestID := tracing.GetRequestID(r.Context())
	logger := tracing.LoggerFromContext(r.Context(), s.logger)

	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		writeError(w, requestID, http.StatusServiceUnavailable, "server is shutting down")
		return
	}
	s.inFlightReqs.Add(1)
	s.shutdownMu.RUnlock()
	defer s.inFlightReqs.Done()

	ip := s.clientIP(r)
	if !s.rateLimiter.Allow(ip) {
		retryAfter := s.rateLimiter.RetryAfter(ip)
		logger.Warn().Str("ip", ip).Int("retry_after", retryAfter).Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		writeError(w, requestID, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, requestID, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, requestID, http.StatusBadRequest, workflow.ErrEmptyQuestion.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.options.RequestTimeout)
	defer cancel()

	result, err := s.asker.Run(ctx, req.Question)
	if err != nil {
		status := statusFor(err)
		logger.Error().Err(err).Int("status", status).Msg("Question failed")
		writeError(w, requestID, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		RequestID:  requestID,
		SessionID:  result.SessionID,
		Outcome:    result.Outcome,
		Answer:     result.Answer,
		State:      result.State,
		Path:       result.Path,
		QueryError: result.QueryError,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// statusFor maps workflow errors to HTTP status codes
func statusFor(err error) int {
	var stepErr *workflow.StepError
	switch {
	case errors.Is(err, workflow.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &stepErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, requestID string, status int, msg string) {
	writeJSON(w, status, ErrorResponse{RequestID: requestID, Error: msg})
}
