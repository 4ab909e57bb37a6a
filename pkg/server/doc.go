// Package server exposes the question answering workflow over HTTP.
//
// Routes:
//
//	POST /v1/ask    {"question": "..."} answers one question
//	GET  /health    liveness
//	GET  /metrics   Prometheus metrics, when configured
package server
