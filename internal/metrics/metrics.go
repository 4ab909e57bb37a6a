package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Metrics holds all Prometheus metrics for the application. It implements
// workflow.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// Workflow metrics
	WorkflowRunsTotal       *prometheus.CounterVec
	WorkflowRunDuration     prometheus.Histogram
	WorkflowNodeVisitsTotal *prometheus.CounterVec

	// Model metrics
	LLMCallsTotal   *prometheus.CounterVec
	LLMCallDuration *prometheus.HistogramVec

	// Dataset metrics
	QueryExecutionsTotal *prometheus.CounterVec

	FeasibilityParseFailuresTotal prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		WorkflowRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workflow_runs_total",
				Help: "Total number of workflow runs by outcome",
			},
			[]string{"outcome"},
		),
		WorkflowRunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "workflow_run_duration_seconds",
				Help:    "Duration of workflow runs in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
		),
		WorkflowNodeVisitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workflow_node_visits_total",
				Help: "Total number of completed node visits",
			},
			[]string{"node"},
		),

		LLMCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_calls_total",
				Help: "Total number of model calls",
			},
			[]string{"node", "status"},
		),
		LLMCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_call_duration_seconds",
				Help:    "Duration of model calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"node"},
		),

		QueryExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_executions_total",
				Help: "Total number of generated query executions",
			},
			[]string{"status"},
		),

		FeasibilityParseFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "feasibility_parse_failures_total",
				Help: "Total number of feasibility verdicts that failed to parse",
			},
		),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
	}

	m.registerMetrics()

	return m
}

func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.WorkflowRunsTotal)
	m.registry.MustRegister(m.WorkflowRunDuration)
	m.registry.MustRegister(m.WorkflowNodeVisitsTotal)

	m.registry.MustRegister(m.LLMCallsTotal)
	m.registry.MustRegister(m.LLMCallDuration)

	m.registry.MustRegister(m.QueryExecutionsTotal)
	m.registry.MustRegister(m.FeasibilityParseFailuresTotal)

	m.registry.MustRegister(m.HTTPRequestsTotal)
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusOK
}

// NodeCompleted records a node visit. Failed visits are not counted.
func (m *Metrics) NodeCompleted(node string, _ time.Duration, err error) {
	if err == nil {
		m.WorkflowNodeVisitsTotal.WithLabelValues(node).Inc()
	}
}

// ModelCalled records one model call made by node
func (m *Metrics) ModelCalled(node string, d time.Duration, err error) {
	m.LLMCallsTotal.WithLabelValues(node, status(err)).Inc()
	m.LLMCallDuration.WithLabelValues(node).Observe(d.Seconds())
}

// QueryExecuted records one query execution
func (m *Metrics) QueryExecuted(_ time.Duration, err error) {
	m.QueryExecutionsTotal.WithLabelValues(status(err)).Inc()
}

// VerdictFallback records a feasibility output that fell back to refusal
func (m *Metrics) VerdictFallback() {
	m.FeasibilityParseFailuresTotal.Inc()
}

// RunCompleted records a finished run
func (m *Metrics) RunCompleted(outcome string, d time.Duration) {
	m.WorkflowRunsTotal.WithLabelValues(outcome).Inc()
	m.WorkflowRunDuration.Observe(d.Seconds())
}

// HTTPRequest records a served request
func (m *Metrics) HTTPRequest(route string, code int) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
