package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mira",
		Name:      "extractions_total",
		Help:      "Filter extractions by resulting method",
	}, []string{"method"})

	escalationAdviceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mira",
		Name:      "escalation_advice_total",
		Help:      "Advisory escalation checks by outcome",
	}, []string{"advised"})

	llmRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mira",
		Name:      "llm_requests_total",
		Help:      "LLM requests by operation and outcome (ok, error, parse_error, disabled)",
	}, []string{"operation", "outcome"})

	llmRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mira",
		Name:      "llm_request_duration_seconds",
		Help:      "LLM round-trip latency by operation",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"operation"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mira",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
)

// LLM outcomes
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeParseError = "parse_error"
	OutcomeDisabled   = "disabled"
)

// RecordExtraction counts one finished extraction
func RecordExtraction(method string) {
	extractionsTotal.WithLabelValues(method).Inc()
}

// RecordEscalationAdvice counts one ShouldEscalate verdict
func RecordEscalationAdvice(advised bool) {
	escalationAdviceTotal.WithLabelValues(strconv.FormatBool(advised)).Inc()
}

// RecordLLMRequest counts a model call and observes its latency
func RecordLLMRequest(operation, outcome string, elapsed time.Duration) {
	llmRequestsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeDisabled {
		llmRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// RecordHTTPRequest counts a served request
func RecordHTTPRequest(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
