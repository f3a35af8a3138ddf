package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/animation-service/internal/domain"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	AuthDecisions   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers all collectors with a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animation_service",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "animation_service",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animation_service",
				Name:      "http_errors_total",
				Help:      "Error responses by route, method and error code",
			},
			[]string{"route", "method", "code"},
		),
		AuthDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animation_service",
				Name:      "auth_decisions_total",
				Help:      "Request gate decisions by capability and outcome",
			},
			[]string{"capability", "outcome"},
		),
		gatherer: reg,
	}
}

// RecordRequest counts a handled request and observes its latency.
func (m *Metrics) RecordRequest(route, method string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(latency.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(route, method, code).Inc()
}

// RecordAuthDecision counts gate outcomes per capability. Denials are
// labelled with their reason.
func (m *Metrics) RecordAuthDecision(capability domain.Capability, decision domain.AuthorizationDecision) {
	if m == nil {
		return
	}
	m.AuthDecisions.WithLabelValues(string(capability), DecisionOutcome(decision)).Inc()
}

// DecisionOutcome is the outcome label used for a gate decision.
func DecisionOutcome(decision domain.AuthorizationDecision) string {
	if decision.Allowed {
		return "allowed"
	}
	return string(decision.Reason)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
