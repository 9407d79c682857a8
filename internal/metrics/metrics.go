// Package metrics counts and times outbound CCB API calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ccb_api_calls_total.
const (
	OutcomeOK          = "ok"
	OutcomeTransport   = "transport_error"
	OutcomeParse       = "parse_error"
	OutcomeDomainError = "domain_error"
)

type Metrics struct {
	Registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ccb_api_calls_total",
			Help: "Outbound CCB API calls by service and outcome.",
		}, []string{"service", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ccb_api_call_duration_seconds",
			Help:    "Latency of outbound CCB API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}
	m.Registry.MustRegister(m.calls, m.duration)
	return m
}

// ObserveCall records one call. A nil receiver is a no-op.
func (m *Metrics) ObserveCall(service, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(service, outcome).Inc()
	m.duration.WithLabelValues(service).Observe(d.Seconds())
}

// Calls exposes the counter for tests and ad-hoc reporting.
func (m *Metrics) Calls(service, outcome string) prometheus.Counter {
	return m.calls.WithLabelValues(service, outcome)
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
