package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for weather requests.
const (
	outcomeOK       = "ok"
	outcomeError    = "upstream_error"
	outcomeTimeout  = "upstream_timeout"
	outcomeCanceled = "client_gone"
)

type metrics struct {
	requests        *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	inFlight        prometheus.Gauge
}

// newMetrics registers gateway collectors on reg. A registry per server keeps
// parallel tests and multiple servers in one process independent.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "breeze_gateway_requests_total",
			Help: "Weather stream requests by outcome",
		}, []string{"outcome"}),
		upstreamLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "breeze_gateway_upstream_latency_seconds",
			Help:    "Latency of upstream weather lookups in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "breeze_gateway_streams_in_flight",
			Help: "Weather streams currently open",
		}),
	}
}

func (m *metrics) observe(outcome string, latency time.Duration) {
	m.requests.WithLabelValues(outcome).Inc()
	m.upstreamLatency.Observe(latency.Seconds())
}
