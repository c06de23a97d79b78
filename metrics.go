package kichwabridge

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records gateway request latency and refresh outcomes. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	requests  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kichwa_gateway_requests",
			Help:    "A histogram of gateway request attempt durations by method and status code.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
		}, []string{"method", "code"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kichwa_gateway_refreshes_total",
			Help: "Credential refresh calls by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeRequest(method string, status int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	if err != nil {
		code = "error"
	}
	m.requests.WithLabelValues(method, code).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}
