package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds HTTP-level Prometheus metrics for the application.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers metrics on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowmint_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and method",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmint_http_requests_total",
			Help: "Total HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flowmint_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
	}
}

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.InFlight.Dec()
	}
}
