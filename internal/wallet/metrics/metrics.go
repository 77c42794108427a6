package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the wallet registry.
type Metrics struct {
	// Registrations written, including overwrites
	Registrations prometheus.Counter

	// Lookups by result: "hit", "miss", "error"
	Lookups *prometheus.CounterVec

	// Store latency by operation: "save", "find"
	StoreLatency *prometheus.HistogramVec
}

// New creates wallet metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates wallet metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "flowmint_wallet_registrations_total",
			Help: "Total number of wallet role registrations, including overwrites",
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmint_wallet_lookups_total",
			Help: "Total wallet role lookups by result",
		}, []string{"result"}),
		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowmint_wallet_store_duration_seconds",
			Help:    "Duration of registry store operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	if m != nil {
		m.Registrations.Inc()
	}
}

func (m *Metrics) IncrementLookup(result string) {
	if m != nil {
		m.Lookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveStoreLatency(operation string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
