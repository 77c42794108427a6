package guarded

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks a guarded audit sink.
type Metrics struct {
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
	CircuitState    prometheus.Gauge
}

// NewMetrics registers sink metrics on reg, labelled with the sink name.
func NewMetrics(reg prometheus.Registerer, sink string) *Metrics {
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"sink": sink}, reg))
	return &Metrics{
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "flowmint_audit_circuit_dropped_total",
			Help: "Audit events dropped because the sink circuit was open",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "flowmint_audit_persist_failures_total",
			Help: "Audit events the sink failed to persist",
		}),
		CircuitState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flowmint_audit_circuit_state",
			Help: "Sink circuit state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) SetCircuitState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitState.Set(1)
	} else {
		m.CircuitState.Set(0)
	}
}
