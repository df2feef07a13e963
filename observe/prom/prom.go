// Package prom exports sibling counter events as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements sibling.Hooks. One Metrics value may be shared by many
// counters; the gauge then reports the total across all of them.
type Metrics struct {
	active   prometheus.Gauge
	added    prometheus.Counter
	removed  prometheus.Counter
	leaked   prometheus.Counter
	released prometheus.Counter
}

// New registers the sibling metrics with reg under namespace. A nil reg
// creates unregistered collectors. It panics if the metrics are already
// registered with reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "siblings_active",
			Help:      "Number of live sibling tokens.",
		}),
		added: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "siblings_added_total",
			Help:      "Sibling tokens minted.",
		}),
		removed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "siblings_removed_total",
			Help:      "Sibling tokens closed.",
		}),
		leaked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "siblings_leaked_total",
			Help:      "Sibling tokens released by the garbage collector without Close.",
		}),
		released: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sibling_states_released_total",
			Help:      "Shared counter states released after their last handle.",
		}),
	}
}

// SiblingAdded increments active and added.
func (m *Metrics) SiblingAdded(int) {
	m.active.Inc()
	m.added.Inc()
}

// SiblingRemoved decrements active and increments removed.
func (m *Metrics) SiblingRemoved(int) {
	m.active.Dec()
	m.removed.Inc()
}

// SiblingLeaked decrements active and increments leaked.
func (m *Metrics) SiblingLeaked(int) {
	m.active.Dec()
	m.leaked.Inc()
}

// Released records a shared state losing its last handle.
func (m *Metrics) Released() {
	m.released.Inc()
}
