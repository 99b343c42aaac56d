// Package metrics exposes Prometheus collectors for a directory cache.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	hitLabels  = prometheus.Labels{"result": "hit"}
	missLabels = prometheus.Labels{"result": "miss"}
)

// Metrics holds the cache collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups       *prometheus.CounterVec
	adds          prometheus.Counter
	evictions     prometheus.Counter
	evictedSize   prometheus.Counter
	deleteErrors  prometheus.Counter
	entries       prometheus.Gauge
	size          prometheus.Gauge
	portionFilled prometheus.Gauge
}

// New creates the collectors under namespace and registers them with registry.
// A nil registry leaves them unregistered.
func New(namespace string, registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Number of lookups by result",
		}, []string{"result"}),
		adds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adds_total",
			Help:      "Number of directories inserted or re-inserted",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Number of directories evicted",
		}),
		evictedSize: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evicted_size_total",
			Help:      "Accounted size released by evictions",
		}),
		deleteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_errors_total",
			Help:      "Number of evicted directories that could not be fully deleted",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Number of directories in the cache",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "size",
			Help:      "Accounted size of the cache",
		}),
		portionFilled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portion_filled",
			Help:      "Fraction of the capacity currently used",
		}),
	}

	if registry == nil {
		return m, nil
	}

	err := errors.Join(
		registry.Register(m.lookups),
		registry.Register(m.adds),
		registry.Register(m.evictions),
		registry.Register(m.evictedSize),
		registry.Register(m.deleteErrors),
		registry.Register(m.entries),
		registry.Register(m.size),
		registry.Register(m.portionFilled),
	)
	return m, err
}

func (m *Metrics) Lookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.lookups.With(hitLabels).Inc()
	} else {
		m.lookups.With(missLabels).Inc()
	}
}

func (m *Metrics) Added() {
	if m == nil {
		return
	}
	m.adds.Inc()
}

func (m *Metrics) Evicted(size int64, deleteErr error) {
	if m == nil {
		return
	}
	m.evictions.Inc()
	m.evictedSize.Add(float64(size))
	if deleteErr != nil {
		m.deleteErrors.Inc()
	}
}

// Observe records the current shape of the cache.
func (m *Metrics) Observe(entries int, size, capacity int64) {
	if m == nil {
		return
	}
	m.entries.Set(float64(entries))
	m.size.Set(float64(size))
	if capacity > 0 {
		m.portionFilled.Set(float64(size) / float64(capacity))
	}
}
