// Package metrics exposes store activity as Prometheus metrics on a
// private registry.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "purse"

// Metrics implements store.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	mutations    *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
	accounts     prometheus.Gauge
}

// New registers the purse collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Store operations by kind and outcome.",
		}, []string{"op", "result"}),
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Wall time of store operations including persistence.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"op"}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Accounts in the committed collection.",
		}),
	}
	m.registry.MustRegister(m.mutations, m.saveDuration, m.accounts)
	return m
}

// Registry returns the private registry, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveMutation counts one store call.
func (m *Metrics) ObserveMutation(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(op, result).Inc()
	m.saveDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveAccounts sets the collection size gauge.
func (m *Metrics) ObserveAccounts(count int) {
	m.accounts.Set(float64(count))
}

// WriteText writes every gathered family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
