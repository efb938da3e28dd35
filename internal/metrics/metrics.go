// Package metrics provides Prometheus instruments for the people store.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded on store operations.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the store and import instruments.
type Metrics struct {
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	UsersImported   prometheus.Counter
	ImportSkipped   prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the instruments and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "people_store_operations_total",
			Help: "Total number of store operations by operation and outcome",
		}, []string{"op", "outcome"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "people_store_operation_duration_seconds",
			Help:    "Duration of store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
		UsersImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "people_users_imported_total",
			Help: "Total number of users stored by dataset imports",
		}),
		ImportSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "people_import_skipped_total",
			Help: "Total number of dataset entries skipped as invalid",
		}),
		gatherer: reg,
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return reg
}

// ObserveStore records one store operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStore(op string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.StoreOperations.WithLabelValues(op, outcome).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddImported records users stored by an import.
func (m *Metrics) AddImported(n int) {
	m.UsersImported.Add(float64(n))
}

// AddSkipped records entries skipped by an import.
func (m *Metrics) AddSkipped(n int) {
	m.ImportSkipped.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
