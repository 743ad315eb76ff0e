// Package metrics exposes Prometheus instrumentation for the maintenance service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fleet_maintenance"

// Metrics holds every collector the service reports.
type Metrics struct {
	registry *prometheus.Registry

	ReadingsRecorded   *prometheus.CounterVec
	ServicesCompleted  prometheus.Counter
	ForecastsEvaluated prometheus.Counter
	ForecastDuration   prometheus.Histogram
	ItemsByStatus      *prometheus.GaugeVec
	IngestDropped      *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		ReadingsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_recorded_total",
			Help:      "Odometer readings recorded, by origin.",
		}, []string{"origin"}),
		ServicesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "services_completed_total",
			Help:      "Services marked as performed.",
		}),
		ForecastsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_evaluated_total",
			Help:      "Vehicle forecasts evaluated.",
		}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      "Time to load and evaluate a vehicle forecast.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ItemsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_by_status",
			Help:      "Items per status in the most recent forecast of each vehicle.",
		}, []string{"vehicle_id", "status"}),
		IngestDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_dropped_total",
			Help:      "Telemetry messages dropped, by reason.",
		}, []string{"reason"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}

	registry.MustRegister(
		m.ReadingsRecorded,
		m.ServicesCompleted,
		m.ForecastsEvaluated,
		m.ForecastDuration,
		m.ItemsByStatus,
		m.IngestDropped,
		m.HTTPRequests,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// InstrumentHandler counts requests served by next.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.HTTPRequests, next)
}
