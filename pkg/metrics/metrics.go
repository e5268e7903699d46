// Package metrics expone contadores Prometheus de la API (HTTP y movimientos de stock).
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics colección de métricas con su propio registry (permite instancias aisladas en tests).
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	MovementsTotal      *prometheus.CounterVec
	BelowMinimumTotal   prometheus.Counter
}

// New crea y registra las métricas bajo el namespace "mercado".
func New(subsystem string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mercado",
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mercado",
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		MovementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mercado",
			Subsystem: subsystem,
			Name:      "stock_movements_total",
			Help:      "Committed stock movements by kind",
		}, []string{"kind"}),
		BelowMinimumTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mercado",
			Subsystem: subsystem,
			Name:      "stock_below_minimum_total",
			Help:      "Movements that left the product below its minimum threshold",
		}),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.MovementsTotal,
		m.BelowMinimumTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest registra una petición terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveMovement registra un movimiento confirmado.
func (m *Metrics) ObserveMovement(kind string, belowMinimum bool) {
	m.MovementsTotal.WithLabelValues(kind).Inc()
	if belowMinimum {
		m.BelowMinimumTotal.Inc()
	}
}

// Handler devuelve el handler HTTP de exposición (formato texto de Prometheus).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
