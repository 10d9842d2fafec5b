// Package metrics registers and serves the application's Prometheus
// instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	httpInFlight      prometheus.Gauge

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	wsClients prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry, with the Go and
// process collectors included.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_http_requests_total",
			Help: "Total number of HTTP requests completed.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ats_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ats_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ats_db_query_duration_seconds",
			Help:    "Duration of document store operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_db_query_errors_total",
			Help: "Total number of failed document store operations.",
		}, []string{"collection", "operation"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ats_ws_connected_clients",
			Help: "Number of currently connected websocket clients.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.httpInFlight,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.wsClients,
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware instruments every request with count, duration and in-flight
// gauges, labelled by the chi route pattern to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveDBQuery records one document store round-trip.
func (m *Metrics) ObserveDBQuery(collection, operation string, d time.Duration, failed bool) {
	m.dbQueryDuration.WithLabelValues(collection, operation).Observe(d.Seconds())
	if failed {
		m.dbQueryErrors.WithLabelValues(collection, operation).Inc()
	}
}

func (m *Metrics) WSClientConnected()    { m.wsClients.Inc() }
func (m *Metrics) WSClientDisconnected() { m.wsClients.Dec() }
