package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	pricedServices *prometheus.CounterVec
	advisorCalls   *prometheus.CounterVec
	monthlyCost    prometheus.Histogram
}

// NewMetrics creates collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudcart_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudcart_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		pricedServices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudcart_priced_services_total",
			Help: "Line items priced by service type",
		}, []string{"type"}),
		advisorCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudcart_advisor_requests_total",
			Help: "Advisory operations by outcome",
		}, []string{"operation", "outcome"}),
		monthlyCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cloudcart_estimated_monthly_cost_dollars",
			Help:    "Distribution of estimated monthly cart totals",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.pricedServices,
		m.advisorCalls,
		m.monthlyCost,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeReport(types []string, monthly float64) {
	for _, t := range types {
		m.pricedServices.WithLabelValues(t).Inc()
	}
	m.monthlyCost.Observe(monthly)
}

func (m *Metrics) observeAdvisor(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.advisorCalls.WithLabelValues(operation, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency for a named route
func (m *Metrics) instrument(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r, ps)

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
