// internal/app/system/metrics/metrics.go

// Package metrics exposes Prometheus counters for the engine's writes and
// for HTTP traffic. Each Metrics owns its registry, so tests and multiple
// app instances never collide on the default one.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const namespace = "cleanupcrew"

// Metrics satisfies volunteer.Auditor so it can observe every successful
// engine write alongside the audit log.
type Metrics struct {
	reg *prometheus.Registry

	eventsCreated prometheus.Counter
	registrations prometheus.Counter
	confirmations prometheus.Counter

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Metrics with its own registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Cleanup events created.",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "New volunteer registrations. Repeat registrations are not counted.",
		}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_confirmations_total",
			Help:      "First-time attendance confirmations.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.eventsCreated, m.registrations, m.confirmations,
		m.requests, m.duration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) EventCreated(context.Context, *models.Event) { m.eventsCreated.Inc() }

func (m *Metrics) Registered(context.Context, primitive.ObjectID, primitive.ObjectID) {
	m.registrations.Inc()
}

func (m *Metrics) AttendanceConfirmed(context.Context, primitive.ObjectID, primitive.ObjectID) {
	m.confirmations.Inc()
}

// Middleware counts requests by chi route pattern. Unmatched paths are
// labeled "unmatched" so arbitrary URLs cannot grow the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
