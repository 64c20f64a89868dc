package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// layer and the scheduling pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	lessonsScheduled prometheus.Counter
	lessonsSkipped   *prometheus.CounterVec
	solverPolls      prometheus.Counter
	uploadsTotal     prometheus.Counter
}

// NewMetricsService registers the collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	lessonsScheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessons_scheduled_total",
		Help: "Lessons persisted after passing all hard constraints",
	})

	lessonsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lessons_skipped_total",
		Help: "Lessons rejected by the persistence filter, by reason",
	}, []string{"reason"})

	solverPolls := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solver_polls_total",
		Help: "Status polls issued against the external solver",
	})

	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workbook_uploads_total",
		Help: "Workbooks accepted for import",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		lessonsScheduled, lessonsSkipped, solverPolls, uploadsTotal, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		lessonsScheduled: lessonsScheduled,
		lessonsSkipped:   lessonsSkipped,
		solverPolls:      solverPolls,
		uploadsTotal:     uploadsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request duration and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup counts enriched-schedule cache hits and misses.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordPersisted counts lessons accepted by the persistence filter.
func (m *MetricsService) RecordPersisted(count int) {
	if m == nil {
		return
	}
	m.lessonsScheduled.Add(float64(count))
}

// RecordSkipped counts a rejected lesson by skip reason.
func (m *MetricsService) RecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.lessonsSkipped.WithLabelValues(reason).Inc()
}

// RecordSolverPoll counts one status poll.
func (m *MetricsService) RecordSolverPoll() {
	if m == nil {
		return
	}
	m.solverPolls.Inc()
}

// RecordUpload counts one accepted workbook.
func (m *MetricsService) RecordUpload() {
	if m == nil {
		return
	}
	m.uploadsTotal.Inc()
}
