package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry. All methods are safe on a nil
// receiver so instrumentation can be left out in tests.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sourceDuration  *prometheus.HistogramVec
	examsCreated    prometheus.Counter
	submissions     prometheus.Counter
	logins          *prometheus.CounterVec
	registrations   *prometheus.CounterVec
}

// NewMetricsService registers the application collectors.
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

	sourceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "question_source_duration_seconds",
		Help:    "Duration of question source calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})

	examsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exams_created_total",
		Help: "Total exams created",
	})

	submissions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exam_submissions_total",
		Help: "Total exam submissions acknowledged",
	})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by role and outcome",
	}, []string{"role", "outcome"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Accounts registered by role",
	}, []string{"role"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sourceDuration, examsCreated, submissions, logins, registrations, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sourceDuration:  sourceDuration,
		examsCreated:    examsCreated,
		submissions:     submissions,
		logins:          logins,
		registrations:   registrations,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request count and latency.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveQuestionSource records one question source call.
func (m *MetricsService) ObserveQuestionSource(ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.sourceDuration.WithLabelValues(outcome(ok)).Observe(duration.Seconds())
}

func (m *MetricsService) RecordExamCreated() {
	if m == nil {
		return
	}
	m.examsCreated.Inc()
}

func (m *MetricsService) RecordSubmission() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

func (m *MetricsService) RecordLogin(role model.Role, ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(string(role), outcome(ok)).Inc()
}

func (m *MetricsService) RecordRegistration(role model.Role) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(string(role)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
