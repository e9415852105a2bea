package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "course_ui"

// Metrics содержит счетчики обращений к API и входящих запросов
type Metrics struct {
	registry *prometheus.Registry

	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BackendUp       prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	AuditPublished  *prometheus.CounterVec
}

// New регистрирует метрики в собственном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BackendRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Calls to the backend API by operation and response status.",
		}, []string{"operation", "status"}),
		BackendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		BackendUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_up",
			Help:      "1 if the last backend probe reached the API.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Incoming page requests by method and status.",
		}, []string{"method", "status"}),
		AuditPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Audit events by type and publish result.",
		}, []string{"type", "result"}),
	}
}

// ObserveBackend учитывает один вызов API. status == 0 означает транспортную ошибку
func (m *Metrics) ObserveBackend(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.BackendRequests.WithLabelValues(operation, label).Inc()
	m.BackendDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP учитывает входящий запрос
func (m *Metrics) ObserveHTTP(method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveAudit учитывает результат публикации события
func (m *Metrics) ObserveAudit(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.AuditPublished.WithLabelValues(eventType, result).Inc()
}

// SetBackendUp выставляет состояние последней проверки API
func (m *Metrics) SetBackendUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.BackendUp.Set(1)
		return
	}
	m.BackendUp.Set(0)
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
