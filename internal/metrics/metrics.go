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

const namespace = "quiz"

// Исходы отправки теста
const (
	SubmissionAccepted  = "accepted"
	SubmissionDuplicate = "duplicate"
	SubmissionRejected  = "rejected"
	SubmissionFailed    = "failed"
)

// Metrics хранит метрики Prometheus сервера
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	Submissions      *prometheus.CounterVec
	CatalogTests     *prometheus.GaugeVec
	SubmitLocks      prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics регистрирует метрики в reg.
// Каждому экземпляру нужен свой реестр, иначе регистрация паникует.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Test submissions by outcome",
			},
			[]string{"outcome"},
		),
		CatalogTests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_tests",
				Help:      "Number of tests per category",
			},
			[]string{"category"},
		),
		SubmitLocks: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "submit_guard_locks",
				Help:      "Submission locks held by the in-memory guard",
			},
		),
		gatherer: reg,
	}
}

// NewProcessRegistry создаёт реестр с метриками рантайма Go и процесса.
func NewProcessRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler отдаёт метрики в текстовом формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest учитывает один обработанный HTTP-запрос.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordSubmission учитывает исход отправки теста.
func (m *Metrics) RecordSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// RecordCatalog выставляет число тестов по категориям.
func (m *Metrics) RecordCatalog(testsByCategory map[string]int) {
	m.CatalogTests.Reset()
	for category, count := range testsByCategory {
		m.CatalogTests.WithLabelValues(category).Set(float64(count))
	}
}
