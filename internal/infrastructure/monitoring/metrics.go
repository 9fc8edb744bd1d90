package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jsexec"

// Execution statuses
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Execution metrics
	Executions        *prometheus.CounterVec
	ExecutionDuration prometheus.Histogram
	Rejections        *prometheus.CounterVec
	MemoryUsage       prometheus.Gauge

	startTime time.Time
	snapshot  Snapshot
	mu        sync.RWMutex
}

// Snapshot holds current values for the JSON health endpoint
type Snapshot struct {
	Executions int64   `json:"executions"`
	Failures   int64   `json:"failures"`
	Rejections int64   `json:"rejections"`
	Uptime     float64 `json:"uptime_seconds"`
}

// NewMetrics registers metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),

		Executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of executions by outcome",
			},
			[]string{"status"},
		),
		ExecutionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Execution wall time in seconds",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Requests rejected before execution, by reason",
			},
			[]string{"reason"},
		),
		MemoryUsage: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Heap in use reported by the last successful execution",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordExecution records a finished execution
func (m *Metrics) RecordExecution(status string, duration time.Duration, memory uint64) {
	if m == nil {
		return
	}
	m.Executions.WithLabelValues(status).Inc()
	m.ExecutionDuration.Observe(duration.Seconds())
	if status == StatusSuccess {
		m.MemoryUsage.Set(float64(memory))
	}

	m.mu.Lock()
	m.snapshot.Executions++
	if status != StatusSuccess {
		m.snapshot.Failures++
	}
	m.mu.Unlock()
}

// RecordRejection records a request refused before execution
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()

	m.mu.Lock()
	m.snapshot.Rejections++
	m.mu.Unlock()
}

// Snapshot returns current counters
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.Uptime = time.Since(m.startTime).Seconds()
	return snap
}
