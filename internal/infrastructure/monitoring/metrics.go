package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Firewall metrics
	ValidationsTotal *prometheus.CounterVec
	RejectionsTotal  *prometheus.CounterVec
	IntentsActive    prometheus.Gauge
	IntentsTotal     prometheus.Counter

	// Executor metrics
	ActionsTotal     *prometheus.CounterVec
	ActionDuration   *prometheus.HistogramVec
	StrategyRank     *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON status endpoint
type Snapshot struct {
	TotalRequests    int64
	TotalErrors      int64
	TotalValidations int64
	TotalRejections  int64
	ActiveIntents    int64
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpilot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webpilot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ValidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpilot_firewall_validations_total",
				Help: "Total number of action validations",
			},
			[]string{"category", "outcome"},
		),
		RejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpilot_firewall_rejections_total",
				Help: "Total number of rejected actions by reason",
			},
			[]string{"code"},
		),
		IntentsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webpilot_firewall_intents_active",
				Help: "Number of tasks with a locked intent",
			},
		),
		IntentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webpilot_firewall_intents_total",
				Help: "Total number of intents locked",
			},
		),

		ActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpilot_executor_actions_total",
				Help: "Total number of executed actions",
			},
			[]string{"verb", "outcome"},
		),
		ActionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webpilot_executor_action_duration_seconds",
				Help:    "Action execution duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"verb"},
		),
		StrategyRank: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webpilot_executor_strategy_rank",
				Help:    "1-based rank of the strategy that realized each action",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7},
			},
			[]string{"verb"},
		),

		ServiceCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpilot_service_calls_total",
				Help: "Total number of service tool calls",
			},
			[]string{"service", "tool", "status"},
		),
		ServiceDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webpilot_service_duration_seconds",
				Help:    "Service tool call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "tool"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webpilot_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordValidation records one firewall decision
func (m *Metrics) RecordValidation(category string, approved bool, code string) {
	outcome := "approved"
	if !approved {
		outcome = "rejected"
		m.RejectionsTotal.WithLabelValues(code).Inc()
	}
	m.ValidationsTotal.WithLabelValues(category, outcome).Inc()

	m.mu.Lock()
	m.snapshot.TotalValidations++
	if !approved {
		m.snapshot.TotalRejections++
	}
	m.mu.Unlock()
}

// RecordAction records an executed action and the strategy rank that won
func (m *Metrics) RecordAction(verb string, success bool, rank int, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.ActionsTotal.WithLabelValues(verb, outcome).Inc()
	m.ActionDuration.WithLabelValues(verb).Observe(duration.Seconds())
	if success && rank > 0 {
		m.StrategyRank.WithLabelValues(verb).Observe(float64(rank))
	}
}

// RecordServiceCall records a service tool call
func (m *Metrics) RecordServiceCall(service, tool, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, tool, status).Inc()
	m.ServiceDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}

// SetIntentsActive sets the number of live intents
func (m *Metrics) SetIntentsActive(count int) {
	m.IntentsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveIntents = int64(count)
	m.mu.Unlock()
}

// IncIntentsTotal increments the locked-intent counter
func (m *Metrics) IncIntentsTotal() {
	m.IntentsTotal.Inc()
}

// GetSnapshot returns current values for the JSON status endpoint
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
