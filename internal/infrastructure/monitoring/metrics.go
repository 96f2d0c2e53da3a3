package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Every instance owns its registry so
// that tests and multiple servers in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window kernel metrics
	WindowsOpen      prometheus.Gauge
	WindowOperations *prometheus.CounterVec

	// Intent metrics
	Intents *prometheus.CounterVec

	// Translator metrics
	TranslatorCalls    *prometheus.CounterVec
	TranslatorDuration *prometheus.HistogramVec

	// File system metrics
	TreeProjections prometheus.Counter
	TreeNodes       prometheus.Histogram
	NodesOmitted    prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON health API
type Snapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	OpenWindows     int64   `json:"open_windows"`
	IntentsRejected int64   `json:"intents_rejected"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nexus_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_window_operations_total",
				Help: "Window kernel operations by kind",
			},
			[]string{"op"},
		),

		Intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_intents_total",
				Help: "Dispatched intents by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		TranslatorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_translator_calls_total",
				Help: "Translator calls by mode and status",
			},
			[]string{"mode", "status"},
		),
		TranslatorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_translator_duration_seconds",
				Help:    "Translator call duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mode"},
		),

		TreeProjections: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_tree_projections_total",
				Help: "Total number of file system tree projections",
			},
		),
		TreeNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nexus_tree_nodes",
				Help:    "Flat node count per projection",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		NodesOmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_tree_nodes_omitted_total",
				Help: "Nodes dropped from projections as unreachable or cyclic",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nexus_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "nexus_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry backing this collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordWindowOp records one applied window kernel operation
func (m *Metrics) RecordWindowOp(op string, open int) {
	if m == nil {
		return
	}
	m.WindowOperations.WithLabelValues(op).Inc()
	m.WindowsOpen.Set(float64(open))

	m.mu.Lock()
	m.snapshot.OpenWindows = int64(open)
	m.mu.Unlock()
}

// RecordIntent records a dispatched intent
func (m *Metrics) RecordIntent(kind, outcome string) {
	if m == nil {
		return
	}
	m.Intents.WithLabelValues(kind, outcome).Inc()
	if outcome == "rejected" {
		m.mu.Lock()
		m.snapshot.IntentsRejected++
		m.mu.Unlock()
	}
}

// RecordTranslatorCall records a translator round trip
func (m *Metrics) RecordTranslatorCall(mode, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.TranslatorCalls.WithLabelValues(mode, status).Inc()
	m.TranslatorDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordProjection records a tree projection over total flat nodes
func (m *Metrics) RecordProjection(total, omitted int) {
	if m == nil {
		return
	}
	m.TreeProjections.Inc()
	m.TreeNodes.Observe(float64(total))
	m.NodesOmitted.Add(float64(omitted))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// Snapshot returns the current JSON-friendly metric values
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
