package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "colabri"

// Metrics bundles every collector the service exports. All methods are safe
// on a nil receiver so components can run without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry

	ItemsCreated prometheus.Counter

	WebSocketSessions prometheus.Counter
	WebSocketActive   prometheus.Gauge
	WebSocketEchoed   prometheus.Counter
	WebSocketRejected *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ItemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "items",
			Name:      "created_total",
			Help:      "Total number of items created.",
		}),
		WebSocketSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "sessions_total",
			Help:      "Total number of WebSocket sessions opened.",
		}),
		WebSocketActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_sessions",
			Help:      "Number of WebSocket sessions currently open.",
		}),
		WebSocketEchoed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_echoed_total",
			Help:      "Total number of text frames echoed back to clients.",
		}),
		WebSocketRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "frames_rejected_total",
			Help:      "Frames that terminated a session, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.ItemsCreated, m.WebSocketSessions, m.WebSocketActive, m.WebSocketEchoed, m.WebSocketRejected)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ItemCreated() {
	if m == nil {
		return
	}
	m.ItemsCreated.Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.WebSocketSessions.Inc()
	m.WebSocketActive.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.WebSocketActive.Dec()
}

func (m *Metrics) MessageEchoed() {
	if m == nil {
		return
	}
	m.WebSocketEchoed.Inc()
}

// FrameRejected records why a frame ended a session ("binary", "too_large").
func (m *Metrics) FrameRejected(reason string) {
	if m == nil {
		return
	}
	m.WebSocketRejected.WithLabelValues(reason).Inc()
}
