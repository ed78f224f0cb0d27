package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the chat assistant and
// booking flows.
type AssistantMetrics struct {
	repliesTotal   *prometheus.CounterVec
	replyLatency   *prometheus.HistogramVec
	bookingsTotal  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultorio",
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Total assistant replies by routed intent",
		}, []string{"intent"}),
		replyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "consultorio",
			Subsystem: "assistant",
			Name:      "reply_latency_seconds",
			Help:      "Latency of assistant reply composition",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultorio",
			Subsystem: "bookings",
			Name:      "total",
			Help:      "Total booking attempts by outcome",
		}, []string{"status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "consultorio",
			Subsystem: "webchat",
			Name:      "active_sessions",
			Help:      "Currently connected webchat sessions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.repliesTotal, m.replyLatency, m.bookingsTotal, m.activeSessions)
	return m
}

func (m *AssistantMetrics) ObserveReply(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(intent).Inc()
	m.replyLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *AssistantMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *AssistantMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *AssistantMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
