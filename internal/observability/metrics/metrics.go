package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for the webhook relay.
type RelayMetrics struct {
	inboundTotal      *prometheus.CounterVec
	repliesTotal      *prometheus.CounterVec
	webhookLatency    *prometheus.HistogramVec
	completionLatency prometheus.Histogram
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound LINE webhook requests",
		}, []string{"status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "relay",
			Name:      "replies_total",
			Help:      "Total reply attempts",
		}, []string{"strategy", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of LINE webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "relay",
			Name:      "completion_latency_seconds",
			Help:      "Latency of model completion calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.webhookLatency, m.completionLatency)
	return m
}

func (m *RelayMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *RelayMetrics) ObserveReply(strategy, status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(strategy, status).Inc()
}

func (m *RelayMetrics) ObserveWebhookLatency(status string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(status).Observe(seconds)
}

func (m *RelayMetrics) ObserveCompletionLatency(seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.Observe(seconds)
}
