package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat-turn pipeline.
type ChatMetrics struct {
	turnsTotal     *prometheus.CounterVec
	leadsTotal     prometheus.Counter
	malformedLeads prometheus.Counter
	llmFailures    *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	faqSuggestions *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsbiz",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Completed chat turns by outcome",
		}, []string{"outcome"}),
		leadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whatsbiz",
			Subsystem: "chat",
			Name:      "lead_captures_total",
			Help:      "Lead candidates extracted from bot replies",
		}),
		malformedLeads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "whatsbiz",
			Subsystem: "chat",
			Name:      "malformed_lead_markers_total",
			Help:      "Lead markers present but unparsable as JSON",
		}),
		llmFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsbiz",
			Subsystem: "llm",
			Name:      "failures_total",
			Help:      "Remote model call failures by operation",
		}, []string{"op"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "whatsbiz",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of remote model calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		faqSuggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsbiz",
			Subsystem: "llm",
			Name:      "faq_suggestions_total",
			Help:      "FAQ suggestion calls by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.leadsTotal, m.malformedLeads, m.llmFailures, m.llmLatency, m.faqSuggestions)
	return m
}

func (m *ChatMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveLeadCapture() {
	if m == nil {
		return
	}
	m.leadsTotal.Inc()
}

func (m *ChatMetrics) ObserveMalformedLeadMarker() {
	if m == nil {
		return
	}
	m.malformedLeads.Inc()
}

func (m *ChatMetrics) ObserveLLMFailure(op string) {
	if m == nil {
		return
	}
	m.llmFailures.WithLabelValues(op).Inc()
}

func (m *ChatMetrics) ObserveLLMLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(op).Observe(seconds)
}

func (m *ChatMetrics) ObserveFAQSuggestion(status string) {
	if m == nil {
		return
	}
	m.faqSuggestions.WithLabelValues(status).Inc()
}
