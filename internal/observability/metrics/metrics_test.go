package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		return sumFamily(mf)
	}
	return 0
}

func sumFamily(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		if c := m.GetCounter(); c != nil {
			total += c.GetValue()
		}
		if h := m.GetHistogram(); h != nil {
			total += float64(h.GetSampleCount())
		}
	}
	return total
}

func TestChatMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("ok")
	m.ObserveTurn("ok")
	m.ObserveTurn("fallback")
	m.ObserveLeadCapture()
	m.ObserveMalformedLeadMarker()
	m.ObserveLLMFailure("reply")
	m.ObserveLLMLatency("reply", 0.42)
	m.ObserveFAQSuggestion("unparsable")

	assert.Equal(t, 3.0, gatherValue(t, reg, "whatsbiz_chat_turns_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "whatsbiz_chat_lead_captures_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "whatsbiz_chat_malformed_lead_markers_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "whatsbiz_llm_failures_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "whatsbiz_llm_latency_seconds"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "whatsbiz_llm_faq_suggestions_total"))
}

func TestChatMetrics_NilSafe(t *testing.T) {
	var m *ChatMetrics

	// All observers must be safe to call on a nil receiver.
	m.ObserveTurn("ok")
	m.ObserveLeadCapture()
	m.ObserveMalformedLeadMarker()
	m.ObserveLLMFailure("reply")
	m.ObserveLLMLatency("reply", 0.1)
	m.ObserveFAQSuggestion("ok")
}
