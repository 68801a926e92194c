package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Section(3)
	m.Section(3)
	m.Locale("es")
	m.Toggle("Residential")
	m.Live(4)
	m.Scroll("changed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SectionTransitions.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LocaleSwitches.WithLabelValues("es")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetailToggles.WithLabelValues("Residential")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.LiveSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aire_web_section_transitions_total"])
	assert.True(t, names["aire_web_scroll_observations_total"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	l, err := NewLogger("chatty")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
	assert.False(t, l.Core().Enabled(-1))
}
