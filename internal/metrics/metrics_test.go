package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TickStarted()
	m.TickStarted()
	m.TickSkipped()
	m.TickDone(0.3, 4)
	m.Refreshed(ResultUpdated)
	m.Refreshed(ResultUpdated)
	m.Refreshed(ResultGuildGone)
	m.Command("time", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicksSkipped))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CachedMessages))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(ResultUpdated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(ResultGuildGone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("time", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TickStarted()
		m.TickSkipped()
		m.TickDone(1, 1)
		m.Refreshed(ResultError)
		m.Command("x", "y")
	})
}
