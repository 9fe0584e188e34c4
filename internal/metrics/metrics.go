// Package metrics defines the bot's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timezone_bot"

// Refresh outcomes per guild.
const (
	ResultUpdated      = "updated"
	ResultError        = "error"
	ResultNoPermission = "no_permission"
	ResultGuildGone    = "guild_gone"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Ticks          prometheus.Counter
	TicksSkipped   prometheus.Counter
	TickDuration   prometheus.Histogram
	Refreshes      *prometheus.CounterVec
	CachedMessages prometheus.Gauge
	Commands       *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "ticks_total",
			Help:      "Refresh ticks started.",
		}),
		TicksSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "ticks_skipped_total",
			Help:      "Refresh ticks skipped because the previous tick was still running.",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "tick_duration_seconds",
			Help:      "Time spent processing one refresh tick.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "guilds_total",
			Help:      "Per-guild refresh outcomes.",
		}, []string{"result"}),
		CachedMessages: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "time_messages",
			Help:      "Persistent time messages currently cached.",
		}),
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Handled commands by name and outcome.",
		}, []string{"command", "result"}),
	}
}

// TickStarted counts a tick.
func (m *Metrics) TickStarted() {
	if m != nil {
		m.Ticks.Inc()
	}
}

// TickSkipped counts a skipped tick.
func (m *Metrics) TickSkipped() {
	if m != nil {
		m.TicksSkipped.Inc()
	}
}

// TickDone records a tick's duration and the cache size after it.
func (m *Metrics) TickDone(seconds float64, cached int) {
	if m != nil {
		m.TickDuration.Observe(seconds)
		m.CachedMessages.Set(float64(cached))
	}
}

// Refreshed counts one guild's refresh outcome.
func (m *Metrics) Refreshed(result string) {
	if m != nil {
		m.Refreshes.WithLabelValues(result).Inc()
	}
}

// Command counts one handled command.
func (m *Metrics) Command(name, result string) {
	if m != nil {
		m.Commands.WithLabelValues(name, result).Inc()
	}
}
