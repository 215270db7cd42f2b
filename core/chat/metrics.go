package chat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects dispatcher counters. A nil *Metrics records nothing.
type Metrics struct {
	turns    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewMetrics registers the dispatcher collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bankchat",
			Name:      "turns_total",
			Help:      "Chat turns by handling rule and outcome.",
		}, []string{"rule", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bankchat",
			Name:      "turn_duration_seconds",
			Help:      "Time spent handling a chat turn, remote calls included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"rule"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bankchat",
			Name:      "provider_logins_total",
			Help:      "Provider login submissions by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeTurn(rule, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(rule, outcome).Inc()
	m.duration.WithLabelValues(rule).Observe(d.Seconds())
}

func (m *Metrics) observeLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}
