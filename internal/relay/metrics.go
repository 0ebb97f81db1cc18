package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics publishes relay throughput and session counts. A nil *Metrics is
// valid everywhere it's accepted; Session simply skips instrumentation.
type Metrics struct {
	bytesTransferred prometheus.Counter
	sessionsActive   prometheus.Gauge
	sessionsFinished prometheus.Counter
}

// NewMetrics builds a Metrics and, if reg is non-nil, registers it.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bytesTransferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_bytes_transferred_total",
			Help: "Cumulative bytes relayed across all sessions, counted on the read side only.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relay_sessions_active",
			Help: "Number of relay sessions currently splicing traffic.",
		}),
		sessionsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_sessions_finished_total",
			Help: "Total relay sessions that have stopped, cleanly or on error.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.bytesTransferred, m.sessionsActive, m.sessionsFinished)
	}
	return m
}
