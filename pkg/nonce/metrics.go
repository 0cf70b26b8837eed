package nonce

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for nonce lifecycle events.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Issued   prometheus.Counter
	Verified *prometheus.CounterVec
	Consumed prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "nonce",
			Name:      "issued_total",
			Help:      "Number of nonces issued.",
		}),
		Verified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "nonce",
			Name:      "verified_total",
			Help:      "Number of nonce verifications by result.",
		}, []string{"result"}),
		Consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Subsystem: "nonce",
			Name:      "consumed_total",
			Help:      "Number of nonces consumed.",
		}),
	}
	reg.MustRegister(m.Issued, m.Verified, m.Consumed)
	return m
}

func (m *Metrics) issued() {
	if m == nil {
		return
	}
	m.Issued.Inc()
}

func (m *Metrics) verified(reason Reason) {
	if m == nil {
		return
	}
	result := "valid"
	if reason != "" {
		result = string(reason)
	}
	m.Verified.WithLabelValues(result).Inc()
}

func (m *Metrics) consumed() {
	if m == nil {
		return
	}
	m.Consumed.Inc()
}
