package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeTracked = "tracked"
	outcomeSampled = "sampled"
	outcomeDropped = "dropped"
	outcomeFailed  = "failed"
)

type Metrics struct {
	Events      *prometheus.CounterVec
	BreakerOpen prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Events: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certhub_audit_ops_events_total",
			Help: "Editing activity events by outcome (tracked, sampled, dropped, failed)",
		}, []string{"outcome"}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "certhub_audit_ops_breaker_open",
			Help: "1 while the ops audit store breaker is open",
		}),
	}
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setBreaker(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
