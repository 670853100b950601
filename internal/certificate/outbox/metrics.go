package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks relay throughput and broker health.
type Metrics struct {
	Published   prometheus.Counter
	Failed      prometheus.Counter
	BreakerOpen prometheus.Gauge
	Pending     prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_outbox_published_total",
			Help: "Outbox rows produced to Kafka and marked published",
		}),
		Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_outbox_publish_failures_total",
			Help: "Outbox rows that failed to produce and stay pending",
		}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "certhub_outbox_breaker_open",
			Help: "1 while the relay is probing a failing broker one row at a time",
		}),
		Pending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "certhub_outbox_last_batch_size",
			Help: "Rows claimed by the most recent relay run",
		}),
	}
}

func (m *Metrics) observeBatch(claimed, published int, failed bool) {
	m.Pending.Set(float64(claimed))
	m.Published.Add(float64(published))
	if failed {
		m.Failed.Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
