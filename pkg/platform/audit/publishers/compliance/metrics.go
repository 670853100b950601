package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Written  *prometheus.CounterVec
	Failed   *prometheus.CounterVec
	Duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Written: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certhub_audit_compliance_written_total",
			Help: "Compliance audit events persisted, by action",
		}, []string{"action"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certhub_audit_compliance_failed_total",
			Help: "Compliance audit events that failed to persist, by action",
		}, []string{"action"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certhub_audit_compliance_write_duration_seconds",
			Help:    "Duration of compliance audit writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) observe(action string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	if err != nil {
		m.Failed.WithLabelValues(action).Inc()
		return
	}
	m.Written.WithLabelValues(action).Inc()
	m.Duration.Observe(elapsed.Seconds())
}
