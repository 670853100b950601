package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the certificate module.
// Tracks workflow transitions, editor activity and review lock contention.
type Metrics struct {
	CertificatesCreated  prometheus.Counter
	Transitions          *prometheus.CounterVec
	TransitionDuration   prometheus.Histogram
	NonCompliantCircuits prometheus.Counter
	ReviewLockContention prometheus.Counter
	VersionConflicts     prometheus.Counter
	SubmissionsBlocked   prometheus.Counter
}

// New creates a Metrics instance with all certificate module metrics registered.
func New() *Metrics {
	return &Metrics{
		CertificatesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_certificates_created_total",
			Help: "Total number of certificates created",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certhub_certificate_transitions_total",
			Help: "Certificate status transitions by action",
		}, []string{"action"}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certhub_certificate_transition_duration_seconds",
			Help:    "Duration of submit and review operations including lock and audit writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NonCompliantCircuits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_non_compliant_circuits_total",
			Help: "Circuit writes that left measured Zs above the maximum",
		}),
		ReviewLockContention: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_review_lock_contention_total",
			Help: "Review actions refused because another review held the certificate lock",
		}),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_version_conflicts_total",
			Help: "Mutations refused because the caller's version was stale",
		}),
		SubmissionsBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certhub_submissions_blocked_total",
			Help: "Submissions refused by strict completeness checking",
		}),
	}
}

func (m *Metrics) IncrementCertificatesCreated() {
	m.CertificatesCreated.Inc()
}

// IncrementTransition records a successful transition by action name.
func (m *Metrics) IncrementTransition(action string) {
	m.Transitions.WithLabelValues(action).Inc()
}

// ObserveTransition records the duration of a transition.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTransition(start time.Time) {
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementNonCompliantCircuit() {
	m.NonCompliantCircuits.Inc()
}

func (m *Metrics) IncrementReviewLockContention() {
	m.ReviewLockContention.Inc()
}

func (m *Metrics) IncrementVersionConflict() {
	m.VersionConflicts.Inc()
}

func (m *Metrics) IncrementSubmissionBlocked() {
	m.SubmissionsBlocked.Inc()
}
