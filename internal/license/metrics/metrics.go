// Package metrics holds the Prometheus instruments of the license service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "licensehub"

// Outcomes of one license update.
const (
	OutcomeUnchanged   = "unchanged"
	OutcomeDeactivated = "deactivated"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
)

// Metrics records license reconciliation and cache behaviour.
type Metrics struct {
	Reconciliations  *prometheus.CounterVec
	SeatsDeactivated prometheus.Counter
	ReconcileLatency prometheus.Histogram
	CacheRequests    *prometheus.CounterVec
	SeatsAssigned    prometheus.Counter
	SeatsReactivated prometheus.Counter
}

// New registers the license metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_reconciliations_total",
			Help:      "License updates by outcome",
		}, []string{"outcome"}),
		SeatsDeactivated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_seats_deactivated_total",
			Help:      "Seats deactivated because a license quantity decreased",
		}),
		ReconcileLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "license_reconcile_duration_seconds",
			Help:      "Duration of transactional license updates",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_view_cache_requests_total",
			Help:      "License view cache lookups by result",
		}, []string{"result"}),
		SeatsAssigned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_seats_assigned_total",
			Help:      "Seats assigned to licenses",
		}),
		SeatsReactivated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_seats_reactivated_total",
			Help:      "Revoked seats returned to their users",
		}),
	}
}

func (m *Metrics) ObserveReconcile(outcome string, deactivated int, started time.Time) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(outcome).Inc()
	m.SeatsDeactivated.Add(float64(deactivated))
	m.ReconcileLatency.Observe(time.Since(started).Seconds())
}

func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) IncSeatsAssigned() {
	if m == nil {
		return
	}
	m.SeatsAssigned.Inc()
}

func (m *Metrics) IncSeatsReactivated() {
	if m == nil {
		return
	}
	m.SeatsReactivated.Inc()
}
