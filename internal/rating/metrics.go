// AngelaMos | 2026
// metrics.go

package rating

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultCreated  = "created"
	resultUpdated  = "updated"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

type Metrics struct {
	submissions *prometheus.CounterVec
	values      *prometheus.CounterVec
	aggregation prometheus.Histogram
}

// NewMetrics registers the ledger collectors on reg. A nil reg yields
// collectors that are never exported, which is what tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store_ratings",
			Subsystem: "ledger",
			Name:      "submissions_total",
			Help:      "Rating submissions by result.",
		}, []string{"result"}),
		values: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store_ratings",
			Subsystem: "ledger",
			Name:      "values_total",
			Help:      "Accepted rating values by star count.",
		}, []string{"stars"}),
		aggregation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "store_ratings",
			Subsystem: "ledger",
			Name:      "submit_duration_seconds",
			Help:      "Duration of the upsert and aggregate transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.submissions, m.values, m.aggregation)
	}

	return m
}
