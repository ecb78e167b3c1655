package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AssignmentRunsTotal counts assignment engine runs by outcome
	// (completed / blocked).
	AssignmentRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campershow_assignment_runs_total",
			Help: "Total number of assignment engine runs.",
		},
		[]string{"outcome"},
	)

	// AssignmentRounds observes how many rounds a completed run needed.
	AssignmentRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campershow_assignment_rounds",
			Help:    "Rounds used by completed assignment runs.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		},
	)

	// ReplicationTotal counts remote replication attempts by result
	// (success / failed / dropped).
	ReplicationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campershow_replication_total",
			Help: "Total number of remote snapshot replication attempts.",
		},
		[]string{"result"},
	)

	// StoreMutationsTotal counts persisted store mutations by operation.
	StoreMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campershow_store_mutations_total",
			Help: "Total number of persisted state store mutations.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(AssignmentRunsTotal)
	prometheus.MustRegister(AssignmentRounds)
	prometheus.MustRegister(ReplicationTotal)
	prometheus.MustRegister(StoreMutationsTotal)
}
