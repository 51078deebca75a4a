package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prapp_session_transitions_total",
			Help: "Controller state transitions by target state.",
		},
		[]string{"to"},
	)

	optimisticRollbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prapp_optimistic_rollbacks_total",
			Help: "Optimistic transcript inserts rolled back after a failed send.",
		},
	)

	completionGateRejects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prapp_completion_gate_rejects_total",
			Help: "Complete calls rejected client-side for too few exchanges.",
		},
	)
)

func init() { register(sessionTransitions, optimisticRollbacks, completionGateRejects) }

func IncTransition(to string) { sessionTransitions.WithLabelValues(norm(to)).Inc() }

func IncRollback() { optimisticRollbacks.Inc() }

func IncGateReject() { completionGateRejects.Inc() }
