package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opRecharge = "recharge"
	opTransfer = "transfer"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

var (
	balanceMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momo_balance_mutations_total",
		Help: "Recharge and transfer attempts by outcome",
	}, []string{"operation", "outcome"})

	balanceMutationAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momo_balance_mutation_amount_total",
		Help: "Sum of committed recharge and transfer amounts",
	}, []string{"operation"})
)

func observeMutation(operation, outcome string) {
	balanceMutationsTotal.WithLabelValues(operation, outcome).Inc()
}
