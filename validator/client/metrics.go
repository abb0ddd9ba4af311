package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Per-pubkey duty outcome counters, labeled so operators can track
// individual keys across restarts.
var (
	ValidatorAttestSuccessVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "successful_attestations",
	}, []string{"pubkey"})
	ValidatorAttestFailVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "failed_attestations",
	}, []string{"pubkey"})
	ValidatorProposeSuccessVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "successful_proposals",
	}, []string{"pubkey"})
	ValidatorProposeFailVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "failed_proposals",
	}, []string{"pubkey"})
	ValidatorAggSuccessVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "successful_aggregations",
	}, []string{"pubkey"})
	ValidatorAggFailVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator",
		Name:      "failed_aggregations",
	}, []string{"pubkey"})
)
