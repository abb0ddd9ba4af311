package kv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tracedAttestationCheckTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "validator_db_attestation_checks_total",
		Help: "The number of slashable attestation checks performed against the database",
	})
	attestationRecordsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "validator_db_attestation_records_saved_total",
		Help: "The number of attestation records saved to the database",
	})
	proposalRecordsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "validator_db_proposal_records_saved_total",
		Help: "The number of block proposal records saved to the database",
	})
)
