package protoarray

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calledHeadCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_head_called_count",
			Help: "The number of times someone called head in fork choice.",
		},
	)
	headChangesCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_head_changed_count",
			Help: "The number of times head changes in fork choice.",
		},
	)
	headSlotNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_head_slot",
			Help: "The slot number of the current head.",
		},
	)
	nodeCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_fork_choice_node_count",
			Help: "The number of block nodes in the fork choice store.",
		},
	)
	processedBlockCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_fork_choice_processed_block_count",
			Help: "The number of processed blocks in fork choice.",
		},
	)
	processedAttestationCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_fork_choice_processed_attestation_count",
			Help: "The number of processed attestations in fork choice.",
		},
	)
	prunedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_fork_choice_pruned_count",
			Help: "The number of times pruning happened in fork choice.",
		},
	)
)
