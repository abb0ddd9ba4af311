package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	types "github.com/prysmaticlabs/eth2-types"
)

var (
	beaconSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_slot",
		Help: "Latest slot of the beacon chain state",
	})
	beaconHeadSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_head_slot",
		Help: "Slot of the head block of the beacon chain",
	})
	headFinalizedEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_finalized_epoch",
		Help: "Last finalized epoch of the processed state",
	})
	headJustifiedEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_current_justified_epoch",
		Help: "Current justified epoch of the processed state",
	})
	reorgCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_reorg_total",
		Help: "Count the number of times beacon chain has a reorg",
	})
	processedBlockCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_processed_blocks_total",
		Help: "Count the number of blocks the chain service has processed",
	})
	processedAttCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_processed_attestations_total",
		Help: "Count the number of fork choice attestations the chain service has processed",
	})
	pendingBlocksCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_pending_blocks_total",
		Help: "Count of blocks waiting in the pending import queue",
	})
	beaconCurrentValidators = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_current_validators",
		Help: "Count of validators in the beacon state at the last epoch boundary",
	})
)

// reports validator set metrics when crossing an epoch boundary.
func reportEpochMetrics(st state.BeaconState) {
	beaconCurrentValidators.Set(float64(st.NumValidators()))
}

// reports on the block slot, head slot and checkpoint metrics of the chain.
func reportSlotMetrics(stateSlot, headSlot types.Slot, finalizedCheckpoint, justifiedCheckpoint *ethpb.Checkpoint) {
	beaconSlot.Set(float64(stateSlot))
	beaconHeadSlot.Set(float64(headSlot))
	if finalizedCheckpoint != nil {
		headFinalizedEpoch.Set(float64(finalizedCheckpoint.Epoch))
	}
	if justifiedCheckpoint != nil {
		headJustifiedEpoch.Set(float64(justifiedCheckpoint.Epoch))
	}
}
