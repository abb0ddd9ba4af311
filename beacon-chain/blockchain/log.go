package blockchain

import (
	"fmt"
	"time"

	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "blockchain")

// logs state transition related data every slot.
func logStateTransitionData(b *ethpb.BeaconBlock) {
	fields := logrus.Fields{"slot": b.Slot}
	if len(b.Body.Attestations) > 0 {
		fields["attestations"] = len(b.Body.Attestations)
	}
	if len(b.Body.Deposits) > 0 {
		fields["deposits"] = len(b.Body.Deposits)
	}
	if len(b.Body.AttesterSlashings) > 0 {
		fields["attesterSlashings"] = len(b.Body.AttesterSlashings)
	}
	if len(b.Body.ProposerSlashings) > 0 {
		fields["proposerSlashings"] = len(b.Body.ProposerSlashings)
	}
	if len(b.Body.VoluntaryExits) > 0 {
		fields["voluntaryExits"] = len(b.Body.VoluntaryExits)
	}
	log.WithFields(fields).Info("Finished applying state transition")
}

func logBlockSyncStatus(block *ethpb.BeaconBlock, blockRoot [32]byte, finalized *ethpb.Checkpoint, receivedTime time.Time, genesisTime uint64) error {
	startTime, err := slots.ToTime(genesisTime, block.Slot)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"slot":                      block.Slot,
		"slotInEpoch":               block.Slot % params.BeaconConfig().SlotsPerEpoch,
		"block":                     fmt.Sprintf("0x%x...", blockRoot[:8]),
		"epoch":                     slots.ToEpoch(block.Slot),
		"finalizedEpoch":            finalized.Epoch,
		"finalizedRoot":             fmt.Sprintf("0x%x...", bytesutil.Trunc(finalized.Root)),
		"sinceSlotStartTime":        pharosTime.Now().Sub(startTime),
		"chainServiceProcessedTime": pharosTime.Now().Sub(receivedTime),
	}).Info("Synced new block")
	return nil
}
