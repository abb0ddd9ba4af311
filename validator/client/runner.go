package client

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/time/slots"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// Validator interface defines the primary methods of a validator client.
type Validator interface {
	Done()
	WaitForChainStart(ctx context.Context) error
	NextSlot() <-chan types.Slot
	SlotDeadline(slot types.Slot) time.Time
	UpdateDuties(ctx context.Context, slot types.Slot) error
	RolesAt(ctx context.Context, slot types.Slot) (map[[48]byte][]validatorRole, error) // validator pubKey -> roles
	SubmitAttestation(ctx context.Context, slot types.Slot, pubKey [48]byte)
	ProposeBlock(ctx context.Context, slot types.Slot, pubKey [48]byte)
	SubmitAggregateAndProof(ctx context.Context, slot types.Slot, pubKey [48]byte)
	LogAttestationsSubmitted()
	StateFeed() *event.Feed
}

// run the main validator routine. This routine exits if the context is
// canceled.
//
// Order of operations:
// 1 - Wait for the chain start and begin the slot ticker
// 2 - Wait for the next slot start
// 3 - Update assignments
// 4 - Determine role at current slot
// 5 - Perform assigned roles, if any
func run(ctx context.Context, v Validator) {
	defer v.Done()
	if err := v.WaitForChainStart(ctx); err != nil {
		log.WithError(err).Fatal("Could not determine if beacon chain started")
	}
	headSlot := types.Slot(0)
	if err := v.UpdateDuties(ctx, headSlot); err != nil {
		handleAssignmentError(err, headSlot)
	}

	// Duties already being performed are canceled when a reorg rewinds the
	// chain to or below their slot before they complete.
	var slotLock sync.Mutex
	var trackedSlot types.Slot
	var cancelTracked context.CancelFunc
	stateChannel := make(chan *feed.Event, 1)
	sub := v.StateFeed().Subscribe(stateChannel)
	defer sub.Unsubscribe()
	go func() {
		for {
			select {
			case ev := <-stateChannel:
				if int(ev.Type) != statefeed.Reorg {
					continue
				}
				data, ok := ev.Data.(*statefeed.ReorgData)
				if !ok {
					log.Error("Reorg event did not carry reorg data")
					continue
				}
				slotLock.Lock()
				if cancelTracked != nil && data.NewSlot <= trackedSlot {
					log.WithField("newSlot", data.NewSlot).Warn("Reorg detected, canceling duties for current slot")
					cancelTracked()
				}
				slotLock.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		ctx, span := trace.StartSpan(ctx, "validator.processSlot")

		select {
		case <-ctx.Done():
			log.Info("Context canceled, stopping validator")
			span.End()
			return
		case slot := <-v.NextSlot():
			span.AddAttributes(trace.Int64Attribute("slot", int64(slot)))
			slotCtx, cancel := context.WithDeadline(ctx, v.SlotDeadline(slot))
			slotLock.Lock()
			trackedSlot = slot
			cancelTracked = cancel
			slotLock.Unlock()

			// Keep trying to update assignments if they are nil or if we are past an
			// epoch transition in the beacon node's state.
			if err := v.UpdateDuties(ctx, slot); err != nil {
				handleAssignmentError(err, slot)
				cancel()
				span.End()
				continue
			}

			allRoles, err := v.RolesAt(slotCtx, slot)
			if err != nil {
				log.WithError(err).Error("Could not get validator roles")
				cancel()
				span.End()
				continue
			}
			var wg sync.WaitGroup
			for pubKey, roles := range allRoles {
				wg.Add(len(roles))
				for _, role := range roles {
					go func(role validatorRole, pubKey [48]byte) {
						defer wg.Done()
						switch role {
						case roleAttester:
							v.SubmitAttestation(slotCtx, slot, pubKey)
						case roleProposer:
							v.ProposeBlock(slotCtx, slot, pubKey)
						case roleAggregator:
							v.SubmitAggregateAndProof(slotCtx, slot, pubKey)
						case roleUnknown:
							log.WithField("slot", slot).Trace("No active roles, doing nothing")
						default:
							log.Warnf("Unhandled role %v", role)
						}
					}(role, pubKey)
				}
			}
			// Wait for all duties to complete, then report span complete.
			go func() {
				wg.Wait()
				v.LogAttestationsSubmitted()
				span.End()
			}()
		}
	}
}

func handleAssignmentError(err error, slot types.Slot) {
	if errors.Is(err, duties.ErrNotReady) {
		log.WithField(
			"epoch", slots.ToEpoch(slot),
		).Warn("Validator not yet assigned to epoch")
	} else {
		log.WithError(err).Error("Failed to update assignments")
	}
}
