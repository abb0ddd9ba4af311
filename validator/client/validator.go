// Package client represents the functionality to act as a validator.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/beacon-chain/core/signing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/keymanager"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// ChainClient is the surface of the beacon chain the validator client drives
// its duties through. It is implemented in-process by the blockchain service.
type ChainClient interface {
	GenesisTime() time.Time
	GenesisValidatorsRoot() [32]byte
	CurrentFork() *ethpb.Fork
	CurrentSlot() types.Slot
	HeadSlot() types.Slot
	ValidatorDuties(ctx context.Context, epoch types.Epoch, pubKeys [][48]byte) ([]*duties.Duty, [32]byte, error)
	AttestationData(ctx context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) (*ethpb.AttestationData, error)
	BestAggregate(ctx context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) (*ethpb.Attestation, error)
	BuildBlock(ctx context.Context, slot types.Slot, randaoReveal, graffiti []byte) (*ethpb.BeaconBlock, error)
	SubmitBlock(ctx context.Context, signed *ethpb.SignedBeaconBlock) error
	SubmitAttestation(ctx context.Context, att *ethpb.Attestation) error
	SubmitSignedAggregateAndProof(ctx context.Context, signed *ethpb.SignedAggregateAttestationAndProof) error
}

// validatorRole defines the validator client's responsibilities at a slot.
type validatorRole int8

const (
	roleUnknown = validatorRole(iota)
	roleAttester
	roleProposer
	roleAggregator
)

type validator struct {
	genesisTime        uint64
	ticker             *slots.SlotTicker
	chain              ChainClient
	stateNotifier      statefeed.Notifier
	keyManager         keymanager.Keymanager
	db                 iface.ValidatorDB
	graffiti           []byte
	emitAccountMetrics bool

	dutiesLock        sync.RWMutex
	duties            []*duties.Duty
	dutiesByPubKey    map[[48]byte]*duties.Duty
	dutiesEpoch       types.Epoch
	dutyDependentRoot [32]byte

	attLogs     map[[32]byte]*attSubmitted
	attLogsLock sync.Mutex

	aggregatedSlotCommitteeIDCache     map[string]bool
	aggregatedSlotCommitteeIDCacheLock sync.Mutex
}

// StateFeed exposes the chain's state event feed to the runner for reorg
// cancellation.
func (v *validator) StateFeed() *event.Feed {
	return v.stateNotifier.StateFeed()
}

// Done cleans up the validator.
func (v *validator) Done() {
	if v.ticker != nil {
		v.ticker.Done()
	}
}

// WaitForChainStart blocks until the beacon chain has a genesis time, either
// already known by the chain service or announced over the state feed, then
// starts the slot ticker used to track the current slot.
func (v *validator) WaitForChainStart(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "validator.WaitForChainStart")
	defer span.End()

	genesis := v.chain.GenesisTime()
	if genesis.Unix() <= 0 {
		stateChannel := make(chan *feed.Event, 1)
		sub := v.stateNotifier.StateFeed().Subscribe(stateChannel)
		defer sub.Unsubscribe()
		log.Info("Waiting for beacon chain start log from the deposit contract")
		for genesis.Unix() <= 0 {
			select {
			case ev := <-stateChannel:
				if int(ev.Type) == statefeed.ChainStarted {
					data, ok := ev.Data.(*statefeed.ChainStartedData)
					if !ok {
						return errors.New("event data is not type *statefeed.ChainStartedData")
					}
					genesis = data.StartTime
				} else if int(ev.Type) == statefeed.Initialized {
					data, ok := ev.Data.(*statefeed.InitializedData)
					if !ok {
						return errors.New("event data is not type *statefeed.InitializedData")
					}
					genesis = data.StartTime
				}
			case err := <-sub.Err():
				return errors.Wrap(err, "state feed subscription failed while waiting for chain start")
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "context canceled while waiting for chain start")
			}
		}
	}
	v.genesisTime = uint64(genesis.Unix())
	v.ticker = slots.NewSlotTicker(genesis, params.BeaconConfig().SecondsPerSlot)
	log.WithField("genesisTime", genesis).Info("Beacon chain started, beginning slot ticker")
	return nil
}

// NextSlot emits the next slot number at the start time of that slot.
func (v *validator) NextSlot() <-chan types.Slot {
	return v.ticker.C()
}

// SlotDeadline is the start time of the next slot.
func (v *validator) SlotDeadline(slot types.Slot) time.Time {
	secs := time.Duration(uint64(slot+1)*params.BeaconConfig().SecondsPerSlot) * time.Second
	return time.Unix(int64(v.genesisTime), 0 /*ns*/).Add(secs)
}

// UpdateDuties checks the slot number to determine if the validator's
// list of upcoming assignments needs to be updated, for example at the
// beginning of a new epoch. Assignments are memoized against the duty
// dependent root, so a refresh that lands on the same shuffling leaves the
// cached duties untouched.
func (v *validator) UpdateDuties(ctx context.Context, slot types.Slot) error {
	epoch := slots.ToEpoch(slot)
	v.dutiesLock.RLock()
	upToDate := v.duties != nil && v.dutiesEpoch == epoch && !slots.IsEpochStart(slot)
	v.dutiesLock.RUnlock()
	if upToDate {
		return nil
	}
	ctx, span := trace.StartSpan(ctx, "validator.UpdateDuties")
	defer span.End()

	validatingKeys, err := v.keyManager.FetchValidatingPublicKeys(ctx)
	if err != nil {
		return errors.Wrap(err, "could not fetch validating keys")
	}
	newDuties, dependentRoot, err := v.chain.ValidatorDuties(ctx, epoch, validatingKeys)
	if err != nil {
		v.dutiesLock.Lock()
		// Clear assignments so we know to retry the request.
		v.duties = nil
		v.dutiesByPubKey = nil
		v.dutiesLock.Unlock()
		return err
	}

	v.dutiesLock.Lock()
	defer v.dutiesLock.Unlock()
	if v.duties != nil && v.dutiesEpoch == epoch && v.dutyDependentRoot == dependentRoot {
		// Same shuffling, nothing to update.
		return nil
	}
	v.duties = newDuties
	v.dutiesEpoch = epoch
	v.dutyDependentRoot = dependentRoot
	v.dutiesByPubKey = make(map[[48]byte]*duties.Duty, len(newDuties))
	for _, duty := range newDuties {
		v.dutiesByPubKey[duty.PublicKey] = duty
		lFields := logrus.Fields{
			"pubKey":         fmt.Sprintf("%#x", bytesutil.Trunc(duty.PublicKey[:])),
			"validatorIndex": duty.ValidatorIndex,
			"committeeIndex": duty.CommitteeIndex,
			"epoch":          epoch,
			"attesterSlot":   duty.AttesterSlot,
		}
		if len(duty.ProposerSlots) > 0 {
			lFields["proposerSlots"] = duty.ProposerSlots
		}
		log.WithFields(lFields).Info("Updated validator assignments")
	}
	return nil
}

// RolesAt slot returns the validator roles at the given slot. Returns nil if the
// validator is known to not have a role at the slot. Returns UNKNOWN if the
// validator assignments are unknown. Otherwise returns a valid validatorRole map.
func (v *validator) RolesAt(ctx context.Context, slot types.Slot) (map[[48]byte][]validatorRole, error) {
	v.dutiesLock.RLock()
	defer v.dutiesLock.RUnlock()
	rolesAt := make(map[[48]byte][]validatorRole)
	for _, duty := range v.duties {
		var roles []validatorRole
		for _, proposerSlot := range duty.ProposerSlots {
			if proposerSlot == slot {
				roles = append(roles, roleProposer)
				break
			}
		}
		if len(duty.Committee) > 0 && duty.AttesterSlot == slot {
			roles = append(roles, roleAttester)

			aggregator, err := v.isAggregator(ctx, duty, slot)
			if err != nil {
				return nil, errors.Wrap(err, "could not check if a validator is an aggregator")
			}
			if aggregator {
				roles = append(roles, roleAggregator)
			}
		}
		if len(roles) == 0 {
			roles = append(roles, roleUnknown)
		}
		rolesAt[duty.PublicKey] = roles
	}
	return rolesAt, nil
}

// duty returns the validator's assignment for the epoch the duties were last
// refreshed at.
func (v *validator) duty(pubKey [48]byte) (*duties.Duty, error) {
	v.dutiesLock.RLock()
	defer v.dutiesLock.RUnlock()
	if v.dutiesByPubKey == nil {
		return nil, errors.New("no duties for validators")
	}
	duty, ok := v.dutiesByPubKey[pubKey]
	if !ok {
		return nil, fmt.Errorf("pubkey %#x not in duties", bytesutil.Trunc(pubKey[:]))
	}
	return duty, nil
}

// domainData computes the signature domain for the given epoch and domain type
// from the chain's current fork and genesis validators root.
func (v *validator) domainData(epoch types.Epoch, domainType [4]byte) ([]byte, error) {
	genesisRoot := v.chain.GenesisValidatorsRoot()
	return signing.Domain(v.chain.CurrentFork(), epoch, domainType, genesisRoot[:])
}
