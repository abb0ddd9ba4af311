package attestations

import (
	"context"
	"time"

	attaggregation "github.com/pharoslabs/pharos/aggregation/attestations"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

// Prepare attestations for fork choice three times per slot.
var prepareForkChoiceAttsPeriod = time.Duration(params.BeaconConfig().SecondsPerSlot/3) * time.Second

// This prepares fork choice attestations by running batchForkChoiceAtts
// every prepareForkChoiceAttsPeriod.
func (s *Service) prepareForkChoiceAtts() {
	ticker := time.NewTicker(prepareForkChoiceAttsPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t := time.Now()
			if err := s.batchForkChoiceAtts(s.ctx); err != nil {
				log.WithError(err).Error("Could not prepare attestations for fork choice")
			}
			batchForkChoiceAttsT1.Observe(float64(time.Since(t).Milliseconds()))
		case <-s.ctx.Done():
			log.Debug("Context closed, exiting routine")
			return
		}
	}
}

// This gets the attestations from the unaggregated, aggregated and block
// pool. Then finds the common data, aggregate and batch them for fork choice.
// The resulting attestations are saved in the fork choice pool.
func (s *Service) batchForkChoiceAtts(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "operations.attestations.batchForkChoiceAtts")
	defer span.End()

	if err := s.pool.AggregateUnaggregatedAttestations(ctx); err != nil {
		return err
	}
	attsByDataRoot := make(map[[32]byte][]*ethpb.Attestation)

	unaggregatedAtts, err := s.pool.UnaggregatedAttestations()
	if err != nil {
		return err
	}
	atts := append(s.pool.AggregatedAttestations(), unaggregatedAtts...)
	atts = append(atts, s.pool.BlockAttestations()...)

	// Consolidate attestations by aggregating them by similar data root.
	for _, att := range atts {
		seen, err := s.seen(att)
		if err != nil {
			return err
		}
		if seen {
			continue
		}

		attDataRoot, err := att.Data.HashTreeRoot()
		if err != nil {
			return err
		}
		attsByDataRoot[attDataRoot] = append(attsByDataRoot[attDataRoot], att)
	}

	// Aggregation per data root is independent work.
	var g errgroup.Group
	for _, atts := range attsByDataRoot {
		atts := atts
		g.Go(func() error {
			return s.aggregateAndSaveForkChoiceAtts(atts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, a := range s.pool.BlockAttestations() {
		if err := s.pool.DeleteBlockAttestation(a); err != nil {
			return err
		}
	}

	return nil
}

// This aggregates a list of attestations using the aggregation algorithm defined in AggregateAttestations
// and saves the attestations for fork choice.
func (s *Service) aggregateAndSaveForkChoiceAtts(atts []*ethpb.Attestation) error {
	clonedAtts := make([]*ethpb.Attestation, len(atts))
	for i, a := range atts {
		clonedAtts[i] = a.Copy()
	}
	aggregatedAtts, err := attaggregation.Aggregate(clonedAtts)
	if err != nil {
		return err
	}

	return s.pool.SaveForkchoiceAttestations(aggregatedAtts)
}

// This checks if the attestation has previously been aggregated for fork choice
// return true if yes, false if no.
func (s *Service) seen(att *ethpb.Attestation) (bool, error) {
	attRoot, err := att.Data.HashTreeRoot()
	if err != nil {
		return false, err
	}
	incomingBits := att.AggregationBits
	savedBits, ok := s.forkChoiceProcessedRoots.Get(string(attRoot[:]))
	if ok {
		savedBitlist, ok := savedBits.(bitfield.Bitlist)
		if !ok {
			return false, errors.New("not a bit field")
		}
		if savedBitlist.Len() == incomingBits.Len() {
			// Returns true if the node has seen all the bits in the new bit field of the incoming attestation.
			if savedBitlist.Contains(incomingBits) {
				return true, nil
			}
			// Update the bit fields by Or'ing them with the new ones.
			incomingBits = incomingBits.Or(savedBitlist)
		}
	}

	s.forkChoiceProcessedRoots.Set(string(attRoot[:]), incomingBits, 1 /*cost*/)
	return false, nil
}
