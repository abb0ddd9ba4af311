// Package attestations defines an attestation pool
// service implementation which is used to manage the lifecycle of
// aggregated, unaggregated and fork-choice attestations.
package attestations

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/pharoslabs/pharos/config/params"
	pharosTime "github.com/pharoslabs/pharos/time"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "attestations")

var forkChoiceProcessedRootsSize = int64(1 << 16)

// Prune expired attestations from the pool every slot interval.
var defaultPruneInterval = time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second

// Service of attestation pool operations.
type Service struct {
	ctx                      context.Context
	cancel                   context.CancelFunc
	pool                     Pool
	err                      error
	forkChoiceProcessedRoots *ristretto.Cache
	genesisTime              uint64
	pruneInterval            time.Duration
}

// Config options for the service.
type Config struct {
	Pool          Pool
	pruneInterval time.Duration
}

// NewService instantiates a new attestation pool service instance that will
// be registered into a running beacon node.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: forkChoiceProcessedRootsSize,
		MaxCost:     forkChoiceProcessedRootsSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	pruneInterval := cfg.pruneInterval
	if pruneInterval == 0 {
		pruneInterval = defaultPruneInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		ctx:                      ctx,
		cancel:                   cancel,
		pool:                     cfg.Pool,
		forkChoiceProcessedRoots: cache,
		pruneInterval:            pruneInterval,
	}, nil
}

// Start an attestation pool service's main event loop.
func (s *Service) Start() {
	go s.prepareForkChoiceAtts()
	go s.aggregateRoutine()
	go s.pruneAttsPool()
}

// Stop the beacon block attestation pool service's main event loop
// and associated goroutines.
func (s *Service) Stop() error {
	defer s.cancel()
	return nil
}

// Status returns the current service err if there's any.
func (s *Service) Status() error {
	if s.err != nil {
		return s.err
	}
	return nil
}

// SetGenesisTime sets genesis time for operation service to use.
func (s *Service) SetGenesisTime(t uint64) {
	s.genesisTime = t
}

// This prunes attestations pool on every slot interval.
func (s *Service) pruneAttsPool() {
	ticker := time.NewTicker(s.pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.pruneExpiredAtts()
			s.updateMetrics()
		case <-s.ctx.Done():
			log.Debug("Context closed, exiting routine")
			return
		}
	}
}

// This prunes expired attestations from the pool.
func (s *Service) pruneExpiredAtts() {
	aggregatedAtts := s.pool.AggregatedAttestations()
	for _, att := range aggregatedAtts {
		if s.expired(att.Data.Slot) {
			if err := s.pool.DeleteAggregatedAttestation(att); err != nil {
				log.WithError(err).Error("Could not delete expired aggregated attestation")
			}
			expiredAggregatedAtts.Inc()
		}
	}

	if _, err := s.pool.DeleteSeenUnaggregatedAttestations(); err != nil {
		log.WithError(err).Error("Could not delete seen attestations")
	}
	unAggregatedAtts, err := s.pool.UnaggregatedAttestations()
	if err != nil {
		log.WithError(err).Error("Could not get unaggregated attestations")
		return
	}
	for _, att := range unAggregatedAtts {
		if s.expired(att.Data.Slot) {
			if err := s.pool.DeleteUnaggregatedAttestation(att); err != nil {
				log.WithError(err).Error("Could not delete expired unaggregated attestation")
			}
			expiredUnaggregatedAtts.Inc()
		}
	}

	blockAtts := s.pool.BlockAttestations()
	for _, att := range blockAtts {
		if s.expired(att.Data.Slot) {
			if err := s.pool.DeleteBlockAttestation(att); err != nil {
				log.WithError(err).Error("Could not delete expired block attestation")
			}
			expiredBlockAtts.Inc()
		}
	}
}

// Return true if the input slot has been expired.
// Expired is defined as one epoch behind than current time.
func (s *Service) expired(slot types.Slot) bool {
	expirationSlot := slot + params.BeaconConfig().SlotsPerEpoch
	expirationTime := s.genesisTime + uint64(expirationSlot.Mul(params.BeaconConfig().SecondsPerSlot))
	currentTime := uint64(pharosTime.Now().Unix())
	return currentTime >= expirationTime
}
