package attestations

import (
	"time"

	"github.com/pharoslabs/pharos/config/params"
)

// Aggregate the unaggregated attestations 3 times per slot. This gives
// enough confidence all the unaggregated attestations will be aggregated
// by the time an aggregator requests them.
var timeToAggregate = time.Duration(params.BeaconConfig().SecondsPerSlot/3) * time.Second

// This kicks off a routine that aggregates the unaggregated attestations from the pool.
func (s *Service) aggregateRoutine() {
	ticker := time.NewTicker(timeToAggregate)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.pool.AggregateUnaggregatedAttestations(s.ctx); err != nil {
				log.WithError(err).Error("Could not aggregate unaggregated attestations")
			}
		}
	}
}
