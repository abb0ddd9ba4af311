package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharoslabs/pharos/config/params"
	pharosTime "github.com/pharoslabs/pharos/time"
)

var log = logrus.WithField("prefix", "slots")

// CountdownToGenesis starts a ticker at the specified duration
// interval that countdowns all the way to the start of the genesis time.
func CountdownToGenesis(ctx context.Context, genesisTime time.Time, genesisValidatorCount uint64, genesisStateRoot [32]byte) {
	ticker := time.NewTicker(params.BeaconConfig().GenesisCountdownInterval)
	defer ticker.Stop()

	logFields := logrus.Fields{
		"genesisValidators": fmt.Sprintf("%d", genesisValidatorCount),
		"genesisTime":       fmt.Sprintf("%v", genesisTime),
		"genesisStateRoot":  fmt.Sprintf("%#x", genesisStateRoot),
	}
	secondTimerActivated := false
	for {
		currentTime := pharosTime.Now()
		if currentTime.After(genesisTime) {
			log.WithFields(logFields).Info("Chain genesis time reached")
			return
		}
		timeRemaining := genesisTime.Sub(currentTime)
		if !secondTimerActivated && timeRemaining <= 2*time.Minute {
			// Count the final stretch down second by second.
			ticker.Stop()
			ticker = time.NewTicker(time.Second)
			secondTimerActivated = true
		}
		if timeRemaining >= time.Second {
			log.WithFields(logFields).Infof("%s until chain genesis", timeRemaining.Truncate(time.Second))
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Debug("Context closed, exiting routine")
			return
		}
	}
}
