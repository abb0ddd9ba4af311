// Package node is the main service which launches a beacon node and manages
// the lifecycle of all its associated services at runtime, such as the
// blockchain service and the attestation pool, gracefully closing them if
// the process ends.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/beacon-chain/blockchain"
	"github.com/pharoslabs/pharos/beacon-chain/db"
	"github.com/pharoslabs/pharos/beacon-chain/forkchoice"
	"github.com/pharoslabs/pharos/beacon-chain/forkchoice/protoarray"
	"github.com/pharoslabs/pharos/beacon-chain/operations/attestations"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	v1 "github.com/pharoslabs/pharos/beacon-chain/state/v1"
	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/beacon-chain/flags"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/monitoring/prometheus"
	"github.com/pharoslabs/pharos/monitoring/tracing"
	"github.com/pharoslabs/pharos/runtime"
	"github.com/pharoslabs/pharos/runtime/debug"
	"github.com/pharoslabs/pharos/runtime/interop"
	"github.com/pharoslabs/pharos/runtime/prereqs"
	"github.com/pharoslabs/pharos/runtime/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "node")

// BeaconNode defines a struct that handles the services running a proof-of-stake
// beacon node. It handles the lifecycle of the entire system and registers
// services to a service registry.
type BeaconNode struct {
	cliCtx          *cli.Context
	ctx             context.Context
	cancel          context.CancelFunc
	services        *runtime.ServiceRegistry
	lock            sync.RWMutex
	stop            chan struct{} // Channel to wait for termination notifications.
	db              db.Database
	attestationPool attestations.Pool
	stateFeed       *event.Feed
	opFeed          *event.Feed
	forkChoiceStore forkchoice.ForkChoicer
}

// New creates a new node instance, sets up configuration options, and registers
// every required service to the node.
func New(cliCtx *cli.Context) (*BeaconNode, error) {
	if err := tracing.Setup(
		"beacon-chain", // service name
		cliCtx.String(cmd.TracingProcessNameFlag.Name),
		cliCtx.String(cmd.TracingEndpointFlag.Name),
		cliCtx.Float64(cmd.TraceSampleFractionFlag.Name),
		cliCtx.Bool(cmd.EnableTracingFlag.Name),
	); err != nil {
		return nil, err
	}

	// Warn if user's platform is not supported
	prereqs.WarnIfPlatformNotSupported(cliCtx.Context)

	features.ConfigureBeaconChain(cliCtx)
	cmd.ConfigureBeaconChain(cliCtx)

	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		chainConfigFileName := cliCtx.String(cmd.ChainConfigFileFlag.Name)
		params.LoadChainConfigFile(chainConfigFileName)
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	beacon := &BeaconNode{
		cliCtx:          cliCtx,
		ctx:             ctx,
		cancel:          cancel,
		services:        runtime.NewServiceRegistry(),
		stop:            make(chan struct{}),
		stateFeed:       new(event.Feed),
		opFeed:          new(event.Feed),
		attestationPool: attestations.NewPool(),
	}

	if err := beacon.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	beacon.startForkChoice()

	if err := beacon.registerAttestationPool(); err != nil {
		cancel()
		return nil, err
	}

	if err := beacon.registerBlockchainService(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	if !cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		if err := beacon.registerPrometheusService(cliCtx); err != nil {
			cancel()
			return nil, err
		}
	}

	return beacon, nil
}

// StateFeed implements statefeed.Notifier.
func (b *BeaconNode) StateFeed() *event.Feed {
	return b.stateFeed
}

// OperationFeed implements opfeed.Notifier.
func (b *BeaconNode) OperationFeed() *event.Feed {
	return b.opFeed
}

// Start the BeaconNode and kicks off every registered service.
func (b *BeaconNode) Start() {
	b.lock.Lock()

	log.WithFields(logrus.Fields{
		"version": version.Version(),
	}).Info("Starting beacon node")

	b.services.StartAll()

	stop := b.stop
	b.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		debug.Exit(b.cliCtx) // Ensure trace and CPU profile data are flushed.
		go b.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the beacon node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	log.Info("Stopping beacon node")
	b.services.StopAll()
	if err := b.db.Close(); err != nil {
		log.Errorf("Failed to close database: %v", err)
	}
	b.cancel()
	close(b.stop)
}

func (b *BeaconNode) startForkChoice() {
	b.forkChoiceStore = protoarray.New(0, 0, params.BeaconConfig().ZeroHash)
}

func (b *BeaconNode) startDB(cliCtx *cli.Context) error {
	clearDB := cliCtx.Bool(cmd.ClearDB.Name)
	forceClearDB := cliCtx.Bool(cmd.ForceClearDB.Name)

	d := db.NewDB()

	clearDBConfirmed := false
	if clearDB && !forceClearDB {
		actionText := "This will delete your beacon chain database stored in your data directory. " +
			"Your database backups will not be removed - do you want to proceed? (Y/N)"
		deniedText := "Database will not be deleted. No changes have been made."
		var err error
		clearDBConfirmed, err = cmd.ConfirmAction(actionText, deniedText)
		if err != nil {
			return err
		}
	}
	if clearDBConfirmed || forceClearDB {
		log.Warning("Removing database")
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear database")
		}
	}

	b.db = d
	return nil
}

func (b *BeaconNode) registerAttestationPool() error {
	s, err := attestations.NewService(b.ctx, &attestations.Config{
		Pool: b.attestationPool,
	})
	if err != nil {
		return errors.Wrap(err, "could not register atts pool service")
	}
	return b.services.RegisterService(s)
}

func (b *BeaconNode) registerBlockchainService(cliCtx *cli.Context) error {
	genesisState, err := b.fetchGenesisState(cliCtx)
	if err != nil {
		return err
	}

	blockchainService, err := blockchain.NewService(b.ctx, &blockchain.Config{
		BeaconDB:          b.db,
		AttPool:           b.attestationPool,
		ForkChoiceStore:   b.forkChoiceStore,
		StateNotifier:     b,
		OperationNotifier: b,
		GenesisState:      genesisState,
	})
	if err != nil {
		return errors.Wrap(err, "could not register blockchain service")
	}
	return b.services.RegisterService(blockchainService)
}

// fetchGenesisState loads a genesis state from the interop flags. A pre-made
// state can be loaded from an SSZ file, or a deterministic one is generated
// from the interop validator keys.
func (b *BeaconNode) fetchGenesisState(cliCtx *cli.Context) (state.BeaconState, error) {
	if genesisStatePath := cliCtx.String(flags.InteropGenesisStateFlag.Name); genesisStatePath != "" {
		enc, err := file.ReadFileAsBytes(genesisStatePath)
		if err != nil {
			return nil, errors.Wrap(err, "could not read genesis state file")
		}
		st := &ethpb.BeaconState{}
		if err := st.UnmarshalSSZ(enc); err != nil {
			return nil, errors.Wrap(err, "could not unmarshal genesis state")
		}
		return v1.InitializeFromProto(st)
	}
	if numValidators := cliCtx.Uint64(flags.InteropNumValidatorsFlag.Name); numValidators > 0 {
		genesisTime := cliCtx.Uint64(flags.InteropGenesisTimeFlag.Name)
		genesisState, _, err := interop.GenerateGenesisState(b.ctx, genesisTime, numValidators)
		if err != nil {
			return nil, errors.Wrap(err, "could not generate interop genesis state")
		}
		return genesisState, nil
	}
	// The chain can still resume from a previously stored genesis.
	return nil, nil
}

func (b *BeaconNode) registerPrometheusService(cliCtx *cli.Context) error {
	var additionalHandlers []prometheus.Handler

	var chainService *blockchain.Service
	if err := b.services.FetchService(&chainService); err != nil {
		return err
	}
	additionalHandlers = append(
		additionalHandlers,
		prometheus.Handler{Path: "/tree", Handler: chainService.TreeHandler},
	)

	service := prometheus.NewService(
		fmt.Sprintf("%s:%d", cliCtx.String(cmd.MonitoringHostFlag.Name), cliCtx.Int(flags.MonitoringPortFlag.Name)),
		b.services,
		additionalHandlers...,
	)
	hook := prometheus.NewLogrusCollector()
	logrus.AddHook(hook)
	return b.services.RegisterService(service)
}
