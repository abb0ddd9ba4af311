// Package node is the main process which handles the lifecycle of
// the runtime services in a validator client process, gracefully shutting
// everything down upon close.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/beacon-chain/blockchain"
	"github.com/pharoslabs/pharos/beacon-chain/db"
	"github.com/pharoslabs/pharos/beacon-chain/forkchoice"
	"github.com/pharoslabs/pharos/beacon-chain/forkchoice/protoarray"
	"github.com/pharoslabs/pharos/beacon-chain/operations/attestations"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/monitoring/backup"
	"github.com/pharoslabs/pharos/monitoring/prometheus"
	"github.com/pharoslabs/pharos/monitoring/tracing"
	"github.com/pharoslabs/pharos/runtime"
	"github.com/pharoslabs/pharos/runtime/debug"
	"github.com/pharoslabs/pharos/runtime/interop"
	"github.com/pharoslabs/pharos/runtime/prereqs"
	"github.com/pharoslabs/pharos/runtime/version"
	"github.com/pharoslabs/pharos/validator/client"
	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/db/kv"
	"github.com/pharoslabs/pharos/validator/keymanager"
	"github.com/pharoslabs/pharos/validator/keymanager/derived"
	interopkm "github.com/pharoslabs/pharos/validator/keymanager/interop"
	"github.com/pharoslabs/pharos/validator/keymanager/local"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "node")

// ValidatorClient defines an instance of a validator that manages
// the entire lifecycle of services attached to it participating in
// proof-of-stake consensus.
type ValidatorClient struct {
	cliCtx          *cli.Context
	ctx             context.Context
	cancel          context.CancelFunc
	services        *runtime.ServiceRegistry // Lifecycle and service store.
	lock            sync.RWMutex
	stop            chan struct{} // Channel to wait for termination notifications.
	valDB           iface.ValidatorDB
	beaconDB        db.Database
	attestationPool attestations.Pool
	forkChoiceStore forkchoice.ForkChoicer
	stateFeed       *event.Feed
	opFeed          *event.Feed
	keyManager      keymanager.Keymanager
}

// NewValidatorClient creates a new instance of the Pharos validator client.
func NewValidatorClient(cliCtx *cli.Context) (*ValidatorClient, error) {
	if err := tracing.Setup(
		"validator", // service name
		cliCtx.String(cmd.TracingProcessNameFlag.Name),
		cliCtx.String(cmd.TracingEndpointFlag.Name),
		cliCtx.Float64(cmd.TraceSampleFractionFlag.Name),
		cliCtx.Bool(cmd.EnableTracingFlag.Name),
	); err != nil {
		return nil, err
	}

	// Warn if user's platform is not supported
	prereqs.WarnIfPlatformNotSupported(cliCtx.Context)

	verbosity := cliCtx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	features.ConfigureValidator(cliCtx)
	cmd.ConfigureValidator(cliCtx)

	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		chainConfigFileName := cliCtx.String(cmd.ChainConfigFileFlag.Name)
		params.LoadChainConfigFile(chainConfigFileName)
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	validatorClient := &ValidatorClient{
		cliCtx:          cliCtx,
		ctx:             ctx,
		cancel:          cancel,
		services:        runtime.NewServiceRegistry(),
		stop:            make(chan struct{}),
		stateFeed:       new(event.Feed),
		opFeed:          new(event.Feed),
		attestationPool: attestations.NewPool(),
	}

	km, err := SelectKeymanager(cliCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	validatorClient.keyManager = km

	pubKeys, err := km.FetchValidatingPublicKeys(ctx)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not fetch validating public keys")
	}
	if len(pubKeys) == 0 {
		log.Warn("No keys found; nothing to validate")
	} else {
		log.WithField("validators", len(pubKeys)).Debug("Found validator keys")
		for _, key := range pubKeys {
			log.WithField("pubKey", fmt.Sprintf("%#x", bytesutil.Trunc(key[:]))).Info("Validating for public key")
		}
	}

	if err := validatorClient.startValidatorDB(cliCtx, pubKeys); err != nil {
		cancel()
		return nil, err
	}

	validatorClient.forkChoiceStore = protoarray.New(0, 0, params.BeaconConfig().ZeroHash)
	validatorClient.beaconDB = db.NewDB()

	if err := validatorClient.registerAttestationPool(); err != nil {
		cancel()
		return nil, err
	}
	if err := validatorClient.registerBlockchainService(cliCtx); err != nil {
		cancel()
		return nil, err
	}
	if err := validatorClient.registerClientService(cliCtx); err != nil {
		cancel()
		return nil, err
	}
	if !cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		if err := validatorClient.registerPrometheusService(cliCtx); err != nil {
			cancel()
			return nil, err
		}
	}

	return validatorClient, nil
}

// StateFeed implements statefeed.Notifier.
func (c *ValidatorClient) StateFeed() *event.Feed {
	return c.stateFeed
}

// OperationFeed implements opfeed.Notifier.
func (c *ValidatorClient) OperationFeed() *event.Feed {
	return c.opFeed
}

// Start every service in the validator client.
func (c *ValidatorClient) Start() {
	c.lock.Lock()

	log.WithFields(logrus.Fields{
		"version": version.Version(),
	}).Info("Starting validator node")

	c.services.StartAll()

	stop := c.stop
	c.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		debug.Exit(c.cliCtx) // Ensure trace and CPU profile data are flushed.
		go c.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the validator client")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (c *ValidatorClient) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	log.Info("Stopping validator node")
	c.services.StopAll()
	if err := c.valDB.Close(); err != nil {
		log.Errorf("Failed to close validator database: %v", err)
	}
	if err := c.beaconDB.Close(); err != nil {
		log.Errorf("Failed to close beacon database: %v", err)
	}
	c.cancel()
	close(c.stop)
}

func (c *ValidatorClient) startValidatorDB(cliCtx *cli.Context, pubKeys [][48]byte) error {
	dataDir := cliCtx.String(cmd.DataDirFlag.Name)
	if dataDir == "" {
		dataDir = cmd.DefaultDataDir()
		if dataDir == "" {
			log.Fatal(
				"Could not determine your system's HOME path, please specify a --datadir you wish " +
					"to use for your validator data",
			)
		}
	}
	clearFlag := cliCtx.Bool(cmd.ClearDB.Name)
	forceClearFlag := cliCtx.Bool(cmd.ForceClearDB.Name)
	if clearFlag || forceClearFlag {
		if err := clearDB(cliCtx.Context, dataDir, pubKeys, forceClearFlag); err != nil {
			return err
		}
	}
	log.WithField("databasePath", dataDir).Info("Checking DB")

	valDB, err := kv.NewKVStore(cliCtx.Context, dataDir, pubKeys)
	if err != nil {
		return errors.Wrap(err, "could not initialize db")
	}
	c.valDB = valDB
	return nil
}

func (c *ValidatorClient) registerAttestationPool() error {
	s, err := attestations.NewService(c.ctx, &attestations.Config{
		Pool: c.attestationPool,
	})
	if err != nil {
		return errors.Wrap(err, "could not register atts pool service")
	}
	return c.services.RegisterService(s)
}

func (c *ValidatorClient) registerBlockchainService(cliCtx *cli.Context) error {
	var genesisState state.BeaconState
	if numValidators := cliCtx.Uint64(flags.InteropNumValidators.Name); numValidators > 0 {
		genesisTime := cliCtx.Uint64(flags.InteropGenesisTimeFlag.Name)
		st, _, err := interop.GenerateGenesisState(c.ctx, genesisTime, numValidators)
		if err != nil {
			return errors.Wrap(err, "could not generate interop genesis state")
		}
		genesisState = st
	}

	blockchainService, err := blockchain.NewService(c.ctx, &blockchain.Config{
		BeaconDB:          c.beaconDB,
		AttPool:           c.attestationPool,
		ForkChoiceStore:   c.forkChoiceStore,
		StateNotifier:     c,
		OperationNotifier: c,
		GenesisState:      genesisState,
	})
	if err != nil {
		return errors.Wrap(err, "could not register blockchain service")
	}
	return c.services.RegisterService(blockchainService)
}

func (c *ValidatorClient) registerClientService(cliCtx *cli.Context) error {
	var chainService *blockchain.Service
	if err := c.services.FetchService(&chainService); err != nil {
		return err
	}

	graffiti := cliCtx.String(flags.GraffitiFlag.Name)
	emitAccountMetrics := !cliCtx.Bool(flags.DisableAccountMetricsFlag.Name)

	v, err := client.NewService(c.ctx, &client.Config{
		Chain:              chainService,
		StateNotifier:      c,
		KeyManager:         c.keyManager,
		ValDB:              c.valDB,
		Graffiti:           []byte(graffiti),
		EmitAccountMetrics: emitAccountMetrics,
	})
	if err != nil {
		return errors.Wrap(err, "could not initialize validator service")
	}
	return c.services.RegisterService(v)
}

func (c *ValidatorClient) registerPrometheusService(cliCtx *cli.Context) error {
	var additionalHandlers []prometheus.Handler

	var chainService *blockchain.Service
	if err := c.services.FetchService(&chainService); err != nil {
		return err
	}
	additionalHandlers = append(
		additionalHandlers,
		prometheus.Handler{Path: "/tree", Handler: chainService.TreeHandler},
	)

	if cliCtx.IsSet(cmd.EnableBackupWebhookFlag.Name) {
		additionalHandlers = append(
			additionalHandlers,
			prometheus.Handler{
				Path:    "/db/backup",
				Handler: backup.Handler(c.valDB, cliCtx.String(cmd.BackupWebhookOutputDir.Name)),
			},
		)
	}

	service := prometheus.NewService(
		fmt.Sprintf("%s:%d", cliCtx.String(cmd.MonitoringHostFlag.Name), cliCtx.Int(flags.MonitoringPortFlag.Name)),
		c.services,
		additionalHandlers...,
	)
	hook := prometheus.NewLogrusCollector()
	logrus.AddHook(hook)
	return c.services.RegisterService(service)
}

// SelectKeymanager instantiates a keymanager based on the CLI flags. Interop
// keys take precedence, then a local wallet directory, then a mnemonic file.
func SelectKeymanager(cliCtx *cli.Context) (keymanager.Keymanager, error) {
	if numValidators := cliCtx.Uint64(flags.InteropNumValidators.Name); numValidators > 0 {
		return interopkm.NewKeymanager(cliCtx.Context, &interopkm.Config{
			Offset:           cliCtx.Uint64(flags.InteropStartIndex.Name),
			NumValidatorKeys: numValidators,
		})
	}
	if walletDir := cliCtx.String(flags.WalletDirFlag.Name); walletDir != "" {
		passwordFile := cliCtx.String(flags.WalletPasswordFileFlag.Name)
		if passwordFile == "" {
			return nil, fmt.Errorf("%s is required with %s", flags.WalletPasswordFileFlag.Name, flags.WalletDirFlag.Name)
		}
		enc, err := file.ReadFileAsBytes(passwordFile)
		if err != nil {
			return nil, errors.Wrap(err, "could not read wallet password file")
		}
		return local.NewKeymanager(cliCtx.Context, &local.Config{
			AccountsDir: walletDir,
			Password:    strings.TrimSpace(string(enc)),
		})
	}
	if mnemonicFile := cliCtx.String(flags.MnemonicFileFlag.Name); mnemonicFile != "" {
		enc, err := file.ReadFileAsBytes(mnemonicFile)
		if err != nil {
			return nil, errors.Wrap(err, "could not read mnemonic file")
		}
		return derived.NewKeymanager(cliCtx.Context, &derived.Config{
			Mnemonic:    strings.TrimSpace(string(enc)),
			NumAccounts: cliCtx.Int(flags.NumAccountsFlag.Name),
		})
	}
	return nil, errors.New(
		"no keymanager specified, provide --interop-num-validators, --wallet-dir or --mnemonic-file",
	)
}

func clearDB(ctx context.Context, dataDir string, pubKeys [][48]byte, force bool) error {
	var err error
	clearDBConfirmed := force
	if !force {
		actionText := "This will delete your validator's historical actions database stored in your data directory. " +
			"This may lead to potential slashing - do you want to proceed? (Y/N)"
		deniedText := "The historical actions database will not be deleted. No changes have been made."
		clearDBConfirmed, err = cmd.ConfirmAction(actionText, deniedText)
		if err != nil {
			return errors.Wrapf(err, "could not clear DB in dir %s", dataDir)
		}
	}
	if clearDBConfirmed {
		valDB, err := kv.NewKVStore(ctx, dataDir, pubKeys)
		if err != nil {
			return errors.Wrapf(err, "could not create DB in dir %s", dataDir)
		}
		if err := valDB.Close(); err != nil {
			return errors.Wrapf(err, "could not close DB in dir %s", dataDir)
		}

		log.Warning("Removing database")
		if err := valDB.ClearDB(); err != nil {
			return errors.Wrapf(err, "could not clear DB in dir %s", dataDir)
		}
	}
	return nil
}
