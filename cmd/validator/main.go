// Package main defines the entry point for the Pharos validator binary, a
// client which manages validating keys, performs attester, proposer and
// aggregator duties and guards every signature with slashing protection.
package main

import (
	"fmt"
	"os"
	runtimeDebug "runtime/debug"

	joonix "github.com/joonix/log"
	"github.com/pharoslabs/pharos/cmd"
	accountscmd "github.com/pharoslabs/pharos/cmd/validator/accounts"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	historycmd "github.com/pharoslabs/pharos/cmd/validator/slashing-protection"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/pharoslabs/pharos/io/logs"
	"github.com/pharoslabs/pharos/runtime/debug"
	"github.com/pharoslabs/pharos/runtime/version"
	"github.com/pharoslabs/pharos/validator/node"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	"github.com/wercker/journalhook"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	_ "go.uber.org/automaxprocs"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	cmd.MinimalConfigFlag,
	cmd.VerbosityFlag,
	cmd.DataDirFlag,
	cmd.EnableTracingFlag,
	cmd.TracingProcessNameFlag,
	cmd.TracingEndpointFlag,
	cmd.TraceSampleFractionFlag,
	cmd.MonitoringHostFlag,
	flags.MonitoringPortFlag,
	cmd.DisableMonitoringFlag,
	cmd.MaxGoroutines,
	cmd.ForceClearDB,
	cmd.ClearDB,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.ConfigFileFlag,
	cmd.ChainConfigFileFlag,
	cmd.EnableBackupWebhookFlag,
	cmd.BackupWebhookOutputDir,
	flags.GraffitiFlag,
	flags.DisableAccountMetricsFlag,
	flags.WalletDirFlag,
	flags.WalletPasswordFileFlag,
	flags.MnemonicFileFlag,
	flags.NumAccountsFlag,
	flags.InteropNumValidators,
	flags.InteropStartIndex,
	flags.InteropGenesisTimeFlag,
	debug.PProfFlag,
	debug.PProfAddrFlag,
	debug.PProfPortFlag,
	debug.MemProfileRateFlag,
	debug.MutexProfileFractionFlag,
	debug.BlockProfileRateFlag,
	debug.CPUProfileFlag,
	debug.TraceFlag,
}

func init() {
	appFlags = cmd.WrapFlags(append(appFlags, features.ValidatorFlags...))
}

func startNode(ctx *cli.Context) error {
	validatorClient, err := node.NewValidatorClient(ctx)
	if err != nil {
		return err
	}
	validatorClient.Start()
	return nil
}

func main() {
	app := cli.App{}
	app.Name = "validator"
	app.Usage = `launches a Pharos validator client that interacts with a beacon chain, starts proposer and attester services, and more`
	app.Version = version.Version()
	app.Action = startNode
	app.Commands = []*cli.Command{
		accountscmd.Commands,
		historycmd.Commands,
	}
	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		// Load flags from config file, if specified.
		if ctx.IsSet(cmd.ConfigFileFlag.Name) {
			if err := altsrc.InitInputSourceWithContext(
				appFlags,
				altsrc.NewYamlSourceFromFlagFunc(cmd.ConfigFileFlag.Name),
			)(ctx); err != nil {
				return err
			}
		}

		format := ctx.String(cmd.LogFormat.Name)
		switch format {
		case "text":
			formatter := new(prefixed.TextFormatter)
			formatter.TimestampFormat = "2006-01-02 15:04:05"
			formatter.FullTimestamp = true
			// If persistent log files are written - we disable the log messages coloring because
			// the colors are ANSI codes and seen as gibberish in the log files.
			formatter.DisableColors = ctx.String(cmd.LogFileName.Name) != ""
			logrus.SetFormatter(formatter)
		case "fluentd":
			logrus.SetFormatter(joonix.NewFormatter())
		case "json":
			logrus.SetFormatter(&logrus.JSONFormatter{})
		case "journald":
			journalhook.Enable()
		default:
			return fmt.Errorf("unknown log format %s", format)
		}

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logs.ConfigurePersistentLogging(logFileName); err != nil {
				log.WithError(err).Error("Failed to configuring logging to disk")
			}
		}
		return debug.Setup(ctx)
	}

	app.After = func(ctx *cli.Context) error {
		debug.Exit(ctx)
		return nil
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
