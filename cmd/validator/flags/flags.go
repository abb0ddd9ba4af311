// Package flags contains all configuration runtime flags for
// the validator service.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8081,
	}
	// GraffitiFlag defines the graffiti value included in proposed blocks.
	GraffitiFlag = &cli.StringFlag{
		Name:  "graffiti",
		Usage: "String to include in proposed blocks",
	}
	// DisableAccountMetricsFlag disables the prometheus metrics for validator accounts, default false.
	DisableAccountMetricsFlag = &cli.BoolFlag{
		Name: "disable-account-metrics",
		Usage: "Disable prometheus metrics for validator accounts. Operators with high volumes " +
			"of validating keys may wish to disable granular prometheus metrics as it increases " +
			"the data cardinality.",
	}
	// WalletDirFlag defines the path to the accounts keystore directory for the local keymanager.
	WalletDirFlag = &cli.StringFlag{
		Name:  "wallet-dir",
		Usage: "Path to a wallet directory on-disk for the validator accounts",
	}
	// WalletPasswordFileFlag is the path to a file containing the wallet password.
	WalletPasswordFileFlag = &cli.StringFlag{
		Name:  "wallet-password-file",
		Usage: "Path to a plain-text, .txt file containing the wallet password",
	}
	// MnemonicFileFlag is the path to a file containing the bip39 mnemonic for the derived keymanager.
	MnemonicFileFlag = &cli.StringFlag{
		Name:  "mnemonic-file",
		Usage: "Path to a plain-text, .txt file containing a bip39 seed phrase to derive validator keys from",
	}
	// NumAccountsFlag defines the number of accounts to derive from the mnemonic.
	NumAccountsFlag = &cli.IntFlag{
		Name:  "num-accounts",
		Usage: "Number of accounts to derive from the mnemonic",
		Value: 1,
	}
	// InteropNumValidators defines a number of validators to run using deterministic interop keys.
	InteropNumValidators = &cli.Uint64Flag{
		Name:  "interop-num-validators",
		Usage: "The number of validators to run using deterministic interop keys",
	}
	// InteropStartIndex defines the start index when running with deterministic interop keys.
	InteropStartIndex = &cli.Uint64Flag{
		Name:  "interop-start-index",
		Usage: "The start index to run with deterministic interop keys. Takes precedence over the private key file flag",
	}
	// InteropGenesisTimeFlag specifies genesis time for interop state generation.
	InteropGenesisTimeFlag = &cli.Uint64Flag{
		Name:  "interop-genesis-time",
		Usage: "Specify the genesis time for interop genesis state generation",
	}
	// SlashingProtectionJSONFileFlag specifies the file path of a slashing protection JSON file.
	SlashingProtectionJSONFileFlag = &cli.StringFlag{
		Name:  "slashing-protection-json-file",
		Usage: "Path to an EIP-3076 compliant JSON file containing a user's slashing protection history",
	}
	// SlashingProtectionExportDirFlag specifies the output directory of the exported history.
	SlashingProtectionExportDirFlag = &cli.StringFlag{
		Name:  "slashing-protection-export-dir",
		Usage: "Allows users to specify the output directory to export their slashing protection EIP-3076 standard JSON File",
	}
)
