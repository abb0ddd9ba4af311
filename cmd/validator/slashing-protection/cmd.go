// Package historycmd defines commands to import and export slashing
// protection history in the EIP-3076 interchange format.
package historycmd

import (
	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/urfave/cli/v2"
)

// Commands for importing and exporting slashing protection history.
var Commands = &cli.Command{
	Name:     "slashing-protection-history",
	Category: "slashing-protection",
	Usage:    "defines commands for interacting with the slashing protection history",
	Subcommands: []*cli.Command{
		{
			Name: "export",
			Description: `exports the validator's slashing protection history into an EIP-3076 compliant JSON
file the user can take with them to another machine or validator client`,
			Flags: cmd.WrapFlags([]cli.Flag{
				cmd.DataDirFlag,
				flags.SlashingProtectionExportDirFlag,
				cmd.ConfigFileFlag,
			}),
			Before: func(cliCtx *cli.Context) error {
				features.ConfigureValidator(cliCtx)
				return nil
			},
			Action: exportSlashingProtectionJSON,
		},
		{
			Name: "import",
			Description: `imports an EIP-3076 compliant JSON file into the validator's slashing protection
database, merging its attestation and proposal history with the existing records`,
			Flags: cmd.WrapFlags([]cli.Flag{
				cmd.DataDirFlag,
				flags.SlashingProtectionJSONFileFlag,
				cmd.ConfigFileFlag,
			}),
			Before: func(cliCtx *cli.Context) error {
				features.ConfigureValidator(cliCtx)
				return nil
			},
			Action: importSlashingProtectionJSON,
		},
	},
}
