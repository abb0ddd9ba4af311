// Package accounts defines commands to inspect the validating accounts
// managed by a keymanager.
package accounts

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/pharoslabs/pharos/validator/node"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Commands for managing validator accounts.
var Commands = &cli.Command{
	Name:     "accounts",
	Category: "accounts",
	Usage:    "defines commands for interacting with validator accounts",
	Subcommands: []*cli.Command{
		{
			Name:        "list",
			Description: "Lists all validator accounts owned by the configured keymanager",
			Flags: cmd.WrapFlags([]cli.Flag{
				flags.WalletDirFlag,
				flags.WalletPasswordFileFlag,
				flags.MnemonicFileFlag,
				flags.NumAccountsFlag,
				flags.InteropNumValidators,
				flags.InteropStartIndex,
				cmd.ChainConfigFileFlag,
				cmd.ConfigFileFlag,
			}),
			Before: func(cliCtx *cli.Context) error {
				features.ConfigureValidator(cliCtx)
				return nil
			},
			Action: listAccounts,
		},
	},
}

func listAccounts(cliCtx *cli.Context) error {
	km, err := node.SelectKeymanager(cliCtx)
	if err != nil {
		return errors.Wrap(err, "could not initialize keymanager")
	}
	pubKeys, err := km.FetchValidatingPublicKeys(cliCtx.Context)
	if err != nil {
		return errors.Wrap(err, "could not fetch validating public keys")
	}
	au := aurora.NewAurora(true)
	if len(pubKeys) == 1 {
		fmt.Print("Showing 1 validator account\n")
	} else {
		fmt.Printf("Showing %d validator accounts\n", len(pubKeys))
	}
	for i, key := range pubKeys {
		fmt.Println("")
		fmt.Printf("%s | %s\n", au.BrightBlue(fmt.Sprintf("Account %d", i)).Bold(), au.BrightGreen(fmt.Sprintf("account-%d", i)).Bold())
		fmt.Printf("%s %#x\n", au.BrightMagenta("[validating public key]").Bold(), key)
	}
	fmt.Println("")
	return nil
}
