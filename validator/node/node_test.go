package node

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/testing/require"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"
)

// Test that the validator client can build with interop keys and default flag values.
func TestNode_Builds(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.UseMinimalConfig()
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(cmd.DataDirFlag.Name, filepath.Join(t.TempDir(), "datadir"), "the node data directory")
	set.String(cmd.VerbosityFlag.Name, "debug", "log verbosity")
	set.Bool(cmd.DisableMonitoringFlag.Name, true, "disable monitoring")
	set.Uint64(flags.InteropNumValidators.Name, 4, "number of interop validators")
	ctx := cli.NewContext(&app, set, nil)

	valClient, err := NewValidatorClient(ctx)
	require.NoError(t, err, "Failed to create ValidatorClient")
	require.NoError(t, valClient.valDB.Close())
	require.NoError(t, valClient.beaconDB.Close())
}

func TestNode_NoKeymanager(t *testing.T) {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(cmd.DataDirFlag.Name, filepath.Join(t.TempDir(), "datadir"), "the node data directory")
	set.String(cmd.VerbosityFlag.Name, "info", "log verbosity")
	ctx := cli.NewContext(&app, set, nil)

	_, err := NewValidatorClient(ctx)
	require.ErrorContains(t, "no keymanager specified", err)
}

// TestClearDB tests clearing the database
func TestClearDB(t *testing.T) {
	hook := logtest.NewGlobal()
	tmp := filepath.Join(t.TempDir(), "datadirtest")
	require.NoError(t, clearDB(context.Background(), tmp, nil, true))
	require.LogsContain(t, hook, "Removing database")
}

func TestSelectKeymanager_Mnemonic(t *testing.T) {
	mnemonicDir := t.TempDir()
	mnemonicFile := filepath.Join(mnemonicDir, "mnemonic.txt")
	mnemonic, err := bip39.NewMnemonic(make([]byte, 32))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(mnemonicFile, []byte(mnemonic+"\n"), os.ModePerm))

	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(flags.MnemonicFileFlag.Name, mnemonicFile, "path to mnemonic")
	set.Int(flags.NumAccountsFlag.Name, 2, "number of accounts")
	ctx := cli.NewContext(&app, set, nil)

	km, err := SelectKeymanager(ctx)
	require.NoError(t, err)
	pubKeys, err := km.FetchValidatingPublicKeys(ctx.Context)
	require.NoError(t, err)
	require.Equal(t, 2, len(pubKeys))
}
