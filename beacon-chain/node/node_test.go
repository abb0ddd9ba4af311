package node

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/beacon-chain/flags"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/testing/require"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/urfave/cli/v2"
)

// Test that the beacon node can build with default flag values.
func TestNode_Builds(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.UseMinimalConfig()
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(cmd.DataDirFlag.Name, filepath.Join(t.TempDir(), "datadir"), "the node data directory")
	set.Bool(cmd.DisableMonitoringFlag.Name, true, "disable monitoring")
	set.Uint64(flags.InteropNumValidatorsFlag.Name, 4, "number of interop validators")
	ctx := cli.NewContext(&app, set, nil)

	node, err := New(ctx)
	require.NoError(t, err, "Failed to create BeaconNode")
	node.Close()
}

// TestClearDB tests clearing the database
func TestClearDB(t *testing.T) {
	hook := logtest.NewGlobal()
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(cmd.DataDirFlag.Name, filepath.Join(t.TempDir(), "datadirtest"), "the node data directory")
	set.Bool(cmd.DisableMonitoringFlag.Name, true, "disable monitoring")
	set.Bool(cmd.ForceClearDB.Name, true, "force clear db")
	ctx := cli.NewContext(&app, set, nil)

	_, err := New(ctx)
	require.NoError(t, err)
	require.LogsContain(t, hook, "Removing database")
}
