package historycmd

import (
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"testing"

	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/validator/db/kv"
	history "github.com/pharoslabs/pharos/validator/slashing-protection-history"
	"github.com/pharoslabs/pharos/validator/slashing-protection-history/format"
	"github.com/urfave/cli/v2"
)

func setupCliCtx(t *testing.T, dataDir, jsonFile, exportDir string) *cli.Context {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(cmd.DataDirFlag.Name, dataDir, "")
	set.String(flags.SlashingProtectionJSONFileFlag.Name, jsonFile, "")
	set.String(flags.SlashingProtectionExportDirFlag.Name, exportDir, "")
	return cli.NewContext(&app, set, nil)
}

func TestImportExportSlashingProtectionCli_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	pubKey := [48]byte{1}

	// Seed a database with signing history for one key.
	validatorDB, err := kv.NewKVStore(ctx, dataDir, [][48]byte{pubKey})
	require.NoError(t, err)
	genesisValidatorsRoot := [32]byte{7}
	require.NoError(t, validatorDB.SaveGenesisValidatorsRoot(ctx, genesisValidatorsRoot[:]))
	att := &ethpb.IndexedAttestation{
		Data: &ethpb.AttestationData{
			Source: &ethpb.Checkpoint{Epoch: 0},
			Target: &ethpb.Checkpoint{Epoch: 1},
		},
	}
	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKey, [32]byte{2}, att)
	require.NoError(t, err)
	require.NoError(t, validatorDB.Close())

	exportDir := t.TempDir()
	cliCtx := setupCliCtx(t, dataDir, "", exportDir)
	require.NoError(t, exportSlashingProtectionJSON(cliCtx))

	exportedPath := filepath.Join(exportDir, jsonExportFileName)
	enc, err := file.ReadFileAsBytes(exportedPath)
	require.NoError(t, err)
	exported := &format.EIPSlashingProtectionFormat{}
	require.NoError(t, json.Unmarshal(enc, exported))
	require.Equal(t, 1, len(exported.Data))

	// Import into a fresh data directory and export again.
	targetDir := t.TempDir()
	cliCtx = setupCliCtx(t, targetDir, exportedPath, "")
	require.NoError(t, importSlashingProtectionJSON(cliCtx))

	targetDB, err := kv.NewKVStore(ctx, targetDir, nil)
	require.NoError(t, err)
	reExported, err := history.ExportStandardProtectionJSON(ctx, targetDB)
	require.NoError(t, err)
	require.NoError(t, targetDB.Close())
	require.DeepEqual(t, exported, reExported)
}

func TestImportSlashingProtectionCli_RequiredFlags(t *testing.T) {
	cliCtx := setupCliCtx(t, "", "", "")
	require.ErrorContains(t, cmd.DataDirFlag.Name, importSlashingProtectionJSON(cliCtx))

	cliCtx = setupCliCtx(t, t.TempDir(), "", "")
	require.ErrorContains(t, flags.SlashingProtectionJSONFileFlag.Name, importSlashingProtectionJSON(cliCtx))
}

func TestExportSlashingProtectionCli_RequiredFlags(t *testing.T) {
	cliCtx := setupCliCtx(t, "", "", "")
	require.ErrorContains(t, cmd.DataDirFlag.Name, exportSlashingProtectionJSON(cliCtx))
}
