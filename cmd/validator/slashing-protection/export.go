package historycmd

import (
	"encoding/json"
	"path/filepath"

	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/validator/db/kv"
	history "github.com/pharoslabs/pharos/validator/slashing-protection-history"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const jsonExportFileName = "slashing_protection.json"

// Extracts a validator's slashing protection
// history from their database and formats it into an EIP-3076 standard JSON
// file via a CLI entrypoint to make it easy to migrate machines or clients.
func exportSlashingProtectionJSON(cliCtx *cli.Context) error {
	log.Info(
		"This command exports your validator's attestation and proposal history into " +
			"a file that can then be imported by any other client that supports the standard JSON format",
	)
	dataDir := cliCtx.String(cmd.DataDirFlag.Name)
	if dataDir == "" {
		return errors.Errorf("--%s is required", cmd.DataDirFlag.Name)
	}
	validatorDB, err := kv.NewKVStore(cliCtx.Context, dataDir, nil)
	if err != nil {
		return errors.Wrapf(err, "could not access validator database at path %s", dataDir)
	}
	defer func() {
		if err := validatorDB.Close(); err != nil {
			log.WithError(err).Error("Could not close validator DB")
		}
	}()
	eipJSON, err := history.ExportStandardProtectionJSON(cliCtx.Context, validatorDB)
	if err != nil {
		return errors.Wrap(err, "could not export slashing protection history")
	}

	outputDir := cliCtx.String(flags.SlashingProtectionExportDirFlag.Name)
	if outputDir == "" {
		return errors.Errorf("--%s is required", flags.SlashingProtectionExportDirFlag.Name)
	}
	exists, err := file.HasDir(outputDir)
	if err != nil {
		return errors.Wrapf(err, "could not check if output directory %s exists", outputDir)
	}
	if !exists {
		if err := file.MkdirAll(outputDir); err != nil {
			return errors.Wrapf(err, "could not create output directory %s", outputDir)
		}
	}
	outputFilePath := filepath.Join(outputDir, jsonExportFileName)
	encoded, err := json.MarshalIndent(eipJSON, "", "\t")
	if err != nil {
		return errors.Wrap(err, "could not JSON marshal slashing protection history")
	}
	if err := file.WriteFile(outputFilePath, encoded); err != nil {
		return errors.Wrapf(err, "could not write file to path %s", outputFilePath)
	}
	log.Infof(
		"Successfully wrote %s. You can import this file using our "+
			"slashing-protection-history import command in another machine or client",
		outputFilePath,
	)
	return nil
}
