package historycmd

import (
	"bytes"

	"github.com/pharoslabs/pharos/cmd"
	"github.com/pharoslabs/pharos/cmd/validator/flags"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/validator/db/kv"
	history "github.com/pharoslabs/pharos/validator/slashing-protection-history"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Reads an input slashing protection EIP-3076
// standard JSON file and attempts to insert its data into our validator DB.
func importSlashingProtectionJSON(cliCtx *cli.Context) error {
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

	protectionFilePath := cliCtx.String(flags.SlashingProtectionJSONFileFlag.Name)
	if protectionFilePath == "" {
		return errors.Errorf("--%s is required", flags.SlashingProtectionJSONFileFlag.Name)
	}
	enc, err := file.ReadFileAsBytes(protectionFilePath)
	if err != nil {
		return err
	}
	log.Infof("Starting import of slashing protection file %s", protectionFilePath)
	buf := bytes.NewBuffer(enc)
	if err := history.ImportStandardProtectionJSON(cliCtx.Context, validatorDB, buf); err != nil {
		return err
	}
	log.Info("Slashing protection JSON successfully imported")
	return nil
}
