//go:build !minimal

package field_params

const (
	Preset                          = "mainnet"
	BlockRootsLength                = 8192          // SLOTS_PER_HISTORICAL_ROOT
	StateRootsLength                = 8192          // SLOTS_PER_HISTORICAL_ROOT
	RandaoMixesLength               = 65536         // EPOCHS_PER_HISTORICAL_VECTOR
	HistoricalRootsLength           = 16777216      // HISTORICAL_ROOTS_LIMIT
	ValidatorRegistryLimit          = 1099511627776 // VALIDATOR_REGISTRY_LIMIT
	Eth1DataVotesLength             = 2048          // EPOCHS_PER_ETH1_VOTING_PERIOD * SLOTS_PER_EPOCH
	PreviousEpochAttestationsLength = 4096          // MAX_ATTESTATIONS * SLOTS_PER_EPOCH
	CurrentEpochAttestationsLength  = 4096          // MAX_ATTESTATIONS * SLOTS_PER_EPOCH
	SlashingsLength                 = 8192          // EPOCHS_PER_SLASHINGS_VECTOR
	RootLength                      = 32            // RootLength defines the byte length of a Merkle root.
	BLSSignatureLength              = 96            // BLSSignatureLength defines the byte length of a BLSSignature.
	BLSPubkeyLength                 = 48            // BLSPubkeyLength defines the byte length of a BLSPubkey.
	BLSSecretKeyLength              = 32            // BLSSecretKeyLength defines the byte length of a BLSSecretKey.
	VersionLength                   = 4             // VersionLength defines the byte length of a fork version number.
	SlotsPerEpoch                   = 32            // SlotsPerEpoch defines the number of slots per epoch.
)
