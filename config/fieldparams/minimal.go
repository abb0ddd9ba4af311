//go:build minimal

package field_params

const (
	Preset                          = "minimal"
	BlockRootsLength                = 64         // SLOTS_PER_HISTORICAL_ROOT
	StateRootsLength                = 64         // SLOTS_PER_HISTORICAL_ROOT
	RandaoMixesLength               = 64         // EPOCHS_PER_HISTORICAL_VECTOR
	HistoricalRootsLength           = 16777216   // HISTORICAL_ROOTS_LIMIT
	ValidatorRegistryLimit          = 1099511627776
	Eth1DataVotesLength             = 32         // EPOCHS_PER_ETH1_VOTING_PERIOD * SLOTS_PER_EPOCH
	PreviousEpochAttestationsLength = 1024       // MAX_ATTESTATIONS * SLOTS_PER_EPOCH
	CurrentEpochAttestationsLength  = 1024       // MAX_ATTESTATIONS * SLOTS_PER_EPOCH
	SlashingsLength                 = 64         // EPOCHS_PER_SLASHINGS_VECTOR
	RootLength                      = 32
	BLSSignatureLength              = 96
	BLSPubkeyLength                 = 48
	BLSSecretKeyLength              = 32
	VersionLength                   = 4
	SlotsPerEpoch                   = 8
)
