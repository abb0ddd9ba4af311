package kv

var (
	// Genesis information bucket key.
	genesisInfoBucket = []byte("genesis-info-bucket")

	// Validator slashing protection from double proposals.
	historicProposalsBucket = []byte("proposal-history-bucket-interchange")
	// Validator slashing protection from slashable attestations.
	pubKeysBucket                 = []byte("pubkeys-bucket")
	attestationSigningRootsBucket = []byte("att-signing-roots-bucket")
	attestationSourceEpochsBucket = []byte("att-source-epochs-bucket")
	attestationTargetEpochsBucket = []byte("att-target-epochs-bucket")

	// Buckets for storing the lowest signed source and target epoch for individual validator.
	lowestSignedSourceBucket = []byte("lowest-signed-source-bucket")
	lowestSignedTargetBucket = []byte("lowest-signed-target-bucket")

	// Lowest and highest signed proposals.
	lowestSignedProposalsBucket  = []byte("lowest-signed-proposals-bucket")
	highestSignedProposalsBucket = []byte("highest-signed-proposals-bucket")

	// Key to the genesis validators root inside the genesis info bucket.
	genesisValidatorsRootKey = []byte("genesis-val-root")
)
