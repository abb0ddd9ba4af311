// Package format includes the structure of the EIP-3076 standard
// slashing protection interchange JSON.
package format

// InterchangeFormatVersion used by the EIP-3076 standard.
const InterchangeFormatVersion = "5"

// EIPSlashingProtectionFormat string representation of the standard
// slashing protection interchange format defined in EIP-3076.
type EIPSlashingProtectionFormat struct {
	Metadata struct {
		InterchangeFormatVersion string `json:"interchange_format_version" validate:"required"`
		GenesisValidatorsRoot    string `json:"genesis_validators_root" validate:"required,hexadecimal"`
	} `json:"metadata"`
	Data []*ProtectionData `json:"data" validate:"required,dive,required"`
}

// ProtectionData contains the signed blocks and signed attestations
// of a single validator public key.
type ProtectionData struct {
	Pubkey             string               `json:"pubkey" validate:"required,hexadecimal"`
	SignedBlocks       []*SignedBlock       `json:"signed_blocks"`
	SignedAttestations []*SignedAttestation `json:"signed_attestations"`
}

// SignedAttestation in the standard format, using string representations
// of the epochs and an optional, hex-encoded signing root.
type SignedAttestation struct {
	SourceEpoch string `json:"source_epoch" validate:"required,number,gte=0"`
	TargetEpoch string `json:"target_epoch" validate:"required,number,gte=0"`
	SigningRoot string `json:"signing_root,omitempty" validate:"omitempty,hexadecimal"`
}

// SignedBlock in the standard format, using a string representation of
// the slot and an optional, hex-encoded signing root.
type SignedBlock struct {
	Slot        string `json:"slot" validate:"required,number,gte=0"`
	SigningRoot string `json:"signing_root,omitempty" validate:"omitempty,hexadecimal"`
}
