package stateutil

import (
	fieldparams "github.com/pharoslabs/pharos/config/fieldparams"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	types "github.com/prysmaticlabs/eth2-types"
)

// ValidatorMapHandler is a container for the validator public key to index
// map owned by a beacon state.
type ValidatorMapHandler struct {
	valIdxMap map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex
}

// NewValMapHandler returns a new validator map handler built from the
// provided registry.
func NewValMapHandler(vals []*ethpb.Validator) *ValidatorMapHandler {
	return &ValidatorMapHandler{
		valIdxMap: ValidatorIndexMap(vals),
	}
}

// IsNil returns true if the handler or its underlying map is not initialized.
func (v *ValidatorMapHandler) IsNil() bool {
	return v == nil || v.valIdxMap == nil
}

// Get the validator index using the corresponding public key.
func (v *ValidatorMapHandler) Get(key [fieldparams.BLSPubkeyLength]byte) (types.ValidatorIndex, bool) {
	idx, ok := v.valIdxMap[key]
	if !ok {
		return 0, false
	}
	return idx, true
}

// Set the validator index using the corresponding public key.
func (v *ValidatorMapHandler) Set(key [fieldparams.BLSPubkeyLength]byte, index types.ValidatorIndex) {
	v.valIdxMap[key] = index
}

// Copy returns a new handler with a duplicated map.
func (v *ValidatorMapHandler) Copy() *ValidatorMapHandler {
	if v == nil || v.valIdxMap == nil {
		return &ValidatorMapHandler{valIdxMap: map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex{}}
	}
	m := make(map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex, len(v.valIdxMap))
	for k, idx := range v.valIdxMap {
		m[k] = idx
	}
	return &ValidatorMapHandler{valIdxMap: m}
}

// ValidatorIndexMap returns the underlying validator index map.
func (v *ValidatorMapHandler) ValidatorIndexMap() map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex {
	return v.valIdxMap
}

// ValidatorIndexMap builds the lookup map for quickly determining the index
// of a validator by their public key.
func ValidatorIndexMap(validators []*ethpb.Validator) map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex {
	m := make(map[[fieldparams.BLSPubkeyLength]byte]types.ValidatorIndex, len(validators))
	if validators == nil {
		return m
	}
	for idx, record := range validators {
		if record == nil {
			continue
		}
		key := bytesutil.ToBytes48(record.PublicKey)
		m[key] = types.ValidatorIndex(idx)
	}
	return m
}
