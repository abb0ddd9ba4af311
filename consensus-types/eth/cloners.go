package eth

import (
	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

// Copier has the ability to deep copy the object.
type Copier[T any] interface {
	Copy() T
}

// Copy --
func (cp *Checkpoint) Copy() *Checkpoint {
	if cp == nil {
		return nil
	}
	return &Checkpoint{
		Epoch: cp.Epoch,
		Root:  bytesutil.SafeCopyBytes(cp.Root),
	}
}

// Copy --
func (attData *AttestationData) Copy() *AttestationData {
	if attData == nil {
		return nil
	}
	return &AttestationData{
		Slot:            attData.Slot,
		CommitteeIndex:  attData.CommitteeIndex,
		BeaconBlockRoot: bytesutil.SafeCopyBytes(attData.BeaconBlockRoot),
		Source:          attData.Source.Copy(),
		Target:          attData.Target.Copy(),
	}
}

// Copy --
func (att *Attestation) Copy() *Attestation {
	if att == nil {
		return nil
	}
	return &Attestation{
		AggregationBits: bytesutil.SafeCopyBytes(att.AggregationBits),
		Data:            att.Data.Copy(),
		Signature:       bytesutil.SafeCopyBytes(att.Signature),
	}
}

// Copy --
func (indexedAtt *IndexedAttestation) Copy() *IndexedAttestation {
	var indices []uint64
	if indexedAtt == nil {
		return nil
	} else if indexedAtt.AttestingIndices != nil {
		indices = make([]uint64, len(indexedAtt.AttestingIndices))
		copy(indices, indexedAtt.AttestingIndices)
	}
	return &IndexedAttestation{
		AttestingIndices: indices,
		Data:             indexedAtt.Data.Copy(),
		Signature:        bytesutil.SafeCopyBytes(indexedAtt.Signature),
	}
}

// Copy --
func (att *PendingAttestation) Copy() *PendingAttestation {
	if att == nil {
		return nil
	}
	return &PendingAttestation{
		AggregationBits: bytesutil.SafeCopyBytes(att.AggregationBits),
		Data:            att.Data.Copy(),
		InclusionDelay:  att.InclusionDelay,
		ProposerIndex:   att.ProposerIndex,
	}
}

// Copy --
func (a *AggregateAttestationAndProof) Copy() *AggregateAttestationAndProof {
	if a == nil {
		return nil
	}
	return &AggregateAttestationAndProof{
		AggregatorIndex: a.AggregatorIndex,
		Aggregate:       a.Aggregate.Copy(),
		SelectionProof:  bytesutil.SafeCopyBytes(a.SelectionProof),
	}
}

// Copy --
func (a *SignedAggregateAttestationAndProof) Copy() *SignedAggregateAttestationAndProof {
	if a == nil {
		return nil
	}
	return &SignedAggregateAttestationAndProof{
		Message:   a.Message.Copy(),
		Signature: bytesutil.SafeCopyBytes(a.Signature),
	}
}

// Copy --
func (data *Eth1Data) Copy() *Eth1Data {
	if data == nil {
		return nil
	}
	return &Eth1Data{
		DepositRoot:  bytesutil.SafeCopyBytes(data.DepositRoot),
		DepositCount: data.DepositCount,
		BlockHash:    bytesutil.SafeCopyBytes(data.BlockHash),
	}
}

// Copy --
func (header *BeaconBlockHeader) Copy() *BeaconBlockHeader {
	if header == nil {
		return nil
	}
	parentRoot := bytesutil.SafeCopyBytes(header.ParentRoot)
	stateRoot := bytesutil.SafeCopyBytes(header.StateRoot)
	bodyRoot := bytesutil.SafeCopyBytes(header.BodyRoot)
	return &BeaconBlockHeader{
		Slot:          header.Slot,
		ProposerIndex: header.ProposerIndex,
		ParentRoot:    parentRoot,
		StateRoot:     stateRoot,
		BodyRoot:      bodyRoot,
	}
}

// Copy --
func (header *SignedBeaconBlockHeader) Copy() *SignedBeaconBlockHeader {
	if header == nil {
		return nil
	}
	return &SignedBeaconBlockHeader{
		Header:    header.Header.Copy(),
		Signature: bytesutil.SafeCopyBytes(header.Signature),
	}
}

// Copy --
func (slashing *ProposerSlashing) Copy() *ProposerSlashing {
	if slashing == nil {
		return nil
	}
	return &ProposerSlashing{
		Header_1: slashing.Header_1.Copy(),
		Header_2: slashing.Header_2.Copy(),
	}
}

// Copy --
func (slashing *AttesterSlashing) Copy() *AttesterSlashing {
	if slashing == nil {
		return nil
	}
	return &AttesterSlashing{
		Attestation_1: slashing.Attestation_1.Copy(),
		Attestation_2: slashing.Attestation_2.Copy(),
	}
}

// Copy --
func (depData *DepositData) Copy() *DepositData {
	if depData == nil {
		return nil
	}
	return &DepositData{
		PublicKey:             bytesutil.SafeCopyBytes(depData.PublicKey),
		WithdrawalCredentials: bytesutil.SafeCopyBytes(depData.WithdrawalCredentials),
		Amount:                depData.Amount,
		Signature:             bytesutil.SafeCopyBytes(depData.Signature),
	}
}

// Copy --
func (deposit *Deposit) Copy() *Deposit {
	if deposit == nil {
		return nil
	}
	return &Deposit{
		Proof: bytesutil.SafeCopy2dBytes(deposit.Proof),
		Data:  deposit.Data.Copy(),
	}
}

// Copy --
func (exit *VoluntaryExit) Copy() *VoluntaryExit {
	if exit == nil {
		return nil
	}
	return &VoluntaryExit{
		Epoch:          exit.Epoch,
		ValidatorIndex: exit.ValidatorIndex,
	}
}

// Copy --
func (exit *SignedVoluntaryExit) Copy() *SignedVoluntaryExit {
	if exit == nil {
		return nil
	}
	return &SignedVoluntaryExit{
		Exit:      exit.Exit.Copy(),
		Signature: bytesutil.SafeCopyBytes(exit.Signature),
	}
}

// Copy --
func (body *BeaconBlockBody) Copy() *BeaconBlockBody {
	if body == nil {
		return nil
	}
	proposerSlashings := make([]*ProposerSlashing, len(body.ProposerSlashings))
	for i, slashing := range body.ProposerSlashings {
		proposerSlashings[i] = slashing.Copy()
	}
	attesterSlashings := make([]*AttesterSlashing, len(body.AttesterSlashings))
	for i, slashing := range body.AttesterSlashings {
		attesterSlashings[i] = slashing.Copy()
	}
	attestations := make([]*Attestation, len(body.Attestations))
	for i, att := range body.Attestations {
		attestations[i] = att.Copy()
	}
	deposits := make([]*Deposit, len(body.Deposits))
	for i, dep := range body.Deposits {
		deposits[i] = dep.Copy()
	}
	exits := make([]*SignedVoluntaryExit, len(body.VoluntaryExits))
	for i, exit := range body.VoluntaryExits {
		exits[i] = exit.Copy()
	}
	return &BeaconBlockBody{
		RandaoReveal:      bytesutil.SafeCopyBytes(body.RandaoReveal),
		Eth1Data:          body.Eth1Data.Copy(),
		Graffiti:          bytesutil.SafeCopyBytes(body.Graffiti),
		ProposerSlashings: proposerSlashings,
		AttesterSlashings: attesterSlashings,
		Attestations:      attestations,
		Deposits:          deposits,
		VoluntaryExits:    exits,
	}
}

// Copy --
func (block *BeaconBlock) Copy() *BeaconBlock {
	if block == nil {
		return nil
	}
	return &BeaconBlock{
		Slot:          block.Slot,
		ProposerIndex: block.ProposerIndex,
		ParentRoot:    bytesutil.SafeCopyBytes(block.ParentRoot),
		StateRoot:     bytesutil.SafeCopyBytes(block.StateRoot),
		Body:          block.Body.Copy(),
	}
}

// Copy --
func (sigBlock *SignedBeaconBlock) Copy() *SignedBeaconBlock {
	if sigBlock == nil {
		return nil
	}
	return &SignedBeaconBlock{
		Block:     sigBlock.Block.Copy(),
		Signature: bytesutil.SafeCopyBytes(sigBlock.Signature),
	}
}

// Copy --
func (fork *Fork) Copy() *Fork {
	if fork == nil {
		return nil
	}
	return &Fork{
		PreviousVersion: bytesutil.SafeCopyBytes(fork.PreviousVersion),
		CurrentVersion:  bytesutil.SafeCopyBytes(fork.CurrentVersion),
		Epoch:           fork.Epoch,
	}
}

// Copy --
func (val *Validator) Copy() *Validator {
	if val == nil {
		return nil
	}
	return &Validator{
		PublicKey:                  bytesutil.SafeCopyBytes(val.PublicKey),
		WithdrawalCredentials:      bytesutil.SafeCopyBytes(val.WithdrawalCredentials),
		EffectiveBalance:           val.EffectiveBalance,
		Slashed:                    val.Slashed,
		ActivationEligibilityEpoch: val.ActivationEligibilityEpoch,
		ActivationEpoch:            val.ActivationEpoch,
		ExitEpoch:                  val.ExitEpoch,
		WithdrawableEpoch:          val.WithdrawableEpoch,
	}
}

// Copy --
func (st *BeaconState) Copy() *BeaconState {
	if st == nil {
		return nil
	}
	validators := make([]*Validator, len(st.Validators))
	for i, val := range st.Validators {
		validators[i] = val.Copy()
	}
	balances := make([]uint64, len(st.Balances))
	copy(balances, st.Balances)
	slashings := make([]uint64, len(st.Slashings))
	copy(slashings, st.Slashings)
	eth1DataVotes := make([]*Eth1Data, len(st.Eth1DataVotes))
	for i, vote := range st.Eth1DataVotes {
		eth1DataVotes[i] = vote.Copy()
	}
	prevAtts := make([]*PendingAttestation, len(st.PreviousEpochAttestations))
	for i, att := range st.PreviousEpochAttestations {
		prevAtts[i] = att.Copy()
	}
	currAtts := make([]*PendingAttestation, len(st.CurrentEpochAttestations))
	for i, att := range st.CurrentEpochAttestations {
		currAtts[i] = att.Copy()
	}
	return &BeaconState{
		GenesisTime:                 st.GenesisTime,
		GenesisValidatorsRoot:       bytesutil.SafeCopyBytes(st.GenesisValidatorsRoot),
		Slot:                        st.Slot,
		Fork:                        st.Fork.Copy(),
		LatestBlockHeader:           st.LatestBlockHeader.Copy(),
		BlockRoots:                  bytesutil.SafeCopy2dBytes(st.BlockRoots),
		StateRoots:                  bytesutil.SafeCopy2dBytes(st.StateRoots),
		HistoricalRoots:             bytesutil.SafeCopy2dBytes(st.HistoricalRoots),
		Eth1Data:                    st.Eth1Data.Copy(),
		Eth1DataVotes:               eth1DataVotes,
		Eth1DepositIndex:            st.Eth1DepositIndex,
		Validators:                  validators,
		Balances:                    balances,
		RandaoMixes:                 bytesutil.SafeCopy2dBytes(st.RandaoMixes),
		Slashings:                   slashings,
		PreviousEpochAttestations:   prevAtts,
		CurrentEpochAttestations:    currAtts,
		JustificationBits:           bytesutil.SafeCopyBytes(st.JustificationBits),
		PreviousJustifiedCheckpoint: st.PreviousJustifiedCheckpoint.Copy(),
		CurrentJustifiedCheckpoint:  st.CurrentJustifiedCheckpoint.Copy(),
		FinalizedCheckpoint:         st.FinalizedCheckpoint.Copy(),
	}
}
