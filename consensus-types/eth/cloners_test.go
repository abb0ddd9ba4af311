package eth_test

import (
	"math/rand"
	"reflect"
	"testing"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestCopySignedBeaconBlock(t *testing.T) {
	blk := genSignedBeaconBlock()

	got := blk.Copy()
	if !reflect.DeepEqual(got, blk) {
		t.Errorf("Copy() = %v, want %v", got, blk)
	}
	// Mutating the copy must leave the original untouched.
	got.Block.Body.Attestations[0].AggregationBits[0] ^= 0xff
	got.Signature[0] ^= 0xff
	assert.DeepNotEqual(t, got.Block.Body.Attestations[0], blk.Block.Body.Attestations[0])
	assert.DeepNotEqual(t, got.Signature, blk.Signature)
}

func TestCopyBeaconBlockBody(t *testing.T) {
	body := genBeaconBlockBody()

	got := body.Copy()
	if !reflect.DeepEqual(got, body) {
		t.Errorf("Copy() = %v, want %v", got, body)
	}
	got.ProposerSlashings[0].Header_1.Header.StateRoot[0] ^= 0xff
	assert.DeepNotEqual(t, got.ProposerSlashings[0], body.ProposerSlashings[0])
}

func TestCopyBeaconState(t *testing.T) {
	st := genBeaconState()

	got := st.Copy()
	if !reflect.DeepEqual(got, st) {
		t.Errorf("Copy() = %v, want %v", got, st)
	}
	got.Balances[0]++
	got.Validators[0].EffectiveBalance++
	got.BlockRoots[0][0] ^= 0xff
	got.JustificationBits[0] ^= 0xff
	require.DeepNotEqual(t, got.Balances, st.Balances)
	require.DeepNotEqual(t, got.Validators[0], st.Validators[0])
	require.DeepNotEqual(t, got.BlockRoots[0], st.BlockRoots[0])
	require.DeepNotEqual(t, got.JustificationBits, st.JustificationBits)
}

func bytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	for i := 0; i < 32; i++ {
		if b[i] == 0x00 {
			b[i] = uint8(rand.Int())
		}
	}
	return b
}

func genAttestation() *ethpb.Attestation {
	return &ethpb.Attestation{
		AggregationBits: bytes(),
		Data:            genAttData(),
		Signature:       bytes(),
	}
}

func genAttestations(num int) []*ethpb.Attestation {
	atts := make([]*ethpb.Attestation, num)
	for i := 0; i < num; i++ {
		atts[i] = genAttestation()
	}
	return atts
}

func genAttData() *ethpb.AttestationData {
	return &ethpb.AttestationData{
		Slot:            1,
		CommitteeIndex:  2,
		BeaconBlockRoot: bytes(),
		Source:          genCheckpoint(),
		Target:          genCheckpoint(),
	}
}

func genCheckpoint() *ethpb.Checkpoint {
	return &ethpb.Checkpoint{
		Epoch: 1,
		Root:  bytes(),
	}
}

func genEth1Data() *ethpb.Eth1Data {
	return &ethpb.Eth1Data{
		DepositRoot:  bytes(),
		DepositCount: 4,
		BlockHash:    bytes(),
	}
}

func genPendingAttestation() *ethpb.PendingAttestation {
	return &ethpb.PendingAttestation{
		AggregationBits: bytes(),
		Data:            genAttData(),
		InclusionDelay:  3,
		ProposerIndex:   5,
	}
}

func genSignedBeaconBlock() *ethpb.SignedBeaconBlock {
	return &ethpb.SignedBeaconBlock{
		Block:     genBeaconBlock(),
		Signature: bytes(),
	}
}

func genBeaconBlock() *ethpb.BeaconBlock {
	return &ethpb.BeaconBlock{
		Slot:          4,
		ProposerIndex: 5,
		ParentRoot:    bytes(),
		StateRoot:     bytes(),
		Body:          genBeaconBlockBody(),
	}
}

func genBeaconBlockBody() *ethpb.BeaconBlockBody {
	return &ethpb.BeaconBlockBody{
		RandaoReveal:      bytes(),
		Eth1Data:          genEth1Data(),
		Graffiti:          bytes(),
		ProposerSlashings: genProposerSlashings(5),
		AttesterSlashings: genAttesterSlashings(2),
		Attestations:      genAttestations(5),
		Deposits:          genDeposits(5),
		VoluntaryExits:    genSignedVoluntaryExits(5),
	}
}

func genProposerSlashing() *ethpb.ProposerSlashing {
	return &ethpb.ProposerSlashing{
		Header_1: genSignedBeaconBlockHeader(),
		Header_2: genSignedBeaconBlockHeader(),
	}
}

func genProposerSlashings(num int) []*ethpb.ProposerSlashing {
	ps := make([]*ethpb.ProposerSlashing, num)
	for i := 0; i < num; i++ {
		ps[i] = genProposerSlashing()
	}
	return ps
}

func genAttesterSlashing() *ethpb.AttesterSlashing {
	return &ethpb.AttesterSlashing{
		Attestation_1: genIndexedAttestation(),
		Attestation_2: genIndexedAttestation(),
	}
}

func genIndexedAttestation() *ethpb.IndexedAttestation {
	return &ethpb.IndexedAttestation{
		AttestingIndices: []uint64{1, 2, 3},
		Data:             genAttData(),
		Signature:        bytes(),
	}
}

func genAttesterSlashings(num int) []*ethpb.AttesterSlashing {
	as := make([]*ethpb.AttesterSlashing, num)
	for i := 0; i < num; i++ {
		as[i] = genAttesterSlashing()
	}
	return as
}

func genBeaconBlockHeader() *ethpb.BeaconBlockHeader {
	return &ethpb.BeaconBlockHeader{
		Slot:          10,
		ProposerIndex: 15,
		ParentRoot:    bytes(),
		StateRoot:     bytes(),
		BodyRoot:      bytes(),
	}
}

func genSignedBeaconBlockHeader() *ethpb.SignedBeaconBlockHeader {
	return &ethpb.SignedBeaconBlockHeader{
		Header:    genBeaconBlockHeader(),
		Signature: bytes(),
	}
}

func genDepositData() *ethpb.DepositData {
	return &ethpb.DepositData{
		PublicKey:             bytes(),
		WithdrawalCredentials: bytes(),
		Amount:                20000,
		Signature:             bytes(),
	}
}

func genDeposit() *ethpb.Deposit {
	proof := make([][]byte, 33)
	for i := range proof {
		proof[i] = bytes()
	}
	return &ethpb.Deposit{
		Data:  genDepositData(),
		Proof: proof,
	}
}

func genDeposits(num int) []*ethpb.Deposit {
	d := make([]*ethpb.Deposit, num)
	for i := 0; i < num; i++ {
		d[i] = genDeposit()
	}
	return d
}

func genVoluntaryExit() *ethpb.VoluntaryExit {
	return &ethpb.VoluntaryExit{
		Epoch:          5432,
		ValidatorIndex: 888888,
	}
}

func genSignedVoluntaryExit() *ethpb.SignedVoluntaryExit {
	return &ethpb.SignedVoluntaryExit{
		Exit:      genVoluntaryExit(),
		Signature: bytes(),
	}
}

func genSignedVoluntaryExits(num int) []*ethpb.SignedVoluntaryExit {
	sv := make([]*ethpb.SignedVoluntaryExit, num)
	for i := 0; i < num; i++ {
		sv[i] = genSignedVoluntaryExit()
	}
	return sv
}

func genValidator() *ethpb.Validator {
	return &ethpb.Validator{
		PublicKey:                  bytes(),
		WithdrawalCredentials:      bytes(),
		EffectiveBalance:           32000000000,
		Slashed:                    false,
		ActivationEligibilityEpoch: 1,
		ActivationEpoch:            2,
		ExitEpoch:                  3,
		WithdrawableEpoch:          4,
	}
}

func genBeaconState() *ethpb.BeaconState {
	return &ethpb.BeaconState{
		GenesisTime:           1606824023,
		GenesisValidatorsRoot: bytes(),
		Slot:                  7,
		Fork: &ethpb.Fork{
			PreviousVersion: []byte{0, 0, 0, 0},
			CurrentVersion:  []byte{0, 0, 0, 0},
			Epoch:           0,
		},
		LatestBlockHeader:           genBeaconBlockHeader(),
		BlockRoots:                  [][]byte{bytes(), bytes()},
		StateRoots:                  [][]byte{bytes(), bytes()},
		HistoricalRoots:             [][]byte{bytes()},
		Eth1Data:                    genEth1Data(),
		Eth1DataVotes:               []*ethpb.Eth1Data{genEth1Data()},
		Eth1DepositIndex:            8,
		Validators:                  []*ethpb.Validator{genValidator(), genValidator()},
		Balances:                    []uint64{32000000000, 31000000000},
		RandaoMixes:                 [][]byte{bytes(), bytes()},
		Slashings:                   []uint64{0, 1000000000},
		PreviousEpochAttestations:   []*ethpb.PendingAttestation{genPendingAttestation()},
		CurrentEpochAttestations:    []*ethpb.PendingAttestation{genPendingAttestation()},
		JustificationBits:           []byte{0x0f},
		PreviousJustifiedCheckpoint: genCheckpoint(),
		CurrentJustifiedCheckpoint:  genCheckpoint(),
		FinalizedCheckpoint:         genCheckpoint(),
	}
}
