package aggregation

import (
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestMaxCover_MaxCoverProblem_Cover(t *testing.T) {
	problemSet := func() MaxCoverCandidates {
		return MaxCoverCandidates{
			{0, &bitfield.Bitlist{0b00000100, 0b1}, 0, false},
			{1, &bitfield.Bitlist{0b00011011, 0b1}, 0, false},
			{2, &bitfield.Bitlist{0b00011011, 0b1}, 0, false},
			{3, &bitfield.Bitlist{0b00000001, 0b1}, 0, false},
			{4, &bitfield.Bitlist{0b00011010, 0b1}, 0, false},
		}
	}
	type args struct {
		k             int
		candidates    MaxCoverCandidates
		allowOverlaps bool
	}
	tests := []struct {
		name        string
		args        args
		want        *MaxCoverSolution
		wantErr     bool
		expectedErr error
	}{
		{
			name:        "nil problem",
			args:        args{},
			wantErr:     true,
			expectedErr: ErrInvalidMaxCoverProblem,
		},
		{
			name: "k larger than number of candidates",
			args: args{k: 10, candidates: problemSet()},
			want: &MaxCoverSolution{
				Coverage: bitfield.Bitlist{0b00011111, 0b1},
				Keys:     []int{1, 0},
			},
			wantErr: false,
		},
		{
			name: "k=1",
			args: args{k: 1, candidates: problemSet()},
			want: &MaxCoverSolution{
				Coverage: bitfield.Bitlist{0b00011011, 0b1},
				Keys:     []int{1},
			},
			wantErr: false,
		},
		{
			name: "k=2",
			args: args{k: 2, candidates: problemSet()},
			want: &MaxCoverSolution{
				Coverage: bitfield.Bitlist{0b00011111, 0b1},
				Keys:     []int{1, 0},
			},
			wantErr: false,
		},
		{
			name: "overlapping candidate dropped",
			args: args{k: 5, candidates: MaxCoverCandidates{
				{0, &bitfield.Bitlist{0b00001111, 0b1}, 0, false},
				{1, &bitfield.Bitlist{0b10001110, 0b1}, 0, false},
				{2, &bitfield.Bitlist{0b01110000, 0b1}, 0, false},
			}},
			want: &MaxCoverSolution{
				Coverage: bitfield.Bitlist{0b01111111, 0b1},
				Keys:     []int{0, 2},
			},
			wantErr: false,
		},
		{
			name: "overlaps allowed",
			args: args{k: 5, candidates: MaxCoverCandidates{
				{0, &bitfield.Bitlist{0b00001111, 0b1}, 0, false},
				{1, &bitfield.Bitlist{0b10001110, 0b1}, 0, false},
				{2, &bitfield.Bitlist{0b01110000, 0b1}, 0, false},
			}, allowOverlaps: true},
			want: &MaxCoverSolution{
				Coverage: bitfield.Bitlist{0b11111111, 0b1},
				Keys:     []int{0, 2, 1},
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := &MaxCoverProblem{Candidates: tt.args.candidates}
			got, err := mc.Cover(tt.args.k, tt.args.allowOverlaps)
			if tt.wantErr {
				require.ErrorContains(t, tt.expectedErr.Error(), err)
				return
			}
			require.NoError(t, err)
			assert.DeepEqual(t, tt.want, got)
		})
	}
}

func TestMaxCover_MaxCoverCandidates_union(t *testing.T) {
	var cl MaxCoverCandidates
	if got := cl.union(); got != nil {
		t.Errorf("union() of empty list = %v, want nil", got)
	}
	cl = MaxCoverCandidates{
		{0, &bitfield.Bitlist{0b00000100, 0b1}, 0, false},
		{1, &bitfield.Bitlist{0b00011011, 0b1}, 0, false},
		{2, &bitfield.Bitlist{0b10000001, 0b1}, 0, false},
	}
	assert.DeepEqual(t, bitfield.Bitlist{0b10011111, 0b1}, cl.union())
}

func TestMaxCover_MaxCoverCandidates_score(t *testing.T) {
	cl := MaxCoverCandidates{
		{0, &bitfield.Bitlist{0b00000100, 0b1}, 0, false},
		{1, &bitfield.Bitlist{0b00011011, 0b1}, 0, false},
		{2, &bitfield.Bitlist{0b00011010, 0b1}, 0, false},
	}
	uncovered := bitfield.Bitlist{0b00011000, 0b1}
	cl.score(uncovered)
	assert.Equal(t, uint64(0), cl[0].score)
	assert.Equal(t, uint64(2), cl[1].score)
	assert.Equal(t, uint64(2), cl[2].score)
}

func TestMaxCover_MaxCoverCandidates_filter(t *testing.T) {
	cl := MaxCoverCandidates{
		{0, &bitfield.Bitlist{0b00001010, 0b1}, 2, false},
		{1, &bitfield.Bitlist{0b01000010, 0b1}, 2, true},
		{2, &bitfield.Bitlist{0b10000001, 0b1}, 2, false},
		{3, &bitfield.Bitlist{0b00100000, 0b1}, 0, false},
	}
	covered := bitfield.Bitlist{0b10000000, 0b1}
	cl.filter(covered, false /* allowOverlaps */)
	// Processed, overlapping and zero-score candidates are gone.
	require.Equal(t, 1, len(cl))
	assert.Equal(t, 0, cl[0].key)
}
