package slots

import (
	"math"
	"testing"
	"time"

	types "github.com/prysmaticlabs/eth2-types"

	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	pharosTime "github.com/pharoslabs/pharos/time"
)

func TestToEpoch_OK(t *testing.T) {
	tests := []struct {
		slot  types.Slot
		epoch types.Epoch
	}{
		{slot: 0, epoch: 0},
		{slot: 50, epoch: 1},
		{slot: 64, epoch: 2},
		{slot: 128, epoch: 4},
		{slot: 200, epoch: 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.epoch, ToEpoch(tt.slot))
	}
}

func TestEpochStartSlot_OK(t *testing.T) {
	tests := []struct {
		epoch     types.Epoch
		startSlot types.Slot
		error     bool
	}{
		{epoch: 0, startSlot: 0, error: false},
		{epoch: 1, startSlot: 32, error: false},
		{epoch: 10, startSlot: 320, error: false},
		{epoch: 1 << 58, startSlot: 1 << 63, error: false},
		{epoch: 1 << 59, startSlot: 1 << 63, error: true},
		{epoch: 1 << 60, startSlot: 1 << 63, error: true},
	}
	for _, tt := range tests {
		ss, err := EpochStart(tt.epoch)
		if !tt.error {
			require.NoError(t, err)
			assert.Equal(t, tt.startSlot, ss)
		} else {
			require.ErrorContains(t, "start slot calculation overflow", err)
		}
	}
}

func TestEpochEndSlot_OK(t *testing.T) {
	tests := []struct {
		epoch   types.Epoch
		endSlot types.Slot
		error   bool
	}{
		{epoch: 0, endSlot: 31, error: false},
		{epoch: 1, endSlot: 63, error: false},
		{epoch: 10, endSlot: 351, error: false},
		{epoch: 1 << 59, endSlot: 0, error: true},
		{epoch: math.MaxUint64, endSlot: 0, error: true},
	}
	for _, tt := range tests {
		ss, err := EpochEnd(tt.epoch)
		if !tt.error {
			require.NoError(t, err)
			assert.Equal(t, tt.endSlot, ss)
		} else {
			require.ErrorContains(t, "start slot calculation overflow", err)
		}
	}
}

func TestIsEpochStart(t *testing.T) {
	epochLength := params.BeaconConfig().SlotsPerEpoch

	tests := []struct {
		slot   types.Slot
		result bool
	}{
		{slot: epochLength + 1, result: false},
		{slot: epochLength - 1, result: false},
		{slot: epochLength, result: true},
		{slot: epochLength * 2, result: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.result, IsEpochStart(tt.slot))
	}
}

func TestIsEpochEnd(t *testing.T) {
	epochLength := params.BeaconConfig().SlotsPerEpoch

	tests := []struct {
		slot   types.Slot
		result bool
	}{
		{slot: epochLength + 1, result: false},
		{slot: epochLength, result: false},
		{slot: epochLength - 1, result: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.result, IsEpochEnd(tt.slot))
	}
}

func TestSlotsSinceEpochStarts(t *testing.T) {
	tests := []struct {
		slots       types.Slot
		wantedSlots types.Slot
	}{
		{slots: 0, wantedSlots: 0},
		{slots: 1, wantedSlots: 1},
		{slots: params.BeaconConfig().SlotsPerEpoch - 1, wantedSlots: params.BeaconConfig().SlotsPerEpoch - 1},
		{slots: params.BeaconConfig().SlotsPerEpoch + 1, wantedSlots: 1},
		{slots: 10*params.BeaconConfig().SlotsPerEpoch + 2, wantedSlots: 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantedSlots, SinceEpochStarts(tt.slots))
	}
}

func TestRoundUpToNearestEpoch_OK(t *testing.T) {
	tests := []struct {
		startSlot     types.Slot
		roundedUpSlot types.Slot
	}{
		{startSlot: 0, roundedUpSlot: 0},
		{startSlot: params.BeaconConfig().SlotsPerEpoch - 10, roundedUpSlot: params.BeaconConfig().SlotsPerEpoch},
		{startSlot: params.BeaconConfig().SlotsPerEpoch, roundedUpSlot: params.BeaconConfig().SlotsPerEpoch},
		{startSlot: params.BeaconConfig().SlotsPerEpoch + 1, roundedUpSlot: params.BeaconConfig().SlotsPerEpoch * 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.roundedUpSlot, RoundUpToNearestEpoch(tt.startSlot))
	}
}

func TestSlotToTime(t *testing.T) {
	tests := []struct {
		name           string
		genesisTimeSec uint64
		slot           types.Slot
		timeWanted     time.Time
		wantedErr      string
	}{
		{
			name:           "slot_0",
			genesisTimeSec: 0,
			slot:           0,
			timeWanted:     time.Unix(0, 0),
		},
		{
			name:           "slot_1",
			genesisTimeSec: 0,
			slot:           1,
			timeWanted:     time.Unix(int64(params.BeaconConfig().SecondsPerSlot), 0),
		},
		{
			name:           "overflow",
			genesisTimeSec: 0,
			slot:           math.MaxUint64,
			wantedErr:      "is in the far distant future",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt, err := ToTime(tt.genesisTimeSec, tt.slot)
			if tt.wantedErr != "" {
				require.ErrorContains(t, tt.wantedErr, err)
			} else {
				require.NoError(t, err)
				assert.DeepEqual(t, tt.timeWanted, gt)
			}
		})
	}
}

func TestCurrentSlot(t *testing.T) {
	secondsPerSlot := params.BeaconConfig().SecondsPerSlot
	genesisTime := uint64(pharosTime.Now().Add(-5 * time.Duration(secondsPerSlot) * time.Second).Unix())
	assert.Equal(t, types.Slot(5), CurrentSlot(genesisTime))

	// Genesis in the future.
	future := uint64(pharosTime.Now().Add(time.Hour).Unix())
	assert.Equal(t, types.Slot(0), CurrentSlot(future))
}

func TestSlotsSinceGenesis(t *testing.T) {
	currentTime := time.Now()
	numSlots := types.Slot(10)
	genesisTime := currentTime.Add(-time.Duration(uint64(numSlots)*params.BeaconConfig().SecondsPerSlot) * time.Second)
	assert.Equal(t, numSlots, SinceGenesis(genesisTime))

	// Genesis in the future.
	assert.Equal(t, types.Slot(0), SinceGenesis(currentTime.Add(time.Hour)))
}

func TestValidateClock(t *testing.T) {
	genesisTime := uint64(pharosTime.Now().Unix())
	require.NoError(t, ValidateClock(0, genesisTime))
	require.NoError(t, ValidateClock(types.Slot(MaxSlotBuffer), genesisTime))
	err := ValidateClock(types.Slot(MaxSlotBuffer+1), genesisTime)
	require.ErrorContains(t, "exceeds max allowed value relative to the local clock", err)
}

func TestAbsoluteValueSlotDifference(t *testing.T) {
	assert.Equal(t, uint64(3), AbsoluteValueSlotDifference(4, 1))
	assert.Equal(t, uint64(3), AbsoluteValueSlotDifference(1, 4))
	assert.Equal(t, uint64(0), AbsoluteValueSlotDifference(3, 3))
}

func TestDivideSlotBy(t *testing.T) {
	assert.Equal(t, 6*time.Second, DivideSlotBy(2))
	assert.Equal(t, 4*time.Second, DivideSlotBy(3))
}

func TestMultiplySlotBy(t *testing.T) {
	assert.Equal(t, 24*time.Second, MultiplySlotBy(2))
}

func TestPrevSlot(t *testing.T) {
	tests := []struct {
		name string
		slot types.Slot
		want types.Slot
	}{
		{
			name: "no underflow",
			slot: 0,
			want: 0,
		},
		{
			name: "slot 1",
			slot: 1,
			want: 0,
		},
		{
			name: "slot 2",
			slot: 2,
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrevSlot(tt.slot); got != tt.want {
				t.Errorf("PrevSlot() = %v, want %v", got, tt.want)
			}
		})
	}
}
