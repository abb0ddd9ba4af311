package bytesutil_test

import (
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestToBytes(t *testing.T) {
	tests := []struct {
		a uint64
		b []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{2, []byte{2}},
		{253, []byte{253}},
		{254, []byte{254}},
		{255, []byte{255}},
		{0, []byte{0, 0}},
		{1, []byte{1, 0}},
		{255, []byte{255, 0}},
		{256, []byte{0, 1}},
		{65534, []byte{254, 255}},
		{65535, []byte{255, 255}},
		{0, []byte{0, 0, 0}},
		{255, []byte{255, 0, 0}},
		{256, []byte{0, 1, 0}},
		{65535, []byte{255, 255, 0}},
		{65536, []byte{0, 0, 1}},
		{16777215, []byte{255, 255, 255}},
	}
	for _, tt := range tests {
		b := bytesutil.ToBytes(tt.a, len(tt.b))
		assert.DeepEqual(t, tt.b, b)
	}
}

func TestBytes8(t *testing.T) {
	tests := []struct {
		a uint64
		b []byte
	}{
		{0, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{255, []byte{255, 0, 0, 0, 0, 0, 0, 0}},
		{16777215, []byte{255, 255, 255, 0, 0, 0, 0, 0}},
		{4294967295, []byte{255, 255, 255, 255, 0, 0, 0, 0}},
		{4294967296, []byte{0, 0, 0, 0, 1, 0, 0, 0}},
	}
	for _, tt := range tests {
		b := bytesutil.Bytes8(tt.a)
		assert.DeepEqual(t, tt.b, b)
	}
}

func TestFromBytes8(t *testing.T) {
	tests := []uint64{0, 255, 16777215, 4294967295, 4294967296, 8589934591, 16777215795}
	for _, tt := range tests {
		b := bytesutil.ToBytes(tt, 8)
		c := bytesutil.FromBytes8(b)
		assert.Equal(t, tt, c)
	}
}

func TestToBytes32(t *testing.T) {
	tests := []struct {
		a []byte
		b [32]byte
	}{
		{[]byte{}, [32]byte{}},
		{[]byte{1}, [32]byte{1}},
		{[]byte{1, 2, 3}, [32]byte{1, 2, 3}},
		{[]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33},
			[32]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.b, bytesutil.ToBytes32(tt.a))
	}
}

func TestTrunc(t *testing.T) {
	tests := []struct {
		a []byte
		b []byte
	}{
		{[]byte{'A', 'C', 'D', 'E', 'F', 'G', 'H'}, []byte{'A', 'C', 'D', 'E', 'F', 'G'}},
		{[]byte{'A', 'C', 'D', 'E', 'F', 'G'}, []byte{'A', 'C', 'D', 'E', 'F', 'G'}},
		{[]byte{'A', 'C', 'D', 'E', 'F'}, []byte{'A', 'C', 'D', 'E', 'F'}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.b, bytesutil.Trunc(tt.a))
	}
}

func TestReverseByteOrder(t *testing.T) {
	input := []byte{0, 1, 2, 3, 4, 5}
	expectedResult := []byte{5, 4, 3, 2, 1, 0}
	output := bytesutil.ReverseByteOrder(input)

	// Check that the input is not modified and the output is reversed.
	assert.DeepEqual(t, []byte{0, 1, 2, 3, 4, 5}, input)
	assert.DeepEqual(t, expectedResult, output)
}

func TestSetBit(t *testing.T) {
	tests := []struct {
		a []byte
		b int
		c []byte
	}{
		{[]byte{0b00000000}, 1, []byte{0b00000010}},
		{[]byte{0b00000010}, 7, []byte{0b10000010}},
		{[]byte{0b10000010}, 9, []byte{0b10000010, 0b00000010}},
		{[]byte{0b10000010}, 27, []byte{0b10000010, 0b00000000, 0b00000000, 0b00001000}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.c, bytesutil.SetBit(tt.a, tt.b))
	}
}

func TestClearBit(t *testing.T) {
	tests := []struct {
		a []byte
		b int
		c []byte
	}{
		{[]byte{0b00000000}, 1, []byte{0b00000000}},
		{[]byte{0b00000010}, 1, []byte{0b00000000}},
		{[]byte{0b10000010}, 7, []byte{0b00000010}},
		{[]byte{0b10000010, 0b00001000}, 11, []byte{0b10000010, 0b00000000}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.c, bytesutil.ClearBit(tt.a, tt.b))
	}
}

func TestHighestBitIndex(t *testing.T) {
	tests := []struct {
		a     []byte
		b     int
		error bool
	}{
		{nil, 0, true},
		{[]byte{}, 0, true},
		{[]byte{0b00000001}, 1, false},
		{[]byte{0b10100101}, 8, false},
		{[]byte{0x00, 0x00}, 0, false},
		{[]byte{0xff, 0xa0}, 16, false},
		{[]byte{12, 34, 56, 78}, 31, false},
		{[]byte{255, 255, 255, 255}, 32, false},
	}
	for _, tt := range tests {
		i, err := bytesutil.HighestBitIndex(tt.a)
		if !tt.error {
			require.NoError(t, err)
			assert.DeepEqual(t, tt.b, i)
		} else {
			assert.ErrorContains(t, "input list can't be empty or nil", err)
		}
	}
}

func TestUint64ToBytes_RoundTrip(t *testing.T) {
	for i := uint64(0); i < 10000; i += 333 {
		b := bytesutil.Uint64ToBytesBigEndian(i)
		if got := bytesutil.BytesToUint64BigEndian(b); got != i {
			t.Errorf("BytesToUint64BigEndian(%v) = %d, wanted %d", b, got, i)
		}
	}
}

func TestSlotToBytesBigEndian_SortedOrder(t *testing.T) {
	// Big endian keys must preserve numeric ordering for db cursor scans.
	prev := bytesutil.SlotToBytesBigEndian(0)
	for s := types.Slot(1); s < 100000; s += 1000 {
		cur := bytesutil.SlotToBytesBigEndian(s)
		require.Equal(t, true, string(prev) < string(cur))
		prev = cur
	}
}

func TestZeroRoot(t *testing.T) {
	input := make([]byte, 32)
	assert.Equal(t, true, bytesutil.ZeroRoot(input))
	copy(input[2:], "a")
	assert.Equal(t, false, bytesutil.ZeroRoot(input))
}

func TestPadTo(t *testing.T) {
	b := []byte{1, 2, 3}
	padded := bytesutil.PadTo(b, 5)
	assert.DeepEqual(t, []byte{1, 2, 3, 0, 0}, padded)
	assert.DeepEqual(t, b, bytesutil.PadTo(b, 2))
}
