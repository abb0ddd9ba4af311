package math_test

import (
	"testing"

	"github.com/pharoslabs/pharos/math"
)

func TestIntegerSquareRoot(t *testing.T) {
	tt := []struct {
		number uint64
		root   uint64
	}{
		{
			number: 20,
			root:   4,
		},
		{
			number: 200,
			root:   14,
		},
		{
			number: 1987,
			root:   44,
		},
		{
			number: 34989843,
			root:   5915,
		},
		{
			number: 97282,
			root:   311,
		},
		{
			number: 1 << 32,
			root:   1 << 16,
		},
		{
			number: (1 << 32) + 1,
			root:   1 << 16,
		},
		{
			number: 1 << 33,
			root:   92681,
		},
		{
			number: 1 << 60,
			root:   1 << 30,
		},
	}

	for _, testVals := range tt {
		root := math.IntegerSquareRoot(testVals.number)
		if testVals.root != root {
			t.Fatalf("expected root and computed root are not equal %d, %d", testVals.root, root)
		}
	}
}

func TestCeilDiv8(t *testing.T) {
	tests := []struct {
		given int
		value int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{7, 1},
		{8, 1},
		{9, 2},
		{24, 3},
		{32, 4},
	}

	for _, tt := range tests {
		if tt.value != math.CeilDiv8(tt.given) {
			t.Errorf("CeilDiv8(%d) = %d, wanted %d", tt.given, math.CeilDiv8(tt.given), tt.value)
		}
	}
}

func TestIsPowerOf2(t *testing.T) {
	tests := []struct {
		a uint64
		b bool
	}{
		{2, true},
		{64, true},
		{100, false},
		{1024, true},
		{0, false},
	}
	for _, tt := range tests {
		if tt.b != math.IsPowerOf2(tt.a) {
			t.Fatalf("IsPowerOf2(%d) = %v, wanted: %v", tt.a, math.IsPowerOf2(tt.a), tt.b)
		}
	}
}

func TestMul64(t *testing.T) {
	if _, err := math.Mul64(1<<32, 1<<32); err == nil {
		t.Error("Expected 1 << 32 * 1 << 32 to overflow")
	}
	got, err := math.Mul64(1<<31, 2)
	if err != nil {
		t.Error("Unexpected overflow")
	}
	if got != 1<<32 {
		t.Errorf("Mul64() = %d, wanted %d", got, uint64(1)<<32)
	}
}

func TestAdd64(t *testing.T) {
	if _, err := math.Add64(1<<63, 1<<63); err == nil {
		t.Error("Expected 1 << 63 + 1 << 63 to overflow")
	}
	got, err := math.Add64(1<<62, 1<<62)
	if err != nil {
		t.Error("Unexpected overflow")
	}
	if got != 1<<63 {
		t.Errorf("Add64() = %d, wanted %d", got, uint64(1)<<63)
	}
}
