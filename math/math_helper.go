// Package math includes important helpers for Pharos such as fast integer square roots.
package math

import (
	stdmath "math"

	"github.com/pkg/errors"
	"github.com/thomaso-mirodin/intmath/u64"
)

// ErrOverflow occurs when an operation exceeds max or minimum values.
var ErrOverflow = errors.New("integer overflow")

// IntegerSquareRoot defines a function that returns the
// largest possible integer root of a number using a divide and conquer
// binary search approach.
func IntegerSquareRoot(n uint64) uint64 {
	if n >= uint64(stdmath.MaxInt64) {
		return isqrt(n)
	}
	return u64.Sqrt(n)
}

// isqrt is integer square root using Newton's method, for inputs
// beyond the range the intmath library supports.
func isqrt(n uint64) uint64 {
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// CeilDiv8 divides the input number by 8
// and takes the ceiling of that number.
func CeilDiv8(n int) int {
	ret := n / 8
	if n%8 > 0 {
		ret++
	}
	return ret
}

// IsPowerOf2 returns true if n is an
// exact power of two. False otherwise.
func IsPowerOf2(n uint64) bool {
	return n != 0 && (n&(n-1)) == 0
}

// PowerOf2 returns an integer that is the provided
// exponent of 2. Can only return powers of 2 till 63,
// after that it overflows.
func PowerOf2(n uint64) uint64 {
	if n >= 64 {
		panic("integer overflow")
	}
	return 1 << n
}

// Max returns the larger integer of the two
// given ones.This is used over the Max function
// in the standard math library because that max function
// has to check for some special floating point cases
// making it slower by a magnitude of 10.
func Max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller integer of the two
// given ones. This is used over the Min function
// in the standard math library because that min function
// has to check for some special floating point cases
// making it slower by a magnitude of 10.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Mul64 multiples 2 64-bit unsigned integers and checks if they
// lead to an overflow. If they do not, it returns the result
// without an error.
func Mul64(a, b uint64) (uint64, error) {
	overflows, val := bitsMul64(a, b)
	if overflows > 0 {
		return 0, ErrOverflow
	}
	return val, nil
}

func bitsMul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 1<<32 - 1
	x0 := a & mask32
	x1 := a >> 32
	y0 := b & mask32
	y1 := b >> 32
	w0 := x0 * y0
	t := x1*y0 + w0>>32
	w1 := t & mask32
	w2 := t >> 32
	w1 += x0 * y1
	hi = x1*y1 + w2 + w1>>32
	lo = a * b
	return
}

// Add64 adds 2 64-bit unsigned integers and checks if they
// lead to an overflow. If they do not, it returns the result
// without an error.
func Add64(a, b uint64) (uint64, error) {
	res := a + b
	if res < a {
		return 0, ErrOverflow
	}
	return res, nil
}

// Sub64 subtracts b from a and checks for underflow.
func Sub64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}
