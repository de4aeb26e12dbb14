// SPDX-License-Identifier: MIT
// Package bitint provides power-of-two helpers for FFT and buffer
// sizing. All operations are O(1), allocation-free, and safe on the
// real-time path.
package bitint

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of
// two have exactly one bit set, so n&(n-1) clears to zero only for
// them.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of 2 >= n. Non-positive
// input returns 1. The n-1 before the bit-length keeps exact powers of
// two from doubling.
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(n-1))
}
