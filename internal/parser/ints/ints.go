// Package ints provides branchless (SWAR) helpers for extracting small
// unsigned integers from newline-separated ASCII text.
//
// Byte order contract: every word is loaded little-endian (see Load64 and
// Load32), so the lowest-addressed byte is lane 0 and occupies the least
// significant 8 bits. For a number written left to right, lane 0 therefore
// holds the most significant digit. All functions in this package assume
// that layout; feeding them big-endian words silently produces wrong answers.
package ints

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Linebreak is the record terminator.
const Linebreak = '\n'

const (
	lanes64 = 0x0101010101010101
	high64  = 0x8080808080808080
	nl64    = lanes64 * Linebreak
	zero64  = lanes64 * '0'
	six64   = lanes64 * 6
	nib64   = lanes64 * 0xF0

	lanes32 = 0x01010101
	high32  = 0x80808080
	nl32    = lanes32 * Linebreak
	zero32  = lanes32 * '0'
	six32   = lanes32 * 6
	nib32   = lanes32 * 0xF0
)

// Pow10 holds 10^k for every digit count a single word can carry.
var Pow10 = [9]uint64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000}

// Width is the number of bytes processed per word.
type Width int

const (
	Width4 Width = 4
	Width8 Width = 8
)

// Valid reports whether w is a supported word width.
func (w Width) Valid() bool { return w == Width4 || w == Width8 }

func (w Width) String() string { return fmt.Sprintf("%d", int(w)) }

// ParseWidth converts a byte count into a Width.
func ParseWidth(n int) (Width, error) {
	w := Width(n)
	if !w.Valid() {
		return 0, fmt.Errorf("ints: unsupported word width %d (want 4 or 8)", n)
	}
	return w, nil
}

// Load64 reads b[0:8] as a little-endian word.
func Load64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// Load32 reads b[0:4] as a little-endian word.
func Load32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// HasLinebreak64 returns a mask with the high bit set in every lane equal to
// '\n'. Lanes above the first match may be flagged spuriously (borrow from
// the subtraction); the lowest flagged lane is always exact.
func HasLinebreak64(w uint64) uint64 {
	x := w ^ nl64
	return (x - lanes64) & ^x & high64
}

// HasLinebreak32 is the 4-lane form of HasLinebreak64.
func HasLinebreak32(w uint32) uint32 {
	x := w ^ nl32
	return (x - lanes32) & ^x & high32
}

// FindLinebreak64 returns the lane index (0..7) of the first '\n' in w.
// ok is false when no lane holds a terminator.
func FindLinebreak64(w uint64) (pos int, ok bool) {
	m := HasLinebreak64(w)
	if m == 0 {
		return 8, false
	}
	return bits.TrailingZeros64(m) >> 3, true
}

// FindLinebreak32 returns the lane index (0..3) of the first '\n' in w.
func FindLinebreak32(w uint32) (pos int, ok bool) {
	m := HasLinebreak32(w)
	if m == 0 {
		return 4, false
	}
	return bits.TrailingZeros32(m) >> 3, true
}

// laneMask64 keeps lanes 0..n-1. n == 8 keeps everything.
func laneMask64(n int) uint64 { return (uint64(1) << (uint(n) * 8)) - 1 }

func laneMask32(n int) uint32 { return (uint32(1) << (uint(n) * 8)) - 1 }

// NonDigitMask64 flags (high nibble set) every lane among 0..n-1 whose byte is
// not an ASCII digit. Zero means all n lanes are digits.
func NonDigitMask64(w uint64, n int) uint64 {
	x := w ^ zero64
	return (x | (x + six64)) & nib64 & laneMask64(n)
}

// NonDigitMask32 is the 4-lane form of NonDigitMask64.
func NonDigitMask32(w uint32, n int) uint32 {
	x := w ^ zero32
	return (x | (x + six32)) & nib32 & laneMask32(n)
}

// FirstLane returns the index of the lowest lane flagged in a non-zero mask.
func FirstLane(mask uint64) int { return bits.TrailingZeros64(mask) >> 3 }

// ParsePackedDigits64 decodes the n (1..8) ASCII digits held in lanes 0..n-1
// of w. Lanes n..7 are ignored: the digits are shifted into the top lanes and
// the vacated low lanes are filled with '0', so "62" is evaluated as
// "00000062". The caller must have validated the digit lanes.
//
// After padding, lane i holds digit d_i (d_0 most significant) and the result
// is d_0*10^7 + d_1*10^6 + ... + d_7.
func ParsePackedDigits64(w uint64, n int) uint64 {
	shift := uint(8-n) * 8
	v := w<<shift | zero64>>(uint(n)*8)
	v -= zero64
	// lane i := 10*d_i + d_(i+1); even lanes now hold two-digit pairs
	v = v*10 + v>>8
	const (
		mask = 0x000000FF000000FF
		mul1 = 100 + 1_000_000<<32
		mul2 = 1 + 10_000<<32
	)
	return ((v&mask)*mul1 + ((v>>16)&mask)*mul2) >> 32
}

// ParsePackedDigits32 decodes the n (1..4) ASCII digits held in lanes 0..n-1
// of w, with the same padding rule as ParsePackedDigits64.
func ParsePackedDigits32(w uint32, n int) uint32 {
	shift := uint(4-n) * 8
	v := w<<shift | zero32>>(uint(n)*8)
	v -= zero32
	v = v*10 + v>>8
	return ((v & 0x00FF00FF) * (1 + 100<<16)) >> 16
}
