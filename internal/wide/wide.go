// Copyright (C) 2024 Charconv Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package wide implements the fixed-width wide-multiplication primitives
// that the Dragonbox, Ryu and Eisel-Lemire algorithms are built on: 64x64->128
// and 128x128->256 products, leading-zero counts and rotations.
//
// Unlike boost::charconv's emulated128.hpp, no software value128 fallback is
// needed: every architecture Go supports gets a genuine 64x64->128 multiply
// from math/bits.Mul64, so there is no "has __int128" branch to maintain.
package wide

import "math/bits"

// Uint128 is an unsigned 128-bit integer, high and low 64-bit halves.
type Uint128 struct {
	Hi, Lo uint64
}

// Uint256 is an unsigned 256-bit integer, four 64-bit limbs, most
// significant first.
type Uint256 struct {
	Hi, Mid2, Mid1, Lo uint64
}

// Mul64 returns the full 128-bit product of a and b.
func Mul64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{Hi: hi, Lo: lo}
}

// Mul64Upper returns only the high 64 bits of a*b.
func Mul64Upper(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

// Add128 adds y to x, returning the 128-bit sum and the carry out of bit 127.
func Add128(x, y Uint128) (Uint128, uint64) {
	lo, c := bits.Add64(x.Lo, y.Lo, 0)
	hi, c := bits.Add64(x.Hi, y.Hi, c)
	return Uint128{Hi: hi, Lo: lo}, c
}

// Mul128By64 returns the full 192-bit product of a 128-bit value u and a
// 64-bit value c, split into its upper 128 bits and lower 64 bits.
//
// Grounded on boost::charconv's umul192_upper128/umul192_lower128, which
// binary64 Dragonbox uses to multiply the (2*fc+1)<<beta operand against a
// 128-bit cache entry.
func Mul128By64(u Uint128, c uint64) (upper Uint128, lower uint64) {
	hiHi, hiLo := bits.Mul64(u.Hi, c)
	loHi, loLo := bits.Mul64(u.Lo, c)

	mid, carry := bits.Add64(hiLo, loHi, 0)
	top := hiHi + carry

	return Uint128{Hi: top, Lo: mid}, loLo
}

// Mul192Upper128 is Mul128By64's upper half alone.
func Mul192Upper128(u Uint128, c uint64) Uint128 {
	upper, _ := Mul128By64(u, c)
	return upper
}

// Mul192Lower128 returns the low 128 bits of the 192-bit product of u and c.
func Mul192Lower128(u Uint128, c uint64) Uint128 {
	upper, lower := Mul128By64(u, c)
	return Uint128{Hi: upper.Lo, Lo: lower}
}

// Mul96By32Upper64 returns the upper 64 bits of the 96-bit product of a
// 32-bit value u and a 64-bit value c, used by binary32 Dragonbox.
func Mul96By32Upper64(u uint32, c uint64) uint64 {
	hi, lo := bits.Mul64(uint64(u), c)
	// hi:lo is a 96-bit result held in 128 bits (hi has only the low 32
	// bits populated); the upper 64 bits of the 96-bit value are
	// (hi<<32 | lo>>32).
	return hi<<32 | lo>>32
}

// Mul96By32Lower64 returns the lower 64 bits of the 96-bit product of a
// 32-bit value u and a 64-bit value c.
func Mul96By32Lower64(u uint32, c uint64) uint64 {
	_, lo := bits.Mul64(uint64(u), c)
	return lo
}

// Mul128 returns the full 256-bit product of two 128-bit values.
//
// Grounded on boost::charconv's umul256, used by binary128 Ryu and by the
// wide Eisel-Lemire path.
func Mul128(x, y Uint128) Uint256 {
	// schoolbook multiplication on two 2-limb numbers: x = x.Hi:x.Lo,
	// y = y.Hi:y.Lo, partial products p_ij = x_i * y_j.
	p00hi, p00lo := bits.Mul64(x.Lo, y.Lo)
	p01hi, p01lo := bits.Mul64(x.Lo, y.Hi)
	p10hi, p10lo := bits.Mul64(x.Hi, y.Lo)
	p11hi, p11lo := bits.Mul64(x.Hi, y.Hi)

	r0 := p00lo

	s1, c1a := bits.Add64(p00hi, p01lo, 0)
	s1, c1b := bits.Add64(s1, p10lo, 0)
	r1 := s1
	carry1 := c1a + c1b // 0, 1, or 2

	s2, c2a := bits.Add64(p01hi, p10hi, 0)
	s2, c2b := bits.Add64(s2, p11lo, 0)
	s2, c2c := bits.Add64(s2, carry1, 0)
	r2 := s2
	carry2 := c2a + c2b + c2c // cannot overflow uint64 when added below

	r3 := p11hi + carry2

	return Uint256{Hi: r3, Mid2: r2, Mid1: r1, Lo: r0}
}

// CountLeadingZeros64 counts leading zero bits of x.
func CountLeadingZeros64(x uint64) int { return bits.LeadingZeros64(x) }

// CountLeadingZeros32 counts leading zero bits of x.
func CountLeadingZeros32(x uint32) int { return bits.LeadingZeros32(x) }

// CountLeadingZeros128 counts leading zero bits of a 128-bit value.
func CountLeadingZeros128(x Uint128) int {
	if x.Hi != 0 {
		return bits.LeadingZeros64(x.Hi)
	}
	return 64 + bits.LeadingZeros64(x.Lo)
}

// Rotr32 rotates x right by r bits (r in [0,32)).
func Rotr32(x uint32, r uint) uint32 { return bits.RotateLeft32(x, -int(r)) }

// Rotr64 rotates x right by r bits (r in [0,64)).
func Rotr64(x uint64, r uint) uint64 { return bits.RotateLeft64(x, -int(r)) }

// Shl128 shifts x left by n bits (0 <= n < 128), discarding bits shifted out
// of bit 127.
func Shl128(x Uint128, n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: x.Lo << (n - 64), Lo: 0}
	default:
		return Uint128{Hi: x.Hi<<n | x.Lo>>(64-n), Lo: x.Lo << n}
	}
}

// Shr128 shifts x right by n bits (0 <= n < 128).
func Shr128(x Uint128, n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: 0, Lo: x.Hi >> (n - 64)}
	default:
		return Uint128{Hi: x.Hi >> n, Lo: x.Lo>>n | x.Hi<<(64-n)}
	}
}

// Less reports whether x < y as 128-bit unsigned integers.
func (x Uint128) Less(y Uint128) bool {
	if x.Hi != y.Hi {
		return x.Hi < y.Hi
	}
	return x.Lo < y.Lo
}
