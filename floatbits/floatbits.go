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

// Package floatbits decomposes IEEE-754 bit patterns into their sign,
// exponent and significand fields, and reassembles them, for binary32,
// binary64 and the software-carried binary128 format.
//
// Grounded on boost::charconv's detail/float_traits.hpp: the field layout,
// the subnormal min_exponent convention and the exponent_bias formula are
// ported field-for-field. binary80 is not given a distinct carrier here --
// Go has no native 80-bit float, and per spec.md's own design note,
// platforms where long double == double need no separate code, so wide
// long-double inputs are expected to arrive already widened into
// Binary128Bits by the caller.
package floatbits

import (
	"math"

	"github.com/goshort/charconv/internal/wide"
)

// Binary32Bits is the bit pattern of an IEEE-754 binary32 value, decomposed
// into sign, biased exponent and significand (without the implicit bit).
type Binary32Bits struct {
	Sign            bool
	ExponentBits    uint32
	SignificandBits uint32
}

const (
	Binary32SignificandBits = 23
	Binary32ExponentBits    = 8
	Binary32ExponentBias    = -127
	Binary32MinExponent     = 1 + Binary32ExponentBias // -126
	Binary32MaxExponent     = (1<<Binary32ExponentBits - 2) + Binary32ExponentBias
	Binary32DecimalDigits   = 9
)

// DecomposeBinary32 extracts the sign/exponent/significand fields from a
// binary32 bit pattern, mirroring float_traits::extract_exponent_bits and
// extract_significand_bits.
func DecomposeBinary32(bits uint32) Binary32Bits {
	return Binary32Bits{
		Sign:            bits>>31 != 0,
		ExponentBits:    (bits >> Binary32SignificandBits) & (1<<Binary32ExponentBits - 1),
		SignificandBits: bits & (1<<Binary32SignificandBits - 1),
	}
}

// Float32Bits returns the raw carrier for a float32 value.
func Float32Bits(f float32) uint32 { return math.Float32bits(f) }

// Float32FromBits reassembles a float32 from its carrier.
func Float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }

func (b Binary32Bits) IsFinite() bool {
	return b.ExponentBits != 1<<Binary32ExponentBits-1
}

func (b Binary32Bits) IsZero() bool {
	return b.ExponentBits == 0 && b.SignificandBits == 0
}

func (b Binary32Bits) IsNaN() bool {
	return b.ExponentBits == 1<<Binary32ExponentBits-1 && b.SignificandBits != 0
}

func (b Binary32Bits) IsInf() bool {
	return b.ExponentBits == 1<<Binary32ExponentBits-1 && b.SignificandBits == 0
}

// IsSignalingNaN reports whether a NaN's most significant significand bit
// (the "quiet" bit) is clear.
func (b Binary32Bits) IsSignalingNaN() bool {
	return b.IsNaN() && b.SignificandBits&(1<<(Binary32SignificandBits-1)) == 0
}

// BinaryExponent returns the unbiased binary exponent: exponent_bits +
// exponent_bias for normals, Binary32MinExponent for subnormals/zero.
func (b Binary32Bits) BinaryExponent() int {
	if b.ExponentBits == 0 {
		return Binary32MinExponent
	}
	return int(b.ExponentBits) + Binary32ExponentBias
}

// BinarySignificand returns the significand with the implicit leading bit
// restored for normals; subnormals and zero are returned unchanged.
func (b Binary32Bits) BinarySignificand() uint32 {
	if b.ExponentBits == 0 {
		return b.SignificandBits
	}
	return b.SignificandBits | (1 << Binary32SignificandBits)
}

// Binary64Bits is the binary64 analogue of Binary32Bits.
type Binary64Bits struct {
	Sign            bool
	ExponentBits    uint32
	SignificandBits uint64
}

const (
	Binary64SignificandBits = 52
	Binary64ExponentBits    = 11
	Binary64ExponentBias    = -1023
	Binary64MinExponent     = 1 + Binary64ExponentBias // -1022
	Binary64MaxExponent     = (1<<Binary64ExponentBits - 2) + Binary64ExponentBias
	Binary64DecimalDigits   = 17
)

func DecomposeBinary64(bits uint64) Binary64Bits {
	return Binary64Bits{
		Sign:            bits>>63 != 0,
		ExponentBits:    uint32((bits >> Binary64SignificandBits) & (1<<Binary64ExponentBits - 1)),
		SignificandBits: bits & (1<<Binary64SignificandBits - 1),
	}
}

func Float64Bits(f float64) uint64 { return math.Float64bits(f) }

func Float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }

func (b Binary64Bits) IsFinite() bool {
	return b.ExponentBits != 1<<Binary64ExponentBits-1
}

func (b Binary64Bits) IsZero() bool {
	return b.ExponentBits == 0 && b.SignificandBits == 0
}

func (b Binary64Bits) IsNaN() bool {
	return b.ExponentBits == 1<<Binary64ExponentBits-1 && b.SignificandBits != 0
}

func (b Binary64Bits) IsInf() bool {
	return b.ExponentBits == 1<<Binary64ExponentBits-1 && b.SignificandBits == 0
}

func (b Binary64Bits) IsSignalingNaN() bool {
	return b.IsNaN() && b.SignificandBits&(1<<(Binary64SignificandBits-1)) == 0
}

func (b Binary64Bits) BinaryExponent() int {
	if b.ExponentBits == 0 {
		return Binary64MinExponent
	}
	return int(b.ExponentBits) + Binary64ExponentBias
}

func (b Binary64Bits) BinarySignificand() uint64 {
	if b.ExponentBits == 0 {
		return b.SignificandBits
	}
	return b.SignificandBits | (1 << Binary64SignificandBits)
}

// Binary128Bits is a software decomposition of an IEEE-754 binary128 value
// (or, per spec.md's design note, any wide long-double format the caller
// has already widened to 128 bits). The significand is carried in a
// wide.Uint128 since it does not fit a native Go integer.
type Binary128Bits struct {
	Sign            bool
	ExponentBits    uint32
	SignificandBits wide.Uint128 // low 112 bits significant
}

const (
	Binary128SignificandBits = 112
	Binary128ExponentBits    = 15
	Binary128ExponentBias    = -16383
	Binary128MinExponent     = 1 + Binary128ExponentBias // -16382
	Binary128MaxExponent     = (1<<Binary128ExponentBits - 2) + Binary128ExponentBias
	Binary128DecimalDigits   = 36
)

// DecomposeBinary128 splits a 128-bit carrier, stored as {Hi,Lo} with Hi
// holding the top 64 bits (sign, exponent, upper 48 significand bits) and
// Lo the low 64 significand bits.
func DecomposeBinary128(carrier wide.Uint128) Binary128Bits {
	sign := carrier.Hi>>63 != 0
	expBits := uint32((carrier.Hi >> 48) & (1<<Binary128ExponentBits - 1))
	hiSig := carrier.Hi & (1<<48 - 1)
	return Binary128Bits{
		Sign:         sign,
		ExponentBits: expBits,
		SignificandBits: wide.Uint128{
			Hi: hiSig,
			Lo: carrier.Lo,
		},
	}
}

func (b Binary128Bits) IsFinite() bool {
	return b.ExponentBits != 1<<Binary128ExponentBits-1
}

func (b Binary128Bits) IsZero() bool {
	return b.ExponentBits == 0 && b.SignificandBits.Hi == 0 && b.SignificandBits.Lo == 0
}

func (b Binary128Bits) IsNaN() bool {
	return b.ExponentBits == 1<<Binary128ExponentBits-1 &&
		(b.SignificandBits.Hi != 0 || b.SignificandBits.Lo != 0)
}

func (b Binary128Bits) IsInf() bool {
	return b.ExponentBits == 1<<Binary128ExponentBits-1 &&
		b.SignificandBits.Hi == 0 && b.SignificandBits.Lo == 0
}

// IsSignalingNaN tests the quiet bit, which sits at bit 47 of the high
// significand word (bit 111 overall), the 128-bit analogue of
// issignaling.hpp's hi_word ^= 0x0000800000000000 probe.
func (b Binary128Bits) IsSignalingNaN() bool {
	return b.IsNaN() && b.SignificandBits.Hi&(1<<47) == 0
}

func (b Binary128Bits) BinaryExponent() int {
	if b.ExponentBits == 0 {
		return Binary128MinExponent
	}
	return int(b.ExponentBits) + Binary128ExponentBias
}

func (b Binary128Bits) BinarySignificand() wide.Uint128 {
	if b.ExponentBits == 0 {
		return b.SignificandBits
	}
	hidden := wide.Uint128{Hi: 1 << 48, Lo: 0}
	sum, _ := wide.Add128(b.SignificandBits, hidden)
	return sum
}
