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

package floatparse

import (
	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/floatbits"
)

// floatParams bundles the bit-layout constants the core parser needs to
// stay generic across binary32 and binary64, mirroring the (significand,
// exponent, bias) triples floatbits.go exposes per format.
type floatParams struct {
	significandBits int
	exponentBits    int
	bias            int
	minExponent     int
	maxExponent     int
}

var binary64Params = floatParams{
	significandBits: floatbits.Binary64SignificandBits,
	exponentBits:    floatbits.Binary64ExponentBits,
	bias:            floatbits.Binary64ExponentBias,
	minExponent:     floatbits.Binary64MinExponent,
	maxExponent:     floatbits.Binary64MaxExponent,
}

var binary32Params = floatParams{
	significandBits: floatbits.Binary32SignificandBits,
	exponentBits:    floatbits.Binary32ExponentBits,
	bias:            floatbits.Binary32ExponentBias,
	minExponent:     floatbits.Binary32MinExponent,
	maxExponent:     floatbits.Binary32MaxExponent,
}

// ParseFloat64 converts buf's locale-independent textual representation
// into a binary64 value, per spec.md §6.1/§6.2. format gates which notations
// (Scientific, Fixed, Hex, or decimal.General) are accepted.
func ParseFloat64(buf []byte, format decimal.Format) (float64, decimal.Result) {
	bits, res := parseBinary(buf, format, binary64Params)
	return floatbits.Float64FromBits(bits), res
}

// ParseFloat32 is ParseFloat64's binary32 counterpart.
func ParseFloat32(buf []byte, format decimal.Format) (float32, decimal.Result) {
	bits, res := parseBinary(buf, format, binary32Params)
	return floatbits.Float32FromBits(uint32(bits)), res
}

func composeBits(p floatParams, signBit, expField, manBits uint64) uint64 {
	return signBit<<uint(p.exponentBits+p.significandBits) | expField<<uint(p.significandBits) | manBits
}

func allOnesExponent(p floatParams) uint64 { return uint64(1)<<uint(p.exponentBits) - 1 }

func parseBinary(buf []byte, format decimal.Format, p floatParams) (uint64, decimal.Result) {
	lr := lex(buf, format)
	if lr.errc != decimal.OK {
		return 0, decimal.Result{EndPos: lr.end, Errc: lr.errc}
	}

	var signBit uint64
	if lr.sign {
		signBit = 1
	}

	switch lr.kind {
	case specialInf:
		return composeBits(p, signBit, allOnesExponent(p), 0), decimal.Result{EndPos: lr.end, Errc: decimal.OK}
	case specialQuietNaN:
		quietBit := uint64(1) << uint(p.significandBits-1)
		return composeBits(p, signBit, allOnesExponent(p), quietBit), decimal.Result{EndPos: lr.end, Errc: decimal.OK}
	case specialSignalingNaN:
		return composeBits(p, signBit, allOnesExponent(p), 1), decimal.Result{EndPos: lr.end, Errc: decimal.OK}
	}

	var manBits, expField uint64
	var errc decimal.Errc
	if lr.isHex {
		manBits, expField, errc = parseHexMagnitude(&lr, p)
	} else {
		manBits, expField, errc = parseDecimalMagnitude(&lr, p)
	}

	bits := composeBits(p, signBit, expField, manBits)
	return bits, decimal.Result{EndPos: lr.end, Errc: errc}
}

// parseDecimalMagnitude converts a lexed decimal mantissa+exponent into a
// correctly-rounded (manBits, expField) pair via Eisel-Lemire seeding
// (performance only) followed by an exact bigint bracket-and-round (spec.md
// §4.7-§4.9).
func parseDecimalMagnitude(lr *lexResult, p floatParams) (manBits, expField uint64, errc decimal.Errc) {
	dv := buildDecimalValue(lr)
	if dv.digits.IsZero() {
		return 0, 0, decimal.OK
	}

	leadingZeros := lr.leadingZeroDigits()
	significantDigits := lr.digitCount() - leadingZeros
	roughExp10 := int(lr.explicitExponent()) - lr.fracDigitCount() + significantDigits - 1

	if roughExp10 >= overflowMargin {
		return 0, allOnesExponent(p), decimal.ResultOutOfRange
	}
	if roughExp10 <= -overflowMargin {
		return 0, 0, decimal.ResultOutOfRange
	}

	seedMan, seedExp10 := seedMantissa(lr)
	seedBexp := 0
	if seedMan != 0 {
		_, seedBexp = eiselLemireSeed(seedMan, seedExp10)
	}

	targetBits := p.significandBits + 2 // hidden bit + one round bit
	lowBound := uint64(1) << uint(targetBits-1)
	hiBound := uint64(1)<<uint(targetBits) - 1

	bexp := findBracketingExponent(dv, seedBexp, lowBound, hiBound)
	man, exact := floorDiv2Pow(dv, bexp, targetBits)

	return roundToFormat(man, exact, bexp, p, func(fixedBexp, bits int) (uint64, bool) {
		return floorDiv2Pow(dv, fixedBexp, bits)
	})
}

// parseHexMagnitude is parseDecimalMagnitude's hex-float counterpart. Hex
// digits map to binary exactly, so the target exponent is derived directly
// from the bigint's bit length instead of via Eisel-Lemire/bracket search.
func parseHexMagnitude(lr *lexResult, p floatParams) (manBits, expField uint64, errc decimal.Errc) {
	hv := buildHexValue(lr)
	if hv.digits.IsZero() {
		return 0, 0, decimal.OK
	}

	bitLen := hv.digits.BitLength()
	trueExpLeading := bitLen - 1 + hv.exp2
	if trueExpLeading >= p.maxExponent+hexOverflowMargin {
		return 0, allOnesExponent(p), decimal.ResultOutOfRange
	}
	if trueExpLeading <= p.minExponent-hexOverflowMargin {
		return 0, 0, decimal.ResultOutOfRange
	}

	targetBits := p.significandBits + 2
	bexp := bitLen + hv.exp2 - targetBits
	man, exact := roundedHexMantissa(hv, bexp, targetBits)

	return roundToFormat(man, exact, bexp, p, func(fixedBexp, bits int) (uint64, bool) {
		return roundedHexMantissa(hv, fixedBexp, bits)
	})
}

// roundToFormat takes a (targetBits = significandBits+2)-wide floor
// quotient and its exactness, rounds to nearest-even at the final bit,
// renormalizes on carry-out, and classifies the result as normal,
// subnormal or overflowing, calling subQuotient to re-derive the mantissa
// at the fixed subnormal scale when the rounded exponent undershoots
// minExponent.
func roundToFormat(man uint64, exact bool, bexp int, p floatParams, subQuotient func(fixedBexp, bits int) (uint64, bool)) (manBits, expField uint64, errc decimal.Errc) {
	manRounded := roundNearestEven(man, exact)
	bexpRounded := bexp + 1
	if manRounded == uint64(1)<<uint(p.significandBits+1) {
		manRounded >>= 1
		bexpRounded++
	}
	trueExp := bexpRounded + p.significandBits

	if trueExp > p.maxExponent {
		return 0, allOnesExponent(p), decimal.ResultOutOfRange
	}
	if trueExp < p.minExponent {
		fixedBexp := p.minExponent - p.significandBits - 1
		subMan, subExact := subQuotient(fixedBexp, p.significandBits+2)
		subRounded := roundNearestEven(subMan, subExact)
		if subRounded >= uint64(1)<<uint(p.significandBits) {
			return 0, 1, decimal.OK // rounds up into the smallest normal
		}
		return subRounded, 0, decimal.OK
	}

	expField = uint64(trueExp - p.bias)
	manBits = manRounded &^ (uint64(1) << uint(p.significandBits))
	return manBits, expField, decimal.OK
}

// seedMantissa accumulates up to the first 19 significant decimal digits
// (skipping leading zeros) into a uint64, per spec.md §4.7's too-many-
// digits rule: every further digit, integer or fractional, is dropped and
// pushes seedExp10 out by one instead of growing the mantissa. This feeds
// eiselLemireSeed only -- a
// performance hint findBracketingExponent always re-verifies against the
// full-precision decimalValue, so truncation here costs nothing in
// correctness.
func seedMantissa(lr *lexResult) (m uint64, exp10 int) {
	const maxSeedDigits = 19
	kept := 0
	dropped := 0
	started := false
	lr.forEachDigit(func(v byte) {
		if !started {
			if v == 0 {
				return
			}
			started = true
		}
		if kept < maxSeedDigits {
			m = m*10 + uint64(v)
			kept++
		} else {
			dropped++
		}
	})
	exp10 = int(lr.explicitExponent()) - lr.fracDigitCount() + dropped
	return
}

// leadingZeroDigits counts leading zero mantissa digits, used only to get a
// tight rough magnitude estimate for the overflow/underflow short-circuit.
func (lr *lexResult) leadingZeroDigits() int {
	n := 0
	done := false
	lr.forEachDigit(func(v byte) {
		if done {
			return
		}
		if v == 0 {
			n++
		} else {
			done = true
		}
	})
	return n
}
