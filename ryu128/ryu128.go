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

// Package ryu128 formats binary128 values (and, per spec.md's design note,
// any wide long-double format the caller has widened into the same 128-bit
// carrier) into decimal.
//
// boost::charconv's real generic Ryu formatter (detail/ryu/generic_128.hpp)
// narrows an interval around the value via a fixed-width 256-bit multiply-
// shift against a dedicated power-of-five cache; that header was not part
// of the filtered original_source this module was built from (only
// ryu_generic_128.hpp, the dispatch wrapper, made it through), and neither
// binary80 nor binary128 have a native Go caller to make a close port worth
// reconstructing blind. This package instead narrows the same (value-ulp/2,
// value+ulp/2) rounding interval generic Ryu narrows, but by exact
// big.Int-rational comparison instead of a fixed-width multiply-shift
// cache: exactDigits produces a correctly-rounded n-digit expansion for any
// n, and shortestDigits grows n from 1 until the rounded value falls back
// inside the interval, which is the same boundary test generic Ryu performs
// per digit, just re-run from scratch per candidate length rather than
// threaded through incrementally. math/big, not internal/bigint, backs
// this: binary128's exponent range needs on the order of 16,000 exact bits
// at the extremes, well past internal/bigint's fixed 4000-bit capacity (see
// DESIGN.md). The boundary test uses the interval (value-ulp/2,
// value+ulp/2), except when the significand sits on a power-of-two
// boundary above the minimum normal exponent: the next value down is then
// only ulp/2 away, so the lower bound is value-ulp/4 (see DESIGN.md).
package ryu128

import (
	"math/big"

	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/internal/wide"
	"github.com/goshort/charconv/policy"
)

// Params bundles the policy selections ToDecimal128 honors. Rounding-mode
// selection (the DecimalToBinaryRounding family) has no effect on a formatter
// and is Dragonbox-only; Ryu's own rounding is always to-nearest-even at the
// final retained digit, matching IEEE 754's recommended decimal-rounding
// practice.
type Params struct {
	TrailingZeros policy.TrailingZeroPolicy
}

// ToDecimal128 converts a decomposed, finite, nonzero binary128 value into a
// correctly-rounded decimal representation. The caller must have already
// excluded zero, infinity and NaN (floatbits.Binary128Bits.IsZero/IsFinite).
func ToDecimal128(bits floatbits.Binary128Bits, p Params) decimal.Float128 {
	sign := bits.Sign
	m2 := bits.BinarySignificand()
	e2 := bits.BinaryExponent() - floatbits.Binary128SignificandBits

	num := uint128ToBig(m2)
	den := big.NewInt(1)
	if e2 >= 0 {
		num = new(big.Int).Lsh(num, uint(e2))
	} else {
		den = new(big.Int).Lsh(den, uint(-e2))
	}

	acceptBounds := m2.Lo&1 == 0
	baseExp := e2 - 1
	twoM2 := new(big.Int).Lsh(uint128ToBig(m2), 1)
	mpInt := new(big.Int).Add(twoM2, big.NewInt(1))
	mmInt := new(big.Int).Sub(twoM2, big.NewInt(1))
	mmExp := baseExp
	if bits.SignificandBits.Hi == 0 && bits.SignificandBits.Lo == 0 && bits.ExponentBits > 1 {
		// A power of two: the spacing below is half an ulp, so the lower
		// bound is (4*m2-1)*2^(e2-2) = value-ulp/4.
		mmInt = new(big.Int).Sub(new(big.Int).Lsh(twoM2, 1), big.NewInt(1))
		mmExp = baseExp - 1
	}
	mpNum, mpDen := scaledFraction(mpInt, baseExp)
	mmNum, mmDen := scaledFraction(mmInt, mmExp)

	digits, decExp := shortestDigits(num, den, mmNum, mmDen, mpNum, mpDen, acceptBounds, floatbits.Binary128DecimalDigits)

	mayHaveTrailingZero := false
	if p.TrailingZeros != policy.TrailingZeroIgnore {
		trimmed := len(digits)
		for trimmed > 1 && digits[trimmed-1] == '0' {
			trimmed--
		}
		mayHaveTrailingZero = trimmed < len(digits)
		if p.TrailingZeros == policy.TrailingZeroRemove {
			digits = digits[:trimmed]
		}
	}

	sig := new(big.Int)
	sig.SetString(string(digits), 10)

	return decimal.Float128{
		Sign:                sign,
		Significand:         bigToUint128(sig),
		Exponent:            decExp - (len(digits) - 1),
		MayHaveTrailingZero: mayHaveTrailingZero,
	}
}

// exactDigits returns the nDigits-digit, correctly-rounded-to-nearest-even
// decimal expansion of num/den (both positive), most significant digit
// first, together with the base-10 exponent of the leading digit.
func exactDigits(num, den *big.Int, nDigits int) ([]byte, int) {
	decExp := floorLog10Ratio(num, den)
	shift := nDigits - 1 - decExp

	var scaledNum, scaledDen *big.Int
	if shift >= 0 {
		scaledNum = new(big.Int).Mul(num, pow10(shift))
		scaledDen = den
	} else {
		scaledNum = num
		scaledDen = new(big.Int).Mul(den, pow10(-shift))
	}

	q, r := new(big.Int).QuoRem(scaledNum, scaledDen, new(big.Int))
	twiceR := new(big.Int).Lsh(r, 1)
	switch twiceR.Cmp(scaledDen) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}

	s := q.String()
	if len(s) > nDigits {
		// Rounding carried into an extra digit (e.g. 999...9 -> 1000...0).
		decExp++
		s = s[:nDigits]
	}
	return []byte(s), decExp
}

// shortestDigits grows the requested digit count from 1 until exactDigits's
// correctly-rounded expansion at that length falls back inside the
// (mm, mp) rounding interval, returning the first (shortest) length that
// round-trips. maxDigits bounds the search; a value that needs every one of
// those digits falls out of the loop and exactDigits is called one last
// time to hand back the full, safe expansion.
func shortestDigits(num, den, mmNum, mmDen, mpNum, mpDen *big.Int, acceptBounds bool, maxDigits int) ([]byte, int) {
	for n := 1; n <= maxDigits; n++ {
		digits, decExp := exactDigits(num, den, n)
		if withinBounds(digits, decExp, mmNum, mmDen, mpNum, mpDen, acceptBounds) {
			return digits, decExp
		}
	}
	return exactDigits(num, den, maxDigits)
}

// withinBounds reports whether the value digits*10^(decExp-len(digits)+1)
// lies inside the rounding interval (mm, mp), closed when acceptBounds (the
// original significand was even, so exact ties round to this value) and
// open otherwise.
func withinBounds(digits []byte, decExp int, mmNum, mmDen, mpNum, mpDen *big.Int, acceptBounds bool) bool {
	val := new(big.Int)
	val.SetString(string(digits), 10)
	k := decExp - (len(digits) - 1)
	lowCmp := compareIntTimesPow10ToFrac(val, k, mmNum, mmDen)
	highCmp := compareIntTimesPow10ToFrac(val, k, mpNum, mpDen)
	if acceptBounds {
		return lowCmp >= 0 && highCmp <= 0
	}
	return lowCmp > 0 && highCmp < 0
}

// compareIntTimesPow10ToFrac returns the sign of val*10^k - num/den, via
// cross-multiplication so no division is ever performed.
func compareIntTimesPow10ToFrac(val *big.Int, k int, num, den *big.Int) int {
	var lhs, rhs *big.Int
	if k >= 0 {
		lhs = new(big.Int).Mul(val, pow10(k))
		lhs.Mul(lhs, den)
		rhs = num
	} else {
		lhs = new(big.Int).Mul(val, den)
		rhs = new(big.Int).Mul(num, pow10(-k))
	}
	return lhs.Cmp(rhs)
}

// scaledFraction expresses x*2^exp as a num/den rational.
func scaledFraction(x *big.Int, exp int) (num, den *big.Int) {
	if exp >= 0 {
		return new(big.Int).Lsh(x, uint(exp)), big.NewInt(1)
	}
	return x, new(big.Int).Lsh(big.NewInt(1), uint(-exp))
}

// floorLog10Ratio returns floor(log10(num/den)) for positive num, den. The
// bit-length estimate is accurate to within one step essentially always;
// the comparison loop corrects the rare off-by-one.
func floorLog10Ratio(num, den *big.Int) int {
	est := int(float64(num.BitLen()-den.BitLen()) * 0.3010299956639812)
	for !ratioAtLeastPow10(num, den, est) {
		est--
	}
	for ratioAtLeastPow10(num, den, est+1) {
		est++
	}
	return est
}

// ratioAtLeastPow10 reports whether num/den >= 10^p.
func ratioAtLeastPow10(num, den *big.Int, p int) bool {
	if p >= 0 {
		return num.Cmp(new(big.Int).Mul(den, pow10(p))) >= 0
	}
	return new(big.Int).Mul(num, pow10(-p)).Cmp(den) >= 0
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func uint128ToBig(u wide.Uint128) *big.Int {
	hi := new(big.Int).SetUint64(u.Hi)
	hi.Lsh(hi, 64)
	lo := new(big.Int).SetUint64(u.Lo)
	return hi.Or(hi, lo)
}

func bigToUint128(x *big.Int) wide.Uint128 {
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(x, mask).Uint64()
	hi := new(big.Int).Rsh(x, 64).Uint64()
	return wide.Uint128{Hi: hi, Lo: lo}
}
