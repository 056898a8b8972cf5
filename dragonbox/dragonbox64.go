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

package dragonbox

import (
	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/internal/wide"
	"github.com/goshort/charconv/policy"
	"github.com/goshort/charconv/tables"
)

const (
	significandBits64 = 52
	kappa64           = 2
)

var (
	shorterIntervalLeftUpper64  int
	shorterIntervalRightUpper64 int
	shorterIntervalTieLower64   int
	shorterIntervalTieUpper64   int
)

func init() {
	sigPlus2 := uint64(1)<<(significandBits64+2) - 1
	k1 := countFactors5(sigPlus2) + 1
	shorterIntervalLeftUpper64 = 2 + floorLog2Int(pow10Small(k1)/3)

	sigPlus1 := uint64(1)<<(significandBits64+1) + 1
	k2 := countFactors5(sigPlus1) + 1
	shorterIntervalRightUpper64 = 2 + floorLog2Int(pow10Small(k2)/3)

	shorterIntervalTieLower64 = -tables.FloorLog5Pow2MinusLog5_3(significandBits64+4) - 2 - significandBits64
	shorterIntervalTieUpper64 = -tables.FloorLog5Pow2(significandBits64+2) - 2 - significandBits64
}

const (
	shorterIntervalLeftLower64  = 2
	shorterIntervalRightLower64 = 0
)

func isLeftEndpointIntegerShorter64(exponent int) bool {
	return exponent >= shorterIntervalLeftLower64 && exponent <= shorterIntervalLeftUpper64
}

func isRightEndpointIntegerShorter64(exponent int) bool {
	return exponent >= shorterIntervalRightLower64 && exponent <= shorterIntervalRightUpper64
}

func cache64(k int, cp policy.CachePolicy) wide.Uint128 {
	if cp == policy.CacheCompact {
		return tables.Pow10Cache64Compact(k)
	}
	return tables.Pow10Cache64(k)
}

func computeMul64(u uint64, cache wide.Uint128) (significand uint64, isInteger bool) {
	r := wide.Mul192Upper128(cache, u)
	return r.Hi, r.Lo == 0
}

func computeDelta64(cache wide.Uint128, beta int) uint32 {
	return uint32(cache.Hi >> uint(63-beta))
}

func computeMulParity64(twoF uint64, cache wide.Uint128, beta int) (parity, isInteger bool) {
	r := wide.Mul192Lower128(cache, twoF)
	parity = (r.Hi>>uint(64-beta))&1 != 0
	isInteger = (r.Hi<<uint(beta))|(r.Lo>>uint(64-beta)) == 0
	return
}

func computeLeftEndpointShorter64(cache wide.Uint128, beta int) uint64 {
	return (cache.Hi - (cache.Hi >> (significandBits64 + 2))) >> uint(11-beta)
}

func computeRightEndpointShorter64(cache wide.Uint128, beta int) uint64 {
	return (cache.Hi + (cache.Hi >> (significandBits64 + 1))) >> uint(11-beta)
}

func computeRoundUpShorter64(cache wide.Uint128, beta int) uint64 {
	return ((cache.Hi >> uint(10-beta)) + 1) / 2
}

// Params bundles the policy selections a single to_chars call resolves to,
// read by both the binary32 and binary64 entry points.
type Params struct {
	Rounding       policy.DecimalToBinaryRounding
	TieBreak       policy.BinaryToDecimalRounding
	TrailingZeros  policy.TrailingZeroPolicy
	Cache          policy.CachePolicy
}

// preferRoundDown reports whether the exact-halfway tie-break policy favors
// the smaller of the two candidate significands.
func preferRoundDown(tie policy.BinaryToDecimalRounding, significandIsEven bool) bool {
	switch tie {
	case policy.BinaryToDecimalToEven:
		return significandIsEven
	case policy.BinaryToDecimalToOdd:
		return !significandIsEven
	case policy.BinaryToDecimalTowardZero:
		return true
	case policy.BinaryToDecimalAwayFromZero:
		return false
	default: // do not care: behave like to-even, the library's own default
		return significandIsEven
	}
}

// ToDecimal64 converts a decomposed, finite, nonzero binary64 value into its
// shortest round-trip decimal representation. The caller must have already
// excluded zero, infinity and NaN (floatbits.Binary64Bits.IsZero/IsFinite).
func ToDecimal64(bits floatbits.Binary64Bits, p Params) decimal.Float64 {
	negative := bits.Sign
	twoFc := bits.SignificandBits << 1

	var exponent int
	if bits.ExponentBits != 0 {
		exponent = int(bits.ExponentBits) + floatbits.Binary64ExponentBias - significandBits64
		if twoFc == 0 {
			// The raw significand bits (before the implicit leading 1 is
			// folded in) are exactly zero: the value is an exact power of
			// two, whose rounding interval is asymmetric.
			return computeNearestShorter64(exponent, negative, p)
		}
		twoFc |= uint64(1) << (significandBits64 + 1)
	} else {
		exponent = floatbits.Binary64MinExponent - significandBits64
	}

	significandIsEven := twoFc&2 == 0
	return computeNearestNormal64(twoFc, exponent, negative, significandIsEven, p)
}

func computeNearestNormal64(twoFc uint64, exponent int, negative, significandIsEven bool, p Params) decimal.Float64 {
	iv := policy.NormalInterval(p.Rounding, significandIsEven, negative)

	minusK := tables.FloorLog10Pow2(exponent) - kappa64
	cache := cache64(-minusK, p.Cache)
	beta := exponent + tables.FloorLog2Pow10(-minusK)

	deltai := computeDelta64(cache, beta)
	zi, isZInteger := computeMul64((twoFc|1)<<uint(beta), cache)

	const bigDivisor = 1000
	const smallDivisor = 100

	significand := zi / bigDivisor
	r := uint32(zi - bigDivisor*significand)

	useSmallDivisor := false
	switch {
	case r < deltai:
		if r == 0 && isZInteger && !iv.IncludeRight {
			significand--
			r = bigDivisor
			useSmallDivisor = true
		}
	case r > deltai:
		useSmallDivisor = true
	default:
		xiParity, xIsInteger := computeMulParity64(twoFc-1, cache, beta)
		if !(xiParity || (xIsInteger && iv.IncludeLeft)) {
			useSmallDivisor = true
		}
	}

	if !useSmallDivisor {
		result := decimal.Float64{Sign: negative, Significand: significand, Exponent: minusK + kappa64 + 1}
		if p.TrailingZeros == policy.TrailingZeroRemove {
			removed := removeTrailingZeros64(&result.Significand)
			result.Exponent += removed
		} else if p.TrailingZeros == policy.TrailingZeroReport {
			result.MayHaveTrailingZero = true
		}
		return result
	}

	significand *= 10
	exp := minusK + kappa64

	if p.TieBreak == policy.BinaryToDecimalDoNotCare {
		if !iv.IncludeRight {
			if isZInteger && checkDivisibilityAndDivideByPow10(&r, kappa64) {
				significand += uint64(r) - 1
			} else {
				significand += uint64(r)
			}
		} else {
			significand += uint64(smallDivisionByPow10(r, kappa64))
		}
	} else {
		dist := r - deltai/2 + smallDivisor/2
		approxYParity := (dist^(smallDivisor/2))&1 != 0
		divisibleBySmallDivisor := checkDivisibilityAndDivideByPow10(&dist, kappa64)
		significand += uint64(dist)

		if divisibleBySmallDivisor {
			yiParity, isYInteger := computeMulParity64(twoFc, cache, beta)
			if yiParity != approxYParity {
				significand--
			} else if preferRoundDown(p.TieBreak, significand%2 == 0) && isYInteger {
				significand--
			}
		}
	}

	return decimal.Float64{Sign: negative, Significand: significand, Exponent: exp}
}

func computeNearestShorter64(exponent int, negative bool, p Params) decimal.Float64 {
	iv := policy.ShorterInterval(p.Rounding)

	minusK := tables.FloorLog10Pow2MinusLog10_4over3(exponent)
	beta := exponent + tables.FloorLog2Pow10(-minusK)
	cache := cache64(-minusK, p.Cache)

	xi := computeLeftEndpointShorter64(cache, beta)
	zi := computeRightEndpointShorter64(cache, beta)

	if !iv.IncludeRight && isRightEndpointIntegerShorter64(exponent) {
		zi--
	}
	if !iv.IncludeLeft || !isLeftEndpointIntegerShorter64(exponent) {
		xi++
	}

	significand := zi / 10
	if significand*10 >= xi {
		result := decimal.Float64{Sign: negative, Significand: significand, Exponent: minusK + 1}
		if p.TrailingZeros == policy.TrailingZeroRemove {
			removed := removeTrailingZeros64(&result.Significand)
			result.Exponent += removed
		} else if p.TrailingZeros == policy.TrailingZeroReport {
			result.MayHaveTrailingZero = true
		}
		return result
	}

	significand = computeRoundUpShorter64(cache, beta)
	exp := minusK

	if preferRoundDown(p.TieBreak, significand%2 == 0) &&
		exponent >= shorterIntervalTieLower64 && exponent <= shorterIntervalTieUpper64 {
		significand--
	} else if significand < xi {
		significand++
	}

	return decimal.Float64{Sign: negative, Significand: significand, Exponent: exp}
}

// removeTrailingZeros64 strips factors of ten from n using the modular-
// inverse trick (multiply by the inverse of 25 or 5, rotate, compare against
// MaxUint64/100 or MaxUint64/10) so the division never touches a variable
// divisor; the first pass tries a one-shot divide by 10^8 and, when n is
// divisible by it, finishes on the 32-bit core, as boost::charconv's
// remove_trailing_zeros does for binary64.
func removeTrailingZeros64(n *uint64) int {
	const magic = uint64(12379400392853802749) // ceil(2^90 / 10^8)
	product := wide.Mul64(*n, magic)
	hi, lo := product.Hi, product.Lo
	if hi&((uint64(1)<<(90-64))-1) == 0 && lo < magic {
		n32 := uint32(hi >> (90 - 64))
		s := 8
		n32, s2 := removeTrailingZeros32Core(n32)
		s += s2
		*n = uint64(n32)
		return s
	}

	modInv5 := uint64(0xcccccccccccccccd)
	modInv25 := modInv5 * modInv5
	s := 0
	for {
		q := rotr64(*n*modInv25, 2)
		if q <= ^uint64(0)/100 {
			*n = q
			s += 2
		} else {
			break
		}
	}
	q := rotr64(*n*modInv5, 1)
	if q <= ^uint64(0)/10 {
		*n = q
		s |= 1
	}
	return s
}

func removeTrailingZeros32Core(n32 uint32) (uint32, int) {
	modInv5 := uint32(0xcccccccd)
	modInv25 := modInv5 * modInv5
	s := 0
	for {
		q := rotr32(n32*modInv25, 2)
		if q <= ^uint32(0)/100 {
			n32 = q
			s += 2
		} else {
			break
		}
	}
	q := rotr32(n32*modInv5, 1)
	if q <= ^uint32(0)/10 {
		n32 = q
		s |= 1
	}
	return n32, s
}

func rotr32(x uint32, r uint) uint32 { return (x >> r) | (x << (32 - r)) }
func rotr64(x uint64, r uint) uint64 { return (x >> r) | (x << (64 - r)) }
