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
	significandBits32 = 23
	kappa32           = 1
)

var (
	shorterIntervalLeftUpper32  int
	shorterIntervalRightUpper32 int
	shorterIntervalTieLower32   int
	shorterIntervalTieUpper32   int
)

func init() {
	sigPlus2 := uint64(1)<<(significandBits32+2) - 1
	k1 := countFactors5(sigPlus2) + 1
	shorterIntervalLeftUpper32 = 2 + floorLog2Int(pow10Small(k1)/3)

	sigPlus1 := uint64(1)<<(significandBits32+1) + 1
	k2 := countFactors5(sigPlus1) + 1
	shorterIntervalRightUpper32 = 2 + floorLog2Int(pow10Small(k2)/3)

	shorterIntervalTieLower32 = -tables.FloorLog5Pow2MinusLog5_3(significandBits32+4) - 2 - significandBits32
	shorterIntervalTieUpper32 = -tables.FloorLog5Pow2(significandBits32+2) - 2 - significandBits32
}

const (
	shorterIntervalLeftLower32  = 2
	shorterIntervalRightLower32 = 0
)

func isLeftEndpointIntegerShorter32(exponent int) bool {
	return exponent >= shorterIntervalLeftLower32 && exponent <= shorterIntervalLeftUpper32
}

func isRightEndpointIntegerShorter32(exponent int) bool {
	return exponent >= shorterIntervalRightLower32 && exponent <= shorterIntervalRightUpper32
}

func cache32(k int) uint64 {
	return tables.Pow10Cache32(k)
}

func computeMul32(u uint32, cache uint64) (significand uint32, isInteger bool) {
	r := wide.Mul96By32Upper64(u, cache)
	return uint32(r >> 32), uint32(r) == 0
}

func computeDelta32(cache uint64, beta int) uint32 {
	return uint32(cache >> uint(63-beta))
}

func computeMulParity32(twoF uint32, cache uint64, beta int) (parity, isInteger bool) {
	r := wide.Mul96By32Lower64(twoF, cache)
	parity = (r>>uint(64-beta))&1 != 0
	isInteger = uint32(r>>uint(32-beta)) == 0
	return
}

func computeLeftEndpointShorter32(cache uint64, beta int) uint32 {
	return uint32((cache - (cache >> (significandBits32 + 2))) >> uint(40-beta))
}

func computeRightEndpointShorter32(cache uint64, beta int) uint32 {
	return uint32((cache + (cache >> (significandBits32 + 1))) >> uint(40-beta))
}

func computeRoundUpShorter32(cache uint64, beta int) uint32 {
	return uint32((cache>>uint(39-beta))+1) / 2
}

// ToDecimal32 is the binary32 analogue of ToDecimal64.
func ToDecimal32(bits floatbits.Binary32Bits, p Params) decimal.Float32 {
	negative := bits.Sign
	twoFc := bits.SignificandBits << 1

	var exponent int
	if bits.ExponentBits != 0 {
		exponent = int(bits.ExponentBits) + floatbits.Binary32ExponentBias - significandBits32
		if twoFc == 0 {
			return computeNearestShorter32(exponent, negative, p)
		}
		twoFc |= uint32(1) << (significandBits32 + 1)
	} else {
		exponent = floatbits.Binary32MinExponent - significandBits32
	}

	significandIsEven := twoFc&2 == 0
	return computeNearestNormal32(twoFc, exponent, negative, significandIsEven, p)
}

func computeNearestNormal32(twoFc uint32, exponent int, negative, significandIsEven bool, p Params) decimal.Float32 {
	iv := policy.NormalInterval(p.Rounding, significandIsEven, negative)

	minusK := tables.FloorLog10Pow2(exponent) - kappa32
	cache := cache32(-minusK)
	beta := exponent + tables.FloorLog2Pow10(-minusK)

	deltai := computeDelta32(cache, beta)
	zi, isZInteger := computeMul32((twoFc|1)<<uint(beta), cache)

	const bigDivisor = 100
	const smallDivisor = 10

	significand := zi / bigDivisor
	r := zi - bigDivisor*significand

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
		xiParity, xIsInteger := computeMulParity32(twoFc-1, cache, beta)
		if !(xiParity || (xIsInteger && iv.IncludeLeft)) {
			useSmallDivisor = true
		}
	}

	if !useSmallDivisor {
		result := decimal.Float32{Sign: negative, Significand: significand, Exponent: minusK + kappa32 + 1}
		if p.TrailingZeros == policy.TrailingZeroRemove {
			removed := removeTrailingZeros32(&result.Significand)
			result.Exponent += removed
		} else if p.TrailingZeros == policy.TrailingZeroReport {
			result.MayHaveTrailingZero = true
		}
		return result
	}

	significand *= 10
	exp := minusK + kappa32

	if p.TieBreak == policy.BinaryToDecimalDoNotCare {
		if !iv.IncludeRight {
			if isZInteger && checkDivisibilityAndDivideByPow10(&r, kappa32) {
				significand += r - 1
			} else {
				significand += r
			}
		} else {
			significand += smallDivisionByPow10(r, kappa32)
		}
	} else {
		dist := r - deltai/2 + smallDivisor/2
		approxYParity := (dist^(smallDivisor/2))&1 != 0
		divisibleBySmallDivisor := checkDivisibilityAndDivideByPow10(&dist, kappa32)
		significand += dist

		if divisibleBySmallDivisor {
			yiParity, isYInteger := computeMulParity32(twoFc, cache, beta)
			if yiParity != approxYParity {
				significand--
			} else if preferRoundDown(p.TieBreak, significand%2 == 0) && isYInteger {
				significand--
			}
		}
	}

	return decimal.Float32{Sign: negative, Significand: significand, Exponent: exp}
}

func computeNearestShorter32(exponent int, negative bool, p Params) decimal.Float32 {
	iv := policy.ShorterInterval(p.Rounding)

	minusK := tables.FloorLog10Pow2MinusLog10_4over3(exponent)
	beta := exponent + tables.FloorLog2Pow10(-minusK)
	cache := cache32(-minusK)

	xi := computeLeftEndpointShorter32(cache, beta)
	zi := computeRightEndpointShorter32(cache, beta)

	if !iv.IncludeRight && isRightEndpointIntegerShorter32(exponent) {
		zi--
	}
	if !iv.IncludeLeft || !isLeftEndpointIntegerShorter32(exponent) {
		xi++
	}

	significand := zi / 10
	if significand*10 >= xi {
		result := decimal.Float32{Sign: negative, Significand: significand, Exponent: minusK + 1}
		if p.TrailingZeros == policy.TrailingZeroRemove {
			removed := removeTrailingZeros32(&result.Significand)
			result.Exponent += removed
		} else if p.TrailingZeros == policy.TrailingZeroReport {
			result.MayHaveTrailingZero = true
		}
		return result
	}

	significand = computeRoundUpShorter32(cache, beta)
	exp := minusK

	if preferRoundDown(p.TieBreak, significand%2 == 0) &&
		exponent >= shorterIntervalTieLower32 && exponent <= shorterIntervalTieUpper32 {
		significand--
	} else if significand < xi {
		significand++
	}

	return decimal.Float32{Sign: negative, Significand: significand, Exponent: exp}
}

// removeTrailingZeros32 is the standalone binary32 entry point into the
// shared modular-inverse zero-stripping core.
func removeTrailingZeros32(n *uint32) int {
	result, s := removeTrailingZeros32Core(*n)
	*n = result
	return s
}
