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

package decimal

import (
	"github.com/goshort/charconv/internal/bigint"
	"github.com/goshort/charconv/internal/wide"
)

// compareScaled returns the sign of candQ*10^placeExp*2^s - num, i.e. of
// candQ*10^placeExp compared against the exact value num/2^s. Every digit
// decision below -- greedy digit selection, round-to-nearest-even,
// locating the leading digit -- is phrased through this one comparator,
// since bigint.Int has no division or right-shift: "scale the candidate
// back up and compare" stands in for "divide the target down".
func compareScaled(candQ bigint.Int, placeExp int, num bigint.Int, s uint32) int {
	lhs := candQ
	rhs := num
	if placeExp >= 0 {
		lhs.MulPow10(uint32(placeExp))
	} else {
		rhs.MulPow10(uint32(-placeExp))
	}
	lhs.MulPow2(s)
	return lhs.Compare(&rhs)
}

// floorLog10 returns floor(log10(num/2^s)) for num > 0.
func floorLog10(num bigint.Int, s uint32) int {
	est := int(float64(num.BitLength()-int(s)) * 0.3010299956639812)
	one := bigint.FromUint64(1)
	for compareScaled(one, est, num, s) > 0 {
		est--
	}
	for compareScaled(one, est+1, num, s) <= 0 {
		est++
	}
	return est
}

// exactDecimalDigits returns the nDigits-digit, correctly-rounded-to-
// nearest-even decimal expansion of num/2^s (num > 0, s >= 0, nDigits >= 1),
// most significant digit first, together with the base-10 exponent of the
// leading digit.
//
// Digits are built one at a time, most significant first, by trying
// candidate digits 9 down to 0 and keeping the largest whose scaled-back-up
// value still fits under the target (the same greedy compare-and-build
// technique tables.topBitsCeil/divBigintCeil use for the power-of-ten cache
// bootstrap, generalized here from binary digits to decimal and from
// ceiling to round-to-nearest-even). This is what lets PrecisionFloat64/32
// round an explicit precision against the value's own (significand,
// binary exponent) pair via the module's bigint/pow10 machinery, rather
// than re-deriving the expansion through math/big as before.
func exactDecimalDigits(num bigint.Int, s uint32, nDigits int) ([]byte, int) {
	decExp := floorLog10(num, s)
	digits := make([]byte, nDigits)
	var q bigint.Int
	for i := 0; i < nDigits; i++ {
		placeExp := decExp - i
		var chosen byte
		for d := byte(9); ; d-- {
			trial := q
			trial.MulSmall(10)
			trial.AddSmall(uint64(d))
			if compareScaled(trial, placeExp, num, s) <= 0 {
				chosen = d
				q = trial
				break
			}
			if d == 0 {
				chosen = 0
				q.MulSmall(10)
				break
			}
		}
		digits[i] = '0' + chosen
	}

	// Round the retained digits using the half-ulp test 2X vs (2q+1)*place,
	// ties going to the even last digit.
	placeExp := decExp - (nDigits - 1)
	twoNum := num
	twoNum.MulSmall(2)
	twoQPlus1 := q
	twoQPlus1.MulSmall(2)
	twoQPlus1.AddSmall(1)
	halfSign := -compareScaled(twoQPlus1, placeExp, twoNum, s)

	roundUp := halfSign > 0
	if halfSign == 0 {
		roundUp = (digits[nDigits-1]-'0')%2 == 1
	}
	if roundUp {
		overflow := true
		for i := nDigits - 1; i >= 0; i-- {
			if digits[i] < '9' {
				digits[i]++
				overflow = false
				break
			}
			digits[i] = '0'
		}
		if overflow {
			digits[0] = '1'
			decExp++
		}
	}
	return digits, decExp
}

// roundsUpToUnit reports whether num/2^s, rounded to the nearest multiple
// of 10^-prec (ties to even, so an exact half such as 0.5 at prec 0 goes to
// 0), rounds up to 10^-prec rather than down to 0. Used when a fixed-format precision
// asks for fewer digits than the value has significant digits below its
// leading one, i.e. the whole value may vanish at the requested resolution.
func roundsUpToUnit(num bigint.Int, s uint32, prec int) bool {
	twoNum := num
	twoNum.MulSmall(2)
	one := bigint.FromUint64(1)
	return compareScaled(one, -prec, twoNum, s) < 0
}

// uint128Digits renders sig as a decimal digit string, most significant
// digit first, with no leading zeros (sig == 0 renders as "0"). Used by
// ShortestFloat128 to lay out ryu128's integer significand the same way
// strconv.AppendUint lays out Dragonbox's uint64/uint32 significands:
// bigint.Int has no division, so digits fall out of the same greedy
// compare-and-build technique exactDecimalDigits uses, just against an
// exact integer (s == 0) rather than a num/2^s fraction.
func uint128Digits(sig wide.Uint128) []byte {
	num := bigint.FromUint64(sig.Hi)
	num.MulPow2(64)
	lo := bigint.FromUint64(sig.Lo)
	num.AddBigint(&lo, 0)
	if num.IsZero() {
		return []byte{'0'}
	}
	n := floorLog10(num, 0) + 1
	digits := make([]byte, n)
	var q bigint.Int
	for i := 0; i < n; i++ {
		placeExp := n - 1 - i
		for d := byte(9); ; d-- {
			trial := q
			trial.MulSmall(10)
			trial.AddSmall(uint64(d))
			if compareScaled(trial, placeExp, num, 0) <= 0 {
				digits[i] = '0' + d
				q = trial
				break
			}
			if d == 0 {
				digits[i] = '0'
				q.MulSmall(10)
				break
			}
		}
	}
	return digits
}

// significandFraction decomposes a finite nonzero value's exact binary
// significand and exponent (value == sig * 2^exp) into the num/2^s form
// exactDecimalDigits consumes.
func significandFraction(sig uint64, exp int) (num bigint.Int, s uint32) {
	num = bigint.FromUint64(sig)
	if exp >= 0 {
		num.MulPow2(uint32(exp))
		return num, 0
	}
	return num, uint32(-exp)
}
