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

import "github.com/goshort/charconv/internal/bigint"

// maxHexDigits bounds how many hex mantissa digits feed the exact bigint,
// the hex analogue of maxDecDigits: 600 digits is 2400 bits, comfortably
// inside bigint.Int's ~4000-bit capacity.
const maxHexDigits = 600

// hexOverflowMargin bounds the leading binary exponent before
// parseHexMagnitude's overflow/underflow short-circuit fires. Unlike
// overflowMargin (a decimal-exponent budget for compareScaled), this margin
// is already in binary-exponent units, so it's sized directly against
// maxSafeBexp: maxExponent+hexOverflowMargin-targetBits must stay well under
// maxSafeBexp for every format compareScaledBin serves (binary64's
// maxExponent, the largest of the two, leaves over 100 bits of headroom).
const hexOverflowMargin = 200

// hexValue holds an exact binary value: digits * 2^exp2. Unlike decimal
// mantissas, every hex digit is exactly 4 bits, so there is no base-5
// scaling to account for and no Eisel-Lemire-style seed is needed: the
// bigint's own bit length gives the target exponent directly.
type hexValue struct {
	digits bigint.Int
	exp2   int
}

// buildHexValue folds a lexed hex literal into an exact binary value. As in
// buildDecimalValue, digits dropped off the low-order end push exp2 out by
// 4 bits per digit dropped.
func buildHexValue(lr *lexResult) hexValue {
	var digits bigint.Int
	kept := 0
	total := 0
	lr.forEachDigit(func(v byte) {
		total++
		if kept < maxHexDigits {
			digits.MulSmall(16)
			digits.AddSmall(uint64(v))
			kept++
		}
	})
	exp2 := int(lr.explicitExponent()) - 4*lr.fracDigitCount() + 4*(total-kept)
	return hexValue{digits: digits, exp2: exp2}
}

// compareScaledBin reports the sign of man*2^bexp - hv. Callers are
// expected to have already bounded hv.exp2 and bexp to a sane range
// (parseHexMagnitude's overflow/underflow short-circuit); the maxSafeBexp
// valve here is defense in depth against a caller that hasn't.
func compareScaledBin(man uint64, bexp int, hv hexValue) int {
	diff := bexp - hv.exp2
	if diff > maxSafeBexp {
		return 1
	}
	if -diff > maxSafeBexp {
		return -1
	}
	a := bigint.FromUint64(man)
	b := hv.digits
	if diff >= 0 {
		a.MulPow2(uint32(diff))
	} else {
		b.MulPow2(uint32(-diff))
	}
	return a.Compare(&b)
}

// roundedHexMantissa returns the targetBits-wide floor of hv's value
// divided by 2^bexp (the largest man with man*2^bexp <= hv), together with
// whether the division was exact; roundToFormat does the final rounding.
func roundedHexMantissa(hv hexValue, bexp, targetBits int) (man uint64, exact bool) {
	var hi uint64
	if targetBits >= 64 {
		hi = ^uint64(0)
	} else {
		hi = uint64(1)<<uint(targetBits) - 1
	}
	lo := uint64(0)
	if compareScaledBin(hi, bexp, hv) <= 0 {
		lo = hi
	} else {
		for lo < hi {
			mid := lo + (hi-lo+1)/2
			if compareScaledBin(mid, bexp, hv) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
	}
	man = lo
	exact = compareScaledBin(man, bexp, hv) == 0
	return
}
