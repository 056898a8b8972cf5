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

// maxDecDigits bounds how many significant decimal digits feed the exact
// comparator's bigint. internal/bigint.Int has ~4000 bits of fixed capacity
// (the same fixed-capacity tradeoff boost::charconv's own fast_float bigint
// makes); capping the digit string well below that ceiling, alongside
// overflowMargin and maxSafeBexp below, keeps every compareScaled call's
// two operands inside that capacity with comfortable headroom, while still
// covering any realistic input many times over (binary128 round-trip only
// ever needs 36 significant digits). A literal with more significant digits
// than this is a documented precision bound, not a correctness one: digits
// beyond the cap are dropped (the exponent is adjusted for them, so the
// compared value is a truncation of the literal; see DESIGN.md).
const maxDecDigits = 200

// overflowMargin bounds the decimal exponent of the leading digit before
// parseDecimalMagnitude's early overflow/underflow short-circuit fires,
// comfortably outside binary64's representable range (-324 to 308) so no
// finite value is misclassified, while small enough that the exponent
// reaching compareScaled never forces MulPow5/MulPow2 past the capacity
// budget above.
const overflowMargin = 400

// maxSafeBexp bounds the candidate binary exponent compareScaled will
// actually scale by. findBracketingExponent's exponential search only ever
// needs to land within a few hundred of binary64's legitimate exponent
// range (roughly +-1130); this valve is pure defense against a seed or
// search defect driving that search into bit counts that would overflow
// bigint.Int's fixed capacity -- past it, compareScaled falls back to a
// coarse sign comparison instead of risking a corrupting overflow.
const maxSafeBexp = 1300

// decimalValue holds the exact significand and decimal exponent the slow
// path compares against: true value = digits * 10^exp10, where digits has
// already been capped to maxDecDigits (trailing digits beyond the cap are
// dropped and counted into exp10, so the value is truncated, a documented
// precision bound rather than a correctness one -- see DESIGN.md).
type decimalValue struct {
	digits bigint.Int
	exp10  int
}

// buildDecimalValue folds a lexed mantissa into a decimalValue, capping the
// digit count as described above. Digits dropped off the low-order end of
// the mantissa push exp10 out by one per digit dropped -- truncating a
// digit string without doing that silently divides the value by
// 10^(dropped digit count).
func buildDecimalValue(lr *lexResult) decimalValue {
	var digits bigint.Int
	kept := 0
	total := 0
	lr.forEachDigit(func(v byte) {
		total++
		if kept < maxDecDigits {
			digits.MulSmall(10)
			digits.AddSmall(uint64(v))
			kept++
		}
	})
	exp10 := int(lr.explicitExponent()) - lr.fracDigitCount() + (total - kept)
	return decimalValue{digits: digits, exp10: exp10}
}

// compareScaled reports the sign of man*2^bexp - dv (negative, zero or
// positive), without ever needing subtraction: both sides are normalized to
// plain non-negative integers by moving every negative power to the other
// side of the comparison (a*2^p/2^n ? b*2^q/2^m  <=>  a*2^p*2^m ? b*2^q*2^n
// for n, m >= 0), then compared with bigint.Int.Compare.
func compareScaled(man uint64, bexp int, dv decimalValue) int {
	posBexp, negBexp := splitExp(bexp)
	posExp10, negExp10 := splitExp(dv.exp10)

	if posBexp+negExp10 > maxSafeBexp {
		return 1 // candidate unambiguously larger; avoid an overflowing Mul
	}
	if posExp10+negBexp > maxSafeBexp {
		return -1 // dv unambiguously larger
	}

	a := bigint.FromUint64(man)
	b := dv.digits // cheap struct copy, no heap

	a.MulPow2(uint32(posBexp))
	a.MulPow2(uint32(negExp10))
	a.MulPow5(uint32(negExp10))

	b.MulPow2(uint32(posExp10))
	b.MulPow5(uint32(posExp10))
	b.MulPow2(uint32(negBexp))

	return a.Compare(&b)
}

func splitExp(e int) (pos, neg int) {
	if e >= 0 {
		return e, 0
	}
	return 0, -e
}

// floorDiv2Pow returns floor(dv / 2^bexp), the largest man in [0, 2^maxBits)
// with man*2^bexp <= dv, found by plain binary search over the comparator
// above -- exact regardless of how good a starting guess bexp is.
func floorDiv2Pow(dv decimalValue, bexp, maxBits int) (man uint64, exact bool) {
	var hi uint64
	if maxBits >= 64 {
		hi = ^uint64(0)
	} else {
		hi = uint64(1)<<uint(maxBits) - 1
	}
	lo := uint64(0)
	if compareScaled(hi, bexp, dv) <= 0 {
		lo = hi
	} else {
		for lo < hi {
			mid := lo + (hi-lo+1)/2
			if compareScaled(mid, bexp, dv) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
	}
	man = lo
	exact = compareScaled(man, bexp, dv) == 0
	return
}

// findBracketingExponent returns the unique bexp with
// lowBound*2^bexp <= dv < hiBound*2^bexp + 2^bexp (dv falls inside the
// single binade [lowBound, hiBound+1) scaled by 2^bexp), regardless of how
// wrong the starting seed is: a galloping search first brackets the
// threshold with exponentially growing steps, then a binary search
// pinpoints it exactly.
func findBracketingExponent(dv decimalValue, seedBexp int, lowBound, hiBound uint64) int {
	fits := func(e int) bool { return compareScaled(lowBound, e, dv) <= 0 }

	var lo, hi int
	if fits(seedBexp) {
		cur, step := seedBexp, 1
		next := cur + step
		for fits(next) {
			cur = next
			step *= 2
			next = cur + step
		}
		lo, hi = cur, next
	} else {
		cur, step := seedBexp, 1
		prev := cur - step
		for !fits(prev) {
			cur = prev
			step *= 2
			prev = cur - step
		}
		lo, hi = prev, cur
	}

	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// roundNearestEven drops the low bit of man (a value with one guard bit
// beyond the target precision), rounding to nearest and, on an exact tie
// (the dropped bit is the only evidence of a remainder and it is exactly
// half a unit), to even.
func roundNearestEven(man uint64, exact bool) uint64 {
	roundBit := man & 1
	out := man >> 1
	if roundBit == 1 && (!exact || out&1 == 1) {
		out++
	}
	return out
}
