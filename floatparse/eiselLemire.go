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
	"github.com/goshort/charconv/internal/wide"
	"github.com/goshort/charconv/tables"
)

// eiselLemireSeed produces a best-effort (man, bexp) pair -- value ~=
// man*2^bexp, man normalized into the top bit of a uint64 -- for mantissa
// m*10^q, using the Eisel-Lemire 64x128 cache multiply. Its result is never
// trusted on its own: findBracketingExponent and floorDiv2Pow in
// bigcompare.go always re-derive the true floor from it, so an off-by-a-few-
// bits seed only costs a handful of extra comparator calls, never
// correctness. That lets this reconstruction stay close to the published
// algorithm's shape without needing compute_float64.hpp's exact constants,
// which were not present in the filtered original_source.
func eiselLemireSeed(m uint64, q int) (man uint64, bexp int) {
	if m == 0 {
		return 0, 0
	}
	clz := wide.CountLeadingZeros64(m)
	mNorm := m << uint(clz)

	cache := tables.Pow10Cache64(q)
	upper, _ := wide.Mul128By64(cache, mNorm)

	cacheExp := 127 - tables.FloorLog2Pow10(q)

	shift := 0
	for upper.Hi != 0 && upper.Hi < 1<<63 {
		upper = wide.Shl128(upper, 1)
		shift++
	}
	man = upper.Hi
	bexp = 64 - shift - cacheExp - clz
	return
}
