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

// Package dragonbox implements Junekey Jeon's shortest-round-trip
// float-to-decimal algorithm for binary32 and binary64, ported from
// boost::charconv's detail/dragonbox.hpp. compute_nearest_normal and
// compute_nearest_shorter and their exceptional-case handling follow the
// source step for step; only the policy dispatch is reshaped from
// compile-time template parameters to the policy package's runtime enums.
// The directed-rounding variants (compute_left_closed_directed,
// compute_right_closed_directed) are not implemented: every rounding mode,
// directed ones included, runs the nearest paths with that mode's
// interval-endpoint rule from policy.NormalInterval/ShorterInterval.
package dragonbox

import "math/bits"

func floorLog2Int(x uint64) int {
	if x == 0 {
		return -1
	}
	return bits.Len64(x) - 1
}

func countFactors5(n uint64) int {
	c := 0
	for n%5 == 0 {
		n /= 5
		c++
	}
	return c
}

func pow10Small(k int) uint64 {
	r := uint64(1)
	for i := 0; i < k; i++ {
		r *= 10
	}
	return r
}

// checkDivisibilityAndDivideByPow10 divides n by 10^kappa (floor division,
// in place) and reports whether the original value was exactly divisible,
// the combined test+divide boost::charconv's div.hpp performs with a single
// modular-inverse multiply; a plain division is equivalent in result and
// the branch-free trick only matters for a perf property we don't rely on.
func checkDivisibilityAndDivideByPow10(n *uint32, kappa int) bool {
	d := uint32(pow10Small(kappa))
	r := *n % d
	*n /= d
	return r == 0
}

func smallDivisionByPow10(n uint32, kappa int) uint32 {
	return n / uint32(pow10Small(kappa))
}
