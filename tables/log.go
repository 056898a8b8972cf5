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

// Package tables holds the fixed-point log-of-power-of-N approximations and
// the lazily computed power-of-ten caches that Dragonbox is built on
// (spec.md §4.3, §4.4), plus a 256-bit binary128 cache that the ryu128
// formatter does not use.
//
// The log functions and their magic constants are ported bit-for-bit from
// boost::charconv's detail/log.hpp (same fractional-digit constants, same
// shift amounts, same per-function input-range limits).
package tables

// floorShift computes floor((integerPart<<shiftAmount | fractionalDigits >>
// (64-shiftAmount))), the fixed-point packing boost::charconv's log.hpp
// calls floor_shift.
func floorShift(integerPart uint32, fractionalDigits uint64, shiftAmount uint) int32 {
	if shiftAmount == 0 {
		return int32(integerPart)
	}
	return int32((uint64(integerPart) << shiftAmount) | (fractionalDigits >> (64 - shiftAmount)))
}

// compute returns floor(e*c - s) where c and s are the fixed-point values
// packed by floorShift, and the result is recovered by shifting back down.
func compute(e int, cInt uint32, cFrac uint64, shiftAmount uint, sInt uint32, sFrac uint64) int {
	c := floorShift(cInt, cFrac, shiftAmount)
	s := floorShift(sInt, sFrac, shiftAmount)
	return (e*int(c) - int(s)) >> shiftAmount
}

// Fixed-point fractional-digit constants, ported verbatim from
// boost::charconv's detail/log.hpp.
const (
	log10_2Frac      = uint64(5553023288523357132)
	log10_4over3Frac = uint64(2304712899105915765)
	log10_5Frac      = uint64(12893720785186194483)
	log2_10Frac      = uint64(5938525176524057593)
	log5_2Frac       = uint64(7944580245325990804)
	log5_3Frac       = uint64(12591861772811778852)
)

// FloorLog10Pow2 returns floor(log10(2^e)), valid for |e| <= 1700.
func FloorLog10Pow2(e int) int {
	return compute(e, 0, log10_2Frac, 22, 0, 0)
}

// FloorLog10Pow5 returns floor(log10(5^e)), valid for |e| <= 2620.
func FloorLog10Pow5(e int) int {
	return compute(e, 0, log10_5Frac, 20, 0, 0)
}

// FloorLog2Pow5 returns floor(log2(5^e)), valid for |e| <= 1764.
func FloorLog2Pow5(e int) int {
	return compute(e, 2, log2_10Frac, 19, 0, 0)
}

// FloorLog2Pow10 returns floor(log2(10^e)), valid for |e| <= 1233.
func FloorLog2Pow10(e int) int {
	return compute(e, 3, log2_10Frac, 19, 0, 0)
}

// FloorLog5Pow2 returns floor(log5(2^e)), valid for |e| <= 1492.
func FloorLog5Pow2(e int) int {
	return compute(e, 0, log5_2Frac, 20, 0, 0)
}

// FloorLog5Pow2MinusLog5_3 returns floor(log5(2^e) - log5(3)), valid for
// |e| <= 2427.
func FloorLog5Pow2MinusLog5_3(e int) int {
	return compute(e, 0, log5_2Frac, 20, 0, log5_3Frac)
}

// FloorLog10Pow2MinusLog10_4over3 returns floor(log10(2^e) - log10(4/3)),
// valid for |e| <= 1700.
func FloorLog10Pow2MinusLog10_4over3(e int) int {
	return compute(e, 0, log10_2Frac, 22, 0, log10_4over3Frac)
}
