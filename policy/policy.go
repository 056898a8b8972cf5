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

// Package policy enumerates the rounding/sign/trailing-zero strategies that
// Dragonbox and the generic Ryu formatter take as parameters.
//
// boost::charconv assembles these as type-based policy holders instantiated
// per call site (detail/policies.hpp); without class templates, the same
// dispatch is a concrete enum threaded through the formatter as an ordinary
// argument, which spec.md's design notes call out as the natural Go
// rendition and note costs nothing on these already-O(1) hot paths.
package policy

// SignPolicy controls whether the caller wants the sign reported back.
type SignPolicy int

const (
	SignIgnore SignPolicy = iota
	SignReturn
)

// TrailingZeroPolicy controls how trailing decimal zeros are handled once a
// candidate (significand, exponent) pair has been produced.
type TrailingZeroPolicy int

const (
	TrailingZeroIgnore TrailingZeroPolicy = iota
	TrailingZeroRemove
	TrailingZeroReport
)

// DecimalToBinaryRounding selects the interval-endpoint inclusion rule used
// while deciding which decimal values round to a given binary float.
type DecimalToBinaryRounding int

const (
	RoundNearestToEven DecimalToBinaryRounding = iota
	RoundNearestToOdd
	RoundNearestTowardPlusInf
	RoundNearestTowardMinusInf
	RoundNearestTowardZero
	RoundNearestAwayFromZero
	RoundTowardPlusInf
	RoundTowardMinusInf
	RoundTowardZero
	RoundAwayFromZero
)

// IsNearest reports whether the rounding mode is one of the "round to
// nearest, tie broken by ..." family, as opposed to an always-directed mode.
func (p DecimalToBinaryRounding) IsNearest() bool {
	return p <= RoundNearestAwayFromZero
}

// BinaryToDecimalRounding selects the tie-break used by Dragonbox's
// "r == delta" exact-halfway case.
type BinaryToDecimalRounding int

const (
	BinaryToDecimalDoNotCare BinaryToDecimalRounding = iota
	BinaryToDecimalToEven
	BinaryToDecimalToOdd
	BinaryToDecimalAwayFromZero
	BinaryToDecimalTowardZero
)

// CachePolicy selects between the dense "full" power-of-ten cache and the
// compact base+offset-recovery cache (binary64 only; binary32 always uses
// Full, and the Ryu path uses no power-of-ten cache).
type CachePolicy int

const (
	CacheFull CachePolicy = iota
	CacheCompact
)

// Interval describes which endpoints of a rounding interval are included,
// the Go rendition of boost::charconv's interval_type namespace. Dragonbox
// consults this once per call, computed up front from the rounding policy,
// the parity of the significand (for nearest-to-even/odd) and whether the
// binary value itself is negative (for directed modes).
type Interval struct {
	IncludeLeft  bool
	IncludeRight bool
}

// NormalInterval returns the endpoint inclusion rule for compute_nearest_normal,
// which dragonbox also runs for the directed modes, given whether the binary
// significand is even and whether the value is negative.
func NormalInterval(mode DecimalToBinaryRounding, significandIsEven, negative bool) Interval {
	switch mode {
	case RoundNearestToEven:
		return Interval{significandIsEven, significandIsEven}
	case RoundNearestToOdd:
		return Interval{!significandIsEven, !significandIsEven}
	case RoundNearestTowardPlusInf:
		return Interval{!negative, negative}
	case RoundNearestTowardMinusInf:
		return Interval{negative, !negative}
	case RoundNearestTowardZero:
		return Interval{false, false}
	case RoundNearestAwayFromZero:
		return Interval{true, true}
	case RoundTowardPlusInf:
		return Interval{!negative, negative}
	case RoundTowardMinusInf:
		return Interval{negative, !negative}
	case RoundTowardZero:
		return Interval{false, false}
	case RoundAwayFromZero:
		return Interval{true, true}
	default:
		return Interval{significandIsEven, significandIsEven}
	}
}

// ShorterInterval returns the endpoint inclusion rule for
// compute_nearest_shorter (significand_bits == 0, i.e. exact powers of two),
// which boost::charconv always treats as a closed or open interval
// regardless of parity since there is no "even/odd" significand to test.
func ShorterInterval(mode DecimalToBinaryRounding) Interval {
	switch mode {
	case RoundNearestToEven, RoundNearestAwayFromZero, RoundTowardPlusInf, RoundTowardMinusInf, RoundAwayFromZero:
		return Interval{true, true}
	default:
		return Interval{false, false}
	}
}
