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

// Package decimal holds the decimal-float data model (spec.md §3's "Decimal
// float" triple) shared by the Dragonbox and Ryu formatters on the
// producing side and the emitter on the consuming side, plus the Format
// and Errc enums from boost::charconv's detail/chars_format.hpp /
// from_chars_result.hpp.
package decimal

import "github.com/goshort/charconv/internal/wide"

// Float64 is a decimal float (-1)^Sign * Significand * 10^Exponent with at
// most 17 significant decimal digits, produced by Dragonbox for binary64.
type Float64 struct {
	Sign               bool
	Significand        uint64
	Exponent           int
	MayHaveTrailingZero bool
}

// Float32 is the binary32 analogue of Float64 (at most 9 significant digits).
type Float32 struct {
	Sign                bool
	Significand         uint32
	Exponent            int
	MayHaveTrailingZero bool
}

// Float128 is the wide-format analogue produced by the generic Ryu path
// (binary80/binary128), whose significand does not fit a native integer.
type Float128 struct {
	Sign                bool
	Significand         wide.Uint128
	Exponent            int
	MayHaveTrailingZero bool
}

// Format is the bitmask of output/input formats from boost::charconv's
// chars_format.hpp: general is the union of scientific and fixed, matching
// the convention that a parser accepting "general" accepts either spelling.
type Format int

const (
	Scientific Format = 1 << iota
	Fixed
	Hex
)

// General accepts/produces either scientific or fixed notation.
const General = Scientific | Fixed

// Errc is the three-member error taxonomy from spec.md §7.
type Errc int

const (
	OK Errc = iota
	InvalidArgument
	ResultOutOfRange
)

func (e Errc) String() string {
	switch e {
	case OK:
		return "ok"
	case InvalidArgument:
		return "invalid_argument"
	case ResultOutOfRange:
		return "result_out_of_range"
	default:
		return "unknown_errc"
	}
}

// Result is the {end_ptr, errc} pair every fallible to_chars/from_chars call
// returns. EndPos is an index into the caller's buffer rather than a raw
// pointer, since Go slices don't expose one.
type Result struct {
	EndPos int
	Errc   Errc
}
