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

// Package charconv is the public dispatch layer: ToChars/FromChars route a
// value to the formatter or parser for its width and requested format,
// wiring floatbits' decomposition into Dragonbox (binary32/binary64), the
// generic Ryu path (binary128, and by the same carrier "binary80"), the
// decimal emitter, and floatparse, behind one pair of entry points per
// width.
package charconv

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/dragonbox"
	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/floatparse"
	"github.com/goshort/charconv/internal/wide"
	"github.com/goshort/charconv/ryu128"
)

// Result, Errc and Format are the same {end_ptr, errc} pair and format
// bitmask every formatter/parser in this module already returns; charconv
// re-exports them so callers never need to import decimal directly.
type (
	Result = decimal.Result
	Errc   = decimal.Errc
	Format = decimal.Format
)

const (
	Scientific = decimal.Scientific
	Fixed      = decimal.Fixed
	Hex        = decimal.Hex
	General    = decimal.General

	OK               = decimal.OK
	InvalidArgument  = decimal.InvalidArgument
	ResultOutOfRange = decimal.ResultOutOfRange
)

// Error wraps an Errc in the error interface, the way the teacher's ion
// package pairs a typed decode error with a plain Go error for callers that
// just want to check err != nil.
type Error struct {
	Errc Errc
	Op   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("charconv: %s: %s", e.Op, e.Errc)
}

// Limits gives the worst-case output byte count spec.md §6.3 requires
// callers be able to size a buffer from, without formatting first. Counts
// are from original_source/include/boost/charconv/limits.hpp: 11 for
// binary32, 26 for binary64 decimal notation, 41 for binary128.
type Limits struct {
	MaxCharsDecimal int
	MaxCharsHex     int
}

var (
	LimitsFloat32  = Limits{MaxCharsDecimal: 11, MaxCharsHex: 13}
	LimitsFloat64  = Limits{MaxCharsDecimal: 26, MaxCharsHex: 22}
	LimitsFloat128 = Limits{MaxCharsDecimal: 41, MaxCharsHex: 41}
)

// Params bundles the format, precision and policy selections a ToChars call
// honors. Precision < 0 requests the shortest round-trip representation;
// for binary32/binary64 the Dragonbox field is ignored once Precision >= 0,
// since an explicit precision routes through decimal's bigint rounding path
// instead of Dragonbox. ToCharsFloat128 does not consult Precision: it
// always runs Ryu and writes the shortest form.
type Params struct {
	Format    Format
	Precision int
	Dragonbox dragonbox.Params
	Ryu       ryu128.Params
}

// ShortestParams is the zero-value-friendly Params a caller wanting the
// shortest round-trip representation in general notation can start from.
var ShortestParams = Params{Format: General, Precision: -1}

// ToChars formats x (float32 or float64) into buf per p, dispatching on x's
// concrete type the way a generic caller parameterizing over
// constraints.Float (rather than calling ToCharsFloat64/ToCharsFloat32
// directly) would need to.
func ToChars[T constraints.Float](buf []byte, x T, p Params) Result {
	switch v := any(x).(type) {
	case float64:
		return ToCharsFloat64(buf, v, p)
	case float32:
		return ToCharsFloat32(buf, v, p)
	default:
		return Result{0, InvalidArgument}
	}
}

// FromChars parses the longest valid prefix of buf matching format into a
// T, the generic analogue of FromCharsFloat64/FromCharsFloat32.
func FromChars[T constraints.Float](buf []byte, format Format) (T, Result) {
	var zero T
	switch any(zero).(type) {
	case float64:
		v, res := FromCharsFloat64(buf, format)
		return any(v).(T), res
	case float32:
		v, res := FromCharsFloat32(buf, format)
		return any(v).(T), res
	default:
		return zero, Result{0, InvalidArgument}
	}
}

func specialFromBits64(bits floatbits.Binary64Bits) decimal.Special {
	switch {
	case bits.IsNaN():
		if bits.IsSignalingNaN() {
			return decimal.SpecialSignalingNaN
		}
		return decimal.SpecialQuietNaN
	case bits.IsInf():
		return decimal.SpecialInf
	case bits.IsZero():
		return decimal.SpecialZero
	default:
		return decimal.SpecialNone
	}
}

func specialFromBits32(bits floatbits.Binary32Bits) decimal.Special {
	switch {
	case bits.IsNaN():
		if bits.IsSignalingNaN() {
			return decimal.SpecialSignalingNaN
		}
		return decimal.SpecialQuietNaN
	case bits.IsInf():
		return decimal.SpecialInf
	case bits.IsZero():
		return decimal.SpecialZero
	default:
		return decimal.SpecialNone
	}
}

func specialFromBits128(bits floatbits.Binary128Bits) decimal.Special {
	switch {
	case bits.IsNaN():
		if bits.IsSignalingNaN() {
			return decimal.SpecialSignalingNaN
		}
		return decimal.SpecialQuietNaN
	case bits.IsInf():
		return decimal.SpecialInf
	case bits.IsZero():
		return decimal.SpecialZero
	default:
		return decimal.SpecialNone
	}
}

// ToCharsFloat64 is the binary64 entry point: decompose the bits, route hex
// requests to FormatHex64 directly, and otherwise run Dragonbox for the
// shortest round-trip digits or decimal's bigint path for an explicit
// precision.
func ToCharsFloat64(buf []byte, x float64, p Params) Result {
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(x))
	if p.Format&Hex != 0 {
		return decimal.FormatHex64(buf, bits, p.Precision)
	}
	special := specialFromBits64(bits)
	if special != decimal.SpecialNone {
		return decimal.ShortestFloat64(buf, bits.Sign, special, decimal.Float64{}, p.Format)
	}
	if p.Precision < 0 {
		d := dragonbox.ToDecimal64(bits, p.Dragonbox)
		return decimal.ShortestFloat64(buf, bits.Sign, decimal.SpecialNone, d, p.Format)
	}
	return decimal.PrecisionFloat64(buf, x, p.Format, p.Precision)
}

// ToCharsFloat32 is the binary32 analogue of ToCharsFloat64.
func ToCharsFloat32(buf []byte, x float32, p Params) Result {
	bits := floatbits.DecomposeBinary32(floatbits.Float32Bits(x))
	if p.Format&Hex != 0 {
		return decimal.FormatHex32(buf, bits, p.Precision)
	}
	special := specialFromBits32(bits)
	if special != decimal.SpecialNone {
		return decimal.ShortestFloat32(buf, bits.Sign, special, decimal.Float32{}, p.Format)
	}
	if p.Precision < 0 {
		d := dragonbox.ToDecimal32(bits, p.Dragonbox)
		return decimal.ShortestFloat32(buf, bits.Sign, decimal.SpecialNone, d, p.Format)
	}
	return decimal.PrecisionFloat32(buf, x, p.Format, p.Precision)
}

// ToCharsFloat128 formats a binary128 bit pattern -- or, per spec.md's
// design note, any wide long-double format the caller has widened into the
// same 128-bit carrier -- via the generic Ryu path. There is no native Go
// binary128 type, so unlike ToCharsFloat64/32 this takes the raw carrier
// rather than a numeric value. Only the shortest round-trip form is
// written: p.Precision is not consulted, and a Hex format is not rendered
// as a hex float (a finite value then yields InvalidArgument).
func ToCharsFloat128(buf []byte, carrier wide.Uint128, p Params) Result {
	bits := floatbits.DecomposeBinary128(carrier)
	special := specialFromBits128(bits)
	if special != decimal.SpecialNone {
		return decimal.ShortestFloat128(buf, bits.Sign, special, decimal.Float128{}, p.Format)
	}
	d := ryu128.ToDecimal128(bits, p.Ryu)
	return decimal.ShortestFloat128(buf, bits.Sign, decimal.SpecialNone, d, p.Format)
}

// FromCharsFloat64 parses buf per format into a float64.
func FromCharsFloat64(buf []byte, format Format) (float64, Result) {
	return floatparse.ParseFloat64(buf, format)
}

// FromCharsFloat32 parses buf per format into a float32.
func FromCharsFloat32(buf []byte, format Format) (float32, Result) {
	return floatparse.ParseFloat32(buf, format)
}
