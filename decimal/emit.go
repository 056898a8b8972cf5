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
	"math"
	"strconv"
	"strings"

	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/internal/bigint"
)

// Special classifies the non-finite / zero values the emitter handles
// directly, bypassing Dragonbox/Ryu and the bigint precision path entirely.
type Special int

const (
	SpecialNone Special = iota
	SpecialZero
	SpecialInf
	SpecialQuietNaN
	SpecialSignalingNaN
)

func writeSpecial(buf []byte, sign bool, special Special) Result {
	var s string
	switch special {
	case SpecialInf:
		if sign {
			s = "-inf"
		} else {
			s = "inf"
		}
	case SpecialQuietNaN:
		if sign {
			s = "-nan(ind)"
		} else {
			s = "nan"
		}
	case SpecialSignalingNaN:
		if sign {
			s = "-nan(snan)"
		} else {
			s = "nan(snan)"
		}
	case SpecialZero:
		if sign {
			s = "-0"
		} else {
			s = "0"
		}
	default:
		return Result{0, InvalidArgument}
	}
	return writeString(buf, s)
}

func writeString(buf []byte, s string) Result {
	if len(s) > len(buf) {
		return Result{len(buf), ResultOutOfRange}
	}
	copy(buf, s)
	return Result{len(s), OK}
}

// ShortestFloat64 writes the shortest round-trip decimal representation of
// d (produced by dragonbox.ToDecimal64) in scientific, fixed or general
// format. hex is not a decimal format and a finite value is rejected here
// with InvalidArgument; callers route hex requests to FormatHex64 instead.
func ShortestFloat64(buf []byte, sign bool, special Special, d Float64, format Format) Result {
	if special != SpecialNone {
		return writeSpecial(buf, sign, special)
	}
	digits := strconv.AppendUint(nil, d.Significand, 10)
	return formatDigits(buf, sign, digits, d.Exponent, format, -1)
}

// ShortestFloat32 is the binary32 analogue of ShortestFloat64.
func ShortestFloat32(buf []byte, sign bool, special Special, d Float32, format Format) Result {
	if special != SpecialNone {
		return writeSpecial(buf, sign, special)
	}
	digits := strconv.AppendUint(nil, uint64(d.Significand), 10)
	return formatDigits(buf, sign, digits, d.Exponent, format, -1)
}

// ShortestFloat128 is the binary128 (and, by the same carrier, "binary80")
// analogue of ShortestFloat64, laying out the correctly-rounded digit
// string ryu128.ToDecimal128 produces.
func ShortestFloat128(buf []byte, sign bool, special Special, d Float128, format Format) Result {
	if special != SpecialNone {
		return writeSpecial(buf, sign, special)
	}
	digits := uint128Digits(d.Significand)
	return formatDigits(buf, sign, digits, d.Exponent, format, -1)
}

// formatDigits lays out an already-chosen digit string (most significant
// digit first, no leading zeros, value == digits * 10^exponent) into
// scientific, fixed or general notation. precision < 0 means "use exactly
// the supplied digits, no padding or rounding" -- the shape the shortest
// round-trip callers want.
func formatDigits(buf []byte, sign bool, digits []byte, exponent int, format Format, precision int) Result {
	if format&Hex != 0 {
		return Result{0, InvalidArgument}
	}
	n := len(digits)
	pointPos := n + exponent // digits before the decimal point
	sciExp := pointPos - 1   // exponent of the leading digit

	useFixed := false
	switch {
	case format&Fixed != 0 && format&Scientific == 0:
		useFixed = true
	case format&Scientific != 0 && format&Fixed == 0:
		useFixed = false
	default: // general: %g-style threshold (spec.md §4.6)
		upper := 21 // shortest mode has no explicit precision to bound the
		// upper threshold with, so this follows the common shortest-format
		// convention (as in ECMAScript's Number::toString) rather than
		// tying the cutoff to the digit count, which would push round
		// numbers like 100 or 1e6 into scientific notation.
		if precision >= 0 {
			sig := precision
			if sig < 1 {
				sig = 1
			}
			upper = sig
		}
		useFixed = sciExp >= -4 && sciExp < upper
	}

	var out []byte
	if sign {
		out = append(out, '-')
	}
	if useFixed {
		out = appendFixed(out, digits, pointPos)
	} else {
		out = appendScientific(out, digits, sciExp)
	}
	return writeString(buf, string(out))
}

func appendFixed(out []byte, digits []byte, pointPos int) []byte {
	n := len(digits)
	switch {
	case pointPos <= 0:
		out = append(out, '0', '.')
		for i := 0; i < -pointPos; i++ {
			out = append(out, '0')
		}
		out = append(out, digits...)
	case pointPos >= n:
		out = append(out, digits...)
		for i := 0; i < pointPos-n; i++ {
			out = append(out, '0')
		}
	default:
		out = append(out, digits[:pointPos]...)
		out = append(out, '.')
		out = append(out, digits[pointPos:]...)
	}
	return out
}

func appendScientific(out []byte, digits []byte, sciExp int) []byte {
	out = append(out, digits[0])
	if len(digits) > 1 {
		out = append(out, '.')
		out = append(out, digits[1:]...)
	}
	out = append(out, 'e')
	if sciExp < 0 {
		out = append(out, '-')
		sciExp = -sciExp
	} else {
		out = append(out, '+')
	}
	expDigits := strconv.Itoa(sciExp)
	if len(expDigits) < 2 {
		out = append(out, '0')
	}
	out = append(out, expDigits...)
	return out
}

// PrecisionFloat64 formats x with an explicit, caller-chosen precision. An
// explicit precision can ask for more digits than the shortest round-trip
// representation carries (spec.md's scientific/precision-50 scenario), so
// this path rounds x's own exact (significand, binary exponent) pair to the
// requested digit count via exactDecimalDigits -- the same bigint/pow10
// machinery the shortest-digit path is grounded on -- rather than
// re-deriving the expansion through math/big.
func PrecisionFloat64(buf []byte, x float64, format Format, precision int) Result {
	sign := math.Signbit(x)
	if math.IsNaN(x) {
		return writeSpecial(buf, sign, nanSpecial64(x))
	}
	if math.IsInf(x, 0) {
		return writeSpecial(buf, sign, SpecialInf)
	}
	if x == 0 {
		return writeSpecial(buf, sign, SpecialZero)
	}
	abs := x
	if sign {
		abs = -x
	}
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(abs))
	num, s := significandFraction(bits.BinarySignificand(), bits.BinaryExponent()-floatbits.Binary64SignificandBits)
	return formatPrecision(buf, sign, num, s, format, precision)
}

// PrecisionFloat32 is the binary32 analogue of PrecisionFloat64.
func PrecisionFloat32(buf []byte, x float32, format Format, precision int) Result {
	sign := math.Signbit(float64(x))
	if x != x { // NaN
		return writeSpecial(buf, sign, nanSpecial32(x))
	}
	f64 := float64(x)
	if math.IsInf(f64, 0) {
		return writeSpecial(buf, sign, SpecialInf)
	}
	if x == 0 {
		return writeSpecial(buf, sign, SpecialZero)
	}
	abs := x
	if sign {
		abs = -x
	}
	bits := floatbits.DecomposeBinary32(floatbits.Float32Bits(abs))
	num, s := significandFraction(uint64(bits.BinarySignificand()), bits.BinaryExponent()-floatbits.Binary32SignificandBits)
	return formatPrecision(buf, sign, num, s, format, precision)
}

func nanSpecial64(x float64) Special {
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(x))
	if bits.IsSignalingNaN() {
		return SpecialSignalingNaN
	}
	return SpecialQuietNaN
}

func nanSpecial32(x float32) Special {
	bits := floatbits.DecomposeBinary32(floatbits.Float32Bits(x))
	if bits.IsSignalingNaN() {
		return SpecialSignalingNaN
	}
	return SpecialQuietNaN
}

// formatPrecision rounds num/2^s (the value's exact significand/exponent
// pair, num > 0) to an explicit precision and lays out the result in
// scientific, fixed or general notation, mirroring formatDigits's layout
// rules but computing its own digit count and exponent since an explicit
// precision can ask for fewer or more digits than a shortest round-trip
// string would carry.
func formatPrecision(buf []byte, sign bool, num bigint.Int, s uint32, format Format, precision int) Result {
	if precision < 0 {
		precision = 0
	}
	switch {
	case format&Fixed != 0 && format&Scientific == 0:
		return formatPrecisionFixed(buf, sign, num, s, precision)
	case format&Scientific != 0 && format&Fixed == 0:
		return formatPrecisionScientific(buf, sign, num, s, precision)
	default: // general
		sig := precision
		if sig < 1 {
			sig = 1
		}
		decExp := floorLog10(num, s)
		if decExp >= -4 && decExp < sig {
			fprec := sig - 1 - decExp
			if fprec < 0 {
				fprec = 0
			}
			return formatPrecisionFixed(buf, sign, num, s, fprec)
		}
		return formatPrecisionScientific(buf, sign, num, s, sig-1)
	}
}

// formatPrecisionScientific renders num/2^s with exactly precision digits
// after the leading one, rounded to nearest even at the cut.
func formatPrecisionScientific(buf []byte, sign bool, num bigint.Int, s uint32, precision int) Result {
	digits, decExp := exactDecimalDigits(num, s, precision+1)
	var out []byte
	if sign {
		out = append(out, '-')
	}
	out = appendScientific(out, digits, decExp)
	return writeString(buf, string(out))
}

// formatPrecisionFixed renders num/2^s with exactly precision digits after
// the decimal point. When the requested precision doesn't reach the
// value's leading digit at all, the rounded result is either a flat zero or
// a single unit in the last requested place -- exactDecimalDigits assumes
// at least one digit is wanted, so that corner is handled directly via
// roundsUpToUnit instead.
func formatPrecisionFixed(buf []byte, sign bool, num bigint.Int, s uint32, precision int) Result {
	decExp := floorLog10(num, s)
	nDigits := decExp + precision + 1

	var out []byte
	if sign {
		out = append(out, '-')
	}
	if nDigits <= 0 {
		out = append(out, fixedZeroOrUnit(precision, roundsUpToUnit(num, s, precision))...)
		return writeString(buf, string(out))
	}
	digits, gotExp := exactDecimalDigits(num, s, nDigits)
	out = appendFixed(out, digits, gotExp+1)
	return writeString(buf, string(out))
}

// fixedZeroOrUnit renders a fixed-format value that rounds to either 0 or a
// single unit (10^-precision) at the requested precision.
func fixedZeroOrUnit(precision int, roundUp bool) []byte {
	if precision <= 0 {
		if roundUp {
			return []byte{'1'}
		}
		return []byte{'0'}
	}
	out := make([]byte, 0, precision+2)
	out = append(out, '0', '.')
	for i := 0; i < precision-1; i++ {
		out = append(out, '0')
	}
	if roundUp {
		out = append(out, '1')
	} else {
		out = append(out, '0')
	}
	return out
}

// FormatHex64 writes the IEEE hex-float representation of bits: "1.hhhhp±d"
// for normals, "0.hhhhp±d" for subnormals (the exponent pinned to the
// minimum normal exponent), lowercase hex digits, always-signed exponent.
// precision < 0 means "shortest" (trailing zero hex digits dropped);
// precision >= 0 pads with trailing zeros or truncates to that many hex digits without
// rounding (see DESIGN.md's Open Questions for this limitation).
func FormatHex64(buf []byte, bits floatbits.Binary64Bits, precision int) Result {
	if bits.IsNaN() {
		return writeSpecial(buf, bits.Sign, nanSpecialFromBits64(bits))
	}
	if bits.IsInf() {
		return writeSpecial(buf, bits.Sign, SpecialInf)
	}
	if bits.IsZero() {
		return writeSpecial(buf, bits.Sign, SpecialZero)
	}
	leadDigit := byte('1')
	exp := bits.BinaryExponent()
	if bits.ExponentBits == 0 {
		leadDigit = '0'
		exp = floatbits.Binary64MinExponent
	}
	frac := hexFractionDigits(bits.SignificandBits, floatbits.Binary64SignificandBits, precision)
	return writeHexFloat(buf, bits.Sign, leadDigit, frac, exp)
}

// FormatHex32 is the binary32 analogue of FormatHex64.
func FormatHex32(buf []byte, bits floatbits.Binary32Bits, precision int) Result {
	if bits.IsNaN() {
		return writeSpecial(buf, bits.Sign, nanSpecialFromBits32(bits))
	}
	if bits.IsInf() {
		return writeSpecial(buf, bits.Sign, SpecialInf)
	}
	if bits.IsZero() {
		return writeSpecial(buf, bits.Sign, SpecialZero)
	}
	leadDigit := byte('1')
	exp := bits.BinaryExponent()
	if bits.ExponentBits == 0 {
		leadDigit = '0'
		exp = floatbits.Binary32MinExponent
	}
	frac := hexFractionDigits(uint64(bits.SignificandBits), floatbits.Binary32SignificandBits, precision)
	return writeHexFloat(buf, bits.Sign, leadDigit, frac, exp)
}

func nanSpecialFromBits64(b floatbits.Binary64Bits) Special {
	if b.IsSignalingNaN() {
		return SpecialSignalingNaN
	}
	return SpecialQuietNaN
}

func nanSpecialFromBits32(b floatbits.Binary32Bits) Special {
	if b.IsSignalingNaN() {
		return SpecialSignalingNaN
	}
	return SpecialQuietNaN
}

func hexFractionDigits(fraction uint64, bitWidth int, precision int) string {
	hexWidth := (bitWidth + 3) / 4
	shift := hexWidth*4 - bitWidth
	v := fraction << uint(shift)
	s := strconv.FormatUint(v, 16)
	for len(s) < hexWidth {
		s = "0" + s
	}
	if precision < 0 {
		s = strings.TrimRight(s, "0")
		return s
	}
	if len(s) > precision {
		return s[:precision]
	}
	for len(s) < precision {
		s += "0"
	}
	return s
}

func writeHexFloat(buf []byte, sign bool, leadDigit byte, frac string, exp int) Result {
	var out []byte
	if sign {
		out = append(out, '-')
	}
	out = append(out, leadDigit)
	if frac != "" {
		out = append(out, '.')
		out = append(out, frac...)
	}
	out = append(out, 'p')
	if exp < 0 {
		out = append(out, '-')
		exp = -exp
	} else {
		out = append(out, '+')
	}
	out = append(out, strconv.Itoa(exp)...)
	return writeString(buf, string(out))
}
