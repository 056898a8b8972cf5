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

// Package floatparse implements the locale-independent float lexer, the
// Eisel-Lemire fast path and the big-integer slow path spec.md §4.7-§4.9
// describe, grounded on boost::charconv's detail/parser.hpp (the digit
// scanner) and detail/fast_float/bigint.hpp (the fixed-capacity bigint this
// module's internal/bigint package already implements). The real
// detail/compute_float64.hpp (Eisel-Lemire's exact bit-shift offsets) was
// not present in the filtered original_source, so the fast path here is a
// best-effort reconstruction from the published algorithm that the
// orchestration in floatparse.go always confirms (or corrects) against the
// bigint comparator before returning a result -- the bigint path, being
// comparison-based arbitrary-precision arithmetic, is correct by
// construction regardless of any subtlety lost in that reconstruction.
package floatparse

import (
	"github.com/goshort/charconv/decimal"
)

// special classifies the lexed literal, mirroring decimal.Special.
type special int

const (
	specialNone special = iota
	specialInf
	specialQuietNaN
	specialSignalingNaN
)

// lexResult is the parser's intermediate representation: a decomposed
// number, not yet converted to binary.
type lexResult struct {
	sign    bool
	kind    special
	isHex   bool
	buf     []byte // the original input span
	intLo   int    // [intLo,intHi) is the integer-part digit span
	intHi   int
	fracLo  int // [fracLo,fracHi) is the fractional-part digit span
	fracHi  int
	hasExp  bool
	expSign bool
	expMag  int64
	end     int
	errc    decimal.Errc
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func hasPrefixFold(buf []byte, i int, s string) bool {
	if i+len(s) > len(buf) {
		return false
	}
	for j := 0; j < len(s); j++ {
		if lower(buf[i+j]) != s[j] {
			return false
		}
	}
	return true
}

// lex scans buf per spec.md §6.2's grammar, gated by format's Scientific,
// Fixed and Hex bits. On success lr.errc == decimal.OK and lr.end is the
// number of bytes consumed; on failure (empty input, no digits, a missing
// mandatory exponent) lr.end is 0. An out-of-range exponent is not a lex
// failure: the magnitude conversion reports it.
func lex(buf []byte, format decimal.Format) lexResult {
	lr := lexResult{buf: buf}
	if len(buf) == 0 {
		lr.errc = decimal.InvalidArgument
		return lr
	}

	i := 0
	if buf[i] == '-' {
		lr.sign = true
		i++
	} else if buf[i] == '+' {
		i++
	}

	if hasPrefixFold(buf, i, "inf") {
		i += 3
		if hasPrefixFold(buf, i, "inity") {
			i += 5
		}
		lr.kind = specialInf
		lr.end = i
		return lr
	}
	if hasPrefixFold(buf, i, "nan") {
		i += 3
		lr.kind = specialQuietNaN
		if i < len(buf) && buf[i] == '(' {
			j := i + 1
			for j < len(buf) && buf[j] != ')' {
				j++
			}
			if j < len(buf) {
				payload := buf[i+1 : j]
				if isSignalingPayload(payload) {
					lr.kind = specialSignalingNaN
				}
				i = j + 1
			}
		}
		lr.end = i
		return lr
	}

	isHexFmt := format&decimal.Hex != 0
	lr.isHex = isHexFmt
	digitOK := isDigit
	if isHexFmt {
		digitOK = isHexDigit
	}

	lr.intLo = i
	for i < len(buf) && digitOK(buf[i]) {
		i++
	}
	lr.intHi = i

	if i < len(buf) && buf[i] == '.' {
		i++
		lr.fracLo = i
		for i < len(buf) && digitOK(buf[i]) {
			i++
		}
		lr.fracHi = i
	} else {
		lr.fracLo, lr.fracHi = i, i
	}

	if lr.intHi == lr.intLo && lr.fracHi == lr.fracLo {
		lr.errc = decimal.InvalidArgument
		return lr
	}

	expChar := byte('e')
	if isHexFmt {
		expChar = 'p'
	}
	sawExp := i < len(buf) && lower(buf[i]) == expChar
	if sawExp {
		j := i + 1
		expSign := false
		if j < len(buf) && (buf[j] == '-' || buf[j] == '+') {
			expSign = buf[j] == '-'
			j++
		}
		start := j
		var mag int64
		for j < len(buf) && isDigit(buf[j]) {
			if mag < 1<<40 { // saturate rather than overflow int64
				mag = mag*10 + int64(buf[j]-'0')
			}
			j++
		}
		if j == start {
			// "e"/"p" with no digits following is not a valid exponent;
			// treat the whole clause as absent (same recovery as a bare
			// trailing letter that happens to match).
			sawExp = false
		} else {
			lr.hasExp = true
			lr.expSign = expSign
			lr.expMag = mag
			i = j
		}
	}

	// A hex literal's binary exponent is mandatory, matching the
	// scientific-format rule; a fixed-format exponent clause is forbidden.
	mandatory := format&decimal.Scientific != 0 && format&decimal.Fixed == 0
	forbidden := format&decimal.Fixed != 0 && format&decimal.Scientific == 0
	if isHexFmt {
		mandatory = true
	}
	if mandatory && !lr.hasExp {
		lr.errc = decimal.InvalidArgument
		return lr
	}
	if forbidden && lr.hasExp {
		// The exponent clause was already consumed into i; a fixed-only
		// parse simply stops before it instead of erroring, matching
		// most textual-number conventions (the caller asked for fixed
		// notation, so "1.5e3" parses "1.5" and leaves "e3" unconsumed).
		i = lr.intHi
		if lr.fracHi > lr.fracLo {
			i = lr.fracHi
		}
		lr.hasExp = false
	}

	lr.end = i
	lr.errc = decimal.OK
	return lr
}

// isSignalingPayload reports whether a nan(...) payload names a signaling
// NaN. boost::charconv's issignaling.hpp tests the quiet bit of an already
//-constructed NaN; the textual grammar instead just recognizes the
// conventional "snan" spelling its own to_chars emits.
func isSignalingPayload(payload []byte) bool {
	return len(payload) >= 4 && hasPrefixFold(payload, 0, "snan")
}

// digitCount returns the total number of mantissa digits (integer + fraction).
func (lr *lexResult) digitCount() int {
	return (lr.intHi - lr.intLo) + (lr.fracHi - lr.fracLo)
}

// forEachDigit calls fn once per mantissa digit, most significant first,
// yielding its numeric value (0-9 for decimal, 0-15 for hex).
func (lr *lexResult) forEachDigit(fn func(v byte)) {
	for k := lr.intLo; k < lr.intHi; k++ {
		fn(digitValue(lr.buf[k]))
	}
	for k := lr.fracLo; k < lr.fracHi; k++ {
		fn(digitValue(lr.buf[k]))
	}
}

func digitValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// fracDigitCount is the number of digits after the decimal point.
func (lr *lexResult) fracDigitCount() int { return lr.fracHi - lr.fracLo }

// explicitExponent returns the signed value of the e/p clause, or 0.
func (lr *lexResult) explicitExponent() int64 {
	if !lr.hasExp {
		return 0
	}
	if lr.expSign {
		return -lr.expMag
	}
	return lr.expMag
}
