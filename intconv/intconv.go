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

// Package intconv is the integer to_chars/from_chars collaborator spec.md §1
// takes as a given: a shortest-digit-string base-2..36 codec. Reimplementing
// strconv's digit-pair tables and division-by-reciprocal tricks would
// contradict the spec's own scoping of integer conversion as out-of-scope,
// so this package is a thin, explicitly pinned adapter over
// strconv.AppendUint/ParseUint, giving callers the same {end_ptr, errc}
// shape the rest of the module uses. The float emitter does not import it;
// it calls strconv directly.
package intconv

import (
	"strconv"

	"github.com/goshort/charconv/decimal"
)

// AppendUint appends the digits of v in the given base to dst and returns
// the extended slice.
func AppendUint(dst []byte, v uint64, base int) []byte {
	return strconv.AppendUint(dst, v, base)
}

// AppendInt appends the sign-prefixed digits of v in the given base to dst.
func AppendInt(dst []byte, v int64, base int) []byte {
	return strconv.AppendInt(dst, v, base)
}

// ToChars writes the base-10 digits of v into buf, returning a Result the
// same shape every other to_chars overload in this module returns.
func ToChars(buf []byte, v uint64) decimal.Result {
	s := strconv.AppendUint(buf[:0], v, 10)
	if len(s) > len(buf) {
		return decimal.Result{EndPos: len(buf), Errc: decimal.ResultOutOfRange}
	}
	return decimal.Result{EndPos: len(s), Errc: decimal.OK}
}

// FromChars parses the longest leading run of base-10 digits in buf into a
// uint64, returning the number of bytes consumed.
func FromChars(buf []byte) (value uint64, consumed int, errc decimal.Errc) {
	i := 0
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, decimal.InvalidArgument
	}
	v, err := strconv.ParseUint(string(buf[:i]), 10, 64)
	if err != nil {
		return 0, i, decimal.ResultOutOfRange
	}
	return v, i, decimal.OK
}

// DigitCount10 returns the number of base-10 digits in v (1 for v == 0).
func DigitCount10(v uint64) int {
	if v == 0 {
		return 1
	}
	n := 0
	for v != 0 {
		n++
		v /= 10
	}
	return n
}
