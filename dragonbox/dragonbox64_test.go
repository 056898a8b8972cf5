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

package dragonbox

import (
	"math"
	"math/big"
	"testing"

	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/policy"
)

func decimalToFloat64(d decimal.Float64) float64 {
	v := new(big.Float).SetPrec(200).SetUint64(d.Significand)
	e := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(absInt(d.Exponent))), nil)
	ef := new(big.Float).SetPrec(200).SetInt(e)
	if d.Exponent >= 0 {
		v.Mul(v, ef)
	} else {
		v.Quo(v, ef)
	}
	f, _ := v.Float64()
	if d.Sign {
		f = -f
	}
	return f
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func defaultParams64() Params {
	return Params{
		Rounding:      policy.RoundNearestToEven,
		TieBreak:      policy.BinaryToDecimalToEven,
		TrailingZeros: policy.TrailingZeroRemove,
		Cache:         policy.CacheFull,
	}
}

func roundTrip64(t *testing.T, x float64) decimal.Float64 {
	t.Helper()
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(x))
	d := ToDecimal64(bits, defaultParams64())
	got := decimalToFloat64(d)
	if got != x {
		t.Fatalf("roundtrip mismatch for %v: got %v (significand=%d exponent=%d sign=%v)",
			x, got, d.Significand, d.Exponent, d.Sign)
	}
	return d
}

func TestToDecimal64RoundTrip(t *testing.T) {
	values := []float64{
		1, -1, 100, 0.1, 1.5, 123.456, math.Pi,
		2.2250738585072014e-308, // smallest normal
		1.7976931348623157e+308, // max finite
		5e-324,                  // smallest subnormal
		9007199254740993,        // first odd integer beyond 2^53
		1e10, 1e-10, 3.14159265358979, 0.3, 2.0 / 3.0,
	}
	for _, x := range values {
		roundTrip64(t, x)
	}
}

func TestToDecimal64SimpleValues(t *testing.T) {
	cases := []struct {
		x   float64
		sig uint64
		exp int
	}{
		{1.0, 1, 0},
		{100.0, 1, 2},
		{0.1, 1, -1},
		{1.5, 15, -1},
	}
	p := defaultParams64()
	for _, c := range cases {
		bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(c.x))
		d := ToDecimal64(bits, p)
		if d.Significand != c.sig || d.Exponent != c.exp || d.Sign {
			t.Fatalf("%v: got significand=%d exponent=%d sign=%v, want significand=%d exponent=%d",
				c.x, d.Significand, d.Exponent, d.Sign, c.sig, c.exp)
		}
	}
}

func TestToDecimal64NegativeSign(t *testing.T) {
	x := -1.5
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(x))
	d := ToDecimal64(bits, defaultParams64())
	if !d.Sign {
		t.Fatal("expected negative sign to propagate")
	}
}

func TestToDecimal64Subnormal(t *testing.T) {
	roundTrip64(t, 5e-324)
	roundTrip64(t, 1e-310)
}

func TestToDecimal64PowerOfTwoShorterInterval(t *testing.T) {
	// Exact powers of two hit the zero-significand shorter-interval path.
	for _, x := range []float64{1, 2, 4, 0.5, 0.25, 1024, 1.0 / 1024} {
		roundTrip64(t, x)
	}
}

func TestToDecimal64CacheCompactMatchesFull(t *testing.T) {
	values := []float64{1, 100, 0.1, 1.5, 123.456, math.Pi, 1e-300, 1e300}
	for _, x := range values {
		bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(x))
		pFull := defaultParams64()
		pCompact := pFull
		pCompact.Cache = policy.CacheCompact

		dFull := ToDecimal64(bits, pFull)
		dCompact := ToDecimal64(bits, pCompact)
		if decimalToFloat64(dFull) != decimalToFloat64(dCompact) {
			t.Fatalf("%v: compact cache produced a different value: full=%+v compact=%+v",
				x, dFull, dCompact)
		}
	}
}

func TestRemoveTrailingZeros64(t *testing.T) {
	cases := []struct {
		in, wantN uint64
		wantS     int
	}{
		{123000, 123, 3},
		{100000000, 1, 8},
		{7, 7, 0},
		{120, 12, 1},
	}
	for _, c := range cases {
		n := c.in
		s := removeTrailingZeros64(&n)
		if n != c.wantN || s != c.wantS {
			t.Fatalf("removeTrailingZeros64(%d): got n=%d s=%d, want n=%d s=%d",
				c.in, n, s, c.wantN, c.wantS)
		}
	}
}

func TestToDecimal64TrailingZeroPolicies(t *testing.T) {
	bits := floatbits.DecomposeBinary64(floatbits.Float64Bits(100.0))

	pIgnore := defaultParams64()
	pIgnore.TrailingZeros = policy.TrailingZeroIgnore
	dIgnore := ToDecimal64(bits, pIgnore)
	if decimalToFloat64(dIgnore) != 100.0 {
		t.Fatalf("ignore policy: got wrong value %+v", dIgnore)
	}

	pReport := defaultParams64()
	pReport.TrailingZeros = policy.TrailingZeroReport
	dReport := ToDecimal64(bits, pReport)
	if !dReport.MayHaveTrailingZero {
		t.Fatal("report policy should flag MayHaveTrailingZero for 100.0")
	}
}
