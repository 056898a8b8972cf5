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

package ryu128

import (
	"math/big"
	"testing"

	"github.com/goshort/charconv/decimal"
	"github.com/goshort/charconv/floatbits"
	"github.com/goshort/charconv/internal/wide"
	"github.com/goshort/charconv/policy"
)

func carrier128(hi, lo uint64) wide.Uint128 {
	return wide.Uint128{Hi: hi, Lo: lo}
}

// exactValue returns the exact magnitude of a finite, nonzero binary128 bit
// pattern as a big.Rat.
func exactValue(bits floatbits.Binary128Bits) *big.Rat {
	m2 := bits.BinarySignificand()
	e2 := bits.BinaryExponent() - floatbits.Binary128SignificandBits
	mBig := uint128ToBig(m2)
	v := new(big.Rat).SetInt(mBig)
	if e2 >= 0 {
		v.Mul(v, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(e2))))
	} else {
		v.Quo(v, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(-e2))))
	}
	return v
}

func decimalValue(d decimal.Float128) *big.Rat {
	v := new(big.Rat).SetInt(uint128ToBig(d.Significand))
	if d.Exponent >= 0 {
		v.Mul(v, new(big.Rat).SetInt(pow10(d.Exponent)))
	} else {
		v.Quo(v, new(big.Rat).SetInt(pow10(-d.Exponent)))
	}
	return v
}

func defaultParams128() Params {
	return Params{TrailingZeros: policy.TrailingZeroRemove}
}

func roundTrip128(t *testing.T, bits floatbits.Binary128Bits) decimal.Float128 {
	t.Helper()
	d := ToDecimal128(bits, defaultParams128())
	want := exactValue(bits)
	got := decimalValue(d)
	if want.Cmp(got) != 0 {
		t.Fatalf("value mismatch: exact=%s decimal={sig=%+v exp=%d}=%s", want.FloatString(40), d.Significand, d.Exponent, got.FloatString(40))
	}
	return d
}

func TestToDecimal128SimpleOne(t *testing.T) {
	bits := floatbits.DecomposeBinary128(carrier128(0x3FFF000000000000, 0))
	d := roundTrip128(t, bits)
	if d.Significand.Hi != 0 || d.Significand.Lo != 1 || d.Exponent != 0 {
		t.Fatalf("got sig=%+v exp=%d, want 1e0", d.Significand, d.Exponent)
	}
}

func TestToDecimal128OneAndAHalf(t *testing.T) {
	bits := floatbits.DecomposeBinary128(carrier128(0x3FFF800000000000, 0))
	d := roundTrip128(t, bits)
	if d.Significand.Hi != 0 || d.Significand.Lo != 15 || d.Exponent != -1 {
		t.Fatalf("got sig=%+v exp=%d, want 15e-1", d.Significand, d.Exponent)
	}
}

func TestToDecimal128Subnormal(t *testing.T) {
	bits := floatbits.DecomposeBinary128(carrier128(0, 1))
	if !bits.IsFinite() || bits.IsZero() {
		t.Fatalf("expected finite nonzero subnormal bit pattern")
	}
	// 2^-16494 is about 6.475e-4966; its open rounding interval (v/2, 3v/2)
	// holds 6e-4966, and no decimal of at most 36 digits equals v exactly.
	d := ToDecimal128(bits, defaultParams128())
	if d.Significand.Hi != 0 || d.Significand.Lo != 6 || d.Exponent != -4966 {
		t.Fatalf("got sig=%+v exp=%d, want 6e-4966", d.Significand, d.Exponent)
	}
}

func TestToDecimal128NegativeSign(t *testing.T) {
	bits := floatbits.DecomposeBinary128(carrier128(0xBFFF000000000000, 0))
	if !bits.Sign {
		t.Fatalf("expected sign bit set")
	}
	d := roundTrip128(t, bits)
	if !d.Sign {
		t.Fatalf("decimal result lost sign")
	}
}

func TestToDecimal128LargeExponent(t *testing.T) {
	// 2^100, exactly representable: exponent field = bias+100, significand 0.
	expBits := uint64(floatbits.Binary128ExponentBias*-1 + 100)
	bits := floatbits.DecomposeBinary128(carrier128(expBits<<48, 0))
	roundTrip128(t, bits)
}

func TestToDecimal128TrailingZeroPolicies(t *testing.T) {
	bits := floatbits.DecomposeBinary128(carrier128(0x3FFF000000000000, 0)) // 1.0
	ignore := ToDecimal128(bits, Params{TrailingZeros: policy.TrailingZeroIgnore})
	if ignore.Significand.Lo == 0 {
		t.Fatalf("ignore policy returned a zero significand")
	}
	removed := ToDecimal128(bits, Params{TrailingZeros: policy.TrailingZeroRemove})
	if removed.Significand.Hi != 0 || removed.Significand.Lo != 1 || removed.Exponent != 0 {
		t.Fatalf("remove policy got sig=%+v exp=%d, want 1e0", removed.Significand, removed.Exponent)
	}
	reported := ToDecimal128(bits, Params{TrailingZeros: policy.TrailingZeroReport})
	if reported.MayHaveTrailingZero {
		t.Fatalf("report policy flagged trailing zeros, but the shortest digits of 1.0 are just 1")
	}
}

func TestExactDigitsRounding(t *testing.T) {
	// 1/3 rounded to 5 significant digits should round to nearest-even: 0.33333
	digits, exp := exactDigits(big.NewInt(1), big.NewInt(3), 5)
	if string(digits) != "33333" || exp != -1 {
		t.Fatalf("got digits=%s exp=%d, want 33333/-1", digits, exp)
	}
}

func TestExactDigitsCarry(t *testing.T) {
	// 0.99995 rounded to 4 significant digits carries into an extra digit.
	digits, exp := exactDigits(big.NewInt(99995), big.NewInt(100000), 4)
	if string(digits) != "1000" || exp != 0 {
		t.Fatalf("got digits=%s exp=%d, want 1000/0", digits, exp)
	}
}

func TestFloorLog10Ratio(t *testing.T) {
	cases := []struct {
		num, den int64
		want     int
	}{
		{1, 1, 0},
		{10, 1, 1},
		{9, 1, 0},
		{1, 10, -1},
		{1, 3, -1},
		{999, 1000, -1},
		{1000, 1, 3},
	}
	for _, c := range cases {
		got := floorLog10Ratio(big.NewInt(c.num), big.NewInt(c.den))
		if got != c.want {
			t.Fatalf("floorLog10Ratio(%d,%d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}
