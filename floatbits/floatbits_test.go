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

package floatbits

import (
	"math"
	"testing"

	"github.com/goshort/charconv/internal/wide"
)

func TestBinary64RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 3.14159265358979, 1e300, 1e-300, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, v := range values {
		bits := Float64Bits(v)
		dec := DecomposeBinary64(bits)
		got := (uint64(0))
		if dec.Sign {
			got |= 1 << 63
		}
		got |= uint64(dec.ExponentBits) << Binary64SignificandBits
		got |= dec.SignificandBits
		if got != bits {
			t.Fatalf("round trip mismatch for %v: got %x want %x", v, got, bits)
		}
	}
}

func TestBinary64Predicates(t *testing.T) {
	if !DecomposeBinary64(Float64Bits(0)).IsZero() {
		t.Fatal("0 should be zero")
	}
	neg0 := DecomposeBinary64(Float64Bits(math.Copysign(0, -1)))
	if !neg0.IsZero() || !neg0.Sign {
		t.Fatal("-0 should be negative zero")
	}
	if !DecomposeBinary64(Float64Bits(math.Inf(1))).IsInf() {
		t.Fatal("+Inf should be infinite")
	}
	if !DecomposeBinary64(Float64Bits(math.NaN())).IsNaN() {
		t.Fatal("NaN should be NaN")
	}
	finite := DecomposeBinary64(Float64Bits(1.5))
	if !finite.IsFinite() {
		t.Fatal("1.5 should be finite")
	}
}

func TestBinary64SignalingNaN(t *testing.T) {
	// A quiet NaN has the top significand bit set; flip it for a signaling NaN.
	qnan := Float64Bits(math.NaN())
	snan := qnan &^ (uint64(1) << (Binary64SignificandBits - 1))
	snan |= 1 // keep it nonzero/NaN
	dec := DecomposeBinary64(snan)
	if !dec.IsNaN() {
		t.Fatal("expected NaN")
	}
	if !dec.IsSignalingNaN() {
		t.Fatal("expected signaling NaN")
	}
	if DecomposeBinary64(qnan).IsSignalingNaN() {
		t.Fatal("quiet NaN misclassified as signaling")
	}
}

func TestBinary64Subnormal(t *testing.T) {
	dec := DecomposeBinary64(Float64Bits(math.SmallestNonzeroFloat64))
	if dec.ExponentBits != 0 {
		t.Fatal("smallest nonzero float64 should have zero exponent bits")
	}
	if dec.BinaryExponent() != Binary64MinExponent {
		t.Fatalf("subnormal binary exponent = %d, want %d", dec.BinaryExponent(), Binary64MinExponent)
	}
	if dec.BinarySignificand() != dec.SignificandBits {
		t.Fatal("subnormal significand should have no implicit bit")
	}
}

func TestBinary64NormalExponent(t *testing.T) {
	dec := DecomposeBinary64(Float64Bits(1.0))
	if dec.BinaryExponent() != 0 {
		t.Fatalf("binary_exponent(1.0) = %d, want 0", dec.BinaryExponent())
	}
	want := uint64(1) << Binary64SignificandBits
	if dec.BinarySignificand() != want {
		t.Fatalf("binary_significand(1.0) = %x, want %x", dec.BinarySignificand(), want)
	}
}

func TestBinary32RoundTrip(t *testing.T) {
	values := []float32{0, 1, -2.5, 3.14159, 1e30, 1e-30}
	for _, v := range values {
		bits := Float32Bits(v)
		dec := DecomposeBinary32(bits)
		got := uint32(0)
		if dec.Sign {
			got |= 1 << 31
		}
		got |= dec.ExponentBits << Binary32SignificandBits
		got |= dec.SignificandBits
		if got != bits {
			t.Fatalf("round trip mismatch for %v: got %x want %x", v, got, bits)
		}
	}
}

func TestBinary32MinMaxExponent(t *testing.T) {
	if Binary32MinExponent != -126 {
		t.Fatalf("Binary32MinExponent = %d, want -126", Binary32MinExponent)
	}
	if Binary32MaxExponent != 127 {
		t.Fatalf("Binary32MaxExponent = %d, want 127", Binary32MaxExponent)
	}
}

func TestBinary64MinMaxExponent(t *testing.T) {
	if Binary64MinExponent != -1022 {
		t.Fatalf("Binary64MinExponent = %d, want -1022", Binary64MinExponent)
	}
	if Binary64MaxExponent != 1023 {
		t.Fatalf("Binary64MaxExponent = %d, want 1023", Binary64MaxExponent)
	}
}

func TestBinary128ZeroAndNaN(t *testing.T) {
	zero := DecomposeBinary128(wide.Uint128{})
	if !zero.IsZero() || !zero.IsFinite() {
		t.Fatal("all-zero carrier should decode to positive zero")
	}

	nan := DecomposeBinary128(wide.Uint128{
		Hi: uint64(0x7fff)<<48 | 1<<47,
		Lo: 0,
	})
	if !nan.IsNaN() {
		t.Fatal("expected NaN")
	}
	if nan.IsSignalingNaN() {
		t.Fatal("quiet bit set, should not be signaling")
	}

	snan := DecomposeBinary128(wide.Uint128{
		Hi: uint64(0x7fff)<<48 | 1,
		Lo: 0,
	})
	if !snan.IsSignalingNaN() {
		t.Fatal("expected signaling NaN")
	}
}

func TestBinary128MinMaxExponent(t *testing.T) {
	if Binary128MinExponent != -16382 {
		t.Fatalf("Binary128MinExponent = %d, want -16382", Binary128MinExponent)
	}
	if Binary128MaxExponent != 16383 {
		t.Fatalf("Binary128MaxExponent = %d, want 16383", Binary128MaxExponent)
	}
}
