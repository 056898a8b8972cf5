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

package tables

import (
	"math"
	"testing"
)

func TestFloorLog10Pow2(t *testing.T) {
	for e := -1700; e <= 1700; e++ {
		want := int(math.Floor(float64(e) * math.Log10(2)))
		if got := FloorLog10Pow2(e); got != want {
			t.Fatalf("FloorLog10Pow2(%d) = %d, want %d", e, got, want)
		}
	}
}

func TestFloorLog10Pow5(t *testing.T) {
	for e := -2620; e <= 2620; e++ {
		want := int(math.Floor(float64(e) * math.Log10(5)))
		if got := FloorLog10Pow5(e); got != want {
			t.Fatalf("FloorLog10Pow5(%d) = %d, want %d", e, got, want)
		}
	}
}

func TestFloorLog2Pow5(t *testing.T) {
	for e := -1764; e <= 1764; e++ {
		want := int(math.Floor(float64(e) * math.Log2(5)))
		if got := FloorLog2Pow5(e); got != want {
			t.Fatalf("FloorLog2Pow5(%d) = %d, want %d", e, got, want)
		}
	}
}

func TestFloorLog2Pow10(t *testing.T) {
	for e := -1233; e <= 1233; e++ {
		want := int(math.Floor(float64(e) * math.Log2(10)))
		if got := FloorLog2Pow10(e); got != want {
			t.Fatalf("FloorLog2Pow10(%d) = %d, want %d", e, got, want)
		}
	}
}

func TestFloorLog5Pow2(t *testing.T) {
	log5_2 := math.Log(2) / math.Log(5)
	for e := -1492; e <= 1492; e++ {
		want := int(math.Floor(float64(e) * log5_2))
		if got := FloorLog5Pow2(e); got != want {
			t.Fatalf("FloorLog5Pow2(%d) = %d, want %d", e, got, want)
		}
	}
}

// Known fixed points called out in spec.md's glossary and dragonbox.hpp.
func TestLogKnownValues(t *testing.T) {
	if FloorLog10Pow2(0) != 0 {
		t.Fatal("floor(log10(2^0)) should be 0")
	}
	if FloorLog10Pow2(4) != 1 {
		t.Fatal("floor(log10(16)) should be 1")
	}
	if FloorLog10Pow2(-1) != -1 {
		t.Fatal("floor(log10(0.5)) should be -1")
	}
	if FloorLog2Pow10(1) != 3 {
		t.Fatal("floor(log2(10)) should be 3")
	}
}
