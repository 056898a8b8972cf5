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

package policy

import "testing"

func TestNormalIntervalToEven(t *testing.T) {
	even := NormalInterval(RoundNearestToEven, true, false)
	if !even.IncludeLeft || !even.IncludeRight {
		t.Fatal("even significand should close both endpoints under to-even")
	}
	odd := NormalInterval(RoundNearestToEven, false, false)
	if odd.IncludeLeft || odd.IncludeRight {
		t.Fatal("odd significand should open both endpoints under to-even")
	}
}

func TestNormalIntervalDirected(t *testing.T) {
	pos := NormalInterval(RoundTowardPlusInf, true, false)
	if !pos.IncludeLeft || pos.IncludeRight {
		t.Fatalf("toward +inf, positive value: got %+v", pos)
	}
	neg := NormalInterval(RoundTowardPlusInf, true, true)
	if pos == neg {
		t.Fatal("directed rounding should flip with sign")
	}
}

func TestShorterInterval(t *testing.T) {
	if iv := ShorterInterval(RoundNearestToEven); !iv.IncludeLeft || !iv.IncludeRight {
		t.Fatal("shorter interval under to-even should be closed")
	}
	if iv := ShorterInterval(RoundNearestToOdd); iv.IncludeLeft || iv.IncludeRight {
		t.Fatal("shorter interval under to-odd should be open")
	}
}

func TestIsNearest(t *testing.T) {
	if !RoundNearestToEven.IsNearest() {
		t.Fatal("RoundNearestToEven should be a nearest mode")
	}
	if RoundTowardZero.IsNearest() {
		t.Fatal("RoundTowardZero should not be a nearest mode")
	}
}
