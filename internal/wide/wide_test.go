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

package wide

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

func toBig(u Uint128) *big.Int {
	r := new(big.Int).SetUint64(u.Hi)
	r.Lsh(r, 64)
	r.Or(r, new(big.Int).SetUint64(u.Lo))
	return r
}

func toBig256(u Uint256) *big.Int {
	r := new(big.Int).SetUint64(u.Hi)
	for _, limb := range []uint64{u.Mid2, u.Mid1, u.Lo} {
		r.Lsh(r, 64)
		r.Or(r, new(big.Int).SetUint64(limb))
	}
	return r
}

func TestMul64(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		a := rnd.Uint64()
		b := rnd.Uint64()
		got := toBig(Mul64(a, b))
		want := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		if got.Cmp(want) != 0 {
			t.Fatalf("Mul64(%d,%d) = %s, want %s", a, b, got, want)
		}
	}
}

func TestMul128(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		x := Uint128{Hi: rnd.Uint64(), Lo: rnd.Uint64()}
		y := Uint128{Hi: rnd.Uint64(), Lo: rnd.Uint64()}
		got := toBig256(Mul128(x, y))
		want := new(big.Int).Mul(toBig(x), toBig(y))
		if got.Cmp(want) != 0 {
			t.Fatalf("Mul128(%v,%v) = %s, want %s", x, y, got, want)
		}
	}
}

func TestMul128By64(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		u := Uint128{Hi: rnd.Uint64(), Lo: rnd.Uint64()}
		c := rnd.Uint64()
		upper, lower := Mul128By64(u, c)

		got := toBig(upper)
		got.Lsh(got, 64)
		got.Or(got, new(big.Int).SetUint64(lower))

		want := new(big.Int).Mul(toBig(u), new(big.Int).SetUint64(c))
		if got.Cmp(want) != 0 {
			t.Fatalf("Mul128By64(%v,%d) = %s, want %s", u, c, got, want)
		}
	}
}

func TestShl128Shr128(t *testing.T) {
	x := Uint128{Hi: 0x1, Lo: 0}
	got := Shl128(x, 4)
	if got.Hi != 0x10 || got.Lo != 0 {
		t.Fatalf("Shl128 = %+v", got)
	}
	back := Shr128(got, 4)
	if back != x {
		t.Fatalf("Shr128(Shl128(x)) = %+v, want %+v", back, x)
	}
}

func TestCountLeadingZeros(t *testing.T) {
	if CountLeadingZeros64(1) != 63 {
		t.Fatalf("clz64(1) = %d", CountLeadingZeros64(1))
	}
	if CountLeadingZeros128(Uint128{Hi: 0, Lo: 1}) != 127 {
		t.Fatalf("clz128 = %d", CountLeadingZeros128(Uint128{Hi: 0, Lo: 1}))
	}
	if CountLeadingZeros128(Uint128{Hi: 1, Lo: math.MaxUint64}) != 63 {
		t.Fatalf("clz128 = %d", CountLeadingZeros128(Uint128{Hi: 1, Lo: math.MaxUint64}))
	}
}

func TestLess(t *testing.T) {
	a := Uint128{Hi: 0, Lo: 5}
	b := Uint128{Hi: 0, Lo: 10}
	if !a.Less(b) || b.Less(a) {
		t.Fatal("Less broken for equal-hi case")
	}
	c := Uint128{Hi: 1, Lo: 0}
	if !a.Less(c) {
		t.Fatal("Less broken across hi boundary")
	}
}
