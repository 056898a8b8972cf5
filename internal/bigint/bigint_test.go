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

package bigint

import (
	"math/big"
	"testing"
)

func (b *Int) toBig() *big.Int {
	r := new(big.Int)
	for i := b.n - 1; i >= 0; i-- {
		r.Lsh(r, 64)
		r.Or(r, new(big.Int).SetUint64(b.limbs[i]))
	}
	return r
}

func TestMulPow5(t *testing.T) {
	for _, exp := range []uint32{0, 1, 13, 27, 28, 60, 134, 135, 136, 270, 300} {
		b := FromUint64(1)
		if !b.MulPow5(exp) {
			t.Fatalf("MulPow5(%d) overflowed", exp)
		}
		want := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(exp)), nil)
		if got := b.toBig(); got.Cmp(want) != 0 {
			t.Fatalf("5^%d = %s, want %s", exp, got, want)
		}
	}
}

func TestMulPow10(t *testing.T) {
	for _, exp := range []uint32{0, 1, 5, 22, 23, 100, 308} {
		b := FromUint64(1)
		if !b.MulPow10(exp) {
			t.Fatalf("MulPow10(%d) overflowed", exp)
		}
		want := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		if got := b.toBig(); got.Cmp(want) != 0 {
			t.Fatalf("10^%d = %s, want %s", exp, got, want)
		}
	}
}

func TestMulBigintAgainstUint64(t *testing.T) {
	a := FromUint64(123456789012345)
	b := FromUint64(987654321098765)
	if !a.MulBigint(&b) {
		t.Fatal("MulBigint overflowed")
	}
	want := new(big.Int).Mul(big.NewInt(123456789012345), big.NewInt(987654321098765))
	if got := a.toBig(); got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestAddBigintOffset(t *testing.T) {
	a := FromUint64(1)
	y := FromUint64(5)
	if !a.AddBigint(&y, 2) {
		t.Fatal("AddBigint overflowed")
	}
	want := big.NewInt(1)
	shifted := new(big.Int).Lsh(big.NewInt(5), 128)
	want.Add(want, shifted)
	if got := a.toBig(); got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCompare(t *testing.T) {
	a := FromUint64(5)
	b := FromUint64(10)
	if a.Compare(&b) >= 0 {
		t.Fatal("5 should be < 10")
	}
	if b.Compare(&a) <= 0 {
		t.Fatal("10 should be > 5")
	}
	if a.Compare(&a) != 0 {
		t.Fatal("a should equal itself")
	}
}

func TestShiftLeft(t *testing.T) {
	a := FromUint64(1)
	if !a.ShiftLeft(200) {
		t.Fatal("ShiftLeft overflowed")
	}
	want := new(big.Int).Lsh(big.NewInt(1), 200)
	if got := a.toBig(); got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestHi64(t *testing.T) {
	b := FromUint64(1)
	hi, truncated := b.Hi64()
	if hi != 1<<63 || truncated {
		t.Fatalf("Hi64(1) = (%x,%v)", hi, truncated)
	}

	// two limbs, top limb has one leading zero bit.
	c := FromUint64(0)
	c.limbs[0] = 1
	c.limbs[1] = 1 << 62
	c.n = 2
	hi, truncated = c.Hi64()
	want := (uint64(1) << 62) << 1
	if hi != want || !truncated {
		t.Fatalf("Hi64 = (%x,%v), want (%x,true)", hi, truncated, want)
	}
}

func TestBitLength(t *testing.T) {
	b := FromUint64(1)
	if b.BitLength() != 1 {
		t.Fatalf("BitLength(1) = %d", b.BitLength())
	}
	b.ShiftLeft(63)
	if b.BitLength() != 64 {
		t.Fatalf("BitLength(1<<63) = %d", b.BitLength())
	}
}
