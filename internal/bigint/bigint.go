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

// Package bigint implements the fixed-capacity, stack-allocated arbitrary
// precision integer used by the decimal-to-binary slow path: addition,
// scalar and bigint multiplication, shifts, and the pow2/pow5/pow10 helpers
// needed to scale a parsed mantissa against a power of ten.
//
// Grounded on boost::charconv's detail/fast_float/bigint.hpp: same
// little-endian limb layout, same large-step/small-step pow5 decomposition
// (5^135 big step, a 27-entry small table), same grade-school multiply. The
// 5^135 constant below is the limb-for-limb value from that header's 64-bit
// large_power_of_5 table.
package bigint

import "math/bits"

const (
	// maxBits matches the ~4000-bit capacity spec.md §3 requires: enough
	// for the largest mantissa/power-of-ten product from_chars ever needs
	// to construct exactly.
	maxBits  = 4000
	limbBits = 64
	maxLimbs = (maxBits + limbBits - 1) / limbBits
)

// Int is a fixed-capacity, little-endian unsigned bigint. The zero value is
// the integer zero. Int is not copy-safe by value semantics the way a slice
// isn't: callers should pass *Int.
type Int struct {
	limbs [maxLimbs]uint64
	n     int // number of limbs in use; limbs[n-1] != 0 whenever n > 0
}

// SetUint64 sets b to v.
func (b *Int) SetUint64(v uint64) {
	if v == 0 {
		b.n = 0
		return
	}
	b.limbs[0] = v
	b.n = 1
}

// FromUint64 returns a new Int with value v.
func FromUint64(v uint64) Int {
	var b Int
	b.SetUint64(v)
	return b
}

// Len returns the number of significant limbs (0 for the value zero).
func (b *Int) Len() int { return b.n }

// IsZero reports whether b == 0.
func (b *Int) IsZero() bool { return b.n == 0 }

func (b *Int) normalize() {
	for b.n > 0 && b.limbs[b.n-1] == 0 {
		b.n--
	}
}

// Compare returns -1, 0 or +1 as b is less than, equal to, or greater than
// other.
func (b *Int) Compare(other *Int) int {
	if b.n != other.n {
		if b.n < other.n {
			return -1
		}
		return 1
	}
	for i := b.n - 1; i >= 0; i-- {
		if b.limbs[i] != other.limbs[i] {
			if b.limbs[i] < other.limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// BitLength returns the number of bits needed to represent b (0 for zero).
func (b *Int) BitLength() int {
	if b.n == 0 {
		return 0
	}
	return b.n*limbBits - bits.LeadingZeros64(b.limbs[b.n-1])
}

// CountLeadingZeros returns the number of leading zero bits in the most
// significant in-use limb (0 if b is zero).
func (b *Int) CountLeadingZeros() int {
	if b.n == 0 {
		return 0
	}
	return bits.LeadingZeros64(b.limbs[b.n-1])
}

// AddSmall adds the scalar x to b in place. Returns false if the result
// would need more than maxLimbs limbs.
func (b *Int) AddSmall(x uint64) bool {
	return b.addSmallFrom(x, 0)
}

func (b *Int) addSmallFrom(x uint64, start int) bool {
	carry := x
	i := start
	for ; carry != 0 && i < b.n; i++ {
		sum, c := bits.Add64(b.limbs[i], carry, 0)
		b.limbs[i] = sum
		carry = c
	}
	for carry != 0 {
		if i >= maxLimbs {
			return false
		}
		b.limbs[i] = carry
		i++
		carry = 0
	}
	if i > b.n {
		b.n = i
	}
	b.normalize()
	return true
}

// MulSmall multiplies b by the scalar x in place. Returns false on overflow
// of the fixed capacity.
func (b *Int) MulSmall(x uint64) bool {
	if x == 0 {
		b.n = 0
		return true
	}
	var carry uint64
	for i := 0; i < b.n; i++ {
		hi, lo := bits.Mul64(b.limbs[i], x)
		sum, c := bits.Add64(lo, carry, 0)
		b.limbs[i] = sum
		carry = hi + c
	}
	if carry != 0 {
		if b.n >= maxLimbs {
			return false
		}
		b.limbs[b.n] = carry
		b.n++
	}
	b.normalize()
	return true
}

// AddBigint adds y, shifted left by offsetLimbs whole limbs, into b in
// place. Used by grade-school multiplication to accumulate partial
// products.
func (b *Int) AddBigint(y *Int, offsetLimbs int) bool {
	need := offsetLimbs + y.n
	if need > maxLimbs {
		return false
	}
	for b.n < need {
		b.limbs[b.n] = 0
		b.n++
	}
	var carry uint64
	for i := 0; i < y.n; i++ {
		sum, c := bits.Add64(b.limbs[offsetLimbs+i], y.limbs[i], carry)
		b.limbs[offsetLimbs+i] = sum
		carry = c
	}
	ok := b.addSmallFrom(carry, offsetLimbs+y.n)
	if !ok {
		return false
	}
	b.normalize()
	return true
}

// MulBigint multiplies b by y in place using grade-school multiplication.
// Returns false if the product would need more than maxLimbs limbs.
func (b *Int) MulBigint(y *Int) bool {
	if b.n == 0 || y.n == 0 {
		b.n = 0
		return true
	}
	rlen := b.n + y.n
	if rlen > maxLimbs {
		return false
	}
	var result [maxLimbs]uint64
	for i := 0; i < b.n; i++ {
		ai := b.limbs[i]
		if ai == 0 {
			continue
		}
		var carry uint64
		for j := 0; j < y.n; j++ {
			hi, lo := bits.Mul64(ai, y.limbs[j])
			sum, c1 := bits.Add64(result[i+j], lo, 0)
			sum, c2 := bits.Add64(sum, carry, 0)
			result[i+j] = sum
			carry = hi + c1 + c2
		}
		k := i + y.n
		for carry != 0 {
			sum, c := bits.Add64(result[k], carry, 0)
			result[k] = sum
			carry = c
			k++
		}
	}
	b.limbs = result
	b.n = rlen
	b.normalize()
	return true
}

// ShiftLeftLimbs shifts b left by n whole limbs (multiplies by 2^(64n)).
func (b *Int) ShiftLeftLimbs(n int) bool {
	if n == 0 {
		return true
	}
	if b.n == 0 {
		return true
	}
	if b.n+n > maxLimbs {
		return false
	}
	for i := b.n - 1; i >= 0; i-- {
		b.limbs[i+n] = b.limbs[i]
	}
	for i := 0; i < n; i++ {
		b.limbs[i] = 0
	}
	b.n += n
	return true
}

// ShiftLeftBits shifts b left by n bits, 0 <= n < 64.
func (b *Int) ShiftLeftBits(n int) bool {
	if n == 0 || b.n == 0 {
		return true
	}
	shr := limbBits - n
	var prev uint64
	for i := 0; i < b.n; i++ {
		cur := b.limbs[i]
		b.limbs[i] = (cur << uint(n)) | (prev >> uint(shr))
		prev = cur
	}
	carry := prev >> uint(shr)
	if carry != 0 {
		if b.n >= maxLimbs {
			return false
		}
		b.limbs[b.n] = carry
		b.n++
	}
	return true
}

// ShiftLeft shifts b left by n bits (multiplies by 2^n).
func (b *Int) ShiftLeft(n int) bool {
	if n == 0 {
		return true
	}
	if rem := n % limbBits; rem != 0 {
		if !b.ShiftLeftBits(rem) {
			return false
		}
	}
	if div := n / limbBits; div != 0 {
		if !b.ShiftLeftLimbs(div) {
			return false
		}
	}
	return true
}

// MulPow2 multiplies b by 2^exp in place.
func (b *Int) MulPow2(exp uint32) bool { return b.ShiftLeft(int(exp)) }

// small_power_of_5[i] == 5^i for i in [0,27], ported from bigint.hpp.
var smallPow5 = [...]uint64{
	1, 5, 25, 125, 625, 3125, 15625, 78125, 390625,
	1953125, 9765625, 48828125, 244140625, 1220703125,
	6103515625, 30517578125, 152587890625, 762939453125,
	3814697265625, 19073486328125, 95367431640625, 476837158203125,
	2384185791015625, 11920928955078125, 59604644775390625,
	298023223876953125, 1490116119384765625, 7450580596923828125,
}

const (
	pow5LargeStep = 135
	pow5SmallStep = 27
	pow5MaxNative = 7450580596923828125 // 5^27
)

// pow5Large holds 5^135 as little-endian 64-bit limbs, ported verbatim from
// bigint.hpp's large_power_of_5 table (64-bit limb variant).
var pow5Large = Int{
	limbs: [maxLimbs]uint64{
		1414648277510068013, 9180637584431281687, 4539964771860779200,
		10482974169319127550, 198276706040285095,
	},
	n: 5,
}

// MulPow5 multiplies b by 5^exp in place using the large-step/small-step
// decomposition from bigint.hpp.
func (b *Int) MulPow5(exp uint32) bool {
	for exp >= pow5LargeStep {
		if !b.MulBigint(&pow5Large) {
			return false
		}
		exp -= pow5LargeStep
	}
	for exp >= pow5SmallStep {
		if !b.MulSmall(pow5MaxNative) {
			return false
		}
		exp -= pow5SmallStep
	}
	if exp != 0 {
		if !b.MulSmall(smallPow5[exp]) {
			return false
		}
	}
	return true
}

// MulPow10 multiplies b by 10^exp in place.
func (b *Int) MulPow10(exp uint32) bool {
	if !b.MulPow5(exp) {
		return false
	}
	return b.MulPow2(exp)
}

// Hi64 returns the top 64 bits of b, left-aligned as if b's most
// significant bit were bit 63, together with whether any lower bits were
// discarded (truncated).
func (b *Int) Hi64() (hi uint64, truncated bool) {
	switch b.n {
	case 0:
		return 0, false
	case 1:
		v := b.limbs[0]
		lz := bits.LeadingZeros64(v)
		return v << uint(lz), false
	default:
		top := b.limbs[b.n-1]
		next := b.limbs[b.n-2]
		lz := bits.LeadingZeros64(top)
		if lz == 0 {
			hi = top
			truncated = next != 0
		} else {
			hi = (top << uint(lz)) | (next >> uint(limbBits-lz))
			truncated = (next << uint(lz)) != 0
		}
		for i := 0; i < b.n-2 && !truncated; i++ {
			if b.limbs[i] != 0 {
				truncated = true
			}
		}
		return hi, truncated
	}
}
