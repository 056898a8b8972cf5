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
	"math/big"
	"sync"

	"github.com/goshort/charconv/internal/bigint"
	"github.com/goshort/charconv/internal/wide"
)

// A cache entry for 10^k is the W-bit unsigned integer
//
//	ceil(10^k * 2^e),  e = cacheBits - 1 - floor(log2(10^k))     (k >= 0)
//	ceil(2^e / 10^-k), e = cacheBits - 1 - floor(log2(10^k))     (k <  0)
//
// i.e. the top cacheBits bits of 10^k's binary expansion, rounded up. This
// is the same normalized-mantissa construction the real Dragonbox cache
// generator uses (boost::charconv ships the resulting literal table instead
// of the generator; the generator itself isn't part of the filtered
// original_source). We compute it lazily, once per k (memoized below), and
// never on the formatter's hot path.
//
// For binary32/64 (cacheBits 64 and 128), the bootstrap runs entirely on
// internal/bigint: since 10^k = 2^k*5^k, 10^k's top bits (k>=0) are just
// 5^k's top bits at a shifted position, and for k<0 the entry is the top
// bits of 2^M/5^-k for a suitably large M -- both reduce to a
// comparison-only quotient search (floatparse/hex.go's roundedHexMantissa
// runs a binary search of the same kind for power-of-two division); here
// the quotient is built bit by bit, and divBigintCeil tests candidates
// against an arbitrary bigint via MulBigint instead of MulPow2. No
// bigint.Int subtraction or division primitive is needed either way.
//
// binary128's cache (cacheBits 256, Pow10Cache128) keeps math/big: its k
// range needs 5^|k| bigints on the order of 16,000 bits at the extremes,
// past internal/bigint's fixed 4000-bit capacity (see DESIGN.md).

// pow5Bigint returns 5^n as an internal/bigint.Int.
func pow5Bigint(n int) bigint.Int {
	v := bigint.FromUint64(1)
	v.MulPow5(uint32(n))
	return v
}

// topBitsCeil returns the cacheBits-bit integer ceil(p / 2^s), built bit by
// bit most-significant-first: at each step it tests whether the candidate
// with the next bit set, scaled back up by 2^s and by 2 for each bit still
// to come, still fits under p (bigint.Int has no right-shift or division,
// only multiply and compare).
func topBitsCeil(p bigint.Int, s, cacheBits int) (hi, lo uint64) {
	var q bigint.Int
	for i := 0; i < cacheBits; i++ {
		cand := q
		cand.MulSmall(2)
		cand.AddSmall(1)
		scaled := cand
		scaled.MulPow2(uint32(s + cacheBits - 1 - i))
		bit := uint64(0)
		if scaled.Compare(&p) <= 0 {
			q = cand
			bit = 1
		} else {
			q.MulSmall(2)
		}
		hi = hi<<1 | lo>>63
		lo = lo<<1 | bit
	}
	exact := q
	exact.MulPow2(uint32(s))
	if exact.Compare(&p) != 0 {
		lo++
		if lo == 0 {
			hi++
		}
	}
	return hi, lo
}

// divBigintCeil returns the cacheBits-bit integer ceil(2^M / d) for
// M = d.BitLength()+cacheBits-1 (chosen so the quotient has exactly
// cacheBits significant bits), built the same bit-by-bit way as
// topBitsCeil but testing each candidate via MulBigint(d) (then scaled by
// 2 for each bit still to come) instead of MulPow2 alone, since d is an
// arbitrary bigint (5^|k|) rather than a power of two.
func divBigintCeil(d bigint.Int, cacheBits int) (hi, lo uint64) {
	m := d.BitLength() + cacheBits - 1
	n := bigint.FromUint64(1)
	n.MulPow2(uint32(m))

	var q bigint.Int
	for i := 0; i < cacheBits; i++ {
		cand := q
		cand.MulSmall(2)
		cand.AddSmall(1)
		prod := cand
		prod.MulBigint(&d)
		prod.MulPow2(uint32(cacheBits - 1 - i))
		bit := uint64(0)
		if prod.Compare(&n) <= 0 {
			q = cand
			bit = 1
		} else {
			q.MulSmall(2)
		}
		hi = hi<<1 | lo>>63
		lo = lo<<1 | bit
	}
	exact := q
	exact.MulBigint(&d)
	if exact.Compare(&n) != 0 {
		lo++
		if lo == 0 {
			hi++
		}
	}
	return hi, lo
}

// ceilPow10ScaledBigint is ceilPow10Scaled restricted to cacheBits <= 128,
// computed entirely with internal/bigint (see the package-level comment).
func ceilPow10ScaledBigint(k, cacheBits int) (hi, lo uint64) {
	if k >= 0 {
		p := pow5Bigint(k)
		s := p.BitLength() - cacheBits
		if s < 0 {
			p.MulPow2(uint32(-s))
			s = 0
		}
		return topBitsCeil(p, s, cacheBits)
	}
	d := pow5Bigint(-k)
	return divBigintCeil(d, cacheBits)
}

// ceilPow10Scaled256 is the binary128-only (cacheBits == 256) bootstrap.
// math/big, not internal/bigint, backs it: 5^|k| for binary128's decimal-
// exponent range needs on the order of 16,000 exact bits, past
// internal/bigint's fixed 4000-bit capacity (see DESIGN.md).
func ceilPow10Scaled256(k int) *big.Int {
	e := 255 - exactFloorLog2Pow10(k)

	num := big.NewInt(1)
	den := big.NewInt(1)
	if k >= 0 {
		num.Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	} else {
		den.Exp(big.NewInt(10), big.NewInt(int64(-k)), nil)
	}
	if e >= 0 {
		num.Lsh(num, uint(e))
	} else {
		den.Lsh(den, uint(-e))
	}

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// exactFloorLog2Pow10 computes floor(log2(10^k)) exactly via big.Int bit
// length, rather than the fixed-point magic-constant approximation in
// log.go (which boost::charconv only proves correct for |k| <= 1233 --
// too narrow for binary128's decimal-exponent range). Only the 256-bit
// cache bootstrap, which runs at most once per distinct k, pays this cost.
func exactFloorLog2Pow10(k int) int {
	if k >= 0 {
		return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil).BitLen() - 1
	}
	return -new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-k)), nil).BitLen()
}

func bigToLimbs(x *big.Int, nLimbs int) []uint64 {
	limbs := make([]uint64, nLimbs)
	mask := new(big.Int).SetUint64(^uint64(0))
	t := new(big.Int).Set(x)
	for i := 0; i < nLimbs; i++ {
		limb := new(big.Int).And(t, mask)
		limbs[i] = limb.Uint64()
		t.Rsh(t, 64)
	}
	return limbs
}

var cache128Memo sync.Map // int -> *big.Int

func cached256(k int) *big.Int {
	if v, ok := cache128Memo.Load(k); ok {
		return v.(*big.Int)
	}
	v, _ := cache128Memo.LoadOrStore(k, ceilPow10Scaled256(k))
	return v.(*big.Int)
}

type cacheKey struct {
	k    int
	bits int
}

var cacheMemo sync.Map // cacheKey -> wide.Uint128

// cachedBigint memoizes ceilPow10ScaledBigint per (k, cacheBits).
func cachedBigint(k, cacheBits int) wide.Uint128 {
	key := cacheKey{k, cacheBits}
	if v, ok := cacheMemo.Load(key); ok {
		return v.(wide.Uint128)
	}
	hi, lo := ceilPow10ScaledBigint(k, cacheBits)
	v, _ := cacheMemo.LoadOrStore(key, wide.Uint128{Hi: hi, Lo: lo})
	return v.(wide.Uint128)
}

// Pow10Cache32 returns the 64-bit power-of-ten cache entry for 10^k, used by
// binary32 Dragonbox. Valid for k in the formatter's [min_k, max_k] range.
func Pow10Cache32(k int) uint64 {
	return cachedBigint(k, 64).Lo
}

// Pow10Cache64 returns the 128-bit power-of-ten cache entry for 10^k, used
// by binary64 Dragonbox's "full" cache policy.
func Pow10Cache64(k int) wide.Uint128 {
	return cachedBigint(k, 128)
}

// Pow10Cache128 returns the 256-bit power-of-ten cache entry for 10^k, the
// cacheBits == 256 analogue of Pow10Cache64. The ryu128 formatter does not
// call it; it works on exact math/big rationals instead.
func Pow10Cache128(k int) wide.Uint256 {
	limbs := bigToLimbs(cached256(k), 4)
	return wide.Uint256{Hi: limbs[3], Mid2: limbs[2], Mid1: limbs[1], Lo: limbs[0]}
}

// recoveryPow5[j] == 5^j for j in [0,26], the same 27-entry table
// bigint.MulPow5's small-step decomposition uses; reused here by the
// compact binary64 cache to recover an arbitrary entry from its nearest
// stored base entry.
var recoveryPow5 = [...]uint64{
	1, 5, 25, 125, 625, 3125, 15625, 78125, 390625,
	1953125, 9765625, 48828125, 244140625, 1220703125,
	6103515625, 30517578125, 152587890625, 762939453125,
	3814697265625, 19073486328125, 95367431640625, 476837158203125,
	2384185791015625, 11920928955078125, 59604644775390625,
	298023223876953125, 1490116119384765625, 7450580596923828125,
}

const compactStride = 27

// Pow10Cache64Compact returns the same 128-bit value as Pow10Cache64(k), but
// is computed from the cache entry for the nearest smaller k that is a
// multiple of compactStride plus a 5^j correction, the "base+offset
// recovery" scheme spec.md §3 describes: only every 27th entry is ever
// passed through the exact ceil-division bootstrap; the rest are derived.
func Pow10Cache64Compact(k int) wide.Uint128 {
	rem := k % compactStride
	if rem < 0 {
		rem += compactStride
	}
	if rem == 0 {
		return Pow10Cache64(k)
	}
	base := k - rem
	baseEntry := Pow10Cache64(base)

	product := wide.Mul128(wide.Uint128{Lo: baseEntry.Lo, Hi: baseEntry.Hi}, wide.Uint128{Lo: recoveryPow5[rem]})
	// product holds baseEntry * 5^rem as a <=256-bit value; renormalize so
	// the top 128 bits become the new cache entry, rounding up on the way.
	width := 256 - leadingZeros256(product)
	shift := width - 128
	return shr256RoundUp(product, shift)
}

func leadingZeros256(x wide.Uint256) int {
	switch {
	case x.Hi != 0:
		return leadZeros64(x.Hi)
	case x.Mid2 != 0:
		return 64 + leadZeros64(x.Mid2)
	case x.Mid1 != 0:
		return 128 + leadZeros64(x.Mid1)
	default:
		return 192 + leadZeros64(x.Lo)
	}
}

func leadZeros64(x uint64) int {
	n := 0
	for i := 63; i >= 0; i-- {
		if x&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

// shr256RoundUp returns ceil(x / 2^shift) truncated to the low 128 bits.
func shr256RoundUp(x wide.Uint256, shift int) wide.Uint128 {
	if shift <= 0 {
		return wide.Uint128{Hi: x.Mid1, Lo: x.Lo}
	}
	limbs := [4]uint64{x.Lo, x.Mid1, x.Mid2, x.Hi}
	// shift the 256-bit value right by `shift` bits across the 4 limbs.
	limbIdx := shift / 64
	bitIdx := uint(shift % 64)
	var out [4]uint64
	var lost bool
	for i := 0; i < 4; i++ {
		srcLo := i + limbIdx
		var lo, hi uint64
		if srcLo < 4 {
			lo = limbs[srcLo]
		}
		if srcLo+1 < 4 {
			hi = limbs[srcLo+1]
		}
		if bitIdx == 0 {
			out[i] = lo
		} else {
			out[i] = (lo >> bitIdx) | (hi << (64 - bitIdx))
		}
	}
	// determine whether any shifted-out bit was set, for round-up.
	for i := 0; i < limbIdx && i < 4; i++ {
		if limbs[i] != 0 {
			lost = true
		}
	}
	if !lost && bitIdx != 0 && limbIdx < 4 {
		mask := (uint64(1) << bitIdx) - 1
		if limbs[limbIdx]&mask != 0 {
			lost = true
		}
	}
	result := wide.Uint128{Hi: out[1], Lo: out[0]}
	if lost {
		result, _ = wide.Add128(result, wide.Uint128{Lo: 1})
	}
	return result
}
