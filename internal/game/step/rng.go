// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package step

import (
	"math/big"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/keys"
)

// minState is the smallest state value the generator will draw from before
// rehashing: 0x097FFFFF expanded from its compact difficulty-bits encoding,
// matching the original CBigNum::SetCompact(0x097FFFFFu) (spec §4.5 step
// 11).
var minState = compactToBig(0x097FFFFF)

func compactToBig(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := bits >> 24

	var result *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		result = big.NewInt(int64(mantissa))
	} else {
		result = big.NewInt(int64(mantissa))
		result.Lsh(result, uint(8*(exponent-3)))
	}
	return result
}

// randomGenerator reproduces the original's block-hash-seeded PRNG (spec
// §4.5 step 11): the initial state is the block hash's own double-SHA256,
// state is re-seeded the same way whenever it drops below minState, and
// each draw is state mod n with an integer divide to advance.
type randomGenerator struct {
	state  *big.Int
	state0 *big.Int
}

func newRandomGenerator(seed chainhash.Hash) *randomGenerator {
	h := keys.Sha256d(seed[:])
	s0 := new(big.Int).SetBytes(reverse(h))
	return &randomGenerator{state: new(big.Int).Set(s0), state0: s0}
}

// reverse returns a little-endian-to-big-endian-flipped copy of b, since
// chainhash.Hash stores bytes in the chain's internal (reversed) order
// while CBigNum interprets a uint256 in its natural numeric order.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// getIntRnd returns a value in [0, n), advancing the generator state.
func (r *randomGenerator) getIntRnd(n int32) int32 {
	if r.state.Cmp(minState) < 0 {
		h := keys.Sha256d(toUint256Bytes(r.state0))
		r.state0 = new(big.Int).SetBytes(reverse(h))
		r.state = new(big.Int).Set(r.state0)
	}
	mod := big.NewInt(int64(n))
	rem := new(big.Int)
	r.state.DivMod(r.state, mod, rem)
	return int32(rem.Int64())
}

// toUint256Bytes renders v as a fixed 32-byte little-endian buffer, the
// layout CBigNum serializes a uint256 in before hashing.
func toUint256Bytes(v *big.Int) []byte {
	buf := make([]byte, 32)
	b := v.Bytes() // big-endian, shortest form
	for i := 0; i < len(b) && i < 32; i++ {
		buf[i] = b[len(b)-1-i]
	}
	return buf
}
