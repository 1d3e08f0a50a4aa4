// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle builds the two merkle trees committed by a block header
// (spec §3, §6): one over the ordinary transaction set, one over the
// game-transaction set derived by C9.
package merkle

import "github.com/chronokings/huntercoin-sub000/internal/chainhash"

// hashMergeBranches hashes together the two merkle tree nodes specified by
// the left and right nodes.
func hashMergeBranches(left, right *chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.HashH(buf[:])
}

// Root computes the merkle root of leaves using bitcoin's classic
// algorithm: pairs are hashed level by level, and an odd node out at any
// level is duplicated and hashed with itself.
//
// An empty leaf set yields the zero hash; a single leaf yields itself.
func Root(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			next[i] = hashMergeBranches(&level[2*i], &level[2*i+1])
		}
		level = next
	}

	return level[0]
}
