// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pow implements the proof-of-work half of C10: per-algorithm
// target verification, the PPCoin-style continuous difficulty retarget
// (spec §4.6), and the 11-block median-time-past rule blocks are checked
// against before being accepted onto the chain index (C7).
package pow

import (
	"math/big"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
)

// medianTimeSpan is the number of trailing blocks averaged to compute the
// median-time-past timestamp floor (spec §4.6).
const medianTimeSpan = 11

// numAlgos is the number of proof-of-work algorithms sharing the block
// spacing target (spec §4.6's `T = 60*NUM_ALGOS`).
const numAlgos = 2

var errBelowMinimumWork = errors.New("pow: nBits is below the minimum allowed work")
var errHashAboveTarget = errors.New("pow: block hash does not meet the difficulty target in nBits")

// HashToBig interprets hash as a big-endian 256-bit integer after
// reversing it to little-endian byte order, the representation every
// target comparison in this package uses.
func HashToBig(hash chainhash.Hash) *big.Int {
	var reversed chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		reversed[i] = hash[chainhash.HashSize-1-i]
	}
	return new(big.Int).SetBytes(reversed[:])
}

// CheckProofOfWork verifies that bits falls within [0, limit] and that
// hash, interpreted as a number, does not exceed the target bits encodes
// (spec §4.6's `CheckProofOfWork`).
func CheckProofOfWork(hash chainhash.Hash, bits uint32, limit *big.Int) error {
	target := chainindex.CompactToBig(bits)
	if target.Sign() <= 0 || target.Cmp(limit) > 0 {
		return errBelowMinimumWork
	}
	if HashToBig(hash).Cmp(target) > 0 {
		return errHashAboveTarget
	}
	return nil
}

// lastNodeOfAlgo walks from id backwards (inclusive) to the most recent
// block mined with algo, matching the original's GetLastBlockIndex: it
// stops at the first algo match, or at the root of the index if no
// ancestor ever matches.
func lastNodeOfAlgo(idx *chainindex.Index, id chainindex.ID, algo uint8) chainindex.ID {
	for {
		n, ok := idx.Node(id)
		if !ok {
			return id
		}
		if n.Header.Algo() == algo {
			return id
		}
		prev, hasPrev := idx.Prev(id)
		if !hasPrev {
			return id
		}
		id = prev
	}
}

// CalcNextRequiredDifficulty computes the compact difficulty bits the
// block following prevID must carry for the given algorithm (spec §4.6):
// a PPCoin-style continuous retarget using only the two most recent
// blocks mined with that same algorithm, falling back to the algorithm's
// proof-of-work limit for the first two blocks of that algorithm (or if
// prevID names no known block at all, the genesis case).
func CalcNextRequiredDifficulty(idx *chainindex.Index, params *chaincfg.Params, prevID chainindex.ID, algo uint8) uint32 {
	if _, ok := idx.Node(prevID); !ok {
		return params.PowLimitBits[algo]
	}

	prevOfAlgo := lastNodeOfAlgo(idx, prevID, algo)
	prevNode, _ := idx.Node(prevOfAlgo)
	parent, hasParent := idx.Prev(prevOfAlgo)
	if !hasParent {
		return params.PowLimitBits[algo]
	}

	prevPrevOfAlgo := lastNodeOfAlgo(idx, parent, algo)
	prevPrevNode, _ := idx.Node(prevPrevOfAlgo)
	if _, hasGrandparent := idx.Prev(prevPrevOfAlgo); !hasGrandparent {
		return params.PowLimitBits[algo]
	}

	actualSpacing := prevNode.Header.Timestamp.Unix() - prevPrevNode.Header.Timestamp.Unix()
	targetSpacing := params.TargetTimePerBlock * numAlgos
	interval := int64(params.DifficultyAdjustmentWindowSize)

	bnNew := chainindex.CompactToBig(prevNode.Header.Bits)
	bnNew.Mul(bnNew, big.NewInt((interval-1)*targetSpacing+2*actualSpacing))
	bnNew.Div(bnNew, big.NewInt((interval+1)*targetSpacing))

	if bnNew.Sign() <= 0 || bnNew.Cmp(params.PowLimit[algo]) > 0 {
		bnNew = new(big.Int).Set(params.PowLimit[algo])
	}
	return chainindex.BigToCompact(bnNew)
}

// CalcMedianTimePast returns the median timestamp of id and its trailing
// medianTimeSpan-1 ancestors (spec §4.6's `medianOfLast11`), used as the
// floor a new block's timestamp must exceed.
func CalcMedianTimePast(idx *chainindex.Index, id chainindex.ID) time.Time {
	var stamps []time.Time
	cur := id
	for i := 0; i < medianTimeSpan; i++ {
		n, ok := idx.Node(cur)
		if !ok {
			break
		}
		stamps = append(stamps, n.Header.Timestamp)
		prev, hasPrev := idx.Prev(cur)
		if !hasPrev {
			break
		}
		cur = prev
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	return stamps[len(stamps)/2]
}
