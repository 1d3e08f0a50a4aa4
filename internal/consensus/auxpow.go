// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"

	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
	"github.com/chronokings/huntercoin-sub000/internal/pow"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// mergedMiningMagic is the marker a merge-mined parent chain's coinbase
// scriptSig carries ahead of the commitment to this chain's block hash,
// the namecoin-derived merged-mining convention the spec's "merge-mined
// auxiliary PoW" description refers to.
var mergedMiningMagic = []byte{0xfa, 0xbe, 'm', 'm'}

// CheckAuxPow validates header's attached AuxPow (spec §4.6): the parent
// block must not itself carry an auxpow (enforced already by
// (*AuxPow).Deserialize), must declare the same proof-of-work algorithm,
// must satisfy header's own difficulty target, and must embed a coinbase
// that commits to header's hash via the merged-mining magic marker and
// whose inclusion in the parent block is proven by the coinbase merkle
// branch. A header with no auxpow attached passes trivially.
func CheckAuxPow(header *wire.BlockHeader) error {
	if !header.HasAuxPow() {
		return nil
	}
	aux := header.AuxPow

	if aux.ParentBlock.HasAuxPow() {
		return ruleError(ErrBadProofOfWork, "auxpow parent block must not itself carry an auxpow")
	}
	if aux.ParentBlock.Algo() != header.Algo() {
		return ruleError(ErrBadProofOfWork, "auxpow parent block declares a different proof-of-work algorithm")
	}

	parentHash, err := aux.ParentBlock.BlockHash()
	if err != nil {
		return ruleError(ErrBadProofOfWork, "auxpow parent block header does not hash")
	}
	if parentHash != aux.ParentBlockHash {
		return ruleError(ErrBadProofOfWork, "auxpow parent block hash does not match its header")
	}

	target := chainindex.CompactToBig(header.Bits)
	if pow.HashToBig(parentHash).Cmp(target) > 0 {
		return ruleError(ErrBadProofOfWork, "auxpow parent block hash does not meet this chain's target")
	}

	coinbaseHash := aux.CoinbaseTx.TxHash()
	if aux.CoinbaseBranch.Apply(coinbaseHash) != aux.ParentBlock.MerkleRoot {
		return ruleError(ErrBadProofOfWork, "auxpow coinbase is not included in its claimed parent block")
	}

	ownHash, err := header.BlockHash()
	if err != nil {
		return ruleError(ErrBadProofOfWork, "block header does not hash")
	}
	if !coinbaseCommitsTo(aux.CoinbaseTx, ownHash) {
		return ruleError(ErrBadProofOfWork, "auxpow coinbase does not commit to this block's hash")
	}

	return nil
}

// coinbaseCommitsTo reports whether tx's first input carries the
// merged-mining magic marker immediately followed by hash, the standard
// merged-mining commitment layout.
func coinbaseCommitsTo(tx *wire.MsgTx, hash [32]byte) bool {
	if len(tx.TxIn) == 0 {
		return false
	}
	script := tx.TxIn[0].SignatureScript
	idx := bytes.Index(script, mergedMiningMagic)
	if idx < 0 {
		return false
	}
	start := idx + len(mergedMiningMagic)
	if start+32 > len(script) {
		return false
	}
	return bytes.Equal(script[start:start+32], hash[:])
}
