// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/keys"
	"github.com/pkg/errors"
)

// errMissingAuxPow is returned when a header's version declares an AuxPow
// trailer but none is attached.
var errMissingAuxPow = errors.New("block header declares auxpow but none is attached")

// errNestedAuxPow is returned when a parent block embedded in an AuxPow
// itself declares an AuxPow, which spec §4.6 forbids.
var errNestedAuxPow = errors.New("auxpow parent block must not itself carry an auxpow")

// MerkleBranch is a merkle authentication path: the sibling hashes needed to
// recompute a root from a leaf, together with the bitmask describing which
// side of each level the leaf falls on.
type MerkleBranch struct {
	Hashes   []chainhash.Hash
	SideMask uint32
}

// Apply folds leaf up through the branch and returns the resulting root.
func (b *MerkleBranch) Apply(leaf chainhash.Hash) chainhash.Hash {
	hash := leaf
	mask := b.SideMask
	for _, sibling := range b.Hashes {
		var buf [64]byte
		if mask&1 != 0 {
			copy(buf[0:32], sibling[:])
			copy(buf[32:64], hash[:])
		} else {
			copy(buf[0:32], hash[:])
			copy(buf[32:64], sibling[:])
		}
		hash = chainhash.HashH(buf[:])
		mask >>= 1
	}
	return hash
}

func (b *MerkleBranch) serialize(w io.Writer) error {
	if err := WriteVarInt(w, uint64(len(b.Hashes))); err != nil {
		return err
	}
	for _, h := range b.Hashes {
		if err := writeElement(w, h); err != nil {
			return err
		}
	}
	return writeElement(w, b.SideMask)
}

func (b *MerkleBranch) deserialize(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	b.Hashes = make([]chainhash.Hash, count)
	for i := range b.Hashes {
		if err := readElement(r, &b.Hashes[i]); err != nil {
			return err
		}
	}
	return readElement(r, &b.SideMask)
}

// AuxPow proves, via a merkle branch into a parent-chain coinbase, that a
// block on the parent chain committed to this block's hash (spec §4.6,
// merge mining). CheckAuxPow looks for that hash directly after the
// merged-mining marker; it does not apply BlockchainBranch or check a
// chain-id index.
type AuxPow struct {
	CoinbaseTx       *MsgTx
	ParentBlockHash  chainhash.Hash
	CoinbaseBranch   MerkleBranch
	BlockchainBranch MerkleBranch
	ParentBlock      BlockHeader
}

// Serialize writes the AuxPow trailer to w.
func (a *AuxPow) Serialize(w io.Writer) error {
	if err := a.CoinbaseTx.Serialize(w); err != nil {
		return err
	}
	if err := writeElement(w, a.ParentBlockHash); err != nil {
		return err
	}
	if err := a.CoinbaseBranch.serialize(w); err != nil {
		return err
	}
	if err := a.BlockchainBranch.serialize(w); err != nil {
		return err
	}
	return writeBlockHeaderNoAuxPow(w, &a.ParentBlock)
}

// Deserialize reads an AuxPow trailer from r.
func (a *AuxPow) Deserialize(r io.Reader) error {
	a.CoinbaseTx = &MsgTx{}
	if err := a.CoinbaseTx.Deserialize(r); err != nil {
		return err
	}
	if err := readElement(r, &a.ParentBlockHash); err != nil {
		return err
	}
	if err := a.CoinbaseBranch.deserialize(r); err != nil {
		return err
	}
	if err := a.BlockchainBranch.deserialize(r); err != nil {
		return err
	}
	if err := readBlockHeaderNoAuxPow(r, &a.ParentBlock); err != nil {
		return err
	}
	if a.ParentBlock.HasAuxPow() {
		return errNestedAuxPow
	}
	return nil
}

// powHash computes the proof-of-work digest of a serialized header under
// the given algorithm.
func powHash(algo uint8, serialized []byte) (chainhash.Hash, error) {
	switch algo {
	case AlgoSHA256D:
		var h chainhash.Hash
		copy(h[:], keys.Sha256d(serialized))
		return h, nil
	case AlgoScrypt:
		digest, err := keys.ScryptHash(serialized)
		if err != nil {
			return chainhash.Hash{}, errors.Wrap(err, "scrypt proof-of-work")
		}
		var h chainhash.Hash
		copy(h[:], digest)
		return h, nil
	default:
		return chainhash.Hash{}, errors.Errorf("unknown proof-of-work algorithm %d", algo)
	}
}

// ParentPowHash computes the proof-of-work hash of the AuxPow's embedded
// parent block header, the value that must meet the child block's target.
func (a *AuxPow) ParentPowHash() (chainhash.Hash, error) {
	return a.ParentBlock.BlockHash()
}
