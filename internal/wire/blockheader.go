// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
)

// Version bit layout (spec §3, Block header):
//   bit 0:     BLOCK_VERSION_DEFAULT, set on every ordinary block
//   bit 8:     set iff an AuxPow structure follows the header
//   bit 9:     PoW algorithm selector: set selects scrypt, clear selects
//              SHA-256d
//   bits 16+:  merge-mining chain ID, multiplied in as a block-version
//              offset the way Namecoin-derived chains use it
const (
	// VersionDefaultBit is set on every ordinary (non-merge-mined-parent)
	// block version.
	VersionDefaultBit int32 = 1 << 0

	// VersionAuxPowBit marks that a BlockHeader carries an auxiliary
	// proof-of-work structure from a merge-mined parent chain.
	VersionAuxPowBit int32 = 1 << 8

	// VersionScryptBit selects the scrypt proof-of-work algorithm; when
	// clear, SHA-256d is used.
	VersionScryptBit int32 = 1 << 9

	// VersionChainStart is the multiplier applied to a chain ID to fold it
	// into a block version for merged mining.
	VersionChainStart int32 = 1 << 16

	// AlgoSHA256D and AlgoScrypt identify the two proof-of-work algorithms
	// a header's version may select.
	AlgoSHA256D uint8 = 0
	AlgoScrypt  uint8 = 1
)

// Algo returns the proof-of-work algorithm selected by this header's
// version.
func (h *BlockHeader) Algo() uint8 {
	if h.Version&VersionScryptBit != 0 {
		return AlgoScrypt
	}
	return AlgoSHA256D
}

// HasAuxPow reports whether this header declares an auxiliary proof-of-work
// structure.
func (h *BlockHeader) HasAuxPow() bool {
	return h.Version&VersionAuxPowBit != 0
}

// ChainID extracts the merge-mining chain ID folded into the version.
func (h *BlockHeader) ChainID() int32 {
	return h.Version / VersionChainStart
}

// BaseBlockHeaderPayload is the serialized size of a block header excluding
// any AuxPow trailer: version(4) + prevHash(32) + txMerkleRoot(32) +
// gameMerkleRoot(32) + time(4) + bits(4) + nonce(4).
const BaseBlockHeaderPayload = 4 + 3*chainhash.HashSize + 4 + 4 + 4

// BlockHeader defines information about a block and is used in the block
// (MsgBlock) message.
type BlockHeader struct {
	// Version of the block, whose bits select PoW algorithm, auxpow
	// presence and merge-mining chain ID (see the bit layout above).
	Version int32

	// PrevBlock is the hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// MerkleRoot commits to the block's ordinary (C3) transaction set.
	MerkleRoot chainhash.Hash

	// GameMerkleRoot commits to the block's derived game-transaction set
	// (C9's output), the second merkle root described in spec §1/§6.
	GameMerkleRoot chainhash.Hash

	// Timestamp is the time the block was created, truncated to
	// one-second resolution on the wire.
	Timestamp time.Time

	// Bits is the difficulty target for the block in compact form.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32

	// AuxPow is present iff HasAuxPow() is true and carries the
	// merge-mining commitment from the parent chain.
	AuxPow *AuxPow
}

// BlockHash computes the block identifier hash for the given block header,
// using the proof-of-work algorithm selected by the header's version.
func (h *BlockHeader) BlockHash() (chainhash.Hash, error) {
	var buf bytes.Buffer
	if err := writeBlockHeaderNoAuxPow(&buf, h); err != nil {
		return chainhash.Hash{}, err
	}
	return powHash(h.Algo(), buf.Bytes())
}

// Serialize encodes the header, including any AuxPow trailer, to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeBlockHeaderNoAuxPow(w, h); err != nil {
		return err
	}
	if h.HasAuxPow() {
		if h.AuxPow == nil {
			return errMissingAuxPow
		}
		return h.AuxPow.Serialize(w)
	}
	return nil
}

// Deserialize decodes a header, including any AuxPow trailer, from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := readBlockHeaderNoAuxPow(r, h); err != nil {
		return err
	}
	if h.HasAuxPow() {
		h.AuxPow = &AuxPow{}
		return h.AuxPow.Deserialize(r)
	}
	return nil
}

func writeBlockHeaderNoAuxPow(w io.Writer, h *BlockHeader) error {
	sec := uint32(h.Timestamp.Unix())
	if err := writeElement(w, h.Version); err != nil {
		return err
	}
	if err := writeElement(w, h.PrevBlock); err != nil {
		return err
	}
	if err := writeElement(w, h.MerkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, h.GameMerkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, sec); err != nil {
		return err
	}
	if err := writeElement(w, h.Bits); err != nil {
		return err
	}
	return writeElement(w, h.Nonce)
}

func readBlockHeaderNoAuxPow(r io.Reader, h *BlockHeader) error {
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if err := readElement(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readElement(r, &h.MerkleRoot); err != nil {
		return err
	}
	if err := readElement(r, &h.GameMerkleRoot); err != nil {
		return err
	}
	var sec uint32
	if err := readElement(r, &sec); err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(sec), 0)
	if err := readElement(r, &h.Bits); err != nil {
		return err
	}
	return readElement(r, &h.Nonce)
}
