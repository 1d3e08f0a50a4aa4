// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockstore persists every accepted block (header, ordinary
// transactions, derived game transactions) keyed by its hash, and the
// height-to-hash mapping of the current best chain, so the block processor
// can re-read a block to disconnect it and so a restarted node can rebuild
// its in-memory chain index (C7) from durable storage (spec §5, §6).
package blockstore

import (
	"bytes"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

func blockKey(hash chainhash.Hash) []byte {
	return storage.NamespacedKey(storage.PrefixBlockIndex, append([]byte("blk"), hash[:]...))
}

func heightKey(height int32) []byte {
	suffix := make([]byte, 4)
	h := uint32(height)
	suffix[0] = byte(h >> 24)
	suffix[1] = byte(h >> 16)
	suffix[2] = byte(h >> 8)
	suffix[3] = byte(h)
	return storage.NamespacedKey(storage.PrefixBlockIndex, append([]byte("hgt"), suffix...))
}

// StoreBlock persists block under its own hash.
func StoreBlock(tx *storage.Tx, hash chainhash.Hash, block *wire.MsgBlock) error {
	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		return err
	}
	return tx.Set(blockKey(hash), buf.Bytes())
}

// ReadBlock fetches the block stored at hash, or storage.ErrNotFound.
func ReadBlock(tx *storage.Tx, hash chainhash.Hash) (*wire.MsgBlock, error) {
	data, err := tx.Get(blockKey(hash))
	if err != nil {
		return nil, err
	}
	block := &wire.MsgBlock{}
	if err := block.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return block, nil
}

// SetHeightHash records hash as the best-chain block at height, overwriting
// whatever a prior chain had there.
func SetHeightHash(tx *storage.Tx, height int32, hash chainhash.Hash) error {
	return tx.Set(heightKey(height), hash[:])
}

// HeightHash returns the best-chain block hash recorded at height, or
// storage.ErrNotFound.
func HeightHash(tx *storage.Tx, height int32) (chainhash.Hash, error) {
	data, err := tx.Get(heightKey(height))
	if err != nil {
		return chainhash.Hash{}, err
	}
	var hash chainhash.Hash
	copy(hash[:], data)
	return hash, nil
}

// DeleteHeightHash removes the best-chain mapping at height, used when a
// reorg's old branch was taller than its new one and the heights beyond the
// new tip no longer name a best-chain block.
func DeleteHeightHash(tx *storage.Tx, height int32) error {
	return tx.Delete(heightKey(height))
}
