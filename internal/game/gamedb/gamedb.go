// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gamedb persists C8 snapshots of the game world, one per connected
// block height, so the block processor can read the prior state before
// running a step and a reorg can roll back to an earlier one without
// replaying the whole chain (spec §3 Lifecycle, §5).
package gamedb

import (
	"bytes"
	"encoding/binary"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
)

func heightKey(height int32) []byte {
	suffix := make([]byte, 4)
	binary.BigEndian.PutUint32(suffix, uint32(height))
	return storage.NamespacedKey(storage.PrefixGameState, suffix)
}

// WriteState stores s under its own Height, overwriting any snapshot
// already there.
func WriteState(tx *storage.Tx, s *state.GameState) error {
	var buf bytes.Buffer
	if err := s.Serialize(&buf); err != nil {
		return err
	}
	return tx.Set(heightKey(s.Height), buf.Bytes())
}

// ReadState returns the snapshot stored at height, or nil if none was ever
// written there. For a negative height (the synthetic height -1 "before
// genesis" state) it returns a fresh state.New() without reading storage.
func ReadState(tx *storage.Tx, height int32) (*state.GameState, error) {
	if height < 0 {
		return state.New(), nil
	}
	data, err := tx.Get(heightKey(height))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state.Deserialize(bytes.NewReader(data))
}

// DeleteState removes the snapshot at height, unconditionally. A disconnect
// uses it for the height it rolls back; Prune uses it for each
// non-checkpoint height it drops.
func DeleteState(tx *storage.Tx, height int32) error {
	return tx.Delete(heightKey(height))
}

// Prune drops every snapshot below tipHeight that isn't a multiple of
// chaincfg.KeepEveryNthState, keeping only the archival checkpoints plus
// whatever the caller still needs for near-tip reorg safety (the caller is
// responsible for not pruning past its own reorg window).
func Prune(tx *storage.Tx, fromHeight, tipHeight int32) error {
	for h := fromHeight; h < tipHeight; h++ {
		if h%chaincfg.KeepEveryNthState == 0 {
			continue
		}
		if err := DeleteState(tx, h); err != nil {
			return err
		}
	}
	return nil
}
