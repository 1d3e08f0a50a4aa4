// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package undo records, for every connected block, exactly what the UTXO
// set and name index gained and lost so DisconnectBlock (C10) can reverse
// it without re-deriving anything from scripts (spec §5's "disconnect must
// restore every component to its pre-block state").
package undo

import (
	"bytes"
	"io"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// SpentOutput is one output a block's transactions consumed, recorded with
// enough of its original entry to reinsert it on disconnect.
type SpentOutput struct {
	Outpoint wire.Outpoint
	Entry    utxo.Entry
}

// NameWrite is one name-history entry a block appended, recorded so
// DisconnectBlock can nameindex.PopEntry it back off.
type NameWrite struct {
	Name   []byte
	Height int32
}

// BlockUndo is everything DisconnectBlock needs to reverse one connected
// block's effect on the UTXO set and name index. Reversing the game state
// (C8) doesn't need any of this: gamedb already keeps the previous height's
// full snapshot to fall back to.
type BlockUndo struct {
	Spent        []SpentOutput
	CreatedTxids []wire.Outpoint // every outpoint this block's own transactions created
	NameWrites   []NameWrite
}

func key(height int32) []byte {
	suffix := make([]byte, 4)
	h := uint32(height)
	suffix[0] = byte(h >> 24)
	suffix[1] = byte(h >> 16)
	suffix[2] = byte(h >> 8)
	suffix[3] = byte(h)
	return storage.NamespacedKey(storage.PrefixChainMeta, append([]byte("undo"), suffix...))
}

// Write persists u under height.
func Write(tx *storage.Tx, height int32, u *BlockUndo) error {
	var buf bytes.Buffer

	if err := wire.WriteVarInt(&buf, uint64(len(u.Spent))); err != nil {
		return err
	}
	for _, s := range u.Spent {
		if err := writeOutpoint(&buf, s.Outpoint); err != nil {
			return err
		}
		if err := wire.WriteVarInt(&buf, uint64(s.Entry.Height)); err != nil {
			return err
		}
		flags := byte(0)
		if s.Entry.IsCoinbase {
			flags |= 1
		}
		if s.Entry.IsGameTx {
			flags |= 2
		}
		buf.WriteByte(flags)
		if err := wire.WriteVarInt(&buf, uint64(s.Entry.TxOut.Value)); err != nil {
			return err
		}
		if err := wire.WriteVarBytes(&buf, s.Entry.TxOut.PkScript); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(&buf, uint64(len(u.CreatedTxids))); err != nil {
		return err
	}
	for _, op := range u.CreatedTxids {
		if err := writeOutpoint(&buf, op); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(&buf, uint64(len(u.NameWrites))); err != nil {
		return err
	}
	for _, nw := range u.NameWrites {
		if err := wire.WriteVarBytes(&buf, nw.Name); err != nil {
			return err
		}
		if err := wire.WriteVarInt(&buf, uint64(uint32(nw.Height))); err != nil {
			return err
		}
	}

	return tx.Set(key(height), buf.Bytes())
}

// Read loads the undo record for height, or nil if none was ever written
// there (the genesis block has no undo record since it can't be
// disconnected).
func Read(tx *storage.Tx, height int32) (*BlockUndo, error) {
	data, err := tx.Get(key(height))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)
	u := &BlockUndo{}

	nSpent, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	u.Spent = make([]SpentOutput, nSpent)
	for i := range u.Spent {
		op, err := readOutpoint(r)
		if err != nil {
			return nil, err
		}
		height, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		value, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		pkScript, err := wire.ReadVarBytes(r, script.MaxScriptSize, "pkScript")
		if err != nil {
			return nil, err
		}
		u.Spent[i] = SpentOutput{
			Outpoint: op,
			Entry: utxo.Entry{
				TxOut:      wire.TxOut{Value: int64(value), PkScript: pkScript},
				Height:     int32(height),
				IsCoinbase: flags&1 != 0,
				IsGameTx:   flags&2 != 0,
			},
		}
	}

	nCreated, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	u.CreatedTxids = make([]wire.Outpoint, nCreated)
	for i := range u.CreatedTxids {
		if u.CreatedTxids[i], err = readOutpoint(r); err != nil {
			return nil, err
		}
	}

	nNames, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	u.NameWrites = make([]NameWrite, nNames)
	for i := range u.NameWrites {
		name, err := wire.ReadVarBytes(r, chaincfg.MaxNameLength, "name")
		if err != nil {
			return nil, err
		}
		height, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		u.NameWrites[i] = NameWrite{Name: name, Height: int32(uint32(height))}
	}

	return u, nil
}

// Delete removes the undo record for height, once it can never be needed
// again (the block is buried deeper than any plausible reorg).
func Delete(tx *storage.Tx, height int32) error {
	return tx.Delete(key(height))
}

func writeOutpoint(buf *bytes.Buffer, op wire.Outpoint) error {
	buf.Write(op.TxID[:])
	return wire.WriteVarInt(buf, uint64(op.Index))
}

func readOutpoint(r *bytes.Reader) (wire.Outpoint, error) {
	var op wire.Outpoint
	if _, err := io.ReadFull(r, op.TxID[:]); err != nil {
		return wire.Outpoint{}, err
	}
	idx, err := wire.ReadVarInt(r)
	if err != nil {
		return wire.Outpoint{}, err
	}
	op.Index = uint32(idx)
	return op, nil
}
