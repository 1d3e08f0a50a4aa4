// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package utxo implements C4: the authoritative set of unspent transaction
// outputs, keyed by outpoint and backed by the shared storage environment.
package utxo

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// ErrAlreadyExists is returned by InsertUtxo when the outpoint is already
// present, and ErrNotFound by RemoveUtxo/ReadUtxo when it is absent.
var (
	ErrAlreadyExists = errors.New("utxo: outpoint already present")
	ErrNotFound      = errors.New("utxo: outpoint not found")
)

// Entry is the authoritative record for one unspent output (spec §3
// UtxoEntry): the output itself plus the data needed to enforce coinbase
// and game-tx maturity.
type Entry struct {
	TxOut      wire.TxOut
	Height     int32
	IsCoinbase bool
	IsGameTx   bool
}

// IsMature reports whether this entry may be spent at currentHeight, given
// a maturity window of `window` blocks (spec §3: coinbase and game-tx
// outputs require currentHeight-height >= 100).
func (e *Entry) IsMature(currentHeight int32, window int32) bool {
	if !e.IsCoinbase && !e.IsGameTx {
		return true
	}
	return currentHeight-e.Height >= window
}

func key(op wire.Outpoint) []byte {
	var buf bytes.Buffer
	buf.Write(op.TxID[:])
	var idx [4]byte
	idx[0] = byte(op.Index)
	idx[1] = byte(op.Index >> 8)
	idx[2] = byte(op.Index >> 16)
	idx[3] = byte(op.Index >> 24)
	buf.Write(idx[:])
	return storage.NamespacedKey(storage.PrefixUTXO, buf.Bytes())
}

func (e *Entry) serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, uint64(e.Height)); err != nil {
		return nil, err
	}
	flags := byte(0)
	if e.IsCoinbase {
		flags |= 1
	}
	if e.IsGameTx {
		flags |= 2
	}
	buf.WriteByte(flags)
	if err := wire.WriteVarInt(&buf, uint64(e.TxOut.Value)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarBytes(&buf, e.TxOut.PkScript); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeEntry(data []byte) (*Entry, error) {
	r := bytes.NewReader(data)
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
	return &Entry{
		TxOut:      wire.TxOut{Value: int64(value), PkScript: pkScript},
		Height:     int32(height),
		IsCoinbase: flags&1 != 0,
		IsGameTx:   flags&2 != 0,
	}, nil
}

// ReadUtxo fetches the entry for outpoint, or ErrNotFound.
func ReadUtxo(tx *storage.Tx, op wire.Outpoint) (*Entry, error) {
	data, err := tx.Get(key(op))
	if err == storage.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return deserializeEntry(data)
}

// InsertUtxo records entry at op, failing if an entry is already present
// there (spec §4.3).
func InsertUtxo(tx *storage.Tx, op wire.Outpoint, entry Entry) error {
	has, err := tx.Has(key(op))
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyExists
	}
	data, err := entry.serialize()
	if err != nil {
		return err
	}
	return tx.Set(key(op), data)
}

// RemoveUtxo deletes the entry at op, failing if absent.
func RemoveUtxo(tx *storage.Tx, op wire.Outpoint) error {
	has, err := tx.Has(key(op))
	if err != nil {
		return err
	}
	if !has {
		return ErrNotFound
	}
	return tx.Delete(key(op))
}

// RemoveAllOutputs bulk-removes every output of txid that is present,
// skipping any already spent.
func RemoveAllOutputs(storeTx *storage.Tx, txid chainhash.Hash, numOutputs int) error {
	for i := 0; i < numOutputs; i++ {
		op := wire.Outpoint{TxID: txid, Index: uint32(i)}
		has, err := storeTx.Has(key(op))
		if err != nil {
			return err
		}
		if has {
			if err := storeTx.Delete(key(op)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats summarizes a full sweep of the UTXO set, the data analyseutxo's RPC
// and the money-supply invariant test need.
type Stats struct {
	Count          int64
	TotalAmount    int64
	InNamesAmount  int64
}

// Analyse performs an O(n) sweep of the UTXO set, computing the total
// unspent value and the portion locked in name-operation outputs (spec
// §4.3, §8 money-supply invariant).
func Analyse(tx *storage.Tx) (Stats, error) {
	var stats Stats
	err := tx.ForEach(storage.PrefixUTXO, func(_, value []byte) error {
		entry, derr := deserializeEntry(value)
		if derr != nil {
			return derr
		}
		stats.Count++
		stats.TotalAmount += entry.TxOut.Value
		if _, ok := script.ParseNameScript(entry.TxOut.PkScript); ok {
			stats.InNamesAmount += entry.TxOut.Value
		}
		return nil
	})
	return stats, err
}

// IsUnspendable reports whether a script can never appear in the UTXO set
// (spec §4.3): OP_RETURN outputs and scripts that provably fail immediately.
func IsUnspendable(pkScript []byte) bool {
	if len(pkScript) == 0 {
		return true
	}
	return pkScript[0] == script.OpReturn
}
