// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nameindex implements C5: the mapping from a player identity
// ("name") to its history of registered values, the substrate the game
// layer's player records and death markers live in.
package nameindex

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// ErrNameTooLong and ErrValueTooLong enforce the name/value length caps
// (spec §3, §6).
var (
	ErrNameTooLong  = errors.New("nameindex: name exceeds maximum length")
	ErrValueTooLong = errors.New("nameindex: value exceeds maximum length")
	ErrNoSuchEntry  = errors.New("nameindex: no entry at the given height")
)

// BlockPointer locates the transaction that wrote a NameEntry, used to
// resolve a player's reward/name-output address back to its owning tx.
type BlockPointer struct {
	BlockHeight int32
	TxIndex     uint32
	OutIndex    uint32
}

// Entry is one historical registration or update of a name (spec §3
// NameEntry).
type Entry struct {
	Height int32
	Value  []byte
	TxPos  BlockPointer
}

// IsDead reports whether this entry is the dead-player sentinel.
func (e *Entry) IsDead() bool {
	return bytes.Equal(e.Value, []byte(chaincfg.DeadMarker))
}

func nameKey(name []byte) []byte {
	return storage.NamespacedKey(storage.PrefixNameIndex, name)
}

func (e *Entry) serialize(buf *bytes.Buffer) error {
	if err := wire.WriteVarInt(buf, uint64(e.Height)); err != nil {
		return err
	}
	if err := wire.WriteVarBytes(buf, e.Value); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(e.TxPos.BlockHeight)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(e.TxPos.TxIndex)); err != nil {
		return err
	}
	return wire.WriteVarInt(buf, uint64(e.TxPos.OutIndex))
}

func deserializeEntry(r *bytes.Reader) (Entry, error) {
	var e Entry
	height, err := wire.ReadVarInt(r)
	if err != nil {
		return e, err
	}
	value, err := wire.ReadVarBytes(r, chaincfg.MaxValueLength, "name value")
	if err != nil {
		return e, err
	}
	blockHeight, err := wire.ReadVarInt(r)
	if err != nil {
		return e, err
	}
	txIdx, err := wire.ReadVarInt(r)
	if err != nil {
		return e, err
	}
	outIdx, err := wire.ReadVarInt(r)
	if err != nil {
		return e, err
	}
	e.Height = int32(height)
	e.Value = value
	e.TxPos = BlockPointer{
		BlockHeight: int32(blockHeight),
		TxIndex:     uint32(txIdx),
		OutIndex:    uint32(outIdx),
	}
	return e, nil
}

func loadHistory(tx *storage.Tx, name []byte) ([]Entry, error) {
	data, err := tx.Get(nameKey(name))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	history := make([]Entry, count)
	for i := range history {
		history[i], err = deserializeEntry(r)
		if err != nil {
			return nil, err
		}
	}
	return history, nil
}

func storeHistory(tx *storage.Tx, name []byte, history []Entry) error {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, uint64(len(history))); err != nil {
		return err
	}
	for i := range history {
		if err := history[i].serialize(&buf); err != nil {
			return err
		}
	}
	return tx.Set(nameKey(name), buf.Bytes())
}

// PushEntry appends entry to name's history in chain order.
func PushEntry(tx *storage.Tx, name []byte, entry Entry) error {
	if len(name) > chaincfg.MaxNameLength {
		return ErrNameTooLong
	}
	if len(entry.Value) > chaincfg.MaxValueLength {
		return ErrValueTooLong
	}
	history, err := loadHistory(tx, name)
	if err != nil {
		return err
	}
	history = append(history, entry)
	return storeHistory(tx, name, history)
}

// PopEntry removes the history entry recorded at the given block height
// (used on block disconnect). Only that entry is removed, never earlier
// ones, matching spec §4.4's "remove the entry only — never preceding
// ones".
func PopEntry(tx *storage.Tx, name []byte, height int32) error {
	history, err := loadHistory(tx, name)
	if err != nil {
		return err
	}
	if len(history) == 0 || history[len(history)-1].Height != height {
		return ErrNoSuchEntry
	}
	history = history[:len(history)-1]
	return storeHistory(tx, name, history)
}

// History returns every entry ever recorded for name, oldest first, the
// data name_history's RPC exposes.
func History(tx *storage.Tx, name []byte) ([]Entry, error) {
	return loadHistory(tx, name)
}

// ReadName returns the last (authoritative) entry for name, or nil if the
// name has never been registered.
func ReadName(tx *storage.Tx, name []byte) (*Entry, error) {
	history, err := loadHistory(tx, name)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	last := history[len(history)-1]
	return &last, nil
}

// ExistsName reports whether name has ever been registered.
func ExistsName(tx *storage.Tx, name []byte) (bool, error) {
	entry, err := ReadName(tx, name)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// NameAvailable reports whether name may be freshly registered: either it
// has no history, or its last entry is the dead marker (spec §4.4).
func NameAvailable(tx *storage.Tx, name []byte) (bool, error) {
	entry, err := ReadName(tx, name)
	if err != nil {
		return false, err
	}
	return entry == nil || entry.IsDead(), nil
}

// ScanNames walks names in lexicographic order starting at (or after) start,
// returning up to max (name, entry) pairs.
func ScanNames(tx *storage.Tx, start []byte, max int) ([][]byte, []Entry, error) {
	var names [][]byte
	var entries []Entry
	err := tx.ForEach(storage.PrefixNameIndex, func(key, value []byte) error {
		if len(names) >= max {
			return nil
		}
		name := key[len(storage.PrefixNameIndex)+1:]
		if bytes.Compare(name, start) < 0 {
			return nil
		}
		r := bytes.NewReader(value)
		count, err := wire.ReadVarInt(r)
		if err != nil {
			return err
		}
		var last Entry
		for i := uint64(0); i < count; i++ {
			last, err = deserializeEntry(r)
			if err != nil {
				return err
			}
		}
		names = append(names, append([]byte(nil), name...))
		entries = append(entries, last)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return bytes.Compare(names[order[i]], names[order[j]]) < 0
	})
	sortedNames := make([][]byte, len(names))
	sortedEntries := make([]Entry, len(names))
	for i, idx := range order {
		sortedNames[i] = names[idx]
		sortedEntries[i] = entries[idx]
	}
	return sortedNames, sortedEntries, nil
}

// Prune drops history entries older than beforeHeight, keeping at least
// one (the most recent) per name, the operation prune_nameindex exposes.
func Prune(tx *storage.Tx, beforeHeight int32) error {
	var names [][]byte
	if err := tx.ForEach(storage.PrefixNameIndex, func(key, _ []byte) error {
		names = append(names, append([]byte(nil), key[len(storage.PrefixNameIndex)+1:]...))
		return nil
	}); err != nil {
		return err
	}

	for _, name := range names {
		history, err := loadHistory(tx, name)
		if err != nil {
			return err
		}
		if len(history) <= 1 {
			continue
		}
		cut := 0
		for cut < len(history)-1 && history[cut].Height < beforeHeight {
			cut++
		}
		if cut == 0 {
			continue
		}
		if err := storeHistory(tx, name, history[cut:]); err != nil {
			return err
		}
	}
	return nil
}
