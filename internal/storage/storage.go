// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage provides the single transactional key-value environment
// backing the UTXO store (C4), name index (C5), chain index (C7) and game
// state snapshots (C8): one badger database, opened once, so that a block's
// connect or disconnect commits (or rolls back) across all four logical
// stores atomically, per spec §5/§6.
package storage

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Key namespace prefixes for the five logical stores sharing this
// environment (spec §6 "Persisted state").
var (
	PrefixUTXO       = []byte("u")
	PrefixNameIndex  = []byte("n")
	PrefixBlockIndex = []byte("b")
	PrefixGameState  = []byte("g")
	PrefixChainMeta  = []byte("c")
)

// ErrNotFound is returned by Tx.Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// DB is the opened environment. All reads and writes to the consensus
// stores go through a DB's View/Update transactions so that every
// block-processor step per spec §5 commits or rolls back as a unit.
type DB struct {
	bdb *badger.DB
}

// Open opens (creating if absent) the badger environment rooted at path.
func Open(path string) (*DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	bdb, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, errors.Wrapf(err, "datadir %s is locked by another huntercoind instance", path)
		}
		return nil, errors.Wrapf(err, "open datadir %s", path)
	}
	return &DB{bdb: bdb}, nil
}

// Close releases the environment.
func (d *DB) Close() error {
	return d.bdb.Close()
}

// Tx is a single read or read-write transaction scoped to one badger.Txn,
// the unit in which ConnectBlock/DisconnectBlock commit or roll back.
type Tx struct {
	txn *badger.Txn
}

// View runs fn inside a read-only transaction. Used by RPC readers, which
// per spec §5 must observe either the pre-block or post-block state of
// every component, never a mixture.
func (d *DB) View(fn func(*Tx) error) error {
	return d.bdb.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// Update runs fn inside a read-write transaction, committing atomically if
// fn returns nil and rolling back entirely otherwise — the single-commit
// unit a block's connect or disconnect must be.
func (d *DB) Update(fn func(*Tx) error) error {
	return d.bdb.Update(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// Get fetches the value stored at key, or ErrNotFound.
func (t *Tx) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Has reports whether key is present.
func (t *Tx) Has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value at key.
func (t *Tx) Set(key, value []byte) error {
	return t.txn.Set(key, value)
}

// Delete removes key. Deleting an absent key is not an error at this layer;
// callers that must enforce "fails if absent" (e.g. RemoveUtxo) check Has
// first.
func (t *Tx) Delete(key []byte) error {
	return t.txn.Delete(key)
}

// ForEach iterates every key with the given prefix in key order, the
// traversal ScanNames and Analyse rely on.
func (t *Tx) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}

// NamespacedKey builds a store key as prefix||sep||suffix, the layout every
// logical store (UTXO, name index, block index, game state, chain meta)
// uses to share one flat badger keyspace.
func NamespacedKey(prefix []byte, suffix []byte) []byte {
	key := make([]byte, 0, len(prefix)+1+len(suffix))
	key = append(key, prefix...)
	key = append(key, ':')
	key = append(key, suffix...)
	return key
}
