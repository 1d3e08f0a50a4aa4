// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the on-chain wire/storage serialization of C3
// (transactions) and C6 (block headers, blocks) per spec §6: little-endian
// integers, varint-prefixed variable-length fields, 32-byte big-endian
// hashes.
package wire

import (
	"bytes"
	"math"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/keys"
)

// Transaction version discriminants. A plain value-transfer or name
// transaction both use version 1 or NamecoinTxVersion; the distinguishing
// factor for "plain" vs "name" is whether a name-operation output is
// present, not the version value alone, except that name transactions are
// conventionally tagged with NamecoinTxVersion by wallets.
const (
	// TxVersion is used by plain and (conventionally) coinbase transactions.
	TxVersion int32 = 1

	// NamecoinTxVersion tags a transaction carrying a name operation.
	NamecoinTxVersion int32 = 0x7100

	// GameTxVersion tags a transaction derived by the game step function.
	// Transactions with this version are never accepted from the wire.
	GameTxVersion int32 = 0x87100
)

// MaxTxInSequenceNum is the maximum sequence number, signalling that a
// transaction's locktime should be ignored for the given input.
const MaxTxInSequenceNum uint32 = math.MaxUint32

// Outpoint defines a data type used to track previous transaction outputs.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// NewOutpoint returns a new transaction outpoint point with the provided
// hash and index.
func NewOutpoint(txID *chainhash.Hash, index uint32) *Outpoint {
	return &Outpoint{TxID: *txID, Index: index}
}

// IsNull reports whether op is the null outpoint used by coinbase inputs
// and by game-tx treasury credits.
func (op *Outpoint) IsNull() bool {
	return op.Index == math.MaxUint32 && op.TxID == chainhash.Zero
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutpoint Outpoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new transaction input with the provided previous
// outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *Outpoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutpoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	return 32 + 4 + VarIntSerializeSize(uint64(len(t.SignatureScript))) + len(t.SignatureScript) + 4
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// MsgTx implements the Message interface and represents a transaction
// message. It is used to deliver transaction information in response to a
// getdata message (MsgGetData) for a given transaction, and is used to
// relay transactions and their derived game-transaction counterparts.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new tx message that conforms to the Message interface.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, 1),
		TxOut:   make([]*TxOut, 0, 1),
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase determines whether this transaction is a coinbase transaction:
// exactly one input whose previous outpoint is null.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].PreviousOutpoint.IsNull()
}

// IsGameTx reports whether this transaction's version marks it as a
// game-derived transaction. Such transactions are produced only by the
// game step function (C9) and must be rejected if ever seen on the wire.
func (msg *MsgTx) IsGameTx() bool {
	return msg.Version == GameTxVersion
}

// TxHash generates the Hash for the transaction by double hashing its
// serialized form.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	var h chainhash.Hash
	copy(h[:], keys.Sha256d(buf.Bytes()))
	return h
}

// Copy creates a deep copy of a transaction so that the original does not
// get modified when the copy is manipulated, used by the script engine's
// signature-hash construction which blanks out scriptSig fields.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := TxIn{
			PreviousOutpoint: oldTxIn.PreviousOutpoint,
			SignatureScript:  append([]byte(nil), oldTxIn.SignatureScript...),
			Sequence:         oldTxIn.Sequence,
		}
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	for _, oldTxOut := range msg.TxOut {
		newTxOut := TxOut{
			Value:    oldTxOut.Value,
			PkScript: append([]byte(nil), oldTxOut.PkScript...),
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	n := 4 + VarIntSerializeSize(uint64(len(msg.TxIn)))
	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}
	n += 4 // LockTime
	return n
}
