// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
)

// maxTxPerBlock loosely bounds the number of entries in either transaction
// set of a block; a real bound falls out of MaxBlockPayload during decode.
const maxTxPerBlock = MaxBlockPayload / 60

// MsgBlock defines a block message, (header, vtx, vgametx) per spec §3.
// Transactions[0] is always the coinbase. GameTransactions is the set
// derived by the game step function (C9) and is never carried on the wire
// independently of the block that produced it.
type MsgBlock struct {
	Header           BlockHeader
	Transactions     []*MsgTx
	GameTransactions []*MsgTx
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// AddGameTransaction adds a derived game transaction to the message.
func (msg *MsgBlock) AddGameTransaction(tx *MsgTx) {
	msg.GameTransactions = append(msg.GameTransactions, tx)
}

// BlockHash computes the block identifier hash for the block, which is
// simply its header's hash.
func (msg *MsgBlock) BlockHash() (chainhash.Hash, error) {
	return msg.Header.BlockHash()
}

// Serialize encodes the block to w: header, varint(ntx) ordinary
// transactions, varint(ngametx) derived game transactions.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.GameTransactions))); err != nil {
		return err
	}
	for _, tx := range msg.GameTransactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r into msg.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txCount > maxTxPerBlock {
		return errTooManyTransactions
	}
	msg.Transactions = make([]*MsgTx, txCount)
	for i := range msg.Transactions {
		tx := &MsgTx{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}

	gameTxCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if gameTxCount > maxTxPerBlock {
		return errTooManyTransactions
	}
	msg.GameTransactions = make([]*MsgTx, gameTxCount)
	for i := range msg.GameTransactions {
		tx := &MsgTx{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.GameTransactions[i] = tx
	}

	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	var buf bytes.Buffer
	_ = msg.Serialize(&buf)
	return buf.Len()
}
