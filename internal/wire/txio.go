// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
)

// MaxBlockPayload is the maximum number of bytes a serialized block may be,
// per spec §8 (MAX_BLOCK_SIZE).
const MaxBlockPayload = 1_000_000

// maxScriptSize bounds a single scriptSig/scriptPubKey's serialized length;
// loosely matches the script VM's MaxScriptSize.
const maxScriptSize = 10_000

// Serialize encodes the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeElement(w, msg.Version); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}
	return writeElement(w, msg.LockTime)
}

// Deserialize decodes a transaction from r into msg.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	if err := readElement(r, &msg.Version); err != nil {
		return err
	}

	inCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, inCount)
	for i := range msg.TxIn {
		ti, err := readTxIn(r)
		if err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		to, err := readTxOut(r)
		if err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	return readElement(r, &msg.LockTime)
}

func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := writeElement(w, ti.PreviousOutpoint.TxID); err != nil {
		return err
	}
	if err := writeElement(w, ti.PreviousOutpoint.Index); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeElement(w, ti.Sequence)
}

func readTxIn(r io.Reader) (*TxIn, error) {
	ti := &TxIn{}
	var txID chainhash.Hash
	if err := readElement(r, &txID); err != nil {
		return nil, err
	}
	ti.PreviousOutpoint.TxID = txID
	if err := readElement(r, &ti.PreviousOutpoint.Index); err != nil {
		return nil, err
	}
	script, err := ReadVarBytes(r, maxScriptSize, "scriptSig")
	if err != nil {
		return nil, err
	}
	ti.SignatureScript = script
	if err := readElement(r, &ti.Sequence); err != nil {
		return nil, err
	}
	return ti, nil
}

func writeTxOut(w io.Writer, to *TxOut) error {
	if err := writeElement(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}

func readTxOut(r io.Reader) (*TxOut, error) {
	to := &TxOut{}
	if err := readElement(r, &to.Value); err != nil {
		return nil, err
	}
	script, err := ReadVarBytes(r, maxScriptSize, "scriptPubKey")
	if err != nil {
		return nil, err
	}
	to.PkScript = script
	return to, nil
}
