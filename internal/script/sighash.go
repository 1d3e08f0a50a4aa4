// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"bytes"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// SigHashType represents the hash type bits at the end of a signature,
// selecting which parts of the enclosing transaction it commits to.
type SigHashType uint32

const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80
)

// serializeOpcode reconstructs the raw bytes of a single parsed opcode, used
// to rebuild the executing subscript for OP_CHECKSIG after an
// OP_CODESEPARATOR.
func serializeOpcode(pop parsedOpcode) []byte {
	var buf []byte
	buf = append(buf, pop.opcode.value)
	if pop.opcode.length < 0 {
		l := len(pop.data)
		switch pop.opcode.length {
		case -1:
			buf = append(buf, byte(l))
		case -2:
			buf = append(buf, byte(l), byte(l>>8))
		case -4:
			buf = append(buf, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
		}
	}
	buf = append(buf, pop.data...)
	return buf
}

// removeOpcode strips every occurrence of a given opcode from a script,
// as required when excising OP_CODESEPARATOR before hashing (and, by
// convention on this chain, the signature push itself).
func removeOpcode(parsed []parsedOpcode, value byte) []parsedOpcode {
	var out []parsedOpcode
	for _, pop := range parsed {
		if pop.opcode.value == value {
			continue
		}
		out = append(out, pop)
	}
	return out
}

// CalcSignatureHash computes the hash that a signature over txIn's input at
// idx, with the given hashType, commits to (spec §2: sighash modifiers ALL,
// NONE, SINGLE, optionally combined with ANYONECANPAY).
func CalcSignatureHash(subScript []byte, hashType SigHashType, tx *wire.MsgTx, idx int) (chainhash.Hash, error) {
	parsed, err := parseScript(subScript)
	if err != nil {
		return chainhash.Hash{}, err
	}
	parsed = removeOpcode(parsed, OpCodeSeparator)
	var cleaned bytes.Buffer
	for _, pop := range parsed {
		cleaned.Write(serializeOpcode(pop))
	}

	txCopy := tx.Copy()

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = []*wire.TxIn{txCopy.TxIn[idx]}
		idx = 0
	}

	baseType := hashType & ^SigHashAnyOneCanPay
	switch baseType {
	case SigHashNone:
		txCopy.TxOut = nil
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	case SigHashSingle:
		if idx >= len(txCopy.TxOut) {
			return chainhash.HashH([]byte{1}), nil
		}
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i] = &wire.TxOut{Value: -1}
		}
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	}

	for i, in := range txCopy.TxIn {
		if i == idx {
			in.SignatureScript = cleaned.Bytes()
		} else {
			in.SignatureScript = nil
		}
	}

	var buf bytes.Buffer
	_ = txCopy.Serialize(&buf)
	var hashTypeBuf [4]byte
	hashTypeBuf[0] = byte(hashType)
	buf.Write(hashTypeBuf[:])

	return chainhash.HashH(buf.Bytes()), nil
}
