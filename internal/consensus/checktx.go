// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// CheckTransaction performs every context-free check on tx (spec §4.2):
// non-empty vin/vout, serialized size, per-output value range, coinbase
// scriptSig length, the game-tx-never-accepted-standalone rule, and
// name-operation argument bounds.
func CheckTransaction(tx *wire.MsgTx) error {
	if len(tx.TxIn) == 0 {
		return ruleError(ErrEmptyTxList, "transaction has no inputs")
	}
	if len(tx.TxOut) == 0 {
		return ruleError(ErrEmptyTxList, "transaction has no outputs")
	}
	if tx.SerializeSize() > chaincfg.MaxBlockSize {
		return ruleError(ErrOversizeBlock, "transaction exceeds the maximum allowed size")
	}
	if tx.IsGameTx() {
		return ruleError(ErrBadCoinbase, "game transactions may not be submitted directly")
	}

	var total int64
	for _, out := range tx.TxOut {
		if out.Value < 0 || out.Value > chaincfg.MaxMoney {
			return ruleError(ErrValueOutOfRange, "transaction output value out of range")
		}
		total += out.Value
		if total < 0 || total > chaincfg.MaxMoney {
			return ruleError(ErrValueOutOfRange, "transaction total output value out of range")
		}
	}

	if tx.IsCoinBase() {
		sigLen := len(tx.TxIn[0].SignatureScript)
		if sigLen < 2 || sigLen > 230 {
			return ruleError(ErrBadCoinbase, "coinbase scriptSig length out of range")
		}
	} else {
		for _, in := range tx.TxIn {
			if in.PreviousOutpoint.IsNull() {
				return ruleError(ErrBadScript, "non-coinbase transaction has a null previous outpoint")
			}
		}
	}

	return checkNameOperations(tx)
}

// checkNameOperations enforces that a transaction carries at most one
// name-operation output and that its arguments are within bounds (spec
// §4.2, §6).
func checkNameOperations(tx *wire.MsgTx) error {
	nameOps := 0
	for _, out := range tx.TxOut {
		parsed, ok := script.ParseNameScript(out.PkScript)
		if !ok {
			continue
		}
		nameOps++
		if nameOps > 1 {
			return ruleError(ErrNameRuleViolation, "transaction carries more than one name operation")
		}
		if len(parsed.Name) > chaincfg.MaxNameLength {
			return ruleError(ErrNameRuleViolation, "name exceeds maximum length")
		}
		if len(parsed.Value) > chaincfg.MaxValueLength {
			return ruleError(ErrNameRuleViolation, "name value exceeds maximum length")
		}
		if parsed.Op == script.NameOpFirstUpdate && len(parsed.Rand) != chaincfg.NameRandBytes {
			return ruleError(ErrNameRuleViolation, "name_firstupdate rand commitment has the wrong length")
		}
		if parsed.Op == script.NameOpNew && len(parsed.Hash) != 20 {
			return ruleError(ErrNameRuleViolation, "name_new hash has the wrong length")
		}
	}
	return nil
}

// nameCommitment reproduces the hash a name_new output commits to:
// HASH160(name || rand), checked at name_firstupdate time.
func nameCommitment(hash160 func([]byte) []byte, name, rand []byte) []byte {
	return hash160(append(append([]byte(nil), name...), rand...))
}
