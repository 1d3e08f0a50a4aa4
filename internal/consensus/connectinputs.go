// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/keys"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// InputLookup resolves a previous output. Block connection and the mempool
// both back it with the UTXO set in storage; the mempool does not overlay
// other pending transactions' outputs.
type InputLookup func(op wire.Outpoint) (*utxo.Entry, error)

// NameLookup resolves the current (pre-this-tx) state of a name, used to
// validate the name-operation state machine.
type NameLookup func(name []byte) (*nameindex.Entry, error)

// ConnectInputs validates tx contextually against lookup/nameLookup (spec
// §4.2): script verification, maturity, fee non-negativity, and the
// name-operation transition rules. When fBlock is true the caller is
// connecting a block and storeTx must be non-nil so spent outpoints are
// removed and this tx's outputs (and name history entry) are written;
// fMiner-only validation (mempool, mining candidates) passes storeTx=nil
// and relies solely on lookup/nameLookup.
func ConnectInputs(
	storeTx *storage.Tx,
	params *chaincfg.Params,
	tx *wire.MsgTx,
	height int32,
	txIndex uint32,
	lookup InputLookup,
	nameLookup NameLookup,
	fBlock bool,
) (fee int64, err error) {
	if tx.IsCoinBase() {
		if fBlock {
			if err := creditOutputs(storeTx, tx, height, txIndex, true, false, nameLookup); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	checker := &TxSigChecker{Tx: tx}

	var valueIn int64
	nameInputs := 0
	var curOp script.NameOp
	var curHash []byte
	var curHeight int32
	var curAmount int64

	for i, in := range tx.TxIn {
		entry, lerr := lookup(in.PreviousOutpoint)
		if lerr != nil || entry == nil {
			return 0, ruleError(ErrMissingInputs, "referenced output not found")
		}
		if !entry.IsMature(height, chaincfg.CoinbaseMaturity) {
			return 0, ruleError(ErrImmature, "input spends an immature coinbase or game-tx output")
		}
		if err := script.VerifyScript(in.SignatureScript, entry.TxOut.PkScript, checker); err != nil {
			return 0, ruleError(ErrBadScript, err.Error())
		}
		valueIn += entry.TxOut.Value

		if parsed, ok := script.ParseNameScript(entry.TxOut.PkScript); ok {
			nameInputs++
			if nameInputs > 1 {
				return 0, ruleError(ErrNameRuleViolation, "transaction spends more than one name output")
			}
			curOp = parsed.Op
			curHash = parsed.Hash
			curHeight = entry.Height
			curAmount = entry.TxOut.Value
		}
		_ = i
	}

	var valueOut int64
	for _, out := range tx.TxOut {
		valueOut += out.Value
	}
	fee = valueIn - valueOut
	if fee < 0 {
		return 0, ruleError(ErrInsufficientFee, "transaction spends more than it is given")
	}

	if err := checkNameTransition(tx, params, height, nameInputs, curOp, curHash, curHeight, curAmount); err != nil {
		return 0, err
	}

	if fBlock {
		if err := spendInputs(storeTx, tx); err != nil {
			return 0, err
		}
		if err := creditOutputs(storeTx, tx, height, txIndex, false, false, nameLookup); err != nil {
			return 0, err
		}
		if err := recordNameOp(storeTx, tx, height, txIndex); err != nil {
			return 0, err
		}
	}

	return fee, nil
}

// checkNameTransition enforces the allowed (prevOp, op) sequences from
// spec §4.2: (-, NEW), (NEW, FIRSTUPDATE) with depth>=2, (-, FIRSTUPDATE)
// post-carrying-cap fork, and (FIRSTUPDATE|UPDATE, UPDATE) with the same
// name. An update may not share a block with another update of the same
// name, enforced by the caller tracking per-block name writes.
func checkNameTransition(tx *wire.MsgTx, params *chaincfg.Params, height int32, nameInputs int,
	prevOp script.NameOp, prevHash []byte, prevHeight int32, prevAmount int64) error {

	var newOp script.NameOp
	var newParsed script.ParsedNameScript
	var newAmount int64
	newOpCount := 0
	for _, out := range tx.TxOut {
		if parsed, ok := script.ParseNameScript(out.PkScript); ok {
			newOpCount++
			newOp = parsed.Op
			newParsed = parsed
			newAmount = out.Value
		}
	}
	if newOpCount == 0 {
		return nil // plain value-transfer tx
	}
	if newOpCount > 1 {
		return ruleError(ErrNameRuleViolation, "transaction has more than one name output")
	}

	switch newOp {
	case script.NameOpNew:
		if nameInputs != 0 {
			return ruleError(ErrNameRuleViolation, "name_new must not spend a name output")
		}

	case script.NameOpFirstUpdate:
		carryingCapActive := params.Forks.Active(height, params.Forks.CarryingCap)
		switch {
		case nameInputs == 0 && carryingCapActive:
			// post-fork direct registration, no prior name_new required.
		case nameInputs == 1 && prevOp == script.NameOpNew:
			if height-prevHeight < 2 {
				return ruleError(ErrNameRuleViolation, "name_firstupdate commitment is not old enough")
			}
			if !bytes.Equal(prevHash, nameCommitment(keys.Hash160, newParsed.Name, newParsed.Rand)) {
				return ruleError(ErrNameRuleViolation, "name_firstupdate does not match its name_new commitment")
			}
		default:
			return ruleError(ErrNameRuleViolation, "name_firstupdate does not follow a valid name_new")
		}

	case script.NameOpUpdate:
		if nameInputs != 1 || (prevOp != script.NameOpFirstUpdate && prevOp != script.NameOpUpdate) {
			return ruleError(ErrNameRuleViolation, "name_update does not follow a registered name")
		}
		// Pre-life-steal fork the locked coin amount had to match exactly;
		// afterwards it only has to not decrease (original_source/huntercoin.cpp
		// ConnectInputsHook's OP_NAME_UPDATE case).
		lifeStealActive := params.Forks.Active(height, params.Forks.LifeSteal)
		if !lifeStealActive && newAmount != prevAmount {
			return ruleError(ErrNameRuleViolation, "name_update tx locks an incorrect amount of coin")
		}
		if newAmount < prevAmount {
			return ruleError(ErrNameRuleViolation, "locked coin amount decreased in name_update tx")
		}

	default:
		return ruleError(ErrNameRuleViolation, "unrecognized name operation")
	}

	return nil
}

func spendInputs(storeTx *storage.Tx, tx *wire.MsgTx) error {
	for _, in := range tx.TxIn {
		if err := utxo.RemoveUtxo(storeTx, in.PreviousOutpoint); err != nil {
			return err
		}
	}
	return nil
}

func creditOutputs(storeTx *storage.Tx, tx *wire.MsgTx, height int32, txIndex uint32, isCoinbase, isGameTx bool, _ NameLookup) error {
	txid := tx.TxHash()
	for i, out := range tx.TxOut {
		if utxo.IsUnspendable(out.PkScript) {
			continue
		}
		op := wire.Outpoint{TxID: txid, Index: uint32(i)}
		entry := utxo.Entry{TxOut: *out, Height: height, IsCoinbase: isCoinbase, IsGameTx: isGameTx}
		if err := utxo.InsertUtxo(storeTx, op, entry); err != nil {
			return err
		}
	}
	return nil
}

func recordNameOp(storeTx *storage.Tx, tx *wire.MsgTx, height int32, txIndex uint32) error {
	for i, out := range tx.TxOut {
		parsed, ok := script.ParseNameScript(out.PkScript)
		if !ok || parsed.Op == script.NameOpNew {
			continue
		}
		entry := nameindex.Entry{
			Height: height,
			Value:  parsed.Value,
			TxPos: nameindex.BlockPointer{
				BlockHeight: height,
				TxIndex:     txIndex,
				OutIndex:    uint32(i),
			},
		}
		if err := nameindex.PushEntry(storeTx, parsed.Name, entry); err != nil {
			return err
		}
	}
	return nil
}
