// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/step"
	"github.com/chronokings/huntercoin-sub000/internal/keys"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// NameTxByPointer resolves the transaction a nameindex.BlockPointer refers
// to, the lookup CreateGameTransactions needs to find a killed player's
// last name-operation output and reward address.
type NameTxByPointer func(ptr nameindex.BlockPointer) (*wire.MsgTx, error)

var errNameTxNotFound = errors.New("consensus: referenced name transaction not found")

// CreateGameTransactions derives the block's game-transaction set from a
// step result (spec §4.5): a refund transaction for every killed player
// that spends their last name output back to their reward address (or the
// name address itself if none was set), followed by a payout transaction
// for every banking player, spending a null treasury prevout. Both groups
// are ordered by the deterministic (sorted) iteration order of their
// source maps.
func CreateGameTransactions(params *chaincfg.Params, prevState *state.GameState, result *step.Result, lookupName func(state.PlayerID) (*nameindex.Entry, error), lookupTx NameTxByPointer) ([]*wire.MsgTx, error) {
	var out []*wire.MsgTx

	killed := sortedKilled(result.KilledPlayers)
	for _, id := range killed {
		player, ok := prevState.Players[id]
		if !ok {
			continue
		}
		tx, err := refundTransaction(params, id, player, lookupName, lookupTx)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			out = append(out, tx)
		}
	}

	bankers := sortedBounties(result.Bounties)
	for _, id := range bankers {
		bounty := result.Bounties[id]
		player := prevState.Players[id]
		tx, err := payoutTransaction(params, id, player, bounty, lookupName, lookupTx)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}

	return out, nil
}

func sortedKilled(killed map[state.PlayerID]bool) []state.PlayerID {
	ids := make([]state.PlayerID, 0, len(killed))
	for id := range killed {
		ids = append(ids, id)
	}
	sortPlayerIDs(ids)
	return ids
}

func sortedBounties(bounties map[state.PlayerID]step.BountyInfo) []state.PlayerID {
	ids := make([]state.PlayerID, 0, len(bounties))
	for id := range bounties {
		ids = append(ids, id)
	}
	sortPlayerIDs(ids)
	return ids
}

func sortPlayerIDs(ids []state.PlayerID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// refundTransaction builds the game tx that returns a killed player's name
// coin (and carried loot was already drained into a death-loot drop by
// PerformStep, so only the name-commitment value itself is refunded here)
// to their reward address.
func refundTransaction(params *chaincfg.Params, id state.PlayerID, player *state.PlayerState, lookupName func(state.PlayerID) (*nameindex.Entry, error), lookupTx NameTxByPointer) (*wire.MsgTx, error) {
	entry, err := lookupName(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errNameTxNotFound
	}

	nameTx, err := lookupTx(entry.TxPos)
	if err != nil {
		return nil, err
	}
	if nameTx == nil || int(entry.TxPos.OutIndex) >= len(nameTx.TxOut) {
		return nil, errNameTxNotFound
	}
	spent := nameTx.TxOut[entry.TxPos.OutIndex]

	destScript, err := rewardScript(params, player, spent.PkScript)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.GameTxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutpoint: wire.Outpoint{TxID: nameTx.TxHash(), Index: entry.TxPos.OutIndex},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: spent.Value, PkScript: destScript})
	return tx, nil
}

// payoutTransaction builds the game tx that credits a banking player's
// bounty from the null-prevout treasury (spec §4.5).
func payoutTransaction(params *chaincfg.Params, id state.PlayerID, player *state.PlayerState, bounty step.BountyInfo, lookupName func(state.PlayerID) (*nameindex.Entry, error), lookupTx NameTxByPointer) (*wire.MsgTx, error) {
	destScript, err := rewardScriptForPlayer(params, player, lookupName, lookupTx, id)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.GameTxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutpoint: wire.Outpoint{}, // null: treasury credit
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: bounty.Amount, PkScript: destScript})
	return tx, nil
}

// rewardScript resolves where a refund should be paid: the player's
// rewardAddress if set, otherwise the name output's own standard script.
func rewardScript(params *chaincfg.Params, player *state.PlayerState, nameScript []byte) ([]byte, error) {
	if player != nil && player.RewardAddr != "" {
		return addressScript(params, player.RewardAddr)
	}
	if parsed, ok := script.ParseNameScript(nameScript); ok {
		return parsed.StandardScript, nil
	}
	return nameScript, nil
}

func rewardScriptForPlayer(params *chaincfg.Params, player *state.PlayerState, lookupName func(state.PlayerID) (*nameindex.Entry, error), lookupTx NameTxByPointer, id state.PlayerID) ([]byte, error) {
	if player != nil && player.RewardAddr != "" {
		return addressScript(params, player.RewardAddr)
	}
	entry, err := lookupName(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errNameTxNotFound
	}
	nameTx, err := lookupTx(entry.TxPos)
	if err != nil {
		return nil, err
	}
	if nameTx == nil || int(entry.TxPos.OutIndex) >= len(nameTx.TxOut) {
		return nil, errNameTxNotFound
	}
	if parsed, ok := script.ParseNameScript(nameTx.TxOut[entry.TxPos.OutIndex].PkScript); ok {
		return parsed.StandardScript, nil
	}
	return nil, errNameTxNotFound
}

func addressScript(params *chaincfg.Params, addr string) ([]byte, error) {
	a, err := keys.DecodeAddress(addr, params.PubKeyHashAddrID)
	if err != nil {
		return nil, err
	}
	return a.PayToAddrScript(), nil
}

// ConnectInputsGameTx applies one derived game transaction's effects (spec
// §4.6 step 5): for a refund tx, mark the spent name as dead in the name
// index; credit the UTXO set with every output either way. Game
// transactions are never subject to script verification or fees — they are
// produced only by this engine's own step function.
func ConnectInputsGameTx(storeTx *storage.Tx, tx *wire.MsgTx, height int32, deadName []byte) error {
	if len(deadName) > 0 {
		if err := nameindex.PushEntry(storeTx, deadName, nameindex.Entry{
			Height: height,
			Value:  []byte(chaincfg.DeadMarker),
		}); err != nil {
			return err
		}
	}

	for _, in := range tx.TxIn {
		if in.PreviousOutpoint.IsNull() {
			continue
		}
		if err := utxo.RemoveUtxo(storeTx, in.PreviousOutpoint); err != nil && err != utxo.ErrNotFound {
			return err
		}
	}

	txid := tx.TxHash()
	for i, out := range tx.TxOut {
		op := wire.Outpoint{TxID: txid, Index: uint32(i)}
		entry := utxo.Entry{TxOut: *out, Height: height, IsCoinbase: false, IsGameTx: true}
		if err := utxo.InsertUtxo(storeTx, op, entry); err != nil {
			return err
		}
	}
	return nil
}
