package blockprocessor

import (
	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/consensus"
	"github.com/chronokings/huntercoin-sub000/internal/game/gamedb"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/step"
	"github.com/chronokings/huntercoin-sub000/internal/merkle"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/undo"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// ConnectBlock applies block's full effect at height atop the state already
// committed in storeTx: every ordinary transaction (C3, via ConnectInputs),
// the game step (C9) it implies, and the game transactions (C3) that step
// derives (spec §4.6). The caller must already have passed block through
// CheckBlockSanity and checkContextual; ConnectBlock assumes the block is
// otherwise well-formed and only enforces the checks that need chain state:
// the derived game merkle root and the coinbase value bound.
//
// storeTx must belong to a storage.DB.Update call so a failure here rolls
// back every write this function made.
func ConnectBlock(storeTx *storage.Tx, params *chaincfg.Params, block *wire.MsgBlock, height int32, blockHash chainhash.Hash) (*state.GameState, error) {
	prevState, err := gamedb.ReadState(storeTx, height-1)
	if err != nil {
		return nil, err
	}
	if prevState == nil {
		return nil, errMissingGameState
	}

	blockUndo := &undo.BlockUndo{}

	lookup := func(op wire.Outpoint) (*utxo.Entry, error) {
		entry, lerr := utxo.ReadUtxo(storeTx, op)
		if lerr != nil {
			return nil, lerr
		}
		blockUndo.Spent = append(blockUndo.Spent, undo.SpentOutput{Outpoint: op, Entry: *entry})
		return entry, nil
	}
	nameLookup := func(name []byte) (*nameindex.Entry, error) {
		return nameindex.ReadName(storeTx, name)
	}

	var totalFees int64
	for i, tx := range block.Transactions {
		fee, cerr := consensus.ConnectInputs(storeTx, params, tx, height, uint32(i), lookup, nameLookup, true)
		if cerr != nil {
			return nil, cerr
		}
		totalFees += fee
		recordCreatedOutputs(blockUndo, tx)
		recordNameWrites(blockUndo, tx, height)
	}

	moves, err := extractMoves(block)
	if err != nil {
		return nil, err
	}

	subsidy := chaincfg.GetBlockValue(params, height, 0)
	treasureAmount := subsidy * (chaincfg.MinerSubsidyFraction - 1)

	newState, result, err := step.PerformStep(prevState, step.Data{
		NameCoinAmount: chaincfg.NameCoinAmount,
		TreasureAmount: treasureAmount,
		NewHash:        blockHash,
		Moves:          moves,
	}, params.Forks)
	if err != nil {
		return nil, consensus.NewRuleError(consensus.ErrInvalidMove, err.Error())
	}

	lookupName := func(id state.PlayerID) (*nameindex.Entry, error) {
		return nameindex.ReadName(storeTx, []byte(id))
	}
	lookupTx := func(ptr nameindex.BlockPointer) (*wire.MsgTx, error) {
		hash, herr := blockAtHeight(storeTx, ptr.BlockHeight)
		if herr != nil {
			return nil, herr
		}
		nameTxBlock, rerr := readBlockHash(storeTx, hash)
		if rerr != nil {
			return nil, rerr
		}
		if int(ptr.TxIndex) >= len(nameTxBlock.Transactions) {
			return nil, errBrokenChain
		}
		return nameTxBlock.Transactions[ptr.TxIndex], nil
	}

	gameTxs, err := consensus.CreateGameTransactions(params, prevState, result, lookupName, lookupTx)
	if err != nil {
		return nil, err
	}

	refundIDs := make([]state.PlayerID, 0, len(result.KilledPlayers))
	for _, id := range sortedPlayerIDs(result.KilledPlayers) {
		if _, ok := prevState.Players[id]; ok {
			refundIDs = append(refundIDs, id)
		}
	}

	for i, gtx := range gameTxs {
		var deadName []byte
		if i < len(refundIDs) {
			deadName = []byte(refundIDs[i])
		}

		for _, in := range gtx.TxIn {
			if in.PreviousOutpoint.IsNull() {
				continue
			}
			entry, rerr := utxo.ReadUtxo(storeTx, in.PreviousOutpoint)
			if rerr != nil {
				return nil, rerr
			}
			blockUndo.Spent = append(blockUndo.Spent, undo.SpentOutput{Outpoint: in.PreviousOutpoint, Entry: *entry})
		}

		if err := consensus.ConnectInputsGameTx(storeTx, gtx, height, deadName); err != nil {
			return nil, err
		}
		recordCreatedOutputs(blockUndo, gtx)
		if len(deadName) > 0 {
			blockUndo.NameWrites = append(blockUndo.NameWrites, undo.NameWrite{Name: deadName, Height: height})
		}
	}

	gameLeaves := make([]chainhash.Hash, len(gameTxs))
	for i, gtx := range gameTxs {
		gameLeaves[i] = gtx.TxHash()
	}
	if merkle.Root(gameLeaves) != block.Header.GameMerkleRoot {
		return nil, consensus.NewRuleError(consensus.ErrBadGameMerkleRoot, "derived game merkle root does not match the header")
	}

	var coinbaseValue int64
	for _, out := range block.Transactions[0].TxOut {
		coinbaseValue += out.Value
	}
	if maxReward := chaincfg.GetBlockValue(params, height, totalFees+result.TaxAmount); coinbaseValue > maxReward {
		return nil, consensus.NewRuleError(consensus.ErrBadBlockReward, "coinbase claims more than the allowed block reward")
	}

	if err := gamedb.WriteState(storeTx, newState); err != nil {
		return nil, err
	}
	if err := undo.Write(storeTx, height, blockUndo); err != nil {
		return nil, err
	}

	return newState, nil
}

// recordCreatedOutputs appends every spendable output tx creates to undo's
// CreatedTxids list (spec §5's disconnect needing to know what to remove).
func recordCreatedOutputs(u *undo.BlockUndo, tx *wire.MsgTx) {
	txid := tx.TxHash()
	for i, out := range tx.TxOut {
		if utxo.IsUnspendable(out.PkScript) {
			continue
		}
		u.CreatedTxids = append(u.CreatedTxids, wire.Outpoint{TxID: txid, Index: uint32(i)})
	}
}

// recordNameWrites mirrors consensus's unexported recordNameOp so the undo
// log can pop the same history entries ConnectInputs pushed.
func recordNameWrites(u *undo.BlockUndo, tx *wire.MsgTx, height int32) {
	for _, out := range tx.TxOut {
		parsed, ok := script.ParseNameScript(out.PkScript)
		if !ok || parsed.Op == script.NameOpNew {
			continue
		}
		u.NameWrites = append(u.NameWrites, undo.NameWrite{Name: parsed.Name, Height: height})
	}
}

// sortedPlayerIDs returns ids in the same deterministic order
// consensus.CreateGameTransactions iterates a killed-player set in, needed
// to pair each derived refund transaction with the name it marks dead.
func sortedPlayerIDs(ids map[state.PlayerID]bool) []state.PlayerID {
	out := make([]state.PlayerID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
