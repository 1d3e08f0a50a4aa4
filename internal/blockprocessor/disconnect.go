package blockprocessor

import (
	"github.com/chronokings/huntercoin-sub000/internal/game/gamedb"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/undo"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
)

// DisconnectBlock reverses everything ConnectBlock did at height, using the
// undo record it wrote (spec §5): every spent output is reinserted, every
// output this block created is removed, every name-history entry it pushed
// is popped, and the game-state snapshot at this height is dropped. The
// snapshot at height-1, which gamedb already holds, becomes the chain's game
// state again without any replay.
func DisconnectBlock(storeTx *storage.Tx, height int32) error {
	blockUndo, err := undo.Read(storeTx, height)
	if err != nil {
		return err
	}
	if blockUndo == nil {
		return errMissingUndoRecord
	}

	for _, spent := range blockUndo.Spent {
		if err := utxo.InsertUtxo(storeTx, spent.Outpoint, spent.Entry); err != nil && err != utxo.ErrAlreadyExists {
			return err
		}
	}

	for _, op := range blockUndo.CreatedTxids {
		if err := utxo.RemoveUtxo(storeTx, op); err != nil && err != utxo.ErrNotFound {
			return err
		}
	}

	for _, nw := range blockUndo.NameWrites {
		if err := nameindex.PopEntry(storeTx, nw.Name, nw.Height); err != nil && err != nameindex.ErrNoSuchEntry {
			return err
		}
	}

	if err := gamedb.DeleteState(storeTx, height); err != nil {
		return err
	}
	return undo.Delete(storeTx, height)
}
