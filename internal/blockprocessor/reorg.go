package blockprocessor

import (
	"github.com/chronokings/huntercoin-sub000/internal/blockstore"
	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
	"github.com/chronokings/huntercoin-sub000/internal/game/gamedb"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/mempool"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// commonAncestor finds the most recent block both a and b descend from,
// equalizing heights before walking both chains back in lockstep (spec §9).
func commonAncestor(idx *chainindex.Index, a, b chainindex.ID) (chainindex.ID, bool) {
	nodeA, okA := idx.Node(a)
	nodeB, okB := idx.Node(b)
	if !okA || !okB {
		return 0, false
	}

	for nodeA.Height > nodeB.Height {
		prev, ok := idx.Prev(a)
		if !ok {
			return 0, false
		}
		a = prev
		nodeA, _ = idx.Node(a)
	}
	for nodeB.Height > nodeA.Height {
		prev, ok := idx.Prev(b)
		if !ok {
			return 0, false
		}
		b = prev
		nodeB, _ = idx.Node(b)
	}

	for a != b {
		prevA, okA := idx.Prev(a)
		prevB, okB := idx.Prev(b)
		if !okA || !okB {
			return 0, false
		}
		a, b = prevA, prevB
	}
	return a, true
}

// reorganizeTo makes newID the best chain tip: disconnect from the current
// tip down to the fork point, then connect from the fork point up to newID
// (spec §9's reorg algorithm, which also covers the degenerate case of a
// pure single-block extension where the disconnect path is empty). The
// whole sequence commits or rolls back as one storage.DB.Update, so a
// connect failure partway through a multi-block reorg leaves every store
// exactly as it was before reorganizeTo was called.
func (p *Processor) reorganizeTo(newID chainindex.ID) error {
	oldTip := p.index.Tip()
	fork, ok := commonAncestor(p.index, oldTip, newID)
	if !ok {
		return errBrokenChain
	}

	var disconnectIDs []chainindex.ID
	for cur := oldTip; cur != fork; {
		disconnectIDs = append(disconnectIDs, cur)
		prev, ok := p.index.Prev(cur)
		if !ok {
			return errBrokenChain
		}
		cur = prev
	}

	var connectIDs []chainindex.ID
	for cur := newID; cur != fork; {
		connectIDs = append(connectIDs, cur)
		prev, ok := p.index.Prev(cur)
		if !ok {
			return errBrokenChain
		}
		cur = prev
	}
	for i, j := 0, len(connectIDs)-1; i < j; i, j = i+1, j-1 {
		connectIDs[i], connectIDs[j] = connectIDs[j], connectIDs[i]
	}

	var resurrected []*wire.MsgTx
	var newTipState *state.GameState

	err := p.db.Update(func(tx *storage.Tx) error {
		for _, id := range disconnectIDs {
			node, _ := p.index.Node(id)
			block, err := blockstore.ReadBlock(tx, node.Hash)
			if err != nil {
				return err
			}
			if err := DisconnectBlock(tx, node.Height); err != nil {
				return err
			}
			if err := blockstore.DeleteHeightHash(tx, node.Height); err != nil {
				return err
			}
			resurrected = append(resurrected, mempool.Resurrect(block)...)
		}

		var lastHeight int32
		for _, id := range connectIDs {
			node, _ := p.index.Node(id)
			block, err := blockstore.ReadBlock(tx, node.Hash)
			if err != nil {
				return err
			}
			if _, err := ConnectBlock(tx, p.params, block, node.Height, node.Hash); err != nil {
				return err
			}
			if err := blockstore.SetHeightHash(tx, node.Height, node.Hash); err != nil {
				return err
			}
			if p.pool != nil {
				p.pool.RemoveConflicts(block)
			}
			lastHeight = node.Height
		}

		if (p.pool != nil || p.onConnect != nil) && len(connectIDs) > 0 {
			gs, err := gamedb.ReadState(tx, lastHeight)
			if err != nil {
				return err
			}
			newTipState = gs
		}
		return nil
	})

	if err != nil {
		if work, ok := p.index.ChainWork(newID); ok && work.Cmp(p.bestInvalidWork) > 0 {
			p.bestInvalidWork = work
		}
		return err
	}

	if setErr := p.index.SetBestChainTip(newID); setErr != nil {
		return setErr
	}

	if newTipState != nil {
		newHeight, _ := p.index.Node(newID)
		if p.pool != nil {
			for _, tx := range resurrected {
				_ = p.pool.AcceptToMemoryPool(tx, newHeight.Height, newTipState)
			}
		}
		if p.onConnect != nil {
			p.onConnect(&newHeight.Hash, newTipState)
		}
	}
	return nil
}
