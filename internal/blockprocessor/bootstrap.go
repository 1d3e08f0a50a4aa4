package blockprocessor

import (
	"github.com/chronokings/huntercoin-sub000/internal/blockstore"
	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
)

// LoadIndex rebuilds the in-memory chain index from durable storage on
// startup (spec §5's blockstore doc note): it seeds the genesis block, then
// walks the height-to-hash mapping blockstore.SetHeightHash recorded for
// every previously connected block, re-adding each in order. Only the best
// chain as it stood at the last clean shutdown is recovered this way; any
// side-branch blocks that were indexed but never connected are not replayed
// and would need to be re-delivered by a peer to be considered again.
func LoadIndex(db *storage.DB, params *chaincfg.Params) (*chainindex.Index, error) {
	idx := chainindex.New()
	genesisID := idx.AddGenesis(params.GenesisBlock.Header, params.GenesisHash)

	tip := genesisID
	err := db.View(func(tx *storage.Tx) error {
		prevID := genesisID
		for height := int32(1); ; height++ {
			hash, err := blockstore.HeightHash(tx, height)
			if err == storage.ErrNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			block, err := blockstore.ReadBlock(tx, hash)
			if err != nil {
				return err
			}
			id, err := idx.AddNode(block.Header, hash, prevID)
			if err != nil {
				return err
			}
			prevID = id
			tip = id
		}
	})
	if err != nil {
		return nil, err
	}

	if err := idx.SetBestChainTip(tip); err != nil {
		return nil, err
	}
	return idx, nil
}
