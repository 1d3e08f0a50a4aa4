package blockprocessor

import (
	"math/big"
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/blockstore"
	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
	"github.com/chronokings/huntercoin-sub000/internal/consensus"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/logger"
	"github.com/chronokings/huntercoin-sub000/internal/mempool"
	"github.com/chronokings/huntercoin-sub000/internal/pow"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// parentTimestampTolerance bounds how far behind its parent a block's
// timestamp may fall: the original's `2*30*60` second grace window, distinct
// from (and tighter than) the 11-block median-time-past floor.
const parentTimestampTolerance = 2 * 30 * 60 * time.Second

// Processor owns the chain index and drives block acceptance, connection and
// reorg against the shared storage environment (spec §4.6, §4.7, §9).
type Processor struct {
	db     *storage.DB
	params *chaincfg.Params
	index  *chainindex.Index

	// pool is notified of every block this Processor connects or
	// disconnects, so its pending set always reflects the current best
	// chain (spec §4.6's reorg note). May be nil, in which case mempool
	// bookkeeping is skipped entirely (e.g. in tests that only exercise
	// chain state).
	pool *mempool.Pool

	// bestInvalidWork is the highest chain work ever seen on a branch that
	// failed to connect (spec §9). It is recorded on each failed reorg;
	// nothing in this package reads it back, so it does not change which
	// branches are tried.
	bestInvalidWork *big.Int

	// onConnect, if set, is called with the new tip's game state every time
	// reorganizeTo moves the best chain tip. game_waitforchange's long-poll
	// subscribes through this hook rather than polling the index (spec §6's
	// "coroutine / condition variable" note).
	onConnect func(*chainhash.Hash, *state.GameState)
}

// SetOnConnect installs fn as the tip-change notifier. Must be called before
// the Processor starts accepting blocks; not safe for concurrent use with
// ProcessBlock.
func (p *Processor) SetOnConnect(fn func(*chainhash.Hash, *state.GameState)) {
	p.onConnect = fn
}

// New returns a Processor driving db under params, with index already
// populated up to the current best chain tip. pool may be nil.
func New(db *storage.DB, params *chaincfg.Params, index *chainindex.Index, pool *mempool.Pool) *Processor {
	return &Processor{
		db:              db,
		params:          params,
		index:           index,
		pool:            pool,
		bestInvalidWork: big.NewInt(0),
	}
}

// ProcessBlock validates block, indexes it, persists its body, and — if it
// extends or outweighs the current best chain — connects it (spec §4.6). A
// block that is merely sane but on a weaker branch is still indexed and
// stored so a later block can extend it into a winning reorg.
func (p *Processor) ProcessBlock(block *wire.MsgBlock, now time.Time) error {
	if err := CheckBlockSanity(block, p.params, now); err != nil {
		return err
	}

	hash, err := block.BlockHash()
	if err != nil {
		return consensus.NewRuleError(consensus.ErrBadProofOfWork, "block header does not hash")
	}
	if _, known := p.index.Lookup(hash); known {
		return nil
	}

	prevID, ok := p.index.Lookup(block.Header.PrevBlock)
	if !ok {
		return errOrphanBlock
	}
	prevNode, _ := p.index.Node(prevID)
	height := prevNode.Height + 1

	if err := p.checkContextual(&block.Header, prevID, prevNode, height); err != nil {
		return err
	}

	id, err := p.index.AddNode(block.Header, hash, prevID)
	if err != nil {
		return err
	}

	if err := p.db.Update(func(tx *storage.Tx) error {
		return blockstore.StoreBlock(tx, hash, block)
	}); err != nil {
		return err
	}

	if !p.index.IsStrongerThan(id, p.index.Tip()) {
		logger.Chain.Debug().Str("hash", hash.String()).Int32("height", height).
			Msg("indexed block on a side branch")
		return nil
	}

	return p.reorganizeTo(id)
}

// checkContextual enforces the block-acceptance rules that need the parent's
// position in the chain index rather than just the header itself (spec
// §4.6): median-time-past, the tighter parent-timestamp floor, and the
// per-algorithm difficulty retarget.
func (p *Processor) checkContextual(header *wire.BlockHeader, prevID chainindex.ID, prevNode chainindex.Node, height int32) error {
	medianTime := pow.CalcMedianTimePast(p.index, prevID)
	if !header.Timestamp.After(medianTime) {
		return consensus.NewRuleError(consensus.ErrBadTimestamp, "block timestamp is not later than the median of the last 11 blocks")
	}
	if header.Timestamp.Before(prevNode.Header.Timestamp.Add(-parentTimestampTolerance)) {
		return consensus.NewRuleError(consensus.ErrBadTimestamp, "block timestamp is too far behind its parent")
	}

	expectedBits := pow.CalcNextRequiredDifficulty(p.index, p.params, prevID, header.Algo())
	if header.Bits != expectedBits {
		return consensus.NewRuleError(consensus.ErrBadProofOfWork, "block does not carry the required difficulty")
	}

	return nil
}

// blockAtHeight resolves the best-chain block hash recorded at height.
func blockAtHeight(tx *storage.Tx, height int32) (chainhash.Hash, error) {
	return blockstore.HeightHash(tx, height)
}

// readBlockHash fetches the full block body stored under hash.
func readBlockHash(tx *storage.Tx, hash chainhash.Hash) (*wire.MsgBlock, error) {
	return blockstore.ReadBlock(tx, hash)
}
