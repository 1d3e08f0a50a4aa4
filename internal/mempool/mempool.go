package mempool

import (
	"math"
	"sync"
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/consensus"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/step"
	"github.com/chronokings/huntercoin-sub000/internal/logger"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// minRelayTxFee is the base fee rate used by GetMinFee's fForRelay=true
// path (spec §4.8), named after the original's MIN_RELAY_TX_FEE.
const minRelayTxFee = 10_000 // 0.0001 coin

// cent is the dust-output threshold below which a transaction must pay an
// extra minRelayTxFee (spec §4.8's "require MIN_TX_FEE/MIN_RELAY_TX_FEE for
// any output less than 0.01").
const cent = 1_000_000

// freeRelayLimit is the decaying free-transaction budget, in bytes per
// minute, enforced by the token-bucket rate limiter below (spec §4.8:
// "bucket size 60·10·1000 bytes/minute").
const freeRelayLimit = 60 * 10 * 1000

// freeRelayDecayPerSecond is the exponential decay factor the bucket shrinks
// by every elapsed second (spec §4.8: "decaying as pow(1 - 1/600, Δt)").
const freeRelayDecayPerSecond = 1.0 - 1.0/600.0

// Entry is one pending transaction's pool bookkeeping.
type Entry struct {
	Tx       *wire.MsgTx
	Fee      int64
	Size     int
	Received time.Time
}

// Pool holds every currently-accepted pending transaction plus the reverse
// index from spent outpoint to its spender, the structure spec §4.8 and
// §9's reorg resurrection both need (spec: "Map txid -> Transaction plus
// prevout -> (tx, inputIdx) reverse index").
type Pool struct {
	mu sync.Mutex

	db     *storage.DB
	params *chaincfg.Params

	txs       map[chainhash.Hash]*Entry
	spentBy   map[wire.Outpoint]chainhash.Hash

	freeCount    float64
	freeLastTime time.Time

	// nowFunc is overridden in tests; production code always wants
	// wall-clock time.
	nowFunc func() time.Time
}

// New returns an empty pool backed by db for UTXO/name lookups.
func New(db *storage.DB, params *chaincfg.Params) *Pool {
	return &Pool{
		db:      db,
		params:  params,
		txs:     make(map[chainhash.Hash]*Entry),
		spentBy: make(map[wire.Outpoint]chainhash.Hash),
		nowFunc: time.Now,
	}
}

// Has reports whether txid is already in the pool.
func (p *Pool) Has(txid chainhash.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.txs[txid]
	return ok
}

// txSigOps counts signature operations across every input and output
// script (spec §4.2/§4.8), matching the sig-op accounting CheckBlockSanity
// already applies per transaction.
func txSigOps(tx *wire.MsgTx) int {
	n := 0
	for _, in := range tx.TxIn {
		n += script.CountSigOps(in.SignatureScript)
	}
	for _, out := range tx.TxOut {
		n += script.CountSigOps(out.PkScript)
	}
	return n
}

// getMinFee computes the minimum fee a tx of this size must pay to be
// relayed (spec §4.8's `GetMinFee(1000, fAllowFree=true, fForRelay=true)`),
// folding in the name_update mandatory fee and the dust-output fee bump.
func getMinFee(tx *wire.MsgTx, size int) int64 {
	minFee := (1 + int64(size)/1000) * minRelayTxFee
	if size < 1000 {
		minFee = 0
	}

	for _, out := range tx.TxOut {
		if parsed, ok := script.ParseNameScript(out.PkScript); ok && parsed.Op == script.NameOpUpdate {
			if updateFee := chaincfg.NameUpdateMinFee(len(parsed.Value)); minFee < updateFee {
				minFee = updateFee
			}
		}
	}

	for _, out := range tx.TxOut {
		if out.Value < cent {
			minFee += minRelayTxFee
		}
	}
	return minFee
}

// AcceptToMemoryPool validates tx against the pool and the chain's current
// state at height/gameState and, if it passes, admits it (spec §4.8).
func (p *Pool) AcceptToMemoryPool(tx *wire.MsgTx, height int32, gameState *state.GameState) error {
	if tx.IsCoinBase() {
		return errCoinbase
	}
	if tx.IsGameTx() {
		return errGameTx
	}

	if err := consensus.CheckTransaction(tx); err != nil {
		return err
	}

	size := tx.SerializeSize()
	if txSigOps(tx) > size/34 || size < chaincfg.MinTxSize {
		return errNonStandardSize
	}
	for _, out := range tx.TxOut {
		if !script.IsStandardOutput(out.Value, out.PkScript) {
			return errNonStandardScript
		}
	}

	txid := tx.TxHash()

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, known := p.txs[txid]; known {
		return errAlreadyKnown
	}

	// No replace-by-fee: any input already claimed by a pending entry kills
	// the new transaction outright (spec §4.8: "Rejects any tx that would
	// replace an existing mempool entry (no RBF)").
	for _, in := range tx.TxIn {
		if _, conflict := p.spentBy[in.PreviousOutpoint]; conflict {
			return errConflict
		}
	}

	var move *step.Move
	for _, out := range tx.TxOut {
		parsed, ok := script.ParseNameScript(out.PkScript)
		if !ok || (parsed.Op != script.NameOpUpdate && parsed.Op != script.NameOpFirstUpdate) {
			continue
		}
		player := state.PlayerID(parsed.Name)
		if !step.IsValidPlayerName(player) {
			continue
		}
		m, err := step.ParseMove(player, parsed.Value)
		if err != nil {
			return consensus.NewRuleError(consensus.ErrInvalidMove, err.Error())
		}
		move = m
		break
	}
	if move != nil && !step.IsMoveValid(move, gameState) {
		return errMoveInvalid
	}

	var fee int64
	err := p.db.View(func(storeTx *storage.Tx) error {
		lookup := func(op wire.Outpoint) (*utxo.Entry, error) {
			return utxo.ReadUtxo(storeTx, op)
		}
		nameLookup := func(name []byte) (*nameindex.Entry, error) {
			return nameindex.ReadName(storeTx, name)
		}
		f, cerr := consensus.ConnectInputs(nil, p.params, tx, height, 0, lookup, nameLookup, false)
		if cerr != nil {
			return cerr
		}
		fee = f
		return nil
	})
	if err != nil {
		return err
	}

	if fee < getMinFee(tx, size) {
		return errInsufficientFee
	}

	if fee < minRelayTxFee {
		if err := p.chargeFreeBudget(size); err != nil {
			return err
		}
	}

	entry := &Entry{Tx: tx, Fee: fee, Size: size, Received: p.now()}
	p.txs[txid] = entry
	for _, in := range tx.TxIn {
		p.spentBy[in.PreviousOutpoint] = txid
	}

	logger.Mempool.Debug().Str("txid", txid.String()).Int64("fee", fee).Msg("accepted transaction")
	return nil
}

func (p *Pool) now() time.Time {
	if p.nowFunc != nil {
		return p.nowFunc()
	}
	return time.Now()
}

// chargeFreeBudget enforces the token-bucket free-transaction rate limiter
// (spec §4.8): the bucket decays exponentially toward zero, the transaction
// is rejected if the decayed bucket already exceeds the per-minute budget,
// and otherwise its size is added to the bucket.
func (p *Pool) chargeFreeBudget(size int) error {
	now := p.now()
	if !p.freeLastTime.IsZero() {
		elapsed := now.Sub(p.freeLastTime).Seconds()
		if elapsed > 0 {
			p.freeCount *= math.Pow(freeRelayDecayPerSecond, elapsed)
		}
	}
	p.freeLastTime = now

	if p.freeCount > freeRelayLimit {
		return errRateLimited
	}
	p.freeCount += float64(size)
	return nil
}

// Remove deletes txid from the pool, releasing the outpoints it claimed.
func (p *Pool) Remove(txid chainhash.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(txid)
}

func (p *Pool) removeLocked(txid chainhash.Hash) {
	entry, ok := p.txs[txid]
	if !ok {
		return
	}
	for _, in := range entry.Tx.TxIn {
		if p.spentBy[in.PreviousOutpoint] == txid {
			delete(p.spentBy, in.PreviousOutpoint)
		}
	}
	delete(p.txs, txid)
}

// RemoveConflicts evicts every pool entry that spends one of block's
// outpoints, the step a newly connected block's transactions require
// (spec §4.6 reorg note: "transactions in newly connected blocks plus any
// mempool entries that would be double-spends of them are removed").
func (p *Pool) RemoveConflicts(block *wire.MsgBlock) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, tx := range block.Transactions {
		txid := tx.TxHash()
		if _, inPool := p.txs[txid]; inPool {
			p.removeLocked(txid)
		}
		for _, in := range tx.TxIn {
			if spender, ok := p.spentBy[in.PreviousOutpoint]; ok {
				p.removeLocked(spender)
			}
		}
	}
}

// Resurrect re-queues every transaction from a disconnected block for
// re-acceptance, the counterpart spec §4.6's reorg note describes
// ("Mempool transactions from disconnected blocks are queued for
// reinsertion"). The caller re-validates each via AcceptToMemoryPool at the
// post-reorg height and game state; a transaction that the new chain
// already mined or that no longer validates is simply dropped.
func Resurrect(block *wire.MsgBlock) []*wire.MsgTx {
	txs := make([]*wire.MsgTx, 0, len(block.Transactions)-1)
	for _, tx := range block.Transactions {
		if tx.IsCoinBase() || tx.IsGameTx() {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

// Get returns the pending entry for txid, or nil if absent.
func (p *Pool) Get(txid chainhash.Hash) *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.txs[txid]
}

// Size returns the number of pending transactions.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

// Entries returns every currently pending entry, the data name_pending's
// RPC walks for name-operation outputs.
func (p *Pool) Entries() []*Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Entry, 0, len(p.txs))
	for _, e := range p.txs {
		out = append(out, e)
	}
	return out
}
