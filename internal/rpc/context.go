package rpc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/chainindex"
	"github.com/chronokings/huntercoin-sub000/internal/game/gamedb"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/mempool"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
)

// waitForChangeTimeout bounds how long game_waitforchange blocks before
// returning the current state anyway, so a client that disappears doesn't
// leak a subscriber forever.
const waitForChangeTimeout = 5 * time.Minute

// Context bundles everything a command handler needs to answer a request:
// storage, the chain index, the optional mempool, and the tip-change
// broadcaster game_waitforchange subscribes to.
type Context struct {
	DB     *storage.DB
	Params *chaincfg.Params
	Index  *chainindex.Index
	Pool   *mempool.Pool

	warmedUp int32

	mu          sync.Mutex
	subscribers map[uuid.UUID]chan tipChange
}

type tipChange struct {
	hash  chainhash.Hash
	state *state.GameState
}

// NewContext returns a Context in the not-yet-warmed-up state.
func NewContext(db *storage.DB, params *chaincfg.Params, index *chainindex.Index, pool *mempool.Pool) *Context {
	return &Context{
		DB:          db,
		Params:      params,
		Index:       index,
		Pool:        pool,
		subscribers: make(map[uuid.UUID]chan tipChange),
	}
}

// SetWarmedUp marks the node as done with initial sync; until this is
// called every handler answers with errWarmup.
func (c *Context) SetWarmedUp() {
	atomic.StoreInt32(&c.warmedUp, 1)
}

func (c *Context) isWarmedUp() bool {
	return atomic.LoadInt32(&c.warmedUp) != 0
}

// NotifyTipChanged is the hook blockprocessor.Processor.SetOnConnect is
// wired to: it wakes every game_waitforchange call currently blocked, the
// condition-variable behavior spec §6 describes.
func (c *Context) NotifyTipChanged(hash *chainhash.Hash, gs *state.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	change := tipChange{hash: *hash, state: gs}
	for id, ch := range c.subscribers {
		select {
		case ch <- change:
		default:
		}
		delete(c.subscribers, id)
	}
}

// waitForChange blocks until the tip changes away from lastHash, or until
// waitForChangeTimeout elapses, whichever comes first, then returns the
// current best-chain game state.
func (c *Context) waitForChange(lastHash chainhash.Hash) (*state.GameState, error) {
	id := uuid.New()
	ch := make(chan tipChange, 1)

	c.mu.Lock()
	c.subscribers[id] = ch
	c.mu.Unlock()

	select {
	case change := <-ch:
		if change.hash != lastHash {
			return change.state, nil
		}
	case <-time.After(waitForChangeTimeout):
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}

	return c.currentState()
}

func (c *Context) currentState() (*state.GameState, error) {
	tip := c.Index.Tip()
	node, ok := c.Index.Node(tip)
	if !ok {
		return state.New(), nil
	}
	return c.stateAtHeight(node.Height)
}

// errNoSuchSnapshot is returned for a height whose game-state snapshot was
// pruned (spec §3's KeepEveryNthState retention rule keeps only every
// chaincfg.KeepEveryNthState'th snapshot plus the tip) and that this node
// therefore cannot answer without replaying the chain, which this RPC layer
// does not attempt.
var errNoSuchSnapshot = NewHandlerError(404, "no game-state snapshot retained at that height")

// stateAtHeight reads the snapshot gamedb stored for height.
func (c *Context) stateAtHeight(height int32) (*state.GameState, error) {
	var gs *state.GameState
	err := c.DB.View(func(tx *storage.Tx) error {
		s, err := gamedb.ReadState(tx, height)
		if err != nil {
			return err
		}
		gs = s
		return nil
	})
	return gs, err
}
