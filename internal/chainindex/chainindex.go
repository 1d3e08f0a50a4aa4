// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainindex implements C7: the in-memory index of every known
// block header, the best-chain pointer, and accumulated chain work used to
// pick between competing chains (spec §9).
package chainindex

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// ID names a node's slot in the index's arena. The zero value never refers
// to a real node.
type ID uint32

const noID ID = 0

// Node is one entry in the block tree: a header plus the bookkeeping the
// chain-selection and height-lookup algorithms need (spec §9's CBlockIndex
// analog, rewritten as an arena of IDs instead of raw pointers).
type Node struct {
	Hash   chainhash.Hash
	Header wire.BlockHeader
	Height int32

	prev ID
	next ID

	// work is this node's own proof-of-work contribution: 2^256/(target+1),
	// left-shifted by 12 for scrypt blocks to express the assumed
	// scrypt-to-SHA256d difficulty ratio.
	work *big.Int

	// chainWork is the cumulative work of the chain ending at this node.
	chainWork *big.Int
}

// Index is the arena of every known block, addressable by hash or by ID.
// It is not safe for concurrent use without external locking, matching the
// single-writer discipline the rest of this module follows around
// *storage.DB transactions.
type Index struct {
	nodes   []Node
	byHash  map[chainhash.Hash]ID
	genesis ID
	best    ID

	lastHeightLookup ID
}

// New returns an empty index.
func New() *Index {
	return &Index{
		nodes:  make([]Node, 1), // slot 0 is reserved so the zero ID means "none"
		byHash: make(map[chainhash.Hash]ID),
	}
}

var errUnknownNode = errors.New("chainindex: unknown node")
var errAlreadyIndexed = errors.New("chainindex: block already indexed")

// AddGenesis inserts the genesis block as the root of the index and the
// initial best chain tip.
func (idx *Index) AddGenesis(header wire.BlockHeader, hash chainhash.Hash) ID {
	id := idx.addNode(header, hash, noID, 0)
	idx.genesis = id
	idx.best = id
	return id
}

// AddNode inserts header (whose hash is hash) as a child of prevID,
// computing its height and cumulative chain work. It returns
// errAlreadyIndexed if hash is already present and errUnknownNode if prevID
// does not exist.
func (idx *Index) AddNode(header wire.BlockHeader, hash chainhash.Hash, prevID ID) (ID, error) {
	if _, ok := idx.byHash[hash]; ok {
		return noID, errAlreadyIndexed
	}
	prev, ok := idx.node(prevID)
	if !ok {
		return noID, errUnknownNode
	}
	id := idx.addNode(header, hash, prevID, prev.Height+1)
	return id, nil
}

func (idx *Index) addNode(header wire.BlockHeader, hash chainhash.Hash, prevID ID, height int32) ID {
	work := blockWork(header)
	chainWork := new(big.Int).Set(work)
	if prevID != noID {
		chainWork.Add(chainWork, idx.nodes[prevID].chainWork)
	}

	idx.nodes = append(idx.nodes, Node{
		Hash:      hash,
		Header:    header,
		Height:    height,
		prev:      prevID,
		next:      noID,
		work:      work,
		chainWork: chainWork,
	})
	id := ID(len(idx.nodes) - 1)
	idx.byHash[hash] = id
	return id
}

func (idx *Index) node(id ID) (*Node, bool) {
	if id == noID || int(id) >= len(idx.nodes) {
		return nil, false
	}
	return &idx.nodes[id], true
}

// Lookup returns the ID of the node for hash, or false if unknown.
func (idx *Index) Lookup(hash chainhash.Hash) (ID, bool) {
	id, ok := idx.byHash[hash]
	return id, ok
}

// Node returns a copy of the node identified by id.
func (idx *Index) Node(id ID) (Node, bool) {
	n, ok := idx.node(id)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Prev returns the ID of id's parent, or noID if id is the genesis node or
// unknown.
func (idx *Index) Prev(id ID) (ID, bool) {
	n, ok := idx.node(id)
	if !ok {
		return noID, false
	}
	return n.prev, n.prev != noID
}

// Genesis returns the ID of the genesis node.
func (idx *Index) Genesis() ID {
	return idx.genesis
}

// Tip returns the ID of the current best-chain tip.
func (idx *Index) Tip() ID {
	return idx.best
}

// ChainWork returns the accumulated work of the chain ending at id.
func (idx *Index) ChainWork(id ID) (*big.Int, bool) {
	n, ok := idx.node(id)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(n.chainWork), true
}

// IsStrongerThan reports whether the chain ending at id has accumulated
// more work than the chain ending at other (spec §9's chain-selection rule).
func (idx *Index) IsStrongerThan(id ID, other ID) bool {
	a, okA := idx.node(id)
	b, okB := idx.node(other)
	if !okA || !okB {
		return false
	}
	return a.chainWork.Cmp(b.chainWork) > 0
}

// SetBestChainTip makes tip the best chain's tip, walking its ancestry back
// to genesis and pointing each ancestor's next at its child on that path.
// Nodes on an abandoned branch keep whatever next they had. Callers are
// responsible for actually connecting/disconnecting blocks in the UTXO and
// game-state stores; this only updates the index's bookkeeping once that
// succeeds.
func (idx *Index) SetBestChainTip(tip ID) error {
	if _, ok := idx.node(tip); !ok {
		return errUnknownNode
	}

	// Point next along the path from tip back to genesis; next pointers
	// off that path are not cleared.
	for cur := tip; cur != noID; {
		n, _ := idx.node(cur)
		if n.prev != noID {
			prevNode, _ := idx.node(n.prev)
			prevNode.next = cur
		}
		cur = n.prev
	}
	idx.best = tip
	idx.lastHeightLookup = noID
	return nil
}

// FindAncestor walks from id back to the ancestor at the given height. It
// returns noID if height is negative or greater than id's own height.
func (idx *Index) FindAncestor(id ID, height int32) (ID, bool) {
	n, ok := idx.node(id)
	if !ok || height < 0 || height > n.Height {
		return noID, false
	}
	for n.Height > height {
		if n.prev == noID {
			return noID, false
		}
		n, _ = idx.node(n.prev)
	}
	return idx.byHash[n.Hash], true
}

// FindBlockByHeight locates the node at the given height on the current
// best chain, using the original's "approach from the nearer of genesis,
// best tip, or last answer" heuristic (spec §9).
func (idx *Index) FindBlockByHeight(height int32) (ID, bool) {
	best, ok := idx.node(idx.best)
	if !ok {
		return noID, false
	}

	var cur ID
	if height < best.Height/2 {
		cur = idx.genesis
	} else {
		cur = idx.best
	}

	if idx.lastHeightLookup != noID {
		if last, ok := idx.node(idx.lastHeightLookup); ok {
			curNode, _ := idx.node(cur)
			if absInt32(height-last.Height) < absInt32(height-curNode.Height) {
				cur = idx.lastHeightLookup
			}
		}
	}

	n, ok := idx.node(cur)
	if !ok {
		return noID, false
	}
	for n.Height > height {
		if n.prev == noID {
			return noID, false
		}
		n, _ = idx.node(n.prev)
	}
	for n.Height < height {
		if n.next == noID {
			return noID, false
		}
		n, _ = idx.node(n.next)
	}
	idx.lastHeightLookup = idx.byHash[n.Hash]
	return idx.lastHeightLookup, true
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// blockWork computes 2^256/(target+1) for header's bits, applying the
// scrypt difficulty-ratio adjustment (spec §4.6, §6): scrypt blocks count
// 2^12 times their SHA256d-equivalent work, since scrypt is assumed to be
// twelve doublings harder to mine at the same compact target.
func blockWork(header wire.BlockHeader) *big.Int {
	target := compactToBig(header.Bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, big.NewInt(1))
	numerator := new(big.Int).Lsh(big.NewInt(1), 256)
	work := new(big.Int).Div(numerator, denominator)

	if header.Algo() == wire.AlgoScrypt {
		work.Lsh(work, 12)
	}
	return work
}

// compactToBig expands a block's compact "nBits" difficulty encoding into
// the full target integer it represents.
func compactToBig(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := bits >> 24

	var result *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		result = big.NewInt(int64(mantissa))
	} else {
		result = big.NewInt(int64(mantissa))
		result.Lsh(result, uint(8*(exponent-3)))
	}

	if bits&0x00800000 != 0 {
		result.Neg(result)
	}
	return result
}

// CompactToBig expands a compact "nBits" difficulty encoding into the full
// target integer it represents, exported for the block processor's
// proof-of-work and difficulty-retarget checks (C10).
func CompactToBig(bits uint32) *big.Int {
	return compactToBig(bits)
}

// BigToCompact converts a target integer into its compact "nBits" encoding,
// the inverse of compactToBig, needed by the difficulty retarget algorithm
// (C10).
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint((len(n.Bytes())))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0]) << (8 * (3 - exponent))
	} else {
		tn := new(big.Int).Rsh(n, 8*(exponent-3))
		mantissa = uint32(tn.Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}
