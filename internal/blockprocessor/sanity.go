package blockprocessor

import (
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/consensus"
	"github.com/chronokings/huntercoin-sub000/internal/merkle"
	"github.com/chronokings/huntercoin-sub000/internal/pow"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// maxFutureDrift is how far into the future a block's timestamp may lie
// relative to the validating node's clock (spec §4.6).
const maxFutureDrift = 2 * time.Hour

// CheckBlockHeaderSanity performs the context-free header checks spec §4.6
// requires before a header is even looked up in the chain index: proof of
// work (including merge-mining, if present) and the future-timestamp bound.
// The median-time-past and parent-timestamp bounds need the header's parent
// node and are enforced by checkContextual instead.
func CheckBlockHeaderSanity(header *wire.BlockHeader, params *chaincfg.Params, now time.Time) error {
	if header.Timestamp.After(now.Add(maxFutureDrift)) {
		return consensus.NewRuleError(consensus.ErrBadTimestamp, "block timestamp too far in the future")
	}

	if err := consensus.CheckAuxPow(header); err != nil {
		return err
	}

	// CheckAuxPow already verified the parent block's hash against this
	// header's target when an auxpow is attached; an ordinary header still
	// needs its own hash checked directly.
	if !header.HasAuxPow() {
		hash, err := header.BlockHash()
		if err != nil {
			return consensus.NewRuleError(consensus.ErrBadProofOfWork, "could not hash block header")
		}
		if err := pow.CheckProofOfWork(hash, header.Bits, params.PowLimit[header.Algo()]); err != nil {
			return consensus.NewRuleError(consensus.ErrBadProofOfWork, err.Error())
		}
	}
	return nil
}

// CheckBlockSanity performs the context-free body checks spec §4.6 requires:
// non-empty transaction list, a coinbase first and only first, no duplicate
// txids, sig-op count within budget, and a transaction merkle root matching
// the header. It does not check the game merkle root, which depends on
// replaying the game step against the previous block's state and is checked
// by ConnectBlock instead.
func CheckBlockSanity(block *wire.MsgBlock, params *chaincfg.Params, now time.Time) error {
	if err := CheckBlockHeaderSanity(&block.Header, params, now); err != nil {
		return err
	}

	if len(block.Transactions) == 0 {
		return consensus.NewRuleError(consensus.ErrEmptyTxList, "block has no transactions")
	}
	if !block.Transactions[0].IsCoinBase() {
		return consensus.NewRuleError(consensus.ErrBadCoinbase, "first transaction is not a coinbase")
	}
	for _, tx := range block.Transactions[1:] {
		if tx.IsCoinBase() {
			return consensus.NewRuleError(consensus.ErrBadCoinbase, "multiple coinbase transactions")
		}
	}

	seen := make(map[chainhash.Hash]bool, len(block.Transactions))
	sigOps := 0
	leaves := make([]chainhash.Hash, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if err := consensus.CheckTransaction(tx); err != nil {
			return err
		}
		txHash := tx.TxHash()
		if seen[txHash] {
			return consensus.NewRuleError(consensus.ErrDuplicateTx, "duplicate transaction in block")
		}
		seen[txHash] = true
		leaves = append(leaves, txHash)

		for _, out := range tx.TxOut {
			sigOps += script.CountSigOps(out.PkScript)
		}
		for _, in := range tx.TxIn {
			sigOps += script.CountSigOps(in.SignatureScript)
		}
	}
	if sigOps > chaincfg.MaxBlockSigOps {
		return consensus.NewRuleError(consensus.ErrTooManySigOps, "block exceeds the maximum sig-op count")
	}

	root := merkle.Root(leaves)
	if root != block.Header.MerkleRoot {
		return consensus.NewRuleError(consensus.ErrBadMerkleRoot, "transaction merkle root mismatch")
	}

	if block.SerializeSize() > chaincfg.MaxBlockSize {
		return consensus.NewRuleError(consensus.ErrOversizeBlock, "block exceeds the maximum serialized size")
	}

	return nil
}
