// Package mempool implements C11: the pool of pending, unconfirmed
// transactions, rate-limited and reorg-aware (spec §4.8).
package mempool

import "github.com/pkg/errors"

var (
	errAlreadyKnown       = errors.New("mempool: transaction already in the pool")
	errCoinbase           = errors.New("mempool: coinbase cannot enter the mempool")
	errGameTx             = errors.New("mempool: game transaction cannot enter the mempool")
	errNonStandardSize    = errors.New("mempool: too many sig-ops for its size, or too small")
	errNonStandardScript  = errors.New("mempool: non-standard output script")
	errConflict           = errors.New("mempool: spends an output another pool entry already spends")
	errInsufficientFee    = errors.New("mempool: fee below the required minimum")
	errRateLimited        = errors.New("mempool: free transaction rejected by the rate limiter")
	errMoveInvalid        = errors.New("mempool: move is not valid against the current game state")
)
