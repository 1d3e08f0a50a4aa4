// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockprocessor implements C10: full block validation and
// connection/disconnection against the UTXO set (C4), name index (C5) and
// game state (C8, C9), plus the reorg algorithm that picks between competing
// chains recorded in the chain index (C7).
package blockprocessor

import "github.com/pkg/errors"

var (
	errOrphanBlock       = errors.New("blockprocessor: previous block not found")
	errMissingGameState  = errors.New("blockprocessor: no game state recorded at the required height")
	errMissingUndoRecord = errors.New("blockprocessor: no undo record recorded for this block")
	errBrokenChain       = errors.New("blockprocessor: chain index and block store disagree")
)
