// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc implements the node's JSON command surface (spec §6): read
// access to game state and the name index, plus a handful of maintenance
// commands. It never changes consensus behavior — everything here reads
// storage the block processor and mempool already maintain, or deletes data
// whose absence doesn't affect validation (a pruned name-history entry, a
// mempool entry).
package rpc

import (
	"net/http"

	"github.com/pkg/errors"
)

// HandlerError is an error a command handler returns, carrying the HTTP
// status the dispatcher should answer with (spec §10.2's policy-error
// category: malformed input is the caller's fault, not the node's).
type HandlerError struct {
	Code    int
	Message string
}

func (e *HandlerError) Error() string {
	return e.Message
}

// NewHandlerError returns a HandlerError reporting code/message.
func NewHandlerError(code int, message string) *HandlerError {
	return &HandlerError{Code: code, Message: message}
}

// errWarmup is returned by every handler until the node finishes loading
// (spec §6: "a warmup status error is returned until the node has finished
// loading").
var errWarmup = NewHandlerError(http.StatusServiceUnavailable, "huntercoind is still loading block data")

// errUnknownMethod is returned for a command name the dispatcher doesn't
// recognize.
var errUnknownMethod = errors.New("rpc: unknown method")
