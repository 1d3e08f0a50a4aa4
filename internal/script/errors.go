// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package script implements the stack-based scripting language used to lock
// and unlock transaction outputs (spec §2, component C2), including the
// name-operation opcodes name/nameindex and tx validation recognize as a
// leading prefix on a pay-to-address script.
package script

import "fmt"

// ErrorCode identifies a kind of script error.
type ErrorCode int

const (
	ErrInvalidProgramCounter ErrorCode = iota
	ErrInvalidIndex
	ErrScriptUnfinished
	ErrCleanStack
	ErrEmptyStack
	ErrEvalFalse
	ErrStackOverflow
	ErrUnbalancedConditional
	ErrDisabledOpcode
	ErrReservedOpcode
	ErrTooManyOperations
	ErrElementTooBig
	ErrInvalidStackOperation
	ErrVerify
	ErrNumberTooBig
	ErrMinimalData
	ErrInvalidSigHashType
	ErrPubKeyFormat
	ErrSigDER
	ErrScriptTooBig
	ErrNotMultisigScript
	ErrMalformedPush
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidProgramCounter: "ErrInvalidProgramCounter",
	ErrInvalidIndex:          "ErrInvalidIndex",
	ErrScriptUnfinished:      "ErrScriptUnfinished",
	ErrCleanStack:            "ErrCleanStack",
	ErrEmptyStack:            "ErrEmptyStack",
	ErrEvalFalse:             "ErrEvalFalse",
	ErrStackOverflow:         "ErrStackOverflow",
	ErrUnbalancedConditional: "ErrUnbalancedConditional",
	ErrDisabledOpcode:        "ErrDisabledOpcode",
	ErrReservedOpcode:        "ErrReservedOpcode",
	ErrTooManyOperations:     "ErrTooManyOperations",
	ErrElementTooBig:         "ErrElementTooBig",
	ErrInvalidStackOperation: "ErrInvalidStackOperation",
	ErrVerify:                "ErrVerify",
	ErrNumberTooBig:          "ErrNumberTooBig",
	ErrMinimalData:           "ErrMinimalData",
	ErrInvalidSigHashType:    "ErrInvalidSigHashType",
	ErrPubKeyFormat:          "ErrPubKeyFormat",
	ErrSigDER:                "ErrSigDER",
	ErrScriptTooBig:          "ErrScriptTooBig",
	ErrNotMultisigScript:     "ErrNotMultisigScript",
	ErrMalformedPush:         "ErrMalformedPush",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeNames[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// Error identifies a script-evaluation failure, carrying a machine-readable
// code alongside the human-readable description.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

func (e Error) Error() string {
	return e.Description
}

func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode reports whether err is a script Error with the given code.
func IsErrorCode(err error, c ErrorCode) bool {
	serr, ok := err.(Error)
	return ok && serr.ErrorCode == c
}
