// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys implements C1: the hashing primitives, secp256k1 ECDSA
// signing/verification, and base58check address encoding the rest of the
// consensus core builds on.
package keys

import (
	"crypto/sha1"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // matches the teacher's HASH160 construction
)

// Sha256d computes the double-SHA256 digest of b, the primary proof-of-work
// and block/transaction identifier hash.
func Sha256d(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Sha256Single computes a single SHA256 digest, used by the script VM's
// OP_SHA256.
func Sha256Single(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// Sha1Single computes a single SHA1 digest, used by the script VM's OP_SHA1.
func Sha1Single(b []byte) []byte {
	h := sha1.Sum(b)
	return h[:]
}

// Ripemd160 computes a single RIPEMD160 digest, used by the script VM's
// OP_RIPEMD160.
func Ripemd160(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)
}

// Hash160 computes RIPEMD160(SHA256(b)), the 20-byte digest embedded in
// P2PKH scripts and addresses.
func Hash160(b []byte) []byte {
	return Ripemd160(Sha256Single(b))
}
