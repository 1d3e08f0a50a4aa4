// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"github.com/chronokings/huntercoin-sub000/internal/keys"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// TxSigChecker adapts a transaction and input index to script.SigChecker,
// computing the signature hash and verifying it against a secp256k1
// public key (C1) for each CHECKSIG/CHECKMULTISIG the engine executes.
type TxSigChecker struct {
	Tx *wire.MsgTx
}

// CheckSig implements script.SigChecker.
func (c *TxSigChecker) CheckSig(idx int, subScript []byte, hashType script.SigHashType, sig, pubKeyBytes []byte) (bool, error) {
	pubKey, err := keys.ParsePublicKey(pubKeyBytes)
	if err != nil {
		return false, err
	}
	hash, err := script.CalcSignatureHash(subScript, hashType, c.Tx, idx)
	if err != nil {
		return false, err
	}
	return keys.VerifySignature(pubKey, hash[:], sig), nil
}
