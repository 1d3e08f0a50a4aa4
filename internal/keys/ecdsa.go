// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
)

// PrivateKey wraps a secp256k1 scalar used to sign transaction inputs.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 curve point used to verify CHECKSIG/
// CHECKMULTISIG operands.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// NewPrivateKeyFromBytes parses a 32-byte scalar into a PrivateKey.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, errors.Errorf("invalid private key length %d, want 32", len(b))
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: priv}, nil
}

// PubKey derives the public key corresponding to priv.
func (priv *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{key: priv.key.PubKey()}
}

// Sign produces a DER-encoded ECDSA signature over hash, the form pushed by
// scriptSig and consumed by OP_CHECKSIG.
func (priv *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, errors.Errorf("invalid sighash length %d, want 32", len(hash))
	}
	sig := ecdsa.Sign(priv.key, hash)
	return sig.Serialize(), nil
}

// ParsePublicKey parses a compressed or uncompressed SEC1 public key as
// carried in scriptSig/scriptPubKey.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrap(err, "invalid public key encoding")
	}
	return &PublicKey{key: pub}, nil
}

// SerializeCompressed returns the 33-byte compressed SEC1 encoding.
func (pub *PublicKey) SerializeCompressed() []byte {
	return pub.key.SerializeCompressed()
}

// VerifySignature checks a DER-encoded ECDSA signature against hash. Used by
// the script VM's CHECKSIG family of opcodes.
func VerifySignature(pub *PublicKey, hash, derSig []byte) bool {
	sig, err := ecdsa.ParseDERSignature(derSig)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub.key)
}
