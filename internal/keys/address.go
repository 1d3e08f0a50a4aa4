// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
)

// AddressPubKeyHash is a base58check-encoded P2PKH address: one version
// byte followed by the 20-byte HASH160 digest and a 4-byte checksum.
type AddressPubKeyHash struct {
	netID byte
	hash  [20]byte
}

// NewAddressPubKeyHash builds an address from a 20-byte HASH160 digest and
// the network's P2PKH version byte.
func NewAddressPubKeyHash(hash160 []byte, netID byte) (*AddressPubKeyHash, error) {
	if len(hash160) != 20 {
		return nil, errors.Errorf("invalid hash160 length %d, want 20", len(hash160))
	}
	addr := &AddressPubKeyHash{netID: netID}
	copy(addr.hash[:], hash160)
	return addr, nil
}

// Hash160 returns the 20-byte digest embedded in the address.
func (a *AddressPubKeyHash) Hash160() *[20]byte {
	return &a.hash
}

// EncodeAddress returns the base58check string form of the address.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

// String implements fmt.Stringer.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// DecodeAddress parses a base58check address string and verifies the
// version byte matches netID.
func DecodeAddress(addr string, netID byte) (*AddressPubKeyHash, error) {
	decoded, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, errors.Wrap(err, "malformed address")
	}
	if version != netID {
		return nil, errors.Errorf("address is for the wrong network (got version %d, want %d)", version, netID)
	}
	return NewAddressPubKeyHash(decoded, netID)
}

// PayToAddrScript builds the standard P2PKH scriptPubKey for addr:
// OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG.
// Kept here instead of the script package to avoid a dependency cycle
// between the VM and address decoding.
func (a *AddressPubKeyHash) PayToAddrScript() []byte {
	script := make([]byte, 0, 25)
	script = append(script, 0x76, 0xa9, 0x14) // OP_DUP OP_HASH160 <push 20>
	script = append(script, a.hash[:]...)
	script = append(script, 0x88, 0xac) // OP_EQUALVERIFY OP_CHECKSIG
	return script
}
