// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import "golang.org/x/crypto/scrypt"

// scrypt parameters matching the merged-mined scrypt proof-of-work
// algorithm: N=1024, r=1, p=1, 32-byte output.
const (
	scryptN = 1024
	scryptR = 1
	scryptP = 1
)

// ScryptHash computes the scrypt proof-of-work digest of b, the second of
// the two algorithms a block header may select via its version's low bits.
func ScryptHash(b []byte) ([]byte, error) {
	return scrypt.Key(b, b, scryptN, scryptR, scryptP, 32)
}
