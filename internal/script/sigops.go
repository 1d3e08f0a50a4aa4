// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

// MaxPubKeysPerMultisig bounds how many sigops an OP_CHECKMULTISIG is
// charged for when its preceding push isn't a small, directly-readable
// integer (spec §6's conservative per-block sigop accounting).
const MaxPubKeysPerMultisig = 20

// CountSigOps returns pkScript's contribution to a block's total signature
// operation count (spec §4.2, §6): one per OP_CHECKSIG/OP_CHECKSIGVERIFY,
// MaxPubKeysPerMultisig per OP_CHECKMULTISIG/OP_CHECKMULTISIGVERIFY. A
// malformed script counts as zero; CheckBlock's size and structural checks
// catch those separately.
func CountSigOps(pkScript []byte) int {
	parsed, err := parseScript(pkScript)
	if err != nil {
		return 0
	}

	n := 0
	for _, pop := range parsed {
		switch pop.opcode.value {
		case OpCheckSig, OpCheckSigVerify:
			n++
		case OpCheckMultiSig, OpCheckMultiSigVerify:
			n += MaxPubKeysPerMultisig
		}
	}
	return n
}
