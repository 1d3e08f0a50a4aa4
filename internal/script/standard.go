// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import "github.com/pkg/errors"

// OPReturnMaxStrLen and OPReturnMinLocked bound a standard tag output
// (spec §4.1): an OP_RETURN push is standard only if its payload is at
// most this long and the output locks at least this many base units,
// the same order of magnitude as the dust-output fee bump MIN_TX_FEE
// enforces elsewhere, so a tag can't be used to spam the chain for free.
const (
	OPReturnMaxStrLen  = 42
	OPReturnMinLocked  = 1_000_000 // 0.01 coin, i.e. one CENT
)

// errNotP2PKH is returned when a script does not match the standard
// pay-to-pubkey-hash template.
var errNotP2PKH = errors.New("script is not a standard pay-to-pubkey-hash script")

// ExtractPubKeyHash returns the 20-byte hash committed to by a standard
// OP_DUP OP_HASH160 <20-byte-hash> OP_EQUALVERIFY OP_CHECKSIG script, the
// only output template the game and name layers ever need to address.
func ExtractPubKeyHash(pkScript []byte) ([20]byte, error) {
	var hash [20]byte
	if len(pkScript) != 25 ||
		pkScript[0] != OpDup || pkScript[1] != OpHash160 ||
		pkScript[2] != 0x14 ||
		pkScript[23] != OpEqualVerify || pkScript[24] != OpCheckSig {
		return hash, errNotP2PKH
	}
	copy(hash[:], pkScript[3:23])
	return hash, nil
}

// NameOp identifies which of the three name operations a script's leading
// prefix encodes.
type NameOp int

const (
	NameOpNone NameOp = iota
	NameOpNew
	NameOpFirstUpdate
	NameOpUpdate
)

// ParsedNameScript is the result of recognizing a name-operation prefix on
// a pkScript: the operation, its arguments, and the ordinary script (almost
// always a pay-to-pubkey-hash template) that follows it and that the usual
// script engine evaluates once the prefix is dropped.
type ParsedNameScript struct {
	Op           NameOp
	Hash         []byte // NAME_NEW: hash160(name|rand)
	Name         []byte // FIRSTUPDATE/UPDATE
	Rand         []byte // FIRSTUPDATE
	Value        []byte // FIRSTUPDATE/UPDATE
	StandardScript []byte
}

// ParseNameScript recognizes the name-operation prefix
//
//	NAME_NEW  <hash>                        OP_DROP            <standard script>
//	NAME_FIRSTUPDATE <name> <rand> <value>  OP_2DROP OP_DROP   <standard script>
//	NAME_UPDATE <name> <value>              OP_2DROP           <standard script>
//
// on a pkScript. It reports ok=false for a script with no such prefix,
// which the caller should then treat as an ordinary value-transfer output.
func ParseNameScript(pkScript []byte) (ParsedNameScript, bool) {
	parsed, err := parseScript(pkScript)
	if err != nil || len(parsed) == 0 {
		return ParsedNameScript{}, false
	}

	switch parsed[0].opcode.value {
	case OpNameNew:
		if len(parsed) < 3 || parsed[2].opcode.value != OpDrop {
			return ParsedNameScript{}, false
		}
		return ParsedNameScript{
			Op:             NameOpNew,
			Hash:           parsed[1].data,
			StandardScript: reassemble(parsed[3:]),
		}, true

	case OpNameFirstUpdate:
		if len(parsed) < 6 || parsed[4].opcode.value != Op2Drop || parsed[5].opcode.value != OpDrop {
			return ParsedNameScript{}, false
		}
		return ParsedNameScript{
			Op:             NameOpFirstUpdate,
			Name:           parsed[1].data,
			Rand:           parsed[2].data,
			Value:          parsed[3].data,
			StandardScript: reassemble(parsed[6:]),
		}, true

	case OpNameUpdate:
		if len(parsed) < 4 || parsed[3].opcode.value != Op2Drop {
			return ParsedNameScript{}, false
		}
		return ParsedNameScript{
			Op:             NameOpUpdate,
			Name:           parsed[1].data,
			Value:          parsed[2].data,
			StandardScript: reassemble(parsed[4:]),
		}, true
	}

	return ParsedNameScript{}, false
}

func reassemble(parsed []parsedOpcode) []byte {
	var out []byte
	for _, pop := range parsed {
		out = append(out, serializeOpcode(pop)...)
	}
	return out
}

// isStandardBase reports whether script matches one of the two recognized
// spending templates: P2PKH (OP_DUP OP_HASH160 <20> OP_EQUALVERIFY
// OP_CHECKSIG) or P2PK (<pubkey> OP_CHECKSIG).
func isStandardBase(pkScript []byte) bool {
	if _, err := ExtractPubKeyHash(pkScript); err == nil {
		return true
	}

	parsed, err := parseScript(pkScript)
	if err != nil || len(parsed) != 2 {
		return false
	}
	data := parsed[0].data
	return (len(data) == 33 || len(data) == 65) && parsed[1].opcode.value == OpCheckSig
}

// tagPayload reports whether pkScript is an OP_RETURN-tagged output and
// returns its pushed payload.
func tagPayload(pkScript []byte) ([]byte, bool) {
	parsed, err := parseScript(pkScript)
	if err != nil || len(parsed) != 2 || parsed[0].opcode.value != OpReturn {
		return nil, false
	}
	return parsed[1].data, true
}

// IsStandardOutput reports whether an output with this value and pkScript
// is standard (spec §4.1): a P2PKH/P2PK template, a recognized name-op
// script (standard iff its trailing spending template is), or an
// OP_RETURN tag with a bounded payload and enough locked value to deter
// spam.
func IsStandardOutput(value int64, pkScript []byte) bool {
	if isStandardBase(pkScript) {
		return true
	}
	if parsed, ok := ParseNameScript(pkScript); ok {
		return isStandardBase(parsed.StandardScript)
	}
	if tag, ok := tagPayload(pkScript); ok {
		return len(tag) <= OPReturnMaxStrLen && value >= OPReturnMinLocked
	}
	return false
}
