// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import "fmt"

// Opcode values. The name-operation opcodes reuse OP_1/OP_2/OP_3's byte
// values the way Namecoin-derived chains do: a name script is a standard
// script with a OP_NAME_* <args> OP_2DROP/OP_DROP prefix, and the
// interpreter executes that prefix as ordinary small-integer pushes. The
// nameindex and tx-validation layers recognize the template statically
// (see ParseNameScript) rather than by special-casing these opcodes here.
const (
	Op0                   = 0x00
	OpData1               = 0x01
	OpData75              = 0x4b
	OpPushData1           = 0x4c
	OpPushData2           = 0x4d
	OpPushData4           = 0x4e
	Op1Negate             = 0x4f
	OpReserved            = 0x50
	Op1                   = 0x51
	OpNameNew             = 0x51
	Op2                   = 0x52
	OpNameFirstUpdate     = 0x52
	Op3                   = 0x53
	OpNameUpdate          = 0x53
	Op16                  = 0x60
	OpNop                 = 0x61
	OpIf                  = 0x63
	OpNotIf               = 0x64
	OpElse                = 0x67
	OpEndIf               = 0x68
	OpVerify              = 0x69
	OpReturn              = 0x6a
	OpToAltStack          = 0x6b
	OpFromAltStack        = 0x6c
	Op2Drop               = 0x6d
	Op2Dup                = 0x6e
	Op3Dup                = 0x6f
	OpDepth               = 0x74
	OpDrop                = 0x75
	OpDup                 = 0x76
	OpNip                 = 0x77
	OpOver                = 0x78
	OpPick                = 0x79
	OpRoll                = 0x7a
	OpRot                 = 0x7b
	OpSwap                = 0x7c
	OpTuck                = 0x7d
	OpSize                = 0x82
	OpEqual               = 0x87
	OpEqualVerify          = 0x88
	Op1Add                = 0x8b
	Op1Sub                = 0x8c
	OpNegate              = 0x8f
	OpAbs                 = 0x90
	OpNot                 = 0x91
	Op0NotEqual           = 0x92
	OpAdd                 = 0x93
	OpSub                 = 0x94
	OpBoolAnd             = 0x9a
	OpBoolOr              = 0x9b
	OpNumEqual            = 0x9c
	OpNumEqualVerify      = 0x9d
	OpNumNotEqual         = 0x9e
	OpLessThan            = 0x9f
	OpGreaterThan         = 0xa0
	OpLessThanOrEqual     = 0xa1
	OpGreaterThanOrEqual  = 0xa2
	OpMin                 = 0xa3
	OpMax                 = 0xa4
	OpWithin              = 0xa5
	OpRipemd160           = 0xa6
	OpSha1                = 0xa7
	OpSha256              = 0xa8
	OpHash160             = 0xa9
	OpHash256             = 0xaa
	OpCodeSeparator       = 0xab
	OpCheckSig            = 0xac
	OpCheckSigVerify      = 0xad
	OpCheckMultiSig       = 0xae
	OpCheckMultiSigVerify = 0xaf
)

// opcode describes a single instruction: its numeric value, display name,
// the total number of bytes it occupies in a script (1 for an opcode with no
// data, n+1 for OP_DATA_n, -1/-2/-4 for the variable-length PUSHDATA forms
// whose length prefix is that many bytes), and the function that executes it.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*parsedOpcode, *Engine) error
}

var opcodeArray [256]opcode

func init() {
	for i := 0; i <= OpData75; i++ {
		op := byte(i)
		opcodeArray[op] = opcode{op, fmt.Sprintf("OP_DATA_%d", i), i + 1, opcodePushData}
	}
	opcodeArray[Op0] = opcode{Op0, "OP_0", 1, opcodePushData}
	opcodeArray[OpPushData1] = opcode{OpPushData1, "OP_PUSHDATA1", -1, opcodePushData}
	opcodeArray[OpPushData2] = opcode{OpPushData2, "OP_PUSHDATA2", -2, opcodePushData}
	opcodeArray[OpPushData4] = opcode{OpPushData4, "OP_PUSHDATA4", -4, opcodePushData}
	opcodeArray[Op1Negate] = opcode{Op1Negate, "OP_1NEGATE", 1, opcodeNNeg1}
	opcodeArray[OpReserved] = opcode{OpReserved, "OP_RESERVED", 1, opcodeReserved}
	for i := Op1; i <= Op16; i++ {
		op := byte(i)
		n := i - Op1 + 1
		opcodeArray[op] = opcode{op, fmt.Sprintf("OP_%d", n), 1, opcodeN(n)}
	}
	opcodeArray[OpNop] = opcode{OpNop, "OP_NOP", 1, opcodeNop}
	opcodeArray[OpIf] = opcode{OpIf, "OP_IF", 1, opcodeIf}
	opcodeArray[OpNotIf] = opcode{OpNotIf, "OP_NOTIF", 1, opcodeNotIf}
	opcodeArray[OpElse] = opcode{OpElse, "OP_ELSE", 1, opcodeElse}
	opcodeArray[OpEndIf] = opcode{OpEndIf, "OP_ENDIF", 1, opcodeEndif}
	opcodeArray[OpVerify] = opcode{OpVerify, "OP_VERIFY", 1, opcodeVerify}
	opcodeArray[OpReturn] = opcode{OpReturn, "OP_RETURN", 1, opcodeReturn}
	opcodeArray[OpToAltStack] = opcode{OpToAltStack, "OP_TOALTSTACK", 1, opcodeToAltStack}
	opcodeArray[OpFromAltStack] = opcode{OpFromAltStack, "OP_FROMALTSTACK", 1, opcodeFromAltStack}
	opcodeArray[Op2Drop] = opcode{Op2Drop, "OP_2DROP", 1, opcode2Drop}
	opcodeArray[Op2Dup] = opcode{Op2Dup, "OP_2DUP", 1, opcode2Dup}
	opcodeArray[Op3Dup] = opcode{Op3Dup, "OP_3DUP", 1, opcode3Dup}
	opcodeArray[OpDepth] = opcode{OpDepth, "OP_DEPTH", 1, opcodeDepth}
	opcodeArray[OpDrop] = opcode{OpDrop, "OP_DROP", 1, opcodeDrop}
	opcodeArray[OpDup] = opcode{OpDup, "OP_DUP", 1, opcodeDup}
	opcodeArray[OpNip] = opcode{OpNip, "OP_NIP", 1, opcodeNip}
	opcodeArray[OpOver] = opcode{OpOver, "OP_OVER", 1, opcodeOver}
	opcodeArray[OpPick] = opcode{OpPick, "OP_PICK", 1, opcodePick}
	opcodeArray[OpRoll] = opcode{OpRoll, "OP_ROLL", 1, opcodeRoll}
	opcodeArray[OpRot] = opcode{OpRot, "OP_ROT", 1, opcodeRot}
	opcodeArray[OpSwap] = opcode{OpSwap, "OP_SWAP", 1, opcodeSwap}
	opcodeArray[OpTuck] = opcode{OpTuck, "OP_TUCK", 1, opcodeTuck}
	opcodeArray[OpSize] = opcode{OpSize, "OP_SIZE", 1, opcodeSize}
	opcodeArray[OpEqual] = opcode{OpEqual, "OP_EQUAL", 1, opcodeEqual}
	opcodeArray[OpEqualVerify] = opcode{OpEqualVerify, "OP_EQUALVERIFY", 1, opcodeEqualVerify}
	opcodeArray[Op1Add] = opcode{Op1Add, "OP_1ADD", 1, opcode1Add}
	opcodeArray[Op1Sub] = opcode{Op1Sub, "OP_1SUB", 1, opcode1Sub}
	opcodeArray[OpNegate] = opcode{OpNegate, "OP_NEGATE", 1, opcodeNegate}
	opcodeArray[OpAbs] = opcode{OpAbs, "OP_ABS", 1, opcodeAbs}
	opcodeArray[OpNot] = opcode{OpNot, "OP_NOT", 1, opcodeNot}
	opcodeArray[Op0NotEqual] = opcode{Op0NotEqual, "OP_0NOTEQUAL", 1, opcode0NotEqual}
	opcodeArray[OpAdd] = opcode{OpAdd, "OP_ADD", 1, opcodeAdd}
	opcodeArray[OpSub] = opcode{OpSub, "OP_SUB", 1, opcodeSub}
	opcodeArray[OpBoolAnd] = opcode{OpBoolAnd, "OP_BOOLAND", 1, opcodeBoolAnd}
	opcodeArray[OpBoolOr] = opcode{OpBoolOr, "OP_BOOLOR", 1, opcodeBoolOr}
	opcodeArray[OpNumEqual] = opcode{OpNumEqual, "OP_NUMEQUAL", 1, opcodeNumEqual}
	opcodeArray[OpNumEqualVerify] = opcode{OpNumEqualVerify, "OP_NUMEQUALVERIFY", 1, opcodeNumEqualVerify}
	opcodeArray[OpNumNotEqual] = opcode{OpNumNotEqual, "OP_NUMNOTEQUAL", 1, opcodeNumNotEqual}
	opcodeArray[OpLessThan] = opcode{OpLessThan, "OP_LESSTHAN", 1, opcodeLessThan}
	opcodeArray[OpGreaterThan] = opcode{OpGreaterThan, "OP_GREATERTHAN", 1, opcodeGreaterThan}
	opcodeArray[OpLessThanOrEqual] = opcode{OpLessThanOrEqual, "OP_LESSTHANOREQUAL", 1, opcodeLessThanOrEqual}
	opcodeArray[OpGreaterThanOrEqual] = opcode{OpGreaterThanOrEqual, "OP_GREATERTHANOREQUAL", 1, opcodeGreaterThanOrEqual}
	opcodeArray[OpMin] = opcode{OpMin, "OP_MIN", 1, opcodeMin}
	opcodeArray[OpMax] = opcode{OpMax, "OP_MAX", 1, opcodeMax}
	opcodeArray[OpWithin] = opcode{OpWithin, "OP_WITHIN", 1, opcodeWithin}
	opcodeArray[OpRipemd160] = opcode{OpRipemd160, "OP_RIPEMD160", 1, opcodeRipemd160}
	opcodeArray[OpSha1] = opcode{OpSha1, "OP_SHA1", 1, opcodeSha1}
	opcodeArray[OpSha256] = opcode{OpSha256, "OP_SHA256", 1, opcodeSha256}
	opcodeArray[OpHash160] = opcode{OpHash160, "OP_HASH160", 1, opcodeHash160}
	opcodeArray[OpHash256] = opcode{OpHash256, "OP_HASH256", 1, opcodeHash256}
	opcodeArray[OpCodeSeparator] = opcode{OpCodeSeparator, "OP_CODESEPARATOR", 1, opcodeCodeSeparator}
	opcodeArray[OpCheckSig] = opcode{OpCheckSig, "OP_CHECKSIG", 1, opcodeCheckSig}
	opcodeArray[OpCheckSigVerify] = opcode{OpCheckSigVerify, "OP_CHECKSIGVERIFY", 1, opcodeCheckSigVerify}
	opcodeArray[OpCheckMultiSig] = opcode{OpCheckMultiSig, "OP_CHECKMULTISIG", 1, opcodeCheckMultiSig}
	opcodeArray[OpCheckMultiSigVerify] = opcode{OpCheckMultiSigVerify, "OP_CHECKMULTISIGVERIFY", 1, opcodeCheckMultiSigVerify}

	for i := range opcodeArray {
		if opcodeArray[i].name == "" {
			op := byte(i)
			opcodeArray[op] = opcode{op, fmt.Sprintf("OP_UNKNOWN%d", i), 1, opcodeInvalid}
		}
	}
}

// parsedOpcode is a single tokenized instruction from a script: an opcode
// plus any data it pushes.
type parsedOpcode struct {
	opcode *opcode
	data   []byte
}

func (pop *parsedOpcode) isConditional() bool {
	switch pop.opcode.value {
	case OpIf, OpNotIf, OpElse, OpEndIf:
		return true
	}
	return false
}

// parseScript tokenizes a raw script into its sequence of parsed opcodes.
func parseScript(script []byte) ([]parsedOpcode, error) {
	var parsed []parsedOpcode
	for i := 0; i < len(script); {
		op := &opcodeArray[script[i]]
		pop := parsedOpcode{opcode: op}

		switch {
		case op.length == 1:
			i++
		case op.length > 1:
			if len(script[i:]) < op.length {
				return nil, scriptError(ErrMalformedPush,
					fmt.Sprintf("opcode %s requires %d bytes, script has %d remaining",
						op.name, op.length, len(script[i:])))
			}
			pop.data = script[i+1 : i+op.length]
			i += op.length
		case op.length < 0:
			var l int
			off := i + 1
			switch op.length {
			case -1:
				if len(script) < off+1 {
					return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA1 missing length byte")
				}
				l = int(script[off])
				off++
			case -2:
				if len(script) < off+2 {
					return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA2 missing length bytes")
				}
				l = int(script[off]) | int(script[off+1])<<8
				off += 2
			case -4:
				if len(script) < off+4 {
					return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA4 missing length bytes")
				}
				l = int(script[off]) | int(script[off+1])<<8 | int(script[off+2])<<16 | int(script[off+3])<<24
				off += 4
			}
			if len(script[off:]) < l {
				return nil, scriptError(ErrMalformedPush, "pushdata length exceeds remaining script")
			}
			pop.data = script[off : off+l]
			i = off + l
		}

		parsed = append(parsed, pop)
	}
	return parsed, nil
}
