// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"bytes"
	"fmt"

	"github.com/chronokings/huntercoin-sub000/internal/keys"
)

const (
	// MaxStackSize is the maximum combined height of the stack and alt
	// stack during execution.
	MaxStackSize = 1000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000

	// MaxOpsPerScript is the maximum number of non-push operations
	// allowed in a script.
	MaxOpsPerScript = 201

	// MaxScriptElementSize is the maximum allowed size, in bytes, of a
	// pushed data element (spec §4.1); a name output's value can be up to
	// MaxValueLength bytes and must still be spendable.
	MaxScriptElementSize = 4096

	opCondFalse = 0
	opCondTrue  = 1
	opCondSkip  = 2
)

// SigChecker abstracts transaction-input signature verification so the
// engine does not need to know about wire.MsgTx directly; consensus wires
// in the real implementation, tests wire in a stub.
type SigChecker interface {
	// CheckSig verifies sig against pubKey for the signature hash the
	// input at the given index commits to once hashType and the
	// executing script (with the signature itself and any
	// OP_CODESEPARATOR prefix removed) are accounted for.
	CheckSig(idx int, subScript []byte, hashType SigHashType, sig, pubKey []byte) (bool, error)
}

// Engine is the virtual machine that executes a (sigScript, pkScript) pair.
type Engine struct {
	scripts   [][]parsedOpcode
	scriptIdx int
	scriptOff int
	dstack    stack
	astack    stack
	condStack []int
	numOps    int
	checker   SigChecker
	lastSep   int
}

func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == opCondTrue
}

func (vm *Engine) executeOpcode(pop *parsedOpcode) error {
	if pop.opcode.value > Op16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			return scriptError(ErrTooManyOperations,
				fmt.Sprintf("exceeded max operation limit of %d", MaxOpsPerScript))
		}
	} else if len(pop.data) > MaxScriptElementSize {
		return scriptError(ErrElementTooBig,
			fmt.Sprintf("element size %d exceeds max allowed size %d", len(pop.data), MaxScriptElementSize))
	}

	if !vm.isBranchExecuting() && !pop.isConditional() {
		return nil
	}

	return pop.opcode.opfunc(pop, vm)
}

func (vm *Engine) validPC() error {
	if vm.scriptIdx >= len(vm.scripts) {
		return scriptError(ErrInvalidProgramCounter, "past input scripts")
	}
	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		return scriptError(ErrInvalidProgramCounter, "past input scripts")
	}
	return nil
}

// Step executes the next instruction and advances the program counter. It
// returns true once the last opcode of the last script has executed.
func (vm *Engine) Step() (bool, error) {
	if err := vm.validPC(); err != nil {
		return true, err
	}
	op := &vm.scripts[vm.scriptIdx][vm.scriptOff]
	vm.scriptOff++

	if err := vm.executeOpcode(op); err != nil {
		return true, err
	}

	if vm.dstack.Depth()+vm.astack.Depth() > MaxStackSize {
		return false, scriptError(ErrStackOverflow, "combined stack size exceeds max allowed")
	}

	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		if len(vm.condStack) != 0 {
			return false, scriptError(ErrUnbalancedConditional,
				"end of script reached in conditional execution")
		}
		_ = vm.astack.DropN(vm.astack.Depth())
		vm.numOps = 0
		vm.scriptOff = 0
		vm.lastSep = 0
		vm.scriptIdx++
		if vm.scriptIdx >= len(vm.scripts) {
			return true, nil
		}
	}
	return false, nil
}

// Execute runs every script to completion and reports whether evaluation
// ended with a truthy value on top of the stack; values beneath it are not
// inspected.
func (vm *Engine) Execute() error {
	done := false
	var err error
	for !done {
		done, err = vm.Step()
		if err != nil {
			return err
		}
	}
	if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack, "stack empty at end of script execution")
	}
	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		return scriptError(ErrEvalFalse, "false stack entry at end of script execution")
	}
	return nil
}

// NewEngine builds an Engine ready to execute sigScript followed by
// pkScript against the given signature checker.
func NewEngine(sigScript, pkScript []byte, checker SigChecker) (*Engine, error) {
	if len(sigScript) > MaxScriptSize || len(pkScript) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "script exceeds max allowed size")
	}

	sigParsed, err := parseScript(sigScript)
	if err != nil {
		return nil, err
	}
	pkParsed, err := parseScript(pkScript)
	if err != nil {
		return nil, err
	}

	for _, pop := range sigParsed {
		if pop.opcode.value > Op16 {
			return nil, scriptError(ErrDisabledOpcode, "signature script may only push data")
		}
	}

	vm := &Engine{
		scripts: [][]parsedOpcode{sigParsed, pkParsed},
		checker: checker,
	}
	return vm, nil
}

// VerifyScript runs sigScript then pkScript and reports whether the pair
// validates, the form transaction validation (C3) calls for each input.
func VerifyScript(sigScript, pkScript []byte, checker SigChecker) error {
	vm, err := NewEngine(sigScript, pkScript, checker)
	if err != nil {
		return err
	}
	return vm.Execute()
}

// --- opcode implementations ---

func opcodePushData(pop *parsedOpcode, vm *Engine) error {
	vm.dstack.PushByteArray(pop.data)
	return nil
}

func opcodeNNeg1(pop *parsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(-1))
	return nil
}

func opcodeN(n byte) func(*parsedOpcode, *Engine) error {
	return func(pop *parsedOpcode, vm *Engine) error {
		vm.dstack.PushInt(scriptNum(n))
		return nil
	}
}

func opcodeReserved(pop *parsedOpcode, vm *Engine) error {
	return scriptError(ErrReservedOpcode, "attempt to execute reserved opcode")
}

func opcodeInvalid(pop *parsedOpcode, vm *Engine) error {
	return scriptError(ErrDisabledOpcode,
		fmt.Sprintf("attempt to execute invalid opcode %s", pop.opcode.name))
}

func opcodeNop(pop *parsedOpcode, vm *Engine) error { return nil }

func opcodeIf(pop *parsedOpcode, vm *Engine) error {
	cond := opCondFalse
	if vm.isBranchExecuting() {
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if ok {
			cond = opCondTrue
		}
		if pop.opcode.value == OpNotIf {
			if cond == opCondTrue {
				cond = opCondFalse
			} else {
				cond = opCondTrue
			}
		}
	} else {
		cond = opCondSkip
	}
	vm.condStack = append(vm.condStack, cond)
	return nil
}

func opcodeNotIf(pop *parsedOpcode, vm *Engine) error { return opcodeIf(pop, vm) }

func opcodeElse(pop *parsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional, "OP_ELSE without matching OP_IF")
	}
	top := len(vm.condStack) - 1
	switch vm.condStack[top] {
	case opCondTrue:
		vm.condStack[top] = opCondFalse
	case opCondFalse:
		vm.condStack[top] = opCondTrue
	}
	return nil
}

func opcodeEndif(pop *parsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional, "OP_ENDIF without matching OP_IF")
	}
	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

func opcodeVerify(pop *parsedOpcode, vm *Engine) error {
	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		return scriptError(ErrVerify, "VERIFY failed")
	}
	return nil
}

func opcodeReturn(pop *parsedOpcode, vm *Engine) error {
	return scriptError(ErrEvalFalse, "OP_RETURN executed")
}

func opcodeToAltStack(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)
	return nil
}

func opcodeFromAltStack(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)
	return nil
}

func opcode2Drop(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DropN(2) }

func opcode2Dup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(2) }

func opcode3Dup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(3) }

func opcodeDepth(pop *parsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
	return nil
}

func opcodeDrop(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DropN(1) }

func opcodeDup(pop *parsedOpcode, vm *Engine) error { return vm.dstack.DupN(1) }

func opcodeNip(pop *parsedOpcode, vm *Engine) error { return vm.dstack.NipN(1) }

func opcodeOver(pop *parsedOpcode, vm *Engine) error { return vm.dstack.OverN(1) }

func opcodePick(pop *parsedOpcode, vm *Engine) error { return pickOrRoll(vm, true) }

func opcodeRoll(pop *parsedOpcode, vm *Engine) error { return pickOrRoll(vm, false) }

func pickOrRoll(vm *Engine, isPick bool) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	if isPick {
		return vm.dstack.PickN(int(n))
	}
	return vm.dstack.RollN(int(n))
}

func opcodeRot(pop *parsedOpcode, vm *Engine) error { return vm.dstack.RotN(1) }

func opcodeSwap(pop *parsedOpcode, vm *Engine) error { return vm.dstack.SwapN(1) }

func opcodeTuck(pop *parsedOpcode, vm *Engine) error { return vm.dstack.Tuck() }

func opcodeSize(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

func opcodeEqual(pop *parsedOpcode, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

func opcodeEqualVerify(pop *parsedOpcode, vm *Engine) error {
	if err := opcodeEqual(pop, vm); err != nil {
		return err
	}
	return opcodeVerify(pop, vm)
}

func binaryNumOp(vm *Engine, f func(a, b scriptNum) scriptNum) error {
	b, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushInt(f(a, b))
	return nil
}

func unaryNumOp(vm *Engine, f func(a scriptNum) scriptNum) error {
	a, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushInt(f(a))
	return nil
}

func opcode1Add(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum { return a + 1 })
}
func opcode1Sub(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum { return a - 1 })
}
func opcodeNegate(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum { return -a })
}
func opcodeAbs(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum {
		if a < 0 {
			return -a
		}
		return a
	})
}
func opcodeNot(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum {
		if a == 0 {
			return 1
		}
		return 0
	})
}
func opcode0NotEqual(pop *parsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(a scriptNum) scriptNum {
		if a != 0 {
			return 1
		}
		return 0
	})
}
func opcodeAdd(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return a + b })
}
func opcodeSub(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return a - b })
}
func boolToNum(b bool) scriptNum {
	if b {
		return 1
	}
	return 0
}
func opcodeBoolAnd(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a != 0 && b != 0) })
}
func opcodeBoolOr(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a != 0 || b != 0) })
}
func opcodeNumEqual(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a == b) })
}
func opcodeNumEqualVerify(pop *parsedOpcode, vm *Engine) error {
	if err := opcodeNumEqual(pop, vm); err != nil {
		return err
	}
	return opcodeVerify(pop, vm)
}
func opcodeNumNotEqual(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a != b) })
}
func opcodeLessThan(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a < b) })
}
func opcodeGreaterThan(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a > b) })
}
func opcodeLessThanOrEqual(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a <= b) })
}
func opcodeGreaterThanOrEqual(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum { return boolToNum(a >= b) })
}
func opcodeMin(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum {
		if a < b {
			return a
		}
		return b
	})
}
func opcodeMax(pop *parsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b scriptNum) scriptNum {
		if a > b {
			return a
		}
		return b
	})
}

func opcodeWithin(pop *parsedOpcode, vm *Engine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(x >= minVal && x < maxVal)
	return nil
}

func opcodeRipemd160(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(keys.Ripemd160(so))
	return nil
}
func opcodeSha1(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(keys.Sha1Single(so))
	return nil
}
func opcodeSha256(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(keys.Sha256Single(so))
	return nil
}
func opcodeHash160(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(keys.Hash160(so))
	return nil
}
func opcodeHash256(pop *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(keys.Sha256d(so))
	return nil
}

func opcodeCodeSeparator(pop *parsedOpcode, vm *Engine) error {
	vm.lastSep = vm.scriptOff
	return nil
}

func (vm *Engine) subScript() []byte {
	var buf bytes.Buffer
	for _, pop := range vm.scripts[vm.scriptIdx][vm.lastSep:] {
		buf.Write(serializeOpcode(pop))
	}
	return buf.Bytes()
}

func opcodeCheckSig(pop *parsedOpcode, vm *Engine) error {
	pubKey, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	if len(sigBytes) == 0 {
		vm.dstack.PushBool(false)
		return nil
	}

	hashType := SigHashType(sigBytes[len(sigBytes)-1])
	sig := sigBytes[:len(sigBytes)-1]

	ok, err := vm.checker.CheckSig(vm.scriptIdx, vm.subScript(), hashType, sig, pubKey)
	if err != nil {
		vm.dstack.PushBool(false)
		return nil
	}
	vm.dstack.PushBool(ok)
	return nil
}

func opcodeCheckSigVerify(pop *parsedOpcode, vm *Engine) error {
	if err := opcodeCheckSig(pop, vm); err != nil {
		return err
	}
	return opcodeVerify(pop, vm)
}

func opcodeCheckMultiSig(pop *parsedOpcode, vm *Engine) error {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	if numKeys < 0 || numKeys > 20 {
		return scriptError(ErrInvalidStackOperation, "invalid public key count in CHECKMULTISIG")
	}
	pubKeys := make([][]byte, numKeys)
	for i := int(numKeys) - 1; i >= 0; i-- {
		pubKeys[i], err = vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	if numSigs < 0 || numSigs > numKeys {
		return scriptError(ErrInvalidStackOperation, "invalid signature count in CHECKMULTISIG")
	}
	sigs := make([][]byte, numSigs)
	for i := int(numSigs) - 1; i >= 0; i-- {
		sigs[i], err = vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
	}

	// The original Bitcoin CHECKMULTISIG has an off-by-one bug consuming
	// one extra stack element; this chain's script dialect does not
	// reproduce it, so no extra pop happens here.

	subScript := vm.subScript()
	success := true
	sigIdx, keyIdx := 0, 0
	for sigIdx < len(sigs) {
		if keyIdx >= len(pubKeys) {
			success = false
			break
		}
		sigBytes := sigs[sigIdx]
		if len(sigBytes) == 0 {
			keyIdx++
			continue
		}
		hashType := SigHashType(sigBytes[len(sigBytes)-1])
		sig := sigBytes[:len(sigBytes)-1]
		ok, cerr := vm.checker.CheckSig(vm.scriptIdx, subScript, hashType, sig, pubKeys[keyIdx])
		if cerr == nil && ok {
			sigIdx++
		}
		keyIdx++
	}
	vm.dstack.PushBool(success && sigIdx == len(sigs))
	return nil
}

func opcodeCheckMultiSigVerify(pop *parsedOpcode, vm *Engine) error {
	if err := opcodeCheckMultiSig(pop, vm); err != nil {
		return err
	}
	return opcodeVerify(pop, vm)
}
