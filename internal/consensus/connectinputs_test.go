// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// nameUpdateScript builds a NAME_UPDATE <name> <value> OP_2DROP <p2pkh>
// script, encoding each push as a single OP_DATA_n opcode since name and
// value are always well under the 76-byte cutoff where that stops working.
func nameUpdateScript(t *testing.T, name, value string) []byte {
	t.Helper()
	var out []byte
	out = append(out, script.OpNameUpdate)
	out = append(out, byte(len(name)))
	out = append(out, name...)
	out = append(out, byte(len(value)))
	out = append(out, value...)
	out = append(out, script.Op2Drop)
	out = append(out, script.OpDup, script.OpHash160, 0x14)
	out = append(out, make([]byte, 20)...)
	out = append(out, script.OpEqualVerify, script.OpCheckSig)
	return out
}

func nameUpdateTx(t *testing.T, amount int64) *wire.MsgTx {
	t.Helper()
	return &wire.MsgTx{
		TxOut: []*wire.TxOut{
			{Value: amount, PkScript: nameUpdateScript(t, "player", `{"x":1}`)},
		},
	}
}

func TestCheckNameTransition_UpdateRequiresExactAmountBeforeLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 1000}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpFirstUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.NoError(t, err)
}

func TestCheckNameTransition_UpdateRejectsIncreaseBeforeLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 1000}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount+1)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpFirstUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.Error(t, err)
	assert.True(t, IsRuleError(err, ErrNameRuleViolation))
}

func TestCheckNameTransition_UpdateRejectsDecreaseBeforeLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 1000}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount-1)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpFirstUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.Error(t, err)
	assert.True(t, IsRuleError(err, ErrNameRuleViolation))
}

func TestCheckNameTransition_UpdateAllowsIncreaseAfterLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 0}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount+1)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpFirstUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.NoError(t, err)
}

func TestCheckNameTransition_UpdateAllowsUnchangedAmountAfterLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 0}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.NoError(t, err)
}

func TestCheckNameTransition_UpdateStillRejectsDecreaseAfterLifeStealFork(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 0}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount-1)
	err := checkNameTransition(tx, params, 100, 1, script.NameOpUpdate, nil, 50, chaincfg.NameCoinAmount)
	assert.Error(t, err)
	assert.True(t, IsRuleError(err, ErrNameRuleViolation))
}

func TestCheckNameTransition_UpdateRejectsWithoutPriorRegistration(t *testing.T) {
	params := &chaincfg.Params{Forks: chaincfg.ForkHeights{LifeSteal: 1000}}

	tx := nameUpdateTx(t, chaincfg.NameCoinAmount)
	err := checkNameTransition(tx, params, 100, 0, script.NameOpNone, nil, 0, 0)
	assert.Error(t, err)
	assert.True(t, IsRuleError(err, ErrNameRuleViolation))
}
