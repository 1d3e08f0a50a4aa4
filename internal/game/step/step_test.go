// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
)

func attackFixture(t *testing.T, attackerLife, victimLife int32) *state.GameState {
	t.Helper()
	s := state.New()
	s.Height = 100

	attacker := &state.PlayerState{Color: 0, RemainingLife: attackerLife, Characters: map[state.CharIndex]*state.CharacterState{
		state.GeneralIndex: {Coord: state.Coord{X: 250, Y: 250}, From: state.Coord{X: 250, Y: 250}, Target: state.Coord{X: 250, Y: 250}},
	}}
	victim := &state.PlayerState{Color: 1, RemainingLife: victimLife, Characters: map[state.CharIndex]*state.CharacterState{
		state.GeneralIndex: {Coord: state.Coord{X: 251, Y: 250}, From: state.Coord{X: 251, Y: 250}, Target: state.Coord{X: 251, Y: 250}},
	}}
	s.Players["attacker"] = attacker
	s.Players["victim"] = victim
	return s
}

func attackMove(t *testing.T) *Move {
	t.Helper()
	m, err := ParseMove("attacker", []byte(`{"attack":"victim"}`))
	require.NoError(t, err)
	return m
}

func stepData(moves ...*Move) Data {
	return Data{NewHash: chainhash.Hash{1}, Moves: moves}
}

func TestPerformStep_AttackInstantlyLethalAfterLessHeartsFork(t *testing.T) {
	in := attackFixture(t, 3, 3)
	forks := chaincfg.ForkHeights{LessHearts: 0} // active at height 100

	out, result, err := PerformStep(in, stepData(attackMove(t)), forks)
	require.NoError(t, err)

	assert.True(t, result.KilledPlayers["victim"])
	assert.Equal(t, []state.PlayerID{"attacker"}, result.KilledBy["victim"])
	_, stillAlive := out.Players["victim"]
	assert.False(t, stillAlive)
}

func TestPerformStep_AttackOnlyCostsAHeartBeforeLessHeartsFork(t *testing.T) {
	in := attackFixture(t, 3, 2)
	forks := chaincfg.ForkHeights{LessHearts: 1000} // not yet active at height 100

	out, result, err := PerformStep(in, stepData(attackMove(t)), forks)
	require.NoError(t, err)

	assert.False(t, result.KilledPlayers["victim"])
	victim, ok := out.Players["victim"]
	require.True(t, ok)
	assert.EqualValues(t, 1, victim.RemainingLife)
}

func TestPerformStep_LastHeartLostKillsVictim(t *testing.T) {
	in := attackFixture(t, 3, 1)
	forks := chaincfg.ForkHeights{LessHearts: 1000}

	out, result, err := PerformStep(in, stepData(attackMove(t)), forks)
	require.NoError(t, err)

	assert.True(t, result.KilledPlayers["victim"])
	_, stillAlive := out.Players["victim"]
	assert.False(t, stillAlive)
}

func TestPerformStep_TwoAttackersInOneBlockShareTheKill(t *testing.T) {
	in := state.New()
	in.Height = 100
	in.Players["victim"] = &state.PlayerState{Color: 1, RemainingLife: 2, Characters: map[state.CharIndex]*state.CharacterState{
		state.GeneralIndex: {Coord: state.Coord{X: 251, Y: 250}, From: state.Coord{X: 251, Y: 250}, Target: state.Coord{X: 251, Y: 250}},
	}}
	in.Players["a1"] = &state.PlayerState{Color: 0, Characters: map[state.CharIndex]*state.CharacterState{
		state.GeneralIndex: {Coord: state.Coord{X: 250, Y: 250}, From: state.Coord{X: 250, Y: 250}, Target: state.Coord{X: 250, Y: 250}},
	}}
	in.Players["a2"] = &state.PlayerState{Color: 2, Characters: map[state.CharIndex]*state.CharacterState{
		state.GeneralIndex: {Coord: state.Coord{X: 251, Y: 251}, From: state.Coord{X: 251, Y: 251}, Target: state.Coord{X: 251, Y: 251}},
	}}

	m1, err := ParseMove("a1", []byte(`{"attack":"victim"}`))
	require.NoError(t, err)
	m2, err := ParseMove("a2", []byte(`{"attack":"victim"}`))
	require.NoError(t, err)

	forks := chaincfg.ForkHeights{LessHearts: 1000}
	_, result, err := PerformStep(in, stepData(m1, m2), forks)
	require.NoError(t, err)

	assert.True(t, result.KilledPlayers["victim"])
	assert.ElementsMatch(t, []state.PlayerID{"a1", "a2"}, result.KilledBy["victim"])
}

func TestPerformStep_PoisonForkDestroysHalfOfAPlayerKillsLoot(t *testing.T) {
	in := attackFixture(t, 3, 1)
	in.Players["victim"].Characters[state.GeneralIndex].CarriedLoot.Amount = 1000

	forks := chaincfg.ForkHeights{LessHearts: 1000, Poison: 1000} // not yet active at height 100
	out, result, err := PerformStep(in, stepData(attackMove(t)), forks)
	require.NoError(t, err)

	require.True(t, result.KilledPlayers["victim"])
	// 1000 loot, 4% kill tax -> 960, then pre-fork poison destroys half -> 480 dropped.
	assert.EqualValues(t, 40, result.TaxAmount)
	var dropped int64
	for _, info := range out.Loot {
		dropped += info.Amount
	}
	assert.EqualValues(t, 480, dropped)
}

func TestPerformStep_NoPoisonDestructionAfterForkActivates(t *testing.T) {
	in := attackFixture(t, 3, 1)
	in.Players["victim"].Characters[state.GeneralIndex].CarriedLoot.Amount = 1000

	forks := chaincfg.ForkHeights{LessHearts: 1000, Poison: 0} // active at height 100
	out, result, err := PerformStep(in, stepData(attackMove(t)), forks)
	require.NoError(t, err)

	require.True(t, result.KilledPlayers["victim"])
	assert.EqualValues(t, 40, result.TaxAmount)
	var dropped int64
	for _, info := range out.Loot {
		dropped += info.Amount
	}
	assert.EqualValues(t, 960, dropped)
}

func TestPerformStep_SpawnGrantsStartingHeartsBeforeLessHeartsFork(t *testing.T) {
	in := state.New()
	in.Height = 100
	m, err := ParseMove("newbie", []byte(`{"color":0}`))
	require.NoError(t, err)

	forks := chaincfg.ForkHeights{LessHearts: 1000}
	out, _, err := PerformStep(in, stepData(m), forks)
	require.NoError(t, err)

	p, ok := out.Players["newbie"]
	require.True(t, ok)
	assert.EqualValues(t, chaincfg.StartingHearts, p.RemainingLife)
}

func TestPerformStep_SpawnGrantsSingleHeartAfterLessHeartsFork(t *testing.T) {
	in := state.New()
	in.Height = 100
	m, err := ParseMove("newbie", []byte(`{"color":0}`))
	require.NoError(t, err)

	forks := chaincfg.ForkHeights{LessHearts: 0}
	out, _, err := PerformStep(in, stepData(m), forks)
	require.NoError(t, err)

	p, ok := out.Players["newbie"]
	require.True(t, ok)
	assert.EqualValues(t, 1, p.RemainingLife)
}

func TestPerformStep_RejectsMoveFromUnknownPlayer(t *testing.T) {
	in := state.New()
	in.Height = 100
	m, err := ParseMove("ghost", []byte(`{"x":1,"y":1}`))
	require.NoError(t, err)

	_, _, err = PerformStep(in, stepData(m), chaincfg.ForkHeights{})
	assert.Error(t, err)
}
