// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package step implements C9: the pure game-step function that advances a
// GameState by one block's worth of moves (spec §4.5). PerformStep must be
// bit-identical across implementations; it performs no I/O and depends only
// on its arguments.
package step

import (
	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/worldmap"
)

// Data bundles one block's worth of step inputs (spec §4.5 StepData):
// the name-coin amount released by any name killed this block, the
// treasure amount to distribute, the block hash (zero during the miner's
// tax probe), and the parsed moves in their transaction order.
type Data struct {
	NameCoinAmount int64
	TreasureAmount int64
	NewHash        chainhash.Hash
	Moves          []*Move
}

// BountyInfo is the loot a banking player collected this step, attached to
// the derived bounty transaction's metadata (spec §3).
type BountyInfo struct {
	state.LootInfo
	Coord state.Coord
}

// Result carries everything PerformStep produces besides the new state
// (spec §3 StepResult): bounty payouts keyed by banking player, the set of
// players killed this step, who killed each of them (empty for
// spawn-area-timeout kills), and the tax collected from killing and
// banking.
type Result struct {
	Bounties     map[state.PlayerID]BountyInfo
	KilledPlayers map[state.PlayerID]bool
	KilledBy      map[state.PlayerID][]state.PlayerID
	TaxAmount     int64
}

func newResult() *Result {
	return &Result{
		Bounties:      make(map[state.PlayerID]BountyInfo),
		KilledPlayers: make(map[state.PlayerID]bool),
		KilledBy:      make(map[state.PlayerID][]state.PlayerID),
	}
}

var errInvalidMoveForState = errors.New("step: a move is not valid against the current state")

// PerformStep advances inState by one block (spec §4.5's 15-step pipeline).
// It fails closed: any move invalid against inState aborts the whole step,
// which the caller must treat as rejecting the containing block.
func PerformStep(inState *state.GameState, data Data, forks chaincfg.ForkHeights) (*state.GameState, *Result, error) {
	for _, m := range data.Moves {
		if !isValidAgainstState(m, inState) {
			return nil, nil, errInvalidMoveForState
		}
	}

	outState := inState.Clone()
	outState.Height = inState.Height + 1
	outState.BlockHash = data.NewHash

	result := newResult()

	// Step 3: attacks. Attacker and victim must differ in color, be within
	// Chebyshev distance 1, and the victim must not be standing in a spawn
	// area. Every valid hit on a victim this block is collected before any
	// killed-or-not decision is made, so which attacking move happens to be
	// ordered first never changes the outcome.
	hits := make(map[state.PlayerID][]state.PlayerID)
	for _, m := range data.Moves {
		if m.Kind() != KindAttack {
			continue
		}
		attacker, ok := inState.Players[m.Player]
		if !ok {
			continue
		}
		victimID := m.Victim
		victim, ok := inState.Players[victimID]
		if !ok {
			continue
		}
		if attacker.Color == victim.Color {
			continue
		}
		ag, vg := attacker.General(), victim.General()
		if ag == nil || vg == nil {
			continue
		}
		if chebyshev(ag.Coord, vg.Coord) > 1 {
			continue
		}
		if worldmap.IsInSpawnArea(vg.Coord.X, vg.Coord.Y) {
			continue
		}
		hits[victimID] = append(hits[victimID], m.Player)
		if out, ok := outState.Players[m.Player]; ok {
			if g := out.General(); g != nil {
				g.StopMoving()
			}
		}
	}

	// Pre-LESSHEARTS fork a hit costs the victim a heart and only kills once
	// the last one is spent; after the fork every hit is lethal (spec §12's
	// heart/life supplemented feature).
	lessHeartsActive := forks.Active(outState.Height, forks.LessHearts)
	for victimID, attackers := range hits {
		dead := lessHeartsActive
		if !dead {
			if outVictim, ok := outState.Players[victimID]; ok {
				outVictim.RemainingLife -= int32(len(attackers))
				dead = outVictim.RemainingLife <= 0
			}
		}
		if dead {
			result.KilledPlayers[victimID] = true
			result.KilledBy[victimID] = append(result.KilledBy[victimID], attackers...)
		}
	}

	// Step 4: spawn-area dwell timeout.
	for id, p := range outState.Players {
		g := p.General()
		if g == nil {
			continue
		}
		if worldmap.IsInSpawnArea(g.Coord.X, g.Coord.Y) {
			g.StayInSpawn++
			if g.StayInSpawn >= chaincfg.MaxStayInSpawnArea {
				result.KilledPlayers[id] = true
			}
		} else {
			g.StayInSpawn = 0
		}
	}

	// Step 5: drop loot from killed characters, taxing player kills 4%.
	for victimID := range result.KilledPlayers {
		victim, ok := inState.Players[victimID]
		if !ok {
			continue
		}
		g := victim.General()
		if g == nil {
			continue
		}
		amount := data.NameCoinAmount + g.CarriedLoot.Amount
		if killers := result.KilledBy[victimID]; len(killers) > 0 {
			tax := amount / 25
			result.TaxAmount += tax
			amount -= tax

			// Before the POISON fork, a player kill's loot was partly
			// destroyed rather than dropped in full (spec §12's poison-fork
			// supplemented feature); the destroyed share simply vanishes.
			if !forks.Active(outState.Height, forks.Poison) {
				amount -= amount / chaincfg.PoisonDestroyDivisor
			}
		}
		outState.AddLoot(pushOutOfSpawnArea(g.Coord), amount, outState.Height)
	}

	// Step 6: apply queued waypoint updates.
	for _, m := range data.Moves {
		if m.Kind() != KindStep {
			continue
		}
		p, ok := outState.Players[m.Player]
		if !ok {
			continue
		}
		g := p.General()
		if g == nil {
			continue
		}
		g.From = g.Coord
		g.Target = state.Coord{X: m.TargetX, Y: m.TargetY}
	}

	// Step 7: remove killed characters.
	for victimID := range result.KilledPlayers {
		delete(outState.Players, victimID)
	}

	// Step 8: movement, one tile per character toward its waypoint.
	for _, p := range outState.Players {
		g := p.General()
		if g == nil {
			continue
		}
		moveTowardsWaypoint(g)
	}

	// Step 9: banking. Characters on a spawn tile bank loot, taxed 10%.
	// This must not depend on the RNG: miners need to be able to compute
	// tax before the block hash (and thus the RNG seed) is known.
	for id, p := range outState.Players {
		g := p.General()
		if g == nil || g.CarriedLoot.Amount <= 0 || !worldmap.IsInSpawnArea(g.Coord.X, g.Coord.Y) {
			continue
		}
		tax := g.CarriedLoot.Amount / 10
		result.TaxAmount += tax
		g.CarriedLoot.Amount -= tax
		result.Bounties[id] = BountyInfo{LootInfo: g.CarriedLoot, Coord: g.Coord}
		g.CarriedLoot = state.LootInfo{}
	}

	// Step 10: miner tax probe. A zero hash means the caller only wants
	// the tax total to size the coinbase allowance.
	if outState.BlockHash == chainhash.Zero {
		return outState, result, nil
	}

	rnd := newRandomGenerator(outState.BlockHash)

	// Step 12: spawn new players. Pre-LESSHEARTS fork a fresh character
	// carries a full set of hearts; after it, one hit is always lethal, so
	// a single heart reports accurately over game_getplayerstate.
	startingLife := int32(1)
	if !lessHeartsActive {
		startingLife = chaincfg.StartingHearts
	}
	for _, m := range data.Moves {
		if m.Kind() != KindSpawn {
			continue
		}
		if _, exists := outState.Players[m.Player]; exists {
			continue
		}
		outState.Players[m.Player] = spawnPlayer(m.Color, rnd, startingLife)
	}

	// Step 13: apply common move fields (message, address, addressLock).
	for _, m := range data.Moves {
		p, ok := outState.Players[m.Player]
		if !ok {
			continue
		}
		if m.Message != nil {
			p.Message = *m.Message
			p.MessageBlock = outState.Height
		}
		if m.Address != nil {
			p.RewardAddr = *m.Address
		}
		if m.AddressLock != nil {
			p.AddressLock = *m.AddressLock
		}
	}

	// Step 14: distribute treasure across the harvest areas.
	var totalTreasure int64
	for i := 0; i < worldmap.NumHarvestAreas; i++ {
		area := worldmap.HarvestAreas[i]
		var harvest state.Coord
		for {
			harvest = state.Coord{
				X: area.X + rnd.getIntRnd(area.W),
				Y: area.Y + rnd.getIntRnd(area.H),
			}
			if worldmap.IsWalkable(harvest.X, harvest.Y) {
				break
			}
		}
		share := int64(area.Fraction) * data.TreasureAmount / worldmap.TotalHarvest
		outState.AddLoot(harvest, share, outState.Height)
		totalTreasure += share
	}
	_ = totalTreasure // invariant: totalTreasure == data.TreasureAmount given exact-division harvest fractions

	// Step 15: players standing on a loot tile collect it, split evenly
	// (by iteration order, for deterministic remainder handling) among
	// every player sharing the tile.
	collectLoot(outState)

	return outState, result, nil
}

func chebyshev(a, b state.Coord) int32 {
	dx := absInt32(a.X - b.X)
	dy := absInt32(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// pushOutOfSpawnArea nudges a death's drop location one tile off the map
// border so it doesn't land inside the (also-a-bank) spawn strip (spec §4.5
// step 5).
func pushOutOfSpawnArea(c state.Coord) state.Coord {
	if !worldmap.IsInSpawnArea(c.X, c.Y) {
		return c
	}
	switch {
	case c.X == 0 && c.Y == 0:
		return state.Coord{X: c.X + 1, Y: c.Y + 1}
	case c.X == 0 && c.Y == worldmap.Height-1:
		return state.Coord{X: c.X + 1, Y: c.Y - 1}
	case c.X == 0:
		return state.Coord{X: c.X + 1, Y: c.Y}
	case c.X == worldmap.Width-1 && c.Y == 0:
		return state.Coord{X: c.X - 1, Y: c.Y + 1}
	case c.X == worldmap.Width-1 && c.Y == worldmap.Height-1:
		return state.Coord{X: c.X - 1, Y: c.Y - 1}
	case c.X == worldmap.Width-1:
		return state.Coord{X: c.X - 1, Y: c.Y}
	case c.Y == 0:
		return state.Coord{X: c.X, Y: c.Y + 1}
	case c.Y == worldmap.Height-1:
		return state.Coord{X: c.X, Y: c.Y - 1}
	default:
		return c
	}
}

// moveTowardsWaypoint advances g one tile toward g.Target along the
// straight line from g.From, using the same integer incremental-error line
// algorithm as the original (spec §4.5 step 8).
func moveTowardsWaypoint(g *state.CharacterState) {
	if g.Target == g.Coord {
		return
	}

	dx := g.Target.X - g.From.X
	dy := g.Target.Y - g.From.Y

	var next state.Coord
	if absInt32(dx) > absInt32(dy) {
		next.X = coordStep(g.Coord.X, g.Target.X)
		next.Y = coordUpdate(next.X, g.Coord.Y, dx, dy, g.From.X, g.From.Y)
	} else {
		next.Y = coordStep(g.Coord.Y, g.Target.Y)
		next.X = coordUpdate(next.Y, g.Coord.X, dy, dx, g.From.Y, g.From.X)
	}

	if !worldmap.IsWalkable(next.X, next.Y) {
		g.StopMoving()
		return
	}

	newDir := direction(g.Coord, next)
	if newDir != 5 {
		g.Dir = newDir
	}
	g.Coord = next
}

func coordStep(x, target int32) int32 {
	switch {
	case x < target:
		return x + 1
	case x > target:
		return x - 1
	default:
		return x
	}
}

// coordUpdate computes the secondary axis' new value from the primary
// axis' just-taken step, using the line's slope (du, dv) and its starting
// point (fromU, fromV); this is the "for the other axis" half of spec
// §4.5 step 8's description.
func coordUpdate(u, v, du, dv, fromU, fromV int32) int32 {
	if dv == 0 {
		return v
	}
	tmp := (u - fromU) * dv
	res := (absInt32(tmp) + absInt32(du)/2) / du
	if tmp < 0 {
		res = -res
	}
	return res + fromV
}

// direction returns the numeric-keypad direction (1-9) from c1 to c2.
func direction(c1, c2 state.Coord) int32 {
	dx := clampStep(c2.X - c1.X)
	dy := clampStep(c2.Y - c1.Y)
	return (1-dy)*3 + dx + 2
}

func clampStep(d int32) int32 {
	switch {
	case d < -1:
		return -1
	case d > 1:
		return 1
	default:
		return d
	}
}

func spawnPlayer(color int32, rnd *randomGenerator, startingLife int32) *state.PlayerState {
	p := &state.PlayerState{
		Color:         color,
		Characters:    make(map[state.CharIndex]*state.CharacterState),
		RemainingLife: startingLife,
	}

	pos := rnd.getIntRnd(2*chaincfg.SpawnAreaLength - 1)
	var x, y int32
	if pos < chaincfg.SpawnAreaLength {
		x, y = pos, 0
	} else {
		x, y = 0, pos-chaincfg.SpawnAreaLength
	}

	var coord state.Coord
	switch color {
	case 0: // yellow, top-left
		coord = state.Coord{X: x, Y: y}
	case 1: // red, top-right
		coord = state.Coord{X: worldmap.Width - 1 - x, Y: y}
	case 2: // green, bottom-right
		coord = state.Coord{X: worldmap.Width - 1 - x, Y: worldmap.Height - 1 - y}
	default: // blue, bottom-left
		coord = state.Coord{X: x, Y: worldmap.Height - 1 - y}
	}

	dir := int32(5)
	switch {
	case coord.X == 0 && coord.Y == 0:
		dir = 3
	case coord.X == 0 && coord.Y == worldmap.Height-1:
		dir = 9
	case coord.X == 0:
		dir = 6
	case coord.X == worldmap.Width-1 && coord.Y == 0:
		dir = 1
	case coord.X == worldmap.Width-1 && coord.Y == worldmap.Height-1:
		dir = 7
	case coord.X == worldmap.Width-1:
		dir = 4
	case coord.Y == 0:
		dir = 2
	case coord.Y == worldmap.Height-1:
		dir = 8
	}

	general := &state.CharacterState{Coord: coord, From: coord, Target: coord, Dir: dir}
	p.Characters[state.GeneralIndex] = general
	return p
}

// collectLoot implements spec §4.5 step 15: every player standing on a
// loot tile collects an equal share of it, processed in deterministic
// player-ID order so a remainder from integer division always lands the
// same way.
func collectLoot(s *state.GameState) {
	occupants := make(map[state.Coord]int)
	for _, p := range s.Players {
		g := p.General()
		if g == nil {
			continue
		}
		if _, ok := s.Loot[g.Coord]; ok {
			occupants[g.Coord]++
		}
	}

	for _, id := range s.SortedPlayerIDs() {
		p := s.Players[id]
		g := p.General()
		if g == nil {
			continue
		}
		remaining, ok := occupants[g.Coord]
		if !ok || remaining == 0 {
			continue
		}
		info := s.Loot[g.Coord]
		share := info.Amount / int64(remaining)
		occupants[g.Coord] = remaining - 1
		if share > 0 {
			g.CarriedLoot.Amount += share
			g.CarriedLoot.FirstBlock = info.FirstBlock
			g.CarriedLoot.LastBlock = s.Height
			s.AddLoot(g.Coord, -share, s.Height)
		}
	}
}

// IsMoveValid reports whether m is still valid against s (spec §4.8's
// `IsMoveValid(currentGameState, tx)`): the mempool calls this to revalidate
// a move-carrying transaction's move against the chain's current game state
// before relaying it, independent of whether the move would also survive
// into the next connected block.
func IsMoveValid(m *Move, s *state.GameState) bool {
	return isValidAgainstState(m, s)
}

// isValidAgainstState performs the contextual half of move validation
// (spec §4.5): existence/non-existence of the acting player as the move
// kind requires, and (for attacks) that the named victim is a known
// player.
func isValidAgainstState(m *Move, s *state.GameState) bool {
	_, exists := s.Players[m.Player]
	switch m.Kind() {
	case KindSpawn:
		return !exists
	case KindEmpty, KindStep, KindAttack:
		if !exists {
			return false
		}
		if m.Kind() == KindAttack {
			_, victimExists := s.Players[m.Victim]
			return victimExists
		}
		if m.Kind() == KindStep {
			return worldmap.IsInsideMap(m.TargetX, m.TargetY)
		}
		return true
	default:
		return false
	}
}
