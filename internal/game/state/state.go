// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package state implements C8: the pure data model of the game world at a
// given block height, and its binary serialization for snapshotting (spec
// §3 GameState/PlayerState/CharacterState/Coord).
package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// maxReadLen bounds every length-prefixed field read back by Deserialize:
// generous enough for any name, message or waypoint list this engine would
// ever produce, tight enough to reject a corrupt snapshot immediately.
const maxReadLen = 1 << 20

// Coord is a tile position on the 502x502 map. Comparisons are
// lexicographic by (y, x), matching the original's ordering so that
// iteration over a Coord-keyed map is deterministic across
// implementations.
type Coord struct {
	X, Y int32
}

// Less reports whether c sorts before other (y first, then x).
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// PlayerID is a player's unique in-game identity: the name registered via
// the name-operation chain (spec §3).
type PlayerID string

// CharIndex addresses one of a player's characters; index 0 is always the
// "general" — losing it ends the player (spec §3).
type CharIndex int

const GeneralIndex CharIndex = 0

// LootInfo records an amount of loot sitting on the map plus the block
// range over which it accumulated (spec §3, used for bounty-tx metadata).
type LootInfo struct {
	Amount     int64
	FirstBlock int32
	LastBlock  int32
}

// CharacterState is one controllable unit: its current tile, the
// from/target waypoint pair driving its motion, a facing direction (1-9 on
// a numeric keypad layout), the spawn-area dwell counter, and loot it is
// currently carrying (spec §3).
type CharacterState struct {
	Coord         Coord
	From          Coord
	Target        Coord
	Waypoints     []Coord
	Dir           int32
	StayInSpawn   int32
	CarriedLoot   LootInfo
}

// StopMoving clears a character's waypoint so it no longer advances.
func (c *CharacterState) StopMoving() {
	c.Waypoints = nil
	c.From = c.Coord
	c.Target = c.Coord
}

// PlayerState is one player's full game-visible record (spec §3):
// allegiance color, its characters (index 0 is the general), last chat
// message, reward address, and the address a name_update must be signed by
// to change the player's address fields.
type PlayerState struct {
	Color        int32
	Characters   map[CharIndex]*CharacterState
	Message      string
	MessageBlock int32
	RewardAddr   string
	AddressLock  string
	RemainingLife int32
}

// General returns the player's general character, or nil if the player has
// none (which should never happen for a live player per the
// "every alive player has characters[0]" invariant).
func (p *PlayerState) General() *CharacterState {
	return p.Characters[GeneralIndex]
}

// Clone returns a deep copy of p so PerformStep can mutate outState
// without aliasing inState.
func (p *PlayerState) Clone() *PlayerState {
	cp := *p
	cp.Characters = make(map[CharIndex]*CharacterState, len(p.Characters))
	for idx, ch := range p.Characters {
		chCopy := *ch
		chCopy.Waypoints = append([]Coord(nil), ch.Waypoints...)
		cp.Characters[idx] = &chCopy
	}
	return &cp
}

// GameState is the full world snapshot at one block height (spec §3):
// every player, loot sitting on the map, the accumulated game fund, the
// height and block hash this state was derived for, and (post-fork) the
// character holding the crown.
type GameState struct {
	Players     map[PlayerID]*PlayerState
	Loot        map[Coord]LootInfo
	GameFund    int64
	Height      int32
	BlockHash   chainhash.Hash
	CrownHolder PlayerID
}

// New returns the initial (pre-genesis) state: height -1, no players.
func New() *GameState {
	return &GameState{
		Players: make(map[PlayerID]*PlayerState),
		Loot:    make(map[Coord]LootInfo),
		Height:  -1,
	}
}

// Clone returns a deep copy, the basis PerformStep mutates to produce the
// next state without touching inState.
func (s *GameState) Clone() *GameState {
	cp := &GameState{
		Players:     make(map[PlayerID]*PlayerState, len(s.Players)),
		Loot:        make(map[Coord]LootInfo, len(s.Loot)),
		GameFund:    s.GameFund,
		Height:      s.Height,
		BlockHash:   s.BlockHash,
		CrownHolder: s.CrownHolder,
	}
	for id, p := range s.Players {
		cp.Players[id] = p.Clone()
	}
	for c, l := range s.Loot {
		cp.Loot[c] = l
	}
	return cp
}

// AddLoot adds amount of loot at coord, removing the entry entirely if the
// running total returns to zero (spec §4.5 steps 5, 9, 14).
func (s *GameState) AddLoot(coord Coord, amount int64, height int32) {
	if amount == 0 {
		return
	}
	info, ok := s.Loot[coord]
	if !ok {
		s.Loot[coord] = LootInfo{Amount: amount, FirstBlock: height, LastBlock: height}
		return
	}
	info.Amount += amount
	if info.Amount == 0 {
		delete(s.Loot, coord)
		return
	}
	info.LastBlock = height
	s.Loot[coord] = info
}

// SortedPlayerIDs returns every player ID in the deterministic order the
// step function and derived-transaction ordering depend on.
func (s *GameState) SortedPlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedLootCoords returns every loot tile in (y, x) order.
func (s *GameState) SortedLootCoords() []Coord {
	coords := make([]Coord, 0, len(s.Loot))
	for c := range s.Loot {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// Serialize writes a binary snapshot of s, the form gamedb persists for
// every connected height (spec §3 Lifecycle).
func (s *GameState) Serialize(buf *bytes.Buffer) error {
	ids := s.SortedPlayerIDs()
	if err := wire.WriteVarInt(buf, uint64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := wire.WriteVarBytes(buf, []byte(id)); err != nil {
			return err
		}
		if err := serializePlayer(buf, s.Players[id]); err != nil {
			return err
		}
	}

	coords := s.SortedLootCoords()
	if err := wire.WriteVarInt(buf, uint64(len(coords))); err != nil {
		return err
	}
	for _, c := range coords {
		if err := serializeCoord(buf, c); err != nil {
			return err
		}
		if err := serializeLoot(buf, s.Loot[c]); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(buf, uint64(s.GameFund)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(uint32(s.Height))); err != nil {
		return err
	}
	buf.Write(s.BlockHash[:])
	return wire.WriteVarBytes(buf, []byte(s.CrownHolder))
}

// Deserialize reads back a snapshot written by Serialize.
func Deserialize(r io.Reader) (*GameState, error) {
	s := New()

	nPlayers, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nPlayers; i++ {
		idBytes, err := wire.ReadVarBytes(r, maxReadLen, "playerID")
		if err != nil {
			return nil, err
		}
		p, err := deserializePlayer(r)
		if err != nil {
			return nil, err
		}
		s.Players[PlayerID(idBytes)] = p
	}

	nLoot, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nLoot; i++ {
		c, err := deserializeCoord(r)
		if err != nil {
			return nil, err
		}
		l, err := deserializeLoot(r)
		if err != nil {
			return nil, err
		}
		s.Loot[c] = l
	}

	fund, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	s.GameFund = int64(fund)

	height, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	s.Height = int32(uint32(height))

	if _, err := io.ReadFull(r, s.BlockHash[:]); err != nil {
		return nil, err
	}

	crown, err := wire.ReadVarBytes(r, maxReadLen, "crownHolder")
	if err != nil {
		return nil, err
	}
	s.CrownHolder = PlayerID(crown)

	return s, nil
}

func deserializePlayer(r io.Reader) (*PlayerState, error) {
	p := &PlayerState{Characters: make(map[CharIndex]*CharacterState)}

	color, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	p.Color = int32(color)

	nChars, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nChars; i++ {
		idx, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		c, err := deserializeCharacter(r)
		if err != nil {
			return nil, err
		}
		p.Characters[CharIndex(idx)] = c
	}

	message, err := wire.ReadVarBytes(r, maxReadLen, "message")
	if err != nil {
		return nil, err
	}
	p.Message = string(message)

	messageBlock, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	p.MessageBlock = int32(uint32(messageBlock))

	rewardAddr, err := wire.ReadVarBytes(r, maxReadLen, "rewardAddr")
	if err != nil {
		return nil, err
	}
	p.RewardAddr = string(rewardAddr)

	addressLock, err := wire.ReadVarBytes(r, maxReadLen, "addressLock")
	if err != nil {
		return nil, err
	}
	p.AddressLock = string(addressLock)

	remainingLife, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	p.RemainingLife = int32(uint32(remainingLife))

	return p, nil
}

func deserializeCharacter(r io.Reader) (*CharacterState, error) {
	c := &CharacterState{}

	var err error
	if c.Coord, err = deserializeCoord(r); err != nil {
		return nil, err
	}
	if c.From, err = deserializeCoord(r); err != nil {
		return nil, err
	}
	if c.Target, err = deserializeCoord(r); err != nil {
		return nil, err
	}

	nWaypoints, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	c.Waypoints = make([]Coord, nWaypoints)
	for i := range c.Waypoints {
		if c.Waypoints[i], err = deserializeCoord(r); err != nil {
			return nil, err
		}
	}

	dir, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	c.Dir = int32(dir)

	stay, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	c.StayInSpawn = int32(stay)

	if c.CarriedLoot, err = deserializeLoot(r); err != nil {
		return nil, err
	}
	return c, nil
}

func deserializeCoord(r io.Reader) (Coord, error) {
	x, err := wire.ReadVarInt(r)
	if err != nil {
		return Coord{}, err
	}
	y, err := wire.ReadVarInt(r)
	if err != nil {
		return Coord{}, err
	}
	return Coord{X: int32(uint32(x)), Y: int32(uint32(y))}, nil
}

func deserializeLoot(r io.Reader) (LootInfo, error) {
	amount, err := wire.ReadVarInt(r)
	if err != nil {
		return LootInfo{}, err
	}
	first, err := wire.ReadVarInt(r)
	if err != nil {
		return LootInfo{}, err
	}
	last, err := wire.ReadVarInt(r)
	if err != nil {
		return LootInfo{}, err
	}
	return LootInfo{Amount: int64(amount), FirstBlock: int32(uint32(first)), LastBlock: int32(uint32(last))}, nil
}

func serializeCoord(buf *bytes.Buffer, c Coord) error {
	if err := wire.WriteVarInt(buf, uint64(uint32(c.X))); err != nil {
		return err
	}
	return wire.WriteVarInt(buf, uint64(uint32(c.Y)))
}

func serializeLoot(buf *bytes.Buffer, l LootInfo) error {
	if err := wire.WriteVarInt(buf, uint64(l.Amount)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(uint32(l.FirstBlock))); err != nil {
		return err
	}
	return wire.WriteVarInt(buf, uint64(uint32(l.LastBlock)))
}

func serializePlayer(buf *bytes.Buffer, p *PlayerState) error {
	if err := wire.WriteVarInt(buf, uint64(p.Color)); err != nil {
		return err
	}

	idxs := make([]int, 0, len(p.Characters))
	for idx := range p.Characters {
		idxs = append(idxs, int(idx))
	}
	sort.Ints(idxs)
	if err := wire.WriteVarInt(buf, uint64(len(idxs))); err != nil {
		return err
	}
	for _, idx := range idxs {
		if err := wire.WriteVarInt(buf, uint64(idx)); err != nil {
			return err
		}
		if err := serializeCharacter(buf, p.Characters[CharIndex(idx)]); err != nil {
			return err
		}
	}

	if err := wire.WriteVarBytes(buf, []byte(p.Message)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(uint32(p.MessageBlock))); err != nil {
		return err
	}
	if err := wire.WriteVarBytes(buf, []byte(p.RewardAddr)); err != nil {
		return err
	}
	if err := wire.WriteVarBytes(buf, []byte(p.AddressLock)); err != nil {
		return err
	}
	return wire.WriteVarInt(buf, uint64(uint32(p.RemainingLife)))
}

func serializeCharacter(buf *bytes.Buffer, c *CharacterState) error {
	if err := serializeCoord(buf, c.Coord); err != nil {
		return err
	}
	if err := serializeCoord(buf, c.From); err != nil {
		return err
	}
	if err := serializeCoord(buf, c.Target); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(len(c.Waypoints))); err != nil {
		return err
	}
	for _, wp := range c.Waypoints {
		if err := serializeCoord(buf, wp); err != nil {
			return err
		}
	}
	if err := wire.WriteVarInt(buf, uint64(c.Dir)); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, uint64(c.StayInSpawn)); err != nil {
		return err
	}
	return serializeLoot(buf, c.CarriedLoot)
}
