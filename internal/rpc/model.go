package rpc

import (
	"encoding/hex"
	"strconv"

	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
)

// CoordResult is the JSON form of a map tile position.
type CoordResult struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func coordResult(c state.Coord) CoordResult {
	return CoordResult{X: c.X, Y: c.Y}
}

// LootResult is the JSON form of an amount of loot and the block range it
// accumulated over.
type LootResult struct {
	Amount     int64 `json:"amount"`
	FirstBlock int32 `json:"firstblock"`
	LastBlock  int32 `json:"lastblock"`
}

func lootResult(l state.LootInfo) LootResult {
	return LootResult{Amount: l.Amount, FirstBlock: l.FirstBlock, LastBlock: l.LastBlock}
}

// CharacterResult is the JSON form of one controllable unit.
type CharacterResult struct {
	Coord       CoordResult   `json:"coord"`
	From        CoordResult   `json:"from"`
	Target      CoordResult   `json:"target"`
	Waypoints   []CoordResult `json:"waypoints"`
	Dir         int32         `json:"dir"`
	StayInSpawn int32         `json:"stayinspawn"`
	CarriedLoot LootResult    `json:"loot"`
}

func characterResult(c *state.CharacterState) CharacterResult {
	waypoints := make([]CoordResult, len(c.Waypoints))
	for i, w := range c.Waypoints {
		waypoints[i] = coordResult(w)
	}
	return CharacterResult{
		Coord:       coordResult(c.Coord),
		From:        coordResult(c.From),
		Target:      coordResult(c.Target),
		Waypoints:   waypoints,
		Dir:         c.Dir,
		StayInSpawn: c.StayInSpawn,
		CarriedLoot: lootResult(c.CarriedLoot),
	}
}

// PlayerResult is the JSON form of one player's game-visible record.
type PlayerResult struct {
	Color         int32                      `json:"color"`
	Characters    map[string]CharacterResult `json:"characters"`
	Message       string                     `json:"message,omitempty"`
	MessageBlock  int32                      `json:"messageblock,omitempty"`
	RewardAddr    string                     `json:"address"`
	AddressLock   string                     `json:"addresslock"`
	RemainingLife int32                      `json:"remaininglife"`
}

func playerResult(p *state.PlayerState) PlayerResult {
	chars := make(map[string]CharacterResult, len(p.Characters))
	for idx, c := range p.Characters {
		chars[charIndexKey(idx)] = characterResult(c)
	}
	return PlayerResult{
		Color:         p.Color,
		Characters:    chars,
		Message:       p.Message,
		MessageBlock:  p.MessageBlock,
		RewardAddr:    p.RewardAddr,
		AddressLock:   p.AddressLock,
		RemainingLife: p.RemainingLife,
	}
}

func charIndexKey(idx state.CharIndex) string {
	return strconv.Itoa(int(idx))
}

// LootTileResult pairs a map coordinate with the loot sitting on it.
type LootTileResult struct {
	Coord CoordResult `json:"coord"`
	Loot  LootResult  `json:"loot"`
}

// GameStateResult is the JSON form of a full world snapshot, the result of
// game_getstate and the per-call basis of game_getplayerstate.
type GameStateResult struct {
	Height      int32                   `json:"height"`
	BlockHash   string                  `json:"hash"`
	GameFund    int64                   `json:"gamefund"`
	CrownHolder string                  `json:"crownholder,omitempty"`
	Players     map[string]PlayerResult `json:"players"`
	Loot        []LootTileResult        `json:"loot"`
}

func gameStateResult(s *state.GameState) GameStateResult {
	players := make(map[string]PlayerResult, len(s.Players))
	for id, p := range s.Players {
		players[string(id)] = playerResult(p)
	}
	loot := make([]LootTileResult, 0, len(s.Loot))
	for _, coord := range s.SortedLootCoords() {
		loot = append(loot, LootTileResult{Coord: coordResult(coord), Loot: lootResult(s.Loot[coord])})
	}
	return GameStateResult{
		Height:      s.Height,
		BlockHash:   s.BlockHash.String(),
		GameFund:    s.GameFund,
		CrownHolder: string(s.CrownHolder),
		Players:     players,
		Loot:        loot,
	}
}

// NameEntryResult is the JSON form of one historical name-index entry, the
// element type of name_history's result list and name_show's single result.
type NameEntryResult struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Height      int32  `json:"height"`
	BlockHeight int32  `json:"txpos.blockheight"`
	TxIndex     uint32 `json:"txpos.txindex"`
	OutIndex    uint32 `json:"txpos.outindex"`
	Dead        bool   `json:"dead,omitempty"`
}

func nameEntryResult(name []byte, e nameindex.Entry) NameEntryResult {
	return NameEntryResult{
		Name:        string(name),
		Value:       hex.EncodeToString(e.Value),
		Height:      e.Height,
		BlockHeight: e.TxPos.BlockHeight,
		TxIndex:     e.TxPos.TxIndex,
		OutIndex:    e.TxPos.OutIndex,
		Dead:        e.IsDead(),
	}
}

// UTXOStatsResult is the JSON form of analyseutxo's money-supply sweep.
type UTXOStatsResult struct {
	Count         int64 `json:"utxocount"`
	TotalAmount   int64 `json:"totalamount"`
	InNamesAmount int64 `json:"innames"`
}
