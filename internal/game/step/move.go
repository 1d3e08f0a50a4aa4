// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package step

import (
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/game/state"
)

// playerNameRegexp enforces spec §4.5's move-validation name rule: letters,
// digits, underscore and hyphen, single spaces between words, no leading or
// trailing space.
var playerNameRegexp = regexp.MustCompile(`^([A-Za-z0-9_-]+ )*[A-Za-z0-9_-]+$`)

// IsValidPlayerName reports whether name may be used as a player identity
// (spec §4.5): matches playerNameRegexp and is at most 10 bytes, matching
// C5's name-length cap.
func IsValidPlayerName(name state.PlayerID) bool {
	s := string(name)
	return len(s) > 0 && len(s) <= 10 && playerNameRegexp.MatchString(s)
}

var errInvalidMove = errors.New("step: move is not syntactically valid")

// wireMove is the JSON shape committed into a name_update's value (spec
// §4.5): one of an empty move, a spawn, a waypoint-setting step, or an
// attack, plus any of the common address/message/addressLock fields.
type wireMove struct {
	Color       *int32  `json:"color,omitempty"`
	X           *int32  `json:"x,omitempty"`
	Y           *int32  `json:"y,omitempty"`
	Attack      *string `json:"attack,omitempty"`
	Message     *string `json:"message,omitempty"`
	Address     *string `json:"address,omitempty"`
	AddressLock *string `json:"addressLock,omitempty"`
}

// Kind discriminates the move variants a single JSON move may express.
type Kind int

const (
	KindEmpty Kind = iota
	KindSpawn
	KindStep
	KindAttack
)

// Move is one player's parsed move for a block (spec §4.5's MoveBase +
// Move hierarchy, flattened into a single struct since Go favors a
// discriminated union over subtype polymorphism here).
type Move struct {
	Player state.PlayerID

	kind Kind

	// Spawn fields.
	Color int32

	// Step fields: new waypoint target.
	TargetX, TargetY int32

	// Attack fields.
	Victim state.PlayerID

	// Common fields.
	Message     *string
	Address     *string
	AddressLock *string
}

// ParseMove decodes one player's move from the JSON committed in a
// name_update value (spec §4.5). It returns errInvalidMove for malformed
// JSON, an unrecognized field combination, or a player name that fails
// IsValidPlayerName.
func ParseMove(player state.PlayerID, value []byte) (*Move, error) {
	if !IsValidPlayerName(player) {
		return nil, errInvalidMove
	}

	var w wireMove
	if err := json.Unmarshal(value, &w); err != nil {
		return nil, errors.Wrap(errInvalidMove, err.Error())
	}

	m := &Move{Player: player, Message: w.Message, Address: w.Address, AddressLock: w.AddressLock}

	switch {
	case w.Color != nil && w.X == nil && w.Y == nil && w.Attack == nil:
		m.kind = KindSpawn
		m.Color = *w.Color
	case w.X != nil && w.Y != nil && w.Color == nil && w.Attack == nil:
		m.kind = KindStep
		m.TargetX, m.TargetY = *w.X, *w.Y
	case w.Attack != nil && w.Color == nil && w.X == nil && w.Y == nil:
		m.kind = KindAttack
		m.Victim = state.PlayerID(*w.Attack)
	case w.Color == nil && w.X == nil && w.Y == nil && w.Attack == nil:
		m.kind = KindEmpty
	default:
		return nil, errInvalidMove
	}

	return m, nil
}

// Kind reports which move variant m is.
func (m *Move) Kind() Kind {
	return m.kind
}
