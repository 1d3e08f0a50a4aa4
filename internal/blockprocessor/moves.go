package blockprocessor

import (
	"github.com/chronokings/huntercoin-sub000/internal/consensus"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/step"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// extractMoves scans block's name-operation outputs for moves (spec §4.4,
// §4.5): every name_update (and name_firstupdate) output whose name decodes
// to a player ID carries that player's move for this block, JSON-encoded in
// the name's value. A block may carry at most one move per player; a second
// one is a consensus violation rather than a later-wins overwrite, matching
// the original game step validator's per-block duplicate rejection.
func extractMoves(block *wire.MsgBlock) ([]*step.Move, error) {
	seen := make(map[state.PlayerID]bool)
	var moves []*step.Move

	for _, tx := range block.Transactions {
		for _, out := range tx.TxOut {
			parsed, ok := script.ParseNameScript(out.PkScript)
			if !ok {
				continue
			}
			if parsed.Op != script.NameOpFirstUpdate && parsed.Op != script.NameOpUpdate {
				continue
			}
			player := state.PlayerID(parsed.Name)
			if !step.IsValidPlayerName(player) {
				continue
			}

			if seen[player] {
				return nil, consensus.NewRuleError(consensus.ErrNameRuleViolation,
					"block carries more than one move for the same player")
			}
			seen[player] = true

			move, err := step.ParseMove(player, parsed.Value)
			if err != nil {
				return nil, consensus.NewRuleError(consensus.ErrInvalidMove, err.Error())
			}
			moves = append(moves, move)
		}
	}

	return moves, nil
}
