package rpc

import (
	"encoding/hex"
	"net/http"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/game/gamedb"
	"github.com/chronokings/huntercoin-sub000/internal/game/state"
	"github.com/chronokings/huntercoin-sub000/internal/game/step"
	"github.com/chronokings/huntercoin-sub000/internal/mempool"
	"github.com/chronokings/huntercoin-sub000/internal/nameindex"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
	"github.com/chronokings/huntercoin-sub000/internal/utxo"
)

// handlerFunc answers one RPC command given its decoded params.
type handlerFunc func(ctx *Context, params []interface{}) (interface{}, *HandlerError)

// handlers maps every command spec §6 names to its implementation.
var handlers = map[string]handlerFunc{
	"game_getstate":       handleGetState,
	"game_getplayerstate": handleGetPlayerState,
	"game_waitforchange":  handleWaitForChange,
	"name_show":           handleNameShow,
	"name_history":        handleNameHistory,
	"name_scan":           handleNameScan,
	"name_list":           handleNameScan,
	"name_pending":        handleNamePending,
	"prune_gamedb":        handlePruneGamedb,
	"prune_nameindex":     handlePruneNameindex,
	"analyseutxo":         handleAnalyseUTXO,
	"deletetransaction":   handleDeleteTransaction,
}

func paramString(params []interface{}, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	s, ok := params[i].(string)
	return s, ok
}

func paramInt(params []interface{}, i int) (int32, bool) {
	if i >= len(params) {
		return 0, false
	}
	switch v := params[i].(type) {
	case float64:
		return int32(v), true
	case int:
		return int32(v), true
	}
	return 0, false
}

// resolveHeight returns the height named by params[i], or the current best
// chain tip's height if the argument is absent (spec §6's "[h]" optional
// height argument pattern shared by game_getstate and game_getplayerstate).
func resolveHeight(ctx *Context, params []interface{}, i int) (int32, bool) {
	if h, ok := paramInt(params, i); ok {
		return h, true
	}
	tip := ctx.Index.Tip()
	node, ok := ctx.Index.Node(tip)
	if !ok {
		return -1, true
	}
	return node.Height, true
}

// handleGetState implements game_getstate [h].
func handleGetState(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	height, _ := resolveHeight(ctx, params, 0)
	gs, err := ctx.stateAtHeight(height)
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	if gs == nil {
		return nil, errNoSuchSnapshot
	}
	return gameStateResult(gs), nil
}

// handleGetPlayerState implements game_getplayerstate <name> [h].
func handleGetPlayerState(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	name, ok := paramString(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "game_getplayerstate requires a player name")
	}
	height, _ := resolveHeight(ctx, params, 1)
	gs, err := ctx.stateAtHeight(height)
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	if gs == nil {
		return nil, errNoSuchSnapshot
	}
	player, ok := gs.Players[state.PlayerID(name)]
	if !ok {
		return nil, NewHandlerError(http.StatusNotFound, "no such player")
	}
	return playerResult(player), nil
}

// handleWaitForChange implements game_waitforchange [lastHash].
func handleWaitForChange(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	var last chainhash.Hash
	if s, ok := paramString(params, 0); ok {
		h, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return nil, NewHandlerError(http.StatusUnprocessableEntity, "lastHash is not a valid block hash")
		}
		last = *h
	}

	gs, err := ctx.waitForChange(last)
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	return gameStateResult(gs), nil
}

// handleNameShow implements name_show <name>.
func handleNameShow(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	name, ok := paramString(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "name_show requires a name")
	}

	var entry *nameindex.Entry
	err := ctx.DB.View(func(tx *storage.Tx) error {
		e, err := nameindex.ReadName(tx, []byte(name))
		entry = e
		return err
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	if entry == nil {
		return nil, NewHandlerError(http.StatusNotFound, "name not found")
	}
	return nameEntryResult([]byte(name), *entry), nil
}

// handleNameHistory implements name_history <name>.
func handleNameHistory(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	name, ok := paramString(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "name_history requires a name")
	}

	var history []nameindex.Entry
	err := ctx.DB.View(func(tx *storage.Tx) error {
		h, err := nameindex.History(tx, []byte(name))
		history = h
		return err
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}

	results := make([]NameEntryResult, len(history))
	for i, e := range history {
		results[i] = nameEntryResult([]byte(name), e)
	}
	return results, nil
}

// handleNameScan implements name_scan [start] [max] and name_list, which
// shares it, defaults included: start "" and max 500, so name_list also
// returns at most 500 names unless a larger max is passed. The original
// distinguishes the two only by default arguments, which this node's single
// JSON caller always supplies explicitly.
func handleNameScan(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	start, _ := paramString(params, 0)
	max, ok := paramInt(params, 1)
	if !ok {
		max = 500
	}

	var names [][]byte
	var entries []nameindex.Entry
	err := ctx.DB.View(func(tx *storage.Tx) error {
		n, e, err := nameindex.ScanNames(tx, []byte(start), int(max))
		names, entries = n, e
		return err
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}

	results := make([]NameEntryResult, len(names))
	for i := range names {
		results[i] = nameEntryResult(names[i], entries[i])
	}
	return results, nil
}

// handleNamePending implements name_pending: every name-operation output
// currently sitting in the mempool.
func handleNamePending(ctx *Context, _ []interface{}) (interface{}, *HandlerError) {
	if ctx.Pool == nil {
		return []NameEntryResult{}, nil
	}
	return pendingNameOps(ctx.Pool), nil
}

// handlePruneGamedb implements prune_gamedb <depth>: drop every non-
// checkpoint game-state snapshot older than depth blocks behind the tip.
func handlePruneGamedb(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	depth, ok := paramInt(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "prune_gamedb requires a depth")
	}
	tipHeight, ok := resolveHeight(ctx, nil, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusInternalServerError, "no best chain tip")
	}

	err := ctx.DB.Update(func(tx *storage.Tx) error {
		return gamedb.Prune(tx, 0, tipHeight-depth)
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	return true, nil
}

// handlePruneNameindex implements prune_nameindex <depth>: drop name-
// history entries older than depth blocks behind the tip, keeping each
// name's most recent entry regardless.
func handlePruneNameindex(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	depth, ok := paramInt(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "prune_nameindex requires a depth")
	}
	tipHeight, ok := resolveHeight(ctx, nil, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusInternalServerError, "no best chain tip")
	}

	err := ctx.DB.Update(func(tx *storage.Tx) error {
		return nameindex.Prune(tx, tipHeight-depth)
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	return true, nil
}

// handleAnalyseUTXO implements analyseutxo: the money-supply sweep spec §8
// uses to check `Σ UTXO + Σ loot + Σ gameFund + Σ characterLoot - Σ inNames`.
func handleAnalyseUTXO(ctx *Context, _ []interface{}) (interface{}, *HandlerError) {
	var stats utxo.Stats
	err := ctx.DB.View(func(tx *storage.Tx) error {
		s, err := utxo.Analyse(tx)
		stats = s
		return err
	})
	if err != nil {
		return nil, NewHandlerError(http.StatusInternalServerError, err.Error())
	}
	return UTXOStatsResult{
		Count:         stats.Count,
		TotalAmount:   stats.TotalAmount,
		InNamesAmount: stats.InNamesAmount,
	}, nil
}

// handleDeleteTransaction implements deletetransaction <txid>: an admin
// escape hatch that drops a stuck transaction from the mempool without
// waiting out its rate-limit or conflict status. It never touches
// confirmed state, so it cannot affect consensus.
func handleDeleteTransaction(ctx *Context, params []interface{}) (interface{}, *HandlerError) {
	txidStr, ok := paramString(params, 0)
	if !ok {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "deletetransaction requires a txid")
	}
	txid, err := chainhash.NewHashFromStr(txidStr)
	if err != nil {
		return nil, NewHandlerError(http.StatusUnprocessableEntity, "txid is not a valid hash")
	}
	if ctx.Pool == nil {
		return nil, NewHandlerError(http.StatusServiceUnavailable, "mempool is not available")
	}
	ctx.Pool.Remove(*txid)
	return true, nil
}

// pendingNameOps scans every pending transaction's outputs for a name
// operation, the data name_pending reports (spec §6).
func pendingNameOps(pool *mempool.Pool) []NameEntryResult {
	var results []NameEntryResult
	for _, entry := range pool.Entries() {
		for _, out := range entry.Tx.TxOut {
			parsed, ok := script.ParseNameScript(out.PkScript)
			if !ok || (parsed.Op != script.NameOpFirstUpdate && parsed.Op != script.NameOpUpdate) {
				continue
			}
			if !step.IsValidPlayerName(state.PlayerID(parsed.Name)) {
				continue
			}
			results = append(results, NameEntryResult{
				Name:  string(parsed.Name),
				Value: hex.EncodeToString(parsed.Value),
			})
		}
	}
	return results
}
