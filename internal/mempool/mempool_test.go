package mempool

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/script"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

func p2pkhScript() []byte {
	out := []byte{script.OpDup, script.OpHash160, 0x14}
	out = append(out, make([]byte, 20)...)
	out = append(out, script.OpEqualVerify, script.OpCheckSig)
	return out
}

func nameUpdateScript(t *testing.T, value string) []byte {
	t.Helper()
	out := []byte{script.OpNameUpdate, 6}
	out = append(out, "player"...)
	out = append(out, byte(len(value)))
	out = append(out, value...)
	out = append(out, script.Op2Drop)
	out = append(out, p2pkhScript()...)
	return out
}

func TestTxSigOps_CountsOneCheckSigPerP2PKHOutput(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []*wire.TxOut{
		{Value: 1, PkScript: p2pkhScript()},
		{Value: 1, PkScript: p2pkhScript()},
	}}
	assert.Equal(t, 2, txSigOps(tx))
}

func TestGetMinFee_FreeBelowOneKilobyte(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []*wire.TxOut{{Value: chaincfg.Coin, PkScript: p2pkhScript()}}}
	assert.Zero(t, getMinFee(tx, 500))
}

func TestGetMinFee_ChargesRelayFeePerKilobyteAboveOneKilobyte(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []*wire.TxOut{{Value: chaincfg.Coin, PkScript: p2pkhScript()}}}
	assert.EqualValues(t, 2*minRelayTxFee, getMinFee(tx, 1000))
	assert.EqualValues(t, 3*minRelayTxFee, getMinFee(tx, 2000))
}

func TestGetMinFee_AddsDustPenaltyPerSubCentOutput(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []*wire.TxOut{
		{Value: cent - 1, PkScript: p2pkhScript()},
		{Value: chaincfg.Coin, PkScript: p2pkhScript()},
	}}
	// base fee at this size is 2*minRelayTxFee, plus one dust-output penalty.
	assert.EqualValues(t, 3*minRelayTxFee, getMinFee(tx, 1000))
}

func TestGetMinFee_EnforcesNameUpdateMinimumFee(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []*wire.TxOut{{Value: chaincfg.NameCoinAmount, PkScript: nameUpdateScript(t, `{"x":1}`)}}}
	want := chaincfg.NameUpdateMinFee(len(`{"x":1}`))
	assert.Equal(t, want, getMinFee(tx, 500))
}

func TestChargeFreeBudget_RejectsOnceBucketOverflows(t *testing.T) {
	p := &Pool{nowFunc: func() time.Time { return time.Unix(0, 0) }}
	require.NoError(t, p.chargeFreeBudget(freeRelayLimit+1))
	assert.ErrorIs(t, p.chargeFreeBudget(1), errRateLimited)
}

func TestChargeFreeBudget_DecaysOverElapsedTime(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	p := &Pool{nowFunc: func() time.Time { return now }}
	require.NoError(t, p.chargeFreeBudget(freeRelayLimit))

	now = start.Add(600 * time.Second) // one decay time-constant
	require.NoError(t, p.chargeFreeBudget(1))
	want := float64(freeRelayLimit)*math.Pow(freeRelayDecayPerSecond, 600) + 1
	assert.InDelta(t, want, p.freeCount, 1)
}

func TestRemoveConflicts_EvictsPoolEntrySpendingAMinedOutpoint(t *testing.T) {
	p := New(nil, nil)
	spent := wire.Outpoint{TxID: chainhash.Hash{1}, Index: 0}
	tx := &wire.MsgTx{TxIn: []*wire.TxIn{{PreviousOutpoint: spent}}, TxOut: []*wire.TxOut{{Value: 1, PkScript: p2pkhScript()}}}
	txid := tx.TxHash()
	p.txs[txid] = &Entry{Tx: tx}
	p.spentBy[spent] = txid

	block := &wire.MsgBlock{Transactions: []*wire.MsgTx{
		{TxIn: []*wire.TxIn{{PreviousOutpoint: spent}}, TxOut: []*wire.TxOut{{Value: 1, PkScript: p2pkhScript()}}},
	}}
	p.RemoveConflicts(block)

	assert.Equal(t, 0, p.Size())
	_, stillSpent := p.spentBy[spent]
	assert.False(t, stillSpent)
}

func TestResurrect_SkipsCoinbaseAndGameTransactions(t *testing.T) {
	normal := &wire.MsgTx{TxIn: []*wire.TxIn{{PreviousOutpoint: wire.Outpoint{Index: 0}}}, TxOut: []*wire.TxOut{{Value: 1, PkScript: p2pkhScript()}}}
	coinbase := &wire.MsgTx{TxIn: []*wire.TxIn{{PreviousOutpoint: wire.Outpoint{Index: 0xffffffff}}}}
	game := &wire.MsgTx{Version: wire.GameTxVersion, TxIn: []*wire.TxIn{{PreviousOutpoint: wire.Outpoint{Index: 1}}}, TxOut: []*wire.TxOut{{Value: 1, PkScript: p2pkhScript()}}}
	block := &wire.MsgBlock{Transactions: []*wire.MsgTx{coinbase, normal, game}}

	txs := Resurrect(block)
	require.Len(t, txs, 1)
	assert.Same(t, normal, txs[0])
}
