// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg collects the consensus constants, per-network parameters
// and genesis blocks described in spec §6 and §8.
package chaincfg

import (
	"math/big"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// Money constants (spec §6).
const (
	// Coin is the number of base units (satoshi) in one coin.
	Coin = 100_000_000

	// MaxMoney is the maximum number of base units that may ever exist.
	MaxMoney = 21_000_000 * Coin
)

// Block and mempool limits (spec §6).
const (
	MaxBlockSize    = 1_000_000
	MaxBlockSigOps  = 20_000
	MinTxSize       = 100
	MaxStandardSize = 100_000
)

// Maturity (spec §3, §6).
const (
	CoinbaseMaturity     = 100
	GameRewardMaturity   = 100
	KeepEveryNthState    = 2000
)

// Game-world constants (spec §6).
const (
	MapWidth          = 502
	MapHeight         = 502
	SpawnAreaLength   = 9
	NumHarvestAreas   = 85
	TotalHarvest      = 900
	MaxStayInSpawnArea = 30
)

// Tax rates applied by the game step (spec §4.5), expressed as a
// numerator over a denominator of 100 to keep the arithmetic in integers.
const (
	KillTaxPercent = 4
	BankTaxPercent = 10
)

// StartingHearts is the number of hostile hits it takes the
// pre-LESSHEARTS-fork game step to kill a character; after the fork every
// hit is lethal (spec §12's heart/life supplemented feature).
const StartingHearts = 3

// PoisonDestroyDivisor is the fraction of a dead player's post-tax loot
// destroyed outright rather than dropped, before the POISON fork disables
// the mechanic (spec §12's poison-fork supplemented feature).
const PoisonDestroyDivisor = 2

// Name constants (spec §3, §4.4).
const (
	MaxNameLength  = 10
	MaxValueLength = 4095
	NameRandBytes  = 20
)

// DeadMarker is the sentinel value stored in the name index to mark a
// killed player; name_firstupdate may reuse the name once this is the
// last entry.
const DeadMarker = `{"dead":1}`

// NameCoinAmount is the fixed coin amount locked by every name
// registration and carried by its owning character until death or refund
// (spec §4.5 step 5's "including the name coin amount"). NamenewCoinAmount
// is the smaller amount a name_new itself must carry.
const (
	NameCoinAmount    = 1 * Coin
	NamenewCoinAmount = NameCoinAmount / 5
)

// MinerSubsidyFraction is the miner's share of a block's total monetary
// expansion; the remainder (9/10ths) is distributed into the game world
// as harvested treasure (spec §4.5 step 14, "miner subsidy is 10%, thus
// game treasure is 9 times the subsidy").
const MinerSubsidyFraction = 10

// GetBlockValue returns the miner's subsidy at height, halving every
// SubsidyHalvingInterval blocks, plus the fees collected in the block
// (spec §4.6).
func GetBlockValue(params *Params, height int32, fees int64) int64 {
	subsidy := int64(Coin)
	subsidy >>= uint(height / params.SubsidyHalvingInterval)
	return subsidy + fees
}

// Name-update minimum fee formula (spec §4.8, §6):
// COIN/100 + COIN/500 * (len(value)/100).
func NameUpdateMinFee(valueLen int) int64 {
	return Coin/100 + int64(Coin/500)*int64(valueLen/100)
}

// Default P2P ports (spec §6); not used directly by the consensus core but
// retained on Params for the network collaborators outside this package's
// scope.
const (
	MainNetPort = 8398
	TestNetPort = 18398
)

// ForkHeights names the block heights at which consensus-rule changes take
// effect (spec §6, GLOSSARY).
type ForkHeights struct {
	Poison       int32
	CarryingCap  int32
	LessHearts   int32
	LifeSteal    int32
	TimeSave     int32
}

// MainNetForkHeights are the fork heights on mainnet.
var MainNetForkHeights = ForkHeights{
	Poison:      255000,
	CarryingCap: 500000,
	LessHearts:  590000,
	LifeSteal:   795000,
	TimeSave:    1521500,
}

// TestNetForkHeights are the fork heights on testnet.
var TestNetForkHeights = ForkHeights{
	Poison:      190000,
	CarryingCap: 200000,
	LessHearts:  240000,
	LifeSteal:   301000,
	TimeSave:    331500,
}

// Active reports whether a fork is active at the given height (forks
// activate at, not strictly after, their named height).
func (f *ForkHeights) Active(height, forkHeight int32) bool {
	return height >= forkHeight
}

// Params defines a Huntercoin network's consensus parameters: the genesis
// block, per-algorithm proof-of-work limits, fork schedule, and address
// version byte.
type Params struct {
	Name        string
	Net         uint32
	DefaultPort string

	GenesisBlock *wire.MsgBlock
	GenesisHash  chainhash.Hash

	// PowLimit[algo] is the highest allowed target for each of the two
	// proof-of-work algorithms (spec §4.6).
	PowLimit [2]*big.Int

	// PowLimitBits[algo] is PowLimit[algo] in its compact encoding.
	PowLimitBits [2]uint32

	TargetTimePerBlock             int64 // seconds, per algorithm slot
	DifficultyAdjustmentWindowSize uint64
	TimestampDeviationTolerance    int64

	Forks ForkHeights

	// PubKeyHashAddrID is the base58check version byte for P2PKH
	// addresses on this network.
	PubKeyHashAddrID byte

	// AuxPowChainID is this chain's merge-mining chain ID. CheckAuxPow does
	// not read it: neither a header's own chain ID nor the chain-id index of
	// the commitment in a parent block's coinbase is checked against it.
	AuxPowChainID int32

	SubsidyHalvingInterval int32
}
