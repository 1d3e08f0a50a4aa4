// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/wire"
)

// pushData encodes data as a single script push, using the minimal opcode
// for its length (direct push, OP_PUSHDATA1, OP_PUSHDATA2 or OP_PUSHDATA4).
// It is only used to build the fixed genesis coinbase scriptSig; the general
// script-building surface lives in the script package.
func pushData(data []byte) []byte {
	n := len(data)
	var buf []byte
	switch {
	case n < 0x4c:
		buf = append(buf, byte(n))
	case n <= 0xff:
		buf = append(buf, 0x4c, byte(n))
	case n <= 0xffff:
		buf = append(buf, 0x4d, byte(n), byte(n>>8))
	default:
		buf = append(buf, 0x4e, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return append(buf, data...)
}

// mainNetGenesisCoinbaseText is the timestamp string pushed into the
// mainnet genesis coinbase scriptSig, fixing the block's creation date to a
// point in both the Bitcoin and Litecoin chains the way Huntercoin's
// original genesis did.
const mainNetGenesisCoinbaseText = "Huntercoin genesis; Bitcoin block 283440; Litecoin block 506479"

// testNetGenesisCoinbaseText is the analogous testnet timestamp text.
const testNetGenesisCoinbaseText = "Huntercoin testnet genesis"

func genesisCoinbaseTx(text string, payTo [20]byte, netID byte, value int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)

	sigScript := pushData([]byte(text))
	txIn := wire.NewTxIn(wire.NewOutpoint(&chainhash.Hash{}, 0xffffffff), sigScript)
	tx.AddTxIn(txIn)

	pkScript := make([]byte, 0, 25)
	pkScript = append(pkScript, 0x76, 0xa9, 0x14)
	pkScript = append(pkScript, payTo[:]...)
	pkScript = append(pkScript, 0x88, 0xac)
	tx.AddTxOut(wire.NewTxOut(value, pkScript))

	return tx
}

func genesisBlock(coinbase *wire.MsgTx, timestamp time.Time, bits, nonce uint32) *wire.MsgBlock {
	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:        wire.VersionDefaultBit,
			PrevBlock:      chainhash.Hash{},
			GameMerkleRoot: chainhash.Hash{},
			Timestamp:      timestamp,
			Bits:           bits,
			Nonce:          nonce,
		},
	}
	block.AddTransaction(coinbase)
	block.Header.MerkleRoot = coinbase.TxHash()
	return block
}

// mustBlockHash computes a genesis block's identifier hash, panicking on
// error since the two hardcoded genesis headers below are always
// well-formed.
func mustBlockHash(block *wire.MsgBlock) chainhash.Hash {
	h, err := block.BlockHash()
	if err != nil {
		panic(err)
	}
	return h
}

// mainNetGenesisPayToHash160 is the HASH160 of the mainnet genesis coinbase
// payout address "HVguPy1tWgbu9cKy6YGYEJFJ6RD7z7F7MJ" (version byte 0x28).
var mainNetGenesisPayToHash160 = [20]byte{
	0xfe, 0x24, 0x35, 0xb2, 0x01, 0xd2, 0x52, 0x90, 0x53, 0x3b,
	0xda, 0xac, 0xdf, 0xe2, 0x5d, 0xc7, 0x54, 0x8b, 0x30, 0x58,
}

// testNetGenesisPayToHash160 is the HASH160 of the testnet genesis coinbase
// payout address "hRDGZuirWznh25mqZM5bKmeEAcw7dmDwUx".
var testNetGenesisPayToHash160 = [20]byte{
	0x68, 0x29, 0x1e, 0x53, 0x6b, 0x90, 0x89, 0xa6, 0x68, 0xcb,
	0xf0, 0x33, 0x10, 0x61, 0xa6, 0xe3, 0x0c, 0x8a, 0x09, 0x13,
}

// mainPowLimit is the minimum difficulty (maximum target) for SHA-256d
// blocks: 2^224-1, compact-encoded as 0x1d00ffff.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 224), big.NewInt(1))

// scryptPowLimit is the minimum difficulty for scrypt blocks, four times
// easier than the SHA-256d floor the way merge-mined auxiliary algorithms
// on this chain were calibrated.
var scryptPowLimit = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 226), big.NewInt(1))

var mainNetGenesisCoinbase = genesisCoinbaseTx(
	mainNetGenesisCoinbaseText, mainNetGenesisPayToHash160, 0x28, 85000*Coin)

var mainNetGenesisBlock = genesisBlock(
	mainNetGenesisCoinbase, time.Unix(1391199780, 0), 0x1d00ffff, 1906435634)

var testNetGenesisCoinbase = genesisCoinbaseTx(
	testNetGenesisCoinbaseText, testNetGenesisPayToHash160, 0x88, 100*Coin)

var testNetGenesisBlock = genesisBlock(
	testNetGenesisCoinbase, time.Unix(1391193136, 0), 0x1e0ffff0, 1997599826)

// MainNetParams are the consensus parameters for the production network.
var MainNetParams = &Params{
	Name:        "mainnet",
	Net:         0xd9b4bef9,
	DefaultPort: "8398",

	GenesisBlock: mainNetGenesisBlock,
	GenesisHash:  mustBlockHash(mainNetGenesisBlock),

	PowLimit:     [2]*big.Int{mainPowLimit, scryptPowLimit},
	PowLimitBits: [2]uint32{0x1d00ffff, 0x1e0ffff0},

	TargetTimePerBlock:             60,
	DifficultyAdjustmentWindowSize: 2016,
	TimestampDeviationTolerance:    7200,

	Forks: MainNetForkHeights,

	PubKeyHashAddrID: 0x28,
	AuxPowChainID:    0x0010,

	SubsidyHalvingInterval: 2100000,
}

// TestNetParams are the consensus parameters for the test network.
var TestNetParams = &Params{
	Name:        "testnet",
	Net:         0x0709110b,
	DefaultPort: "18398",

	GenesisBlock: testNetGenesisBlock,
	GenesisHash:  mustBlockHash(testNetGenesisBlock),

	PowLimit:     [2]*big.Int{mainPowLimit, scryptPowLimit},
	PowLimitBits: [2]uint32{0x1e0ffff0, 0x1e0ffff0},

	TargetTimePerBlock:             60,
	DifficultyAdjustmentWindowSize: 2016,
	TimestampDeviationTolerance:    7200,

	Forks: TestNetForkHeights,

	PubKeyHashAddrID: 0x88,
	AuxPowChainID:    0x0010,

	SubsidyHalvingInterval: 2100000,
}
