// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// genesis is a diagnostic tool: it recomputes both networks' hardcoded
// genesis blocks' merkle root and header hash and checks them against the
// values chaincfg bakes in, the way the teacher's own genesis tool verifies
// a freshly solved genesis block before trusting it.
package main

import (
	"fmt"
	"os"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/chronokings/huntercoin-sub000/internal/merkle"
)

func main() {
	ok := check("mainnet", chaincfg.MainNetParams)
	ok = check("testnet", chaincfg.TestNetParams) && ok
	if !ok {
		os.Exit(1)
	}
}

func check(name string, params *chaincfg.Params) bool {
	block := params.GenesisBlock

	leaves := make([]chainhash.Hash, len(block.Transactions))
	for i, tx := range block.Transactions {
		leaves[i] = tx.TxHash()
	}
	root := merkle.Root(leaves)
	if root != block.Header.MerkleRoot {
		fmt.Printf("%s: merkle root mismatch: header says %s, computed %s\n",
			name, block.Header.MerkleRoot, root)
		return false
	}

	hash, err := block.BlockHash()
	if err != nil {
		fmt.Printf("%s: genesis header does not hash: %v\n", name, err)
		return false
	}
	if hash != params.GenesisHash {
		fmt.Printf("%s: genesis hash mismatch: params say %s, computed %s\n",
			name, params.GenesisHash, hash)
		return false
	}

	fmt.Printf("%s: genesis hash %s OK\n", name, hash)
	return true
}
