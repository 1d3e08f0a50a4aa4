// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// huntercoind wires together storage, the chain index, the mempool, the
// block processor and the RPC surface (spec §10.3's ambient configuration
// layer). It does not itself speak the P2P protocol or drive a wallet —
// both are explicit non-goals of the consensus core this binary hosts;
// blocks reach the processor however the embedding deployment delivers
// them (a P2P layer, a trusted feed, test fixtures), all through
// blockprocessor.Processor.ProcessBlock.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chronokings/huntercoin-sub000/internal/blockprocessor"
	"github.com/chronokings/huntercoin-sub000/internal/config"
	"github.com/chronokings/huntercoin-sub000/internal/logger"
	"github.com/chronokings/huntercoin-sub000/internal/mempool"
	"github.com/chronokings/huntercoin-sub000/internal/rpc"
	"github.com/chronokings/huntercoin-sub000/internal/storage"
)

func main() {
	cfg, params, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	db, err := storage.Open(filepath.Join(cfg.DataDir, "chain.db"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer db.Close()

	logger.Chain.Info().Msg("rebuilding chain index from storage")
	index, err := blockprocessor.LoadIndex(db, params)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to rebuild chain index")
	}

	pool := mempool.New(db, params)
	processor := blockprocessor.New(db, params, index, pool)

	rpcCtx := rpc.NewContext(db, params, index, pool)
	processor.SetOnConnect(rpcCtx.NotifyTipChanged)
	rpcCtx.SetWarmedUp()

	server := rpc.NewServer(cfg.RPCListen, rpcCtx)
	if err := server.Start(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to start rpc server")
	}

	// This binary has no block-ingest path of its own (P2P is a non-goal of
	// the consensus core); processor.ProcessBlock is the call a feed would
	// drive it through.
	_ = processor

	logger.Logger.Info().Str("datadir", cfg.DataDir).Msg("huntercoind is ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("rpc server did not shut down cleanly")
	}
}
