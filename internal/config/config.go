// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses huntercoind's startup configuration (spec §10.3):
// network selection, data directory, and the RPC listen address. Anything
// here is, per spec §1, an external collaborator of the consensus core —
// the core only consumes the resolved chaincfg.Params this package selects.
package config

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/chronokings/huntercoin-sub000/internal/chaincfg"
)

// defaultDataDirname is the subdirectory created under the user's home or
// app-data directory when --datadir is not given.
const defaultDataDirname = "huntercoin"

// Config holds every flag huntercoind accepts.
type Config struct {
	DataDir    string `short:"b" long:"datadir" description:"Directory to store data"`
	TestNet    bool   `long:"testnet" description:"Use the test network"`
	RPCListen  string `long:"rpclisten" description:"Address to listen for JSON-RPC connections" default:"127.0.0.1:8399"`
	LogLevel   string `long:"loglevel" description:"Logging level {debug,info,warn,error}" default:"info"`
	LogJSON    bool   `long:"logjson" description:"Emit structured JSON logs instead of the colored console format"`
}

// Load parses os.Args, validates the result, and resolves the consensus
// parameters for the selected network.
func Load() (*Config, *chaincfg.Params, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.Parse(); err != nil {
		return nil, nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, nil, errors.Wrapf(err, "create datadir %s", cfg.DataDir)
	}

	params := chaincfg.MainNetParams
	if cfg.TestNet {
		params = chaincfg.TestNetParams
		cfg.DataDir = filepath.Join(cfg.DataDir, "testnet")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, nil, errors.Errorf("unknown loglevel %q", cfg.LogLevel)
	}

	return cfg, params, nil
}

// defaultDataDir mirrors the teacher's AppDataDir convention: a dotted
// directory under $HOME on unix, %LOCALAPPDATA% on Windows.
func defaultDataDir() string {
	if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
		return filepath.Join(appData, defaultDataDirname)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", defaultDataDirname)
	}
	return filepath.Join(home, "."+defaultDataDirname)
}
