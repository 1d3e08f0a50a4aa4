// Package logger provides structured logging for huntercoind, with one
// component sub-logger per consensus subsystem (spec §10.1).
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the root logger; component loggers below are derived from it.
var Logger zerolog.Logger

// Component loggers, one per major subsystem of the consensus core.
var (
	Chain    zerolog.Logger
	Mempool  zerolog.Logger
	Script   zerolog.Logger
	Game     zerolog.Logger
	Name     zerolog.Logger
	Storage  zerolog.Logger
	RPC      zerolog.Logger
	PoW      zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stdout, "info")
	initComponentLoggers()
}

// Init (re)configures the root and component loggers; jsonOutput selects
// machine-parseable output over the colored console writer.
func Init(level string, jsonOutput bool) {
	if jsonOutput {
		Logger = NewJSONLogger(os.Stdout, level)
	} else {
		Logger = NewConsoleLogger(os.Stdout, level)
	}
	initComponentLoggers()
}

// NewConsoleLogger builds a human-readable colored logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(parseLevel(level)).With().Timestamp().Logger()
}

// NewJSONLogger builds a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	Chain = Logger.With().Str("component", "chain").Logger()
	Mempool = Logger.With().Str("component", "mempool").Logger()
	Script = Logger.With().Str("component", "script").Logger()
	Game = Logger.With().Str("component", "game").Logger()
	Name = Logger.With().Str("component", "nameindex").Logger()
	Storage = Logger.With().Str("component", "storage").Logger()
	RPC = Logger.With().Str("component", "rpc").Logger()
	PoW = Logger.With().Str("component", "pow").Logger()
}

// WithComponent returns a logger tagged with an arbitrary component name,
// for subsystems (miner tasks, snapshot pruner) that don't warrant a
// package-level singleton.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
