// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config selects how the global logger writes.
type Config struct {
	Level     string    // trace through panic, or disabled; unknown names mean info
	Format    string    // "json" (default) or "console"
	Caller    bool      // add file:line
	Timestamp bool      // add a "time" field
	Output    io.Writer // nil means os.Stderr
}

// DefaultConfig is JSON at info level on stderr, with timestamps.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Timestamp: true, Output: os.Stderr}
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"panic":    zerolog.PanicLevel,
	"disabled": zerolog.Disabled,
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // package helpers log before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	Init(DefaultConfig())
}

// Init builds the global logger from cfg and sets the global level.
// Calling it again swaps the logger in place.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	lc := zerolog.New(out).With()
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	SetLogger(lc.Logger())
}

func parseLevel(name string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(name)]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether name is a level Init understands.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger replaces the global logger.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout zerolog
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// With starts a child logger context from the global logger.
//
//	runLog := logging.With().Str("run_id", id).Logger()
func With() zerolog.Context { return global.Load().With() }

// Trace starts a trace level event.
func Trace() *zerolog.Event { return global.Load().Trace() }

// Debug starts a debug level event.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info level event.
//
//	logging.Info().Str("addr", addr).Msg("Server listening")
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn level event.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error level event.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal event; the process exits after Msg.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// Err starts an error level event carrying err, or info level when err is nil.
func Err(err error) *zerolog.Event { return global.Load().Err(err) }

// GetLevel returns the zerolog global level.
func GetLevel() zerolog.Level {
	return zerolog.GlobalLevel()
}

// SetLevelString sets the global level by name.
func SetLevelString(name string) {
	zerolog.SetGlobalLevel(parseLevel(name))
}

// NewTestLogger returns a timestamped JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
