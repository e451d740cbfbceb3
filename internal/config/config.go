// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package config

import (
	"math"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Simulation SimulationConfig `koanf:"simulation"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Model      ModelConfig      `koanf:"model"`
	Uploads    UploadsConfig    `koanf:"uploads"`
	Events     EventsConfig     `koanf:"events"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SimulationConfig holds run engine and run manager settings
type SimulationConfig struct {
	DefaultPacketCount int     `koanf:"default_packet_count"`
	MinPacketCount     int     `koanf:"min_packet_count"`
	MaxPacketCount     int     `koanf:"max_packet_count"`
	BenignLabel        string  `koanf:"benign_label"`
	ThrottleSeconds    float64 `koanf:"throttle_interval_seconds"`
	DestinationAddress string  `koanf:"destination_address"`
	ShuffleSeed        uint64  `koanf:"shuffle_seed"`
	IdentitySeed       uint64  `koanf:"identity_seed"` // 0 = unseeded
	RecentRecords      int     `koanf:"recent_records"`
	MaxConcurrentRuns  int     `koanf:"max_concurrent_runs"`
	RetainedRuns       int     `koanf:"retained_runs"`
}

// ThrottleInterval converts ThrottleSeconds to a duration.
func (s SimulationConfig) ThrottleInterval() time.Duration {
	return time.Duration(math.Round(s.ThrottleSeconds * float64(time.Second)))
}

// DatasetConfig holds the default dataset settings
type DatasetConfig struct {
	Path        string `koanf:"path"`
	Loader      string `koanf:"loader"` // csv or duckdb
	LabelColumn string `koanf:"label_column"`
}

// ModelConfig holds the fitted scaler and classifier settings. When
// RemoteURL is set, classification goes to the inference service and
// ClassifierPath is not read.
type ModelConfig struct {
	ScalerPath              string        `koanf:"scaler_path"`
	ClassifierPath          string        `koanf:"classifier_path"`
	RemoteURL               string        `koanf:"remote_url"`
	RemoteTimeout           time.Duration `koanf:"remote_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// UploadsConfig holds the uploaded dataset store settings
type UploadsConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes"`
	GCInterval     time.Duration `koanf:"gc_interval"`
}

// EventsConfig holds the in-process event bus settings
type EventsConfig struct {
	BufferSize    int64 `koanf:"buffer_size"`
	BlockUntilAck bool  `koanf:"block_until_ack"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}
