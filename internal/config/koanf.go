// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/packetsim/config.yaml",
	"/etc/packetsim/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8050,
			Host:              "0.0.0.0",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Simulation: SimulationConfig{
			DefaultPacketCount: 50,
			MinPacketCount:     10,
			MaxPacketCount:     200,
			BenignLabel:        "BENIGN",
			ThrottleSeconds:    0.3,
			DestinationAddress: "192.168.1.1",
			ShuffleSeed:        42,
			IdentitySeed:       0,
			RecentRecords:      5,
			MaxConcurrentRuns:  4,
			RetainedRuns:       20,
		},
		Dataset: DatasetConfig{
			Path:        "data/DDos.csv",
			Loader:      "csv",
			LabelColumn: "Label",
		},
		Model: ModelConfig{
			ScalerPath:              "models/scaler.json",
			ClassifierPath:          "models/ddos_model.json",
			RemoteURL:               "",
			RemoteTimeout:           5 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Uploads: UploadsConfig{
			Path:           "/data/uploads",
			InMemory:       false,
			MaxUploadBytes: 32 << 20, // 32MB
			GCInterval:     10 * time.Minute,
		},
		Events: EventsConfig{
			BufferSize:    256,
			BlockUntilAck: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Simulation mappings
	"sim_default_packets":     "simulation.default_packet_count",
	"sim_min_packets":         "simulation.min_packet_count",
	"sim_max_packets":         "simulation.max_packet_count",
	"sim_benign_label":        "simulation.benign_label",
	"sim_throttle_seconds":    "simulation.throttle_interval_seconds",
	"sim_destination_address": "simulation.destination_address",
	"sim_shuffle_seed":        "simulation.shuffle_seed",
	"sim_identity_seed":       "simulation.identity_seed",
	"sim_recent_records":      "simulation.recent_records",
	"sim_max_concurrent_runs": "simulation.max_concurrent_runs",
	"sim_retained_runs":       "simulation.retained_runs",

	// Dataset mappings
	"dataset_path":         "dataset.path",
	"dataset_loader":       "dataset.loader",
	"dataset_label_column": "dataset.label_column",

	// Model mappings
	"model_scaler_path":      "model.scaler_path",
	"model_classifier_path":  "model.classifier_path",
	"model_remote_url":       "model.remote_url",
	"model_remote_timeout":   "model.remote_timeout",
	"model_breaker_failures": "model.breaker_failure_threshold",
	"model_breaker_timeout":  "model.breaker_timeout",

	// Upload store mappings
	"uploads_path":        "uploads.path",
	"uploads_in_memory":   "uploads.in_memory",
	"uploads_max_bytes":   "uploads.max_upload_bytes",
	"uploads_gc_interval": "uploads.gc_interval",

	// Event bus mappings
	"events_buffer_size":     "events.buffer_size",
	"events_block_until_ack": "events.block_until_ack",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - SIM_THROTTLE_SECONDS -> simulation.throttle_interval_seconds
//   - MODEL_REMOTE_URL -> model.remote_url
func envTransformFunc(key string) string {
	// Unmapped keys return "" so unrelated environment variables are skipped.
	return envMappings[strings.ToLower(key)]
}
