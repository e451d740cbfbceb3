// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "HTTP_SHUTDOWN_TIMEOUT"},
		{"empty cors entry", func(c *Config) { c.Server.CORSOrigins = []string{" "} }, "CORS_ORIGINS"},
		{"rate limit", func(c *Config) { c.Server.RateLimitRequests = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitRequests = 0
		}, ""},
		{"max below min", func(c *Config) { c.Simulation.MaxPacketCount = 5 }, "SIM_MAX_PACKETS"},
		{"default outside range", func(c *Config) { c.Simulation.DefaultPacketCount = 300 }, "SIM_DEFAULT_PACKETS"},
		{"min zero", func(c *Config) { c.Simulation.MinPacketCount = 0 }, "SIM_MIN_PACKETS"},
		{"blank benign label", func(c *Config) { c.Simulation.BenignLabel = " " }, "SIM_BENIGN_LABEL"},
		{"negative throttle", func(c *Config) { c.Simulation.ThrottleSeconds = -0.1 }, "SIM_THROTTLE_SECONDS"},
		{"zero throttle", func(c *Config) { c.Simulation.ThrottleSeconds = 0 }, ""},
		{"bad destination", func(c *Config) { c.Simulation.DestinationAddress = "999.1.1.1" }, "SIM_DESTINATION_ADDRESS"},
		{"no concurrent runs", func(c *Config) { c.Simulation.MaxConcurrentRuns = 0 }, "SIM_MAX_CONCURRENT_RUNS"},
		{"unknown loader", func(c *Config) { c.Dataset.Loader = "parquet" }, "DATASET_LOADER"},
		{"blank label column", func(c *Config) { c.Dataset.LabelColumn = "" }, "DATASET_LABEL_COLUMN"},
		{"no scaler", func(c *Config) { c.Model.ScalerPath = "" }, "MODEL_SCALER_PATH"},
		{"no classifier source", func(c *Config) { c.Model.ClassifierPath = "" }, "MODEL_CLASSIFIER_PATH"},
		{"remote replaces classifier path", func(c *Config) {
			c.Model.ClassifierPath = ""
			c.Model.RemoteURL = "https://inference.local/v1/predict"
		}, ""},
		{"remote bad scheme", func(c *Config) { c.Model.RemoteURL = "ftp://inference" }, "MODEL_REMOTE_URL"},
		{"remote query", func(c *Config) { c.Model.RemoteURL = "http://inference/predict?x=1" }, "MODEL_REMOTE_URL"},
		{"remote timeout", func(c *Config) {
			c.Model.RemoteURL = "http://inference"
			c.Model.RemoteTimeout = 0
		}, "MODEL_REMOTE_TIMEOUT"},
		{"breaker threshold", func(c *Config) {
			c.Model.RemoteURL = "http://inference"
			c.Model.BreakerFailureThreshold = 0
		}, "MODEL_BREAKER_FAILURES"},
		{"uploads path", func(c *Config) { c.Uploads.Path = "" }, "UPLOADS_PATH"},
		{"uploads in memory", func(c *Config) {
			c.Uploads.Path = ""
			c.Uploads.InMemory = true
		}, ""},
		{"uploads size", func(c *Config) { c.Uploads.MaxUploadBytes = 0 }, "UPLOADS_MAX_BYTES"},
		{"uploads gc", func(c *Config) { c.Uploads.GCInterval = -time.Second }, "UPLOADS_GC_INTERVAL"},
		{"events buffer", func(c *Config) { c.Events.BufferSize = -1 }, "EVENTS_BUFFER_SIZE"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestThrottleInterval(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{0, 0},
		{0.3, 300 * time.Millisecond},
		{1.5, 1500 * time.Millisecond},
		{0.0001, 100 * time.Microsecond},
	}
	for _, tt := range tests {
		got := SimulationConfig{ThrottleSeconds: tt.seconds}.ThrottleInterval()
		if got != tt.want {
			t.Errorf("ThrottleInterval(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
