// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSimulation,
		c.validateDataset,
		c.validateModel,
		c.validateUploads,
		c.validateEvents,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("HTTP timeouts must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	for _, origin := range c.Server.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS_ORIGINS must not contain empty entries")
		}
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests < 1 || c.Server.RateLimitRequests > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateSimulation validates packet count bounds, pacing and run limits
func (c *Config) validateSimulation() error {
	s := c.Simulation
	if s.MinPacketCount < 1 {
		return fmt.Errorf("SIM_MIN_PACKETS must be at least 1")
	}
	if s.MaxPacketCount < s.MinPacketCount {
		return fmt.Errorf("SIM_MAX_PACKETS (%d) must be >= SIM_MIN_PACKETS (%d)", s.MaxPacketCount, s.MinPacketCount)
	}
	if s.DefaultPacketCount < s.MinPacketCount || s.DefaultPacketCount > s.MaxPacketCount {
		return fmt.Errorf("SIM_DEFAULT_PACKETS must be between %d and %d", s.MinPacketCount, s.MaxPacketCount)
	}
	if strings.TrimSpace(s.BenignLabel) == "" {
		return fmt.Errorf("SIM_BENIGN_LABEL is required")
	}
	if s.ThrottleSeconds < 0 {
		return fmt.Errorf("SIM_THROTTLE_SECONDS must not be negative")
	}
	if _, err := netip.ParseAddr(s.DestinationAddress); err != nil {
		return fmt.Errorf("SIM_DESTINATION_ADDRESS is invalid: %w", err)
	}
	if s.RecentRecords < 0 {
		return fmt.Errorf("SIM_RECENT_RECORDS must not be negative")
	}
	if s.MaxConcurrentRuns < 1 {
		return fmt.Errorf("SIM_MAX_CONCURRENT_RUNS must be at least 1")
	}
	if s.RetainedRuns < 0 {
		return fmt.Errorf("SIM_RETAINED_RUNS must not be negative")
	}
	return nil
}

// validDatasetLoaders contains valid dataset loader names
var validDatasetLoaders = map[string]bool{
	"csv":    true,
	"duckdb": true,
}

// validateDataset validates the default dataset settings
func (c *Config) validateDataset() error {
	if !validDatasetLoaders[c.Dataset.Loader] {
		return fmt.Errorf("DATASET_LOADER must be one of: csv, duckdb")
	}
	if strings.TrimSpace(c.Dataset.LabelColumn) == "" {
		return fmt.Errorf("DATASET_LABEL_COLUMN is required")
	}
	return nil
}

// validateModel validates the scaler and classifier sources
func (c *Config) validateModel() error {
	if c.Model.ScalerPath == "" {
		return fmt.Errorf("MODEL_SCALER_PATH is required")
	}

	if c.Model.RemoteURL == "" {
		if c.Model.ClassifierPath == "" {
			return fmt.Errorf("MODEL_CLASSIFIER_PATH is required when MODEL_REMOTE_URL is not set")
		}
		return nil
	}

	if err := checkEndpoint(c.Model.RemoteURL); err != nil {
		return fmt.Errorf("MODEL_REMOTE_URL is invalid: %w", err)
	}
	if c.Model.RemoteTimeout <= 0 {
		return fmt.Errorf("MODEL_REMOTE_TIMEOUT must be positive")
	}
	if c.Model.BreakerFailureThreshold < 1 {
		return fmt.Errorf("MODEL_BREAKER_FAILURES must be at least 1")
	}
	if c.Model.BreakerTimeout <= 0 {
		return fmt.Errorf("MODEL_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateUploads validates the upload store settings
func (c *Config) validateUploads() error {
	if !c.Uploads.InMemory && c.Uploads.Path == "" {
		return fmt.Errorf("UPLOADS_PATH is required unless UPLOADS_IN_MEMORY=true")
	}
	if c.Uploads.MaxUploadBytes < 1 {
		return fmt.Errorf("UPLOADS_MAX_BYTES must be positive")
	}
	if c.Uploads.GCInterval < 0 {
		return fmt.Errorf("UPLOADS_GC_INTERVAL must not be negative")
	}
	return nil
}

// validateEvents validates the event bus settings
func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must not be negative")
	}
	return nil
}

// validLogLevels contains valid log level values
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats contains valid log format values
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// checkEndpoint accepts absolute http(s) URLs, with a path but no query.
func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return err
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("missing host")
	case u.RawQuery != "":
		return fmt.Errorf("unexpected query %q", u.RawQuery)
	}
	return nil
}
