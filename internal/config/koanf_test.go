// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// TestDefaultConfig verifies that defaultConfig() returns the documented defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Simulation.DefaultPacketCount != 50 || cfg.Simulation.MinPacketCount != 10 || cfg.Simulation.MaxPacketCount != 200 {
		t.Errorf("packet counts = %d/%d/%d, want 50/10/200",
			cfg.Simulation.DefaultPacketCount, cfg.Simulation.MinPacketCount, cfg.Simulation.MaxPacketCount)
	}
	if cfg.Simulation.ThrottleInterval() != 300*time.Millisecond {
		t.Errorf("ThrottleInterval() = %v, want 300ms", cfg.Simulation.ThrottleInterval())
	}
	if cfg.Simulation.BenignLabel != "BENIGN" {
		t.Errorf("BenignLabel = %q", cfg.Simulation.BenignLabel)
	}
	if cfg.Simulation.DestinationAddress != "192.168.1.1" {
		t.Errorf("DestinationAddress = %q", cfg.Simulation.DestinationAddress)
	}
	if cfg.Simulation.ShuffleSeed != 42 || cfg.Simulation.IdentitySeed != 0 {
		t.Errorf("seeds = %d/%d, want 42/0", cfg.Simulation.ShuffleSeed, cfg.Simulation.IdentitySeed)
	}
	if cfg.Dataset.Path != "data/DDos.csv" || cfg.Dataset.Loader != "csv" || cfg.Dataset.LabelColumn != "Label" {
		t.Errorf("Dataset = %+v", cfg.Dataset)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

// isolateEnv points config discovery at an empty directory and clears
// every mapped environment variable.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Chdir(dir)
	return dir
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("LoadWithKoanf() = %+v, want defaults", cfg)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := isolateEnv(t)

	path := filepath.Join(dir, "packetsim.yaml")
	yaml := `
server:
  port: 9000
  cors_origins:
    - http://a.example
simulation:
  throttle_interval_seconds: 0
  default_packet_count: 20
dataset:
  loader: duckdb
model:
  remote_url: http://inference:8080/predict
  remote_timeout: 2s
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "http://b.example, http://c.example ,")
	t.Setenv("SIM_IDENTITY_SEED", "7")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Server.Port)
	}
	if want := []string{"http://b.example", "http://c.example"}; !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Simulation.ThrottleInterval() != 0 {
		t.Errorf("ThrottleInterval() = %v, want 0", cfg.Simulation.ThrottleInterval())
	}
	if cfg.Simulation.DefaultPacketCount != 20 || cfg.Simulation.IdentitySeed != 7 {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.MaxPacketCount != 200 {
		t.Errorf("MaxPacketCount = %d, want default 200", cfg.Simulation.MaxPacketCount)
	}
	if cfg.Dataset.Loader != "duckdb" || cfg.Model.RemoteURL != "http://inference:8080/predict" {
		t.Errorf("Dataset/Model = %+v / %+v", cfg.Dataset, cfg.Model)
	}
	if cfg.Model.RemoteTimeout != 2*time.Second {
		t.Errorf("RemoteTimeout = %v", cfg.Model.RemoteTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_Invalid(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SIM_THROTTLE_SECONDS", "-1")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "SIM_THROTTLE_SECONDS") {
		t.Errorf("LoadWithKoanf() error = %v, want throttle validation error", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HTTP_PORT":            "server.port",
		"SIM_THROTTLE_SECONDS": "simulation.throttle_interval_seconds",
		"dataset_loader":       "dataset.loader",
		"MODEL_REMOTE_URL":     "model.remote_url",
		"UPLOADS_IN_MEMORY":    "uploads.in_memory",
		"LOG_LEVEL":            "logging.level",
		"PATH":                 "",
		"HOME":                 "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProcessSliceFields(t *testing.T) {
	k := koanf.New(".")
	_ = k.Set("server.cors_origins", " a , ,b")
	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields() error = %v", err)
	}
	if got := k.Strings("server.cors_origins"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("cors_origins = %v", got)
	}

	k = koanf.New(".")
	_ = k.Set("server.cors_origins", []string{"x"})
	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields() error = %v", err)
	}
	if got := k.Strings("server.cors_origins"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("slice value changed: %v", got)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want none", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	explicit := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, explicit)
	if got := findConfigFile(); got != explicit {
		t.Errorf("findConfigFile() = %q, want %q", got, explicit)
	}
}
