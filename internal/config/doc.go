// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package config loads and validates Packetsim configuration.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/packetsim/config.yaml or /etc/packetsim/config.yml
 3. Environment variables, mapped explicitly by envTransformFunc.
    Unknown variables are ignored.

Example config.yaml:

	server:
	  port: 8050
	  cors_origins: ["http://localhost:5173"]
	simulation:
	  throttle_interval_seconds: 0.3
	  default_packet_count: 50
	dataset:
	  path: data/DDos.csv
	  loader: duckdb
	model:
	  scaler_path: models/scaler.json
	  classifier_path: models/ddos_model.json

Common environment variables:

	HTTP_PORT, HTTP_HOST, CORS_ORIGINS (comma separated)
	SIM_THROTTLE_SECONDS, SIM_DEFAULT_PACKETS, SIM_MAX_CONCURRENT_RUNS
	DATASET_PATH, DATASET_LOADER, DATASET_LABEL_COLUMN
	MODEL_SCALER_PATH, MODEL_CLASSIFIER_PATH, MODEL_REMOTE_URL
	UPLOADS_PATH, UPLOADS_IN_MEMORY, UPLOADS_MAX_BYTES, UPLOADS_GC_INTERVAL
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Validation runs after loading; LoadWithKoanf never returns a Config that
fails Validate.
*/
package config
