// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/config"
	"github.com/tomtom215/packetsim/internal/dataset"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/simulation"
	"github.com/tomtom215/packetsim/internal/uploads"
)

// defaultDatasetID is the catalog ID of the dataset at DATASET_PATH.
const defaultDatasetID = "default"

// managerConfig maps the simulation settings onto the run manager.
func managerConfig(cfg *config.Config) simulation.ManagerConfig {
	sim := cfg.Simulation
	return simulation.ManagerConfig{
		Engine: simulation.Config{
			BenignLabel:   sim.BenignLabel,
			Destination:   sim.DestinationAddress,
			Throttle:      sim.ThrottleInterval(),
			RecentRecords: sim.RecentRecords,
		},
		ShuffleSeed:        sim.ShuffleSeed,
		IdentitySeed:       sim.IdentitySeed,
		MinPacketCount:     sim.MinPacketCount,
		MaxPacketCount:     sim.MaxPacketCount,
		DefaultPacketCount: sim.DefaultPacketCount,
		MaxConcurrentRuns:  sim.MaxConcurrentRuns,
		RetainedRuns:       sim.RetainedRuns,
	}
}

// buildClassifier returns the remote classifier when MODEL_REMOTE_URL is
// set, otherwise the local model file. features is the scaler's output
// width; a local model with a different width is a schema mismatch.
func buildClassifier(cfg config.ModelConfig, features int) (classifier.Classifier, error) {
	if cfg.RemoteURL != "" {
		remoteCfg := classifier.DefaultRemoteConfig(cfg.RemoteURL)
		remoteCfg.Features = features
		if cfg.RemoteTimeout > 0 {
			remoteCfg.Timeout = cfg.RemoteTimeout
		}
		if cfg.BreakerFailureThreshold > 0 {
			remoteCfg.FailureThreshold = cfg.BreakerFailureThreshold
		}
		if cfg.BreakerTimeout > 0 {
			remoteCfg.OpenTimeout = cfg.BreakerTimeout
		}
		remote, err := classifier.NewRemote(remoteCfg)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}

	clf, err := classifier.Load(cfg.ClassifierPath)
	if err != nil {
		return nil, err
	}
	if fc, ok := clf.(classifier.FeatureCounter); ok && fc.NumFeatures() != features {
		return nil, fmt.Errorf("%w: model expects %d features, scaler produces %d",
			models.ErrSchemaMismatch, fc.NumFeatures(), features)
	}
	return clf, nil
}

// registerDefaultDataset loads DATASET_PATH into the catalog. A missing
// file is logged and skipped; any other failure is returned.
func registerDefaultDataset(ctx context.Context, catalog *uploads.Catalog, cfg config.DatasetConfig) error {
	if _, err := os.Stat(cfg.Path); errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Str("path", cfg.Path).Msg("Default dataset not found; only uploaded datasets are available")
		return nil
	}

	if _, err := catalog.RegisterFile(ctx, defaultDatasetID, cfg.Path, cfg.Loader); err != nil {
		return fmt.Errorf("register default dataset: %w", err)
	}
	return nil
}

// datasetOptions maps the dataset settings onto loader options.
func datasetOptions(cfg config.DatasetConfig) dataset.Options {
	return dataset.Options{LabelColumn: cfg.LabelColumn}
}
