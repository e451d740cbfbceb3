// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/packetsim/internal/api"
	"github.com/tomtom215/packetsim/internal/config"
	"github.com/tomtom215/packetsim/internal/events"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/preprocess"
	"github.com/tomtom215/packetsim/internal/simulation"
	"github.com/tomtom215/packetsim/internal/supervisor"
	"github.com/tomtom215/packetsim/internal/supervisor/services"
	"github.com/tomtom215/packetsim/internal/uploads"
	ws "github.com/tomtom215/packetsim/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("dataset_path", cfg.Dataset.Path).
		Str("scaler_path", cfg.Model.ScalerPath).
		Bool("remote_classifier", cfg.Model.RemoteURL != "").
		Float64("throttle_seconds", cfg.Simulation.ThrottleSeconds).
		Msg("Starting packetsim with supervisor tree")

	// === MODEL ===

	scaler, err := preprocess.Load(cfg.Model.ScalerPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load feature scaler")
	}

	clf, err := buildClassifier(cfg.Model, scaler.NumFeatures())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize classifier")
	}
	logging.Info().Int("features", scaler.NumFeatures()).Msg("Preprocessor and classifier ready")

	// === DATASETS ===

	store, err := uploads.OpenStore(uploads.StoreConfig{
		Path:     cfg.Uploads.Path,
		InMemory: cfg.Uploads.InMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open upload store")
	}

	sim := cfg.Simulation
	catalog := uploads.NewCatalog(store, uploads.CatalogConfig{
		Options:        datasetOptions(cfg.Dataset),
		MaxUploadBytes: cfg.Uploads.MaxUploadBytes,
		PacketRange: func(rows int) models.PacketRange {
			return models.NewPacketRange(rows, sim.MinPacketCount, sim.MaxPacketCount, sim.DefaultPacketCount)
		},
		GCInterval: cfg.Uploads.GCInterval,
	})

	// === SIMULATION ===

	bus := events.NewBus(events.Config{
		BufferSize:    cfg.Events.BufferSize,
		BlockUntilAck: cfg.Events.BlockUntilAck,
	})
	manager := simulation.NewManager(managerConfig(cfg), catalog, scaler, clf, bus)

	if err := registerDefaultDataset(context.Background(), catalog, cfg.Dataset); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load default dataset")
	}

	wsHub := ws.NewHub()
	forwarder := ws.NewForwarder(wsHub, bus)

	// === HTTP ===

	handler := api.NewHandler(manager, catalog, clf, wsHub, api.HandlerConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Uploads.MaxUploadBytes,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitRequests,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.Named("dataset-catalog", catalog))

	tree.AddMessagingService(services.Named("event-bus", bus))
	tree.AddMessagingService(services.Named("run-manager", manager))
	tree.AddMessagingService(services.Named("websocket-hub", wsHub))
	tree.AddMessagingService(services.Named("event-forwarder", forwarder))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("packetsim stopped")
}
