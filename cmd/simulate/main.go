// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Command simulate runs one packet simulation against a local dataset and
// prints every classified packet to the terminal.
//
// Settings come from the same environment and config file as the server;
// flags override them for a single run:
//
//	simulate -dataset data.csv -packets 100 -throttle 0 -out simulation_log.csv -chart summary.png
//
// SIGINT stops the run early. The packets processed so far are still
// written to the CSV log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/config"
	"github.com/tomtom215/packetsim/internal/dataset"
	"github.com/tomtom215/packetsim/internal/export"
	"github.com/tomtom215/packetsim/internal/identity"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/preprocess"
	"github.com/tomtom215/packetsim/internal/simulation"
)

const defaultLogFile = "simulation_log.csv"

type options struct {
	dataset  string
	loader   string
	scaler   string
	model    string
	packets  int
	throttle float64
	seed     uint64
	out      string
	chart    string
	quiet    bool
}

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(2)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: os.Stderr,
	})

	opts := parseFlags(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Warn().Msg("Simulation interrupted")
			os.Exit(130)
		}
		logging.Error().Err(err).Str("error_kind", string(models.KindOf(err))).Msg("Simulation failed")
		os.Exit(1)
	}
}

func parseFlags(cfg *config.Config) options {
	var opts options
	flag.StringVar(&opts.dataset, "dataset", cfg.Dataset.Path, "labeled traffic dataset")
	flag.StringVar(&opts.loader, "loader", cfg.Dataset.Loader, "dataset loader: csv or duckdb")
	flag.StringVar(&opts.scaler, "scaler", cfg.Model.ScalerPath, "fitted scaler JSON")
	flag.StringVar(&opts.model, "model", cfg.Model.ClassifierPath, "classifier model JSON")
	flag.IntVar(&opts.packets, "packets", cfg.Simulation.DefaultPacketCount, "number of packets to simulate")
	flag.Float64Var(&opts.throttle, "throttle", cfg.Simulation.ThrottleSeconds, "seconds between packets, 0 disables pacing")
	flag.Uint64Var(&opts.seed, "seed", cfg.Simulation.ShuffleSeed, "dataset shuffle seed")
	flag.StringVar(&opts.out, "out", defaultLogFile, "CSV log path, empty to skip")
	flag.StringVar(&opts.chart, "chart", "", "summary chart PNG path, empty to skip")
	flag.BoolVar(&opts.quiet, "quiet", false, "do not print individual packets")
	flag.Parse()
	return opts
}

func run(ctx context.Context, cfg *config.Config, opts options, stdout io.Writer) error {
	scaler, err := preprocess.Load(opts.scaler)
	if err != nil {
		return err
	}
	clf, err := classifier.Load(opts.model)
	if err != nil {
		return err
	}

	ds, err := dataset.LoadFile(ctx, opts.dataset, opts.loader, dataset.Options{LabelColumn: cfg.Dataset.LabelColumn})
	if err != nil {
		return err
	}

	sim := cfg.Simulation
	rng := models.NewPacketRange(ds.Len(), sim.MinPacketCount, sim.MaxPacketCount, sim.DefaultPacketCount)
	count := rng.Clamp(opts.packets)
	if count != opts.packets {
		logging.Warn().Int("requested", opts.packets).Int("count", count).Msg("Packet count clamped to dataset range")
	}

	shuffled := ds.Shuffle(opts.seed)
	features, err := scaler.Transform(shuffled)
	if err != nil {
		return err
	}

	engine := simulation.NewEngine(simulation.Config{
		BenignLabel:   sim.BenignLabel,
		Destination:   sim.DestinationAddress,
		Throttle:      time.Duration(opts.throttle * float64(time.Second)),
		RecentRecords: sim.RecentRecords,
	})

	var sink simulation.Sink = simulation.Discard
	var table *tabwriter.Writer
	if !opts.quiet {
		table = tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(table, "PACKET\tSOURCE\tDESTINATION\tPREDICTION\tTRUE LABEL\tSTATUS")
		sink = consoleSink(table)
	}

	acc, runErr := engine.Run(ctx, simulation.Input{
		Dataset:    shuffled,
		Features:   features,
		Classifier: clf,
		Identity:   identity.New(sim.IdentitySeed),
		Count:      count,
	}, sink)
	if table != nil {
		_ = table.Flush()
	}

	if err := writeOutputs(opts, acc); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(stdout, models.CompletionSummary(acc.Normal, acc.Attack))
	return nil
}

// consoleSink prints one table row per packet and flushes so rows appear
// at the throttle pace.
func consoleSink(w *tabwriter.Writer) simulation.Sink {
	return simulation.SinkFunc(func(_ context.Context, rec models.PacketRecord, _ models.Snapshot) error {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.Index, rec.SourceIP, rec.DestinationIP, rec.Prediction, rec.TrueLabel, rec.Status)
		return w.Flush()
	})
}

// writeOutputs writes whatever the accumulator holds, so interrupted and
// failed runs still leave a log of the processed packets.
func writeOutputs(opts options, acc *simulation.Accumulator) error {
	if opts.out != "" && acc.Processed() > 0 {
		if err := writeFile(opts.out, func(w io.Writer) error { return export.Write(w, acc.Records) }); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
		logging.Info().Str("path", opts.out).Int("packets", acc.Processed()).Msg("Simulation log written")
	}

	if opts.chart != "" && acc.Processed() > 0 {
		err := writeFile(opts.chart, func(w io.Writer) error {
			return export.WriteChartPNG(w, acc.Normal, acc.Attack, "Packet Classification Summary")
		})
		if err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		logging.Info().Str("path", opts.chart).Msg("Summary chart written")
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
