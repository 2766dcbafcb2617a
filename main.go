package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/sim"
	"github.com/pthm-cable/pond/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in simulated seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	speed := flag.Float64("speed", 0, "Simulation speed multiplier (0 = use config)")
	debug := flag.Bool("debug", false, "Log simulation events at debug level")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	w := sim.New(cfg, sim.Options{
		Seed:           rngSeed,
		Logger:         logger,
		StatsWindowSec: *statsWindow,
		LogStats:       *logStats,
		Output:         output,
		Perf:           telemetry.NewPerfCollector(cfg.Simulation.TickHz),
	})
	if *speed > 0 {
		w.SetSimulationSpeed(*speed)
	}

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"dt", cfg.Simulation.DT,
		"speed", w.Speed(),
		"max_ticks", *maxTicks,
		"output_dir", output.Dir(),
	)

	// Interrupt ends the run cleanly so output files are flushed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for ctx.Err() == nil && (*maxTicks <= 0 || int(w.TickCount()) < *maxTicks) {
		w.Tick(cfg.Simulation.DT)
	}

	counts := w.FishCounts()
	slog.Info("simulation finished",
		"tick", w.TickCount(),
		"sim_time", w.SimulationTime(),
		"pike", counts[components.Pike],
		"silver_carp", counts[components.SilverCarp],
		"crucian", counts[components.Crucian],
		"carp", counts[components.Carp],
	)

	if err := output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
