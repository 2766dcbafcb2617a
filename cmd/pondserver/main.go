// Command pondserver runs the pond in real time and serves snapshots,
// control and metrics over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/server"
	"github.com/pthm-cable/pond/sim"
	"github.com/pthm-cable/pond/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and event log")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	frameHz := flag.Int("frame-hz", 30, "Snapshot frames per second pushed to websocket clients")
	paused := flag.Bool("paused", false, "Wait for a start command instead of running immediately")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*addr, *configPath, *seed, *outputDir, *logStats, *frameHz, *paused, logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(addr, configPath string, seed int64, outputDir string, logStats bool, frameHz int, paused bool, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	metrics := telemetry.NewMetrics()
	world := sim.New(cfg, sim.Options{
		Seed:     seed,
		Logger:   logger,
		LogStats: logStats,
		Output:   output,
		Metrics:  metrics,
		Perf:     telemetry.NewPerfCollector(cfg.Simulation.TickHz),
	})
	driver := sim.NewDriver(world)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	frame := time.Second / 30
	if frameHz > 0 {
		frame = time.Second / time.Duration(frameHz)
	}
	srv := server.New(ctx, driver, logger, frame)
	metrics.TrackClients(srv.Clients)
	mux := http.NewServeMux()
	srv.Routes(mux)
	mux.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("listening", "addr", addr, "seed", world.Seed())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if !paused {
			driver.Start(ctx)
		}
		<-ctx.Done()
		driver.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
