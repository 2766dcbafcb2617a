// Package main provides CMA-ES optimization for finding simulation parameters
// under which every stocked fish species keeps living in the pond.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/telemetry"
)

// mixedPond stocks every species when the base config stocks fewer than two;
// coexistence of a single species is just survival.
var mixedPond = config.PopulationConfig{
	Pike:          2,
	SilverCarp:    4,
	Crucian:       6,
	Carp:          4,
	Plants:        30,
	Invertebrates: 20,
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Uint64("max-ticks", 200000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if len(stockedSpecies(baseCfg.Population)) < 2 {
		baseCfg.Population = mixedPond
	}

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	// Set up CMA-ES
	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()
	tickSec := baseCfg.Simulation.DT * baseCfg.Simulation.Speed

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// The clamped values are the ones the simulation actually used.
		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		quality := evaluator.LastQuality()
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.4f", quality)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		survivalSec := -fitness / (1.0 + 0.2*quality) * tickSec
		fmt.Printf("Eval %d/%d: coexisted=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, survivalSec, quality, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Best params may come from any evaluation, not just the final one.
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	// Window stats from the best run, in the same CSV layout as a normal run.
	if windows := evaluator.BestWindows(); len(windows) > 0 {
		if err := writeBestRun(filepath.Join(*outputDir, "best_run"), windows); err != nil {
			log.Printf("failed to write best run telemetry: %v", err)
		} else {
			fmt.Printf("Best run telemetry saved to: %s\n", filepath.Join(*outputDir, "best_run"))
		}
	}
}

func writeBestRun(dir string, windows []telemetry.WindowStats) error {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	for _, w := range windows {
		if err := om.WriteTelemetry(w); err != nil {
			om.Close()
			return err
		}
	}
	return om.Close()
}
