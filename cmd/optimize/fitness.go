package main

import (
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/sim"
	"github.com/pthm-cable/pond/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg.Clone(),
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best seed from the best
// evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A stocked species counts as extinct once it has had no live fish for
// extinctionGraceSec; a larva still incubating may bring it back before then.
const (
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64                  // ticks before a stocked species died out (or maxTicks)
	windowStats   []telemetry.WindowStats // collected via OnStats each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer coexistence = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var g errgroup.Group
	for i, seed := range fe.seeds {
		g.Go(func() error {
			result := fe.runSimulation(cfg, seed)
			quality := fe.computeQuality(cfg, result.windowStats)
			results[i] = seedResult{
				fitness: fitnessOf(result.survivalTicks, quality),
				quality: quality,
				windows: result.windowStats,
			}
			return nil
		})
	}
	_ = g.Wait()

	var totalFitness, totalQuality float64
	bestSeed := results[0]
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeed.fitness {
			bestSeed = r
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestSeed.windows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until a stocked species has
// died out or maxTicks is reached. cfg is only read; the world keeps its own
// copy.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	w := sim.New(cfg, sim.Options{
		Seed:           seed,
		Logger:         slog.New(slog.DiscardHandler),
		StatsWindowSec: fe.statsWindow,
		OnStats: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})

	stocked := stockedSpecies(cfg.Population)
	dt := cfg.Simulation.DT
	warmupTicks := uint64(warmupSec / dt)
	var absentSec [components.NumSpecies]float64

	for w.TickCount() < fe.maxTicks {
		w.Tick(dt)
		if w.TickCount() < warmupTicks {
			continue
		}

		counts := w.FishCounts()
		for _, s := range stocked {
			if counts[s] > 0 {
				absentSec[s] = 0
				continue
			}
			absentSec[s] += dt * w.Speed()
			if absentSec[s] >= extinctionGraceSec {
				result.survivalTicks = w.TickCount()
				return result
			}
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// stockedSpecies lists the species the run starts with; only these are
// required to survive.
func stockedSpecies(pop config.PopulationConfig) []components.Species {
	var out []components.Species
	for _, s := range components.AllSpecies() {
		if pop.Fish(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// fitnessOf calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func fitnessOf(survivalTicks uint64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightEvenness  = 0.35
	qualityWeightStability = 0.25
	qualityWeightHunger    = 0.20
	qualityWeightBreeding  = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(cfg *config.Config, windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	stocked := stockedSpecies(cfg.Population)
	threshold := cfg.Feeding.HungerThreshold

	var evenSum, hungerSum, breedSum float64
	var breedCount int
	totals := make([]float64, 0, len(windows))

	valid := windows[qualityWarmupWindows:]
	for _, w := range valid {
		total := w.FishTotal()
		totals = append(totals, float64(total))
		if total == 0 {
			continue
		}

		// 1. Species evenness (Pielou's J over stocked species)
		evenSum += evenness(w, stocked)

		// 2. Fish hovering around the hunger threshold are foraging,
		// not starving.
		hungerSum += math.Exp(-math.Pow((w.HungerP50-threshold)/threshold, 2))

		// 3. Courtships that end in a larva
		if w.Pairings > 0 {
			breedSum += w.PairSuccessRate
			breedCount++
		}
	}

	n := float64(len(valid))
	evenScore := evenSum / n
	hungerScore := hungerSum / n

	// 4. Stability of total fish count
	stabilityScore := 0.0
	if len(totals) >= 2 {
		mean, std := stat.MeanStdDev(totals, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	breedScore := 0.0
	if breedCount > 0 {
		breedScore = breedSum / float64(breedCount)
	}

	quality := qualityWeightEvenness*evenScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunger*hungerScore +
		qualityWeightBreeding*breedScore

	return clamp01(quality)
}

// evenness returns Shannon entropy of the stocked species' counts divided by
// its maximum, so 1 means equal numbers of each.
func evenness(w telemetry.WindowStats, stocked []components.Species) float64 {
	if len(stocked) < 2 {
		return 1
	}
	p := make([]float64, len(stocked))
	var sum float64
	for i, s := range stocked {
		p[i] = float64(w.Fish(s))
		sum += p[i]
	}
	if sum == 0 {
		return 0
	}
	for i := range p {
		p[i] /= sum
	}
	return stat.Entropy(p) / math.Log(float64(len(stocked)))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
