package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pond/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Pike          int `csv:"pike"`
	SilverCarp    int `csv:"silver_carp"`
	Crucian       int `csv:"crucian"`
	Carp          int `csv:"carp"`
	Plants        int `csv:"plants"`
	Invertebrates int `csv:"invertebrates"`
	Larvae        int `csv:"larvae"`

	// Lifecycle events during window
	Hatched      int `csv:"hatched"`
	Starved      int `csv:"starved"`
	Preyed       int `csv:"preyed"`
	PlantsGrown  int `csv:"plants_sprouted"`
	InvertsBorn  int `csv:"invertebrates_spawned"`
	InvertsEaten int `csv:"invertebrates_eaten"`
	PlantsGrazed int `csv:"plants_grazed"`
	PlantsEaten  int `csv:"plants_consumed"`

	// Reproduction
	Pairings        int     `csv:"pairings"`
	Cancellations   int     `csv:"cancellations"`
	LarvaeLaid      int     `csv:"larvae_laid"`
	PairSuccessRate float64 `csv:"pair_success_rate"`

	// Hunger distribution (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Standing plant biomass (sum of sizes)
	PlantBiomass float64 `csv:"plant_biomass"`

	// Lifespans of fish that died during the window, simulated seconds
	LifespanMean float64 `csv:"lifespan_mean"`
	LifespanP50  float64 `csv:"lifespan_p50"`
}

// FishTotal returns the number of fish across all species.
func (s WindowStats) FishTotal() int {
	return s.Pike + s.SilverCarp + s.Crucian + s.Carp
}

// Fish returns the window-end count for one species.
func (s WindowStats) Fish(sp components.Species) int {
	switch sp {
	case components.Pike:
		return s.Pike
	case components.SilverCarp:
		return s.SilverCarp
	case components.Crucian:
		return s.Crucian
	case components.Carp:
		return s.Carp
	}
	return 0
}

// DistributionStats calculates mean, standard deviation and empirical
// percentiles. Returns zeros for an empty slice.
func DistributionStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("pike", s.Pike),
		slog.Int("silver_carp", s.SilverCarp),
		slog.Int("crucian", s.Crucian),
		slog.Int("carp", s.Carp),
		slog.Int("plants", s.Plants),
		slog.Int("invertebrates", s.Invertebrates),
		slog.Int("larvae", s.Larvae),
		slog.Int("hatched", s.Hatched),
		slog.Int("starved", s.Starved),
		slog.Int("preyed", s.Preyed),
		slog.Int("pairings", s.Pairings),
		slog.Int("cancellations", s.Cancellations),
		slog.Int("larvae_laid", s.LarvaeLaid),
		slog.Float64("pair_success_rate", s.PairSuccessRate),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("plant_biomass", s.PlantBiomass),
		slog.Float64("lifespan_mean", s.LifespanMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"pike", s.Pike,
		"silver_carp", s.SilverCarp,
		"crucian", s.Crucian,
		"carp", s.Carp,
		"plants", s.Plants,
		"invertebrates", s.Invertebrates,
		"larvae", s.Larvae,
		"hatched", s.Hatched,
		"starved", s.Starved,
		"preyed", s.Preyed,
		"pairings", s.Pairings,
		"cancellations", s.Cancellations,
		"larvae_laid", s.LarvaeLaid,
		"hunger_mean", s.HungerMean,
		"hunger_p10", s.HungerP10,
		"hunger_p50", s.HungerP50,
		"hunger_p90", s.HungerP90,
		"plant_biomass", s.PlantBiomass,
		"lifespan_mean", s.LifespanMean,
	)
}
