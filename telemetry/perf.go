package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation tick, in execution order.
const (
	PhasePlants        = "plants"
	PhaseInvertebrates = "invertebrates"
	PhaseCooldowns     = "cooldowns"
	PhaseFish          = "fish"
	PhaseLarvae        = "larvae"
	PhaseFlush         = "flush"
	PhaseTelemetry     = "telemetry"
)

// Phases lists every phase in execution order.
var Phases = []string{
	PhasePlants, PhaseInvertebrates, PhaseCooldowns,
	PhaseFish, PhaseLarvae, PhaseFlush, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window. A nil collector
// is valid and records nothing.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock spacing between driver frames
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records the spacing between real-time driver frames.
func (p *PerfCollector) RecordFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	TicksPerSecond float64

	// Driver frame rate (real-time mode only)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p == nil {
		return PerfStats{PhasePct: map[string]float64{}}
	}

	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	stats := PerfStats{
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.TickDuration)
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	stats.AvgTickDuration = total / time.Duration(p.sampleCount)
	if total > 0 {
		for phase, sum := range phaseSum {
			stats.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd        uint64  `csv:"window_end"`
	AvgTickUS        int64   `csv:"avg_tick_us"`
	MinTickUS        int64   `csv:"min_tick_us"`
	MaxTickUS        int64   `csv:"max_tick_us"`
	TicksPerSec      float64 `csv:"ticks_per_sec"`
	FPS              float64 `csv:"fps"`
	PlantsPct        float64 `csv:"plants_pct"`
	InvertebratesPct float64 `csv:"invertebrates_pct"`
	CooldownsPct     float64 `csv:"cooldowns_pct"`
	FishPct          float64 `csv:"fish_pct"`
	LarvaePct        float64 `csv:"larvae_pct"`
	FlushPct         float64 `csv:"flush_pct"`
	TelemetryPct     float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgTickUS:        s.AvgTickDuration.Microseconds(),
		MinTickUS:        s.MinTickDuration.Microseconds(),
		MaxTickUS:        s.MaxTickDuration.Microseconds(),
		TicksPerSec:      s.TicksPerSecond,
		FPS:              s.FPS,
		PlantsPct:        s.PhasePct[PhasePlants],
		InvertebratesPct: s.PhasePct[PhaseInvertebrates],
		CooldownsPct:     s.PhasePct[PhaseCooldowns],
		FishPct:          s.PhasePct[PhaseFish],
		LarvaePct:        s.PhasePct[PhaseLarvae],
		FlushPct:         s.PhasePct[PhaseFlush],
		TelemetryPct:     s.PhasePct[PhaseTelemetry],
	}
}
