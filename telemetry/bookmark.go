package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/pond/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction     BookmarkType = "extinction"
	BookmarkPredationSurge BookmarkType = "predation_surge"
	BookmarkHatchingBoom   BookmarkType = "hatching_boom"
	BookmarkPlantCrash     BookmarkType = "plant_crash"
	BookmarkStablePond     BookmarkType = "stable_pond"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        uint64       `csv:"tick"`
	SimTime     float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTime,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the pond.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	last               *WindowStats
	recentPlantPeak    int // peak plant count in recent history
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable pond detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.last != nil {
		bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)

		if b := bd.checkSurge(stats, BookmarkPredationSurge, "Predation", func(s WindowStats) int { return s.Preyed }); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSurge(stats, BookmarkHatchingBoom, "Hatching", func(s WindowStats) int { return s.Hatched }); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPlantCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStablePond(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	last := stats
	bd.last = &last

	if stats.Plants > bd.recentPlantPeak {
		bd.recentPlantPeak = stats.Plants
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinctions(stats WindowStats) []Bookmark {
	var out []Bookmark
	for _, sp := range components.AllSpecies() {
		before := bd.last.Fish(sp)
		if before > 0 && stats.Fish(sp) == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkExtinction,
				Tick:        stats.WindowEndTick,
				SimTime:     stats.SimTimeSec,
				Description: fmt.Sprintf("%s died out (was %d)", sp, before),
			})
		}
	}
	return out
}

// checkSurge fires when a per-window event count exceeds twice its rolling
// average and is at least 3.
func (bd *BookmarkDetector) checkSurge(stats WindowStats, kind BookmarkType, label string, count func(WindowStats) int) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += count(h)
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := count(stats)
	if float64(current) > avg*2.0 && current >= 3 {
		return &Bookmark{
			Type:        kind,
			Tick:        stats.WindowEndTick,
			SimTime:     stats.SimTimeSec,
			Description: fmt.Sprintf("%s count %d is %.1fx average (%.2f)", label, current, float64(current)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPlantCrash(stats WindowStats) *Bookmark {
	if bd.recentPlantPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Plants)/float64(bd.recentPlantPeak)
	if dropPercent > 0.30 && stats.Plants < bd.recentPlantPeak-5 {
		// Reset peak after crash
		oldPeak := bd.recentPlantPeak
		bd.recentPlantPeak = stats.Plants

		return &Bookmark{
			Type:        BookmarkPlantCrash,
			Tick:        stats.WindowEndTick,
			SimTime:     stats.SimTimeSec,
			Description: fmt.Sprintf("Plants crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Plants),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStablePond(stats WindowStats) *Bookmark {
	// Need fish and plants present
	if stats.FishTotal() < 5 || stats.Plants < 5 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	fishCV2 := cv2(recent, func(h WindowStats) float64 { return float64(h.FishTotal()) })
	plantCV2 := cv2(recent, func(h WindowStats) float64 { return float64(h.Plants) })

	if fishCV2 < 0.04 && plantCV2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePond,
			Tick:        stats.WindowEndTick,
			SimTime:     stats.SimTimeSec,
			Description: fmt.Sprintf("Stable pond with %d fish, %d plants over 5+ windows", stats.FishTotal(), stats.Plants),
		}
	}

	return nil
}

// cv2 returns the squared coefficient of variation of a series.
func cv2(history []WindowStats, value func(WindowStats) float64) float64 {
	var sum float64
	for _, h := range history {
		sum += value(h)
	}
	mean := sum / float64(len(history))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, h := range history {
		d := value(h) - mean
		variance += d * d
	}
	variance /= float64(len(history))
	return variance / (mean * mean)
}
