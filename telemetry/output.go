package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pond/config"
)

// csvFile is an append-only CSV table whose header is written with the
// first record.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func appendCSV[T any](c *csvFile, record T) error {
	records := []T{record}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output: window statistics, tick
// timing and bookmarks as CSV, the run configuration as YAML, snapshots as
// JSON and the compressed event log. A nil manager disables output.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	bookmarks *csvFile
	events    *EventLog
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = createCSV(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = createCSV(dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.events, err = NewEventLog(filepath.Join(dir, "events.jsonl.zst")); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := appendCSV(om.telemetry, stats); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	if err := appendCSV(om.perf, stats.ToCSV(windowEnd)); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := appendCSV(om.bookmarks, b); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteSnapshot saves a snapshot under the snapshots/ subdirectory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil {
		return "", nil
	}
	return SaveSnapshot(s, filepath.Join(om.dir, "snapshots"))
}

// Events returns the event log sink, or Discard when output is disabled.
func (om *OutputManager) Events() Sink {
	if om == nil || om.events == nil {
		return Discard
	}
	return om.events
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.bookmarks} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.events != nil {
		if err := om.events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
