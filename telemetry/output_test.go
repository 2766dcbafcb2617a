package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/pond/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Methods on a nil manager are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	om.Events().Record(Event{})
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.MustLoad("")); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := range 3 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: uint64(i * 600), Carp: i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPlantCrash, Tick: 600}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	om.Events().Record(Event{Type: EventHatched})
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,pike,") {
		t.Errorf("unexpected header %q", lines[0])
	}

	for _, name := range []string{"config.yaml", "bookmarks.csv", "perf.csv", "events.jsonl.zst"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
