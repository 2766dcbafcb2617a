package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot wraps a serialized pond state with the context it was taken in.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    uint64 `json:"tick"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`

	// State is the JSON-encoded pond, as produced by the simulation.
	State json.RawMessage `json:"state"`
}

// NewSnapshot encodes state into a snapshot envelope.
func NewSnapshot(seed int64, tick uint64, state any, bm *Bookmark) (*Snapshot, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return &Snapshot{
		Version:  SnapshotVersion,
		RNGSeed:  seed,
		Tick:     tick,
		Bookmark: bm,
		State:    raw,
	}, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk. If state is non-nil the pond
// state is decoded into it.
func LoadSnapshot(path string, state any) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if state != nil {
		if err := json.Unmarshal(snapshot.State, state); err != nil {
			return nil, fmt.Errorf("unmarshal state: %w", err)
		}
	}
	return &snapshot, nil
}
