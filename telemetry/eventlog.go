package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// EventRecord is the on-disk form of an Event, one JSON object per line.
type EventRecord struct {
	Type     EventType `json:"type"`
	Tick     uint64    `json:"tick"`
	Time     float64   `json:"t"`
	Species  string    `json:"species,omitempty"`
	EntityID uint64    `json:"id"`
	TargetID uint64    `json:"target,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Amount   float64   `json:"amount,omitempty"`
}

func recordOf(e Event) EventRecord {
	r := EventRecord{
		Type:     e.Type,
		Tick:     e.Tick,
		Time:     e.Time,
		EntityID: uint64(e.EntityID),
		TargetID: uint64(e.TargetID),
		X:        e.X,
		Y:        e.Y,
		Amount:   e.Amount,
	}
	if e.Type.AboutFish() {
		r.Species = e.Species.String()
	}
	return r
}

// EventLog writes events as zstd-compressed JSON lines. It implements Sink.
// Write failures are logged once and then the log goes quiet.
type EventLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// NewEventLog creates (or truncates) the log file at path.
func NewEventLog(path string) (*EventLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating event log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return &EventLog{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Record implements Sink.
func (l *EventLog) Record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil || l.w == nil {
		return
	}
	b, err := json.Marshal(recordOf(e))
	if err == nil {
		_, err = l.w.Write(b)
	}
	if err == nil {
		err = l.w.WriteByte('\n')
	}
	if err != nil {
		l.err = err
		slog.Warn("event log disabled", "error", err)
	}
}

// Err returns the first write error, if any.
func (l *EventLog) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes buffered events and closes the file.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return nil
	}
	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	l.w, l.enc, l.f = nil, nil, nil
	return firstErr
}

// ReadEventLog decodes every record from a compressed event log stream.
func ReadEventLog(r io.Reader) ([]EventRecord, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	var out []EventRecord
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec EventRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return out, fmt.Errorf("decoding event: %w", err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("reading event log: %w", err)
	}
	return out, nil
}
