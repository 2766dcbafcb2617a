// Package telemetry provides pond health tracking: windowed statistics,
// per-fish lifetimes, bookmarks, CSV output, a compressed event log and
// Prometheus metrics.
package telemetry

import (
	"fmt"

	"github.com/pthm-cable/pond/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventFishSpawned EventType = iota // seeded into the pond
	EventPlantSprouted
	EventInvertebrateSpawned
	EventPaired
	EventPairingCancelled
	EventLarvaLaid
	EventHatched
	EventStarved
	EventPreyed // fish eaten by a predator
	EventInvertebrateEaten
	EventPlantGrazed
	EventPlantConsumed // plant grazed down and removed
	numEventTypes
)

var eventNames = [numEventTypes]string{
	"fish_spawned",
	"plant_sprouted",
	"invertebrate_spawned",
	"paired",
	"pairing_cancelled",
	"larva_laid",
	"hatched",
	"starved",
	"preyed",
	"invertebrate_eaten",
	"plant_grazed",
	"plant_consumed",
}

func (t EventType) String() string {
	if t < numEventTypes {
		return eventNames[t]
	}
	return fmt.Sprintf("event(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EventType) UnmarshalText(b []byte) error {
	for i, name := range eventNames {
		if name == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}

// AboutFish reports whether Species is meaningful for this event type.
func (t EventType) AboutFish() bool {
	switch t {
	case EventPlantSprouted, EventInvertebrateSpawned:
		return false
	}
	return true
}

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    uint64
	Time    float64 // simulated seconds
	Species components.Species

	EntityID components.ID
	TargetID components.ID // partner, prey or parent depending on type
	X, Y     float64
	Amount   float64 // hunger relieved, size grazed, etc.
}

// Sink receives telemetry events.
type Sink interface {
	Record(Event)
}

// Sinks fans an event out to several sinks.
type Sinks []Sink

// Record implements Sink.
func (s Sinks) Record(e Event) {
	for _, sink := range s {
		sink.Record(e)
	}
}

// Discard is a Sink that drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Event) {}
