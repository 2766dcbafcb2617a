package components

import "fmt"

// ID identifies an entity for the lifetime of the process. Zero means "none".
type ID uint64

// Species enumerates the fish species in the pond.
type Species uint8

const (
	Pike Species = iota // predator
	SilverCarp          // herbivore
	Crucian             // omnivore
	Carp                // omnivore
)

// NumSpecies is the number of fish species.
const NumSpecies = 4

// AllSpecies lists every species in declaration order.
func AllSpecies() []Species {
	return []Species{Pike, SilverCarp, Crucian, Carp}
}

// SpeciesNames returns the wire names for all species.
// The order matches the Species constants.
func SpeciesNames() []string {
	return []string{"pike", "silver_carp", "crucian", "carp"}
}

// String returns the wire name for a species.
func (s Species) String() string {
	names := SpeciesNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// ParseSpecies converts a wire name back to a Species.
func ParseSpecies(name string) (Species, error) {
	for i, n := range SpeciesNames() {
		if n == name {
			return Species(i), nil
		}
	}
	return 0, fmt.Errorf("unknown species %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Species) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Species) UnmarshalText(b []byte) error {
	v, err := ParseSpecies(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Diet describes what a species eats.
type Diet uint8

const (
	DietPredator  Diet = iota // other fish
	DietHerbivore             // plants
	DietOmnivore              // invertebrates, then plants
)

// Diet returns the feeding class of a species.
func (s Species) Diet() Diet {
	switch s {
	case Pike:
		return DietPredator
	case SilverCarp:
		return DietHerbivore
	case Crucian, Carp:
		return DietOmnivore
	}
	panic(fmt.Sprintf("components: unhandled species %d", s))
}

// IsPredator reports whether other fish flee from this species.
func (s Species) IsPredator() bool {
	return s.Diet() == DietPredator
}
