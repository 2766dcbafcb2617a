package systems

import (
	"fmt"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

// Food identifies the collection a forager searches.
type Food uint8

const (
	FoodFish Food = iota
	FoodInvertebrate
	FoodPlant
)

func (f Food) String() string {
	switch f {
	case FoodFish:
		return "fish"
	case FoodInvertebrate:
		return "invertebrate"
	case FoodPlant:
		return "plant"
	}
	return "unknown"
}

// Menu returns the food sources a species searches, most preferred first.
// The next entry is only tried when nothing on the previous one is in range.
func Menu(s components.Species) []Food {
	switch s.Diet() {
	case components.DietPredator:
		return []Food{FoodFish}
	case components.DietHerbivore:
		return []Food{FoodPlant}
	case components.DietOmnivore:
		return []Food{FoodInvertebrate, FoodPlant}
	}
	panic(fmt.Sprintf("systems: unhandled diet for %s", s))
}

// CanPrey reports whether a hunter may take a fish of the given species.
// Pike never take other pike.
func CanPrey(hunter, prey components.Species) bool {
	return hunter.IsPredator() && !prey.IsPredator()
}

// Hungry reports whether a fish goes looking for food.
func Hungry(fish *components.Fish, cfg config.FeedingConfig) bool {
	return fish.Hunger > cfg.HungerThreshold
}

// InReach reports whether two bodies are close enough to eat.
func InReach(a, b components.Position, sizeA, sizeB float64) bool {
	return Distance(a, b) <= sizeA/2+sizeB/2
}

// Satiate removes hunger in proportion to the size of what was eaten.
func Satiate(fish *components.Fish, preySize float64, cfg config.FeedingConfig) {
	fish.Hunger = max(0, fish.Hunger-preySize*cfg.SatiationFactor)
}

// Graze takes a bite out of a plant. The bite is half the grazer's hunger
// before eating. Reports whether the plant is eaten down to nothing.
func Graze(plant *components.Body, hungerBefore float64, cfg config.PlantConfig) bool {
	plant.Size = max(0, plant.Size-hungerBefore/2)
	return plant.Size <= cfg.RemoveSize
}
