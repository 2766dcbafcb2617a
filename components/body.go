package components

// Body holds the physical size shared by every agent kind.
// Size doubles as the contact diameter for feeding and mating.
type Body struct {
	Size float64
}
