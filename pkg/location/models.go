package location

// Location represents a position fix reported by a provider
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}
