package levelset

import (
	"math"
)

// Heaviside returns a sine-smoothed Heaviside step of phi: 0 below
// -halfWidth, 1 above +halfWidth, with a smooth monotonic transition in
// between.
func Heaviside(phi, halfWidth float64) float64 {
	heaviside := 0.0
	normalized := phi / halfWidth
	if phi < halfWidth && phi > -halfWidth {
		heaviside = 0.5 + 0.5*normalized +
			0.5*math.Sin(math.Pi*normalized)/math.Pi
	}
	if normalized >= 1 {
		heaviside = 1
	}
	return heaviside
}
