// Package sphericity computes the dimension-normalized sphericity
// (2D: circularity) of a component from its size and perimeter.
package sphericity

import (
	"math"

	"github.com/voxellab/shapekit/internal/component"
	"github.com/voxellab/shapekit/internal/perimeter"
)

// Compute returns sphericity = (pi^(1/dim) / peri) * (2*dim*area)^((dim-1)/dim),
// clamped at 1. dim is 2 for a 2D component, 3 otherwise; area is the
// voxel count.
func Compute(c *component.Component) float64 {
	dim := 3.0
	if c.Is2D() {
		dim = 2.0
	}
	area := float64(c.Size())
	peri := perimeter.Estimate(c).Value
	if peri <= 0 {
		return 1
	}
	s := (math.Pow(math.Pi, 1/dim) / peri) * math.Pow(2*dim*area, (dim-1)/dim)
	if s > 1 {
		return 1
	}
	return s
}
