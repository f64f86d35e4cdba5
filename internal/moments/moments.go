// Package moments computes centralized geometric moments M_pqr over a
// component's voxel coordinates.
package moments

import "github.com/voxellab/shapekit/internal/component"

// Central returns M_pqr = Σ (x-cx)^p (y-cy)^q (z-cz)^r over c's points,
// where (cx,cy,cz) is c's mass center. In 2D mode the z factor is
// omitted entirely (r is ignored) rather than forced to zero.
func Central(c *component.Component, p, q, r int) float64 {
	mc := c.MassCenter()
	is2D := c.Is2D()
	var sum float64
	for _, pt := range c.Points {
		dx := float64(pt.X) - mc.X
		dy := float64(pt.Y) - mc.Y
		term := ipow(dx, p) * ipow(dy, q)
		if !is2D {
			dz := float64(pt.Z) - mc.Z
			term *= ipow(dz, r)
		}
		sum += term
	}
	return sum
}

func ipow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// Set is the fixed collection of moments the feature-row schema (spec.md
// §6) reports.
type Set struct {
	M100, M010, M001 float64
	M110, M101, M011 float64
	M111             float64
	M200, M020, M002 float64
	M220, M202, M022 float64
	M222             float64
}

// Compute fills a Set for c.
func Compute(c *component.Component) Set {
	return Set{
		M100: Central(c, 1, 0, 0),
		M010: Central(c, 0, 1, 0),
		M001: Central(c, 0, 0, 1),
		M110: Central(c, 1, 1, 0),
		M101: Central(c, 1, 0, 1),
		M011: Central(c, 0, 1, 1),
		M111: Central(c, 1, 1, 1),
		M200: Central(c, 2, 0, 0),
		M020: Central(c, 0, 2, 0),
		M002: Central(c, 0, 0, 2),
		M220: Central(c, 2, 2, 0),
		M202: Central(c, 2, 0, 2),
		M022: Central(c, 0, 2, 2),
		M222: Central(c, 2, 2, 2),
	}
}
