// Package geometry provides the small set of pure geometric queries
// (bounding box/sphere, mass center, distance) shared by the descriptor
// modules. Component already caches its own bounding box and mass
// center; this package builds the remaining queries on top of those.
package geometry

import (
	"math"

	"github.com/voxellab/shapekit/internal/component"
)

// Sphere is a bounding sphere: a center and radius in floating
// coordinates.
type Sphere struct {
	Center component.Point3D
	Radius float64
}

// BoundingSphere returns the smallest sphere, centered at the
// component's mass center, that encloses every member voxel. This is a
// tight-enough approximation for shape descriptors (the spec does not
// require Welzl's minimal enclosing sphere); centering at the mass
// center keeps it cheap and stable frame to frame.
func BoundingSphere(c *component.Component) Sphere {
	center := c.MassCenter()
	var maxDist2 float64
	for _, p := range c.Points {
		dx := float64(p.X) - center.X
		dy := float64(p.Y) - center.Y
		dz := float64(p.Z) - center.Z
		d2 := dx*dx + dy*dy + dz*dz
		if d2 > maxDist2 {
			maxDist2 = d2
		}
	}
	return Sphere{Center: center, Radius: math.Sqrt(maxDist2)}
}

// BoxDiagonal returns the Euclidean length of the component's bounding
// box diagonal.
func BoxDiagonal(c *component.Component) float64 {
	box := c.BoundingBox()
	dx := float64(box.Max.X - box.Min.X)
	dy := float64(box.Max.Y - box.Min.Y)
	dz := float64(box.Max.Z - box.Min.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance returns the Euclidean distance between two floating
// coordinates.
func Distance(a, b component.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistanceToPoint returns the Euclidean distance between a floating
// coordinate and an integer voxel coordinate.
func DistanceToPoint(a component.Point3D, b component.Point) float64 {
	return Distance(a, component.Point3D{X: float64(b.X), Y: float64(b.Y), Z: float64(b.Z)})
}
