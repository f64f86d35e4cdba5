// Package perimeter implements the digitized perimeter/surface
// estimator: a 6-neighborhood edge/corner classifier over a labeled
// component, with the empirical correction spec.md calibrates against a
// digitized-circle reference.
package perimeter

import (
	"math"

	"github.com/voxellab/shapekit/internal/component"
)

var directions3D = [][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// directions2D is directions3D with the z-axis pair removed.
var directions2D = [][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
}

// Result is the perimeter/surface estimate plus its optional byproducts.
type Result struct {
	// Value is the corrected perimeter (2D) or surface (3D) length.
	Value float64
	// ContourPoints lists member voxels with at least one exposed face
	// (n > 0 in spec.md's classification).
	ContourPoints []component.Point
	// Mask is a byte mask, one cell per voxel of the component's
	// bounding box (x fastest, then y, then z), with contour voxels set
	// to 1.
	Mask                             []byte
	MaskWidth, MaskHeight, MaskDepth int
}

// Estimate computes the corrected perimeter/surface for c.
func Estimate(c *component.Component) Result {
	size := c.Size()
	if size == 0 {
		return Result{}
	}

	member := make(map[component.Point]struct{}, size)
	for _, p := range c.Points {
		member[p] = struct{}{}
	}

	is2D := c.Is2D()
	box := c.BoundingBox()
	bw := box.Max.X - box.Min.X + 1
	bh := box.Max.Y - box.Min.Y + 1
	bd := box.Max.Z - box.Min.Z + 1
	mask := make([]byte, bw*bh*bd)

	var perimeter float64
	var a, b int
	var contour []component.Point

	dirs := directions3D
	if is2D {
		dirs = directions2D
	}

	for _, p := range c.Points {
		n := 0
		for _, d := range dirs {
			np := component.Point{X: p.X + d[0], Y: p.Y + d[1], Z: p.Z + d[2]}
			if _, ok := member[np]; !ok {
				n++
			}
		}

		switch {
		case n == 0:
			// interior voxel, no contribution
		case n == 1:
			perimeter += 1
			a++
		case n == 2:
			perimeter += math.Sqrt2
			b++
		case n == 3:
			perimeter += 2 * math.Sqrt2
			b += 2
		default:
			perimeter += math.Sqrt(3)
		}

		if n > 0 {
			contour = append(contour, p)
			mi := ((p.Z-box.Min.Z)*bh+(p.Y-box.Min.Y))*bw + (p.X - box.Min.X)
			mask[mi] = 1
		}
	}

	correction := math.Round(perimeter/float64(size)) - math.Min(float64(a)/10, float64(b))
	perimeter += correction

	return Result{
		Value:         perimeter,
		ContourPoints: contour,
		Mask:          mask,
		MaskWidth:     bw,
		MaskHeight:    bh,
		MaskDepth:     bd,
	}
}
