// Package component defines the materialized connected-component region
// produced by the labeler: an ordered voxel list plus the aggregate stats
// every descriptor module reads.
package component

// Point is an integer voxel coordinate.
type Point struct {
	X, Y, Z int
}

// Box is an axis-aligned bounding box expressed as inclusive min/max
// voxel coordinates.
type Box struct {
	Min, Max Point
}

// Component is one labeled region: the ordered list of member voxels plus
// the stats carried over from its Label record. Labels are mutated only
// during the raster scan and the first finalization pass; a Component is
// created empty at the end of the first finalization pass (equivalence
// resolution), its Points populated during the second (the rewrite
// pass), and is read-only to every descriptor from then on.
type Component struct {
	// Points holds member voxel coordinates in raster-scan insertion
	// order (z then y then x), per spec.md's Pass 3 contract.
	Points []Point

	// T is the time index this component was extracted from.
	T int

	// OnEdgeX, OnEdgeY, OnEdgeZ are propagated from the Label: true iff
	// some member voxel lies at coordinate 0 or dimension-1 on that axis.
	OnEdgeX, OnEdgeY, OnEdgeZ bool

	massCenter    Point3D
	massCenterSet bool
	box           Box
	boxSet        bool
}

// Point3D is a floating-point coordinate, used for results that are not
// necessarily integer (mass centers, fitted geometry).
type Point3D struct {
	X, Y, Z float64
}

// Size returns the voxel count, equal to len(Points).
func (c *Component) Size() int { return len(c.Points) }

// Is2D reports whether the component's bounding box is flat along z —
// the single discriminator every dimension-branching descriptor gates on.
func (c *Component) Is2D() bool {
	box := c.BoundingBox()
	return box.Min.Z == box.Max.Z
}

// MassCenter returns the mean of Points in floating coordinates, computed
// on first use and cached.
func (c *Component) MassCenter() Point3D {
	if c.massCenterSet {
		return c.massCenter
	}
	var sx, sy, sz float64
	for _, p := range c.Points {
		sx += float64(p.X)
		sy += float64(p.Y)
		sz += float64(p.Z)
	}
	n := float64(len(c.Points))
	c.massCenter = Point3D{X: sx / n, Y: sy / n, Z: sz / n}
	c.massCenterSet = true
	return c.massCenter
}

// BoundingBox returns the inclusive min/max voxel coordinates, computed
// on first use and cached.
func (c *Component) BoundingBox() Box {
	if c.boxSet {
		return c.box
	}
	if len(c.Points) == 0 {
		return Box{}
	}
	b := Box{Min: c.Points[0], Max: c.Points[0]}
	for _, p := range c.Points[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Z < b.Min.Z {
			b.Min.Z = p.Z
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
		if p.Z > b.Max.Z {
			b.Max.Z = p.Z
		}
	}
	c.box = b
	c.boxSet = true
	return c.box
}
