package perimeter

import (
	"math"
	"testing"

	"github.com/voxellab/shapekit/internal/component"
)

func approxEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tol)
	}
}

func TestSingleVoxelPerimeter(t *testing.T) {
	c := &component.Component{Points: []component.Point{{X: 5, Y: 5, Z: 5}}}
	r := Estimate(c)
	// n=4 (all four in-plane faces exposed, since a lone voxel is
	// trivially 2D) falls in the >=4 bucket: base = sqrt(3), a=b=0, so
	// correction = round(sqrt(3)/1) - 0 = 2.
	want := math.Sqrt(3) + 2
	approxEqual(t, r.Value, want, 1e-9)
	if len(r.ContourPoints) != 1 {
		t.Errorf("ContourPoints = %d, want 1", len(r.ContourPoints))
	}
}

func TestThreeByThreeSquare(t *testing.T) {
	var pts []component.Point
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			pts = append(pts, component.Point{X: x, Y: y, Z: 0})
		}
	}
	c := &component.Component{Points: pts}
	r := Estimate(c)
	// 4 corners at n=2 (+sqrt2 each), 4 edge-midpoints at n=1 (+1 each),
	// center at n=0. base = 4 + 4*sqrt2; a=4, b=4.
	base := 4 + 4*math.Sqrt2
	correction := math.Round(base/9) - math.Min(0.4, 4)
	approxEqual(t, r.Value, base+correction, 1e-9)
}

func TestInteriorVoxelContributesNothing(t *testing.T) {
	// A voxel fully surrounded on all four in-plane sides contributes 0
	// and is not a contour point.
	pts := []component.Point{
		{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 2, Y: 1, Z: 0},
		{X: 1, Y: 0, Z: 0}, {X: 1, Y: 2, Z: 0},
	}
	c := &component.Component{Points: pts}
	r := Estimate(c)
	for _, p := range r.ContourPoints {
		if p == (component.Point{X: 1, Y: 1, Z: 0}) {
			t.Error("fully-interior voxel should not appear in ContourPoints")
		}
	}
}

func Test3DIncludesZPairWhenNotFlat(t *testing.T) {
	pts := []component.Point{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}}
	c := &component.Component{Points: pts}
	if c.Is2D() {
		t.Fatal("test fixture should not be 2D")
	}
	r := Estimate(c)
	if r.Value <= 0 {
		t.Errorf("Value = %v, want > 0", r.Value)
	}
}

func TestMaskDimensionsMatchBoundingBox(t *testing.T) {
	pts := []component.Point{{X: 2, Y: 3, Z: 0}, {X: 4, Y: 5, Z: 0}}
	c := &component.Component{Points: pts}
	r := Estimate(c)
	if r.MaskWidth != 3 || r.MaskHeight != 3 || r.MaskDepth != 1 {
		t.Errorf("mask dims = (%d,%d,%d), want (3,3,1)", r.MaskWidth, r.MaskHeight, r.MaskDepth)
	}
	if len(r.Mask) != r.MaskWidth*r.MaskHeight*r.MaskDepth {
		t.Errorf("len(Mask) = %d, want %d", len(r.Mask), r.MaskWidth*r.MaskHeight*r.MaskDepth)
	}
}
