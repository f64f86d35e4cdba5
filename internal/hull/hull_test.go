package hull

import (
	"math"
	"testing"

	"github.com/voxellab/shapekit/internal/component"
)

func TestSingleVoxelFallback(t *testing.T) {
	c := &component.Component{Points: []component.Point{{X: 0, Y: 0, Z: 0}}}
	r := Compute(c)
	if r.Contour != 0 || r.Volume != 1 {
		t.Errorf("Compute() = %+v, want {Contour:0 Volume:1}", r)
	}
}

func TestTooFewPoints2DFallback(t *testing.T) {
	c := &component.Component{Points: []component.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0},
	}}
	r := Compute(c)
	if r.Contour != 3 || r.Volume != 3 {
		t.Errorf("Compute() = %+v, want {Contour:3 Volume:3}", r)
	}
}

func TestTooFewPoints3DFallback(t *testing.T) {
	c := &component.Component{Points: []component.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 1},
	}}
	r := Compute(c)
	if r.Contour != 3 || r.Volume != 3 {
		t.Errorf("Compute() = %+v, want {Contour:3 Volume:3}", r)
	}
}

func TestCoplanar3DFallback(t *testing.T) {
	var pts []component.Point
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			pts = append(pts, component.Point{X: x, Y: y, Z: 5})
		}
	}
	c := &component.Component{Points: pts}
	if !c.Is2D() {
		t.Fatal("fixture should be flagged 2D (z is constant); this test calls compute3D directly to exercise the 3D coplanar path")
	}
	r := compute3D(c)
	if r.Contour != float64(c.Size()) || r.Volume != float64(c.Size()) {
		t.Errorf("Compute() = %+v, want fallback (size, size)", r)
	}
}

func TestFilledSquareHullReducesToFourCorners(t *testing.T) {
	var pts []component.Point
	for y := 0; y <= 4; y++ {
		for x := 0; x <= 4; x++ {
			pts = append(pts, component.Point{X: x, Y: y, Z: 0})
		}
	}
	c := &component.Component{Points: pts}
	r := Compute(c)
	if math.Abs(r.Contour-16) > 1e-9 {
		t.Errorf("Contour = %v, want 16 (perimeter of a 4x4 square)", r.Contour)
	}
	if math.Abs(r.Volume-16) > 1e-9 {
		t.Errorf("Volume = %v, want 16 (area of a 4x4 square)", r.Volume)
	}
}

func TestFilledCubeHullVolumeApproximatesTrueVolume(t *testing.T) {
	var pts []component.Point
	for z := 0; z <= 2; z++ {
		for y := 0; y <= 2; y++ {
			for x := 0; x <= 2; x++ {
				pts = append(pts, component.Point{X: x, Y: y, Z: z})
			}
		}
	}
	c := &component.Component{Points: pts}
	r := Compute(c)
	want := 8.0 // a 2x2x2 cube
	if math.Abs(r.Volume-want) > 1e-6 {
		t.Errorf("Volume = %v, want %v", r.Volume, want)
	}
	if math.Abs(r.LegacyVolume-3*want) > 1e-6 {
		t.Errorf("LegacyVolume = %v, want %v (3x Volume, per the uncorrected source arithmetic)", r.LegacyVolume, 3*want)
	}
	if r.Contour <= 0 {
		t.Errorf("Contour = %v, want > 0 (cube surface area)", r.Contour)
	}
}
