package ellipse

import (
	"errors"
	"math"
	"testing"

	"github.com/voxellab/shapekit/internal/component"
	"github.com/voxellab/shapekit/internal/kinds"
)

func circlePoints(cx, cy float64, r float64, n int) []component.Point {
	pts := make([]component.Point, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = component.Point{
			X: int(math.Round(cx + r*math.Cos(theta))),
			Y: int(math.Round(cy + r*math.Sin(theta))),
		}
	}
	return pts
}

func TestFitEllipse2DTooFewPoints(t *testing.T) {
	_, err := FitEllipse2D([]component.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if !errors.Is(err, kinds.ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}
}

func TestFitEllipse2DCollinearPointsAreDegenerate(t *testing.T) {
	pts := []component.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 3, Y: 0}, {X: 4, Y: 0}, {X: 5, Y: 0},
	}
	_, err := FitEllipse2D(pts)
	if !errors.Is(err, kinds.ErrDegenerateShape) {
		t.Errorf("err = %v, want ErrDegenerateShape", err)
	}
}

func TestFitEllipse2DApproximatelyCircular(t *testing.T) {
	pts := circlePoints(50, 50, 20, 24)
	fit, err := FitEllipse2D(pts)
	if err != nil {
		t.Fatalf("FitEllipse2D: %v", err)
	}
	if math.Abs(fit.Center[0]-50) > 1 || math.Abs(fit.Center[1]-50) > 1 {
		t.Errorf("Center = %v, want close to (50,50)", fit.Center)
	}
	ratio := fit.SemiAxes[0] / fit.SemiAxes[1]
	if ratio < 0.8 || ratio > 1.25 {
		t.Errorf("SemiAxes = %v, want roughly equal for a circle", fit.SemiAxes)
	}
}

func TestFitEllipsoid3DTooFewPoints(t *testing.T) {
	pts := []component.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}}
	_, err := FitEllipsoid3D(pts)
	if !errors.Is(err, kinds.ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}
}

func TestFitEllipsoid3DCoplanarPointsAreDegenerate(t *testing.T) {
	var pts []component.Point
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			pts = append(pts, component.Point{X: x, Y: y, Z: 5})
		}
	}
	_, err := FitEllipsoid3D(pts)
	if !errors.Is(err, kinds.ErrDegenerateShape) {
		t.Errorf("err = %v, want ErrDegenerateShape (flat cloud)", err)
	}
}

func TestDimensionsSortsDescendingFor3D(t *testing.T) {
	var pts []component.Point
	for x := -4; x <= 4; x++ {
		for y := -2; y <= 2; y++ {
			for z := -1; z <= 1; z++ {
				if float64(x*x)/16+float64(y*y)/4+float64(z*z) <= 1 {
					pts = append(pts, component.Point{X: x, Y: y, Z: z})
				}
			}
		}
	}
	c := &component.Component{Points: pts}
	a, b, cc, err := Dimensions(c)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if !(a >= b && b >= cc) {
		t.Errorf("radii not sorted descending: a=%v b=%v c=%v", a, b, cc)
	}
}

func TestDimensionsReturnsZeroThirdRadiusFor2D(t *testing.T) {
	pts := circlePoints(20, 20, 10, 20)
	c := &component.Component{Points: pts}
	a, b, cc, err := Dimensions(c)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if cc != 0 {
		t.Errorf("third radius = %v, want 0 for 2D", cc)
	}
	if a < b {
		t.Errorf("a=%v < b=%v, want a >= b", a, b)
	}
}
