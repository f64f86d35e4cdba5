// Package ellipse implements the direct algebraic 2D ellipse fit
// (Fitzgibbon-style) and the 3D ellipsoid least-squares fit, both
// resolved via gonum's eigendecomposition routines.
package ellipse

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/voxellab/shapekit/internal/component"
	"github.com/voxellab/shapekit/internal/kinds"
)

// Fit2D is a 2D conic fit: its geometric parameters plus the raw
// six-coefficient conic (a, b, c, d, f, g) in original coordinates, for
// ax²+bxy+cy²+dx+fy+g=0.
type Fit2D struct {
	Center   [2]float64
	SemiAxes [2]float64 // unsorted, as derived (aL, bL)
	Phi      float64
	Conic    [6]float64
}

// Fit3D is a 3D ellipsoid fit: center, principal radii (reciprocal
// square roots of the eigenvalues), and the corresponding principal
// axes (unit eigenvectors, one per row of Axes matching Radii's order).
type Fit3D struct {
	Center [3]float64
	Radii  [3]float64
	Axes   [3][3]float64
}

// FitEllipse2D runs the Fitzgibbon direct algebraic fit over points,
// which must contain at least 6 distinct coordinates.
func FitEllipse2D(points []component.Point) (Fit2D, error) {
	n := len(points)
	if n < 6 {
		return Fit2D{}, fmt.Errorf("ellipse: %w", kinds.ErrTooFewPoints)
	}

	var mx, my float64
	for _, p := range points {
		mx += float64(p.X)
		my += float64(p.Y)
	}
	mx /= float64(n)
	my /= float64(n)

	d1 := mat.NewDense(n, 3, nil)
	d2 := mat.NewDense(n, 3, nil)
	for i, p := range points {
		x := float64(p.X) - mx
		y := float64(p.Y) - my
		d1.SetRow(i, []float64{x * x, x * y, y * y})
		d2.SetRow(i, []float64{x, y, 1})
	}

	var s1, s2, s3 mat.Dense
	s1.Mul(d1.T(), d1)
	s2.Mul(d1.T(), d2)
	s3.Mul(d2.T(), d2)

	var s3Inv mat.Dense
	if err := s3Inv.Inverse(&s3); err != nil {
		return Fit2D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}

	var t mat.Dense
	t.Mul(&s3Inv, s2.T())
	t.Scale(-1, &t)

	var s2t mat.Dense
	s2t.Mul(&s2, &t)
	var m mat.Dense
	m.Add(&s1, &s2t)

	nMat := mat.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		nMat.Set(0, j, m.At(2, j)/2)
		nMat.Set(1, j, -m.At(1, j))
		nMat.Set(2, j, m.At(0, j)/2)
	}

	a0, b0, c0, err := dominantConicEigenvector(nMat)
	if err != nil {
		return Fit2D{}, err
	}

	a1 := mat.NewVecDense(3, []float64{a0, b0, c0})
	var a2 mat.VecDense
	a2.MulVec(&t, a1)

	// Conic in centered coordinates: a,b,c (quadratic) + d,f,g (linear/const).
	a, b, c := a0, b0, c0
	d, f, g := a2.AtVec(0), a2.AtVec(1), a2.AtVec(2)

	// Undo the centering shift: substitute X = x-mx, Y = y-my back in.
	dShift := -2*a*mx - b*my + d
	fShift := -b*mx - 2*c*my + f
	gShift := a*mx*mx + b*mx*my + c*my*my - d*mx - f*my + g

	return geometryFromConic(a, b, c, dShift, fShift, gShift)
}

// dominantConicEigenvector eigendecomposes the 3x3 matrix produced by
// the Fitzgibbon construction and returns the unique eigenvector whose
// components satisfy the ellipse-specific constraint 4*a*c - b² > 0.
func dominantConicEigenvector(n *mat.Dense) (a, b, c float64, err error) {
	var eig mat.Eigen
	if !eig.Factorize(n, mat.EigenRight) {
		return 0, 0, 0, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}
	var vectors mat.CDense
	eig.VectorsTo(&vectors)
	for j := 0; j < 3; j++ {
		v0 := real(vectors.At(0, j))
		v1 := real(vectors.At(1, j))
		v2 := real(vectors.At(2, j))
		if 4*v0*v2-v1*v1 > 0 {
			mag := math.Sqrt(v0*v0 + v1*v1 + v2*v2)
			if mag == 0 {
				continue
			}
			return v0 / mag, v1 / mag, v2 / mag, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
}

// geometryFromConic derives center, semi-axes, and orientation from a
// conic ax²+bxy+cy²+dx+fy+g=0, per spec.md §4.3.
func geometryFromConic(a, b, c, d, f, g float64) (Fit2D, error) {
	// The closed-form formulas below are written for
	// ax²+2bxy+cy²+2dx+2fy+g=0, so the cross and linear terms are halved.
	hb, hd, hf := b/2, d/2, f/2

	denom := hb*hb - a*c
	if denom == 0 {
		return Fit2D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}

	cx := (c*hd - hb*hf) / denom
	cy := (a*hf - hb*hd) / denom

	delta := 2 * (a*hf*hf + c*hd*hd + g*hb*hb - 2*hb*hd*hf - a*c*g)
	root := math.Sqrt((a-c)*(a-c) + 4*hb*hb)

	axisNum1 := delta / (denom * (root - (a + c)))
	axisNum2 := delta / (denom * (-root - (a + c)))
	if axisNum1 < 0 || axisNum2 < 0 {
		return Fit2D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}
	axisA := math.Sqrt(axisNum1)
	axisB := math.Sqrt(axisNum2)

	var phi float64
	switch {
	case hb == 0 && a <= c:
		phi = 0
	case hb == 0 && a > c:
		phi = math.Pi / 2
	default:
		phi = 0.5 * math.Atan(2*hb/(a-c))
		if a > c {
			phi += math.Pi / 2
		}
	}

	return Fit2D{
		Center:   [2]float64{cx, cy},
		SemiAxes: [2]float64{axisA, axisB},
		Phi:      phi,
		Conic:    [6]float64{a, b, c, d, f, g},
	}, nil
}

// FitEllipsoid3D runs the Petrov/BoneJ-style least-squares ellipsoid fit
// over points, which must contain at least 9 distinct coordinates.
func FitEllipsoid3D(points []component.Point) (Fit3D, error) {
	n := len(points)
	if n < 9 {
		return Fit3D{}, fmt.Errorf("ellipse: %w", kinds.ErrTooFewPoints)
	}

	d := mat.NewDense(n, 9, nil)
	ones := mat.NewVecDense(n, nil)
	for i, p := range points {
		x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
		d.SetRow(i, []float64{x * x, y * y, z * z, 2 * x * y, 2 * x * z, 2 * y * z, 2 * x, 2 * y, 2 * z})
		ones.SetVec(i, 1)
	}

	var dtd mat.Dense
	dtd.Mul(d.T(), d)
	var dtdInv mat.Dense
	if err := dtdInv.Inverse(&dtd); err != nil {
		return Fit3D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}
	var dt1 mat.VecDense
	dt1.MulVec(d.T(), ones)
	var v mat.VecDense
	v.MulVec(&dtdInv, &dt1)

	v0, v1, v2 := v.AtVec(0), v.AtVec(1), v.AtVec(2)
	v3, v4, v5 := v.AtVec(3), v.AtVec(4), v.AtVec(5)
	v6, v7, v8 := v.AtVec(6), v.AtVec(7), v.AtVec(8)

	a4 := mat.NewDense(4, 4, []float64{
		v0, v3, v4, v6,
		v3, v1, v5, v7,
		v4, v5, v2, v8,
		v6, v7, v8, -1,
	})

	var a3 mat.Dense
	a3.CloneFrom(a4.Slice(0, 3, 0, 3))
	var a3Inv mat.Dense
	if err := a3Inv.Inverse(&a3); err != nil {
		return Fit3D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}
	tail := mat.NewVecDense(3, []float64{v6, v7, v8})
	var center mat.VecDense
	center.MulVec(&a3Inv, tail)
	center.ScaleVec(-1, &center)
	cx, cy, cz := center.AtVec(0), center.AtVec(1), center.AtVec(2)

	tMat := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		cx, cy, cz, 1,
	})

	var tmp, r mat.Dense
	tmp.Mul(tMat, a4)
	r.Mul(&tmp, tMat.T())

	r33 := r.At(3, 3)
	if r33 == 0 {
		return Fit3D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}

	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, -r.At(i, j)/r33)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return Fit3D{}, fmt.Errorf("ellipse: %w", kinds.ErrDegenerateShape)
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	var radii [3]float64
	var axes [3][3]float64
	for i := 0; i < 3; i++ {
		if values[i] <= 0 {
			radii[i] = math.NaN()
		} else {
			radii[i] = 1 / math.Sqrt(values[i])
		}
		axes[i] = [3]float64{vecs.At(0, i), vecs.At(1, i), vecs.At(2, i)}
	}

	return Fit3D{Center: [3]float64{cx, cy, cz}, Radii: radii, Axes: axes}, nil
}

// Dimensions implements the computeEllipseDimensions wrapper: it fits
// the appropriate model for c's dimensionality and returns a 3-tuple
// (a, b, c) with the third radius 0 for 2D, sorted so a >= b.
func Dimensions(c *component.Component) (a, b, radiusC float64, err error) {
	if c.Is2D() {
		fit, ferr := FitEllipse2D(c.Points)
		if ferr != nil {
			return math.NaN(), math.NaN(), 0, ferr
		}
		ea, eb := fit.SemiAxes[0], fit.SemiAxes[1]
		if ea < eb {
			ea, eb = eb, ea
		}
		return ea, eb, 0, nil
	}

	fit, ferr := FitEllipsoid3D(c.Points)
	if ferr != nil {
		return math.NaN(), math.NaN(), math.NaN(), ferr
	}
	radii := fit.Radii[:]
	sorted := append([]float64(nil), radii...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted[0], sorted[1], sorted[2], nil
}
