// Package features assembles the per-component feature row described in
// spec.md §6: a fixed-order tuple of scalar descriptors suitable for
// spreadsheet export by an external collaborator. Column order and
// 2D-mode omission follow the spec exactly; rollup helpers over a
// frame's row list are built on gonum/stat, mirroring the teacher's own
// use of stat for percentile rollups.
package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/voxellab/shapekit/internal/component"
	"github.com/voxellab/shapekit/internal/ellipse"
	"github.com/voxellab/shapekit/internal/hull"
	"github.com/voxellab/shapekit/internal/moments"
	"github.com/voxellab/shapekit/internal/perimeter"
	"github.com/voxellab/shapekit/internal/sphericity"
)

// Scale carries the physical size of one voxel along each axis, used to
// convert voxel-index quantities (mass center, volume) into physical
// units for the exported row.
type Scale struct {
	X, Y, Z float64
}

// Row is one component's feature row, in the column order spec.md §6
// names: index, t*dt, cx*sx, cy*sy, cz*sz, perimeter, size*voxelVolume,
// sphericity, majorAxis, minorAxis, minorZAxis, eccentricity,
// hullFillRatio, the fourteen M_pqr moments, convexPerimeter and
// convexVolume.
type Row struct {
	Index int
	Time  float64

	CX, CY, CZ float64

	Perimeter float64
	Volume    float64

	Sphericity float64

	MajorAxis, MinorAxis, MinorZAxis float64
	Eccentricity                     float64

	HullFillRatio float64

	Moments moments.Set

	ConvexPerimeter float64
	ConvexVolume    float64

	Is2D bool
}

// Extract builds the feature row for c. index is the component's
// position in the frame's final-id order; t and dt are the frame's time
// index and the physical time step (Time = float64(t) * dt); scale
// converts voxel-index quantities to physical units.
//
// The returned error is non-fatal (ellipse.Dimensions' TooFewPoints or
// DegenerateShape, per spec.md §7): it is returned for diagnostic
// purposes only — the row's axis/eccentricity fields are already NaN in
// that case and callers are free to ignore the error entirely.
func Extract(c *component.Component, index int, t int, dt float64, scale Scale) (Row, error) {
	is2D := c.Is2D()
	mc := c.MassCenter()

	voxelVolume := scale.X * scale.Y
	if !is2D {
		voxelVolume *= scale.Z
	}

	peri := perimeter.Estimate(c).Value
	sph := sphericity.Compute(c)
	hr := hull.Compute(c)

	major, minor, minorZ, err := ellipse.Dimensions(c)
	ecc := eccentricityOf(major, minor)

	hullFillRatio := 0.0
	if hr.Volume != 0 {
		hullFillRatio = float64(c.Size()) / hr.Volume
	}
	if hullFillRatio > 1 {
		hullFillRatio = 1
	}

	row := Row{
		Index:           index,
		Time:            float64(t) * dt,
		CX:              mc.X * scale.X,
		CY:              mc.Y * scale.Y,
		CZ:              mc.Z * scale.Z,
		Perimeter:       peri,
		Volume:          float64(c.Size()) * voxelVolume,
		Sphericity:      sph,
		MajorAxis:       major,
		MinorAxis:       minor,
		MinorZAxis:      minorZ,
		Eccentricity:    ecc,
		HullFillRatio:   hullFillRatio,
		Moments:         moments.Compute(c),
		ConvexPerimeter: hr.Contour,
		ConvexVolume:    hr.Volume,
		Is2D:            is2D,
	}

	if err != nil {
		return row, fmt.Errorf("features: ellipse fit: %w", err)
	}
	return row, nil
}

// eccentricityOf returns sqrt(1 - (minor/major)^2), the standard
// ellipse eccentricity, or NaN if either axis is NaN or major is zero.
func eccentricityOf(major, minor float64) float64 {
	if math.IsNaN(major) || math.IsNaN(minor) || major == 0 {
		return math.NaN()
	}
	ratio := minor / major
	v := 1 - ratio*ratio
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// ColumnNames returns the canonical column names in export order,
// matching Marshal's layout for the given dimensionality.
func ColumnNames(is2D bool) []string {
	names := []string{"index", "t", "cx", "cy"}
	if !is2D {
		names = append(names, "cz")
	}
	names = append(names, "perimeter", "volume", "sphericity",
		"major_axis", "minor_axis")
	if !is2D {
		names = append(names, "minor_z_axis")
	}
	names = append(names, "eccentricity", "hull_fill_ratio")
	names = append(names, momentNames(is2D)...)
	names = append(names, "convex_perimeter", "convex_volume")
	return names
}

func momentNames(is2D bool) []string {
	if is2D {
		return []string{"m100", "m010", "m110", "m200", "m020", "m220"}
	}
	return []string{
		"m100", "m010", "m001",
		"m110", "m101", "m011", "m111",
		"m200", "m020", "m002",
		"m220", "m202", "m022", "m222",
	}
}

// Marshal flattens the row to a float64 slice in ColumnNames(r.Is2D)
// order. In 2D mode the z-bearing cells (cz, minorZAxis, and every
// moment whose order touches z) are omitted entirely, per spec.md §6,
// rather than zeroed.
func (r Row) Marshal() []float64 {
	vals := []float64{float64(r.Index), r.Time, r.CX, r.CY}
	if !r.Is2D {
		vals = append(vals, r.CZ)
	}
	vals = append(vals, r.Perimeter, r.Volume, r.Sphericity, r.MajorAxis, r.MinorAxis)
	if !r.Is2D {
		vals = append(vals, r.MinorZAxis)
	}
	vals = append(vals, r.Eccentricity, r.HullFillRatio)
	vals = append(vals, r.momentValues()...)
	vals = append(vals, r.ConvexPerimeter, r.ConvexVolume)
	return vals
}

func (r Row) momentValues() []float64 {
	m := r.Moments
	if r.Is2D {
		return []float64{m.M100, m.M010, m.M110, m.M200, m.M020, m.M220}
	}
	return []float64{
		m.M100, m.M010, m.M001,
		m.M110, m.M101, m.M011, m.M111,
		m.M200, m.M020, m.M002,
		m.M220, m.M202, m.M022, m.M222,
	}
}

// Rollup summarizes one column across a frame's rows: mean and sample
// standard deviation, computed with gonum/stat the way the teacher's
// internal/db rollups compute percentiles and moments over a result set.
type Rollup struct {
	Mean   float64
	StdDev float64
	N      int
}

// RollupSize returns the mean/stddev of Volume across rows.
func RollupSize(rows []Row) Rollup {
	return rollupOf(rows, func(r Row) float64 { return r.Volume })
}

// RollupSphericity returns the mean/stddev of Sphericity across rows.
func RollupSphericity(rows []Row) Rollup {
	return rollupOf(rows, func(r Row) float64 { return r.Sphericity })
}

func rollupOf(rows []Row, get func(Row) float64) Rollup {
	if len(rows) == 0 {
		return Rollup{}
	}
	vals := make([]float64, len(rows))
	for i, r := range rows {
		vals[i] = get(r)
	}
	mean, std := stat.MeanStdDev(vals, nil)
	return Rollup{Mean: mean, StdDev: std, N: len(vals)}
}
