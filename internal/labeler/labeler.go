// Package labeler implements the single-pass raster-scan union-find
// connected-component labeler: it assigns provisional labels while
// scanning a VoxelStore, records equivalences in a LabelArena, then
// performs the two finalization passes (equivalence resolution and
// rewrite) that turn provisional labels into a dense, filtered set of
// Components.
package labeler

import (
	"fmt"

	"github.com/voxellab/shapekit/internal/component"
	"github.com/voxellab/shapekit/internal/kinds"
	"github.com/voxellab/shapekit/internal/labelarena"
	"github.com/voxellab/shapekit/internal/voxelstore"
)

// ExtractionMode selects how a voxel's intensity is turned into a
// foreground/background decision.
type ExtractionMode int

const (
	// BackgroundAll treats every voxel whose intensity differs from the
	// reference value as foreground, regardless of its exact value.
	BackgroundAll ExtractionMode = iota
	// BackgroundLabeled is like BackgroundAll, but additionally requires
	// a voxel to match the image_value already recorded on a candidate
	// neighbor label before the two are merged — so distinct intensities
	// never merge into one component.
	BackgroundLabeled
	// ExactValue treats only voxels equal to the reference value as
	// foreground.
	ExactValue
	// RegionOfInterest is reinterpreted as BackgroundLabeled with a
	// reference value of 0: the input grid is assumed to already carry
	// per-ROI integer tags.
	RegionOfInterest
)

func (m ExtractionMode) String() string {
	switch m {
	case BackgroundAll:
		return "BackgroundAll"
	case BackgroundLabeled:
		return "BackgroundLabeled"
	case ExactValue:
		return "ExactValue"
	case RegionOfInterest:
		return "RegionOfInterest"
	default:
		return fmt.Sprintf("ExtractionMode(%d)", int(m))
	}
}

// Options configures one Label call.
type Options struct {
	Mode           ExtractionMode
	ReferenceValue float64
	MinSize        int
	MaxSize        int
	NoEdgeX        bool
	NoEdgeY        bool
	NoEdgeZ        bool
}

// Validate checks the fatal-at-the-call-boundary InvalidBounds
// condition: minSize >= 1 and maxSize >= minSize.
func (o Options) Validate() error {
	if o.MinSize < 1 || o.MaxSize < o.MinSize {
		return kinds.ErrInvalidBounds
	}
	return nil
}

// Result is the output of a single Label call: the dense relabeled grid
// (background = 0) and the Components materialized from it, in
// ascending final-id order.
type Result struct {
	Labels               []uint32
	Width, Height, Depth int
	Components           []*component.Component
}

// At returns the final label id at (x, y, z); 0 means background.
func (r *Result) At(x, y, z int) uint32 {
	return r.Labels[(z*r.Height+y)*r.Width+x]
}

// backwardOffsets13 enumerates the 13 neighbors of a 26-connectivity
// stencil that precede (0,0,0) in z-then-y-then-x raster order, as
// (dx, dy, dz) triples. A generic bounds check (rather than the nine-way
// unrolled switch design note 9 describes as the faster alternative) is
// used here; it is correct and keeps the scan readable.
var backwardOffsets13 = [13][3]int{
	{-1, -1, -1}, {0, -1, -1}, {1, -1, -1},
	{-1, 0, -1}, {0, 0, -1}, {1, 0, -1},
	{-1, 1, -1}, {0, 1, -1}, {1, 1, -1},
	{-1, -1, 0}, {0, -1, 0}, {1, -1, 0},
	{-1, 0, 0},
}

// Label runs the three-pass labeler over one time slice of a VoxelStore
// and returns the relabeled grid plus its Components.
func Label(store voxelstore.Store, t int, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("labeler: %w", err)
	}

	mode := opts.Mode
	refValue := opts.ReferenceValue
	if mode == RegionOfInterest {
		mode = BackgroundLabeled
		refValue = 0
	}

	w, h, d := store.Width(), store.Height(), store.Depth()
	n := w * h * d
	idx := func(x, y, z int) int { return (z*h+y)*w + x }

	candidate := func(p float64) bool {
		if mode == ExactValue {
			return p == refValue
		}
		return p != refValue
	}

	provisional := make([]int, n)
	arena := labelarena.New(n / 2)

	// Pass 1: raster scan, provisional labels + equivalences.
	var qualifying []int
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p := store.At(x, y, z)
				if !candidate(p) {
					continue
				}

				qualifying = qualifying[:0]
				minLabel := 0
				for _, off := range backwardOffsets13 {
					nx, ny, nz := x+off[0], y+off[1], z+off[2]
					if nx < 0 || nx >= w || ny < 0 || ny >= h || nz < 0 {
						continue
					}
					id := provisional[idx(nx, ny, nz)]
					if id == 0 {
						continue
					}
					if mode == BackgroundLabeled && arena.Get(id).ImageValue != p {
						continue
					}
					qualifying = append(qualifying, id)
					if minLabel == 0 || id < minLabel {
						minLabel = id
					}
				}

				var chosen int
				if minLabel == 0 {
					var err error
					chosen, err = arena.Alloc(p)
					if err != nil {
						return nil, fmt.Errorf("labeler: %w", err)
					}
				} else {
					chosen = minLabel
					for _, id := range qualifying {
						if id != chosen {
							arena.Union(id, chosen)
						}
					}
				}

				provisional[idx(x, y, z)] = chosen
				onEdgeX := x == 0 || x == w-1
				onEdgeY := y == 0 || y == h-1
				// A z-edge voxel in a depth==1 (2D) input always reports
				// on_edge_z; per spec.md §4.1 it is the caller's
				// responsibility to pass NoEdgeZ=false in that case.
				onEdgeZ := z == 0 || z == d-1
				arena.Accumulate(chosen, onEdgeX, onEdgeY, onEdgeZ)
			}
		}
	}

	// Pass 2: equivalence resolution, size/edge filtering, dense relabel.
	k := arena.ResolveEquivalences(opts.MinSize, opts.MaxSize, opts.NoEdgeX, opts.NoEdgeY, opts.NoEdgeZ)

	components := make([]*component.Component, k)
	for id := 1; id <= arena.Len(); id++ {
		l := arena.Get(id)
		if l.Finalized && l.TargetID != 0 {
			components[l.TargetID-1] = &component.Component{
				T:       t,
				OnEdgeX: l.OnEdgeX,
				OnEdgeY: l.OnEdgeY,
				OnEdgeZ: l.OnEdgeZ,
				Points:  make([]component.Point, 0, l.Size),
			}
		}
	}

	// Pass 3: rewrite voxels to their final id and materialize points.
	labels := make([]uint32, n)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pid := provisional[idx(x, y, z)]
				if pid == 0 {
					continue
				}
				final := arena.FinalID(pid)
				if final == 0 {
					continue
				}
				labels[idx(x, y, z)] = uint32(final)
				comp := components[final-1]
				comp.Points = append(comp.Points, component.Point{X: x, Y: y, Z: z})
			}
		}
	}

	return &Result{Labels: labels, Width: w, Height: h, Depth: d, Components: components}, nil
}
