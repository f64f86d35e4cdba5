package labeler

import (
	"testing"

	"github.com/voxellab/shapekit/internal/voxelstore"
)

func grid(t *testing.T, w, h, d int, data []uint8) voxelstore.Store {
	t.Helper()
	g, err := voxelstore.NewGrid(w, h, d, data)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func zeros(n int) []uint8 { return make([]uint8, n) }

func defaultOptions() Options {
	return Options{Mode: BackgroundAll, ReferenceValue: 0, MinSize: 1, MaxSize: 1 << 30}
}

func TestSolidCubeAwayFromEdgesYieldsOneComponent(t *testing.T) {
	const w, h, d = 7, 7, 7
	data := zeros(w * h * d)
	side := 3
	for z := 1; z <= side; z++ {
		for y := 1; y <= side; y++ {
			for x := 1; x <= side; x++ {
				data[(z*h+y)*w+x] = 1
			}
		}
	}
	res, err := Label(grid(t, w, h, d, data), 0, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("components = %d, want 1", len(res.Components))
	}
	if got := res.Components[0].Size(); got != side*side*side {
		t.Errorf("size = %d, want %d", got, side*side*side)
	}
	if res.Components[0].OnEdgeX || res.Components[0].OnEdgeY || res.Components[0].OnEdgeZ {
		t.Error("cube placed away from edges should not report on-edge")
	}
}

func TestTwoCubesSeparatedByBackgroundVoxel(t *testing.T) {
	const w, h, d = 9, 3, 3
	data := zeros(w * h * d)
	side := 3
	place := func(x0 int) {
		for z := 0; z < side; z++ {
			for y := 0; y < side; y++ {
				for x := 0; x < side; x++ {
					data[(z*h+y)*w+(x0+x)] = 1
				}
			}
		}
	}
	place(0) // occupies x=0..2
	place(4) // occupies x=4..6, leaving x=3 as a background gap
	res, err := Label(grid(t, w, h, d, data), 0, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(res.Components))
	}
	total := res.Components[0].Size() + res.Components[1].Size()
	if total != 2*side*side*side {
		t.Errorf("total size = %d, want %d", total, 2*side*side*side)
	}
}

func TestNoEdgeXDiscardsComponentTouchingXZero(t *testing.T) {
	const w, h, d = 5, 5, 5
	data := zeros(w * h * d)
	for z := 1; z < 3; z++ {
		for y := 1; y < 3; y++ {
			data[(z*h+y)*w+0] = 1
		}
	}
	opts := defaultOptions()
	opts.NoEdgeX = true
	res, err := Label(grid(t, w, h, d, data), 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 0 {
		t.Fatalf("components = %d, want 0", len(res.Components))
	}
}

func TestFlatSquareIsOneComponentAndIs2D(t *testing.T) {
	const w, h, d = 3, 3, 1
	data := []uint8{1, 1, 1, 1, 1, 1, 1, 1, 1}
	res, err := Label(grid(t, w, h, d, data), 0, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("components = %d, want 1", len(res.Components))
	}
	c := res.Components[0]
	if c.Size() != 9 {
		t.Errorf("size = %d, want 9", c.Size())
	}
	if !c.Is2D() {
		t.Error("Is2D() = false, want true")
	}
}

func TestExactValueSingleCenterVoxel(t *testing.T) {
	const w, h, d = 5, 5, 5
	data := zeros(w * h * d)
	data[(2*h+2)*w+2] = 2
	opts := Options{Mode: ExactValue, ReferenceValue: 2, MinSize: 1, MaxSize: 1 << 30}
	res, err := Label(grid(t, w, h, d, data), 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("components = %d, want 1", len(res.Components))
	}
	c := res.Components[0]
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
	mc := c.MassCenter()
	if mc.X != 2 || mc.Y != 2 || mc.Z != 2 {
		t.Errorf("mass center = %+v, want (2,2,2)", mc)
	}
	if !c.Is2D() {
		t.Error("a single-voxel component must report Is2D() true (min.z == max.z)")
	}
}

func TestNoEdgeXDiscardsBothCornerSquares(t *testing.T) {
	const w, h, d = 10, 10, 1
	data := zeros(w * h * d)
	place := func(x0, y0 int) {
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				data[(y0+y)*w+(x0+x)] = 1
			}
		}
	}
	place(0, 0)
	place(7, 0)
	opts := defaultOptions()
	opts.NoEdgeX = true
	res, err := Label(grid(t, w, h, d, data), 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 0 {
		t.Fatalf("components = %d, want 0", len(res.Components))
	}
}

func TestBackgroundLabeledSplitsByIntensityBackgroundAllMerges(t *testing.T) {
	const w, h, d = 2, 2, 1
	data := []uint8{1, 2, 3, 4}

	labeled, err := Label(grid(t, w, h, d, data), 0, Options{Mode: BackgroundLabeled, ReferenceValue: 0, MinSize: 1, MaxSize: 1 << 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(labeled.Components) != 4 {
		t.Fatalf("BackgroundLabeled components = %d, want 4", len(labeled.Components))
	}

	all, err := Label(grid(t, w, h, d, data), 0, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Components) != 1 {
		t.Fatalf("BackgroundAll components = %d, want 1", len(all.Components))
	}
	if all.Components[0].Size() != 4 {
		t.Errorf("BackgroundAll size = %d, want 4", all.Components[0].Size())
	}
}

func TestBackgroundLabeledRowOfTwoPairs(t *testing.T) {
	const w, h, d = 4, 1, 1
	data := []uint8{1, 1, 2, 2}
	res, err := Label(grid(t, w, h, d, data), 0, Options{Mode: BackgroundLabeled, ReferenceValue: 0, MinSize: 1, MaxSize: 1 << 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(res.Components))
	}
	for i, c := range res.Components {
		if c.Size() != 2 {
			t.Errorf("component[%d].Size() = %d, want 2", i, c.Size())
		}
	}
}

func TestSizeFilterInclusiveBounds(t *testing.T) {
	const w, h, d = 10, 1, 1
	data := zeros(w * h * d)
	for x := 0; x < 3; x++ {
		data[x] = 1
	}
	for x := 5; x < 5+4; x++ {
		data[x] = 1
	}
	opts := defaultOptions()
	opts.MinSize = 3
	opts.MaxSize = 3
	res, err := Label(grid(t, w, h, d, data), 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("components = %d, want 1 (only the size-3 run kept)", len(res.Components))
	}
	if res.Components[0].Size() != 3 {
		t.Errorf("size = %d, want 3", res.Components[0].Size())
	}
}

func TestInvalidBoundsRejected(t *testing.T) {
	data := zeros(8)
	opts := Options{Mode: BackgroundAll, MinSize: 5, MaxSize: 2}
	if _, err := Label(grid(t, 2, 2, 2, data), 0, opts); err == nil {
		t.Error("expected InvalidBounds error for minSize > maxSize")
	}
}

func TestLabeledGridIsDenseBijection(t *testing.T) {
	const w, h, d = 5, 5, 1
	data := []uint8{
		1, 1, 0, 1, 1,
		1, 1, 0, 1, 1,
		0, 0, 0, 0, 0,
		1, 0, 1, 0, 1,
		1, 0, 1, 0, 1,
	}
	res, err := Label(grid(t, w, h, d, data), 0, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[uint32]bool)
	for _, v := range res.Labels {
		if v != 0 {
			seen[v] = true
		}
	}
	if len(seen) != len(res.Components) {
		t.Fatalf("distinct label ids = %d, want %d", len(seen), len(res.Components))
	}
	for id := 1; id <= len(res.Components); id++ {
		if !seen[uint32(id)] {
			t.Errorf("missing dense id %d", id)
		}
	}
}
