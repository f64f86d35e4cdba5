package voxelstore

import "testing"

func TestNewGridDimensions(t *testing.T) {
	data := make([]uint8, 2*3*4)
	g, err := NewGrid(2, 3, 4, data)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Width() != 2 || g.Height() != 3 || g.Depth() != 4 {
		t.Errorf("dims = (%d,%d,%d), want (2,3,4)", g.Width(), g.Height(), g.Depth())
	}
}

func TestNewGridRejectsMismatchedLength(t *testing.T) {
	if _, err := NewGrid[uint8](2, 2, 2, make([]uint8, 4)); err == nil {
		t.Error("expected error for mismatched data length")
	}
}

func TestNewGridRejectsNonPositiveDims(t *testing.T) {
	if _, err := NewGrid[uint8](0, 2, 2, nil); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestGridAtRasterOrder(t *testing.T) {
	// 2x2x2 grid, values equal to their raster index so At's addressing
	// can be checked directly.
	data := []int32{0, 1, 2, 3, 4, 5, 6, 7}
	g, err := NewGrid(2, 2, 2, data)
	if err != nil {
		t.Fatal(err)
	}
	want := map[[3]int]float64{
		{0, 0, 0}: 0, {1, 0, 0}: 1,
		{0, 1, 0}: 2, {1, 1, 0}: 3,
		{0, 0, 1}: 4, {1, 0, 1}: 5,
		{0, 1, 1}: 6, {1, 1, 1}: 7,
	}
	for coord, v := range want {
		if got := g.At(coord[0], coord[1], coord[2]); got != v {
			t.Errorf("At%v = %v, want %v", coord, got, v)
		}
	}
}

func TestGridRawPreservesType(t *testing.T) {
	data := []uint16{10, 20, 30, 40}
	g, _ := NewGrid(2, 2, 1, data)
	if v := g.Raw(1, 1, 0); v != 40 {
		t.Errorf("Raw(1,1,0) = %d, want 40", v)
	}
}

func TestSeriesTimeSteps(t *testing.T) {
	g1, _ := NewGrid[uint8](1, 1, 1, []uint8{1})
	g2, _ := NewGrid[uint8](1, 1, 1, []uint8{2})
	s := &Series{Frames: []Store{g1, g2}}
	if s.TimeSteps() != 2 {
		t.Errorf("TimeSteps() = %d, want 2", s.TimeSteps())
	}
}
