package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/voxellab/shapekit/internal/features"
	"github.com/voxellab/shapekit/internal/labeler"
	"github.com/voxellab/shapekit/internal/voxelstore"
)

func cubeSeries(t *testing.T, steps int) *voxelstore.Series {
	t.Helper()
	data := []uint8{
		1, 1, 0,
		1, 1, 0,
		0, 0, 0,
	}
	frames := make([]voxelstore.Store, steps)
	for i := range frames {
		g, err := voxelstore.NewGrid(3, 3, 1, data)
		if err != nil {
			t.Fatalf("NewGrid: %v", err)
		}
		frames[i] = g
	}
	return &voxelstore.Series{Frames: frames}
}

func baseOptions() Options {
	return Options{
		LabelOpts: labeler.Options{
			Mode:    labeler.BackgroundAll,
			MinSize: 1,
			MaxSize: 1 << 20,
		},
		Scale:      features.Scale{X: 1, Y: 1, Z: 1},
		DT:         1,
		MaxWorkers: 2,
	}
}

func TestRunLabelsEveryFrame(t *testing.T) {
	series := cubeSeries(t, 5)
	results, err := Run(context.Background(), series, baseOptions(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for i, r := range results {
		if r.T != i {
			t.Errorf("results[%d].T = %d, want %d", i, r.T, i)
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v, want nil", i, r.Err)
		}
		if len(r.Label.Components) != 1 {
			t.Errorf("results[%d] has %d components, want 1 (the 2x2 square)", i, len(r.Label.Components))
		}
		if len(r.Rows) != len(r.Label.Components) {
			t.Errorf("results[%d] has %d rows for %d components", i, len(r.Rows), len(r.Label.Components))
		}
	}
}

func TestRunEmptySeriesIsEmptyInput(t *testing.T) {
	_, err := Run(context.Background(), &voxelstore.Series{}, baseOptions(), nil)
	if err == nil {
		t.Fatal("Run() with zero frames: want error, got nil")
	}
}

func TestRunHonorsProgress(t *testing.T) {
	series := cubeSeries(t, 4)
	var p Progress
	_, err := Run(context.Background(), series, baseOptions(), &p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.Done.Load() != 4 {
		t.Errorf("Progress.Done = %d, want 4", p.Done.Load())
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	series := cubeSeries(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)

	results, err := Run(ctx, series, baseOptions(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, r := range results {
		if r.Err == nil {
			t.Errorf("results[%d].Err = nil, want context.Canceled for an already-canceled context", i)
		}
	}
}
