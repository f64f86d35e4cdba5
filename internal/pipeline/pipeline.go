// Package pipeline orchestrates the per-frame VoxelStore -> Labeler ->
// Component -> descriptor fan-out data flow (spec.md §2) across a
// voxelstore.Series, one t-slice per goroutine bounded by a worker pool
// and cancellable via context.Context, per spec.md §5. The concurrency
// shape (buffered semaphore channel + sync.WaitGroup, atomic progress
// counter) follows the teacher's internal/lidar/visualiser publisher
// lifecycle pattern.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/voxellab/shapekit/internal/features"
	"github.com/voxellab/shapekit/internal/kinds"
	"github.com/voxellab/shapekit/internal/labeler"
	"github.com/voxellab/shapekit/internal/monitoring"
	"github.com/voxellab/shapekit/internal/store"
	"github.com/voxellab/shapekit/internal/voxelstore"
)

// Run identifies one pipeline invocation across a Series, for
// correlating stored components and report output the way the teacher
// correlates tracks/runs by uuid.UUID.
type Run struct {
	ID          uuid.UUID
	CreatedUnix int64
	Source      string
}

// NewRun starts a new Run with a fresh random id and the current time.
func NewRun(source string) Run {
	return Run{ID: uuid.New(), CreatedUnix: time.Now().Unix(), Source: source}
}

// Options configures a pipeline invocation.
type Options struct {
	LabelOpts labeler.Options
	Scale     features.Scale
	DT        float64

	// MaxWorkers bounds the number of t-slices labeled concurrently.
	// Zero or negative selects a default of 4.
	MaxWorkers int
}

// FrameResult is one t-slice's outcome: either a populated Label plus
// its feature rows, or a non-nil Err if labeling that frame failed.
type FrameResult struct {
	T     int
	Label *labeler.Result
	Rows  []features.Row
	Err   error
}

// Progress reports how many of a Run's frames have completed, for a
// caller that wants to display a progress indicator during a long run.
type Progress struct {
	Done  atomic.Int64
	Total int64
}

// Run labels every frame in series concurrently, bounded by
// opts.MaxWorkers, and extracts a features.Row per resulting Component.
// It returns one FrameResult per t-slice, in t order, even though
// frames complete out of order. If ctx is canceled before a given
// frame's goroutine starts work, that frame's FrameResult carries
// ctx.Err() instead of a Label.
func Run(ctx context.Context, series *voxelstore.Series, opts Options, progress *Progress) ([]FrameResult, error) {
	total := series.TimeSteps()
	if total == 0 {
		return nil, fmt.Errorf("pipeline: %w", kinds.ErrEmptyInput)
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	results := make([]FrameResult, total)
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for t, frame := range series.Frames {
		wg.Add(1)
		sem <- struct{}{}
		go func(t int, frame voxelstore.Store) {
			defer wg.Done()
			defer func() { <-sem }()
			results[t] = labelOneFrame(ctx, frame, t, opts)
			if progress != nil {
				progress.Done.Add(1)
			}
		}(t, frame)
	}
	wg.Wait()

	return results, nil
}

func labelOneFrame(ctx context.Context, frame voxelstore.Store, t int, opts Options) FrameResult {
	if err := ctx.Err(); err != nil {
		return FrameResult{T: t, Err: err}
	}

	res, err := labeler.Label(frame, t, opts.LabelOpts)
	if err != nil {
		monitoring.Logf("pipeline: frame %d: labeling failed: %v", t, err)
		return FrameResult{T: t, Err: err}
	}

	rows := make([]features.Row, len(res.Components))
	for i, c := range res.Components {
		row, extractErr := features.Extract(c, i, t, opts.DT, opts.Scale)
		if extractErr != nil {
			monitoring.Logf("pipeline: frame %d component %d: %v", t, i, extractErr)
		}
		rows[i] = row
	}
	labeled := 0
	for _, c := range res.Components {
		labeled += c.Size()
	}
	monitoring.Logf("pipeline: frame %d: %d candidate voxel(s) labeled, %d component(s) survived filtering",
		t, labeled, len(res.Components))

	return FrameResult{T: t, Label: res, Rows: rows}
}

// Persist writes every successful FrameResult to db under run, inserting
// one runs row, one components row per retained Component, and one
// feature_rows row per extracted features.Row. Frames whose Err is
// non-nil are skipped; the caller is expected to have already logged or
// surfaced those failures.
func Persist(db *store.DB, run Run, results []FrameResult) error {
	if err := db.InsertRun(run.ID, run.CreatedUnix, run.Source); err != nil {
		return err
	}
	for _, fr := range results {
		if fr.Err != nil || fr.Label == nil {
			continue
		}
		for i, c := range fr.Label.Components {
			componentID, err := db.InsertComponent(store.ComponentRecord{
				RunID:   run.ID,
				T:       fr.T,
				FinalID: i + 1,
				Size:    c.Size(),
				OnEdgeX: c.OnEdgeX,
				OnEdgeY: c.OnEdgeY,
				OnEdgeZ: c.OnEdgeZ,
			})
			if err != nil {
				return err
			}
			if err := db.InsertFeatureRow(componentID, fr.Rows[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
