// Package report renders a labeling run's output for human inspection:
// PNG plots via gonum.org/v1/plot (a size/sphericity histogram pair and
// a labeled-grid occupancy heatmap), grounded on the teacher's
// GridPlotter (internal/lidar/monitor/gridplotter.go), and an HTML
// dashboard via go-echarts, grounded on the teacher's webserver chart
// handlers (internal/lidar/monitor/echarts_handlers.go).
package report

import (
	"bytes"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/voxellab/shapekit/internal/features"
	"github.com/voxellab/shapekit/internal/labeler"
)

// RenderSizeHistogram writes a PNG to path histogramming component size
// (voxel volume) across rows.
func RenderSizeHistogram(rows []features.Row, path string) error {
	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		values[i] = r.Volume
	}
	return renderHistogram(values, "Component Size", "Voxel volume", path)
}

// RenderSphericityHistogram writes a PNG to path histogramming
// sphericity across rows.
func RenderSphericityHistogram(rows []features.Row, path string) error {
	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		values[i] = r.Sphericity
	}
	return renderHistogram(values, "Sphericity", "Sphericity", path)
}

func renderHistogram(values plotter.Values, title, xLabel, path string) error {
	if len(values) == 0 {
		return fmt.Errorf("report: no feature rows to histogram")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(values, histBins(len(values)))
	if err != nil {
		return fmt.Errorf("report: building histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}
	return nil
}

func histBins(n int) int {
	if n < 4 {
		return n
	}
	if n > 32 {
		return 32
	}
	return n / 2
}

// RenderLabelHeatmap writes a PNG to path visualizing one labeled frame
// as an x/y occupancy heatmap: each cell's value is the count of
// foreground voxels at that (x, y) across every z layer, so a 2D frame
// (depth 1) reduces to a footprint of its components and a 3D frame
// shows a top-down density projection.
func RenderLabelHeatmap(res *labeler.Result, path string) error {
	if res == nil || res.Width == 0 || res.Height == 0 {
		return fmt.Errorf("report: empty label result")
	}

	counts := make([]float64, res.Width*res.Height)
	for z := 0; z < res.Depth; z++ {
		for y := 0; y < res.Height; y++ {
			for x := 0; x < res.Width; x++ {
				if res.At(x, y, z) != 0 {
					counts[y*res.Width+x]++
				}
			}
		}
	}

	grid := occupancyGrid{w: res.Width, h: res.Height, counts: counts}
	heatmap := plotter.NewHeatMap(grid, palette.Heat(32, 1))

	p := plot.New()
	p.Title.Text = "Labeled Grid Occupancy"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(heatmap)

	if err := p.Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}
	return nil
}

// occupancyGrid adapts a flat row-major (x fastest) float64 slice to
// plotter.GridXYZ for RenderLabelHeatmap's occupancy counts.
type occupancyGrid struct {
	w, h   int
	counts []float64
}

func (g occupancyGrid) Dims() (c, r int)   { return g.w, g.h }
func (g occupancyGrid) X(c int) float64    { return float64(c) }
func (g occupancyGrid) Y(r int) float64    { return float64(r) }
func (g occupancyGrid) Z(c, r int) float64 { return g.counts[r*g.w+c] }

// FrameDashboard renders an HTML dashboard of a single frame's feature
// rows: a bar chart of per-component size and a scatter of sphericity
// against eccentricity (colored by hull fill ratio), in the spirit of
// the teacher's traffic/clusters chart handlers.
func FrameDashboard(w io.Writer, frameT int, rows []features.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("report: frame %d has no feature rows", frameT)
	}

	labels := make([]string, len(rows))
	sizeBars := make([]opts.BarData, len(rows))
	scatterPts := make([]opts.ScatterData, len(rows))
	for i, r := range rows {
		labels[i] = fmt.Sprintf("c%d", r.Index)
		sizeBars[i] = opts.BarData{Value: r.Volume}
		scatterPts[i] = opts.ScatterData{Value: []interface{}{r.Sphericity, r.Eccentricity, r.HullFillRatio}}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Frame %d Component Sizes", frameT)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("size", sizeBars,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Frame %d Shape Descriptors", frameT), Subtitle: "sphericity vs eccentricity, colored by hull fill ratio"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sphericity"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "eccentricity"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("components", scatterPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	page := components.NewPage()
	page.AddCharts(bar, scatter)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("report: render dashboard: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// RunDashboard renders one frame-size bar chart per frame into a single
// HTML document, in the order framesInOrder lists them.
func RunDashboard(w io.Writer, framesInOrder []int, rowsByFrame map[int][]features.Row) error {
	page := components.NewPage()

	rendered := 0
	for _, t := range framesInOrder {
		rows := rowsByFrame[t]
		if len(rows) == 0 {
			continue
		}
		labels := make([]string, len(rows))
		sizeBars := make([]opts.BarData, len(rows))
		for i, r := range rows {
			labels[i] = fmt.Sprintf("c%d", r.Index)
			sizeBars[i] = opts.BarData{Value: r.Volume}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Frame %d", t)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		bar.SetXAxis(labels).AddSeries("size", sizeBars)
		page.AddCharts(bar)
		rendered++
	}
	if rendered == 0 {
		return fmt.Errorf("report: no non-empty frames to render")
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("report: render run dashboard: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
