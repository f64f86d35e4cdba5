// Command reportgen reads a previously persisted run from the sqlite
// store and renders the gonum/plot size and sphericity histogram PNGs and
// the go-echarts per-frame size dashboard from SPEC_FULL.md's report
// component; the labeled-grid heatmap is not rendered, since the store
// keeps no labeled grids. Flag handling
// follows the same flat stdlib flag.FlagSet convention as cmd/labelcli.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/voxellab/shapekit/internal/features"
	"github.com/voxellab/shapekit/internal/report"
	"github.com/voxellab/shapekit/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "sqlite database path written by labelcli (required)")
	runIDStr := flag.String("run", "", "run id (uuid) to render (required)")
	outDir := flag.String("out", "report_out", "directory to write PNG/HTML outputs into")
	flag.Parse()

	if *dbPath == "" || *runIDStr == "" {
		log.Fatal("reportgen: -db and -run are required")
	}
	runID, err := uuid.Parse(*runIDStr)
	if err != nil {
		log.Fatalf("reportgen: parsing -run: %v", err)
	}

	db, err := store.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("reportgen: opening store %s: %v", *dbPath, err)
	}
	defer db.Close()

	frameRows, err := db.RunFrameRows(runID)
	if err != nil {
		log.Fatalf("reportgen: loading run %s: %v", runID, err)
	}
	if len(frameRows) == 0 {
		log.Fatalf("reportgen: run %s has no stored feature rows", runID)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("reportgen: creating %s: %v", *outDir, err)
	}

	allRows := make([]features.Row, 0, len(frameRows))
	rowsByFrame := map[int][]features.Row{}
	for _, fr := range frameRows {
		allRows = append(allRows, fr.Row)
		rowsByFrame[fr.T] = append(rowsByFrame[fr.T], fr.Row)
	}

	sizePath := filepath.Join(*outDir, "size_histogram.png")
	if err := report.RenderSizeHistogram(allRows, sizePath); err != nil {
		log.Fatalf("reportgen: rendering size histogram: %v", err)
	}
	sphPath := filepath.Join(*outDir, "sphericity_histogram.png")
	if err := report.RenderSphericityHistogram(allRows, sphPath); err != nil {
		log.Fatalf("reportgen: rendering sphericity histogram: %v", err)
	}

	framesInOrder := make([]int, 0, len(rowsByFrame))
	for t := range rowsByFrame {
		framesInOrder = append(framesInOrder, t)
	}
	sort.Ints(framesInOrder)

	dashboardPath := filepath.Join(*outDir, "dashboard.html")
	dashboardFile, err := os.Create(dashboardPath)
	if err != nil {
		log.Fatalf("reportgen: creating %s: %v", dashboardPath, err)
	}
	defer dashboardFile.Close()
	if err := report.RunDashboard(dashboardFile, framesInOrder, rowsByFrame); err != nil {
		log.Fatalf("reportgen: rendering dashboard: %v", err)
	}

	fmt.Printf("reportgen: wrote %s, %s, %s\n", sizePath, sphPath, dashboardPath)
}
