package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/voxellab/shapekit/internal/features"
	"github.com/voxellab/shapekit/internal/pipeline"
)

func TestPrintTableSkipsFailedFramesAndFormatsRows(t *testing.T) {
	results := []pipeline.FrameResult{
		{T: 0, Rows: []features.Row{{Index: 0, Volume: 12, Sphericity: 0.5, Eccentricity: 0.25, HullFillRatio: 0.9}}},
		{T: 1, Err: errFrame, Rows: []features.Row{{Index: 0, Volume: 7, Sphericity: 0.75}}},
	}

	f, err := os.CreateTemp(t.TempDir(), "table-*.txt")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	printTable(f, results)

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "frame") || !strings.Contains(out, "sphericity") {
		t.Errorf("printTable output missing header columns, got: %q", out)
	}
	if !strings.Contains(out, "0.5000") {
		t.Errorf("printTable output missing frame 0's sphericity value, got: %q", out)
	}
	if strings.Contains(out, "0.7500") {
		t.Errorf("printTable should have skipped the failed frame 1, got: %q", out)
	}
}

var errFrame = &testFrameErr{"boom"}

type testFrameErr struct{ s string }

func (e *testFrameErr) Error() string { return e.s }
