package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerCapturesPipelineStyleFrameMessages(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	})

	Logf("pipeline: frame %d: labeling failed: %v", 3, fmt.Errorf("boom"))
	Logf("pipeline: frame %d component %d: %v", 3, 1, fmt.Errorf("degenerate shape"))
	Logf("pipeline: frame %d: %d candidate voxel(s) labeled, %d component(s) survived filtering", 3, 40, 2)

	if len(captured) != 3 {
		t.Fatalf("captured %d messages, want 3", len(captured))
	}
	if captured[0] != "pipeline: frame 3: labeling failed: boom" {
		t.Errorf("captured[0] = %q", captured[0])
	}
	if captured[2] != "pipeline: frame 3: 40 candidate voxel(s) labeled, 2 component(s) survived filtering" {
		t.Errorf("captured[2] = %q", captured[2])
	}
}

func TestSetLoggerNilInstallsNoOp(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(string, ...interface{}) { called = true })
	SetLogger(nil)

	Logf("pipeline: frame %d: labeling failed: %v", 9, "ignored")
	if called {
		t.Error("Logf invoked the replaced logger after SetLogger(nil)")
	}
}

func TestLogfDefaultIsCallableWithoutPanic(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()
	Logf("pipeline: frame %d: labeling failed: %v", 0, "example")
}
