// Package monitoring gives the labeling pipeline a single indirection
// point for its diagnostic output, so pipeline.Run's per-frame warnings
// (a frame's labeler failing, a component's descriptor extraction
// failing, a frame's survivor count) can be redirected or silenced by a
// caller embedding this library instead of always going to log.Printf.
package monitoring

import "log"

// Logf is the package-level diagnostic logger pipeline.Run calls for its
// non-fatal, per-frame diagnostics (labeling failures, extraction
// failures, survivor counts). It defaults to log.Printf; replace it with
// SetLogger to route those lines elsewhere or mute them in a test.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op,
// useful for a pipeline test asserting on FrameResult.Err instead of
// wanting log.Printf noise for the failing frames it deliberately feeds
// pipeline.Run.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
