// Package kinds defines the sentinel error kinds shared by the labeler
// and descriptor packages, classified through errors.Is/errors.As rather
// than string matching.
package kinds

import "errors"

// Fatal errors abort the call that produced them.
var (
	// ErrEmptyInput signals a zero time-point or zero-volume frame.
	ErrEmptyInput = errors.New("kinds: empty input")
	// ErrOverflow signals a label population exceeding the arena index type.
	ErrOverflow = errors.New("kinds: label arena overflow")
	// ErrInvalidBounds signals minSize > maxSize or maxSize < 1.
	ErrInvalidBounds = errors.New("kinds: invalid size bounds")
)

// Non-fatal sentinels are returned, wrapped, by the ellipse fits;
// ellipse.Dimensions returns them alongside NaN radii, and
// features.Extract passes them on with an otherwise complete row.
// Callers compare them with errors.Is or Classify.
var (
	// ErrTooFewPoints signals an ellipse/ellipsoid fit denied for lack of
	// distinct input points.
	ErrTooFewPoints = errors.New("kinds: too few points for fit")
	// ErrDegenerateShape signals a singular system in an ellipse/ellipsoid
	// fit (e.g. a coplanar point cloud).
	ErrDegenerateShape = errors.New("kinds: degenerate shape")
)

// Kind identifies which sentinel (if any) an error wraps.
type Kind int

const (
	KindNone Kind = iota
	KindEmptyInput
	KindOverflow
	KindInvalidBounds
	KindTooFewPoints
	KindDegenerateShape
)

// Classify reports which Kind an error wraps, if any.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrOverflow):
		return KindOverflow
	case errors.Is(err, ErrInvalidBounds):
		return KindInvalidBounds
	case errors.Is(err, ErrTooFewPoints):
		return KindTooFewPoints
	case errors.Is(err, ErrDegenerateShape):
		return KindDegenerateShape
	default:
		return KindNone
	}
}
