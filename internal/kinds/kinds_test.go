package kinds

import (
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"empty input", fmt.Errorf("labeler: %w", ErrEmptyInput), KindEmptyInput},
		{"overflow", fmt.Errorf("arena: %w", ErrOverflow), KindOverflow},
		{"invalid bounds", ErrInvalidBounds, KindInvalidBounds},
		{"too few points", ErrTooFewPoints, KindTooFewPoints},
		{"degenerate", fmt.Errorf("ellipse: %w", ErrDegenerateShape), KindDegenerateShape},
		{"unrelated", fmt.Errorf("boom"), KindNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
