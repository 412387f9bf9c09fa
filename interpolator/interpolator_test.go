package interpolator

import (
	"math"
	"testing"
)

func fillSamples(t *testing.T, l *Lagrange, ts []float64) {
	for _, tt := range ts {
		var y [Dimension]float64
		for d := 0; d < Dimension; d++ {
			y[d] = tt * float64(d+1)
		}
		if err := l.AddPoint(tt, y); err != nil {
			t.Fatalf("AddPoint(%v): %v", tt, err)
		}
	}
}

// TestBoundaryE4 checks the interpolator boundary scenario: order 6,
// buffer 7, samples at t=0..6; interpolate(0.5) and interpolate(5.5)
// succeed, interpolate(-0.1) and interpolate(6.1) fail.
func TestBoundaryE4(t *testing.T) {
	l := New(6, 7)
	fillSamples(t, l, []float64{0, 1, 2, 3, 4, 5, 6})

	if _, err := l.Interpolate(0.5, 0); err != nil {
		t.Errorf("interpolate(0.5) should succeed, got %v", err)
	}
	if _, err := l.Interpolate(5.5, 0); err != nil {
		t.Errorf("interpolate(5.5) should succeed, got %v", err)
	}
	if _, err := l.Interpolate(-0.1, 0); err != ErrOutOfRange {
		t.Errorf("interpolate(-0.1) should fail with ErrOutOfRange, got %v", err)
	}
	if _, err := l.Interpolate(6.1, 0); err != ErrOutOfRange {
		t.Errorf("interpolate(6.1) should fail with ErrOutOfRange, got %v", err)
	}
}

func TestLinearExactness(t *testing.T) {
	l := New(6, 7)
	fillSamples(t, l, []float64{0, 1, 2, 3, 4, 5, 6})

	y, err := l.Interpolate(2.5, 0)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for d := 0; d < Dimension; d++ {
		want := 2.5 * float64(d+1)
		if math.Abs(y[d]-want) > 1e-9 {
			t.Errorf("dim %d: got %v want %v", d, y[d], want)
		}
	}
}

func TestOutOfOrderSample(t *testing.T) {
	l := New(6, 7)
	if err := l.AddPoint(1, [Dimension]float64{}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if err := l.AddPoint(1, [Dimension]float64{}); err != ErrOutOfOrderSample {
		t.Errorf("expected ErrOutOfOrderSample for equal t, got %v", err)
	}
	if err := l.AddPoint(0.5, [Dimension]float64{}); err != ErrOutOfOrderSample {
		t.Errorf("expected ErrOutOfOrderSample for decreasing t, got %v", err)
	}
}

func TestFIFOEviction(t *testing.T) {
	l := New(2, 3)
	fillSamples(t, l, []float64{0, 1, 2, 3})
	if l.Count() != 3 {
		t.Fatalf("expected buffer capped at 3, got %d", l.Count())
	}
	tMin, _, _ := l.Span()
	if tMin != 1 {
		t.Fatalf("expected oldest sample (t=0) evicted, tMin=%v", tMin)
	}
}

func TestInsufficientSamples(t *testing.T) {
	l := New(6, 7)
	fillSamples(t, l, []float64{0, 1, 2})
	if _, err := l.Interpolate(1, 0); err != ErrOutOfRange {
		t.Errorf("expected ErrOutOfRange with too few samples, got %v", err)
	}
}
