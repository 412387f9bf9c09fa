package sensor

import (
	"math"
	"testing"
)

const deg = math.Pi / 180

func TestConicalBoundary(t *testing.T) {
	c := NewConical(30 * deg)
	if !c.CheckTargetVisibility(29*deg, 0) {
		t.Error("expected visible inside cone")
	}
	if c.CheckTargetVisibility(31*deg, 0) {
		t.Error("expected not visible outside cone")
	}
	if !c.CheckTargetVisibility(30*deg, 1.23) {
		t.Error("expected visible exactly at boundary")
	}
}

// TestRectangularE2 checks a boundary scenario exactly: a 30deg x 10deg
// rectangular sensor tested at four (cone, clock) points.
func TestRectangularE2(t *testing.T) {
	r := NewRectangular(10*deg, 30*deg) // height=10deg, width=30deg

	cases := []struct {
		cone, clock float64
		visible     bool
	}{
		{16 * deg, 90 * deg, false},
		{14 * deg, 90 * deg, true},
		{6 * deg, 0, false},
		{4 * deg, 0, true},
	}
	for _, c := range cases {
		got := r.CheckTargetVisibility(c.cone, c.clock)
		if got != c.visible {
			t.Errorf("cone=%.1f clock=%.1f: got %v want %v", c.cone/deg, c.clock/deg, got, c.visible)
		}
	}
}

func TestRectangularSymmetry(t *testing.T) {
	r := NewRectangular(20*deg, 20*deg)
	eps := 0.01 * deg
	if !r.CheckTargetVisibility(10*deg-eps, 0) {
		t.Error("expected visible just inside +H boundary")
	}
	if r.CheckTargetVisibility(10*deg+eps, 0) {
		t.Error("expected not visible just outside +H boundary")
	}
}

func TestCustomInvalidFOV(t *testing.T) {
	if _, err := NewCustom([]float64{0.1, 0.2}, []float64{0, 1}); err == nil {
		t.Error("expected error for < 3 vertices")
	}
	if _, err := NewCustom([]float64{0.1, 0.2, 0.3}, []float64{0, 1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := NewCustom([]float64{0.1, 0.2, math.Pi - 1e-20}, []float64{0, 1, 2}); err == nil {
		t.Error("expected error for vertex at the projection singularity")
	}
}

// TestCustomConicalEquivalence checks that a custom sensor whose polygon
// traces the boundary of a conical FOV of half-angle alpha reproduces
// conical visibility everywhere away from the projected singularity.
func TestCustomConicalEquivalence(t *testing.T) {
	alpha := 25 * deg
	n := 36
	cone := make([]float64, n)
	clock := make([]float64, n)
	for i := 0; i < n; i++ {
		cone[i] = alpha
		clock[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	custom, err := NewCustom(cone, clock)
	if err != nil {
		t.Fatalf("NewCustom: %v", err)
	}
	conical := NewConical(alpha)

	probes := []struct{ cone, clock float64 }{
		{5 * deg, 0},
		{20 * deg, 1.5},
		{24 * deg, 3.9},
		{26 * deg, 0.2},
		{40 * deg, 2.0},
		{10 * deg, 5.0},
	}
	for _, p := range probes {
		want := conical.CheckTargetVisibility(p.cone, p.clock)
		got := custom.CheckTargetVisibility(p.cone, p.clock)
		if got != want {
			t.Errorf("cone=%.2f clock=%.2f: custom=%v conical=%v", p.cone, p.clock, got, want)
		}
	}
}
