package pointgroup

import (
	"math"
	"testing"
)

func TestAddUserDefinedPoints(t *testing.T) {
	g := New()
	lats := []float64{0, math.Pi / 4, -math.Pi / 3}
	lons := []float64{0, math.Pi / 2, math.Pi}

	n := g.AddUserDefinedPoints(lats, lons)
	if n != 3 || g.NumPoints() != 3 {
		t.Fatalf("expected 3 points added, got %d (NumPoints=%d)", n, g.NumPoints())
	}

	for i := range lats {
		lat, lon := g.GetLatAndLon(i)
		if lat != lats[i] || lon != lons[i] {
			t.Errorf("point %d: got (%v,%v) want (%v,%v)", i, lat, lon, lats[i], lons[i])
		}
		v := g.GetPointPositionVector(i)
		if math.Abs(v.Norm()-1) > 1e-12 {
			t.Errorf("point %d: unit vector norm = %v, want 1", i, v.Norm())
		}
	}
}

func TestBoundingBoxRejection(t *testing.T) {
	g := NewBounded(-0.1, 0.1, -0.1, 0.1)
	lats := []float64{0, 1.0, -1.0}
	lons := []float64{0, 0, 0}

	n := g.AddUserDefinedPoints(lats, lons)
	if n != 1 {
		t.Fatalf("expected 1 point inside the bounding box, got %d", n)
	}
	if g.NumPoints() != 1 {
		t.Fatalf("expected group to hold 1 point, got %d", g.NumPoints())
	}
}
