package orbitstate

import (
	"math"
	"testing"
)

const muEarth = 398600.4415 // km^3/s^2

func TestKeplerianCartesianRoundTrip(t *testing.T) {
	cases := []Keplerian{
		{SMA: 6900, ECC: 0.002, INC: math.Pi / 3, RAAN: math.Pi / 4, AOP: math.Pi / 4, TA: math.Pi / 4},
		{SMA: 7000, ECC: 0.01, INC: 0.9, RAAN: 1.2, AOP: 2.1, TA: 0.3},
		{SMA: 26600, ECC: 0.7, INC: 1.1, RAAN: 5.0, AOP: 0.5, TA: 3.0},
		{SMA: 42164, ECC: 0.001, INC: 0.05, RAAN: 1.0, AOP: 2.0, TA: 4.0},
	}
	for _, k := range cases {
		st := NewFromKeplerian(k, muEarth)
		got := st.ToKeplerian()
		if math.Abs(got.SMA-k.SMA) > 1e-5 {
			t.Errorf("SMA round trip: got %.8f want %.8f", got.SMA, k.SMA)
		}
		if math.Abs(got.ECC-k.ECC) > 1e-7 {
			t.Errorf("ECC round trip: got %.10f want %.10f", got.ECC, k.ECC)
		}
		if angDiff(got.INC, k.INC) > 1e-7 {
			t.Errorf("INC round trip: got %.10f want %.10f", got.INC, k.INC)
		}
		if angDiff(got.RAAN, k.RAAN) > 1e-7 {
			t.Errorf("RAAN round trip: got %.10f want %.10f", got.RAAN, k.RAAN)
		}
		if angDiff(got.AOP, k.AOP) > 1e-7 {
			t.Errorf("AOP round trip: got %.10f want %.10f", got.AOP, k.AOP)
		}
		if angDiff(got.TA, k.TA) > 1e-7 {
			t.Errorf("TA round trip: got %.10f want %.10f", got.TA, k.TA)
		}
	}
}

func TestCircularOrbitTieBreak(t *testing.T) {
	k := Keplerian{SMA: 7000, ECC: 0, INC: math.Pi / 2, RAAN: 0.5, AOP: 0.9, TA: 0.9}
	st := NewFromKeplerian(k, muEarth)
	got := st.ToKeplerian()
	if got.AOP != 0 {
		t.Errorf("circular orbit AOP should be 0, got %v", got.AOP)
	}
	if math.Abs(got.ECC) > 1e-9 {
		t.Errorf("expected eccentricity ~0, got %v", got.ECC)
	}
}

func TestEquatorialOrbitTieBreak(t *testing.T) {
	k := Keplerian{SMA: 7000, ECC: 0.1, INC: 0, RAAN: 0, AOP: 1.2, TA: 0.4}
	st := NewFromKeplerian(k, muEarth)
	got := st.ToKeplerian()
	if got.RAAN != 0 {
		t.Errorf("equatorial orbit RAAN should be 0, got %v", got.RAAN)
	}
	if angDiff(got.INC, 0) > 1e-7 {
		t.Errorf("expected inclination ~0, got %v", got.INC)
	}
}

func angDiff(a, b float64) float64 {
	d := math.Mod(a-b+math.Pi, 2*math.Pi) - math.Pi
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d)
}
