package coverage

import (
	"math"
	"testing"

	"github.com/covanalysis/propcov-go/absolutedate"
	"github.com/covanalysis/propcov-go/attitude"
	"github.com/covanalysis/propcov-go/earth"
	"github.com/covanalysis/propcov-go/internal/linalg"
	"github.com/covanalysis/propcov-go/interpolator"
	"github.com/covanalysis/propcov-go/orbitstate"
	"github.com/covanalysis/propcov-go/pointgroup"
	"github.com/covanalysis/propcov-go/propagator"
	"github.com/covanalysis/propcov-go/sensor"
	"github.com/covanalysis/propcov-go/spacecraft"
)

// fakePoints is a minimal pointGroupView used to drive the sweep with
// hand-picked geometry.
type fakePoints struct {
	lat, lon []float64
	vec      []linalg.Vec3
}

func (f *fakePoints) NumPoints() int { return len(f.vec) }
func (f *fakePoints) GetLatAndLon(i int) (float64, float64) {
	return f.lat[i], f.lon[i]
}
func (f *fakePoints) GetPointPositionVector(i int) linalg.Vec3 { return f.vec[i] }

// fakeSpacecraft is a minimal spacecraftView. When sensors is 0,
// CheckTargetVisibility is never called and the horizon-only fallback path
// is exercised instead.
type fakeSpacecraft struct {
	state   orbitstate.State
	jd      float64
	sensors int
}

func (f *fakeSpacecraft) GetCartesianState() orbitstate.State { return f.state }
func (f *fakeSpacecraft) GetJulianDate() float64              { return f.jd }
func (f *fakeSpacecraft) NumSensors() int                     { return f.sensors }
func (f *fakeSpacecraft) CheckTargetVisibility(_, _, _ linalg.Vec3, _ int) bool {
	return true
}
func (f *fakeSpacecraft) TimeToInterpolate(float64) bool { return false }
func (f *fakeSpacecraft) Interpolate(float64) (orbitstate.State, error) {
	return orbitstate.State{}, ErrNotInterpolable
}

// TestIntervalGrouping checks that a synthetic point with time_series =
// [3,4,5,9,10] decomposes into exactly two intervals, (date[3], date[5])
// and (date[9], date[10]); a point with a single sample produces no
// interval.
func TestIntervalGrouping(t *testing.T) {
	points := &fakePoints{lat: []float64{0, 0}, lon: []float64{0, 0}, vec: []linalg.Vec3{{1, 0, 0}, {1, 0, 0}}}
	sc := &fakeSpacecraft{}
	body := earth.NewDefault()

	c := New(points, sc, body)
	c.dateBuffer = make([]float64, 11)
	for i := range c.dateBuffer {
		c.dateBuffer[i] = 2457000.5 + float64(i)
	}
	c.timeSeries[0] = []int{3, 4, 5, 9, 10}
	c.timeSeries[1] = []int{7}

	reports := c.ProcessCoverageData()
	if len(reports) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(reports))
	}
	if reports[0].PointIndex != 0 || reports[1].PointIndex != 0 {
		t.Fatalf("intervals should both belong to point 0, got %+v", reports)
	}
	if reports[0].Start.JulianDate() != c.dateBuffer[3] || reports[0].End.JulianDate() != c.dateBuffer[5] {
		t.Errorf("first interval wrong: got [%v, %v]", reports[0].Start.JulianDate(), reports[0].End.JulianDate())
	}
	if reports[1].Start.JulianDate() != c.dateBuffer[9] || reports[1].End.JulianDate() != c.dateBuffer[10] {
		t.Errorf("second interval wrong: got [%v, %v]", reports[1].Start.JulianDate(), reports[1].End.JulianDate())
	}
}

// TestIntervalDecompositionIsMaximalRuns checks property 7: every emitted
// interval's underlying time-series subsequence is a maximal run of
// consecutive integers with length >= 2.
func TestIntervalDecompositionIsMaximalRuns(t *testing.T) {
	points := &fakePoints{lat: []float64{0}, lon: []float64{0}, vec: []linalg.Vec3{{1, 0, 0}}}
	sc := &fakeSpacecraft{}
	c := New(points, sc, earth.NewDefault())
	c.dateBuffer = make([]float64, 6)
	c.timeSeries[0] = []int{0, 1, 2}

	reports := c.ProcessCoverageData()
	if len(reports) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(reports))
	}
}

// TestDiscreteEventsOffByOneSlicing pins down the slicing behavior
// documented on ProcessCoverageData: the sub-samples attached to an
// emitted interval are discreteEvents[i][1:numEvents], skipping the
// placeholder seeded at construction.
func TestDiscreteEventsOffByOneSlicing(t *testing.T) {
	points := &fakePoints{lat: []float64{0}, lon: []float64{0}, vec: []linalg.Vec3{{1, 0, 0}}}
	sc := &fakeSpacecraft{}
	c := New(points, sc, earth.NewDefault())

	c.dateBuffer = []float64{100, 101}
	c.timeSeries[0] = []int{0, 1}
	c.discreteEvents[0] = append(c.discreteEvents[0],
		VisiblePOIReport{JulianDate: 100},
		VisiblePOIReport{JulianDate: 101},
	)
	// discreteEvents[0] now holds [placeholder, sample@100, sample@101];
	// numEvents == 2, so the emitted slice is discreteEvents[0][1:2], i.e.
	// only the first real sample.

	reports := c.ProcessCoverageData()
	if len(reports) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(reports))
	}
	if len(reports[0].SubSamples) != 1 {
		t.Fatalf("expected exactly 1 sub-sample from the off-by-one slicing, got %d", len(reports[0].SubSamples))
	}
	if reports[0].SubSamples[0].JulianDate != 100 {
		t.Errorf("expected the first real sample to survive the slice, got %+v", reports[0].SubSamples[0])
	}
}

// TestFeasibilityPruning checks property 8: a point on the far side of
// the Earth from the satellite is never added to the time series.
func TestFeasibilityPruning(t *testing.T) {
	body := earth.NewDefault()
	re := body.EquatorialRadius
	const jd = 2457000.5

	// state.R is inertial; pre-rotate the desired body-fixed sub-satellite
	// direction by the inverse of the frame's GMST rotation so the
	// body-fixed vector the sweep computes lands exactly on +X.
	satRBodyFixed := linalg.Vec3{re + 700, 0, 0}
	satR := body.BodyFixedToInertial(satRBodyFixed, jd)
	sc := &fakeSpacecraft{
		state: orbitstate.State{R: satR, V: linalg.Vec3{0, 7, 0}, Mu: body.Mu},
		jd:    jd,
	}

	nearPoint := linalg.Vec3{1, 0, 0}.Unit()
	farPoint := linalg.Vec3{-1, 0, 0}.Unit()
	points := &fakePoints{
		lat: []float64{0, 0}, lon: []float64{0, math.Pi},
		vec: []linalg.Vec3{nearPoint, farPoint},
	}

	c := New(points, sc, body)
	visible := c.AccumulateCoverageData()

	if c.feasibility[1] {
		t.Errorf("far-side point should not be feasible")
	}
	for _, idx := range visible {
		if idx == 1 {
			t.Errorf("far-side point must not appear in the visible set")
		}
	}
	if len(c.timeSeries[1]) != 0 {
		t.Errorf("far-side point must not be recorded in its time series")
	}
}

// TestHorizonOnlyFallback exercises the no-sensor fallback path: a
// directly-overhead point should be visible, a point near the horizon's
// edge but beyond the visibility cap should not.
func TestHorizonOnlyFallback(t *testing.T) {
	body := earth.NewDefault()
	re := body.EquatorialRadius
	const jd = 2457000.5

	// Place the satellite directly over the pole, so the overhead point's
	// range vector keeps a positive body-fixed Z component (the literal
	// range_vec.z test in the horizon-only fallback).
	satRBodyFixed := linalg.Vec3{0, 0, re + 700}
	satR := body.BodyFixedToInertial(satRBodyFixed, jd)
	sc := &fakeSpacecraft{
		state: orbitstate.State{R: satR, V: linalg.Vec3{7, 0, 0}, Mu: body.Mu},
		jd:    jd,
	}

	overhead := linalg.Vec3{0, 0, 1}
	// A point at colatitude ~89 degrees from the satellite's sub-point is
	// well outside the visibility cap for a 700 km orbit.
	colat := 89.0 * math.Pi / 180.0
	grazing := linalg.Vec3{math.Sin(colat), 0, math.Cos(colat)}

	points := &fakePoints{
		lat: []float64{math.Pi / 2, math.Pi/2 - colat}, lon: []float64{0, 0},
		vec: []linalg.Vec3{overhead, grazing},
	}

	c := New(points, sc, body)
	visible := c.AccumulateCoverageData()

	found := map[int]bool{}
	for _, v := range visible {
		found[v] = true
	}
	if !found[0] {
		t.Errorf("directly overhead point should be visible via the horizon-only fallback")
	}
	if found[1] {
		t.Errorf("point far around the limb should not be visible")
	}
}

// TestAccumulateCoverageDataAtNotInterpolable checks that requesting a
// sample the spacecraft cannot service surfaces ErrNotInterpolable.
func TestAccumulateCoverageDataAtNotInterpolable(t *testing.T) {
	body := earth.NewDefault()
	points := &fakePoints{lat: []float64{0}, lon: []float64{0}, vec: []linalg.Vec3{{1, 0, 0}}}
	sc := &fakeSpacecraft{}

	c := New(points, sc, body)
	_, err := c.AccumulateCoverageDataAt(2457000.5)
	if err == nil {
		t.Fatal("expected ErrNotInterpolable")
	}
}

// TestNadirConicalSweep runs the canonical end-to-end scenario: a nadir-
// pointing 30 degree conical sensor on an a=6900 km, e=0.002, i=60 degree
// orbit swept at 60 s steps for 0.1 day against a 200-point spiral grid.
// At least one point must be seen during the sweep, every emitted interval
// must satisfy start <= end and fall inside the propagation window, and
// NumEventsPerPoint must agree with each point's recorded time series.
func TestNadirConicalSweep(t *testing.T) {
	body := earth.NewDefault()
	k := orbitstate.Keplerian{SMA: 6900, ECC: 0.002, INC: math.Pi / 3, RAAN: math.Pi / 4, AOP: math.Pi / 4, TA: math.Pi / 4}
	initial := orbitstate.NewFromKeplerian(k, body.Mu)

	epoch := absolutedate.NewFromGregorian(2017, 1, 15, 22, 30, 20.111)
	epochJD := epoch.JulianDate()

	interp := interpolator.NewDefault()
	sc := spacecraft.New(epoch, initial, body, interp)
	sc.AddSensor(sensor.NewConical(30*math.Pi/180), attitude.IdentityOffset)

	prop := propagator.New(initial, epochJD, body, propagator.DragConfig{}, interp)

	const numPoints = 200
	points := pointgroup.New()
	lats := make([]float64, 0, numPoints)
	lons := make([]float64, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		lats = append(lats, -math.Pi/2+math.Pi*float64(i)/float64(numPoints-1))
		lons = append(lons, math.Mod(float64(i)*2.4, 2*math.Pi))
	}
	points.AddUserDefinedPoints(lats, lons)

	checker := New(points, sc, body)

	const stepSec = 60.0
	const durationDays = 0.1
	numSteps := int(durationDays*86400.0/stepSec) + 1
	endJD := epochJD + float64(numSteps-1)*stepSec/86400.0

	totalHits := 0
	for step := 0; step < numSteps; step++ {
		toJD := epochJD + float64(step)*stepSec/86400.0
		state, err := prop.Propagate(toJD)
		if err != nil {
			t.Fatalf("Propagate step %d: %v", step, err)
		}
		sc.SetState(absolutedate.NewFromJulian(toJD), state)
		totalHits += len(checker.AccumulateCoverageData())
	}

	if totalHits == 0 {
		t.Fatal("expected at least one visible point sample across the sweep")
	}

	for i := 0; i < points.NumPoints(); i++ {
		if checker.NumEventsPerPoint(i) != len(checker.timeSeries[i]) {
			t.Fatalf("point %d: NumEventsPerPoint=%d but time series holds %d entries",
				i, checker.NumEventsPerPoint(i), len(checker.timeSeries[i]))
		}
	}

	for _, iv := range checker.ProcessCoverageData() {
		if iv.Start.JulianDate() > iv.End.JulianDate() {
			t.Errorf("interval for point %d has start after end: %+v", iv.PointIndex, iv)
		}
		if iv.Start.JulianDate() < epochJD || iv.End.JulianDate() > endJD {
			t.Errorf("interval for point %d falls outside the propagation window: %+v", iv.PointIndex, iv)
		}
	}
}

// TestCoverageDeterminism checks property 6: running the same sweep twice
// over an identical orbit/sensor/point-group/sampling schedule produces an
// identical interval-report sequence. This exercises the full stack
// (propagator, spacecraft attitude chain, conical sensor) rather than the
// coverage package in isolation.
func TestCoverageDeterminism(t *testing.T) {
	run := func() []IntervalEventReport {
		body := earth.NewDefault()
		k := orbitstate.Keplerian{SMA: 6900, ECC: 0.002, INC: math.Pi / 3, RAAN: math.Pi / 4, AOP: math.Pi / 4, TA: math.Pi / 4}
		initial := orbitstate.NewFromKeplerian(k, body.Mu)

		epochJD := 2457769.4377546414 // 2017-01-15 22:30:22.0 UTC, approx

		interp := interpolator.NewDefault()
		sc := spacecraft.New(absolutedate.NewFromJulian(epochJD), initial, body, interp)
		sc.AddSensor(sensor.NewConical(30*math.Pi/180), attitude.IdentityOffset)

		prop := propagator.New(initial, epochJD, body, propagator.DragConfig{}, interp)

		points := pointgroup.New()
		lats := make([]float64, 0, 50)
		lons := make([]float64, 0, 50)
		for i := 0; i < 50; i++ {
			lat := -math.Pi/2 + math.Pi*float64(i)/49
			lon := math.Mod(float64(i)*2.4, 2*math.Pi)
			lats = append(lats, lat)
			lons = append(lons, lon)
		}
		points.AddUserDefinedPoints(lats, lons)

		checker := New(points, sc, body)

		const stepSec = 60.0
		const steps = 50
		for i := 0; i < steps; i++ {
			toJD := epochJD + float64(i)*stepSec/86400.0
			state, err := prop.Propagate(toJD)
			if err != nil {
				t.Fatalf("Propagate: %v", err)
			}
			sc.SetState(absolutedate.NewFromJulian(toJD), state)
			checker.AccumulateCoverageData()
		}

		return checker.ProcessCoverageData()
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("non-deterministic interval count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].PointIndex != second[i].PointIndex ||
			first[i].Start.JulianDate() != second[i].Start.JulianDate() ||
			first[i].End.JulianDate() != second[i].End.JulianDate() {
			t.Fatalf("interval %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	for _, r := range first {
		if r.Start.JulianDate() > r.End.JulianDate() {
			t.Errorf("interval has start after end: %+v", r)
		}
	}
}
