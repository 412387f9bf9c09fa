// Package coverage implements the per-sample visibility sweep that is the
// core's orchestrator: for each time sample, it prunes the point group by a
// cheap same-hemisphere/horizon feasibility test, runs the surviving points
// through the spacecraft's sensor attitude chain (or a horizon-only
// fallback when the spacecraft carries no sensors), and threads the
// resulting hit stream into per-point time-index lists. ProcessCoverageData
// later groups each point's hit stream into maximal contiguous runs,
// emitting one IntervalEventReport per run of length >= 2.
package coverage

import (
	"math"

	"github.com/pkg/errors"

	"github.com/covanalysis/propcov-go/absolutedate"
	"github.com/covanalysis/propcov-go/earth"
	"github.com/covanalysis/propcov-go/internal/linalg"
	"github.com/covanalysis/propcov-go/orbitstate"
	"github.com/covanalysis/propcov-go/pointgroup"
)

// ErrNotInterpolable is returned by AccumulateCoverageDataAt when the
// spacecraft's interpolator cannot service the requested time.
var ErrNotInterpolable = errors.New("coverage: spacecraft cannot interpolate to the requested time")

// spacecraftView is the subset of *spacecraft.Spacecraft the checker needs.
// Declared as an interface (rather than importing the spacecraft package
// directly) so coverage depends only on behavior, keeping the dependency
// edge one-directional (spacecraft sits below coverage; coverage must not
// import anything that would make the edge bidirectional if a future
// spacecraft-level convenience wants to report on coverage state).
type spacecraftView interface {
	GetCartesianState() orbitstate.State
	GetJulianDate() float64
	NumSensors() int
	CheckTargetVisibility(bodyFixedR, bodyFixedV, satToTarget linalg.Vec3, sensorIndex int) bool
	TimeToInterpolate(t float64) bool
	Interpolate(t float64) (orbitstate.State, error)
}

// VisiblePOIReport is a single time-stamped visibility sample: the
// observer's inertial state and the observation/solar geometry computed in
// the topocentric frame of the point it was recorded against.
type VisiblePOIReport struct {
	JulianDate float64
	PointIndex int

	ObserverPosition linalg.Vec3 // inertial, km
	ObserverVelocity linalg.Vec3 // inertial, km/s

	Range   float64 // km
	Azimuth float64 // rad, [0, 2pi)
	Zenith  float64 // rad, [0, pi/2]

	SolarAzimuth float64 // rad, [0, 2pi)
	SolarZenith  float64 // rad
}

// IntervalEventReport is a maximal contiguous access interval for one
// point, together with sub-samples taken from that point's discrete-event
// list (see ProcessCoverageData). Every interval of a point carries the
// same point-wide slice; it is not restricted to samples inside this
// interval.
type IntervalEventReport struct {
	PointIndex int
	Start, End absolutedate.Date
	SubSamples []VisiblePOIReport
}

// Checker is the coverage sweep's orchestrator. It borrows a point group
// and a spacecraft for the duration of an analysis (never mutating
// either) and owns all the sweep's mutable bookkeeping: the date buffer,
// per-point hit-time-index lists, per-point sub-sample lists, and
// feasibility flags.
type Checker struct {
	points pointGroupView
	sc     spacecraftView
	body   earth.Body

	computePOIGeometry bool

	timeIndex  int
	dateBuffer []float64

	timeSeries     [][]int
	discreteEvents [][]VisiblePOIReport
	feasibility    []bool
}

// pointGroupView is the subset of *pointgroup.Group the checker needs.
type pointGroupView interface {
	NumPoints() int
	GetLatAndLon(i int) (lat, lon float64)
	GetPointPositionVector(i int) linalg.Vec3
}

var _ pointGroupView = (*pointgroup.Group)(nil)

// New constructs a Checker over the given point group and spacecraft,
// using body for Earth-rotation and topocentric-frame transforms.
// POI-geometry computation defaults to off; enable it with
// SetComputePOIGeometry.
func New(points pointGroupView, sc spacecraftView, body earth.Body) *Checker {
	n := points.NumPoints()
	c := &Checker{
		points:         points,
		sc:             sc,
		body:           body,
		timeIndex:      -1,
		timeSeries:     make([][]int, n),
		discreteEvents: make([][]VisiblePOIReport, n),
		feasibility:    make([]bool, n),
	}
	// Each point's discrete-event list is seeded with one placeholder
	// entry before any samples are taken. ProcessCoverageData's
	// sub-sample slicing skips index 0 of this list for every interval it
	// emits; the placeholder is what keeps that slicing aligned (see
	// ProcessCoverageData).
	for i := 0; i < n; i++ {
		c.discreteEvents[i] = append(c.discreteEvents[i], VisiblePOIReport{PointIndex: i})
	}
	return c
}

// SetComputePOIGeometry enables or disables per-sample observation/solar
// geometry computation (range, azimuth, zenith, Sun angles). Disabled by
// default since it costs a topocentric transform per visible point per
// sample.
func (c *Checker) SetComputePOIGeometry(enabled bool) {
	c.computePOIGeometry = enabled
}

// NumEventsPerPoint returns the number of recorded hit samples for point i
// (the length of its time-series list, matching the source's
// num_events_per_point bookkeeping used by ProcessCoverageData). The
// point's discrete-event list is one entry longer because of the
// placeholder seeded in New.
func (c *Checker) NumEventsPerPoint(i int) int {
	return len(c.timeSeries[i])
}

// AccumulateCoverageData takes one sample using the spacecraft's current
// state at its current epoch: it advances the time index, appends the
// epoch to the date buffer, and runs the per-sample sweep.
func (c *Checker) AccumulateCoverageData() []int {
	state := c.sc.GetCartesianState()
	jd := c.sc.GetJulianDate()
	return c.sample(state, jd)
}

// AccumulateCoverageDataAt asks the spacecraft to interpolate its state to
// atTimeJD, then proceeds exactly as AccumulateCoverageData. Returns
// ErrNotInterpolable if the spacecraft's interpolator cannot service the
// request.
func (c *Checker) AccumulateCoverageDataAt(atTimeJD float64) ([]int, error) {
	if !c.sc.TimeToInterpolate(atTimeJD) {
		return nil, errors.Wrapf(ErrNotInterpolable, "time %.9f", atTimeJD)
	}
	state, err := c.sc.Interpolate(atTimeJD)
	if err != nil {
		return nil, errors.Wrapf(ErrNotInterpolable, "time %.9f", atTimeJD)
	}
	return c.sample(state, atTimeJD), nil
}

func (c *Checker) sample(cartState orbitstate.State, jd float64) []int {
	c.timeIndex++
	c.dateBuffer = append(c.dateBuffer, jd)
	return c.CheckPointCoverage(cartState, jd)
}

// CheckPointCoverage is the per-sample sweep: it transforms the given
// inertial Cartesian state into the body-fixed frame at jd, recomputes
// each point's feasibility (same-hemisphere + horizon pruning), and for
// every feasible point dispatches to the spacecraft's sensor attitude
// chain (or a horizon-only fallback when the spacecraft carries no
// sensors). Visible points are recorded into the point's time-series and,
// if POI-geometry computation is enabled, a VisiblePOIReport is appended
// to the point's discrete-event list. Returns the visible point indices in
// ascending order.
func (c *Checker) CheckPointCoverage(cartState orbitstate.State, jd float64) []int {
	bodyFixedR := c.body.InertialToBodyFixed(cartState.R, jd)
	bodyFixedV := c.body.InertialToBodyFixed(cartState.V, jd)

	re := c.body.EquatorialRadius
	sHat := bodyFixedR.Scale(1.0 / re)

	n := c.points.NumPoints()
	var visible []int

	for i := 0; i < n; i++ {
		pHat := c.points.GetPointPositionVector(i)
		c.feasibility[i] = pHat.Dot(sHat) > 0 && sHat.Sub(pHat).Dot(pHat) > 0
	}

	for i := 0; i < n; i++ {
		if !c.feasibility[i] {
			continue
		}
		pHat := c.points.GetPointPositionVector(i)
		satToTarget := pHat.Scale(re).Sub(bodyFixedR)

		inView := c.checkVisibility(bodyFixedR, bodyFixedV, satToTarget)
		if !inView {
			continue
		}

		c.timeSeries[i] = append(c.timeSeries[i], c.timeIndex)
		visible = append(visible, i)

		if c.computePOIGeometry {
			lat, lon := c.points.GetLatAndLon(i)
			report := c.buildPOIReport(cartState, bodyFixedR, satToTarget, jd, i, lat, lon)
			c.discreteEvents[i] = append(c.discreteEvents[i], report)
		}
	}

	return visible
}

func (c *Checker) checkVisibility(bodyFixedR, bodyFixedV, satToTarget linalg.Vec3) bool {
	if c.sc.NumSensors() > 0 {
		return c.sc.CheckTargetVisibility(bodyFixedR, bodyFixedV, satToTarget, 0)
	}
	return c.horizonOnlyVisible(bodyFixedR, satToTarget)
}

// horizonOnlyVisible is the fallback visibility test used when the
// spacecraft carries no sensors: a point is in view iff its off-nadir
// angle (as seen from the satellite) is inside the geometric horizon
// limit and the range vector (target to satellite) has a positive
// body-fixed Z component.
func (c *Checker) horizonOnlyVisible(bodyFixedR, satToTarget linalg.Vec3) bool {
	rangeVec := satToTarget.Neg()

	rn := bodyFixedR.Norm()
	rvn := rangeVec.Norm()
	if rn == 0 || rvn == 0 {
		return false
	}

	cosOffNadir := clamp(rangeVec.Dot(bodyFixedR)/(rvn*rn), -1, 1)
	offNadir := math.Acos(cosOffNadir)

	horizonLimit := math.Pi/2 - math.Acos(clamp(c.body.EquatorialRadius/rn, -1, 1))

	return offNadir < horizonLimit && rangeVec[2] > 0
}

func (c *Checker) buildPOIReport(cartState orbitstate.State, bodyFixedR, satToTarget linalg.Vec3, jd float64, pointIndex int, lat, lon float64) VisiblePOIReport {
	rangeVec := satToTarget.Neg()
	topoRange := c.body.FixedToTopocentric(rangeVec, lat, lon)

	az, zen, rng := azimuthZenithRange(topoRange)

	sunBodyFixed := c.body.SunPositionInBodyCoords(jd)
	topoSun := c.body.FixedToTopocentric(sunBodyFixed, lat, lon)
	sunAz, sunZen, _ := azimuthZenithRange(topoSun)

	return VisiblePOIReport{
		JulianDate:       jd,
		PointIndex:       pointIndex,
		ObserverPosition: cartState.R,
		ObserverVelocity: cartState.V,
		Range:            rng,
		Azimuth:          az,
		Zenith:           zen,
		SolarAzimuth:     sunAz,
		SolarZenith:      sunZen,
	}
}

// azimuthZenithRange computes observation-geometry azimuth/zenith/range
// over a topocentric (South, East, Zenith) vector: azimuth = mod(pi -
// atan2(y,x), 2pi), zenith = asin(sqrt(x^2+y^2)/|v|), range = |v|.
func azimuthZenithRange(v linalg.Vec3) (azimuth, zenith, rng float64) {
	rng = v.Norm()
	if rng == 0 {
		return 0, 0, 0
	}
	x, y := v[0], v[1]
	azimuth = normTwoPi(math.Pi - math.Atan2(y, x))
	horiz := math.Sqrt(x*x + y*y)
	zenith = math.Asin(clamp(horiz/rng, -1, 1))
	return azimuth, zenith, rng
}

func normTwoPi(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// ProcessCoverageData groups each point's time-series into maximal runs
// of consecutive time indices (a gap of more than 1 begins a new
// interval) and emits one IntervalEventReport per run of length >= 2.
//
// Sub-samples attached to each emitted interval are discreteEvents[i][1:
// numEvents], skipping the placeholder seeded at construction (see New).
// The slice handed to a consumer therefore always omits what would
// otherwise be the last real sample recorded for that point, because the
// placeholder at index 0 shifts every subsequent discreteEvents entry
// down by one slot relative to timeSeries. Downstream consumers account
// for this alignment; do not change it without auditing them (DESIGN.md
// records the decision).
func (c *Checker) ProcessCoverageData() []IntervalEventReport {
	var out []IntervalEventReport

	for i := range c.timeSeries {
		series := c.timeSeries[i]
		numEvents := len(series)
		if numEvents < 2 {
			continue
		}

		startIdx := series[0]
		for k := 1; k < numEvents; k++ {
			switch {
			case series[k]-series[k-1] != 1:
				out = append(out, c.emitInterval(i, startIdx, series[k-1], numEvents))
				startIdx = series[k]
			case k == numEvents-1:
				out = append(out, c.emitInterval(i, startIdx, series[k], numEvents))
			}
		}
	}

	return out
}

func (c *Checker) emitInterval(pointIndex, startIdx, endIdx, numEvents int) IntervalEventReport {
	var subs []VisiblePOIReport
	if numEvents <= len(c.discreteEvents[pointIndex]) {
		subs = append(subs, c.discreteEvents[pointIndex][1:numEvents]...)
	}
	return IntervalEventReport{
		PointIndex: pointIndex,
		Start:      absolutedate.NewFromJulian(c.dateBuffer[startIdx]),
		End:        absolutedate.NewFromJulian(c.dateBuffer[endIdx]),
		SubSamples: subs,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
