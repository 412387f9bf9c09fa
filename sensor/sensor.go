// Package sensor implements the three field-of-view shapes a spacecraft
// payload can carry (conical, rectangular, and an arbitrary closed
// polygon, "custom") as a closed set of concrete types behind a small
// interface rather than a class hierarchy.
//
// Conical and Rectangular are small, self-contained value types with no
// hidden state; Custom tests containment by stereographic projection of
// the polygon onto the plane z=0 followed by a ray-crossing count.
package sensor

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidFOV is returned by NewCustom when the polygon definition is
// inconsistent: mismatched cone/clock lengths, fewer than 3 vertices, or a
// vertex whose cone angle sits in the stereographic-projection
// singularity band (cone >= pi - 100*eps).
var ErrInvalidFOV = errors.New("sensor: invalid field-of-view definition")

const singularityGuard = 100 * 2.220446049250313e-16 // 100 * machine epsilon

// Sensor is the shared contract for all FOV shapes: a predicate over a
// target direction expressed in the sensor frame as (cone, clock), plus a
// cheap max-excursion rejection test shared by every variant.
type Sensor interface {
	// CheckTargetVisibility reports whether a target at the given cone
	// (angle from +Z boresight, [0, pi]) and clock (right ascension in the
	// XY plane, [0, 2pi), undefined at cone=0) is inside the FOV.
	CheckTargetVisibility(cone, clock float64) bool

	// MaxExcursionAngle is the half-angle of the smallest cone fully
	// enclosing the FOV; used by callers as a cheap rejection test before
	// invoking the full predicate.
	MaxExcursionAngle() float64
}

// Conical is a simple circular FOV of half-angle Alpha.
type Conical struct {
	Alpha float64 // half-cone angle, radians
}

// NewConical returns a Conical sensor with the given half-cone angle.
func NewConical(alphaRad float64) Conical {
	return Conical{Alpha: alphaRad}
}

// CheckTargetVisibility implements Sensor: visible iff cone <= Alpha.
// Clock is unused.
func (c Conical) CheckTargetVisibility(cone, _ float64) bool {
	return cone <= c.Alpha
}

// MaxExcursionAngle implements Sensor.
func (c Conical) MaxExcursionAngle() float64 {
	return c.Alpha
}

// Rectangular is a rectangular FOV defined by half-angle extents in two
// orthogonal sensor-axis planes: HalfHeight about the sensor X-axis,
// HalfWidth about the sensor Y-axis.
type Rectangular struct {
	HalfHeight float64 // radians
	HalfWidth  float64 // radians
}

// NewRectangular returns a Rectangular sensor from full angular extents
// (angleHeight, angleWidth), matching the payload-description convention
// of specifying total extents; the sensor itself compares against the
// half-extents.
func NewRectangular(angleHeight, angleWidth float64) Rectangular {
	return Rectangular{HalfHeight: angleHeight / 2, HalfWidth: angleWidth / 2}
}

// CheckTargetVisibility implements Sensor. The target direction is
// projected to a pair of signed off-axis angles, alphaH about the
// sensor X-axis and alphaW about Y, via the boresight-relative unit
// vector (x, y, z) = (sin(cone)cos(clock), sin(cone)sin(clock), cos(cone)):
//
//	alphaH = atan2(x, z)
//	alphaW = atan2(y, z)
//
// visible iff |alphaH| < HalfHeight and |alphaW| < HalfWidth.
func (r Rectangular) CheckTargetVisibility(cone, clock float64) bool {
	sinC, cosC := math.Sincos(cone)
	x := sinC * math.Cos(clock)
	y := sinC * math.Sin(clock)
	z := cosC

	alphaH := math.Atan2(x, z)
	alphaW := math.Atan2(y, z)

	return math.Abs(alphaH) < r.HalfHeight && math.Abs(alphaW) < r.HalfWidth
}

// MaxExcursionAngle implements Sensor: the angular length of the great
// circle from boresight to the rectangle's corner.
func (r Rectangular) MaxExcursionAngle() float64 {
	return math.Atan(math.Hypot(math.Tan(r.HalfHeight), math.Tan(r.HalfWidth)))
}

// segment is a stereographic-plane line segment connecting two consecutive
// projected polygon vertices.
type segment struct {
	x1, y1, x2, y2 float64
}

// Custom is an arbitrary closed polygon on the unit sphere, given as N>=3
// (cone, clock) vertex pairs (the polygon need not repeat the first vertex
// at the end; closure is implicit). Visibility is tested via stereographic
// projection from the -Z pole followed by a ray-crossing-count
// point-in-polygon test.
type Custom struct {
	cone, clock    []float64
	projX, projY   []float64
	segments       []segment
	minX, maxX     float64
	minY, maxY     float64
	maxExcursion   float64
	externalPoints [][2]float64
}

// NewCustom builds a Custom sensor from parallel cone/clock vertex arrays
// (radians). Returns ErrInvalidFOV if the arrays disagree in length, if
// there are fewer than 3 vertices, or if any vertex falls within the
// stereographic projection's singularity band at the -Z pole.
func NewCustom(cone, clock []float64) (*Custom, error) {
	if len(cone) != len(clock) {
		return nil, errors.Wrap(ErrInvalidFOV, "cone and clock arrays must be the same length")
	}
	if len(cone) < 3 {
		return nil, errors.Wrap(ErrInvalidFOV, "must have at least 3 vertices to form a valid FOV")
	}
	for _, c := range cone {
		if c >= math.Pi-singularityGuard {
			return nil, errors.Wrap(ErrInvalidFOV, "vertex cone angle too close to the projection singularity at pi")
		}
	}

	n := len(cone)
	c := &Custom{
		cone:  append([]float64(nil), cone...),
		clock: append([]float64(nil), clock...),
	}

	c.projX = make([]float64, n)
	c.projY = make([]float64, n)
	for i := 0; i < n; i++ {
		c.projX[i], c.projY[i] = coneClockToStereographic(cone[i], clock[i])
	}

	c.minX, c.maxX = minMax(c.projX)
	c.minY, c.maxY = minMax(c.projY)

	c.maxExcursion = cone[0]
	for _, v := range cone {
		if v > c.maxExcursion {
			c.maxExcursion = v
		}
	}

	c.segments = make([]segment, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		c.segments[i] = segment{c.projX[i], c.projY[i], c.projX[j], c.projY[j]}
	}

	c.externalPoints = computeExternalPoints(cone, c.projX, c.projY)

	return c, nil
}

// coneClockToStereographic projects a (cone, clock) direction onto the
// plane z=0 via stereographic projection from the -Z pole. Using the
// half-angle tangent form (equivalent to the sin(cone)cos(clock)/
// (1-cos(cone)) form but better conditioned near cone=0).
func coneClockToStereographic(cone, clock float64) (x, y float64) {
	t := math.Tan(cone / 2)
	return t * math.Cos(clock), t * math.Sin(clock)
}

func minMax(v []float64) (min, max float64) {
	min, max = v[0], v[0]
	for _, x := range v {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return
}

// computeExternalPoints selects up to 3 "outside the FOV" ray-cast anchor
// points, drawn from candidate polygon vertices whose interior angle is
// <= pi (i.e. convex corners), ranked by largest cone angle (the vertices
// farthest from boresight, and so nearest the projected bounding box
// edge), then safety-scaled by 1.1 to guarantee they lie strictly outside
// the polygon.
func computeExternalPoints(cone, projX, projY []float64) [][2]float64 {
	n := len(cone)

	type candidate struct {
		cone, x, y float64
	}
	var candidates []candidate

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		k := (i + 2) % n

		v1x, v1y := projX[j]-projX[i], projY[j]-projY[i]
		v2x, v2y := projX[k]-projX[j], projY[k]-projY[j]

		interior := math.Mod(math.Atan2(v2y, v2x), 2*math.Pi) - math.Mod(math.Atan2(v1y, v1x), 2*math.Pi)
		interior = math.Mod(interior, 2*math.Pi)
		if interior < 0 {
			interior += 2 * math.Pi
		}

		if interior <= math.Pi {
			candidates = append(candidates, candidate{cone[j], projX[j], projY[j]})
		}
	}

	// Sort candidates by descending cone angle (selection sort: candidate
	// counts are always small, bounded by the polygon's vertex count).
	for i := 0; i < len(candidates); i++ {
		best := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].cone > candidates[best].cone {
				best = j
			}
		}
		candidates[i], candidates[best] = candidates[best], candidates[i]
	}

	numTest := 3
	if len(candidates) < numTest {
		numTest = len(candidates)
	}

	const safetyFactor = 1.1
	out := make([][2]float64, numTest)
	for i := 0; i < numTest; i++ {
		out[i] = [2]float64{safetyFactor * candidates[i].x, safetyFactor * candidates[i].y}
	}
	return out
}

// CheckTargetVisibility implements Sensor.
func (c *Custom) CheckTargetVisibility(cone, clock float64) bool {
	if cone > c.maxExcursion {
		return false
	}

	x, y := coneClockToStereographic(cone, clock)
	if x > c.maxX || x < c.minX || y > c.maxY || y < c.minY {
		return false
	}

	for _, ext := range c.externalPoints {
		crossings, degenerate := countCrossings(x, y, ext[0], ext[1], c.segments)
		if degenerate {
			continue
		}
		return crossings%2 == 1
	}
	// No external point produced a clean (non-degenerate) ray; this only
	// happens for pathological polygons where every candidate ray grazes a
	// vertex exactly, which the 1.1 safety scaling is meant to avoid.
	return false
}

// MaxExcursionAngle implements Sensor.
func (c *Custom) MaxExcursionAngle() float64 {
	return c.maxExcursion
}

// countCrossings counts how many of the polygon's segments the ray from
// (px,py) to (ex,ey) crosses, and reports whether the ray grazed a polygon
// vertex (an on-ray intersection with segment parameter within epsilon of
// 0 or 1), in which case the caller should retry with a different external
// point.
func countCrossings(px, py, ex, ey float64, segs []segment) (crossings int, degenerate bool) {
	const tol = 1e-12
	rdx, rdy := ex-px, ey-py

	for _, s := range segs {
		sdx, sdy := s.x2-s.x1, s.y2-s.y1
		denom := rdx*sdy - rdy*sdx
		if denom == 0 {
			continue // parallel (including collinear): no transversal crossing
		}

		dx, dy := s.x1-px, s.y1-py
		t := (dx*sdy - dy*sdx) / denom // parameter along the ray
		u := (dx*rdy - dy*rdx) / denom // parameter along the segment

		if t < 0 || t > 1 {
			continue // line intersection lies beyond the ray; irrelevant
		}
		if math.Abs(u) <= tol || math.Abs(u-1) <= tol {
			// Grazing a polygon vertex makes the crossing count ambiguous
			// (the shared endpoint would be hit by both adjacent segments).
			degenerate = true
		}
		if t > 0 && u > tol && u < 1-tol {
			crossings++
		}
	}
	return crossings, degenerate
}
