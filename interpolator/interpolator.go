// Package interpolator provides fixed-order Lagrange interpolation over a
// sliding window of samples, used to produce dense spacecraft state
// estimates between the propagator's coarse steps.
package interpolator

import (
	"github.com/pkg/errors"
)

// Dimension is the fixed dependent-vector width: position + velocity,
// an Rvector6.
const Dimension = 6

// ErrOutOfOrderSample is returned by AddPoint when the new sample's
// independent variable does not strictly exceed the most recently added
// sample.
var ErrOutOfOrderSample = errors.New("interpolator: samples must be strictly monotonic increasing")

// ErrOutOfRange is returned by Interpolate when the query point falls
// outside the currently valid interpolation window.
var ErrOutOfRange = errors.New("interpolator: query point outside buffered span")

type sample struct {
	t float64
	y [Dimension]float64
}

// Lagrange is a fixed-order (default 6) Lagrange interpolator over a ring
// buffer holding up to MaxPoints (default 7) samples. Each of the
// Dimension output components is interpolated independently via the
// standard barycentric-Lagrange formula.
type Lagrange struct {
	order     int
	maxPoints int
	buf       []sample // oldest first
}

// New returns a Lagrange interpolator with the given fixed order and
// maximum buffered sample count. order must be < maxPoints for
// Interpolate to ever succeed (it requires order+1 buffered samples).
func New(order, maxPoints int) *Lagrange {
	return &Lagrange{order: order, maxPoints: maxPoints}
}

// NewDefault returns a Lagrange interpolator with the usual order-6,
// buffer-7 configuration.
func NewDefault() *Lagrange {
	return New(6, 7)
}

// AddPoint appends a new (t, y) sample. If the buffer is at capacity, the
// oldest sample is evicted (FIFO). Returns ErrOutOfOrderSample if t does
// not strictly exceed the most recently added sample's t.
func (l *Lagrange) AddPoint(t float64, y [Dimension]float64) error {
	if len(l.buf) > 0 && t <= l.buf[len(l.buf)-1].t {
		return ErrOutOfOrderSample
	}
	l.buf = append(l.buf, sample{t: t, y: y})
	if len(l.buf) > l.maxPoints {
		l.buf = l.buf[1:]
	}
	return nil
}

// Count returns the number of samples currently buffered.
func (l *Lagrange) Count() int {
	return len(l.buf)
}

// Span returns the buffer's earliest and latest sample times. The second
// return is false if the buffer is empty.
func (l *Lagrange) Span() (tMin, tMax float64, ok bool) {
	if len(l.buf) == 0 {
		return 0, 0, false
	}
	return l.buf[0].t, l.buf[len(l.buf)-1].t, true
}

// defaultMidRange returns half of the buffer's average sample spacing:
// (tMax-tMin) / (2*(n-1)). This, not half the full buffered span, is the
// default "mid_range" narrowing of the valid window away from each edge,
// just enough to keep the query point from falling exactly on the
// outermost sample, where the polynomial fit is least constrained.
func (l *Lagrange) defaultMidRange() float64 {
	n := len(l.buf)
	if n < 2 {
		return 0
	}
	tMin, tMax, _ := l.Span()
	return (tMax - tMin) / (2 * float64(n-1))
}

// InRange reports whether tQuery falls inside the interpolable window
// [tMin + midRange, tMax - midRange], without attempting the
// interpolation (used by callers, e.g. Spacecraft.TimeToInterpolate, that
// need the boolean check as a distinct step from the value). midRange of
// 0 selects the default (see defaultMidRange).
func (l *Lagrange) InRange(tQuery, midRange float64) bool {
	tMin, tMax, ok := l.Span()
	if !ok || len(l.buf) < l.order+1 {
		return false
	}
	if midRange == 0 {
		midRange = l.defaultMidRange()
	}
	return tQuery >= tMin+midRange && tQuery <= tMax-midRange
}

// Interpolate evaluates the interpolant at tQuery. midRange of 0 selects
// the default (see defaultMidRange). Returns ErrOutOfRange if fewer than
// order+1 samples are buffered or tQuery falls outside the valid window.
func (l *Lagrange) Interpolate(tQuery, midRange float64) ([Dimension]float64, error) {
	var out [Dimension]float64

	if len(l.buf) < l.order+1 {
		return out, ErrOutOfRange
	}

	tMin, tMax, _ := l.Span()
	if midRange == 0 {
		midRange = l.defaultMidRange()
	}
	if tQuery < tMin+midRange || tQuery > tMax-midRange {
		return out, ErrOutOfRange
	}

	pts := l.windowAround(tQuery)

	for d := 0; d < Dimension; d++ {
		out[d] = barycentricLagrange(pts, tQuery, d)
	}
	return out, nil
}

// windowAround returns the order+1 buffered samples nearest tQuery,
// preserving time order. With a full buffer of maxPoints > order+1, this
// selects a centered sub-window rather than always using the oldest
// order+1 samples.
func (l *Lagrange) windowAround(tQuery float64) []sample {
	n := l.order + 1
	if n >= len(l.buf) {
		return l.buf
	}

	// Find the insertion index of tQuery, then center the window on it.
	idx := 0
	for idx < len(l.buf) && l.buf[idx].t < tQuery {
		idx++
	}
	start := idx - n/2
	if start < 0 {
		start = 0
	}
	if start+n > len(l.buf) {
		start = len(l.buf) - n
	}
	return l.buf[start : start+n]
}

// barycentricLagrange evaluates the Lagrange interpolant for output
// dimension d at tQuery using the barycentric form: weights
// w_i = 1/prod_{j!=i}(t_i - t_j), value sum(w_i*y_i/(t-t_i)) /
// sum(w_i/(t-t_i)). A query exactly on a sample time returns that sample.
func barycentricLagrange(pts []sample, tQuery float64, d int) float64 {
	var num, den float64
	n := len(pts)
	for i := 0; i < n; i++ {
		diff := tQuery - pts[i].t
		if diff == 0 {
			return pts[i].y[d]
		}
		w := 1.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			w /= pts[i].t - pts[j].t
		}
		num += w / diff * pts[i].y[d]
		den += w / diff
	}
	return num / den
}
