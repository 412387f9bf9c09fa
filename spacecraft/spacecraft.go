// Package spacecraft owns a spacecraft's epoch, Cartesian state, attitude
// offset, ordered sensor list, and interpolator, and implements the
// nadir-to-sensor attitude chain that resolves a target direction to a
// sensor-frame visibility check.
//
// The body-to-sensor rotation chain is consolidated into a single cached
// "sensor pose" per (body-fixed state, sensor) pair, invalidated whenever
// either input changes, so repeated visibility checks against the same
// sample do not re-derive the chain.
package spacecraft

import (
	"math"

	"github.com/pkg/errors"

	"github.com/covanalysis/propcov-go/absolutedate"
	"github.com/covanalysis/propcov-go/attitude"
	"github.com/covanalysis/propcov-go/earth"
	"github.com/covanalysis/propcov-go/internal/linalg"
	"github.com/covanalysis/propcov-go/interpolator"
	"github.com/covanalysis/propcov-go/orbitstate"
	"github.com/covanalysis/propcov-go/sensor"
)

// ErrNotInterpolable is returned by Interpolate when the buffered sample
// window cannot service the requested time.
var ErrNotInterpolable = errors.New("spacecraft: requested time is not interpolable from the current sample buffer")

// Spacecraft owns an epoch, Cartesian state, an ordered sensor list (each
// with its own body-to-sensor Euler offset), an overall body-to-nadir
// attitude offset, and a Lagrange interpolator shared with the propagator.
type Spacecraft struct {
	epoch absolutedate.Date
	state orbitstate.State

	body earth.Body

	bodyToNadirOffset attitude.EulerOffset
	sensors           []sensor.Sensor
	sensorOffsets     []attitude.EulerOffset

	interp *interpolator.Lagrange

	pose poseCache
}

// poseCache memoizes the last computed attitude chain so repeated
// visibility checks against the same sample don't re-derive it.
type poseCache struct {
	valid       bool
	r, v        linalg.Vec3
	sensorIndex int
	matrix      linalg.Mat3
}

// New constructs a Spacecraft at the given epoch and state, with the
// given Earth body for frame transforms and interpolator for dense
// sampling.
func New(epoch absolutedate.Date, state orbitstate.State, body earth.Body, interp *interpolator.Lagrange) *Spacecraft {
	return &Spacecraft{
		epoch:             epoch,
		state:             state,
		body:              body,
		bodyToNadirOffset: attitude.IdentityOffset,
		interp:            interp,
	}
}

// SetBodyToNadirOffset sets the overall spacecraft attitude offset
// relative to pure nadir pointing (e.g. a fixed yaw-180 for
// descending-node coverage).
func (s *Spacecraft) SetBodyToNadirOffset(offset attitude.EulerOffset) {
	s.bodyToNadirOffset = offset
	s.pose.valid = false
}

// AddSensor appends a sensor with the given body-to-sensor offset. Order
// is stable; sensor index 0 is the first one added.
func (s *Spacecraft) AddSensor(sens sensor.Sensor, offset attitude.EulerOffset) {
	s.sensors = append(s.sensors, sens)
	s.sensorOffsets = append(s.sensorOffsets, offset)
	s.pose.valid = false
}

// NumSensors returns the number of sensors currently attached.
func (s *Spacecraft) NumSensors() int {
	return len(s.sensors)
}

// SetState updates the spacecraft's current epoch and Cartesian state
// (called by the propagator after each step, or directly by a caller
// using the interpolated state).
func (s *Spacecraft) SetState(epoch absolutedate.Date, state orbitstate.State) {
	s.epoch = epoch
	s.state = state
	s.pose.valid = false
}

// GetCartesianState returns the spacecraft's current Cartesian state.
func (s *Spacecraft) GetCartesianState() orbitstate.State {
	return s.state
}

// GetJulianDate returns the spacecraft's current epoch as a Julian date.
func (s *Spacecraft) GetJulianDate() float64 {
	return s.epoch.JulianDate()
}

// TimeToInterpolate reports whether t lies inside the interpolator's
// currently valid window.
func (s *Spacecraft) TimeToInterpolate(t float64) bool {
	if s.interp == nil {
		return false
	}
	return s.interp.InRange(t, 0)
}

// Interpolate returns the interpolated Cartesian state at t. Returns
// ErrNotInterpolable if t is outside the buffered window.
func (s *Spacecraft) Interpolate(t float64) (orbitstate.State, error) {
	if s.interp == nil {
		return orbitstate.State{}, ErrNotInterpolable
	}
	y, err := s.interp.Interpolate(t, 0)
	if err != nil {
		return orbitstate.State{}, errors.Wrapf(ErrNotInterpolable, "time %.9f: %v", t, err)
	}
	return orbitstate.State{
		R:  linalg.Vec3{y[0], y[1], y[2]},
		V:  linalg.Vec3{y[3], y[4], y[5]},
		Mu: s.body.Mu,
	}, nil
}

// CheckTargetVisibility implements the full attitude chain: given the
// spacecraft's current body-fixed position/velocity and a satellite-to-
// target vector (also body-fixed), it rotates the target vector into the
// chosen sensor's frame and dispatches to that sensor's predicate.
func (s *Spacecraft) CheckTargetVisibility(bodyFixedR, bodyFixedV, satToTarget linalg.Vec3, sensorIndex int) bool {
	if sensorIndex < 0 || sensorIndex >= len(s.sensors) {
		return false
	}

	m := s.sensorPose(bodyFixedR, bodyFixedV, sensorIndex)
	targetInSensor := m.MulVec(satToTarget)

	cone, clock := cartesianToConeClock(targetInSensor)
	return s.sensors[sensorIndex].CheckTargetVisibility(cone, clock)
}

// sensorPose returns the body-fixed-to-sensor rotation for the given
// sample and sensor, reusing the cached value when the inputs match the
// last call.
func (s *Spacecraft) sensorPose(r, v linalg.Vec3, sensorIndex int) linalg.Mat3 {
	if s.pose.valid && s.pose.r == r && s.pose.v == v && s.pose.sensorIndex == sensorIndex {
		return s.pose.matrix
	}

	fixedToNadir := attitude.FixedToNadir(r, v)
	nadirToBody := attitude.NadirToBody(s.bodyToNadirOffset)
	bodyToSensor := s.sensorOffsets[sensorIndex].Matrix()

	m := bodyToSensor.Mul(nadirToBody).Mul(fixedToNadir)

	s.pose = poseCache{valid: true, r: r, v: v, sensorIndex: sensorIndex, matrix: m}
	return m
}

// cartesianToConeClock converts a sensor-frame direction vector to
// (cone, clock): cone is the angle from +Z in [0, pi]; clock is the
// counter-clockwise angle from +X in the XY plane, normalized to
// [0, 2*pi).
func cartesianToConeClock(v linalg.Vec3) (cone, clock float64) {
	n := v.Norm()
	if n == 0 {
		return 0, 0
	}
	cone = math.Acos(clampUnit(v[2] / n))
	clock = math.Atan2(v[1], v[0])
	if clock < 0 {
		clock += 2 * math.Pi
	}
	return cone, clock
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
