// Package propagator implements an analytic J2 Keplerian orbit propagator
// with an optional exponential-atmosphere drag correction, feeding dense
// samples to a Lagrange interpolator as it advances.
//
// The Kepler-equation solve is a standard Newton-Raphson iteration:
// normalize M to [-pi,pi], iterate E until the correction is below
// tolerance, then recover true anomaly via
// atan2(sqrt(1-e^2)sin E, cos E - e).
package propagator

import (
	"math"

	"github.com/pkg/errors"

	"github.com/covanalysis/propcov-go/earth"
	"github.com/covanalysis/propcov-go/interpolator"
	"github.com/covanalysis/propcov-go/orbitstate"
)

// ErrKeplerNoConvergence is returned (defensively; should not occur for
// eccentricities below 0.9) when the Newton-Raphson Kepler solve fails to
// converge within the iteration budget.
var ErrKeplerNoConvergence = errors.New("propagator: Kepler equation solve did not converge")

// ErrDragNegativeAltitude is returned when drag-driven decay brings the
// orbit's altitude to or below zero; propagation halts and the caller's
// state is left at the last valid epoch.
var ErrDragNegativeAltitude = errors.New("propagator: orbit decayed below the body's surface")

const (
	keplerTolerance = 1e-12
	keplerMaxIter   = 20
	secPerDay       = 86400.0
)

// ExponentialAtmosphere is a simple exponential density model,
// rho(h) = rho0 * exp(-(h - h0) / scaleHeight), adequate for per-revolution
// drag decay estimates (not for precision re-entry prediction).
type ExponentialAtmosphere struct {
	ReferenceAltitudeKm float64 // h0
	ReferenceDensity    float64 // rho0, kg/km^3
	ScaleHeightKm       float64 // H
}

// Density returns the atmospheric density (kg/km^3) at the given altitude
// above the body's surface (km).
func (a ExponentialAtmosphere) Density(altitudeKm float64) float64 {
	return a.ReferenceDensity * math.Exp(-(altitudeKm-a.ReferenceAltitudeKm)/a.ScaleHeightKm)
}

// DragConfig parameterizes the per-revolution drag correction: a
// ballistic-coefficient-like term (Cd*A/m, km^2/kg) and the atmosphere
// model used to evaluate density at perigee altitude.
type DragConfig struct {
	Enabled           bool
	BallisticCoeffKm2 float64 // Cd*A/m, km^2/kg
	Atmosphere        ExponentialAtmosphere
}

// elements holds the mean Keplerian element set the propagator advances
// secularly; angles in radians.
type elements struct {
	sma, ecc, inc, raan, aop, meanAnomaly float64
}

// Propagator advances a reference Keplerian element set forward in time
// using J2 secular rates (and, optionally, exponential-atmosphere drag),
// appending each computed state to an interpolator.
type Propagator struct {
	body earth.Body
	drag DragConfig

	refJD    float64
	elems    elements
	firstJD  float64
	lastJD   float64
	haveProp bool

	lastDragJD float64

	interp *interpolator.Lagrange
}

// New constructs a Propagator from an initial OrbitState at refJD. The
// Earth body supplies mu, J2, and equatorial radius for the secular-rate
// and drag models. interp receives a sample on every Propagate call; pass
// nil to skip interpolator bookkeeping.
func New(initial orbitstate.State, refJD float64, body earth.Body, drag DragConfig, interp *interpolator.Lagrange) *Propagator {
	k := initial.ToKeplerian()
	meanAnomaly := trueToMeanAnomaly(k.TA, k.ECC)

	return &Propagator{
		body:  body,
		drag:  drag,
		refJD: refJD,
		elems: elements{
			sma: k.SMA, ecc: k.ECC, inc: k.INC, raan: k.RAAN, aop: k.AOP, meanAnomaly: meanAnomaly,
		},
		lastDragJD: refJD,
		interp:     interp,
	}
}

// Propagate advances the reference elements to toJD using J2 secular
// rates (applying a single one-revolution exponential-drag correction
// when at least one orbital period has elapsed since the last drag
// update, when drag is enabled, however many periods that is), solves
// Kepler's equation for the resulting true anomaly, and returns the
// Cartesian state at toJD. The computed state is also appended to the
// configured interpolator.
func (p *Propagator) Propagate(toJD float64) (orbitstate.State, error) {
	mu := p.body.Mu
	j2 := p.body.J2
	re := p.body.EquatorialRadius

	dt := (toJD - p.refJD) * secPerDay

	a, e, inc := p.elems.sma, p.elems.ecc, p.elems.inc
	n0 := math.Sqrt(mu / (a * a * a))
	pSemi := a * (1 - e*e)
	factor := j2 * (re / pSemi) * (re / pSemi)

	cosI := math.Cos(inc)
	raanDot := -1.5 * n0 * factor * cosI
	aopDot := 0.75 * n0 * factor * (5*cosI*cosI - 1)
	meanMotionRate := n0 * (1 + 0.75*factor*math.Sqrt(1-e*e)*(3*cosI*cosI-1))

	raan := normTwoPi(p.elems.raan + raanDot*dt)
	aop := normTwoPi(p.elems.aop + aopDot*dt)
	meanAnomaly := normTwoPi(p.elems.meanAnomaly + meanMotionRate*dt)

	sma, ecc := a, e
	if p.drag.Enabled {
		periodSec := 2 * math.Pi / n0
		elapsed := (toJD - p.lastDragJD) * secPerDay
		if elapsed >= periodSec {
			var err error
			sma, ecc, err = p.applyDrag(a, e)
			if err != nil {
				return orbitstate.State{}, err
			}
			p.lastDragJD = toJD
		}
	}

	ta, err := solveTrueAnomaly(meanAnomaly, ecc)
	if err != nil {
		return orbitstate.State{}, err
	}

	k := orbitstate.Keplerian{SMA: sma, ECC: ecc, INC: inc, RAAN: raan, AOP: aop, TA: ta}
	state := orbitstate.NewFromKeplerian(k, mu)

	// Commit the advanced elements as the new reference (rolling
	// propagation: each step advances from the previous one).
	p.elems = elements{sma: sma, ecc: ecc, inc: inc, raan: raan, aop: aop, meanAnomaly: meanAnomaly}
	p.refJD = toJD

	if !p.haveProp {
		p.firstJD = toJD
		p.haveProp = true
	}
	p.lastJD = toJD

	if p.interp != nil {
		y := [interpolator.Dimension]float64{
			state.R[0], state.R[1], state.R[2],
			state.V[0], state.V[1], state.V[2],
		}
		// Monotonic Propagate calls are a caller precondition; a repeated
		// or backwards toJD leaves the buffer unchanged rather than failing
		// the propagation itself.
		_ = p.interp.AddPoint(toJD, y)
	}

	return state, nil
}

// GetPropStartEnd returns the first and most recent propagation epochs.
// ok is false if Propagate has never been called.
func (p *Propagator) GetPropStartEnd() (start, end float64, ok bool) {
	return p.firstJD, p.lastJD, p.haveProp
}

// applyDrag computes a per-revolution semi-major-axis and eccentricity
// decay from the exponential atmosphere evaluated at perigee altitude,
// using a standard first-order drag decay estimate. Returns
// ErrDragNegativeAltitude if the resulting altitude is non-positive.
func (p *Propagator) applyDrag(a, e float64) (newSMA, newECC float64, err error) {
	re := p.body.EquatorialRadius
	perigeeAlt := a*(1-e) - re
	if perigeeAlt <= 0 {
		return 0, 0, ErrDragNegativeAltitude
	}

	rho := p.drag.Atmosphere.Density(perigeeAlt)
	b := p.drag.BallisticCoeffKm2

	// Per-revolution semi-major-axis decay (King-Hele-style first-order
	// estimate): da = -2*pi*B*rho*a^2 per revolution.
	da := -2 * math.Pi * b * rho * a * a
	de := -2 * math.Pi * b * rho * a * e * (1 - e*e) / (1 + e)

	newSMA = a + da
	newECC = e + de
	if newECC < 0 {
		newECC = 0
	}

	newAlt := newSMA*(1-newECC) - re
	if newAlt <= 0 {
		return 0, 0, ErrDragNegativeAltitude
	}
	return newSMA, newECC, nil
}

// solveTrueAnomaly solves Kepler's equation M = E - e*sin(E) via
// Newton-Raphson and converts the result to true anomaly.
func solveTrueAnomaly(meanAnomaly, ecc float64) (float64, error) {
	m := meanAnomaly
	if m > math.Pi {
		m -= 2 * math.Pi
	}

	E := m
	converged := false
	for i := 0; i < keplerMaxIter; i++ {
		sinE, cosE := math.Sincos(E)
		f := E - ecc*sinE - m
		fp := 1 - ecc*cosE
		dE := -f / fp
		E += dE
		if math.Abs(dE) < keplerTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return 0, ErrKeplerNoConvergence
	}

	sinE, cosE := math.Sincos(E)
	ta := math.Atan2(math.Sqrt(1-ecc*ecc)*sinE, cosE-ecc)
	return normTwoPi(ta), nil
}

// trueToMeanAnomaly converts true anomaly to mean anomaly for an elliptic
// orbit.
func trueToMeanAnomaly(ta, ecc float64) float64 {
	E := math.Atan2(math.Sqrt(1-ecc*ecc)*math.Sin(ta), ecc+math.Cos(ta))
	M := E - ecc*math.Sin(E)
	return normTwoPi(M)
}

func normTwoPi(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
