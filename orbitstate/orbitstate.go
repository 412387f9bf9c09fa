// Package orbitstate holds an inertial Cartesian (position, velocity) pair
// and converts it to and from classical Keplerian elements.
//
// The Cartesian-to-Keplerian direction uses the angular-momentum /
// eccentricity-vector formulation; the Keplerian-to-Cartesian direction
// follows the standard perifocal-frame construction. Units are km and
// km/s with an injectable gravitational parameter.
package orbitstate

import (
	"math"

	"github.com/covanalysis/propcov-go/internal/linalg"
)

const twoPi = 2 * math.Pi

// Keplerian holds classical orbital elements. Angles are in radians.
type Keplerian struct {
	SMA  float64 // semi-major axis, km
	ECC  float64 // eccentricity
	INC  float64 // inclination, rad
	RAAN float64 // right ascension of ascending node (Ω), rad
	AOP  float64 // argument of periapsis (ω), rad
	TA   float64 // true anomaly (ν), rad
}

// State is an inertial Cartesian (r, v) pair together with the
// gravitational parameter used to relate it to Keplerian elements.
type State struct {
	R  linalg.Vec3 // position, km
	V  linalg.Vec3 // velocity, km/s
	Mu float64     // gravitational parameter, km^3/s^2
}

// NewFromCartesian builds a State directly from position and velocity.
func NewFromCartesian(r, v linalg.Vec3, mu float64) State {
	return State{R: r, V: v, Mu: mu}
}

// NewFromKeplerian builds a State by converting Keplerian elements to
// Cartesian position/velocity through the perifocal frame.
//
// There is no special case for e≈0 or i≈0: the given AOP and RAAN are
// applied as they are, and AOP is not forced to 0 for circular orbits nor
// RAAN to 0 for equatorial ones. Element sets in the tie-break form that
// ToKeplerian returns (AOP = 0 for circular, RAAN = 0 for equatorial)
// convert back to the same position.
func NewFromKeplerian(k Keplerian, mu float64) State {
	p := k.SMA * (1 - k.ECC*k.ECC)
	if p <= 0 {
		p = k.SMA // degenerate guard; callers should not pass e>=1 here
	}

	cosTA, sinTA := math.Cos(k.TA), math.Sin(k.TA)
	r := p / (1 + k.ECC*cosTA)

	// Perifocal frame position/velocity.
	rPQW := linalg.Vec3{r * cosTA, r * sinTA, 0}
	h := math.Sqrt(mu * p)
	vPQW := linalg.Vec3{-mu / h * sinTA, mu / h * (k.ECC + cosTA), 0}

	rot := perifocalToInertial(k.INC, k.RAAN, k.AOP)
	return State{
		R:  rot.MulVec(rPQW),
		V:  rot.MulVec(vPQW),
		Mu: mu,
	}
}

// perifocalToInertial builds the rotation matrix from the perifocal (PQW)
// frame to the inertial frame: R = Rz(-Ω)*Rx(-i)*Rz(-ω).
func perifocalToInertial(inc, raan, aop float64) linalg.Mat3 {
	return linalg.RotationAxis3(-raan).Mul(linalg.RotationAxis1(-inc)).Mul(linalg.RotationAxis3(-aop))
}

// ToKeplerian converts the Cartesian state to classical elements using the
// angular-momentum / eccentricity-vector formulation.
//
// Tie-breaks: for circular orbits (e≈0), AOP is returned as 0; TA is then
// the argument of latitude (angle from the ascending node to r) for an
// inclined orbit, and the true longitude (angle from +X to r) for an
// equatorial one. For equatorial orbits (i≈0), RAAN is returned as 0 and
// AOP is the longitude of periapsis.
func (s State) ToKeplerian() Keplerian {
	r := s.R.Norm()
	v := s.V.Norm()

	hVec := s.R.Cross(s.V)
	h := hVec.Norm()

	rdv := s.R.Dot(s.V)
	factor := v*v - s.Mu/r
	eVec := linalg.Vec3{
		(factor*s.R[0] - rdv*s.V[0]) / s.Mu,
		(factor*s.R[1] - rdv*s.V[1]) / s.Mu,
		(factor*s.R[2] - rdv*s.V[2]) / s.Mu,
	}
	ecc := eVec.Norm()

	nVec := linalg.Vec3{-hVec[1], hVec[0], 0}
	n := nVec.Norm()

	p := h * h / s.Mu
	e2 := ecc * ecc
	var sma float64
	if math.Abs(ecc-1.0) < 1e-12 {
		sma = math.Inf(1)
	} else {
		sma = p / (1 - e2)
	}

	inc := math.Acos(clamp(hVec[2]/h, -1, 1))

	var raan float64
	equatorial := n < 1e-11
	if !equatorial {
		raan = math.Atan2(hVec[0], -hVec[1])
		raan = normTwoPi(raan)
	}

	circular := ecc < 1e-11

	var aop, ta float64
	switch {
	case !circular && !equatorial:
		aop = angleBetween(nVec, eVec)
		if eVec[2] < 0 {
			aop = twoPi - aop
		}
		ta = angleBetween(eVec, s.R)
		if rdv < 0 {
			ta = twoPi - ta
		}
	case !circular && equatorial:
		// Longitude of periapsis takes the role of AOP; RAAN is 0.
		aop = math.Atan2(eVec[1], eVec[0])
		aop = normTwoPi(aop)
		crossRV := s.R.Cross(s.V)
		if crossRV[2] < 0 {
			aop = twoPi - aop
		}
		ta = angleBetween(eVec, s.R)
		if rdv < 0 {
			ta = twoPi - ta
		}
	case circular && !equatorial:
		aop = 0
		ta = angleBetween(nVec, s.R)
		if s.R[2] < 0 {
			ta = twoPi - ta
		}
	default:
		// Circular and equatorial: true longitude from +X axis.
		aop = 0
		ta = math.Acos(clamp(s.R[0]/r, -1, 1))
		if s.V[0] > 0 {
			ta = twoPi - ta
		}
	}

	return Keplerian{
		SMA:  sma,
		ECC:  ecc,
		INC:  inc,
		RAAN: raan,
		AOP:  aop,
		TA:   ta,
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

func angleBetween(a, b linalg.Vec3) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	cosang := clamp(a.Dot(b)/(na*nb), -1, 1)
	return math.Acos(cosang)
}

func normTwoPi(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
