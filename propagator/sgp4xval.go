package propagator

import (
	"math"

	gosatellite "github.com/joshuaferrara/go-satellite"
)

// CrossValidateSGP4 is an opt-in sanity check, not part of the coverage
// analysis path: it propagates a two-line element set with SGP4 (a
// different, mean-element-based model from this package's analytic J2
// propagator) to the given Gregorian instant and reports the resulting
// TEME position's geocentric radius, letting a caller spot-check that a
// Propagator run initialized from the same physical orbit stays in the
// same ballpark as an independent propagation model.
//
// This intentionally does not attempt a precise TEME->ICRF rotation (the
// two propagators' inertial frames differ in construction, low-precision
// mean-of-date here versus true-equator-mean-equinox for SGP4, so sub-frame
// agreement is not the goal); it is a coarse cross-check.
func CrossValidateSGP4(line1, line2 string, year, month, day, hour, minute, second int) (posKmTEME [3]float64, radiusKm float64) {
	sat := gosatellite.TLEToSat(line1, line2, gosatellite.GravityWGS84)
	pos, _ := gosatellite.Propagate(sat, year, month, day, hour, minute, second)
	posKmTEME = [3]float64{pos.X, pos.Y, pos.Z}
	radiusKm = math.Sqrt(posKmTEME[0]*posKmTEME[0] + posKmTEME[1]*posKmTEME[1] + posKmTEME[2]*posKmTEME[2])
	return posKmTEME, radiusKm
}
