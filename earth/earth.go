// Package earth provides the stateless Earth-rotation, coordinate-frame,
// and low-precision solar-ephemeris transforms shared by the attitude,
// sensor, and coverage packages.
//
// GMST uses the IAU 1982 polynomial, a low-fidelity model adequate for
// coverage analysis. The geodetic conversion uses Bowring's method over
// an injectable ellipsoid rather than hard-coded WGS84 constants.
package earth

import (
	"math"

	"github.com/covanalysis/propcov-go/internal/linalg"
)

const (
	// BODY_RADIUS is the default Earth radius (km) used throughout the
	// core for sphere-based FOV geometry. Overridable at Body
	// construction for callers needing a different sphere.
	BODY_RADIUS = 6378.1363

	defaultFlattening = 1.0 / 298.257
	defaultMu         = 398600.4415 // km^3/s^2
	defaultJ2         = 0.0010826269

	j2000JD = 2451545.0
	twoPi   = 2 * math.Pi
	deg2rad = math.Pi / 180.0
)

// Body is a value object holding Earth's physical constants. The zero
// value is not usable; construct with NewDefault or New.
type Body struct {
	EquatorialRadius float64 // km
	Flattening       float64 // dimensionless
	Mu               float64 // km^3/s^2
	J2               float64 // dimensionless
}

// NewDefault returns a Body with the core's default physical constants:
// equatorial radius BODY_RADIUS, WGS84-like flattening 1/298.257, Earth mu,
// and Earth J2.
func NewDefault() Body {
	return Body{
		EquatorialRadius: BODY_RADIUS,
		Flattening:       defaultFlattening,
		Mu:               defaultMu,
		J2:               defaultJ2,
	}
}

// New returns a Body with the given physical constants.
func New(equatorialRadiusKm, flattening, mu, j2 float64) Body {
	return Body{EquatorialRadius: equatorialRadiusKm, Flattening: flattening, Mu: mu, J2: j2}
}

// GMST returns the Greenwich Mean Sidereal Time (radians, [0, 2π)) at the
// given UT1 Julian date, using the low-fidelity IAU 1982 polynomial. This
// is the rotation angle of the body-fixed frame relative to the inertial
// frame.
func (b Body) GMST(jd float64) float64 {
	du := jd - j2000JD
	t := du / 36525.0

	gmstDeg := 280.46061837 + 360.98564736629*du +
		0.000387933*t*t - t*t*t/38710000.0

	gmstRad := math.Mod(gmstDeg*deg2rad, twoPi)
	if gmstRad < 0 {
		gmstRad += twoPi
	}
	return gmstRad
}

// InertialToBodyFixed rotates an inertial vector into the body-fixed
// frame at the given Julian date by the Earth's GMST rotation about +Z.
// Velocities are rotated with the same matrix; the ω×r term from the
// frame's angular velocity is intentionally omitted (acceptable for
// coverage analysis, not for precision dynamics).
func (b Body) InertialToBodyFixed(v linalg.Vec3, jd float64) linalg.Vec3 {
	return linalg.RotationAxis3(b.GMST(jd)).MulVec(v)
}

// BodyFixedToInertial is the inverse of InertialToBodyFixed.
func (b Body) BodyFixedToInertial(v linalg.Vec3, jd float64) linalg.Vec3 {
	return linalg.RotationAxis3(-b.GMST(jd)).MulVec(v)
}

// InertialToBodyFixedMatrix returns the rotation matrix applied by
// InertialToBodyFixed, for callers composing it into a longer rotation
// chain instead of rotating one vector at a time.
func (b Body) InertialToBodyFixedMatrix(jd float64) linalg.Mat3 {
	return linalg.RotationAxis3(b.GMST(jd))
}

// FixedToTopocentric rotates a body-fixed vector into the local
// topocentric South-East-Zenith (SEZ) frame at geodetic latitude lat and
// longitude lon (radians). Component 0 is South, component 1 is East,
// component 2 is Zenith (Up), the convention implied by the azimuth/zenith
// formulas used throughout the coverage sweep (atan2(E,-S) for azimuth
// measured from North through East). This is the classical
// South-East-Zenith topocentric frame (Vallado, Fundamentals of
// Astrodynamics and Applications).
func (b Body) FixedToTopocentric(v linalg.Vec3, lat, lon float64) linalg.Vec3 {
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	south := sinLat*cosLon*v[0] + sinLat*sinLon*v[1] - cosLat*v[2]
	east := -sinLon*v[0] + cosLon*v[1]
	zenith := cosLat*cosLon*v[0] + cosLat*sinLon*v[1] + sinLat*v[2]

	return linalg.Vec3{south, east, zenith}
}

// CartesianToSpherical converts a Cartesian vector (in any consistent
// length unit) to geocentric latitude and longitude (radians) and radius
// (same unit as input).
func CartesianToSpherical(v linalg.Vec3) (lat, lon, radius float64) {
	radius = v.Norm()
	if radius == 0 {
		return 0, 0, 0
	}
	lat = math.Asin(clamp(v[2]/radius, -1, 1))
	lon = math.Atan2(v[1], v[0])
	return lat, lon, radius
}

// SphericalToCartesian converts geocentric latitude, longitude (radians),
// and radius to a Cartesian vector.
func SphericalToCartesian(lat, lon, radius float64) linalg.Vec3 {
	cosLat := math.Cos(lat)
	return linalg.Vec3{
		radius * cosLat * math.Cos(lon),
		radius * cosLat * math.Sin(lon),
		radius * math.Sin(lat),
	}
}

// CartesianToEllipsoid converts a body-fixed Cartesian vector (km) to
// geodetic latitude, longitude (radians), and height above the ellipsoid
// (km), using Bowring's iterative method (converges in a few iterations
// for terrestrial positions).
func (b Body) CartesianToEllipsoid(v linalg.Vec3) (lat, lon, height float64) {
	x, y, z := v[0], v[1], v[2]
	lon = math.Atan2(y, x)

	p := math.Sqrt(x*x + y*y)
	a := b.EquatorialRadius
	f := b.Flattening
	e2 := f * (2 - f)

	if p == 0 {
		if z >= 0 {
			lat = math.Pi / 2
		} else {
			lat = -math.Pi / 2
		}
		height = math.Abs(z) - a*(1-f)
		return
	}

	bAxis := a * (1 - f)
	theta := math.Atan2(z*a, p*bAxis)
	sinT, cosT := math.Sincos(theta)

	lat = math.Atan2(z+e2/(1-f)*bAxis*sinT*sinT*sinT, p-e2*a*cosT*cosT*cosT)

	for i := 0; i < 3; i++ {
		sinLat := math.Sin(lat)
		n := a / math.Sqrt(1-e2*sinLat*sinLat)
		lat = math.Atan2(z+e2*n*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	if math.Abs(cosLat) > 1e-10 {
		height = p/cosLat - n
	} else {
		height = math.Abs(z)/math.Abs(sinLat) - n*(1-e2)
	}
	return
}

// EllipsoidToCartesian converts geodetic latitude, longitude (radians), and
// height above the ellipsoid (km) to a body-fixed Cartesian vector (km).
func (b Body) EllipsoidToCartesian(lat, lon, height float64) linalg.Vec3 {
	a := b.EquatorialRadius
	f := b.Flattening
	e2 := f * (2 - f)

	sinLat, cosLat := math.Sincos(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	return linalg.Vec3{
		(n + height) * cosLat * math.Cos(lon),
		(n + height) * cosLat * math.Sin(lon),
		(n*(1-e2) + height) * sinLat,
	}
}

// SunPositionInBodyCoords returns a low-precision Sun direction in
// body-fixed Cartesian coordinates at the given Julian date, using an
// analytic mean-longitude-plus-equation-of-centre solar ephemeris. The
// magnitude is the Sun-Earth distance in km; direction accuracy is
// adequate for solar-angle computation (arcminute level), not for precision
// ephemeris work.
func (b Body) SunPositionInBodyCoords(jd float64) linalg.Vec3 {
	t := (jd - j2000JD) / 36525.0

	// Mean longitude and mean anomaly of the Sun (degrees), low-precision
	// series (Meeus, Astronomical Algorithms ch. 25, truncated).
	L0 := math.Mod(280.46646+36000.76983*t+0.0003032*t*t, 360)
	M := math.Mod(357.52911+35999.05029*t-0.0001537*t*t, 360) * deg2rad

	C := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(M) +
		(0.019993-0.000101*t)*math.Sin(2*M)

	trueLon := (L0 + C) * deg2rad

	// Sun-Earth distance via the orbit equation (Earth eccentricity).
	ecc := 0.016708634 - 0.000042037*t - 0.0000001267*t*t
	nu := M + C*deg2rad
	distanceAU := (1.000001018 * (1 - ecc*ecc)) / (1 + ecc*math.Cos(nu))
	const auKm = 149597870.7
	distKm := distanceAU * auKm

	obliquity := (23.439291 - 0.0130042*t) * deg2rad

	// Ecliptic -> equatorial (inertial, mean-of-date equatorial frame).
	sinO, cosO := math.Sincos(obliquity)
	xEq := distKm * math.Cos(trueLon)
	yEq := distKm * math.Sin(trueLon) * cosO
	zEq := distKm * math.Sin(trueLon) * sinO

	inertial := linalg.Vec3{xEq, yEq, zEq}
	return b.InertialToBodyFixed(inertial, jd)
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
