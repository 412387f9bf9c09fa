// Package absolutedate provides a precise, simple, convertible time handle
// for orbit analysis: a continuous instant stored as a Julian date (days
// since noon TT, 1 Jan 4713 BC), with a Gregorian calendar view.
//
// Conversions use the Meeus algorithm (Astronomical Algorithms, ch. 7).
package absolutedate

import "math"

const secPerDay = 86400.0

// Date stores one continuous instant as a Julian date. The zero value is
// not a meaningful instant; construct with NewFromJulian or
// NewFromGregorian.
type Date struct {
	jd float64
}

// NewFromJulian constructs a Date directly from a Julian date.
func NewFromJulian(jd float64) Date {
	return Date{jd: jd}
}

// NewFromGregorian constructs a Date from a Gregorian calendar date and
// time. Year, month, and day are calendar values; hour and minute are
// integer clock components; second may carry a fractional part. Dates on
// or after 1582-10-15 are treated as Gregorian; earlier dates are treated
// as Julian calendar dates, per the standard civil calendar switch.
func NewFromGregorian(year, month, day, hour, minute int, second float64) Date {
	return Date{jd: gregorianToJulian(year, month, day, hour, minute, second)}
}

// JulianDate returns the stored Julian date.
func (d Date) JulianDate() float64 {
	return d.jd
}

// SetJulianDate returns a copy of d with the Julian date replaced.
func (d Date) SetJulianDate(jd float64) Date {
	d.jd = jd
	return d
}

// SetGregorian returns a copy of d set to the given Gregorian calendar date
// and time.
func (d Date) SetGregorian(year, month, day, hour, minute int, second float64) Date {
	d.jd = gregorianToJulian(year, month, day, hour, minute, second)
	return d
}

// Advance returns a copy of d advanced by stepSeconds seconds (may be
// negative to move backwards in time).
func (d Date) Advance(stepSeconds float64) Date {
	d.jd += stepSeconds / secPerDay
	return d
}

// Equal reports bitwise equality of the underlying Julian date (not
// time-tolerant equality).
func (d Date) Equal(other Date) bool {
	return d.jd == other.jd
}

// Gregorian returns the Gregorian calendar representation of d: year,
// month, day, hour, minute, and a fractional second, exact to about 1 ms.
func (d Date) Gregorian() (year, month, day, hour, minute int, second float64) {
	jd := d.jd + 0.5
	z := math.Floor(jd)
	f := jd - z

	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	e := math.Floor(365.25 * c)
	g := math.Floor((b - e) / 30.6001)

	dayFrac := b - e - math.Floor(30.6001*g) + f
	day = int(dayFrac)
	fracDay := dayFrac - float64(day)

	if g < 14 {
		month = int(g) - 1
	} else {
		month = int(g) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	totalSec := fracDay * secPerDay
	// Round to the nearest millisecond to absorb floating-point round-trip
	// error before truncating to integer hour/minute components.
	totalSec = math.Round(totalSec*1000) / 1000

	hour = int(totalSec / 3600.0)
	totalSec -= float64(hour) * 3600.0
	minute = int(totalSec / 60.0)
	second = totalSec - float64(minute)*60.0

	return
}

// gregorianToJulian converts a Gregorian (or Julian calendar, for dates
// before 1582-10-15) date/time to a Julian date, using the Meeus algorithm.
func gregorianToJulian(year, month, day int, hour, minute int, second float64) float64 {
	y := year
	m := month
	if m <= 2 {
		y--
		m += 12
	}

	dayFrac := float64(day) + (float64(hour)+float64(minute)/60.0+second/3600.0)/24.0

	var b float64
	// Gregorian calendar in effect on or after 1582-10-15.
	isGregorian := year > 1582 || (year == 1582 && (month > 10 || (month == 10 && day >= 15)))
	if isGregorian {
		a := math.Floor(float64(y) / 100.0)
		b = 2 - a + math.Floor(a/4.0)
	}

	jd := math.Floor(365.25*(float64(y)+4716.0)) +
		math.Floor(30.6001*(float64(m)+1.0)) +
		dayFrac + b - 1524.5

	return jd
}
