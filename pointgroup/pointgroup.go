// Package pointgroup holds the ordered sequence of unit-sphere surface
// points a coverage analysis tests visibility against. Population (user
// lists, or generative helical/Fibonacci grids) is an external concern;
// this package only stores points and derives their unit vectors.
package pointgroup

import (
	"math"

	"github.com/covanalysis/propcov-go/internal/linalg"
)

// Group is an ordered collection of (lat, lon) surface points together
// with their derived unit vectors. An optional latitude/longitude
// bounding box rejects points outside it at append time.
type Group struct {
	lats, lons []float64
	vecs       []linalg.Vec3

	hasBBox                        bool
	minLat, maxLat, minLon, maxLon float64
}

// New returns an empty, unbounded Group.
func New() *Group {
	return &Group{}
}

// NewBounded returns an empty Group that rejects points outside the given
// latitude/longitude bounding box (radians).
func NewBounded(minLat, maxLat, minLon, maxLon float64) *Group {
	return &Group{hasBBox: true, minLat: minLat, maxLat: maxLat, minLon: minLon, maxLon: maxLon}
}

// AddUserDefinedPoints appends the given (lat, lon) pairs (radians),
// skipping any that fall outside the group's bounding box (if set).
// Returns the number of points actually added.
func (g *Group) AddUserDefinedPoints(lats, lons []float64) int {
	added := 0
	for i := range lats {
		lat, lon := lats[i], lons[i]
		if g.hasBBox && (lat < g.minLat || lat > g.maxLat || lon < g.minLon || lon > g.maxLon) {
			continue
		}
		g.lats = append(g.lats, lat)
		g.lons = append(g.lons, lon)
		g.vecs = append(g.vecs, latLonToUnit(lat, lon))
		added++
	}
	return added
}

// NumPoints returns the number of points currently held.
func (g *Group) NumPoints() int {
	return len(g.lats)
}

// GetLatAndLon returns the latitude and longitude (radians) of point i.
func (g *Group) GetLatAndLon(i int) (lat, lon float64) {
	return g.lats[i], g.lons[i]
}

// GetPointPositionVector returns the unit vector of point i.
func (g *Group) GetPointPositionVector(i int) linalg.Vec3 {
	return g.vecs[i]
}

func latLonToUnit(lat, lon float64) linalg.Vec3 {
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return linalg.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
}
