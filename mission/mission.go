// Package mission loads a JSON mission description: epoch, orbital
// elements, sensor list, point-group source, sampling schedule, and an
// optional drag model, kept as a configuration boundary external to the
// core analytic packages.
//
// Parsing uses only the standard library's encoding/json. Angle unit
// conversion is delegated to the units package rather than hand-rolled
// degree/radian arithmetic.
package mission

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/covanalysis/propcov-go/attitude"
	"github.com/covanalysis/propcov-go/earth"
	"github.com/covanalysis/propcov-go/orbitstate"
	"github.com/covanalysis/propcov-go/propagator"
	"github.com/covanalysis/propcov-go/sensor"
	"github.com/covanalysis/propcov-go/units"
)

// SensorKind enumerates the supported sensor shapes in a mission file.
type SensorKind string

const (
	SensorConical     SensorKind = "conical"
	SensorRectangular SensorKind = "rectangular"
	SensorCustom      SensorKind = "custom"
)

// SensorSpec describes one sensor payload entry.
type SensorSpec struct {
	Kind SensorKind `json:"kind"`

	// Conical
	HalfAngleDeg float64 `json:"half_angle_deg,omitempty"`

	// Rectangular
	AngleHeightDeg float64 `json:"angle_height_deg,omitempty"`
	AngleWidthDeg  float64 `json:"angle_width_deg,omitempty"`

	// Custom
	ConeDeg  []float64 `json:"cone_deg,omitempty"`
	ClockDeg []float64 `json:"clock_deg,omitempty"`

	// Body-to-sensor Euler offset; zero value is identity.
	OffsetAxes   [3]int     `json:"offset_axes,omitempty"`
	OffsetAngles [3]float64 `json:"offset_angles_deg,omitempty"`
}

// Build constructs the concrete Sensor and its Euler offset described by
// this spec.
func (s SensorSpec) Build() (sensor.Sensor, attitude.EulerOffset, error) {
	offset := attitude.IdentityOffset
	if s.OffsetAxes != [3]int{} {
		var rad [3]float64
		for i, a := range s.OffsetAngles {
			rad[i] = units.AngleFromDegrees(a).Radians()
		}
		offset = attitude.EulerOffset{Axes: s.OffsetAxes, Angles: rad}
	}

	switch s.Kind {
	case SensorConical:
		return sensor.NewConical(units.AngleFromDegrees(s.HalfAngleDeg).Radians()), offset, nil
	case SensorRectangular:
		return sensor.NewRectangular(
			units.AngleFromDegrees(s.AngleHeightDeg).Radians(),
			units.AngleFromDegrees(s.AngleWidthDeg).Radians(),
		), offset, nil
	case SensorCustom:
		cone := make([]float64, len(s.ConeDeg))
		clock := make([]float64, len(s.ClockDeg))
		for i, v := range s.ConeDeg {
			cone[i] = units.AngleFromDegrees(v).Radians()
		}
		for i, v := range s.ClockDeg {
			clock[i] = units.AngleFromDegrees(v).Radians()
		}
		custom, err := sensor.NewCustom(cone, clock)
		if err != nil {
			return nil, offset, errors.Wrap(err, "mission: building custom sensor")
		}
		return custom, offset, nil
	default:
		return nil, offset, errors.Errorf("mission: unknown sensor kind %q", s.Kind)
	}
}

// EpochSpec is a Gregorian calendar epoch in a mission file.
type EpochSpec struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Second float64 `json:"second"`
}

// ElementsSpec is a classical Keplerian element set in degrees/km, the
// natural unit choice for a human-edited mission file; Build converts to
// radians for orbitstate.Keplerian.
type ElementsSpec struct {
	SMAKm    float64 `json:"sma_km"`
	ECC      float64 `json:"ecc"`
	INCDeg   float64 `json:"inc_deg"`
	RAANDeg  float64 `json:"raan_deg"`
	AOPDeg   float64 `json:"aop_deg"`
	TrueADeg float64 `json:"true_anomaly_deg"`
}

// Build converts the element set to orbitstate.Keplerian (radians).
func (e ElementsSpec) Build() orbitstate.Keplerian {
	return orbitstate.Keplerian{
		SMA:  e.SMAKm,
		ECC:  e.ECC,
		INC:  units.AngleFromDegrees(e.INCDeg).Radians(),
		RAAN: units.AngleFromDegrees(e.RAANDeg).Radians(),
		AOP:  units.AngleFromDegrees(e.AOPDeg).Radians(),
		TA:   units.AngleFromDegrees(e.TrueADeg).Radians(),
	}
}

// DragSpec is the optional exponential-drag configuration for one
// spacecraft.
type DragSpec struct {
	Enabled             bool    `json:"enabled"`
	BallisticCoeffKm2   float64 `json:"ballistic_coeff_km2"`
	ReferenceAltitudeKm float64 `json:"reference_altitude_km"`
	ReferenceDensity    float64 `json:"reference_density_kg_km3"`
	ScaleHeightKm       float64 `json:"scale_height_km"`
}

// Build converts this drag spec to a propagator.DragConfig.
func (d DragSpec) Build() propagator.DragConfig {
	return propagator.DragConfig{
		Enabled:           d.Enabled,
		BallisticCoeffKm2: d.BallisticCoeffKm2,
		Atmosphere: propagator.ExponentialAtmosphere{
			ReferenceAltitudeKm: d.ReferenceAltitudeKm,
			ReferenceDensity:    d.ReferenceDensity,
			ScaleHeightKm:       d.ScaleHeightKm,
		},
	}
}

// SpacecraftSpec is one spacecraft entry in a mission file: an epoch,
// element set, sensor list, and optional drag model.
type SpacecraftSpec struct {
	Name     string       `json:"name"`
	Epoch    EpochSpec    `json:"epoch"`
	Elements ElementsSpec `json:"elements"`
	Sensors  []SensorSpec `json:"sensors"`
	Drag     DragSpec     `json:"drag"`
}

// PointGroupSpec is the user-defined point-group source a mission file
// supplies directly (generative helical/Fibonacci population paths are
// out of scope for this configuration boundary).
type PointGroupSpec struct {
	LatDeg []float64 `json:"lat_deg"`
	LonDeg []float64 `json:"lon_deg"`
}

// SamplingSpec is the time-sweep schedule: a fixed step over a fixed
// duration starting at the mission epoch.
type SamplingSpec struct {
	StepSeconds  float64 `json:"step_seconds"`
	DurationDays float64 `json:"duration_days"`
}

// Mission is a fully-parsed mission file: one or more spacecraft, a shared
// point group, and the sampling schedule they are swept against.
type Mission struct {
	Spacecraft []SpacecraftSpec `json:"spacecraft"`
	Points     PointGroupSpec   `json:"points"`
	Sampling   SamplingSpec     `json:"sampling"`
}

// Load reads and parses a mission file from path.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mission: reading %s", path)
	}
	var m Mission
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "mission: parsing %s", path)
	}
	if len(m.Spacecraft) == 0 {
		return nil, errors.Errorf("mission: %s defines no spacecraft", path)
	}
	return &m, nil
}

// DefaultEarth returns the Earth body this package's consumers share,
// since mission files do not (currently) override Earth's physical
// constants.
func DefaultEarth() earth.Body {
	return earth.NewDefault()
}
