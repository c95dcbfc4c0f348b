package types

import (
	"math"

	"github.com/oxygene76/orbittracker/pkg/astronomy/orbital"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// BinaryOrbit carries the relative-orbit elements of a catalog binary
type BinaryOrbit = orbital.BinaryOrbit

// StarRecord holds the astrometric parameters of a single star at the
// reference epoch. Optional measurements are nil when the catalog does not
// provide them.
type StarRecord struct {
	Name     string `json:"name" yaml:"name"`
	SourceID string `json:"sourceId,omitempty" yaml:"source_id,omitempty"`

	RA       *float64 `json:"ra" yaml:"ra"`             // degrees
	Dec      *float64 `json:"dec" yaml:"dec"`           // degrees
	Parallax *float64 `json:"parallax" yaml:"parallax"` // mas
	PMRA     *float64 `json:"pmra" yaml:"pmra"`         // mas/yr
	PMDec    *float64 `json:"pmdec" yaml:"pmdec"`       // mas/yr

	// RadialVelocity is in km/s. Absent is treated as zero for kinematics.
	RadialVelocity *float64 `json:"radialVelocity,omitempty" yaml:"radial_velocity,omitempty"`

	ParallaxError       *float64 `json:"parallaxError,omitempty" yaml:"parallax_error,omitempty"`
	PMRAError           *float64 `json:"pmraError,omitempty" yaml:"pmra_error,omitempty"`
	PMDecError          *float64 `json:"pmdecError,omitempty" yaml:"pmdec_error,omitempty"`
	RadialVelocityError *float64 `json:"radialVelocityError,omitempty" yaml:"radial_velocity_error,omitempty"`

	Orbit *BinaryOrbit `json:"orbit,omitempty" yaml:"orbit,omitempty"`
}

// Float returns a pointer to v, for populating optional fields
func Float(v float64) *float64 {
	return &v
}

// HasOrbitalMotion reports whether the star carries usable binary elements
func (s StarRecord) HasOrbitalMotion() bool {
	return s.Orbit != nil && s.Orbit.PeriodYears > 0
}

// DistancePc returns the distance in parsecs, or 0 without a parallax
func (s StarRecord) DistancePc() float64 {
	if s.Parallax == nil || *s.Parallax == 0 {
		return 0
	}
	return units.ParallaxToParsec(*s.Parallax)
}

// DistanceLy returns the distance in light-years
func (s StarRecord) DistanceLy() float64 {
	return s.DistancePc() * units.LyPerParsec
}

// DistanceAU returns the distance in AU
func (s StarRecord) DistanceAU() float64 {
	return units.ParsecToAU(s.DistancePc())
}

// TotalProperMotion returns √(μα² + μδ²) in mas/yr
func (s StarRecord) TotalProperMotion() float64 {
	var pmra, pmdec float64
	if s.PMRA != nil {
		pmra = *s.PMRA
	}
	if s.PMDec != nil {
		pmdec = *s.PMDec
	}
	return math.Hypot(pmra, pmdec)
}

// RadialVelocityOrZero returns the radial velocity in km/s, or 0 when absent
func (s StarRecord) RadialVelocityOrZero() float64 {
	if s.RadialVelocity == nil {
		return 0
	}
	return *s.RadialVelocity
}

// Clone returns a deep copy whose optional fields can be modified
// without touching the receiver.
func (s StarRecord) Clone() StarRecord {
	c := s
	c.RA = clonePtr(s.RA)
	c.Dec = clonePtr(s.Dec)
	c.Parallax = clonePtr(s.Parallax)
	c.PMRA = clonePtr(s.PMRA)
	c.PMDec = clonePtr(s.PMDec)
	c.RadialVelocity = clonePtr(s.RadialVelocity)
	c.ParallaxError = clonePtr(s.ParallaxError)
	c.PMRAError = clonePtr(s.PMRAError)
	c.PMDecError = clonePtr(s.PMDecError)
	c.RadialVelocityError = clonePtr(s.RadialVelocityError)
	if s.Orbit != nil {
		o := *s.Orbit
		c.Orbit = &o
	}
	return c
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
