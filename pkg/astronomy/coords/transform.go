// Package coords converts between equatorial sky coordinates and the Cartesian
// barycentric frame used by the propagators.
//
// All angles crossing the package boundary are in degrees. Every function is
// pure and safe for concurrent use.
package coords

import (
	"math"

	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// Galactic pole and node used by EquatorialToGalactic (J2000).
const (
	galacticPoleRA  = 192.85948
	galacticPoleDec = 27.12825
	galacticNodeL   = 122.93192
)

// ToCartesian returns the unit vector toward (ra, dec) scaled by distance.
func ToCartesian(raDeg, decDeg, distance float64) astromath.Vector3 {
	ra := units.DegToRad(raDeg)
	dec := units.DegToRad(decDeg)
	cosDec := math.Cos(dec)
	return astromath.Vector3{
		X: distance * cosDec * math.Cos(ra),
		Y: distance * cosDec * math.Sin(ra),
		Z: distance * math.Sin(dec),
	}
}

// TangentPlaneBasis returns the unit vectors pointing toward increasing RA and
// increasing Dec at the given sky position.
func TangentPlaneBasis(raDeg, decDeg float64) (eRA, eDec astromath.Vector3) {
	ra := units.DegToRad(raDeg)
	dec := units.DegToRad(decDeg)
	sinRA, cosRA := math.Sin(ra), math.Cos(ra)
	sinDec, cosDec := math.Sin(dec), math.Cos(dec)

	eRA = astromath.Vector3{X: -sinRA, Y: cosRA, Z: 0}
	eDec = astromath.Vector3{X: -sinDec * cosRA, Y: -sinDec * sinRA, Z: cosDec}
	return eRA, eDec
}

// FromCartesian returns (ra, dec, r) for a position vector. RA is in [0, 360),
// Dec in [-90, 90]. The origin maps to (0, 0, 0).
func FromCartesian(pos astromath.Vector3) (raDeg, decDeg, r float64) {
	r = pos.Magnitude()
	if r == 0 {
		return 0, 0, 0
	}
	s := pos.Z / r
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	decDeg = units.RadToDeg(math.Asin(s))
	raDeg = NormalizeRA(units.RadToDeg(math.Atan2(pos.Y, pos.X)))
	return raDeg, decDeg, r
}

// NormalizeRA wraps an angle in degrees into [0, 360).
func NormalizeRA(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to exactly 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AngularSeparation returns the great-circle distance between two sky
// positions in degrees, using the spherical law of cosines.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	// sin²+cos² is not exactly 1 in floating point
	if ra1 == ra2 && dec1 == dec2 {
		return 0
	}
	d1 := units.DegToRad(dec1)
	d2 := units.DegToRad(dec2)
	dRA := units.DegToRad(ra2 - ra1)

	cosSep := math.Sin(d1)*math.Sin(d2) + math.Cos(d1)*math.Cos(d2)*math.Cos(dRA)
	// Clamp cosSep to [-1, 1] to handle floating point errors
	if cosSep > 1 {
		cosSep = 1
	} else if cosSep < -1 {
		cosSep = -1
	}
	return units.RadToDeg(math.Acos(cosSep))
}

// EquatorialToGalactic converts (ra, dec) to galactic longitude and latitude
// in degrees.
//
// This is a display-only approximation: a single rotation through the J2000
// galactic pole, ignoring the FK5/ICRS frame tie and precession. Results are
// good to a few arcseconds and must not be fed back into propagation.
func EquatorialToGalactic(raDeg, decDeg float64) (lDeg, bDeg float64) {
	dec := units.DegToRad(decDeg)
	decP := units.DegToRad(galacticPoleDec)
	dRA := units.DegToRad(raDeg - galacticPoleRA)

	sinB := math.Sin(dec)*math.Sin(decP) + math.Cos(dec)*math.Cos(decP)*math.Cos(dRA)
	if sinB > 1 {
		sinB = 1
	} else if sinB < -1 {
		sinB = -1
	}
	b := math.Asin(sinB)

	y := math.Cos(dec) * math.Sin(dRA)
	x := math.Sin(dec)*math.Cos(decP) - math.Cos(dec)*math.Sin(decP)*math.Cos(dRA)
	l := galacticNodeL - units.RadToDeg(math.Atan2(y, x))

	return NormalizeRA(l), units.RadToDeg(b)
}
