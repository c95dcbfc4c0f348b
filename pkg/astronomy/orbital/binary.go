package orbital

import (
	"math"
)

// BinaryOrbit holds the minimal relative-orbit elements carried by catalog
// binaries. Angles are in degrees.
type BinaryOrbit struct {
	PeriodYears    float64 `json:"orbitalPeriod" yaml:"period_years"`
	Eccentricity   float64 `json:"eccentricity" yaml:"eccentricity"`
	InclinationDeg float64 `json:"inclination" yaml:"inclination_deg"`
}

// OrbitalPlaneOffset is the companion-relative displacement of a binary
// component in its orbital plane, in AU.
type OrbitalPlaneOffset struct {
	X, Y        float64 // in-plane, X toward periastron
	Radius      float64
	MeanAnomaly float64 // radians
	Eccentric   float64 // radians
	True        float64 // radians
}

// SemiMajorAxisAU returns the semi-major axis from Kepler's third law for a
// total system mass of one solar mass: a = P^(2/3).
func SemiMajorAxisAU(periodYears float64) float64 {
	return math.Cbrt(periodYears * periodYears)
}

// MeanAnomaly returns M = 2π·(t mod P)/P in radians.
func MeanAnomaly(t, periodYears float64) float64 {
	phase := math.Mod(t, periodYears)
	if phase < 0 {
		phase += periodYears
	}
	return 2 * math.Pi * phase / periodYears
}

// ApproxEccentricAnomaly returns E ≈ M + e·sin(M).
//
// This is a single first-order pass, not a converged Kepler solve. Binary
// fixtures depend on these exact values; see DESIGN.md before changing it.
func ApproxEccentricAnomaly(m, e float64) float64 {
	return m + e*math.Sin(m)
}

// TrueAnomaly converts an eccentric anomaly to a true anomaly (radians).
func TrueAnomaly(eccAnomaly, e float64) float64 {
	return 2.0 * math.Atan2(
		math.Sqrt(1+e)*math.Sin(eccAnomaly/2),
		math.Sqrt(1-e)*math.Cos(eccAnomaly/2),
	)
}

// OrbitRadius returns r = a(1 − e·cos E).
func OrbitRadius(a, eccAnomaly, e float64) float64 {
	return a * (1 - e*math.Cos(eccAnomaly))
}

// Offset evaluates the orbital-plane displacement at time t years after the
// reference epoch (taken as periastron passage).
func (b BinaryOrbit) Offset(t float64) OrbitalPlaneOffset {
	a := SemiMajorAxisAU(b.PeriodYears)
	m := MeanAnomaly(t, b.PeriodYears)
	ea := ApproxEccentricAnomaly(m, b.Eccentricity)
	nu := TrueAnomaly(ea, b.Eccentricity)
	r := OrbitRadius(a, ea, b.Eccentricity)

	return OrbitalPlaneOffset{
		X:           r * math.Cos(nu),
		Y:           r * math.Sin(nu),
		Radius:      r,
		MeanAnomaly: m,
		Eccentric:   ea,
		True:        nu,
	}
}
