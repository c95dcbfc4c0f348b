// Package units holds the physical constants and unit conversions shared by the
// propagation engine. Distances are in AU, time in years, mass in solar masses.
package units

import "math"

const (
	// MasToRad converts milliarcseconds to radians
	MasToRad = math.Pi / (180.0 * 3600.0 * 1000.0)

	// AUToParsec is one AU expressed in parsecs
	AUToParsec = 4.8481368e-6

	// AUPerParsec is one parsec expressed in AU
	AUPerParsec = 1.0 / AUToParsec

	// KmSToAUYr converts km/s to AU/yr
	KmSToAUYr = 0.210945

	// LyPerParsec is light-years per parsec
	LyPerParsec = 3.26156

	// ArcsecPerDegree is arcseconds per degree
	ArcsecPerDegree = 3600.0

	// MuSun is G·M☉ in AU³/(M☉·yr²)
	MuSun = 4 * math.Pi * math.Pi

	// G is the gravitational constant in AU³/(M☉·yr²)
	G = MuSun
)

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ParallaxToParsec converts a parallax in mas to a distance in parsecs
func ParallaxToParsec(parallaxMas float64) float64 {
	return 1000.0 / parallaxMas
}

// ParsecToAU converts parsecs to AU
func ParsecToAU(pc float64) float64 {
	return pc * AUPerParsec
}

// AUToLy converts AU to light-years via parsecs
func AUToLy(au float64) float64 {
	return au / AUPerParsec * LyPerParsec
}

// KmSToAUPerYear converts a velocity in km/s to AU/yr
func KmSToAUPerYear(kms float64) float64 {
	return kms * KmSToAUYr
}

// AUPerYearToKmS converts a velocity in AU/yr to km/s
func AUPerYearToKmS(auyr float64) float64 {
	return auyr * (1.0 / KmSToAUYr)
}
