package propagation

import (
	"math"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// Kinematic is the standard linear proper-motion model.
//
// RA and Dec advance by the raw proper-motion rates (no cos δ factor on
// μα) and the distance advances linearly with radial velocity. Binaries add a
// small-angle projection of their orbital-plane offset, which is only
// meaningful close to the reference epoch.
type Kinematic struct{}

// Propagate implements Model
func (Kinematic) Propagate(star types.StarRecord, times []float64) ([]types.PredictionPoint, Stats) {
	ra0, dec0 := catalogPosition(star)
	pmra, pmdec := properMotionRad(star)
	rv := star.RadialVelocityOrZero()
	d0 := star.DistanceAU()

	points := make([]types.PredictionPoint, len(times))
	for i, t := range times {
		ra := ra0 + units.RadToDeg(pmra*t)
		dec := dec0 + units.RadToDeg(pmdec*t)
		d := d0 + units.KmSToAUPerYear(rv)*t

		if star.HasOrbitalMotion() {
			ra, dec, d = applyBinaryOffset(*star.Orbit, t, ra, dec, d)
		}

		points[i] = types.PredictionPoint{
			Time:                  t,
			RA:                    ra,
			Dec:                   dec,
			DistanceLy:            units.AUToLy(d),
			TangentialVelocityKmS: units.AUPerYearToKmS(math.Hypot(pmra*d, pmdec*d)),
			RadialVelocityKmS:     rv,
		}
		finishPoint(&points[i], ra0, dec0)
	}

	return points, Stats{}
}

// applyBinaryOffset shifts a position by the binary's in-plane offset: the
// periastron axis maps onto RA, the perpendicular axis onto Dec foreshortened
// by cos i, and its out-of-sky part onto distance.
func applyBinaryOffset(orbit types.BinaryOrbit, t, ra, dec, d float64) (float64, float64, float64) {
	off := orbit.Offset(t)
	inc := units.DegToRad(orbit.InclinationDeg)

	cosDec := math.Cos(units.DegToRad(dec))
	if math.Abs(cosDec) < minCosDec {
		cosDec = math.Copysign(minCosDec, cosDec)
	}

	if d > 0 {
		ra += units.RadToDeg(off.X / d / cosDec)
		dec += units.RadToDeg(off.Y * math.Cos(inc) / d)
	}
	d += off.Y * math.Sin(inc)

	return ra, dec, d
}
