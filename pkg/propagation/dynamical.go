package propagation

import (
	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/coords"
	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
	"github.com/oxygene76/orbittracker/pkg/astronomy/orbital"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// Dynamical is the high-fidelity model. Mu is the central gravitational
// parameter in AU³/yr²; zero means one solar mass.
type Dynamical struct {
	Mu float64
}

func (m Dynamical) mu() float64 {
	if m.Mu == 0 {
		return units.MuSun
	}
	return m.Mu
}

// InitialState places the star at d·û with velocity
// (μα·eRA + μδ·eDec)·d + vr·û, in AU and AU/yr.
func InitialState(star types.StarRecord) orbital.StateVector {
	ra, dec := catalogPosition(star)
	pmra, pmdec := properMotionRad(star)
	d := star.DistanceAU()

	u := coords.ToCartesian(ra, dec, 1)
	eRA, eDec := coords.TangentPlaneBasis(ra, dec)

	tangential := eRA.Scale(pmra * d).Add(eDec.Scale(pmdec * d))
	radial := u.Scale(units.KmSToAUPerYear(star.RadialVelocityOrZero()))

	return orbital.StateVector{
		Position: u.Scale(d),
		Velocity: tangential.Add(radial),
	}
}

// Propagate implements Model
func (m Dynamical) Propagate(star types.StarRecord, times []float64) ([]types.PredictionPoint, Stats) {
	if star.HasOrbitalMotion() {
		return m.propagateBinary(star, times), Stats{}
	}

	ra0, dec0 := catalogPosition(star)
	mu := m.mu()
	state := InitialState(star)

	var stats Stats
	points := make([]types.PredictionPoint, len(times))
	prev := 0.0
	for i, t := range times {
		if dt := t - prev; dt != 0 {
			state = m.step(state, mu, dt, &stats)
		}
		prev = t
		points[i] = pointFromState(t, state.Position, state.Velocity, ra0, dec0)
	}

	return points, stats
}

// step advances one interval, taking the Kepler branch only for bound states
func (m Dynamical) step(s orbital.StateVector, mu, dt float64, stats *Stats) orbital.StateVector {
	if !s.IsBound(mu) {
		stats.DriftSteps++
		return s.Drift(dt)
	}

	stats.KeplerSteps++
	next, ok := orbital.PropagateUniversal(s, mu, dt)
	if !ok {
		stats.Fallbacks++
	}
	return next
}

// propagateBinary follows the systemic motion in a straight line and adds the
// orbital-plane offset projected onto the local sky basis and line of sight.
func (m Dynamical) propagateBinary(star types.StarRecord, times []float64) []types.PredictionPoint {
	ra0, dec0 := catalogPosition(star)
	s0 := InitialState(star)
	orbit := *star.Orbit

	u := coords.ToCartesian(ra0, dec0, 1)
	eRA, eDec := coords.TangentPlaneBasis(ra0, dec0)
	inc := units.DegToRad(orbit.InclinationDeg)
	cosI, sinI := cosSin(inc)

	points := make([]types.PredictionPoint, len(times))
	for i, t := range times {
		off := orbit.Offset(t)
		pos := s0.Drift(t).Position.
			Add(eRA.Scale(off.X)).
			Add(eDec.Scale(off.Y * cosI)).
			Add(u.Scale(off.Y * sinI))
		points[i] = pointFromState(t, pos, s0.Velocity, ra0, dec0)
	}
	return points
}

// pointFromState derives sky position and velocity split from a Cartesian state
func pointFromState(t float64, pos, vel astromath.Vector3, ra0, dec0 float64) types.PredictionPoint {
	ra, dec, r := coords.FromCartesian(pos)

	rhat := pos.Normalize()
	vr := vel.Dot(rhat)
	vt := vel.Sub(rhat.Scale(vr)).Magnitude()

	p := types.PredictionPoint{
		Time:                  t,
		RA:                    ra,
		Dec:                   dec,
		DistanceLy:            units.AUToLy(r),
		TangentialVelocityKmS: units.AUPerYearToKmS(vt),
		RadialVelocityKmS:     units.AUPerYearToKmS(vr),
	}
	finishPoint(&p, ra0, dec0)
	return p
}
