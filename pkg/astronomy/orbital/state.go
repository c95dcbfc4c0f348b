package orbital

import (
	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
)

// StateVector is a Cartesian position (AU) and velocity (AU/yr) in a
// barycentric inertial frame.
type StateVector struct {
	Position astromath.Vector3 `json:"position"`
	Velocity astromath.Vector3 `json:"velocity"`
}

// SpecificEnergy returns ε = v²/2 − μ/r. The origin yields -Inf.
func (s StateVector) SpecificEnergy(mu float64) float64 {
	return 0.5*s.Velocity.MagnitudeSquared() - mu/s.Position.Magnitude()
}

// IsBound reports whether the state lies on a closed (elliptic) orbit about mu,
// i.e. v² < 2μ/r.
func (s StateVector) IsBound(mu float64) bool {
	r := s.Position.Magnitude()
	if r == 0 {
		return false
	}
	return s.Velocity.MagnitudeSquared() < 2*mu/r
}

// Drift advances the state along a straight line for dt years.
func (s StateVector) Drift(dt float64) StateVector {
	return StateVector{
		Position: s.Position.Add(s.Velocity.Scale(dt)),
		Velocity: s.Velocity,
	}
}

// IsFinite reports whether position and velocity are free of NaN/Inf.
func (s StateVector) IsFinite() bool {
	return s.Position.IsFinite() && s.Velocity.IsFinite()
}
