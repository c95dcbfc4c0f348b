package orbital

import (
	"math"

	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
)

// OrbitalElements represents a full set of Keplerian elements.
// Angles are in radians, distances in AU.
type OrbitalElements struct {
	SemiMajorAxis          float64 `json:"semiMajorAxis" yaml:"semi_major_axis"`
	Eccentricity           float64 `json:"eccentricity" yaml:"eccentricity"`
	Inclination            float64 `json:"inclination" yaml:"inclination"`
	LongitudeAscendingNode float64 `json:"longitudeAscendingNode" yaml:"longitude_ascending_node"`
	ArgumentPeriapsis      float64 `json:"argumentPeriapsis" yaml:"argument_periapsis"`
	MeanAnomaly            float64 `json:"meanAnomaly" yaml:"mean_anomaly"`
}

// ToState converts elliptic elements to a state vector about a body with
// gravitational parameter mu (AU³/yr²). Velocities come out in AU/yr.
func (oe OrbitalElements) ToState(mu float64) StateVector {
	e := oe.Eccentricity
	E := SolveKepler(oe.MeanAnomaly, e)
	cosE := math.Cos(E)

	nu := TrueAnomaly(E, e)
	r := OrbitRadius(oe.SemiMajorAxis, E, e)

	// Position in orbital plane
	x := r * math.Cos(nu)
	y := r * math.Sin(nu)

	// Velocity in orbital plane
	n := math.Sqrt(mu / (oe.SemiMajorAxis * oe.SemiMajorAxis * oe.SemiMajorAxis))
	factor := n * oe.SemiMajorAxis / (1 - e*cosE)
	vx := -factor * math.Sin(E)
	vy := factor * math.Sqrt(1-e*e) * cosE

	cosO := math.Cos(oe.LongitudeAscendingNode)
	sinO := math.Sin(oe.LongitudeAscendingNode)
	cosI := math.Cos(oe.Inclination)
	sinI := math.Sin(oe.Inclination)
	cosW := math.Cos(oe.ArgumentPeriapsis)
	sinW := math.Sin(oe.ArgumentPeriapsis)

	// Rotation matrix elements
	r11 := cosO*cosW - sinO*sinW*cosI
	r12 := -cosO*sinW - sinO*cosW*cosI
	r21 := sinO*cosW + cosO*sinW*cosI
	r22 := -sinO*sinW + cosO*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	return StateVector{
		Position: astromath.Vector3{X: r11*x + r12*y, Y: r21*x + r22*y, Z: r31*x + r32*y},
		Velocity: astromath.Vector3{X: r11*vx + r12*vy, Y: r21*vx + r22*vy, Z: r31*vx + r32*vy},
	}
}

// SolveKepler solves M = E − e·sin(E) for E by Newton-Raphson.
func SolveKepler(m, e float64) float64 {
	E := m
	if e > 0.8 {
		E = math.Pi // Better initial guess for high eccentricity
	}

	for i := 0; i < keplerMaxIterations; i++ {
		f := E - e*math.Sin(E) - m
		fp := 1 - e*math.Cos(E)

		dE := f / fp
		E -= dE
		if math.Abs(dE) < 1e-10 {
			break
		}
	}
	return E
}

// Periapsis returns the closest-approach distance
func (oe OrbitalElements) Periapsis() float64 {
	return oe.SemiMajorAxis * (1 - oe.Eccentricity)
}

// Apoapsis returns the farthest distance
func (oe OrbitalElements) Apoapsis() float64 {
	return oe.SemiMajorAxis * (1 + oe.Eccentricity)
}

// Period returns the orbital period in years for mu in AU³/yr²
func (oe OrbitalElements) Period(mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(oe.SemiMajorAxis, 3)/mu)
}

// CartesianToOrbital derives osculating elements from a state vector.
//
// For unbound states the semi-major axis is negative and the eccentricity is
// ≥ 1; the angle elements are still reported but the mean anomaly is zero.
func CartesianToOrbital(pos, vel astromath.Vector3, mu float64) OrbitalElements {
	h := pos.Cross(vel)
	r := pos.Magnitude()
	v := vel.Magnitude()

	// Eccentricity vector
	eVec := vel.Cross(h).Scale(1.0 / mu).Sub(pos.Scale(1.0 / r))
	e := eVec.Magnitude()

	a := 1.0 / (2.0/r - v*v/mu)

	i := 0.0
	if hm := h.Magnitude(); hm > 0 {
		i = math.Acos(h.Z / hm)
	}

	// Longitude of ascending node
	n := astromath.Vector3{Z: 1}.Cross(h)
	omegaNode := 0.0
	if n.Magnitude() > 1e-10 {
		omegaNode = math.Atan2(n.Y, n.X)
		if omegaNode < 0 {
			omegaNode += 2 * math.Pi
		}
	}

	// Argument of periapsis
	omega := 0.0
	if n.Magnitude() > 1e-10 && e > 1e-10 {
		cosOmega := n.Dot(eVec) / (n.Magnitude() * e)
		if math.Abs(cosOmega) <= 1.0 {
			omega = math.Acos(cosOmega)
			if eVec.Z < 0 {
				omega = 2*math.Pi - omega
			}
		}
	}

	M := 0.0
	if e < 1 && e > 1e-10 {
		cosE := (1 - r/a) / e
		if math.Abs(cosE) <= 1.0 {
			E := math.Acos(cosE)
			if pos.Dot(vel) < 0 {
				E = 2*math.Pi - E
			}
			M = E - e*math.Sin(E)
		}
	}

	return OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: omegaNode,
		ArgumentPeriapsis:      omega,
		MeanAnomaly:            M,
	}
}
