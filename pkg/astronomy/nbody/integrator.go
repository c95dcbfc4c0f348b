package nbody

import (
	"fmt"
	"math"

	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
	"github.com/oxygene76/orbittracker/pkg/astronomy/orbital"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// minSeparation is the pair distance (AU) below which no force is applied.
const minSeparation = 1e-9

// Body represents a point mass in the N-body system
type Body struct {
	ID       string            `json:"id" yaml:"id"`
	Mass     float64           `json:"mass" yaml:"mass"`         // Mass in solar masses
	Position astromath.Vector3 `json:"position" yaml:"position"` // Position in AU
	Velocity astromath.Vector3 `json:"velocity" yaml:"velocity"` // Velocity in AU/yr
}

// State returns the body's position and velocity as a state vector
func (b Body) State() orbital.StateVector {
	return orbital.StateVector{Position: b.Position, Velocity: b.Velocity}
}

// System represents the N-body system
type System struct {
	Bodies []Body
	Time   float64 // Elapsed time in years
	G      float64 // Gravitational constant in AU³/(M☉·yr²)
}

// NewSystem creates an empty system in AU / yr / M☉ units
func NewSystem(bodies ...Body) *System {
	s := &System{
		Bodies: make([]Body, len(bodies)),
		G:      units.G,
	}
	copy(s.Bodies, bodies)
	return s
}

// Copy creates a deep copy of the system
func (s *System) Copy() *System {
	c := &System{
		Bodies: make([]Body, len(s.Bodies)),
		Time:   s.Time,
		G:      s.G,
	}
	copy(c.Bodies, s.Bodies)
	return c
}

// Integrate advances the system by steps fixed leapfrog steps of dt years,
// reporting every snapEvery-th state to sink (sink may be nil).
func (s *System) Integrate(dt float64, steps int, snapEvery int, sink SnapshotSink) error {
	if sink != nil {
		if err := sink.OnStart(steps, snapEvery); err != nil {
			return fmt.Errorf("snapshot start: %w", err)
		}
		if err := sink.OnSnapshot(s.Time, s.Bodies); err != nil {
			return fmt.Errorf("snapshot at t=%g: %w", s.Time, err)
		}
	}

	for step := 0; step < steps; step++ {
		s.LeapfrogStep(dt)

		if sink != nil && snapEvery > 0 && ((step+1)%snapEvery == 0 || step == steps-1) {
			if err := sink.OnSnapshot(s.Time, s.Bodies); err != nil {
				return fmt.Errorf("snapshot at t=%g: %w", s.Time, err)
			}
		}
	}

	if sink != nil {
		return sink.OnEnd(s.Time)
	}
	return nil
}

// LeapfrogStep performs one kick-drift-kick step
func (s *System) LeapfrogStep(dt float64) {
	acc := s.calculateAccelerations()

	// Update velocities by half step (kick)
	for i := range s.Bodies {
		s.Bodies[i].Velocity = s.Bodies[i].Velocity.Add(acc[i].Scale(dt * 0.5))
	}

	// Update positions by full step (drift)
	for i := range s.Bodies {
		s.Bodies[i].Position = s.Bodies[i].Position.Add(s.Bodies[i].Velocity.Scale(dt))
	}

	acc = s.calculateAccelerations()

	// Update velocities by second half step (kick)
	for i := range s.Bodies {
		s.Bodies[i].Velocity = s.Bodies[i].Velocity.Add(acc[i].Scale(dt * 0.5))
	}

	s.Time += dt
}

// calculateAccelerations computes a_i = G·Σ m_j (r_j − r_i)/|r_j − r_i|³.
// Massless bodies feel gravity but exert none.
func (s *System) calculateAccelerations() []astromath.Vector3 {
	n := len(s.Bodies)
	acc := make([]astromath.Vector3, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || s.Bodies[j].Mass == 0 {
				continue
			}
			acc[i] = acc[i].Add(s.gravitationalAcceleration(i, j))
		}
	}

	return acc
}

// gravitationalAcceleration calculates acceleration on body i due to body j
func (s *System) gravitationalAcceleration(i, j int) astromath.Vector3 {
	r := s.Bodies[j].Position.Sub(s.Bodies[i].Position)
	rMag := r.Magnitude()

	// Avoid singularity
	if rMag < minSeparation {
		return astromath.Vector3{}
	}

	return r.Scale(s.G * s.Bodies[j].Mass / (rMag * rMag * rMag))
}

// KineticEnergy returns Σ ½mv²
func (s *System) KineticEnergy() float64 {
	energy := 0.0
	for _, body := range s.Bodies {
		energy += 0.5 * body.Mass * body.Velocity.MagnitudeSquared()
	}
	return energy
}

// PotentialEnergy returns the pairwise gravitational potential energy
func (s *System) PotentialEnergy() float64 {
	energy := 0.0
	n := len(s.Bodies)

	for i := 0; i < n-1; i++ {
		if s.Bodies[i].Mass == 0 {
			continue
		}
		for j := i + 1; j < n; j++ {
			if s.Bodies[j].Mass == 0 {
				continue
			}
			r := s.Bodies[i].Position.Distance(s.Bodies[j].Position)
			if r >= minSeparation {
				energy -= s.G * s.Bodies[i].Mass * s.Bodies[j].Mass / r
			}
		}
	}

	return energy
}

// TotalEnergy returns kinetic plus potential energy (conserved up to the
// leapfrog's bounded oscillation)
func (s *System) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

// AngularMomentum returns Σ m (r × v)
func (s *System) AngularMomentum() astromath.Vector3 {
	total := astromath.Vector3{}
	for _, body := range s.Bodies {
		total = total.Add(body.Position.Cross(body.Velocity).Scale(body.Mass))
	}
	return total
}

// RecenterToBarycenter shifts positions and velocities so the centre of mass
// is at rest at the origin.
func (s *System) RecenterToBarycenter() {
	var m float64
	var com, vcom astromath.Vector3
	for _, b := range s.Bodies {
		m += b.Mass
		com = com.Add(b.Position.Scale(b.Mass))
		vcom = vcom.Add(b.Velocity.Scale(b.Mass))
	}
	if m == 0 {
		return
	}
	com = com.Scale(1 / m)
	vcom = vcom.Scale(1 / m)
	for i := range s.Bodies {
		s.Bodies[i].Position = s.Bodies[i].Position.Sub(com)
		s.Bodies[i].Velocity = s.Bodies[i].Velocity.Sub(vcom)
	}
}

// IntegrateStates advances N mutually gravitating point masses by steps fixed
// leapfrog steps of dt years and returns their final states in input order.
func IntegrateStates(states []orbital.StateVector, masses []float64, dt float64, steps int) ([]orbital.StateVector, error) {
	if len(states) != len(masses) {
		return nil, fmt.Errorf("got %d states but %d masses", len(states), len(masses))
	}
	if steps < 0 {
		return nil, fmt.Errorf("step count must be non-negative, got %d", steps)
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("time step must be finite, got %v", dt)
	}
	for i, m := range masses {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("mass %d must be finite and non-negative, got %v", i, m)
		}
	}

	sys := NewSystem()
	for i, st := range states {
		sys.Bodies = append(sys.Bodies, Body{
			ID:       fmt.Sprintf("body_%d", i),
			Mass:     masses[i],
			Position: st.Position,
			Velocity: st.Velocity,
		})
	}

	for k := 0; k < steps; k++ {
		sys.LeapfrogStep(dt)
	}

	out := make([]orbital.StateVector, len(sys.Bodies))
	for i, b := range sys.Bodies {
		out[i] = b.State()
	}
	return out, nil
}
