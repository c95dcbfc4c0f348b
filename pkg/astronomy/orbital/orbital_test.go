package orbital

import (
	"math"
	"testing"

	astromath "github.com/oxygene76/orbittracker/pkg/astronomy/math"
)

const mu = 4 * math.Pi * math.Pi

func circularOrbit() StateVector {
	// 1 AU circular orbit about one solar mass: v = 2π AU/yr, period 1 yr
	return StateVector{
		Position: astromath.Vector3{X: 1},
		Velocity: astromath.Vector3{Y: 2 * math.Pi},
	}
}

func TestStumpffSeriesContinuity(t *testing.T) {
	// the series branch and the closed forms must agree across the switch
	for _, z := range []float64{1.01e-8, -1.01e-8, 1e-6, -1e-6} {
		series := 1.0/2.0 - z/24.0 + z*z/720.0
		if d := math.Abs(StumpffC(z) - series); d > 1e-7 {
			t.Errorf("C(%v) off the series by %v", z, d)
		}
		seriesS := 1.0/6.0 - z/120.0 + z*z/5040.0
		if d := math.Abs(StumpffS(z) - seriesS); d > 1e-7 {
			t.Errorf("S(%v) off the series by %v", z, d)
		}
	}
	if StumpffC(0) != 0.5 || StumpffS(0) != 1.0/6.0 {
		t.Errorf("C(0)=%v S(0)=%v", StumpffC(0), StumpffS(0))
	}
}

func TestPropagateUniversalCircularPeriodicity(t *testing.T) {
	s0 := circularOrbit()

	tests := []struct {
		name  string
		steps int
	}{
		{"one step", 1},
		{"fifty steps", 50},
		{"odd step count", 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt := 1.0 / float64(tt.steps)
			s := s0
			for i := 0; i < tt.steps; i++ {
				var ok bool
				s, ok = PropagateUniversal(s, mu, dt)
				if !ok {
					t.Fatalf("step %d fell back to drift", i)
				}
			}
			if d := s.Position.Distance(s0.Position); d > 1e-6 {
				t.Errorf("position error after one period = %v AU", d)
			}
			if d := s.Velocity.Distance(s0.Velocity); d > 1e-6 {
				t.Errorf("velocity error after one period = %v AU/yr", d)
			}
		})
	}
}

func TestPropagateUniversalQuarterOrbit(t *testing.T) {
	s, ok := PropagateUniversal(circularOrbit(), mu, 0.25)
	if !ok {
		t.Fatal("solver fell back to drift")
	}
	want := astromath.Vector3{Y: 1}
	if d := s.Position.Distance(want); d > 1e-9 {
		t.Errorf("quarter orbit position = %+v, want %+v", s.Position, want)
	}
}

func TestPropagateUniversalEccentricEnergy(t *testing.T) {
	oe := OrbitalElements{SemiMajorAxis: 2.5, Eccentricity: 0.6, Inclination: 0.3, MeanAnomaly: 1.2}
	s0 := oe.ToState(mu)
	e0 := s0.SpecificEnergy(mu)
	h0 := s0.Position.Cross(s0.Velocity)

	s, ok := PropagateUniversal(s0, mu, 1.7)
	if !ok {
		t.Fatal("solver fell back to drift")
	}
	if d := math.Abs(s.SpecificEnergy(mu) - e0); d > 1e-9 {
		t.Errorf("energy drift %v", d)
	}
	if d := s.Position.Cross(s.Velocity).Distance(h0); d > 1e-9 {
		t.Errorf("angular momentum drift %v", d)
	}

	// full period returns to start
	s, _ = PropagateUniversal(s0, mu, oe.Period(mu))
	if d := s.Position.Distance(s0.Position); d > 1e-6 {
		t.Errorf("position after one period off by %v", d)
	}
}

func TestPropagateUniversalHyperbolic(t *testing.T) {
	s0 := StateVector{
		Position: astromath.Vector3{X: 1},
		Velocity: astromath.Vector3{Y: 3 * math.Pi}, // above escape speed 2√2π
	}
	if s0.IsBound(mu) {
		t.Fatal("test state should be unbound")
	}
	s, ok := PropagateUniversal(s0, mu, 0.5)
	if !ok {
		t.Fatal("hyperbolic propagation fell back to drift")
	}
	if d := math.Abs(s.SpecificEnergy(mu) - s0.SpecificEnergy(mu)); d > 1e-8 {
		t.Errorf("energy drift on hyperbola %v", d)
	}
}

func TestPropagateUniversalDegenerate(t *testing.T) {
	tests := []struct {
		name string
		s    StateVector
		dt   float64
	}{
		{"origin", StateVector{Velocity: astromath.Vector3{X: 1}}, 2},
		{"nan position", StateVector{Position: astromath.Vector3{X: math.NaN()}}, 1},
		{"inf dt", circularOrbit(), math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := PropagateUniversal(tt.s, mu, tt.dt)
			if ok {
				t.Error("degenerate input reported as converged")
			}
		})
	}

	s, ok := PropagateUniversal(StateVector{Velocity: astromath.Vector3{X: 1}}, mu, 2)
	if ok || s.Position != (astromath.Vector3{X: 2}) {
		t.Errorf("origin fallback = %+v, want linear drift to x=2", s.Position)
	}
}

func TestStateVectorEnergyBranch(t *testing.T) {
	c := circularOrbit()
	if !c.IsBound(mu) {
		t.Error("circular orbit not bound")
	}
	escape := StateVector{Position: astromath.Vector3{X: 1}, Velocity: astromath.Vector3{Y: math.Sqrt(2*mu) * (1 + 1e-12)}}
	if escape.IsBound(mu) {
		t.Error("escape-speed state reported bound")
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.5, 0.9, 0.99} {
		for _, m := range []float64{0.1, 1, 3, 5.5} {
			E := SolveKepler(m, e)
			if res := E - e*math.Sin(E) - m; math.Abs(res) > 1e-9 {
				t.Errorf("e=%v M=%v residual %v", e, m, res)
			}
		}
	}
}

func TestCartesianToOrbitalRoundTrip(t *testing.T) {
	oe := OrbitalElements{
		SemiMajorAxis:          5.2038,
		Eccentricity:           0.0489,
		Inclination:            1.303 * math.Pi / 180,
		LongitudeAscendingNode: 100.464 * math.Pi / 180,
		ArgumentPeriapsis:      273.867 * math.Pi / 180,
		MeanAnomaly:            20.020 * math.Pi / 180,
	}
	s := oe.ToState(mu)
	got := CartesianToOrbital(s.Position, s.Velocity, mu)

	if math.Abs(got.SemiMajorAxis-oe.SemiMajorAxis) > 1e-9 {
		t.Errorf("a = %v, want %v", got.SemiMajorAxis, oe.SemiMajorAxis)
	}
	if math.Abs(got.Eccentricity-oe.Eccentricity) > 1e-9 {
		t.Errorf("e = %v, want %v", got.Eccentricity, oe.Eccentricity)
	}
	if math.Abs(got.Inclination-oe.Inclination) > 1e-9 {
		t.Errorf("i = %v, want %v", got.Inclination, oe.Inclination)
	}
	if math.Abs(got.MeanAnomaly-oe.MeanAnomaly) > 1e-7 {
		t.Errorf("M = %v, want %v", got.MeanAnomaly, oe.MeanAnomaly)
	}
}

func TestBinaryOffsetPeriodicity(t *testing.T) {
	b := BinaryOrbit{PeriodYears: 50, Eccentricity: 0.5, InclinationDeg: 45}
	start := b.Offset(0)
	end := b.Offset(50)

	if math.Abs(start.X-end.X) > 1e-9 || math.Abs(start.Y-end.Y) > 1e-9 {
		t.Errorf("offset after one period (%v, %v) != start (%v, %v)", end.X, end.Y, start.X, start.Y)
	}

	// periastron at t=0: r = a(1-e)
	a := SemiMajorAxisAU(50)
	if math.Abs(start.Radius-a*0.5) > 1e-9 {
		t.Errorf("periastron radius = %v, want %v", start.Radius, a*0.5)
	}
}

func TestApproxEccentricAnomalyIsSinglePass(t *testing.T) {
	m, e := 1.0, 0.5
	got := ApproxEccentricAnomaly(m, e)
	if want := m + e*math.Sin(m); got != want {
		t.Errorf("E = %v, want single-pass %v", got, want)
	}
	// and therefore differs from the converged solution
	if math.Abs(got-SolveKepler(m, e)) < 1e-3 {
		t.Error("approximation unexpectedly matches converged solve")
	}
}

func TestMeanAnomalyWraps(t *testing.T) {
	if got := MeanAnomaly(75, 50); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("M(75, 50) = %v, want π", got)
	}
	if got := MeanAnomaly(-12.5, 50); math.Abs(got-1.5*math.Pi) > 1e-12 {
		t.Errorf("M(-12.5, 50) = %v, want 1.5π", got)
	}
}
