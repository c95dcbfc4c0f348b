package propagation

import (
	"math"
	"testing"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

func sirius() types.StarRecord {
	return types.StarRecord{
		Name:           "Sirius",
		RA:             types.Float(101.287155),
		Dec:            types.Float(-16.716116),
		Parallax:       types.Float(379.21),
		PMRA:           types.Float(-546.01),
		PMDec:          types.Float(-1223.07),
		RadialVelocity: types.Float(-7.6),
	}
}

func binary() types.StarRecord {
	return types.StarRecord{
		Name:     "test binary",
		RA:       types.Float(45),
		Dec:      types.Float(30),
		Parallax: types.Float(100),
		PMRA:     types.Float(0),
		PMDec:    types.Float(0),
		Orbit:    &types.BinaryOrbit{PeriodYears: 50, Eccentricity: 0.5, InclinationDeg: 45},
	}
}

func TestTimeGrid(t *testing.T) {
	times := TimeGrid(100, 50)
	if len(times) != 51 {
		t.Fatalf("len = %d, want 51", len(times))
	}
	if times[0] != 0 || times[50] != 100 {
		t.Errorf("endpoints = %v, %v", times[0], times[50])
	}
	for i := 1; i < len(times); i++ {
		if dt := times[i] - times[i-1]; math.Abs(dt-2) > 1e-12 {
			t.Errorf("step %d spacing = %v, want 2", i, dt)
		}
	}
}

func TestKinematicSirius(t *testing.T) {
	points, stats := Kinematic{}.Propagate(sirius(), TimeGrid(100, 50))

	if len(points) != 51 {
		t.Fatalf("got %d points", len(points))
	}
	if math.Abs(points[0].RA-101.287155) > 1e-9 {
		t.Errorf("points[0].RA = %v", points[0].RA)
	}
	if points[50].Time != 100.0 {
		t.Errorf("points[50].Time = %v", points[50].Time)
	}
	if math.Abs(points[0].DistanceLy-8.60) > 0.01 {
		t.Errorf("distance = %v ly, want 8.60", points[0].DistanceLy)
	}
	if points[0].AngularSeparationArcsec != 0 {
		t.Errorf("separation at t=0 = %v", points[0].AngularSeparationArcsec)
	}
	if math.Abs(points[0].TangentialVelocityKmS-16.74) > 0.1 {
		t.Errorf("tangential velocity = %v km/s", points[0].TangentialVelocityKmS)
	}
	for i := 1; i < len(points); i++ {
		if points[i].DistanceLy >= points[i-1].DistanceLy {
			t.Fatalf("distance not decreasing at step %d: %v >= %v", i, points[i].DistanceLy, points[i-1].DistanceLy)
		}
	}
	// RA advances by the raw rate, without cos δ
	wantRA := 101.287155 - 546.01*100/3.6e6
	if math.Abs(points[50].RA-wantRA) > 1e-9 {
		t.Errorf("points[50].RA = %v, want %v", points[50].RA, wantRA)
	}
	if stats != (Stats{}) {
		t.Errorf("kinematic stats = %+v", stats)
	}
	for i, p := range points {
		if !p.IsFinite() {
			t.Fatalf("point %d not finite: %+v", i, p)
		}
	}
}

func TestDynamicalSirius(t *testing.T) {
	star := sirius()
	points, stats := Dynamical{}.Propagate(star, TimeGrid(100, 50))

	if math.Abs(points[0].RA-101.287155) > 1e-9 || math.Abs(points[0].Dec+16.716116) > 1e-9 {
		t.Errorf("t=0 position = (%v, %v)", points[0].RA, points[0].Dec)
	}
	if math.Abs(points[0].RadialVelocityKmS+7.6) > 1e-6 {
		t.Errorf("radial velocity = %v", points[0].RadialVelocityKmS)
	}

	kin, _ := Kinematic{}.Propagate(star, TimeGrid(100, 50))
	if d := math.Abs(points[0].TangentialVelocityKmS - kin[0].TangentialVelocityKmS); d > 1e-6 {
		t.Errorf("tangential velocity differs from kinematic by %v", d)
	}

	// total proper motion over a century
	want := math.Hypot(546.01, 1223.07) * 100 / 1000
	if d := math.Abs(points[50].AngularSeparationArcsec - want); d > 0.5 {
		t.Errorf("separation after 100 yr = %v arcsec, want %v", points[50].AngularSeparationArcsec, want)
	}
	if d := math.Abs(points[50].Dec-kin[50].Dec) * units.ArcsecPerDegree; d > 0.5 {
		t.Errorf("dec differs from kinematic by %v arcsec", d)
	}

	if stats.DriftSteps != 50 || stats.KeplerSteps != 0 {
		t.Errorf("unbound star stats = %+v, want 50 drift steps", stats)
	}
}

func TestDynamicalBoundStarUsesKepler(t *testing.T) {
	// a body 1 AU from the origin moving at the circular speed of 2π AU/yr
	star := types.StarRecord{
		RA:       types.Float(0),
		Dec:      types.Float(0),
		Parallax: types.Float(1000 * units.AUPerParsec),
		PMRA:     types.Float(2 * math.Pi / units.MasToRad),
		PMDec:    types.Float(0),
	}

	points, stats := Dynamical{}.Propagate(star, TimeGrid(1, 4))

	if stats.KeplerSteps != 4 || stats.DriftSteps != 0 || stats.Fallbacks != 0 {
		t.Fatalf("stats = %+v, want 4 Kepler steps", stats)
	}
	if math.Abs(points[1].RA-90) > 1e-6 {
		t.Errorf("quarter-period RA = %v, want 90", points[1].RA)
	}
	if points[4].AngularSeparationArcsec > 0.01 {
		t.Errorf("not back at start after one period: %v arcsec", points[4].AngularSeparationArcsec)
	}
}

func TestBinaryPeriodicity(t *testing.T) {
	for _, m := range []struct {
		name  string
		model Model
	}{
		{"standard", Kinematic{}},
		{"high fidelity", Dynamical{}},
	} {
		t.Run(m.name, func(t *testing.T) {
			points, _ := m.model.Propagate(binary(), TimeGrid(50, 10))
			first, last := points[0], points[10]

			if math.Abs(first.RA-last.RA) > 1e-9 || math.Abs(first.Dec-last.Dec) > 1e-9 {
				t.Errorf("t=0 (%v, %v) vs t=P (%v, %v)", first.RA, first.Dec, last.RA, last.Dec)
			}
			if math.Abs(first.DistanceLy-last.DistanceLy) > 1e-9 {
				t.Errorf("distance %v vs %v", first.DistanceLy, last.DistanceLy)
			}
			mid := points[5]
			if mid.RA == first.RA && mid.Dec == first.Dec {
				t.Error("binary did not move during its orbit")
			}
		})
	}
}

func TestBinaryAtPoleStaysFinite(t *testing.T) {
	star := binary()
	star.Dec = types.Float(90)

	for _, m := range []Model{Kinematic{}, Dynamical{}} {
		points, _ := m.Propagate(star, TimeGrid(20, 4))
		for i, p := range points {
			if !p.IsFinite() {
				t.Fatalf("%T point %d not finite: %+v", m, i, p)
			}
			if p.RA < 0 || p.RA >= 360 {
				t.Errorf("%T point %d RA %v outside [0,360)", m, i, p.RA)
			}
		}
	}
}

func TestForMode(t *testing.T) {
	if _, ok := ForMode(types.ModeStandard).(Kinematic); !ok {
		t.Error("standard mode should be kinematic")
	}
	if _, ok := ForMode(types.ModeHighFidelity).(Dynamical); !ok {
		t.Error("high fidelity mode should be dynamical")
	}
}
