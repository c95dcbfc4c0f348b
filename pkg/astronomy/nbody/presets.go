package nbody

import (
	"fmt"
	"math"
	"sort"

	"github.com/oxygene76/orbittracker/pkg/astronomy/orbital"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// planet is a heliocentric body given by J2000 elements (angles in degrees)
type planet struct {
	name                 string
	mass                 float64
	a, e, i, node, w, m0 float64
}

var giantPlanets = []planet{
	{"Jupiter", 0.0009545942, 5.2038, 0.0489, 1.303, 100.464, 273.867, 20.020},
	{"Saturn", 0.0002857214, 9.5826, 0.0565, 2.485, 113.665, 339.392, 317.020},
	{"Uranus", 0.00004365785, 19.2012, 0.0469, 0.773, 74.006, 96.998, 142.238},
	{"Neptune", 0.00005149497, 30.0479, 0.0087, 1.767, 131.783, 276.336, 256.228},
}

var presets = map[string]func() []Body{
	"outer-planets": outerPlanets,
	"sun-earth":     sunEarthPair,
	"alpha-cen-ab":  alphaCenAB,
}

// PresetNames lists the built-in systems
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns the bodies of a built-in system, recentered on its barycentre
func Preset(name string) ([]Body, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	sys := NewSystem(build()...)
	sys.RecenterToBarycenter()
	return sys.Bodies, nil
}

// outerPlanets is the Sun and the four giant planets
func outerPlanets() []Body {
	bodies := []Body{{ID: "Sun", Mass: 1}}
	for _, p := range giantPlanets {
		oe := orbital.OrbitalElements{
			SemiMajorAxis:          p.a,
			Eccentricity:           p.e,
			Inclination:            units.DegToRad(p.i),
			LongitudeAscendingNode: units.DegToRad(p.node),
			ArgumentPeriapsis:      units.DegToRad(p.w),
			MeanAnomaly:            units.DegToRad(p.m0),
		}
		s := oe.ToState(units.MuSun * (1 + p.mass))
		bodies = append(bodies, Body{ID: p.name, Mass: p.mass, Position: s.Position, Velocity: s.Velocity})
	}
	return bodies
}

func sunEarthPair() []Body {
	oe := orbital.OrbitalElements{SemiMajorAxis: 1.00000011, Eccentricity: 0.01671022}
	s := oe.ToState(units.MuSun * (1 + 3.003e-6))
	return []Body{
		{ID: "Sun", Mass: 1},
		{ID: "Earth", Mass: 3.003e-6, Position: s.Position, Velocity: s.Velocity},
	}
}

// alphaCenAB is the α Centauri A/B pair (P ≈ 79.9 yr, e = 0.52) with
// B started at periastron.
func alphaCenAB() []Body {
	const mA, mB = 1.0788, 0.9092
	mu := units.G * (mA + mB)
	a := math.Cbrt(mu * 79.91 * 79.91 / (4 * math.Pi * math.Pi))
	rel := orbital.OrbitalElements{SemiMajorAxis: a, Eccentricity: 0.5208, Inclination: units.DegToRad(79.32)}.ToState(mu)
	return []Body{
		{ID: "alpha Cen A", Mass: mA},
		{ID: "alpha Cen B", Mass: mB, Position: rel.Position, Velocity: rel.Velocity},
	}
}
