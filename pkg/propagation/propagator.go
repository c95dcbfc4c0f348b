// Package propagation advances a star's catalog state along a time grid.
//
// Two models are provided. Kinematic is the standard model: angles and
// distance move linearly with proper motion and radial velocity. Dynamical is
// the high-fidelity model: the star is placed in a Cartesian frame around one
// solar mass and stepped with the universal-variable Kepler solver while
// bound, or by linear drift otherwise.
package propagation

import (
	"math"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/coords"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// minCosDec keeps RA offsets finite at the celestial poles
const minCosDec = 1e-9

// Stats counts how each step of a run was advanced
type Stats struct {
	KeplerSteps int `json:"keplerSteps"`
	DriftSteps  int `json:"driftSteps"`
	Fallbacks   int `json:"fallbacks"` // Kepler steps that degraded to drift
}

// Model propagates a validated star over a time grid. Implementations must be
// safe for concurrent use.
type Model interface {
	Propagate(star types.StarRecord, times []float64) ([]types.PredictionPoint, Stats)
}

// TimeGrid returns steps+1 uniformly spaced times covering [0, periodYears].
// The last entry equals periodYears exactly.
func TimeGrid(periodYears float64, steps int) []float64 {
	if steps < 1 {
		return []float64{0}
	}
	times := make([]float64, steps+1)
	for i := range times {
		times[i] = periodYears * float64(i) / float64(steps)
	}
	return times
}

// ForMode returns the model for a propagation mode
func ForMode(mode types.Mode) Model {
	if mode == types.ModeStandard {
		return Kinematic{}
	}
	return Dynamical{}
}

// catalogPosition returns the reference RA/Dec; callers validate first
func catalogPosition(star types.StarRecord) (ra, dec float64) {
	return *star.RA, *star.Dec
}

func properMotionRad(star types.StarRecord) (pmra, pmdec float64) {
	return *star.PMRA * units.MasToRad, *star.PMDec * units.MasToRad
}

// finishPoint fills the derived angular fields of p
func finishPoint(p *types.PredictionPoint, ra0, dec0 float64) {
	p.RA = coords.NormalizeRA(p.RA)
	p.AngularSeparationArcsec = coords.AngularSeparation(ra0, dec0, p.RA, p.Dec) * units.ArcsecPerDegree
	p.GalacticL, p.GalacticB = coords.EquatorialToGalactic(p.RA, p.Dec)
	p.TotalVelocityKmS = math.Hypot(p.TangentialVelocityKmS, p.RadialVelocityKmS)
}

func cosSin(x float64) (float64, float64) {
	s, c := math.Sincos(x)
	return c, s
}
