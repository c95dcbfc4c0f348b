package uncertainty

import (
	"math"

	"github.com/oxygene76/orbittracker/internal/types"
)

// Heuristic error floors used when a catalog omits a measurement error
const (
	parallaxErrorFraction = 0.05
	parallaxErrorFloor    = 0.01 // mas
	pmErrorFraction       = 0.05
	pmErrorFloor          = 0.1 // mas/yr
	rvErrorFraction       = 0.10
	rvErrorFloor          = 0.5 // km/s
)

// ErrorBudget is the 1σ error applied to each perturbed input
type ErrorBudget struct {
	Parallax float64 `json:"parallaxError"`
	PMRA     float64 `json:"pmraError"`
	PMDec    float64 `json:"pmdecError"`

	// RadialVelocity is nil when the star has no radial velocity
	RadialVelocity *float64 `json:"radialVelocityError,omitempty"`

	// Estimated is set when any value came from the heuristics
	Estimated bool `json:"estimated"`
}

// IsZero reports whether the budget perturbs nothing
func (b ErrorBudget) IsZero() bool {
	return b.Parallax == 0 && b.PMRA == 0 && b.PMDec == 0 &&
		(b.RadialVelocity == nil || *b.RadialVelocity == 0)
}

// EstimateErrors builds the error budget for star. Catalog errors are used
// as given; missing ones are estimated when estimate is true and left at
// zero otherwise. A radial-velocity error is never estimated for a star
// without a radial velocity.
func EstimateErrors(star types.StarRecord, estimate bool) ErrorBudget {
	var b ErrorBudget

	pick := func(given *float64, value *float64, frac, floor float64) float64 {
		if given != nil {
			return math.Abs(*given)
		}
		if !estimate || value == nil {
			return 0
		}
		b.Estimated = true
		return math.Max(frac*math.Abs(*value), floor)
	}

	b.Parallax = pick(star.ParallaxError, star.Parallax, parallaxErrorFraction, parallaxErrorFloor)
	b.PMRA = pick(star.PMRAError, star.PMRA, pmErrorFraction, pmErrorFloor)
	b.PMDec = pick(star.PMDecError, star.PMDec, pmErrorFraction, pmErrorFloor)

	if star.RadialVelocity != nil {
		rv := pick(star.RadialVelocityError, star.RadialVelocity, rvErrorFraction, rvErrorFloor)
		b.RadialVelocity = &rv
	}

	return b
}
