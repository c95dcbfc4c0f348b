package prediction

import (
	"math"

	errorsmod "cosmossdk.io/errors"
	"github.com/go-playground/validator/v10"

	"github.com/oxygene76/orbittracker/internal/types"
)

var validate = validator.New()

// ValidateStar checks that star can be propagated
func ValidateStar(star types.StarRecord) error {
	if star.RA == nil {
		return errorsmod.Wrap(types.ErrValidation, "ra is required")
	}
	if !finite(*star.RA) {
		return errorsmod.Wrapf(types.ErrValidation, "invalid ra: %v", *star.RA)
	}
	if star.Dec == nil {
		return errorsmod.Wrap(types.ErrValidation, "dec is required")
	}
	if !finite(*star.Dec) || math.Abs(*star.Dec) > 90 {
		return errorsmod.Wrapf(types.ErrValidation, "invalid dec: %v", *star.Dec)
	}
	if star.Parallax == nil {
		return errorsmod.Wrap(types.ErrValidation, "parallax is required")
	}
	if !finite(*star.Parallax) || *star.Parallax <= 0 {
		return errorsmod.Wrapf(types.ErrValidation, "parallax must be positive, got %v", *star.Parallax)
	}
	if star.PMRA == nil || star.PMDec == nil {
		return errorsmod.Wrap(types.ErrValidation, "both proper motion components are required")
	}
	if !finite(*star.PMRA) || !finite(*star.PMDec) {
		return errorsmod.Wrapf(types.ErrValidation, "invalid proper motion (%v, %v)", *star.PMRA, *star.PMDec)
	}
	if star.RadialVelocity != nil && !finite(*star.RadialVelocity) {
		return errorsmod.Wrapf(types.ErrValidation, "invalid radial velocity: %v", *star.RadialVelocity)
	}

	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"parallax", star.ParallaxError},
		{"pmra", star.PMRAError},
		{"pmdec", star.PMDecError},
		{"radial velocity", star.RadialVelocityError},
	} {
		if f.v != nil && (!finite(*f.v) || *f.v < 0) {
			return errorsmod.Wrapf(types.ErrValidation, "invalid %s error: %v", f.name, *f.v)
		}
	}

	if o := star.Orbit; o != nil {
		if !finite(o.PeriodYears) || o.PeriodYears <= 0 {
			return errorsmod.Wrapf(types.ErrValidation, "orbital period must be positive, got %v", o.PeriodYears)
		}
		if !finite(o.Eccentricity) || o.Eccentricity < 0 || o.Eccentricity >= 1 {
			return errorsmod.Wrapf(types.ErrValidation, "eccentricity must be in [0, 1), got %v", o.Eccentricity)
		}
		if !finite(o.InclinationDeg) {
			return errorsmod.Wrapf(types.ErrValidation, "invalid inclination: %v", o.InclinationDeg)
		}
	}

	return nil
}

// ValidateOptions checks prediction options after defaults are applied
func ValidateOptions(opts Options) error {
	if !finite(opts.TimePeriodYears) {
		return errorsmod.Wrapf(types.ErrValidation, "invalid time period: %v", opts.TimePeriodYears)
	}
	if err := validate.Struct(opts); err != nil {
		return errorsmod.Wrap(types.ErrValidation, err.Error())
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
