package prediction

import (
	"github.com/oxygene76/orbittracker/internal/types"
)

const (
	DefaultTimePeriodYears = 100.0
	DefaultTimeSteps       = 50
	MaxTimeSteps           = 100000
)

// Options controls a single prediction
type Options struct {
	TimePeriodYears float64    `json:"timePeriodYears" validate:"gt=0"`
	TimeSteps       int        `json:"timeSteps" validate:"gte=1,lte=100000"`
	Mode            types.Mode `json:"mode" validate:"omitempty,oneof=high_fidelity standard"`

	// SkipUncertainty disables the Monte Carlo phase
	SkipUncertainty bool `json:"skipUncertainty,omitempty"`
}

// DefaultOptions returns a 100 year, 50 step high-fidelity prediction
func DefaultOptions() Options {
	return Options{
		TimePeriodYears: DefaultTimePeriodYears,
		TimeSteps:       DefaultTimeSteps,
		Mode:            types.ModeHighFidelity,
	}
}

// withDefaults fills zero values; negative values are left for validation
func (o Options) withDefaults() Options {
	if o.TimePeriodYears == 0 {
		o.TimePeriodYears = DefaultTimePeriodYears
	}
	if o.TimeSteps == 0 {
		o.TimeSteps = DefaultTimeSteps
	}
	if o.Mode == "" {
		o.Mode = types.ModeHighFidelity
	}
	return o
}
