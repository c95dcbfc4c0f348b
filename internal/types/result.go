package types

import (
	"math"
	"time"
)

// Mode selects the propagation model
type Mode string

const (
	ModeHighFidelity Mode = "high_fidelity"
	ModeStandard     Mode = "standard"
)

// PredictionPoint is the star's predicted state at one time step
type PredictionPoint struct {
	Time                    float64 `json:"time"` // years since the reference epoch
	RA                      float64 `json:"ra"`
	Dec                     float64 `json:"dec"`
	DistanceLy              float64 `json:"distanceLy"`
	TangentialVelocityKmS   float64 `json:"tangentialVelocityKmS"`
	RadialVelocityKmS       float64 `json:"radialVelocityKmS"`
	TotalVelocityKmS        float64 `json:"totalVelocityKmS"`
	AngularSeparationArcsec float64 `json:"angularSeparationArcsec"`
	GalacticL               float64 `json:"galacticL"`
	GalacticB               float64 `json:"galacticB"`
}

// IsFinite reports whether every numeric field is free of NaN/Inf
func (p PredictionPoint) IsFinite() bool {
	for _, v := range []float64{
		p.Time, p.RA, p.Dec, p.DistanceLy,
		p.TangentialVelocityKmS, p.RadialVelocityKmS, p.TotalVelocityKmS,
		p.AngularSeparationArcsec, p.GalacticL, p.GalacticB,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Percentiles is a 16/50/84 percentile spread
type Percentiles struct {
	P16 float64 `json:"p16"`
	P50 float64 `json:"p50"`
	P84 float64 `json:"p84"`
}

// UncertaintyBand holds the Monte Carlo spread at one time step.
// Separation is measured from the nominal point at the same time, in arcsec.
type UncertaintyBand struct {
	Time       float64     `json:"time"`
	RA         Percentiles `json:"ra"`
	Dec        Percentiles `json:"dec"`
	Separation Percentiles `json:"separationArcsec"`
}

// Summary aggregates a prediction series
type Summary struct {
	InitialRA                    float64 `json:"initialRA"`
	InitialDec                   float64 `json:"initialDec"`
	FinalRA                      float64 `json:"finalRA"`
	FinalDec                     float64 `json:"finalDec"`
	TotalDisplacementArcsec      float64 `json:"totalDisplacementArcsec"`
	RADisplacementArcsec         float64 `json:"raDisplacementArcsec"`
	DecDisplacementArcsec        float64 `json:"decDisplacementArcsec"`
	AverageTangentialVelocityKmS float64 `json:"averageTangentialVelocityKmS"`
	MaxTangentialVelocityKmS     float64 `json:"maxTangentialVelocityKmS"`
	InitialDistanceLy            float64 `json:"initialDistanceLy"`
	FinalDistanceLy              float64 `json:"finalDistanceLy"`
	DistanceChangeLy             float64 `json:"distanceChangeLy"`
}

// Diagnostics reports how a prediction was produced
type Diagnostics struct {
	Mode Mode `json:"mode"`

	// EpochMismatchArcsec is the separation between the catalog position
	// and the synthesized point at t=0.
	EpochMismatchArcsec float64 `json:"epochMismatchArcsec"`
	FallbackToStandard  bool    `json:"fallbackToStandard,omitempty"`

	KeplerSteps     int `json:"keplerSteps"`
	DriftSteps      int `json:"driftSteps"`
	KeplerFallbacks int `json:"keplerFallbacks"`

	SpecificEnergy            float64 `json:"specificEnergy,omitempty"`
	Bound                     bool    `json:"bound"`
	OsculatingSemiMajorAxisAU float64 `json:"osculatingSemiMajorAxisAU,omitempty"`
	OsculatingEccentricity    float64 `json:"osculatingEccentricity,omitempty"`

	SamplesRequested int  `json:"samplesRequested"`
	SamplesUsed      int  `json:"samplesUsed"`
	SamplesDropped   int  `json:"samplesDropped"`
	ErrorsEstimated  bool `json:"errorsEstimated"`

	Duration time.Duration `json:"duration"`
}

// PredictionResult is the complete output of one prediction
type PredictionResult struct {
	ID              string            `json:"id"`
	Star            StarRecord        `json:"star"`
	Mode            Mode              `json:"mode"`
	TimePeriodYears float64           `json:"timePeriodYears"`
	TimeSteps       int               `json:"timeSteps"`
	Predictions     []PredictionPoint `json:"predictions"`
	Uncertainty     []UncertaintyBand `json:"uncertainty,omitempty"`
	Summary         Summary           `json:"summary"`
	SummaryText     string            `json:"summaryText"`
	Diagnostics     Diagnostics       `json:"diagnostics"`
	CreatedAt       time.Time         `json:"createdAt"`
}
