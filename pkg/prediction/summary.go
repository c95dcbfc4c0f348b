package prediction

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
)

// Summarize aggregates a prediction series. Axis displacements are the
// coordinate differences between the first and last point in arcsec; the
// RA difference takes the short way around the 0/360 boundary.
func Summarize(points []types.PredictionPoint) types.Summary {
	if len(points) == 0 {
		return types.Summary{}
	}
	first, last := points[0], points[len(points)-1]

	dRA := last.RA - first.RA
	switch {
	case dRA > 180:
		dRA -= 360
	case dRA < -180:
		dRA += 360
	}
	raDisp := dRA * units.ArcsecPerDegree
	decDisp := (last.Dec - first.Dec) * units.ArcsecPerDegree

	vt := make([]float64, len(points))
	for i, p := range points {
		vt[i] = p.TangentialVelocityKmS
	}

	return types.Summary{
		InitialRA:                    first.RA,
		InitialDec:                   first.Dec,
		FinalRA:                      last.RA,
		FinalDec:                     last.Dec,
		RADisplacementArcsec:         raDisp,
		DecDisplacementArcsec:        decDisp,
		TotalDisplacementArcsec:      floats.Norm([]float64{raDisp, decDisp}, 2),
		AverageTangentialVelocityKmS: stat.Mean(vt, nil),
		MaxTangentialVelocityKmS:     floats.Max(vt),
		InitialDistanceLy:            first.DistanceLy,
		FinalDistanceLy:              last.DistanceLy,
		DistanceChangeLy:             last.DistanceLy - first.DistanceLy,
	}
}

// SummaryText is the one-line description attached to a result
func SummaryText(name string, periodYears float64, steps int) string {
	if name == "" {
		name = "unnamed star"
	}
	return fmt.Sprintf("Orbital prediction for %s over %.1f years with %d time steps", name, periodYears, steps)
}
