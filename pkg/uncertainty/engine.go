// Package uncertainty propagates astrometric measurement errors through the
// standard kinematic model by Monte Carlo resampling.
package uncertainty

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/coords"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
	"github.com/oxygene76/orbittracker/pkg/propagation"
)

const (
	DefaultSamples = 200
	DefaultSeed    = 42
)

// Engine runs the Monte Carlo error propagation. The zero value is not
// usable; start from NewEngine.
type Engine struct {
	Samples int
	Seed    int64

	// Workers bounds the number of samples propagated concurrently.
	// Zero means runtime.NumCPU().
	Workers int

	// EstimateMissing fills absent catalog errors from heuristics
	EstimateMissing bool
}

// NewEngine returns an engine with 200 samples, seed 42 and error estimation on
func NewEngine() *Engine {
	return &Engine{
		Samples:         DefaultSamples,
		Seed:            DefaultSeed,
		EstimateMissing: true,
	}
}

// Result is the outcome of one Monte Carlo run
type Result struct {
	Bands     []types.UncertaintyBand
	Budget    ErrorBudget
	Requested int
	Used      int
	Dropped   int
}

// sample is one perturbed star plus its propagated path
type sample struct {
	star   types.StarRecord
	points []types.PredictionPoint
}

// Run perturbs star Samples times, propagates every valid sample over times
// with the standard model and returns per-step 16/50/84 percentile bands.
//
// Identical inputs always produce identical bands: all random draws happen
// sequentially from one seeded source before propagation fans out, and
// samples are pooled in draw order.
func (e *Engine) Run(star types.StarRecord, times []float64) Result {
	budget := EstimateErrors(star, e.EstimateMissing)
	res := Result{Budget: budget, Requested: e.Samples}
	if budget.IsZero() || e.Samples <= 0 || len(times) == 0 {
		return res
	}

	samples := e.draw(star, budget)
	e.propagate(samples, times)

	var pool []sample
	for _, s := range samples {
		if s.points == nil {
			res.Dropped++
			continue
		}
		pool = append(pool, s)
	}
	res.Used = len(pool)
	if res.Used == 0 {
		return res
	}

	nominal, _ := propagation.Kinematic{}.Propagate(star, times)
	res.Bands = bands(nominal, pool)
	return res
}

// draw generates the perturbed stars. Per sample the draw order is parallax,
// pmra, pmdec, then radial velocity when the star has one.
func (e *Engine) draw(star types.StarRecord, b ErrorBudget) []sample {
	src := rand.NewSource(uint64(e.Seed))
	normal := func(mu, sigma float64) float64 {
		return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand()
	}

	samples := make([]sample, e.Samples)
	for i := range samples {
		s := star.Clone()
		s.Parallax = types.Float(normal(*star.Parallax, b.Parallax))
		s.PMRA = types.Float(normal(*star.PMRA, b.PMRA))
		s.PMDec = types.Float(normal(*star.PMDec, b.PMDec))
		if star.RadialVelocity != nil {
			s.RadialVelocity = types.Float(normal(*star.RadialVelocity, *b.RadialVelocity))
		}
		samples[i].star = s
	}
	return samples
}

// propagate fills points for every physically valid sample, leaving nil
// for dropped ones.
func (e *Engine) propagate(samples []sample, times []float64) {
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range samples {
		i := i
		g.Go(func() error {
			s := &samples[i]
			if !validSample(s.star) {
				return nil
			}
			points, _ := propagation.Kinematic{}.Propagate(s.star, times)
			for _, p := range points {
				if !p.IsFinite() {
					return nil
				}
			}
			s.points = points
			return nil
		})
	}
	_ = g.Wait()
}

func validSample(s types.StarRecord) bool {
	p := *s.Parallax
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(*s.PMRA) && !math.IsNaN(*s.PMDec)
}

// bands computes the percentile spread at every time step
func bands(nominal []types.PredictionPoint, pool []sample) []types.UncertaintyBand {
	out := make([]types.UncertaintyBand, len(nominal))
	ra := make([]float64, len(pool))
	dec := make([]float64, len(pool))
	sep := make([]float64, len(pool))

	for k, nom := range nominal {
		for j, s := range pool {
			p := s.points[k]
			ra[j] = unwrapRA(p.RA, nom.RA)
			dec[j] = p.Dec
			sep[j] = coords.AngularSeparation(nom.RA, nom.Dec, p.RA, p.Dec) * units.ArcsecPerDegree
		}
		out[k] = types.UncertaintyBand{
			Time:       nom.Time,
			RA:         percentiles(ra),
			Dec:        percentiles(dec),
			Separation: percentiles(sep),
		}
	}
	return out
}

// unwrapRA moves ra to within 180° of ref so samples straddling 0/360 sort
// together.
func unwrapRA(ra, ref float64) float64 {
	switch d := ra - ref; {
	case d > 180:
		return ra - 360
	case d < -180:
		return ra + 360
	}
	return ra
}

// percentiles sorts x in place and returns its 16/50/84 percentiles
func percentiles(x []float64) types.Percentiles {
	sort.Float64s(x)
	return types.Percentiles{
		P16: stat.Quantile(0.16, stat.LinInterp, x, nil),
		P50: stat.Quantile(0.50, stat.LinInterp, x, nil),
		P84: stat.Quantile(0.84, stat.LinInterp, x, nil),
	}
}
