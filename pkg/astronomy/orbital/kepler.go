package orbital

import (
	"math"
)

const (
	keplerMaxIterations = 50
	keplerTolerance     = 1e-12
	stumpffSeriesLimit  = 1e-8
)

// StumpffC evaluates the Stumpff function C(z).
func StumpffC(z float64) float64 {
	if math.Abs(z) < stumpffSeriesLimit {
		return 1.0/2.0 - z/24.0 + z*z/720.0
	}
	if z > 0 {
		return (1 - math.Cos(math.Sqrt(z))) / z
	}
	return (1 - math.Cosh(math.Sqrt(-z))) / z
}

// StumpffS evaluates the Stumpff function S(z).
func StumpffS(z float64) float64 {
	if math.Abs(z) < stumpffSeriesLimit {
		return 1.0/6.0 - z/120.0 + z*z/5040.0
	}
	if z > 0 {
		sz := math.Sqrt(z)
		return (sz - math.Sin(sz)) / (sz * sz * sz)
	}
	sz := math.Sqrt(-z)
	return (math.Sinh(sz) - sz) / (sz * sz * sz)
}

// PropagateUniversal advances a two-body state by dt years about a central
// body with gravitational parameter mu (AU³/yr²), using the universal-variable
// formulation.
//
// The second return value is false when the solver fell back to linear drift:
// Newton did not converge, the input was degenerate (zero radius, non-finite
// values) or the result was non-finite. The returned state is always usable.
func PropagateUniversal(s StateVector, mu, dt float64) (StateVector, bool) {
	if dt == 0 {
		return s, true
	}

	r0 := s.Position
	v0 := s.Velocity
	r0n := r0.Magnitude()
	if r0n == 0 || mu <= 0 || !s.IsFinite() || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return s.Drift(dt), false
	}

	sqrtMu := math.Sqrt(mu)
	alpha := 2.0/r0n - v0.MagnitudeSquared()/mu
	sigma0 := r0.Dot(v0) / sqrtMu

	chi := sqrtMu * math.Abs(alpha) * dt
	if chi == 0 {
		chi = 1e-8
	}

	converged := false
	for i := 0; i < keplerMaxIterations; i++ {
		z := alpha * chi * chi
		c := StumpffC(z)
		sf := StumpffS(z)

		// universal time equation; its χ-derivative is the current radius
		f := sigma0*chi*chi*c + (1-alpha*r0n)*chi*chi*chi*sf + r0n*chi - sqrtMu*dt
		fp := sigma0*chi*(1-z*sf) + (1-alpha*r0n)*chi*chi*c + r0n
		if fp == 0 || math.IsNaN(fp) {
			break
		}

		dChi := f / fp
		chi -= dChi
		if math.IsNaN(chi) || math.IsInf(chi, 0) {
			break
		}
		if math.Abs(dChi) < keplerTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return s.Drift(dt), false
	}

	z := alpha * chi * chi
	c := StumpffC(z)
	sf := StumpffS(z)

	f := 1 - chi*chi*c/r0n
	g := dt - chi*chi*chi*sf/sqrtMu
	r := r0.Scale(f).Add(v0.Scale(g))
	rn := r.Magnitude()
	if rn == 0 {
		return s.Drift(dt), false
	}

	fdot := sqrtMu / (rn * r0n) * (z*sf - 1) * chi
	gdot := 1 - chi*chi*c/rn
	v := r0.Scale(fdot).Add(v0.Scale(gdot))

	out := StateVector{Position: r, Velocity: v}
	if !out.IsFinite() {
		return s.Drift(dt), false
	}
	return out, true
}
