package formulas

import "math"

// BisectResult holds the outcome of a bounded bisection root search.
type BisectResult struct {
	Root      float64
	Converged bool
	Iterations int
}

// Bisect searches [lo, hi] for a root of f using bisection, stopping once the
// bracket is narrower than tol or maxIter iterations have run. When the
// bracket does not straddle a sign change, the endpoint with the smaller
// |f| is returned with Converged=false rather than an error; callers surface
// the flag instead of failing the whole calculation.
func Bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) BisectResult {
	flo := f(lo)
	fhi := f(hi)

	if flo == 0 {
		return BisectResult{Root: lo, Converged: true}
	}
	if fhi == 0 {
		return BisectResult{Root: hi, Converged: true}
	}

	if flo*fhi > 0 {
		// No bracketed root; report the better endpoint as a best estimate.
		best := lo
		if math.Abs(fhi) < math.Abs(flo) {
			best = hi
		}
		return BisectResult{Root: best, Converged: false}
	}

	var mid float64
	for i := 0; i < maxIter; i++ {
		mid = (lo + hi) / 2
		fmid := f(mid)

		if fmid == 0 || (hi-lo)/2 < tol {
			return BisectResult{Root: mid, Converged: true, Iterations: i + 1}
		}

		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}

	return BisectResult{Root: mid, Converged: false, Iterations: maxIter}
}
