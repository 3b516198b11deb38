package breakeven

import (
	"fmt"
	"math"
)

// Bisect searches [Lower, Upper] for x with f(x) close to zero.
//
// The function is assumed monotonic on the interval. Its direction is read from
// the endpoints, so both increasing and decreasing functions are handled. Only
// midpoints count towards MaxIterations and only midpoints are candidates; the
// candidate with the smallest |f(x)| is returned.
func Bisect(f Func, opts SolverOptions) (Result, error) {
	if f == nil {
		return Result{}, &SolverError{Operation: "bisect", Message: "function is nil"}
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	low, high := opts.Lower, opts.Upper
	increasing := f(high) >= f(low)

	best := Result{Root: math.NaN(), Residual: math.Inf(1)}
	for i := 1; i <= opts.MaxIterations; i++ {
		mid := (low + high) / 2
		delta := f(mid)
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return Result{}, &SolverError{
				Operation: "bisect",
				Message:   fmt.Sprintf("function is not finite at x=%g", mid),
			}
		}

		if math.Abs(delta) < math.Abs(best.Residual) {
			best.Root = mid
			best.Residual = delta
		}
		best.Iterations = i

		if math.Abs(delta) <= opts.Tolerance {
			best.Converged = true
			return best, nil
		}

		if (delta < 0) == increasing {
			low = mid
		} else {
			high = mid
		}
	}

	return best, nil
}
