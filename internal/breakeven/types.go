package breakeven

import (
	"fmt"
	"math"
)

// Func is a scalar function whose root is sought
type Func func(x float64) float64

// SolverOptions configures a bisection search
type SolverOptions struct {
	Lower         float64 // lower bound of the search interval
	Upper         float64 // upper bound of the search interval
	MaxIterations int     // maximum midpoint evaluations
	Tolerance     float64 // stop once |f(x)| <= Tolerance
}

// DefaultSolverOptions returns the interval and limits used for annual interest rates
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Lower:         0,
		Upper:         0.30,
		MaxIterations: 100,
		Tolerance:     0.01,
	}
}

// Validate checks that the options describe a usable search
func (o SolverOptions) Validate() error {
	if !finite(o.Lower) || !finite(o.Upper) {
		return &SolverError{
			Operation: "validate_options",
			Message:   fmt.Sprintf("bounds must be finite, got [%g, %g]", o.Lower, o.Upper),
		}
	}
	if o.Lower >= o.Upper {
		return &SolverError{
			Operation: "validate_options",
			Message:   fmt.Sprintf("lower bound %g must be below upper bound %g", o.Lower, o.Upper),
		}
	}
	if o.MaxIterations <= 0 {
		return &SolverError{
			Operation: "validate_options",
			Message:   "max iterations must be positive",
		}
	}
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) {
		return &SolverError{
			Operation: "validate_options",
			Message:   "tolerance cannot be negative",
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Result is the outcome of a search. Root is the best candidate seen even when
// the search did not converge.
type Result struct {
	Root       float64
	Residual   float64 // f(Root)
	Iterations int
	Converged  bool
}

// SolverError represents errors from the root finder
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
