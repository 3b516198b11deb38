package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/breakeven"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// BreakEvenResult is the opportunity cost rate at which the novated lease and
// buying outright cost the same over the term
type BreakEvenResult struct {
	RatePct    decimal.Decimal
	Converged  bool
	Iterations int
	// Difference is novated minus outright at RatePct
	Difference decimal.Decimal
	Output     *domain.Output
}

// BreakEvenOpportunityRate searches opportunity cost rates in [0, maxRatePct]
// for the point where TotalCostDifferenceOverTerm reaches zero. Forgone
// earnings grow with the rate, so the difference falls as the rate rises.
func (e *Engine) BreakEvenOpportunityRate(in *domain.ScenarioInput, maxRatePct float64) (*BreakEvenResult, error) {
	base := e.Calculate(in)
	if !base.OK {
		return nil, &breakeven.SolverError{
			Operation: "break_even_opportunity_rate",
			Message:   fmt.Sprintf("scenario is invalid (%d errors)", len(base.Errors())),
		}
	}

	var last *domain.Output
	difference := func(ratePct float64) float64 {
		scenario := in.Clone()
		scenario.Comparison = &domain.ComparisonInput{OpportunityCostRatePct: domain.Float(ratePct)}
		last = e.Calculate(scenario)
		if !last.OK {
			return 0
		}
		return last.BuyOutright.TotalCostDifferenceOverTerm.InexactFloat64()
	}

	result, err := breakeven.Bisect(difference, breakeven.SolverOptions{
		Lower:         0,
		Upper:         maxRatePct,
		MaxIterations: 60,
		Tolerance:     0.005,
	})
	if err != nil {
		return nil, &breakeven.SolverError{Operation: "break_even_opportunity_rate", Message: "search failed", Cause: err}
	}

	// Recalculate at the chosen rate so the returned output matches it
	difference(result.Root)
	e.Logger.Debugf("break-even opportunity rate %.4f%% after %d iterations (converged=%t)",
		result.Root, result.Iterations, result.Converged)

	return &BreakEvenResult{
		RatePct:    decimal.NewFromFloat(result.Root).Round(4),
		Converged:  result.Converged,
		Iterations: result.Iterations,
		Difference: last.BuyOutright.TotalCostDifferenceOverTerm,
		Output:     last,
	}, nil
}
