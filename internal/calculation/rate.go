package calculation

import (
	"github.com/laofangxose/au-finance-calculators/internal/breakeven"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

const rateKey = "finance.annualInterestRatePct"

// resolveRate settles the annual interest rate. A supplied non-negative rate is
// used as is; otherwise the quote rate, then a back-solve from quoted totals,
// then the configured default, in that order.
func (r *run) resolveRate() {
	if v, ok := finitePtr(r.in.Finance.AnnualInterestRatePct); ok && v >= 0 {
		r.ratePct = v
		return
	}

	quote := r.in.QuoteContext
	if quote != nil {
		if v, ok := finitePtr(quote.QuotedInterestRatePct); ok && v >= 0 {
			r.ratePct = v
			r.inferred = append(r.inferred, domain.InferredParameter{
				Key:          rateKey,
				DerivedValue: num(r.money(dec(v))),
				Method:       domain.MethodDirectQuoteValue,
				Confidence:   domain.ConfidenceHigh,
				Note:         "Using quote-provided interest rate.",
			})
			r.assumptions = append(r.assumptions, domain.AppliedAssumption{
				Key: "interest_rate_source", Label: "Interest rate source", Value: "quote",
				Inferred: true, Confidence: domain.ConfidenceHigh,
			})
			return
		}

		if v, ok := r.backSolveRate(); ok {
			r.ratePct = v
			r.inferred = append(r.inferred, domain.InferredParameter{
				Key:          rateKey,
				DerivedValue: num(r.money(dec(v))),
				Method:       domain.MethodCalculatedFromQuote,
				Confidence:   domain.ConfidenceMedium,
				Note:         "Back-solved from quote totals using annuity-with-balloon model.",
			})
			r.assumptions = append(r.assumptions, domain.AppliedAssumption{
				Key: "interest_rate_source", Label: "Interest rate source", Value: "quote_back_solved",
				Inferred: true, Confidence: domain.ConfidenceMedium,
			})
			return
		}
	}

	fallback := r.e.Assumptions.DefaultQuoteInterestRatePct
	r.ratePct = fallback.InexactFloat64()
	r.addWarning(domain.CodeQuoteInterestRateInferred, rateKey, "Interest rate was not supplied. Applied fallback quote interest assumption.")
	r.inferred = append(r.inferred, domain.InferredParameter{
		Key:          rateKey,
		DerivedValue: r.ratePct,
		Method:       domain.MethodFallbackDefault,
		Confidence:   domain.ConfidenceLow,
		Note:         "No reliable quote rate available.",
	})
	r.assumptions = append(r.assumptions, domain.AppliedAssumption{
		Key: "default_quote_interest_rate_pct", Label: "Fallback quote interest rate", Value: r.ratePct,
		Source: r.e.Assumptions.Source, Inferred: true, Confidence: domain.ConfidenceLow,
	})

	if r.ratePct < 0 {
		r.addError(domain.CodeNegativeInterestRate, rateKey, "Interest rate cannot be negative.")
	}
}

// quotedAnnualDeduction returns the quote's annual deduction, derived from the
// per-pay figure when only that is given
func (r *run) quotedAnnualDeduction() (float64, bool) {
	quote := r.in.QuoteContext
	if quote == nil {
		return 0, false
	}
	if v, ok := finitePtr(quote.QuotedAnnualDeductionTotal); ok {
		return v, true
	}
	if v, ok := finitePtr(quote.QuotedPayPeriodDeductionTotal); ok {
		return v * float64(r.payPeriods), true
	}
	return 0, false
}

// backSolveRate infers the annual rate (percent) whose repayment matches the
// finance share of the quoted annual deduction
func (r *run) backSolveRate() (float64, bool) {
	quoted, ok := r.quotedAnnualDeduction()
	if !ok || quoted <= 0 {
		return 0, false
	}

	target := dec(quoted)
	if r.in.Packaging.IncludeRunningCostsInPackage {
		target = target.Sub(r.runningCostsTotal())
	}
	adminFee := r.in.Finance.MonthlyAccountKeepingFee
	if v, ok := finitePtr(r.in.QuoteContext.QuotedMonthlyAdminFee); ok {
		adminFee = v
	}
	target = target.Sub(dec(adminFee).Mul(dec(12)))

	targetPeriodic := target.InexactFloat64() / float64(r.paymentsPerYear)
	if !isFinite(targetPeriodic) || targetPeriodic <= 0 {
		r.e.Logger.Debugf("rate back-solve skipped: finance target %.2f is not positive", target.InexactFloat64())
		return 0, false
	}

	financed := r.financedAmount().InexactFloat64()
	residual := r.residual.InexactFloat64()
	periods := r.periods()
	ppy := float64(r.paymentsPerYear)

	result, err := breakeven.Bisect(func(annualRate float64) float64 {
		return periodicRepayment(financed, residual, annualRate/ppy, periods) - targetPeriodic
	}, r.rateSolverOptions())
	if err != nil {
		r.e.Logger.Warnf("rate back-solve failed: %v", err)
		return 0, false
	}
	r.e.Logger.Debugf("rate back-solve: rate=%.6f residual=%.4f iterations=%d converged=%t",
		result.Root, result.Residual, result.Iterations, result.Converged)
	return result.Root * 100, true
}

// rateSolverOptions uses the configured bounds, or the solver defaults when
// assumptions were built without them
func (r *run) rateSolverOptions() breakeven.SolverOptions {
	cfg := r.e.Assumptions.RateSolver
	if cfg == (domain.RateSolverConfig{}) {
		return breakeven.DefaultSolverOptions()
	}
	return breakeven.SolverOptions{
		Lower:         cfg.MinAnnualRate,
		Upper:         cfg.MaxAnnualRate,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
	}
}
