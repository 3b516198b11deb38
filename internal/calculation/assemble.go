package calculation

import (
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// assemble builds the success snapshot and its audit trail
func (r *run) assemble() {
	lease := &domain.LeaseBreakdown{
		FinancedAmount:                          r.money(r.lease.financed),
		ResidualValue:                           r.money(r.residual),
		ResidualSource:                          r.residualSource,
		PeriodicFinanceRepayment:                r.money(r.lease.periodic),
		AnnualFinanceRepayment:                  r.money(r.lease.annual),
		TotalFinanceRepaymentsExcludingResidual: r.money(r.lease.totalPayments),
		TotalInterestEstimate:                   r.money(r.lease.totalInterest),
	}
	tax := r.taxBreakdown()
	outright := r.buyOutright(lease, tax)

	r.checkQuoteVariance()

	r.assumptions = append(r.assumptions,
		domain.AppliedAssumption{
			Key: "income_tax_year", Label: "Income tax year",
			Value: string(r.in.TaxOptions.IncomeTaxYear), Source: r.year.IncomeTax.Source,
		},
		domain.AppliedAssumption{
			Key: "medicare_rate", Label: "Medicare levy rate",
			Value: num(r.levyRate), Source: r.year.MedicareLevy.Source,
		},
		domain.AppliedAssumption{
			Key: "fbt_statutory_rate", Label: "FBT statutory rate",
			Value: num(r.fbtRate), Source: r.e.Tables.FBT.Source,
		},
		domain.AppliedAssumption{
			Key: "residual_source", Label: "Residual source",
			Value: string(r.residualSource), Source: r.e.Tables.Residuals.Source,
		},
		domain.AppliedAssumption{
			Key: "opportunity_cost_rate_pct", Label: "Opportunity cost rate",
			Value: num(outright.OpportunityCostRateAssumed), Source: r.e.Assumptions.Source,
		},
	)

	r.out = &domain.Output{
		OK:                 true,
		ValidationIssues:   nonNilIssues(r.issues),
		Lease:              lease,
		FBT:                r.fbtBreakdown(),
		Packaging:          r.packagingBreakdown(),
		TaxComparison:      tax,
		Cashflow:           r.cashflowSummary(),
		BuyOutright:        outright,
		Assumptions:        r.assumptions,
		InferredParameters: nonNilInferred(r.inferred),
	}
}

// checkQuoteVariance warns when the modelled package cost strays from the quote
func (r *run) checkQuoteVariance() {
	if r.in.QuoteContext == nil {
		return
	}
	quoted, ok := finitePtr(r.in.QuoteContext.QuotedAnnualDeductionTotal)
	if !ok || quoted == 0 {
		return
	}
	q := dec(quoted)
	ratio := r.packaging.costBeforeECM.Sub(q).Abs().Div(q)

	const field = "quoteContext.quotedAnnualDeductionTotal"
	switch {
	case ratio.GreaterThan(r.e.Assumptions.QuoteModelVarianceModerateRatio):
		r.addWarning(domain.CodeQuoteModelVarianceHigh, field, "Quote/model variance is above high tolerance.")
	case ratio.GreaterThan(r.e.Assumptions.QuoteModelVarianceToleranceRatio):
		r.addWarning(domain.CodeQuoteModelVarianceModerate, field, "Quote/model variance is above tolerance.")
	}
}
