package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// BUY-OUTRIGHT MODEL:
//
// Outright cost over the term is the purchase price alone. Running costs are
// paid either way and are left out of both sides.
//
// Novated cost over the term = finance repayments (excluding residual)
// - tax and levy savings + residual - forgone earnings, where forgone earnings
// are simple interest on the purchase price at the opportunity cost rate for
// the term. The figures use the rounded lease and tax breakdowns.

// opportunityRate returns the comparison rate (percent), falling back to the default
func (r *run) opportunityRate() decimal.Decimal {
	if r.in.Comparison != nil {
		if v, ok := finitePtr(r.in.Comparison.OpportunityCostRatePct); ok && v >= 0 {
			return dec(v)
		}
	}
	return r.e.Assumptions.DefaultOpportunityCostRatePct
}

// EstimatedLCT estimates the luxury car tax embedded in a GST-inclusive price
func EstimatedLCT(price, threshold, rate decimal.Decimal) decimal.Decimal {
	if !price.GreaterThan(threshold) {
		return decimal.Zero
	}
	return price.Sub(threshold).Mul(decimal.NewFromInt(10)).Div(decimal.NewFromInt(11)).Mul(rate)
}

func (r *run) buyOutright(lease *domain.LeaseBreakdown, tax *domain.TaxComparisonBreakdown) *domain.BuyOutrightComparison {
	price := dec(r.in.Vehicle.PurchasePriceInclGST)
	months := decimal.NewFromInt(int64(r.in.Finance.TermMonths))
	years := months.Div(decimal.NewFromInt(12))

	var lctRate decimal.Decimal
	if r.e.Tables != nil {
		lctRate = r.e.Tables.LCT.Rate
	}
	lct := EstimatedLCT(price, r.year.LCT.For(r.in.Vehicle.VehicleType), lctRate)

	rate := r.opportunityRate()
	forgone := price.Mul(rate).Div(decimal.NewFromInt(100)).Mul(years)

	outrightTotal := price
	outrightMonthly := outrightTotal.Div(months)

	novatedTotal := lease.TotalFinanceRepaymentsExcludingResidual.
		Sub(tax.TaxAndLevySavings).
		Add(lease.ResidualValue).
		Sub(forgone)
	novatedMonthly := novatedTotal.Div(months)

	return &domain.BuyOutrightComparison{
		MonthlyEquivalentCost:               r.money(outrightMonthly),
		TotalCashOutlayOverTerm:             r.money(outrightTotal),
		NovatedMonthlyOutOfPocket:           r.money(novatedMonthly),
		NovatedTotalCostOverTerm:            r.money(novatedTotal),
		MonthlyDifference:                   r.money(novatedMonthly.Sub(outrightMonthly)),
		TotalCostDifferenceOverTerm:         r.money(novatedTotal.Sub(outrightTotal)),
		OpportunityCostRateAssumed:          r.money(rate),
		EstimatedForgoneEarningsOverTerm:    r.money(forgone),
		EstimatedLCTIncludedInPurchasePrice: r.money(lct),
	}
}
