package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

func (r *run) cashflowSummary() *domain.CashflowSummary {
	salary := dec(r.in.Salary.GrossAnnualSalary)
	baseline := salary.Sub(r.tax.baselineTax).Sub(r.tax.baselineLevy)
	packaged := salary.
		Sub(r.packaging.preTax).
		Sub(r.packaging.postTax).
		Sub(r.tax.packagedTax).
		Sub(r.tax.packagedLevy)
	benefit := packaged.Sub(baseline)

	periods := decimal.NewFromInt(int64(r.payPeriods))
	return &domain.CashflowSummary{
		BaselineAnnualNetCash:                        r.money(baseline),
		PackagedAnnualNetCashBeforeOutOfPackageCosts: r.money(packaged),
		AnnualNetBenefitEstimate:                     r.money(benefit),
		BaselinePerPayNetCash:                        r.money(baseline.Div(periods)),
		PackagedPerPayNetCash:                        r.money(packaged.Div(periods)),
		PerPayNetBenefitEstimate:                     r.money(benefit.Div(periods)),
	}
}
