package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// Headline derives the summary figures from a successful output.
// It returns false for failure snapshots.
func Headline(out *domain.Output, dp int32) (domain.HeadlineMetrics, bool) {
	if out == nil || !out.OK || out.Packaging == nil || out.TaxComparison == nil || out.Lease == nil {
		return domain.HeadlineMetrics{}, false
	}
	p := out.Packaging
	monthly := p.AnnualPreTaxDeduction.Add(p.AnnualPostTaxDeduction).Div(decimal.NewFromInt(12))
	return domain.HeadlineMetrics{
		MonthlyOutOfPocket:       monthly.Round(dp),
		TotalEffectiveAnnualCost: p.AnnualPackageCostBeforeECM.Sub(out.TaxComparison.TaxAndLevySavings).Round(dp),
		ResidualValue:            out.Lease.ResidualValue,
	}, true
}
