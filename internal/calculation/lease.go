package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// leaseSchedule is the unrounded amortization summary
type leaseSchedule struct {
	financed      decimal.Decimal
	periodic      decimal.Decimal
	annual        decimal.Decimal
	totalPayments decimal.Decimal
	totalInterest decimal.Decimal
}

// periodicRepayment is the balloon annuity payment: the loan amortizes down to
// the residual over the given periods. The power terms need float64.
func periodicRepayment(financed, residual, periodicRate float64, periods int) float64 {
	n := float64(periods)
	if periodicRate == 0 {
		return (financed - residual) / n
	}
	growth := math.Pow(1+periodicRate, n)
	numerator := periodicRate * (financed - residual/growth)
	denominator := 1 - 1/growth
	return numerator / denominator
}

func (r *run) financedAmount() decimal.Decimal {
	return dec(r.in.Vehicle.PurchasePriceInclGST).Add(dec(r.in.Finance.EstablishmentFee))
}

func (r *run) periods() int {
	return r.in.Finance.TermMonths / 12 * r.paymentsPerYear
}

func (r *run) computeLease() {
	financed := r.financedAmount()
	periods := r.periods()

	var periodic decimal.Decimal
	if r.ratePct == 0 {
		periodic = financed.Sub(r.residual).Div(decimal.NewFromInt(int64(periods)))
	} else {
		rate := r.ratePct / 100 / float64(r.paymentsPerYear)
		periodic = dec(periodicRepayment(financed.InexactFloat64(), r.residual.InexactFloat64(), rate, periods))
	}

	total := periodic.Mul(decimal.NewFromInt(int64(periods)))
	r.lease = leaseSchedule{
		financed:      financed,
		periodic:      periodic,
		annual:        periodic.Mul(decimal.NewFromInt(int64(r.paymentsPerYear))),
		totalPayments: total,
		totalInterest: total.Add(r.residual).Sub(financed),
	}
	r.e.Logger.Debugf("lease: financed=%s residual=%s rate=%.4f%% periodic=%s",
		financed.StringFixed(2), r.residual.StringFixed(2), r.ratePct, periodic.StringFixed(4))
}
