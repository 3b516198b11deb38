package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// FBT ASSUMPTIONS:
//
// 1. Statutory formula only: base value x statutory rate x days available / days in FBT year.
//    No operating cost method, no grossing-up, no employer FBT liability.
//
// 2. EV exemption follows the vehicle type and the fuel-efficient LCT threshold:
//    - BEV/FCEV at or under the threshold are exempt
//    - PHEV additionally needs both transitional conditions (exempt before
//      2025-04-01 and a binding commitment before that date)
//    - ICE and HEV are never exempt
//
// 3. ECM contributions cover the whole post-exemption taxable value, driving it to zero.
//    The contribution is a post-tax deduction.

type fbtValuation struct {
	baseValue       decimal.Decimal
	gross           decimal.Decimal
	exempt          bool
	exemptionReason string
	afterExemption  decimal.Decimal
	ecm             decimal.Decimal
	afterECM        decimal.Decimal
}

// evExemption applies the exemption decision table
func evExemption(v domain.VehicleInput, threshold decimal.Decimal) (bool, string) {
	underThreshold := dec(v.PurchasePriceInclGST).LessThanOrEqual(threshold)

	switch {
	case v.VehicleType.IsZeroEmission():
		if !underThreshold {
			return false, "EV purchase price is above the fuel-efficient LCT threshold, so exemption does not apply."
		}
		return true, "Auto-applied for eligible BEV/FCEV under LCT threshold."
	case v.VehicleType == domain.VehiclePHEV:
		if !underThreshold {
			return false, "PHEV purchase price is above the fuel-efficient LCT threshold, so exemption does not apply."
		}
		if v.WasPHEVExemptBefore20250401 && v.HasBindingCommitmentPre20250401 {
			return true, "PHEV transitional conditions were marked as met."
		}
		return false, "PHEV exemption requires transitional conditions after 2025-04-01."
	default:
		return false, ""
	}
}

func (r *run) computeFBT() {
	v := r.in.Vehicle
	base := dec(v.PurchasePriceInclGST)
	if override, ok := finitePtr(v.BaseValueForFBT); ok {
		base = dec(override)
	}

	gross := base.Mul(r.fbtRate).
		Mul(decimal.NewFromInt(int64(r.daysAvailable))).
		Div(decimal.NewFromInt(int64(r.fbtYearDays)))
	if gross.IsNegative() {
		gross = decimal.Zero
	}

	exempt, reason := evExemption(v, r.year.LCT.FuelEfficient)
	after := gross
	if exempt {
		after = decimal.Zero
	}

	ecm := decimal.Zero
	if r.in.Packaging.UseECM && after.IsPositive() {
		ecm = after
	}
	afterECM := after.Sub(ecm)
	if afterECM.IsNegative() {
		afterECM = decimal.Zero
	}

	r.fbt = fbtValuation{
		baseValue:       base,
		gross:           gross,
		exempt:          exempt,
		exemptionReason: reason,
		afterExemption:  after,
		ecm:             ecm,
		afterECM:        afterECM,
	}
}

func (r *run) fbtBreakdown() *domain.FBTBreakdown {
	method := domain.FBTMethodStatutory
	if r.e.Tables != nil && r.e.Tables.FBT.Method != "" {
		method = r.e.Tables.FBT.Method
	}
	return &domain.FBTBreakdown{
		Method:                                method,
		StatutoryRateApplied:                  r.fbtRate.Round(6),
		BaseValueForFBT:                       r.money(r.fbt.baseValue),
		DaysAvailable:                         r.daysAvailable,
		FBTYearDays:                           r.fbtYearDays,
		GrossTaxableValueBeforeExemptions:     r.money(r.fbt.gross),
		EVExemptionApplied:                    r.fbt.exempt,
		EVExemptionReason:                     r.fbt.exemptionReason,
		TaxableValueAfterEVExemption:          r.money(r.fbt.afterExemption),
		EmployeeContributionAppliedForECM:     r.money(r.fbt.ecm),
		TaxableValueAfterECM:                  r.money(r.fbt.afterECM),
		EstimatedEmployerFBTTaxableValueFinal: r.money(r.fbt.afterECM),
	}
}
