package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// validateStructure is the first gate. Every check runs so the caller sees all
// problems at once; it also resolves the defaults later stages rely on.
func (r *run) validateStructure() {
	in := r.in
	r.checkYear()

	required := []domain.NamedValue{
		{Field: "vehicle.purchasePriceInclGst", Value: in.Vehicle.PurchasePriceInclGST},
		{Field: "finance.establishmentFee", Value: in.Finance.EstablishmentFee},
		{Field: "finance.monthlyAccountKeepingFee", Value: in.Finance.MonthlyAccountKeepingFee},
		{Field: "salary.grossAnnualSalary", Value: in.Salary.GrossAnnualSalary},
	}
	required = append(required, in.RunningCosts.Fields()...)
	for _, item := range required {
		if !isFinite(item.Value) {
			r.addError(domain.CodeRequiredNumberInvalid, item.Field, fmt.Sprintf("%s must be a finite number.", item.Field))
		}
	}
	if v := in.Vehicle.BaseValueForFBT; v != nil && !isFinite(*v) {
		r.addError(domain.CodeRequiredNumberInvalid, "vehicle.baseValueForFbt", "vehicle.baseValueForFbt must be a finite number.")
	}

	price := in.Vehicle.PurchasePriceInclGST
	if isFinite(price) && price < 0 {
		r.addError(domain.CodeNegativeValue, "vehicle.purchasePriceInclGst", "Purchase price cannot be negative.")
	}
	for _, item := range required[1:3] {
		if isFinite(item.Value) && item.Value < 0 {
			r.addError(domain.CodeNegativeValue, item.Field, fmt.Sprintf("%s cannot be negative.", item.Field))
		}
	}
	for _, item := range in.RunningCosts.Fields() {
		if isFinite(item.Value) && item.Value < 0 {
			r.addError(domain.CodeNegativeValue, item.Field, fmt.Sprintf("%s cannot be negative.", item.Field))
		}
	}
	if v, ok := finitePtr(in.Vehicle.BaseValueForFBT); ok && v < 0 {
		r.addError(domain.CodeNegativeValue, "vehicle.baseValueForFbt", "FBT base value cannot be negative.")
	}

	salary := in.Salary.GrossAnnualSalary
	if isFinite(salary) && salary <= 0 {
		r.addError(domain.CodeNonPositiveSalary, "salary.grossAnnualSalary", "Gross annual salary must be greater than zero.")
	}

	if !in.Vehicle.VehicleType.Valid() {
		r.addError(domain.CodeInvalidVehicleType, "vehicle.vehicleType", "Vehicle type must be one of ice, hev, phev, bev, or fcev.")
	}
	if !in.Salary.PayFrequency.Valid() {
		r.addError(domain.CodeInvalidPayFrequency, "salary.payFrequency", "Pay frequency must be weekly, fortnightly, or monthly.")
	}
	r.payPeriods = in.Salary.PayFrequency.PeriodsPerYear()

	if d := in.Vehicle.FirstHeldAndUsedDate; d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			r.addError(domain.CodeInvalidDate, "vehicle.firstHeldAndUsedDate", "First held and used date must be formatted YYYY-MM-DD.")
		}
	}

	if !containsInt(domain.AllowedTermMonths, in.Finance.TermMonths) {
		r.addError(domain.CodeInvalidTerm, "finance.termMonths", "Term months must be one of 12, 24, 36, 48, or 60.")
	}

	r.paymentsPerYear = r.e.Assumptions.DefaultFinancePaymentsPerYear
	if in.Finance.PaymentsPerYear != nil {
		r.paymentsPerYear = *in.Finance.PaymentsPerYear
	}
	if !containsInt(domain.AllowedPaymentsPerYear, r.paymentsPerYear) {
		r.addError(domain.CodeInvalidPaymentsPerYear, "finance.paymentsPerYear", "Payments per year must be one of 12, 26, or 52.")
	}

	r.checkResidual()
	r.checkFBTOptions()
	r.checkLevyOverride()
}

// checkYear requires every year-keyed table the engine reads
func (r *run) checkYear() {
	year, ok := r.e.Tables.Year(r.in.TaxOptions.IncomeTaxYear)
	if !ok || year.IncomeTax == nil {
		r.addError(domain.CodeTaxYearUnsupported, "taxOptions.incomeTaxYear", "Income tax year is unsupported.")
	}
	if !ok || year.MedicareLevy == nil {
		r.addError(domain.CodeMedicareYearUnsupported, "taxOptions.incomeTaxYear", "Medicare levy year is unsupported.")
	}
	if !ok || year.LCT == nil {
		r.addError(domain.CodeLCTYearUnsupported, "taxOptions.incomeTaxYear", "Luxury car tax thresholds are unavailable for this year.")
	}
	r.year = year
}

// checkResidual resolves the residual from the table or a valid override.
// The table amount is the floor for any override.
func (r *run) checkResidual() {
	in := r.in
	r.residualSource = domain.ResidualFromTable

	var pct decimal.Decimal
	ok := false
	if r.e.Tables != nil {
		pct, ok = r.e.Tables.Residuals.ForTerm(in.Finance.TermMonths)
	}
	if !ok {
		r.addError(domain.CodeResidualTableMissing, "finance.termMonths", "No residual percentage found for term.")
	}

	price := in.Vehicle.PurchasePriceInclGST
	if !isFinite(price) {
		return
	}
	minResidual := dec(price).Mul(pct)
	r.residual = minResidual

	override, present := finitePtr(in.Finance.ResidualValueOverride)
	if !present {
		return
	}
	r.residual = dec(override)
	r.residualSource = domain.ResidualFromOverride

	if ok && r.residual.LessThan(minResidual) {
		r.addError(domain.CodeResidualBelowMinimum, "finance.residualValueOverride", "Residual override is below minimum table amount for term.")
	}
	if override >= price {
		r.addError(domain.CodeResidualTooHigh, "finance.residualValueOverride", "Residual override must be less than purchase price.")
	}
}

func (r *run) checkFBTOptions() {
	opts := r.in.TaxOptions
	var fbt domain.FBTConfig
	if r.e.Tables != nil {
		fbt = r.e.Tables.FBT
	}

	r.fbtYearDays = fbt.DefaultFBTYearDays
	if opts.FBTYearDays != nil {
		r.fbtYearDays = *opts.FBTYearDays
	}
	if !containsInt(domain.AllowedFBTYearDays, r.fbtYearDays) {
		r.addError(domain.CodeInvalidFBTYearDays, "taxOptions.fbtYearDays", "FBT year days must be 365 or 366.")
	}

	r.daysAvailable = r.fbtYearDays
	if opts.DaysAvailableForPrivateUseInFBTYear != nil {
		r.daysAvailable = *opts.DaysAvailableForPrivateUseInFBTYear
	}
	if r.daysAvailable < 0 || r.daysAvailable > r.fbtYearDays {
		r.addError(domain.CodeInvalidDaysAvailable, "taxOptions.daysAvailableForPrivateUseInFbtYear", "Days available must be within 0..fbtYearDays.")
	}

	r.fbtRate = fbt.StatutoryRate
	if v := opts.FBTStatutoryRateOverride; v != nil {
		if !isFinite(*v) || *v < 0 || *v > 1 {
			r.addError(domain.CodeInvalidFBTRate, "taxOptions.fbtStatutoryRateOverride", "FBT statutory rate must be between 0 and 1.")
			return
		}
		r.fbtRate = dec(*v)
	}
}

func (r *run) checkLevyOverride() {
	if r.year.MedicareLevy != nil {
		r.levyRate = r.year.MedicareLevy.LevyRate
	}
	if v := r.in.TaxOptions.MedicareLevyRateOverride; v != nil {
		if !isFinite(*v) || *v < 0 || *v > 1 {
			r.addError(domain.CodeInvalidMedicareRate, "taxOptions.medicareLevyRateOverride", "Medicare levy rate must be between 0 and 1.")
			return
		}
		r.levyRate = dec(*v)
	}
}

// validateComputed is the second gate, run once packaging is known
func (r *run) validateComputed() {
	salary := dec(r.in.Salary.GrossAnnualSalary)
	if r.tax.packagedIncome.IsNegative() {
		r.addError(domain.CodeNegativePackagedTaxableIncome, "salary.grossAnnualSalary", "Packaged taxable income cannot be negative.")
	}

	total := r.packaging.preTax.Add(r.packaging.postTax)
	if total.GreaterThan(salary.Mul(r.e.Assumptions.HighDeductionWarningRatioOfSalary)) {
		r.addWarning(domain.CodeHighDeductionRatio, "packaging", "Total annual deductions are high relative to salary.")
	}
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
