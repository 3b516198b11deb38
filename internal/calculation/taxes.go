package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Resident individual rates from the year's bracket table. Tax on income in a
//    bracket is base tax + (income - (threshold - 1)) x marginal rate, with the
//    first bracket measured from zero.
//
// 2. Medicare levy is a flat rate on taxable income when included. No low-income
//    reduction phase-in and no surcharge.
//
// 3. No offsets (LITO etc.), HELP repayments or other deductions.

// IncomeTax computes tax on income using the bracket table.
// Fractional incomes between one bracket's upper bound and the next threshold
// use the lower bracket.
func IncomeTax(income decimal.Decimal, table *domain.IncomeTaxTable) decimal.Decimal {
	if table == nil || len(table.Brackets) == 0 {
		return decimal.Zero
	}
	bracket := findBracket(income, table.Brackets)

	floor := decimal.Zero
	if !bracket.Threshold.IsZero() {
		floor = bracket.Threshold.Sub(decimal.NewFromInt(1))
	}
	tax := bracket.BaseTax.Add(income.Sub(floor).Mul(bracket.MarginalRate))
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

func findBracket(income decimal.Decimal, brackets []domain.TaxBracket) domain.TaxBracket {
	for _, b := range brackets {
		if b.Contains(income) {
			return b
		}
	}
	for i := len(brackets) - 1; i >= 0; i-- {
		if brackets[i].Threshold.LessThanOrEqual(income) {
			return brackets[i]
		}
	}
	return brackets[0]
}

// MedicareLevy computes the flat levy on taxable income
func MedicareLevy(income, rate decimal.Decimal) decimal.Decimal {
	levy := income.Mul(rate)
	if levy.IsNegative() {
		return decimal.Zero
	}
	return levy
}

// packageSplit is the unrounded packaging position
type packageSplit struct {
	runningCosts  decimal.Decimal
	finance       decimal.Decimal
	costBeforeECM decimal.Decimal
	preTax        decimal.Decimal
	postTax       decimal.Decimal
}

// taxPosition is the unrounded baseline vs packaged tax comparison
type taxPosition struct {
	baselineIncome decimal.Decimal
	packagedIncome decimal.Decimal
	baselineTax    decimal.Decimal
	packagedTax    decimal.Decimal
	baselineLevy   decimal.Decimal
	packagedLevy   decimal.Decimal
	savings        decimal.Decimal
}

func (r *run) runningCostsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.in.RunningCosts.Fields() {
		total = total.Add(dec(item.Value))
	}
	return total
}

func (r *run) computePackaging() {
	running := decimal.Zero
	if r.in.Packaging.IncludeRunningCostsInPackage {
		running = r.runningCostsTotal()
	}
	finance := r.lease.annual.Add(dec(r.in.Finance.MonthlyAccountKeepingFee).Mul(decimal.NewFromInt(12)))
	cost := running.Add(finance)

	post := r.fbt.ecm
	pre := cost.Sub(post)
	if pre.IsNegative() {
		pre = decimal.Zero
	}

	r.packaging = packageSplit{
		runningCosts:  running,
		finance:       finance,
		costBeforeECM: cost,
		preTax:        pre,
		postTax:       post,
	}
}

func (r *run) computeTax() {
	salary := dec(r.in.Salary.GrossAnnualSalary)
	packaged := salary.Sub(r.packaging.preTax)

	t := taxPosition{
		baselineIncome: salary,
		packagedIncome: packaged,
		baselineTax:    IncomeTax(salary, r.year.IncomeTax),
		packagedTax:    IncomeTax(packaged, r.year.IncomeTax),
		baselineLevy:   decimal.Zero,
		packagedLevy:   decimal.Zero,
	}
	if r.in.TaxOptions.IncludeMedicareLevy {
		t.baselineLevy = MedicareLevy(salary, r.levyRate)
		t.packagedLevy = MedicareLevy(packaged, r.levyRate)
	}
	t.savings = t.baselineTax.Add(t.baselineLevy).Sub(t.packagedTax.Add(t.packagedLevy))
	r.tax = t
}

func (r *run) packagingBreakdown() *domain.PackagingBreakdown {
	periods := decimal.NewFromInt(int64(r.payPeriods))
	return &domain.PackagingBreakdown{
		AnnualRunningCostsPackaged:      r.money(r.packaging.runningCosts),
		AnnualFinanceRepaymentsPackaged: r.money(r.packaging.finance),
		AnnualPackageCostBeforeECM:      r.money(r.packaging.costBeforeECM),
		AnnualPreTaxDeduction:           r.money(r.packaging.preTax),
		AnnualPostTaxDeduction:          r.money(r.packaging.postTax),
		PerPayPreTaxDeduction:           r.money(r.packaging.preTax.Div(periods)),
		PerPayPostTaxDeduction:          r.money(r.packaging.postTax.Div(periods)),
		PayPeriodsPerYear:               r.payPeriods,
	}
}

func (r *run) taxBreakdown() *domain.TaxComparisonBreakdown {
	return &domain.TaxComparisonBreakdown{
		BaselineTaxableIncome: r.money(r.tax.baselineIncome),
		PackagedTaxableIncome: r.money(r.tax.packagedIncome),
		BaselineIncomeTax:     r.money(r.tax.baselineTax),
		PackagedIncomeTax:     r.money(r.tax.packagedTax),
		BaselineMedicareLevy:  r.money(r.tax.baselineLevy),
		PackagedMedicareLevy:  r.money(r.tax.packagedLevy),
		TaxAndLevySavings:     r.money(r.tax.savings),
	}
}
