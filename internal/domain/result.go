package domain

import (
	"github.com/shopspring/decimal"
)

// ResidualSource records where the residual value came from
type ResidualSource string

const (
	ResidualFromTable    ResidualSource = "default_table"
	ResidualFromOverride ResidualSource = "user_override"
)

// Confidence grades an inferred or assumed value
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// InferenceMethod records how an inferred parameter was derived
type InferenceMethod string

const (
	MethodDirectQuoteValue    InferenceMethod = "direct_quote_value"
	MethodCalculatedFromQuote InferenceMethod = "calculated_from_quote"
	MethodFallbackDefault     InferenceMethod = "fallback_default"
)

// FBTMethodStatutory is the only FBT valuation method modelled
const FBTMethodStatutory = "statutory_formula"

// Output is the engine result. On failure OK is false and every breakdown is nil;
// issues, assumptions and inferred parameters are always present.
type Output struct {
	OK                 bool                    `yaml:"ok" json:"ok"`
	ValidationIssues   []ValidationIssue       `yaml:"validationIssues" json:"validationIssues"`
	Lease              *LeaseBreakdown         `yaml:"lease" json:"lease"`
	FBT                *FBTBreakdown           `yaml:"fbt" json:"fbt"`
	Packaging          *PackagingBreakdown     `yaml:"packaging" json:"packaging"`
	TaxComparison      *TaxComparisonBreakdown `yaml:"taxComparison" json:"taxComparison"`
	Cashflow           *CashflowSummary        `yaml:"cashflow" json:"cashflow"`
	BuyOutright        *BuyOutrightComparison  `yaml:"buyOutrightComparison" json:"buyOutrightComparison"`
	Assumptions        []AppliedAssumption     `yaml:"assumptions" json:"assumptions"`
	InferredParameters []InferredParameter     `yaml:"inferredParameters" json:"inferredParameters"`
}

// Errors returns the error-severity issues
func (o *Output) Errors() []ValidationIssue {
	return filterIssues(o.ValidationIssues, SeverityError)
}

// Warnings returns the warning-severity issues
func (o *Output) Warnings() []ValidationIssue {
	return filterIssues(o.ValidationIssues, SeverityWarning)
}

// HasIssue reports whether an issue with the given code was raised
func (o *Output) HasIssue(code string) bool {
	for _, issue := range o.ValidationIssues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Inferred returns the inferred parameter for key, if any
func (o *Output) Inferred(key string) (InferredParameter, bool) {
	for _, p := range o.InferredParameters {
		if p.Key == key {
			return p, true
		}
	}
	return InferredParameter{}, false
}

// Assumption returns the applied assumption for key, if any
func (o *Output) Assumption(key string) (AppliedAssumption, bool) {
	for _, a := range o.Assumptions {
		if a.Key == key {
			return a, true
		}
	}
	return AppliedAssumption{}, false
}

// LeaseBreakdown is the amortizing-loan-with-balloon schedule summary
type LeaseBreakdown struct {
	FinancedAmount                          decimal.Decimal `yaml:"financedAmount" json:"financedAmount"`
	ResidualValue                           decimal.Decimal `yaml:"residualValue" json:"residualValue"`
	ResidualSource                          ResidualSource  `yaml:"residualSource" json:"residualSource"`
	PeriodicFinanceRepayment                decimal.Decimal `yaml:"periodicFinanceRepayment" json:"periodicFinanceRepayment"`
	AnnualFinanceRepayment                  decimal.Decimal `yaml:"annualFinanceRepayment" json:"annualFinanceRepayment"`
	TotalFinanceRepaymentsExcludingResidual decimal.Decimal `yaml:"totalFinanceRepaymentsExcludingResidual" json:"totalFinanceRepaymentsExcludingResidual"`
	TotalInterestEstimate                   decimal.Decimal `yaml:"totalInterestEstimate" json:"totalInterestEstimate"`
}

// FBTBreakdown is the statutory formula valuation after exemption and ECM
type FBTBreakdown struct {
	Method                                string          `yaml:"method" json:"method"`
	StatutoryRateApplied                  decimal.Decimal `yaml:"statutoryRateApplied" json:"statutoryRateApplied"`
	BaseValueForFBT                       decimal.Decimal `yaml:"baseValueForFbt" json:"baseValueForFbt"`
	DaysAvailable                         int             `yaml:"daysAvailable" json:"daysAvailable"`
	FBTYearDays                           int             `yaml:"fbtYearDays" json:"fbtYearDays"`
	GrossTaxableValueBeforeExemptions     decimal.Decimal `yaml:"grossTaxableValueBeforeExemptions" json:"grossTaxableValueBeforeExemptions"`
	EVExemptionApplied                    bool            `yaml:"evExemptionApplied" json:"evExemptionApplied"`
	EVExemptionReason                     string          `yaml:"evExemptionReason,omitempty" json:"evExemptionReason,omitempty"`
	TaxableValueAfterEVExemption          decimal.Decimal `yaml:"taxableValueAfterEvExemption" json:"taxableValueAfterEvExemption"`
	EmployeeContributionAppliedForECM     decimal.Decimal `yaml:"employeeContributionAppliedForEcm" json:"employeeContributionAppliedForEcm"`
	TaxableValueAfterECM                  decimal.Decimal `yaml:"taxableValueAfterEcm" json:"taxableValueAfterEcm"`
	EstimatedEmployerFBTTaxableValueFinal decimal.Decimal `yaml:"estimatedEmployerFbtTaxableValueFinal" json:"estimatedEmployerFbtTaxableValueFinal"`
}

// PackagingBreakdown is the split of package cost into pre- and post-tax deductions
type PackagingBreakdown struct {
	AnnualRunningCostsPackaged      decimal.Decimal `yaml:"annualRunningCostsPackaged" json:"annualRunningCostsPackaged"`
	AnnualFinanceRepaymentsPackaged decimal.Decimal `yaml:"annualFinanceRepaymentsPackaged" json:"annualFinanceRepaymentsPackaged"`
	AnnualPackageCostBeforeECM      decimal.Decimal `yaml:"annualPackageCostBeforeEcm" json:"annualPackageCostBeforeEcm"`
	AnnualPreTaxDeduction           decimal.Decimal `yaml:"annualPreTaxDeduction" json:"annualPreTaxDeduction"`
	AnnualPostTaxDeduction          decimal.Decimal `yaml:"annualPostTaxDeduction" json:"annualPostTaxDeduction"`
	PerPayPreTaxDeduction           decimal.Decimal `yaml:"perPayPreTaxDeduction" json:"perPayPreTaxDeduction"`
	PerPayPostTaxDeduction          decimal.Decimal `yaml:"perPayPostTaxDeduction" json:"perPayPostTaxDeduction"`
	PayPeriodsPerYear               int             `yaml:"payPeriodsPerYear" json:"payPeriodsPerYear"`
}

// TaxComparisonBreakdown compares income tax and levy with and without packaging
type TaxComparisonBreakdown struct {
	BaselineTaxableIncome decimal.Decimal `yaml:"baselineTaxableIncome" json:"baselineTaxableIncome"`
	PackagedTaxableIncome decimal.Decimal `yaml:"packagedTaxableIncome" json:"packagedTaxableIncome"`
	BaselineIncomeTax     decimal.Decimal `yaml:"baselineIncomeTax" json:"baselineIncomeTax"`
	PackagedIncomeTax     decimal.Decimal `yaml:"packagedIncomeTax" json:"packagedIncomeTax"`
	BaselineMedicareLevy  decimal.Decimal `yaml:"baselineMedicareLevy" json:"baselineMedicareLevy"`
	PackagedMedicareLevy  decimal.Decimal `yaml:"packagedMedicareLevy" json:"packagedMedicareLevy"`
	TaxAndLevySavings     decimal.Decimal `yaml:"taxAndLevySavings" json:"taxAndLevySavings"`
}

// CashflowSummary nets the baseline and packaged cash positions
type CashflowSummary struct {
	BaselineAnnualNetCash                        decimal.Decimal `yaml:"baselineAnnualNetCash" json:"baselineAnnualNetCash"`
	PackagedAnnualNetCashBeforeOutOfPackageCosts decimal.Decimal `yaml:"packagedAnnualNetCashBeforeOutOfPackageCosts" json:"packagedAnnualNetCashBeforeOutOfPackageCosts"`
	AnnualNetBenefitEstimate                     decimal.Decimal `yaml:"annualNetBenefitEstimate" json:"annualNetBenefitEstimate"`
	BaselinePerPayNetCash                        decimal.Decimal `yaml:"baselinePerPayNetCash" json:"baselinePerPayNetCash"`
	PackagedPerPayNetCash                        decimal.Decimal `yaml:"packagedPerPayNetCash" json:"packagedPerPayNetCash"`
	PerPayNetBenefitEstimate                     decimal.Decimal `yaml:"perPayNetBenefitEstimate" json:"perPayNetBenefitEstimate"`
}

// BuyOutrightComparison contrasts the novated lease with paying cash.
// Differences are novated minus outright.
type BuyOutrightComparison struct {
	MonthlyEquivalentCost               decimal.Decimal `yaml:"monthlyEquivalentCost" json:"monthlyEquivalentCost"`
	TotalCashOutlayOverTerm             decimal.Decimal `yaml:"totalCashOutlayOverTerm" json:"totalCashOutlayOverTerm"`
	NovatedMonthlyOutOfPocket           decimal.Decimal `yaml:"novatedMonthlyOutOfPocket" json:"novatedMonthlyOutOfPocket"`
	NovatedTotalCostOverTerm            decimal.Decimal `yaml:"novatedTotalCostOverTerm" json:"novatedTotalCostOverTerm"`
	MonthlyDifference                   decimal.Decimal `yaml:"monthlyDifference" json:"monthlyDifference"`
	TotalCostDifferenceOverTerm         decimal.Decimal `yaml:"totalCostDifferenceOverTerm" json:"totalCostDifferenceOverTerm"`
	OpportunityCostRateAssumed          decimal.Decimal `yaml:"opportunityCostRateAssumed" json:"opportunityCostRateAssumed"`
	EstimatedForgoneEarningsOverTerm    decimal.Decimal `yaml:"estimatedForgoneEarningsOverTerm" json:"estimatedForgoneEarningsOverTerm"`
	EstimatedLCTIncludedInPurchasePrice decimal.Decimal `yaml:"estimatedLctIncludedInPurchasePrice" json:"estimatedLctIncludedInPurchasePrice"`
}

// AppliedAssumption is an audit entry for a default or constant the engine used
type AppliedAssumption struct {
	Key        string     `yaml:"key" json:"key"`
	Label      string     `yaml:"label" json:"label"`
	Value      any        `yaml:"value" json:"value"`
	Source     string     `yaml:"source,omitempty" json:"source,omitempty"`
	Confidence Confidence `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Inferred   bool       `yaml:"inferred,omitempty" json:"inferred,omitempty"`
}

// InferredParameter is an audit entry for a value the engine derived itself
type InferredParameter struct {
	Key          string          `yaml:"key" json:"key"`
	DerivedValue any             `yaml:"derivedValue" json:"derivedValue"`
	Method       InferenceMethod `yaml:"method" json:"method"`
	Confidence   Confidence      `yaml:"confidence" json:"confidence"`
	Note         string          `yaml:"note" json:"note"`
}

// HeadlineMetrics are the summary figures shown first to a reader
type HeadlineMetrics struct {
	MonthlyOutOfPocket       decimal.Decimal `yaml:"monthlyOutOfPocket" json:"monthlyOutOfPocket"`
	TotalEffectiveAnnualCost decimal.Decimal `yaml:"totalEffectiveAnnualCost" json:"totalEffectiveAnnualCost"`
	ResidualValue            decimal.Decimal `yaml:"residualValue" json:"residualValue"`
}
