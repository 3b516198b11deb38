package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ReferenceTables is the immutable, year-keyed rule data the engine reads.
// It is loaded once and shared by every calculation.
type ReferenceTables struct {
	Metadata    TablesMetadata               `yaml:"metadata" json:"metadata"`
	Assumptions EngineAssumptions            `yaml:"assumptions" json:"assumptions"`
	FBT         FBTConfig                    `yaml:"fbt" json:"fbt"`
	Residuals   ResidualTable                `yaml:"residuals" json:"residuals"`
	LCT         LCTConfig                    `yaml:"lct" json:"lct"`
	Years       map[FinancialYear]YearTables `yaml:"years" json:"years"`
}

// TablesMetadata describes the data set
type TablesMetadata struct {
	Jurisdiction string `yaml:"jurisdiction" json:"jurisdiction"`
	LastUpdated  string `yaml:"last_updated" json:"last_updated"`
	Description  string `yaml:"description" json:"description"`
}

// EngineAssumptions are the process-wide constants passed into the engine
type EngineAssumptions struct {
	Source                            string           `yaml:"source" json:"source"`
	RoundingPrecisionDP               int32            `yaml:"rounding_precision_dp" json:"rounding_precision_dp"`
	DefaultQuoteInterestRatePct       decimal.Decimal  `yaml:"default_quote_interest_rate_pct" json:"default_quote_interest_rate_pct"`
	DefaultFinancePaymentsPerYear     int              `yaml:"default_finance_payments_per_year" json:"default_finance_payments_per_year"`
	HighDeductionWarningRatioOfSalary decimal.Decimal  `yaml:"high_deduction_warning_ratio_of_salary" json:"high_deduction_warning_ratio_of_salary"`
	QuoteModelVarianceToleranceRatio  decimal.Decimal  `yaml:"quote_model_variance_tolerance_ratio" json:"quote_model_variance_tolerance_ratio"`
	QuoteModelVarianceModerateRatio   decimal.Decimal  `yaml:"quote_model_variance_moderate_ratio" json:"quote_model_variance_moderate_ratio"`
	DefaultOpportunityCostRatePct     decimal.Decimal  `yaml:"default_opportunity_cost_rate_pct" json:"default_opportunity_cost_rate_pct"`
	RateSolver                        RateSolverConfig `yaml:"rate_solver" json:"rate_solver"`
}

// RateSolverConfig bounds the interest rate back-solve
type RateSolverConfig struct {
	MinAnnualRate float64 `yaml:"min_annual_rate" json:"min_annual_rate"`
	MaxAnnualRate float64 `yaml:"max_annual_rate" json:"max_annual_rate"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
}

// FBTConfig holds the statutory formula settings
type FBTConfig struct {
	Source             string          `yaml:"source" json:"source"`
	Method             string          `yaml:"method" json:"method"`
	StatutoryRate      decimal.Decimal `yaml:"statutory_rate" json:"statutory_rate"`
	DefaultFBTYearDays int             `yaml:"default_fbt_year_days" json:"default_fbt_year_days"`
}

// ResidualTable maps lease years (1..5) to the minimum residual as a fraction of price
type ResidualTable struct {
	Source             string                  `yaml:"source" json:"source"`
	PercentByLeaseYear map[int]decimal.Decimal `yaml:"percent_by_lease_year" json:"percent_by_lease_year"`
}

// ForTerm returns the residual fraction for a term in months, if the term maps to a lease year
func (r ResidualTable) ForTerm(termMonths int) (decimal.Decimal, bool) {
	if termMonths <= 0 || termMonths%12 != 0 {
		return decimal.Zero, false
	}
	pct, ok := r.PercentByLeaseYear[termMonths/12]
	return pct, ok
}

// LCTConfig holds luxury car tax settings
type LCTConfig struct {
	Source string          `yaml:"source" json:"source"`
	Rate   decimal.Decimal `yaml:"rate" json:"rate"`
}

// YearTables are the rules for one financial year
type YearTables struct {
	IncomeTax    *IncomeTaxTable `yaml:"income_tax,omitempty" json:"income_tax,omitempty"`
	MedicareLevy *MedicareTable  `yaml:"medicare_levy,omitempty" json:"medicare_levy,omitempty"`
	LCT          *LCTThresholds  `yaml:"lct_thresholds,omitempty" json:"lct_thresholds,omitempty"`
}

// IncomeTaxTable is the resident income tax schedule for a year
type IncomeTaxTable struct {
	Source   string       `yaml:"source" json:"source"`
	Brackets []TaxBracket `yaml:"brackets" json:"brackets"`
}

// TaxBracket is one step of the schedule. UpperThreshold is nil for the top bracket.
type TaxBracket struct {
	Threshold      decimal.Decimal  `yaml:"threshold" json:"threshold"`
	UpperThreshold *decimal.Decimal `yaml:"upper_threshold" json:"upper_threshold"`
	BaseTax        decimal.Decimal  `yaml:"base_tax" json:"base_tax"`
	MarginalRate   decimal.Decimal  `yaml:"marginal_rate" json:"marginal_rate"`
}

// Contains reports whether income falls inside the bracket
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Threshold) {
		return false
	}
	return b.UpperThreshold == nil || income.LessThanOrEqual(*b.UpperThreshold)
}

// MedicareTable holds the levy rate for a year
type MedicareTable struct {
	Source   string          `yaml:"source" json:"source"`
	LevyRate decimal.Decimal `yaml:"levy_rate" json:"levy_rate"`
}

// LCTThresholds are the luxury car tax thresholds for a year
type LCTThresholds struct {
	FuelEfficient decimal.Decimal `yaml:"fuel_efficient" json:"fuel_efficient"`
	Other         decimal.Decimal `yaml:"other" json:"other"`
}

// For returns the threshold relevant to the vehicle type
func (t LCTThresholds) For(v VehicleType) decimal.Decimal {
	if v.IsZeroEmission() {
		return t.FuelEfficient
	}
	return t.Other
}

// Year returns the tables for a financial year
func (r *ReferenceTables) Year(year FinancialYear) (YearTables, bool) {
	if r == nil {
		return YearTables{}, false
	}
	t, ok := r.Years[year]
	return t, ok
}

// SupportedYears returns the configured financial years in order
func (r *ReferenceTables) SupportedYears() []FinancialYear {
	if r == nil {
		return nil
	}
	years := make([]FinancialYear, 0, len(r.Years))
	for y := range r.Years {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}
