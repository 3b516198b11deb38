package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

//go:embed data/au_reference_tables.yaml
var defaultTablesYAML []byte

// TableError reports a problem with reference table data
type TableError struct {
	Year    domain.FinancialYear
	Field   string
	Message string
}

func (e *TableError) Error() string {
	if e.Year != "" {
		return fmt.Sprintf("tables %s: %s: %s", e.Year, e.Field, e.Message)
	}
	return fmt.Sprintf("tables: %s: %s", e.Field, e.Message)
}

// DefaultTables returns the embedded Australian reference tables
func DefaultTables() (*domain.ReferenceTables, error) {
	tables, err := ParseTables(defaultTablesYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded tables: %w", err)
	}
	return tables, nil
}

// DefaultTablesYAML returns the embedded table document
func DefaultTablesYAML() []byte {
	return append([]byte(nil), defaultTablesYAML...)
}

// LoadTables loads reference tables from a YAML file, or the embedded defaults when path is empty
func LoadTables(path string) (*domain.ReferenceTables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables %s: %w", path, err)
	}
	tables, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	return tables, nil
}

// ParseTables decodes and validates a reference table document
func ParseTables(data []byte) (*domain.ReferenceTables, error) {
	var tables domain.ReferenceTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateTables(&tables); err != nil {
		return nil, fmt.Errorf("table validation failed: %w", err)
	}
	return &tables, nil
}

// ValidateTables checks the tables are internally consistent
func ValidateTables(tables *domain.ReferenceTables) error {
	if tables == nil {
		return &TableError{Field: "tables", Message: "missing"}
	}
	if len(tables.Years) == 0 {
		return &TableError{Field: "years", Message: "at least one financial year is required"}
	}
	if err := validateAssumptions(tables.Assumptions); err != nil {
		return err
	}
	if err := validateFBT(tables.FBT); err != nil {
		return err
	}
	if err := validateResiduals(tables.Residuals); err != nil {
		return err
	}
	if !isFraction(tables.LCT.Rate) {
		return &TableError{Field: "lct.rate", Message: "must be between 0 and 1"}
	}

	for _, year := range tables.SupportedYears() {
		if err := validateYear(year, tables.Years[year]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssumptions(a domain.EngineAssumptions) error {
	if a.RoundingPrecisionDP < 0 || a.RoundingPrecisionDP > 8 {
		return &TableError{Field: "assumptions.rounding_precision_dp", Message: "must be between 0 and 8"}
	}
	if a.DefaultQuoteInterestRatePct.IsNegative() {
		return &TableError{Field: "assumptions.default_quote_interest_rate_pct", Message: "cannot be negative"}
	}
	if !containsInt(domain.AllowedPaymentsPerYear, a.DefaultFinancePaymentsPerYear) {
		return &TableError{Field: "assumptions.default_finance_payments_per_year", Message: "must be 12, 26 or 52"}
	}
	if !a.HighDeductionWarningRatioOfSalary.IsPositive() {
		return &TableError{Field: "assumptions.high_deduction_warning_ratio_of_salary", Message: "must be positive"}
	}
	if a.QuoteModelVarianceToleranceRatio.IsNegative() ||
		a.QuoteModelVarianceModerateRatio.LessThan(a.QuoteModelVarianceToleranceRatio) {
		return &TableError{Field: "assumptions.quote_model_variance_moderate_ratio", Message: "must be at least the tolerance ratio"}
	}
	if a.DefaultOpportunityCostRatePct.IsNegative() {
		return &TableError{Field: "assumptions.default_opportunity_cost_rate_pct", Message: "cannot be negative"}
	}
	s := a.RateSolver
	if s.MinAnnualRate < 0 || s.MaxAnnualRate <= s.MinAnnualRate {
		return &TableError{Field: "assumptions.rate_solver", Message: "rate bounds must satisfy 0 <= min < max"}
	}
	if s.MaxIterations <= 0 || s.Tolerance < 0 {
		return &TableError{Field: "assumptions.rate_solver", Message: "iterations must be positive and tolerance non-negative"}
	}
	return nil
}

func validateFBT(f domain.FBTConfig) error {
	if f.Method != domain.FBTMethodStatutory {
		return &TableError{Field: "fbt.method", Message: fmt.Sprintf("unsupported method %q", f.Method)}
	}
	if !isFraction(f.StatutoryRate) {
		return &TableError{Field: "fbt.statutory_rate", Message: "must be between 0 and 1"}
	}
	if !containsInt(domain.AllowedFBTYearDays, f.DefaultFBTYearDays) {
		return &TableError{Field: "fbt.default_fbt_year_days", Message: "must be 365 or 366"}
	}
	return nil
}

func validateResiduals(r domain.ResidualTable) error {
	for leaseYear, pct := range r.PercentByLeaseYear {
		if leaseYear < 1 || leaseYear > 5 {
			return &TableError{Field: "residuals.percent_by_lease_year", Message: fmt.Sprintf("lease year %d outside 1..5", leaseYear)}
		}
		if !pct.IsPositive() || pct.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return &TableError{Field: "residuals.percent_by_lease_year", Message: fmt.Sprintf("lease year %d residual must be in (0, 1)", leaseYear)}
		}
	}
	return nil
}

func validateYear(year domain.FinancialYear, t domain.YearTables) error {
	if t.IncomeTax != nil {
		if err := validateBrackets(year, t.IncomeTax.Brackets); err != nil {
			return err
		}
	}
	if t.MedicareLevy != nil && !isFraction(t.MedicareLevy.LevyRate) {
		return &TableError{Year: year, Field: "medicare_levy.levy_rate", Message: "must be between 0 and 1"}
	}
	if t.LCT != nil && (!t.LCT.FuelEfficient.IsPositive() || !t.LCT.Other.IsPositive()) {
		return &TableError{Year: year, Field: "lct_thresholds", Message: "thresholds must be positive"}
	}
	return nil
}

// validateBrackets requires ascending, contiguous brackets starting at zero
// with exactly one open-ended top bracket
func validateBrackets(year domain.FinancialYear, brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return &TableError{Year: year, Field: "income_tax.brackets", Message: "at least one bracket is required"}
	}
	if !brackets[0].Threshold.IsZero() {
		return &TableError{Year: year, Field: "income_tax.brackets[0].threshold", Message: "first bracket must start at 0"}
	}
	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		field := fmt.Sprintf("income_tax.brackets[%d]", i)
		if !isFraction(b.MarginalRate) {
			return &TableError{Year: year, Field: field + ".marginal_rate", Message: "must be between 0 and 1"}
		}
		if b.BaseTax.IsNegative() {
			return &TableError{Year: year, Field: field + ".base_tax", Message: "cannot be negative"}
		}
		last := i == len(brackets)-1
		if b.UpperThreshold == nil {
			if !last {
				return &TableError{Year: year, Field: field + ".upper_threshold", Message: "only the top bracket may be open-ended"}
			}
			continue
		}
		if last {
			return &TableError{Year: year, Field: field + ".upper_threshold", Message: "top bracket must be open-ended"}
		}
		if b.UpperThreshold.LessThan(b.Threshold) {
			return &TableError{Year: year, Field: field + ".upper_threshold", Message: "below threshold"}
		}
		if !brackets[i+1].Threshold.Equal(b.UpperThreshold.Add(one)) {
			return &TableError{Year: year, Field: fmt.Sprintf("income_tax.brackets[%d].threshold", i+1), Message: "brackets must be contiguous"}
		}
	}
	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
