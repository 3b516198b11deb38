package transform

import (
	"fmt"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// SetSalary replaces the gross annual salary
type SetSalary struct {
	Amount float64
}

func (ss *SetSalary) Name() string {
	return "set_salary"
}

func (ss *SetSalary) Description() string {
	return fmt.Sprintf("Set gross salary to $%.0f", ss.Amount)
}

func (ss *SetSalary) Validate(base *domain.ScenarioInput) error {
	if ss.Amount <= 0 {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("salary must be positive, got %.2f", ss.Amount), nil)
	}
	return requireBase(ss.Name(), base)
}

func (ss *SetSalary) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Salary.GrossAnnualSalary = ss.Amount
	return modified, nil
}

// SetPayFrequency changes how often deductions are taken from pay
type SetPayFrequency struct {
	Frequency domain.PayFrequency
}

func (sf *SetPayFrequency) Name() string {
	return "set_pay_frequency"
}

func (sf *SetPayFrequency) Description() string {
	return fmt.Sprintf("Change pay frequency to %s", sf.Frequency)
}

func (sf *SetPayFrequency) Validate(base *domain.ScenarioInput) error {
	if !sf.Frequency.Valid() {
		return NewTransformError(sf.Name(), "validate", fmt.Sprintf("unknown pay frequency %q", sf.Frequency), nil)
	}
	return requireBase(sf.Name(), base)
}

func (sf *SetPayFrequency) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Salary.PayFrequency = sf.Frequency
	return modified, nil
}

// SetTaxYear moves the scenario to another income year
type SetTaxYear struct {
	Year domain.FinancialYear
}

func (sy *SetTaxYear) Name() string {
	return "set_tax_year"
}

func (sy *SetTaxYear) Description() string {
	return fmt.Sprintf("Use %s tax rates", sy.Year)
}

func (sy *SetTaxYear) Validate(base *domain.ScenarioInput) error {
	if sy.Year == "" {
		return NewTransformError(sy.Name(), "validate", "year cannot be empty", nil)
	}
	return requireBase(sy.Name(), base)
}

func (sy *SetTaxYear) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.TaxOptions.IncomeTaxYear = sy.Year
	return modified, nil
}
