package transform

import (
	"fmt"
	"slices"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// SetTerm changes the lease term. The residual override is dropped because the
// table minimum it was checked against changes with the term.
type SetTerm struct {
	Months int
}

func (st *SetTerm) Name() string {
	return "set_term"
}

func (st *SetTerm) Description() string {
	return fmt.Sprintf("Change lease term to %d months", st.Months)
}

func (st *SetTerm) Validate(base *domain.ScenarioInput) error {
	if !slices.Contains(domain.AllowedTermMonths, st.Months) {
		return NewTransformError(st.Name(), "validate", fmt.Sprintf("term must be one of %v, got %d", domain.AllowedTermMonths, st.Months), nil)
	}
	return requireBase(st.Name(), base)
}

func (st *SetTerm) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Finance.TermMonths = st.Months
	modified.Finance.ResidualValueOverride = nil
	return modified, nil
}

// SetInterestRate states the annual interest rate in percent
type SetInterestRate struct {
	RatePct float64
}

func (sr *SetInterestRate) Name() string {
	return "set_rate"
}

func (sr *SetInterestRate) Description() string {
	return fmt.Sprintf("Set interest rate to %.2f%%", sr.RatePct)
}

func (sr *SetInterestRate) Validate(base *domain.ScenarioInput) error {
	if sr.RatePct < 0 || sr.RatePct > 30 {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("rate must be between 0 and 30, got %.2f", sr.RatePct), nil)
	}
	return requireBase(sr.Name(), base)
}

func (sr *SetInterestRate) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Finance.AnnualInterestRatePct = domain.Float(sr.RatePct)
	return modified, nil
}

// AdjustInterestRate moves the stated rate by a number of percentage points
type AdjustInterestRate struct {
	DeltaPct float64
}

func (ar *AdjustInterestRate) Name() string {
	return "adjust_rate"
}

func (ar *AdjustInterestRate) Description() string {
	return fmt.Sprintf("Adjust interest rate by %+.2f points", ar.DeltaPct)
}

func (ar *AdjustInterestRate) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(ar.Name(), base); err != nil {
		return err
	}
	if base.Finance.AnnualInterestRatePct == nil {
		return NewTransformError(ar.Name(), "validate", "scenario has no stated interest rate", nil)
	}
	if *base.Finance.AnnualInterestRatePct+ar.DeltaPct < 0 {
		return NewTransformError(ar.Name(), "validate", "adjusted rate would be negative", nil)
	}
	return nil
}

func (ar *AdjustInterestRate) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Finance.AnnualInterestRatePct = domain.Float(*base.Finance.AnnualInterestRatePct + ar.DeltaPct)
	return modified, nil
}

// SetResidualOverride sets the balloon amount. Zero clears the override.
type SetResidualOverride struct {
	Amount float64
}

func (so *SetResidualOverride) Name() string {
	return "set_residual"
}

func (so *SetResidualOverride) Description() string {
	if so.Amount == 0 {
		return "Use the minimum residual for the term"
	}
	return fmt.Sprintf("Set residual to $%.0f", so.Amount)
}

func (so *SetResidualOverride) Validate(base *domain.ScenarioInput) error {
	if so.Amount < 0 {
		return NewTransformError(so.Name(), "validate", fmt.Sprintf("residual must be non-negative, got %.2f", so.Amount), nil)
	}
	return requireBase(so.Name(), base)
}

func (so *SetResidualOverride) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	if so.Amount == 0 {
		modified.Finance.ResidualValueOverride = nil
	} else {
		modified.Finance.ResidualValueOverride = domain.Float(so.Amount)
	}
	return modified, nil
}

// SetPaymentsPerYear changes the finance repayment frequency
type SetPaymentsPerYear struct {
	Payments int
}

func (sp *SetPaymentsPerYear) Name() string {
	return "set_payments_per_year"
}

func (sp *SetPaymentsPerYear) Description() string {
	return fmt.Sprintf("Make %d finance repayments per year", sp.Payments)
}

func (sp *SetPaymentsPerYear) Validate(base *domain.ScenarioInput) error {
	if !slices.Contains(domain.AllowedPaymentsPerYear, sp.Payments) {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("payments per year must be one of %v, got %d", domain.AllowedPaymentsPerYear, sp.Payments), nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetPaymentsPerYear) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Finance.PaymentsPerYear = domain.Int(sp.Payments)
	return modified, nil
}
