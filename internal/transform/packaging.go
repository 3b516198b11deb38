package transform

import (
	"fmt"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// SetECM turns the employee contribution method on or off
type SetECM struct {
	Enabled bool
}

func (se *SetECM) Name() string {
	return "set_ecm"
}

func (se *SetECM) Description() string {
	if se.Enabled {
		return "Use the employee contribution method"
	}
	return "Do not use the employee contribution method"
}

func (se *SetECM) Validate(base *domain.ScenarioInput) error {
	return requireBase(se.Name(), base)
}

func (se *SetECM) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Packaging.UseECM = se.Enabled
	return modified, nil
}

// SetRunningCostsPackaged chooses whether running costs go through the package
type SetRunningCostsPackaged struct {
	Included bool
}

func (sr *SetRunningCostsPackaged) Name() string {
	return "set_running_costs"
}

func (sr *SetRunningCostsPackaged) Description() string {
	if sr.Included {
		return "Package running costs with the lease"
	}
	return "Package finance only"
}

func (sr *SetRunningCostsPackaged) Validate(base *domain.ScenarioInput) error {
	return requireBase(sr.Name(), base)
}

func (sr *SetRunningCostsPackaged) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Packaging.IncludeRunningCostsInPackage = sr.Included
	return modified, nil
}

// SetOpportunityRate sets the return assumed on cash kept by leasing
type SetOpportunityRate struct {
	RatePct float64
}

func (so *SetOpportunityRate) Name() string {
	return "set_opportunity_rate"
}

func (so *SetOpportunityRate) Description() string {
	return fmt.Sprintf("Assume %.2f%% return on cash not spent on the car", so.RatePct)
}

func (so *SetOpportunityRate) Validate(base *domain.ScenarioInput) error {
	if so.RatePct < 0 {
		return NewTransformError(so.Name(), "validate", fmt.Sprintf("rate must be non-negative, got %.2f", so.RatePct), nil)
	}
	return requireBase(so.Name(), base)
}

func (so *SetOpportunityRate) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Comparison = &domain.ComparisonInput{OpportunityCostRatePct: domain.Float(so.RatePct)}
	return modified, nil
}
