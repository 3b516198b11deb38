package transform

import (
	"math"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// QuoteMode rebuilds the finance inputs from a provider quote. The stated rate
// is cleared so the engine has to infer it from the quote, and the quote's
// fees, residual and running cost coverage replace the scenario's own values
// where the quote gives them.
type QuoteMode struct{}

func (qm *QuoteMode) Name() string {
	return "quote_mode"
}

func (qm *QuoteMode) Description() string {
	return "Model the provider quote and infer its interest rate"
}

func (qm *QuoteMode) Validate(base *domain.ScenarioInput) error {
	if err := requireBase(qm.Name(), base); err != nil {
		return err
	}
	if base.QuoteContext == nil {
		return NewTransformError(qm.Name(), "validate", "scenario has no quote context", nil)
	}
	return nil
}

func (qm *QuoteMode) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	quote := modified.QuoteContext

	modified.Finance.AnnualInterestRatePct = nil
	if v, ok := present(quote.QuotedMonthlyAdminFee); ok {
		modified.Finance.MonthlyAccountKeepingFee = v
	}
	if v, ok := present(quote.QuotedUpfrontFeesTotal); ok {
		modified.Finance.EstablishmentFee = v
	}
	if v, ok := present(quote.QuotedResidualValue); ok {
		modified.Finance.ResidualValueOverride = domain.Float(v)
	} else if pct, ok := present(quote.QuotedResidualPct); ok {
		modified.Finance.ResidualValueOverride = domain.Float(modified.Vehicle.PurchasePriceInclGST * pct / 100)
	}
	if quote.QuoteIncludesRunningCosts {
		modified.Packaging.IncludeRunningCostsInPackage = true
	}
	return modified, nil
}

func present(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
