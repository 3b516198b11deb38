package transform

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// Helper function to create a basic test scenario
func createTestScenario() *domain.ScenarioInput {
	return &domain.ScenarioInput{
		Vehicle: domain.VehicleInput{
			VehicleType:          domain.VehicleICE,
			PurchasePriceInclGST: 50000,
		},
		Finance: domain.FinanceInput{
			TermMonths:               36,
			AnnualInterestRatePct:    domain.Float(8.5),
			EstablishmentFee:         500,
			MonthlyAccountKeepingFee: 15,
			ResidualValueOverride:    domain.Float(25000),
		},
		Salary: domain.SalaryInput{
			GrossAnnualSalary: 120000,
			PayFrequency:      domain.PayFortnightly,
		},
		TaxOptions: domain.TaxOptionsInput{
			IncomeTaxYear:       "FY2025-26",
			IncludeMedicareLevy: true,
		},
		Packaging: domain.PackagingInput{
			UseECM:                       true,
			IncludeRunningCostsInPackage: true,
		},
	}
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&SetTerm{Months: 48}})
	if err == nil {
		t.Error("Expected error for nil scenario, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got same instance")
	}
	if result.Salary.GrossAnnualSalary != base.Salary.GrossAnnualSalary {
		t.Errorf("Expected salary %.0f, got %.0f", base.Salary.GrossAnnualSalary, result.Salary.GrossAnnualSalary)
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&SetTerm{Months: 48}, nil})
	if err == nil {
		t.Error("Expected error for nil transform in list, got nil")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&SetTerm{Months: 30}})
	if err == nil {
		t.Fatal("Expected validation error for a 30 month term, got nil")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected a TransformError in the chain, got %T", err)
	}
	if te.TransformName != "set_term" {
		t.Errorf("Expected transform name set_term, got %s", te.TransformName)
	}
}

func TestApplyTransforms_ReportsFailingStep(t *testing.T) {
	base := createTestScenario()
	_, err := ApplyTransforms(base, []ScenarioTransform{&SetTerm{Months: 48}, &SetTerm{Months: 30}})
	if err == nil {
		t.Fatal("Expected an error from the second step, got nil")
	}
	if !strings.Contains(err.Error(), "step 2 (set_term)") {
		t.Errorf("Expected the error to name step 2, got %q", err.Error())
	}
	if base.Finance.TermMonths != 36 {
		t.Errorf("Expected the base term to stay 36, got %d", base.Finance.TermMonths)
	}
}

func TestApplyTransforms_MultipleTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, []ScenarioTransform{
		&SetTerm{Months: 48},
		&SetSalary{Amount: 90000},
		&SetECM{Enabled: false},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Finance.TermMonths != 48 {
		t.Errorf("Expected term 48, got %d", result.Finance.TermMonths)
	}
	if result.Finance.ResidualValueOverride != nil {
		t.Error("Expected residual override to be cleared by the term change")
	}
	if result.Salary.GrossAnnualSalary != 90000 {
		t.Errorf("Expected salary 90000, got %.0f", result.Salary.GrossAnnualSalary)
	}
	if result.Packaging.UseECM {
		t.Error("Expected ECM to be off")
	}

	// Original should be unchanged
	if base.Finance.TermMonths != 36 || base.Finance.ResidualValueOverride == nil || !base.Packaging.UseECM {
		t.Error("Original scenario was modified")
	}
}

func TestApplyTransforms_TransformChaining(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&AdjustInterestRate{DeltaPct: 0.5},
		&AdjustInterestRate{DeltaPct: 0.5},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got := *result.Finance.AnnualInterestRatePct; got != 9.5 {
		t.Errorf("Expected rate 9.5, got %.2f", got)
	}
}

func TestTransforms_Validate(t *testing.T) {
	base := createTestScenario()
	noRate := createTestScenario()
	noRate.Finance.AnnualInterestRatePct = nil

	tests := []struct {
		name      string
		transform ScenarioTransform
		base      *domain.ScenarioInput
		wantErr   bool
	}{
		{"price ok", &SetPurchasePrice{Price: 40000}, base, false},
		{"negative price", &SetPurchasePrice{Price: -1}, base, true},
		{"vehicle type ok", &SetVehicleType{VehicleType: domain.VehiclePHEV}, base, false},
		{"unknown vehicle type", &SetVehicleType{VehicleType: "steam"}, base, true},
		{"term not allowed", &SetTerm{Months: 72}, base, true},
		{"rate too high", &SetInterestRate{RatePct: 45}, base, true},
		{"adjust without rate", &AdjustInterestRate{DeltaPct: 1}, noRate, true},
		{"adjust below zero", &AdjustInterestRate{DeltaPct: -9}, base, true},
		{"negative residual", &SetResidualOverride{Amount: -5}, base, true},
		{"payments not allowed", &SetPaymentsPerYear{Payments: 4}, base, true},
		{"zero salary", &SetSalary{Amount: 0}, base, true},
		{"unknown frequency", &SetPayFrequency{Frequency: "daily"}, base, true},
		{"empty year", &SetTaxYear{}, base, true},
		{"negative opportunity rate", &SetOpportunityRate{RatePct: -1}, base, true},
		{"quote mode without quote", &QuoteMode{}, base, true},
		{"nil base", &SetECM{Enabled: true}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transform.Validate(tt.base)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetPurchasePrice_ClearsStaleResidual(t *testing.T) {
	result, err := (&SetPurchasePrice{Price: 20000}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	if result.Vehicle.PurchasePriceInclGST != 20000 {
		t.Errorf("Expected price 20000, got %.0f", result.Vehicle.PurchasePriceInclGST)
	}
	if result.Finance.ResidualValueOverride != nil {
		t.Error("Expected residual override above the new price to be cleared")
	}

	result, err = (&SetPurchasePrice{Price: 60000}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	if result.Finance.ResidualValueOverride == nil {
		t.Error("Expected residual override below the new price to be kept")
	}
}

func TestSetVehicleType_ZeroEmissionEnablesExemption(t *testing.T) {
	result, err := (&SetVehicleType{VehicleType: domain.VehicleBEV}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Vehicle.EligibleForEVFBTExemption || !result.Packaging.EVFBTExemptionToggle {
		t.Error("Expected exemption flags to be set for a BEV")
	}

	result, err = (&SetVehicleType{VehicleType: domain.VehicleHEV}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	if result.Vehicle.EligibleForEVFBTExemption {
		t.Error("Expected exemption flag to stay off for a hybrid")
	}
}

func TestSetResidualOverride(t *testing.T) {
	result, _ := (&SetResidualOverride{Amount: 30000}).Apply(createTestScenario())
	if result.Finance.ResidualValueOverride == nil || *result.Finance.ResidualValueOverride != 30000 {
		t.Error("Expected residual override of 30000")
	}

	result, _ = (&SetResidualOverride{Amount: 0}).Apply(createTestScenario())
	if result.Finance.ResidualValueOverride != nil {
		t.Error("Expected zero to clear the override")
	}
}

func TestSetOpportunityRate(t *testing.T) {
	result, _ := (&SetOpportunityRate{RatePct: 4.5}).Apply(createTestScenario())
	if result.Comparison == nil || *result.Comparison.OpportunityCostRatePct != 4.5 {
		t.Error("Expected opportunity rate 4.5")
	}
}

func TestQuoteMode(t *testing.T) {
	base := createTestScenario()
	base.Packaging.IncludeRunningCostsInPackage = false
	base.QuoteContext = &domain.QuoteContextInput{
		ProviderName:               "Acme Leasing",
		QuotedAnnualDeductionTotal: domain.Float(19800),
		QuotedMonthlyAdminFee:      domain.Float(18),
		QuotedUpfrontFeesTotal:     domain.Float(650),
		QuotedResidualPct:          domain.Float(46.88),
		QuoteIncludesRunningCosts:  true,
	}

	qm := &QuoteMode{}
	if err := qm.Validate(base); err != nil {
		t.Fatalf("Expected quote mode to validate, got: %v", err)
	}
	result, err := qm.Apply(base)
	if err != nil {
		t.Fatal(err)
	}

	if result.Finance.AnnualInterestRatePct != nil {
		t.Error("Expected stated rate to be cleared")
	}
	if result.Finance.MonthlyAccountKeepingFee != 18 {
		t.Errorf("Expected admin fee 18, got %.2f", result.Finance.MonthlyAccountKeepingFee)
	}
	if result.Finance.EstablishmentFee != 650 {
		t.Errorf("Expected establishment fee 650, got %.2f", result.Finance.EstablishmentFee)
	}
	if result.Finance.ResidualValueOverride == nil || math.Abs(*result.Finance.ResidualValueOverride-23440) > 1e-6 {
		t.Errorf("Expected residual 23440 from the quoted percentage, got %v", result.Finance.ResidualValueOverride)
	}
	if !result.Packaging.IncludeRunningCostsInPackage {
		t.Error("Expected running costs to be packaged when the quote includes them")
	}
	if base.Finance.AnnualInterestRatePct == nil {
		t.Error("Original scenario was modified")
	}
}

func TestQuoteMode_QuotedResidualValueWins(t *testing.T) {
	base := createTestScenario()
	base.QuoteContext = &domain.QuoteContextInput{
		QuotedResidualValue: domain.Float(24000),
		QuotedResidualPct:   domain.Float(10),
	}
	result, err := (&QuoteMode{}).Apply(base)
	if err != nil {
		t.Fatal(err)
	}
	if *result.Finance.ResidualValueOverride != 24000 {
		t.Errorf("Expected residual 24000, got %.2f", *result.Finance.ResidualValueOverride)
	}
	if result.Finance.MonthlyAccountKeepingFee != 15 {
		t.Errorf("Expected admin fee to stay 15, got %.2f", result.Finance.MonthlyAccountKeepingFee)
	}
}

func TestTransformError(t *testing.T) {
	err := NewTransformError("test_transform", "apply", "test reason", nil)

	expectedMsg := "transform test_transform (apply): test reason"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestTransformError_WithWrappedError(t *testing.T) {
	innerErr := fmt.Errorf("inner error")
	err := NewTransformError("test_transform", "validate", "validation failed", innerErr)

	expectedMsg := "transform test_transform (validate): validation failed: inner error"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
	if !errors.Is(err, innerErr) {
		t.Error("Expected wrapped error to unwrap to the inner error")
	}
}
