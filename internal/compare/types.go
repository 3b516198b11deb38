package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	OK           bool                     `json:"ok"`
	Issues       []domain.ValidationIssue `json:"issues,omitempty"`
	Output       *domain.Output           `json:"-"`

	// Key Metrics
	MonthlyOutOfPocket          decimal.Decimal `json:"monthlyOutOfPocket"`
	TotalEffectiveAnnualCost    decimal.Decimal `json:"totalEffectiveAnnualCost"`
	AnnualTaxSavings            decimal.Decimal `json:"annualTaxSavings"`
	AnnualNetBenefit            decimal.Decimal `json:"annualNetBenefit"`
	NovatedTotalCostOverTerm    decimal.Decimal `json:"novatedTotalCostOverTerm"`
	TotalCostDifferenceOverTerm decimal.Decimal `json:"totalCostDifferenceOverTerm"`
	ResidualValue               decimal.Decimal `json:"residualValue"`

	// Comparison to Base
	MonthlyDiffFromBase  decimal.Decimal `json:"monthlyDiffFromBase"`
	SavingsDiffFromBase  decimal.Decimal `json:"savingsDiffFromBase"`
	BenefitDiffFromBase  decimal.Decimal `json:"benefitDiffFromBase"`
	TermCostDiffFromBase decimal.Decimal `json:"termCostDiffFromBase"`

	// Scenario Specifics (extracted from the scenario for display)
	VehicleType     string `json:"vehicleType,omitempty"`
	TermMonths      int    `json:"termMonths,omitempty"`
	InterestRatePct string `json:"interestRatePct,omitempty"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	RunID              string             `json:"runId"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ScenarioPath       string             `json:"scenarioPath,omitempty"`
}

// MetricsCalculator extracts key metrics from engine outputs
type MetricsCalculator struct {
	RoundingDP int32
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(roundingDP int32) *MetricsCalculator {
	return &MetricsCalculator{RoundingDP: roundingDP}
}

// CalculateMetrics computes all comparison metrics for one calculated scenario.
// Failed scenarios keep their issues and zero metrics.
func (mc *MetricsCalculator) CalculateMetrics(name string, in *domain.ScenarioInput, out *domain.Output) ComparisonResult {
	result := ComparisonResult{
		ScenarioName: name,
		OK:           out != nil && out.OK,
		Output:       out,
	}
	if in != nil {
		result.VehicleType = string(in.Vehicle.VehicleType)
		result.TermMonths = in.Finance.TermMonths
	}
	if out == nil {
		return result
	}
	result.Issues = out.ValidationIssues

	if p, ok := out.Inferred("finance.annualInterestRatePct"); ok {
		result.InterestRatePct = fmt.Sprintf("%v (inferred)", p.DerivedValue)
	} else if in != nil && in.Finance.AnnualInterestRatePct != nil {
		result.InterestRatePct = fmt.Sprintf("%v", *in.Finance.AnnualInterestRatePct)
	}

	headline, ok := calculation.Headline(out, mc.RoundingDP)
	if !ok {
		return result
	}
	result.MonthlyOutOfPocket = headline.MonthlyOutOfPocket
	result.TotalEffectiveAnnualCost = headline.TotalEffectiveAnnualCost
	result.ResidualValue = headline.ResidualValue
	result.AnnualTaxSavings = out.TaxComparison.TaxAndLevySavings
	result.AnnualNetBenefit = out.Cashflow.AnnualNetBenefitEstimate
	result.NovatedTotalCostOverTerm = out.BuyOutright.NovatedTotalCostOverTerm
	result.TotalCostDifferenceOverTerm = out.BuyOutright.TotalCostDifferenceOverTerm
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	if !scenario.OK || !base.OK {
		return scenario
	}
	scenario.MonthlyDiffFromBase = scenario.MonthlyOutOfPocket.Sub(base.MonthlyOutOfPocket)
	scenario.SavingsDiffFromBase = scenario.AnnualTaxSavings.Sub(base.AnnualTaxSavings)
	scenario.BenefitDiffFromBase = scenario.AnnualNetBenefit.Sub(base.AnnualNetBenefit)
	scenario.TermCostDiffFromBase = scenario.NovatedTotalCostOverTerm.Sub(base.NovatedTotalCostOverTerm)
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	for _, alt := range compSet.AlternativeResults {
		if !alt.OK {
			recommendations = append(recommendations,
				fmt.Sprintf("Invalid: %s could not be calculated (%d issues)", alt.ScenarioName, len(alt.Issues)))
		}
	}
	if !compSet.BaseResult.OK {
		return recommendations
	}

	// Lowest monthly out-of-pocket
	lowestMonthly := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.OK && alt.MonthlyOutOfPocket.LessThan(lowestMonthly.MonthlyOutOfPocket) {
			lowestMonthly = alt
		}
	}
	if lowestMonthly != compSet.BaseResult {
		diff := compSet.BaseResult.MonthlyOutOfPocket.Sub(lowestMonthly.MonthlyOutOfPocket)
		recommendations = append(recommendations,
			"Lowest Monthly Cost: "+lowestMonthly.ScenarioName+" costs $"+diff.StringFixed(2)+
				" less per month than the base scenario")
	}

	// Largest tax and levy savings
	bestSavings := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.OK && alt.AnnualTaxSavings.GreaterThan(bestSavings.AnnualTaxSavings) {
			bestSavings = alt
		}
	}
	if bestSavings != compSet.BaseResult {
		diff := bestSavings.AnnualTaxSavings.Sub(compSet.BaseResult.AnnualTaxSavings)
		recommendations = append(recommendations,
			"Best Tax Savings: "+bestSavings.ScenarioName+" saves $"+diff.StringFixed(0)+
				" more tax and levy per year")
	}

	// Cheapest over the term
	cheapest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.OK && alt.NovatedTotalCostOverTerm.LessThan(cheapest.NovatedTotalCostOverTerm) {
			cheapest = alt
		}
	}
	if cheapest != compSet.BaseResult {
		diff := compSet.BaseResult.NovatedTotalCostOverTerm.Sub(cheapest.NovatedTotalCostOverTerm)
		recommendations = append(recommendations,
			"Lowest Term Cost: "+cheapest.ScenarioName+" is $"+diff.StringFixed(0)+
				" cheaper over the lease term")
	}

	// Whether leasing beats buying outright at all
	if compSet.BaseResult.TotalCostDifferenceOverTerm.IsPositive() {
		recommendations = append(recommendations,
			"Buy Outright: paying cash is $"+compSet.BaseResult.TotalCostDifferenceOverTerm.StringFixed(0)+
				" cheaper than the base lease over the term")
	}

	return recommendations
}
