package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"OK",
		"Monthly Out of Pocket",
		"Effective Annual Cost",
		"Annual Tax Savings",
		"Annual Net Benefit",
		"Novated Term Cost",
		"Difference vs Outright",
		"Monthly Diff from Base",
		"Savings Diff from Base",
		"Term Cost Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.FormatBool(result.OK),
		result.MonthlyOutOfPocket.StringFixed(2),
		result.TotalEffectiveAnnualCost.StringFixed(2),
		result.AnnualTaxSavings.StringFixed(2),
		result.AnnualNetBenefit.StringFixed(2),
		result.NovatedTotalCostOverTerm.StringFixed(2),
		result.TotalCostDifferenceOverTerm.StringFixed(2),
		result.MonthlyDiffFromBase.StringFixed(2),
		result.SavingsDiffFromBase.StringFixed(2),
		result.TermCostDiffFromBase.StringFixed(2),
	}
}
