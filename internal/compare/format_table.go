package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("NOVATED LEASE SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ScenarioPath != "" {
		sb.WriteString(fmt.Sprintf("Scenario File: %s\n", compSet.ScenarioPath))
	}
	sb.WriteString("\n")

	nameWidth := 26
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Monthly Cost",
		numWidth, "Tax Savings/yr",
		numWidth, "Net Benefit/yr",
		numWidth, "Term Cost"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if !alt.OK {
				for _, issue := range alt.Issues {
					sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", issue.Severity, issue.Code, issue.Message))
				}
				continue
			}

			// Lower monthly cost is better
			sb.WriteString(fmt.Sprintf("  Monthly Cost:     %s$%s\n",
				tf.deltaSymbol(alt.MonthlyDiffFromBase),
				alt.MonthlyDiffFromBase.Abs().StringFixed(2)))
			sb.WriteString(fmt.Sprintf("  Tax Savings:      %s$%s\n",
				tf.deltaSymbol(alt.SavingsDiffFromBase),
				alt.SavingsDiffFromBase.Abs().StringFixed(0)))
			if !alt.TermCostDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Term Cost:        %s$%s\n",
					tf.deltaSymbol(alt.TermCostDiffFromBase),
					tf.formatDecimal(alt.TermCostDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	if !result.OK {
		return fmt.Sprintf("%-*s %*s\n", nameWidth, tf.truncate(name, nameWidth), numWidth, "invalid")
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+result.MonthlyOutOfPocket.StringFixed(2),
		numWidth, "$"+tf.formatDecimal(result.AnnualTaxSavings),
		numWidth, "$"+tf.formatDecimal(result.AnnualNetBenefit),
		numWidth, "$"+tf.formatDecimal(result.NovatedTotalCostOverTerm))
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		switch {
		case !alt.OK:
			change = "invalid"
		case alt.MonthlyDiffFromBase.IsPositive():
			change = fmt.Sprintf("+$%s/mo", alt.MonthlyDiffFromBase.StringFixed(2))
		case alt.MonthlyDiffFromBase.IsNegative():
			change = fmt.Sprintf("-$%s/mo", alt.MonthlyDiffFromBase.Abs().StringFixed(2))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
