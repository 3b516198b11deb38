package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

var (
	consoleTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#7D56F4"))
	consoleSectionStyle = lipgloss.NewStyle().
				Bold(true)
	consoleLabelStyle = lipgloss.NewStyle().
				Width(38)
	consoleErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F87"))
	consoleWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFAF00"))
	consoleMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#767676"))
)

// ConsoleVerboseFormatter renders every breakdown with its audit trail
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	out := report.Result

	fmt.Fprintln(&buf, strings.Repeat("=", 70))
	fmt.Fprintln(&buf, consoleTitleStyle.Render("NOVATED LEASE ANALYSIS: "+report.ScenarioName))
	fmt.Fprintln(&buf, strings.Repeat("=", 70))
	fmt.Fprintln(&buf)

	if out == nil {
		fmt.Fprintln(&buf, consoleErrorStyle.Render("No result"))
		return buf.Bytes(), nil
	}

	if !out.OK {
		fmt.Fprintln(&buf, consoleErrorStyle.Render("SCENARIO INVALID"))
		fmt.Fprintln(&buf)
	}

	for _, s := range sections(report) {
		fmt.Fprintln(&buf, consoleSectionStyle.Render(strings.ToUpper(s.Title)))
		for _, r := range s.Rows {
			fmt.Fprintf(&buf, "  %s %s\n", consoleLabelStyle.Render(r.Label+":"), r.display())
		}
		fmt.Fprintln(&buf)
	}

	writeConsoleIssues(&buf, out)

	if len(out.InferredParameters) > 0 {
		fmt.Fprintln(&buf, consoleSectionStyle.Render("INFERRED PARAMETERS"))
		for _, p := range out.InferredParameters {
			fmt.Fprintf(&buf, "  %s = %s [%s, %s confidence]\n", p.Key, formatValue(p.DerivedValue), p.Method, p.Confidence)
			if p.Note != "" {
				fmt.Fprintf(&buf, "    %s\n", consoleMutedStyle.Render(p.Note))
			}
		}
		fmt.Fprintln(&buf)
	}

	if len(out.Assumptions) > 0 {
		fmt.Fprintln(&buf, consoleSectionStyle.Render("ASSUMPTIONS APPLIED"))
		for _, a := range out.Assumptions {
			line := fmt.Sprintf("  %s: %s", a.Label, formatValue(a.Value))
			if a.Source != "" {
				line += " " + consoleMutedStyle.Render("("+a.Source+")")
			}
			fmt.Fprintln(&buf, line)
		}
		fmt.Fprintln(&buf)
	}

	if out.OK {
		fmt.Fprintln(&buf, consoleSectionStyle.Render("MODEL LIMITS"))
		for _, a := range DefaultAssumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
	}

	return buf.Bytes(), nil
}

func writeConsoleIssues(buf *bytes.Buffer, out *domain.Output) {
	errs := out.Errors()
	warnings := out.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		return
	}
	fmt.Fprintln(buf, consoleSectionStyle.Render("VALIDATION"))
	for _, issue := range errs {
		fmt.Fprintf(buf, "  %s %s\n", consoleErrorStyle.Render("error:"), issueLine(issue))
	}
	for _, issue := range warnings {
		fmt.Fprintf(buf, "  %s %s\n", consoleWarningStyle.Render("warning:"), issueLine(issue))
	}
	fmt.Fprintln(buf)
}

// ConsoleFormatter prints the headline figures only
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	out := report.Result

	fmt.Fprintf(&buf, "NOVATED LEASE SUMMARY: %s\n", report.ScenarioName)
	fmt.Fprintln(&buf, strings.Repeat("-", 50))

	if out == nil || !out.OK {
		fmt.Fprintln(&buf, "Result: invalid scenario")
		if out != nil {
			for _, issue := range out.Errors() {
				fmt.Fprintf(&buf, "  x %s\n", issueLine(issue))
			}
		}
		return buf.Bytes(), nil
	}

	if report.HasHeadline {
		fmt.Fprintf(&buf, "Monthly out of pocket:   %s\n", FormatCurrency(report.Headline.MonthlyOutOfPocket))
		fmt.Fprintf(&buf, "Effective annual cost:   %s\n", FormatCurrency(report.Headline.TotalEffectiveAnnualCost))
	}
	if out.TaxComparison != nil {
		fmt.Fprintf(&buf, "Tax and levy savings:    %s\n", FormatCurrency(out.TaxComparison.TaxAndLevySavings))
	}
	if out.Cashflow != nil {
		fmt.Fprintf(&buf, "Net benefit per pay:     %s\n", FormatCurrency(out.Cashflow.PerPayNetBenefitEstimate))
	}
	if out.BuyOutright != nil {
		fmt.Fprintf(&buf, "Novated vs outright:     %s\n", FormatCurrency(out.BuyOutright.TotalCostDifferenceOverTerm))
	}
	for _, issue := range out.Warnings() {
		fmt.Fprintf(&buf, "  ! %s\n", issueLine(issue))
	}
	return buf.Bytes(), nil
}
