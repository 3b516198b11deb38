package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/tui/components"
	"github.com/laofangxose/au-finance-calculators/internal/tui/tuistyles"
)

const maxIssueLines = 6

// View renders the current state of the explorer
func (m Model) View() string {
	var body string
	switch {
	case m.err != nil:
		body = tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
	case m.scenario == nil:
		body = tuistyles.InfoStyle.Render("Loading scenario...")
	default:
		body = m.renderBody()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		body,
		"",
		m.help.View(m.keys),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("Novated Lease Explorer")
	if m.name != "" {
		title += tuistyles.SubtitleStyle.Render(" / " + m.name)
	}
	if m.scenario == nil {
		return title
	}

	template := m.TemplateName()
	if template == "" {
		template = "none"
	}
	status := []string{
		string(m.scenario.Vehicle.VehicleType),
		"template: " + template,
		"ECM " + onOff(m.scenario.Packaging.UseECM),
		"running costs " + onOff(m.scenario.Packaging.IncludeRunningCostsInPackage),
	}
	if m.calculating {
		status = append(status, "calculating")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(strings.Join(status, " • ")))
}

func (m Model) renderBody() string {
	params := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		params = append(params, s.Render())
	}
	left := tuistyles.PanelStyle.Render(strings.Join(params, "\n\n"))
	right := m.renderResults()

	if m.width < 100 {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderResults() string {
	out := m.output
	if out == nil {
		return tuistyles.InfoStyle.Render("Calculating...")
	}

	if !out.OK {
		lines := []string{tuistyles.ErrorStyle.Render("Scenario invalid")}
		lines = append(lines, issueLines(out.Errors())...)
		return strings.Join(lines, "\n")
	}

	dp := m.engine.Assumptions.RoundingPrecisionDP
	headline, _ := calculation.Headline(out, dp)
	var ref domain.HeadlineMetrics
	if m.reference != nil {
		ref, _ = calculation.Headline(m.reference, dp)
	}

	cards := []*components.MetricCard{
		m.moneyCard("Monthly out-of-pocket", headline.MonthlyOutOfPocket, ref.MonthlyOutOfPocket, true),
		m.moneyCard("Effective annual cost", headline.TotalEffectiveAnnualCost, ref.TotalEffectiveAnnualCost, true),
	}
	if out.TaxComparison != nil {
		var refSavings decimal.Decimal
		if m.reference != nil {
			refSavings = m.reference.TaxComparison.TaxAndLevySavings
		}
		cards = append(cards, m.moneyCard("Tax and levy savings", out.TaxComparison.TaxAndLevySavings, refSavings, false))
	}
	if out.Cashflow != nil {
		var refBenefit decimal.Decimal
		if m.reference != nil {
			refBenefit = m.reference.Cashflow.AnnualNetBenefitEstimate
		}
		cards = append(cards, m.moneyCard("Annual net benefit", out.Cashflow.AnnualNetBenefitEstimate, refBenefit, false))
	}
	if out.BuyOutright != nil {
		cards = append(cards, components.NewMoneyCard("Lease vs cash (term)", out.BuyOutright.TotalCostDifferenceOverTerm).
			WithDescription(leaseVersusCash(out.BuyOutright.TotalCostDifferenceOverTerm)))
	}
	cards = append(cards, components.NewMoneyCard("Residual value", headline.ResidualValue))

	sections := []string{components.MetricGrid(cards, 2)}
	if warnings := out.Warnings(); len(warnings) > 0 {
		sections = append(sections, strings.Join(issueLines(warnings), "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// moneyCard shows the change from the loaded scenario once one is known
func (m Model) moneyCard(label string, value, reference decimal.Decimal, lowerIsBetter bool) *components.MetricCard {
	card := components.NewMoneyCard(label, value)
	if m.reference != nil {
		card.WithDelta(value.Sub(reference), lowerIsBetter)
	}
	return card
}

func leaseVersusCash(diff decimal.Decimal) string {
	switch diff.Sign() {
	case 1:
		return "paying cash is cheaper"
	case -1:
		return "leasing is cheaper"
	}
	return "no difference"
}

func issueLines(issues []domain.ValidationIssue) []string {
	var lines []string
	for i, issue := range issues {
		if i == maxIssueLines {
			lines = append(lines, tuistyles.SubtitleStyle.Render(fmt.Sprintf("  ... %d more", len(issues)-maxIssueLines)))
			break
		}
		style := tuistyles.WarningStyle
		if issue.Severity == domain.SeverityError {
			style = tuistyles.ErrorStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("  %s: %s", issue.Code, issue.Message)))
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
