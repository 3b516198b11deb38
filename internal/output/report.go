package output

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

var (
	numberPrinter = message.NewPrinter(language.English)
	titleCaser    = cases.Title(language.English)
)

// FormatCurrency formats a dollar amount with thousands separators and cents
func FormatCurrency(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	if f < 0 {
		return "-$" + numberPrinter.Sprintf("%.2f", -f)
	}
	return "$" + numberPrinter.Sprintf("%.2f", f)
}

// FormatPercentage formats a value already expressed in percent
func FormatPercentage(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// FormatFraction formats a 0..1 rate as a percentage
func FormatFraction(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

// row is one labelled figure. Amount rows are money; the rest carry preformatted text.
type row struct {
	Label  string
	Amount *decimal.Decimal
	Text   string
}

func (r row) display() string {
	if r.Amount != nil {
		return FormatCurrency(*r.Amount)
	}
	return r.Text
}

func (r row) raw() string {
	if r.Amount != nil {
		return r.Amount.StringFixed(2)
	}
	return r.Text
}

type section struct {
	Title string
	Rows  []row
}

func money(label string, d decimal.Decimal) row {
	return row{Label: label, Amount: &d}
}

func text(label, value string) row {
	return row{Label: label, Text: value}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// sections lays out a successful result in display order. Failure snapshots have none.
func sections(r *Report) []section {
	out := r.Result
	if out == nil || !out.OK {
		return nil
	}

	var result []section
	if r.HasHeadline {
		result = append(result, section{Title: titleCaser.String("headline"), Rows: []row{
			money("Monthly out of pocket", r.Headline.MonthlyOutOfPocket),
			money("Effective annual cost", r.Headline.TotalEffectiveAnnualCost),
			money("Residual value", r.Headline.ResidualValue),
		}})
	}

	if l := out.Lease; l != nil {
		result = append(result, section{Title: titleCaser.String("lease finance"), Rows: []row{
			money("Financed amount", l.FinancedAmount),
			money("Residual value", l.ResidualValue),
			text("Residual source", string(l.ResidualSource)),
			money("Periodic repayment", l.PeriodicFinanceRepayment),
			money("Annual repayment", l.AnnualFinanceRepayment),
			money("Total repayments excluding residual", l.TotalFinanceRepaymentsExcludingResidual),
			money("Total interest", l.TotalInterestEstimate),
		}})
	}

	if f := out.FBT; f != nil {
		exemption := yesNo(f.EVExemptionApplied)
		if f.EVExemptionReason != "" {
			exemption += " (" + f.EVExemptionReason + ")"
		}
		result = append(result, section{Title: titleCaser.String("fringe benefits tax"), Rows: []row{
			text("Method", f.Method),
			money("Base value", f.BaseValueForFBT),
			text("Statutory rate", FormatFraction(f.StatutoryRateApplied)),
			text("Days available", fmt.Sprintf("%d of %d", f.DaysAvailable, f.FBTYearDays)),
			money("Gross taxable value", f.GrossTaxableValueBeforeExemptions),
			text("EV exemption", exemption),
			money("Taxable value after exemption", f.TaxableValueAfterEVExemption),
			money("ECM contribution", f.EmployeeContributionAppliedForECM),
			money("Employer taxable value", f.EstimatedEmployerFBTTaxableValueFinal),
		}})
	}

	if p := out.Packaging; p != nil {
		result = append(result, section{Title: titleCaser.String("salary packaging"), Rows: []row{
			money("Running costs packaged", p.AnnualRunningCostsPackaged),
			money("Finance repayments packaged", p.AnnualFinanceRepaymentsPackaged),
			money("Package cost before ECM", p.AnnualPackageCostBeforeECM),
			money("Annual pre-tax deduction", p.AnnualPreTaxDeduction),
			money("Annual post-tax deduction", p.AnnualPostTaxDeduction),
			money("Per pay pre-tax deduction", p.PerPayPreTaxDeduction),
			money("Per pay post-tax deduction", p.PerPayPostTaxDeduction),
			text("Pay periods per year", strconv.Itoa(p.PayPeriodsPerYear)),
		}})
	}

	if t := out.TaxComparison; t != nil {
		result = append(result, section{Title: titleCaser.String("tax comparison"), Rows: []row{
			money("Baseline taxable income", t.BaselineTaxableIncome),
			money("Packaged taxable income", t.PackagedTaxableIncome),
			money("Baseline income tax", t.BaselineIncomeTax),
			money("Packaged income tax", t.PackagedIncomeTax),
			money("Baseline Medicare levy", t.BaselineMedicareLevy),
			money("Packaged Medicare levy", t.PackagedMedicareLevy),
			money("Tax and levy savings", t.TaxAndLevySavings),
		}})
	}

	if c := out.Cashflow; c != nil {
		result = append(result, section{Title: titleCaser.String("cashflow"), Rows: []row{
			money("Baseline annual net cash", c.BaselineAnnualNetCash),
			money("Packaged annual net cash", c.PackagedAnnualNetCashBeforeOutOfPackageCosts),
			money("Annual net benefit", c.AnnualNetBenefitEstimate),
			money("Baseline per pay net cash", c.BaselinePerPayNetCash),
			money("Packaged per pay net cash", c.PackagedPerPayNetCash),
			money("Per pay net benefit", c.PerPayNetBenefitEstimate),
		}})
	}

	if b := out.BuyOutright; b != nil {
		result = append(result, section{Title: titleCaser.String("buy outright comparison"), Rows: []row{
			money("Outright monthly equivalent", b.MonthlyEquivalentCost),
			money("Outright total over term", b.TotalCashOutlayOverTerm),
			money("Novated monthly out of pocket", b.NovatedMonthlyOutOfPocket),
			money("Novated total over term", b.NovatedTotalCostOverTerm),
			money("Monthly difference", b.MonthlyDifference),
			money("Total difference", b.TotalCostDifferenceOverTerm),
			text("Opportunity cost rate", FormatPercentage(b.OpportunityCostRateAssumed)),
			money("Forgone earnings", b.EstimatedForgoneEarningsOverTerm),
			money("Estimated LCT in price", b.EstimatedLCTIncludedInPurchasePrice),
		}})
	}

	return result
}

// issueLine renders one validation issue on a single line
func issueLine(issue domain.ValidationIssue) string {
	if issue.Field == "" {
		return fmt.Sprintf("%s: %s", issue.Code, issue.Message)
	}
	return fmt.Sprintf("%s (%s): %s", issue.Code, issue.Field, issue.Message)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
