package domain

// Severity grades a validation issue. Errors block the result; warnings accompany it.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is a problem found with a scenario, reported as data
type ValidationIssue struct {
	Code     string   `yaml:"code" json:"code"`
	Field    string   `yaml:"field" json:"field"`
	Message  string   `yaml:"message" json:"message"`
	Severity Severity `yaml:"severity" json:"severity"`
}

// Issue codes. These strings are stable; consumers key field errors off them.
const (
	CodeTaxYearUnsupported            = "TAX_YEAR_UNSUPPORTED"
	CodeMedicareYearUnsupported       = "MEDICARE_YEAR_UNSUPPORTED"
	CodeRequiredNumberInvalid         = "REQUIRED_NUMBER_INVALID"
	CodeNegativeValue                 = "NEGATIVE_VALUE"
	CodeNonPositiveSalary             = "NON_POSITIVE_SALARY"
	CodeInvalidTerm                   = "INVALID_TERM"
	CodeInvalidPaymentsPerYear        = "INVALID_PAYMENTS_PER_YEAR"
	CodeInvalidVehicleType            = "INVALID_VEHICLE_TYPE"
	CodeInvalidPayFrequency           = "INVALID_PAY_FREQUENCY"
	CodeInvalidDate                   = "INVALID_DATE"
	CodeInvalidMedicareRate           = "INVALID_MEDICARE_RATE"
	CodeLCTYearUnsupported            = "LCT_YEAR_UNSUPPORTED"
	CodeResidualTableMissing          = "RESIDUAL_TABLE_MISSING"
	CodeResidualBelowMinimum          = "RESIDUAL_BELOW_MINIMUM"
	CodeResidualTooHigh               = "RESIDUAL_TOO_HIGH"
	CodeQuoteInterestRateInferred     = "QUOTE_INTEREST_RATE_INFERRED"
	CodeNegativeInterestRate          = "NEGATIVE_INTEREST_RATE"
	CodeInvalidFBTYearDays            = "INVALID_FBT_YEAR_DAYS"
	CodeInvalidDaysAvailable          = "INVALID_DAYS_AVAILABLE"
	CodeInvalidFBTRate                = "INVALID_FBT_RATE"
	CodeNegativePackagedTaxableIncome = "NEGATIVE_PACKAGED_TAXABLE_INCOME"
	CodeHighDeductionRatio            = "HIGH_DEDUCTION_RATIO"
	CodeQuoteModelVarianceHigh        = "QUOTE_MODEL_VARIANCE_HIGH"
	CodeQuoteModelVarianceModerate    = "QUOTE_MODEL_VARIANCE_MODERATE"
)

// HasErrors reports whether any issue has error severity
func HasErrors(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func filterIssues(issues []ValidationIssue, severity Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}
