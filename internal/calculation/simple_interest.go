package calculation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// SimpleInterestInput is a flat-rate loan or deposit
type SimpleInterestInput struct {
	Principal     float64 `yaml:"principal" json:"principal"`
	AnnualRatePct float64 `yaml:"annualRatePct" json:"annualRatePct"`
	TermYears     float64 `yaml:"termYears" json:"termYears"`
}

// SimpleInterestResult echoes the input with the accrued interest and total
type SimpleInterestResult struct {
	Principal     decimal.Decimal `yaml:"principal" json:"principal"`
	AnnualRatePct decimal.Decimal `yaml:"annualRatePct" json:"annualRatePct"`
	TermYears     decimal.Decimal `yaml:"termYears" json:"termYears"`
	Interest      decimal.Decimal `yaml:"interest" json:"interest"`
	TotalAmount   decimal.Decimal `yaml:"totalAmount" json:"totalAmount"`
}

// SimpleInterestError carries the issues that stopped a calculation
type SimpleInterestError struct {
	Issues []domain.ValidationIssue
}

func (e *SimpleInterestError) Error() string {
	messages := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		messages[i] = issue.Message
	}
	return strings.Join(messages, " ")
}

// ValidateSimpleInterest checks that every input is a finite, non-negative number
func ValidateSimpleInterest(in SimpleInterestInput) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	check := func(field, label string, v float64) {
		switch {
		case !isFinite(v):
			issues = append(issues, domain.ValidationIssue{
				Code: domain.CodeRequiredNumberInvalid, Field: field,
				Message: label + " must be a number.", Severity: domain.SeverityError,
			})
		case v < 0:
			issues = append(issues, domain.ValidationIssue{
				Code: domain.CodeNegativeValue, Field: field,
				Message: label + " cannot be negative.", Severity: domain.SeverityError,
			})
		}
	}
	check("principal", "Principal", in.Principal)
	check("annualRatePct", "Annual rate", in.AnnualRatePct)
	check("termYears", "Term", in.TermYears)
	return issues
}

// SimpleInterest computes interest = principal x rate/100 x years, unrounded
func SimpleInterest(in SimpleInterestInput) (*SimpleInterestResult, error) {
	if issues := ValidateSimpleInterest(in); len(issues) > 0 {
		return nil, &SimpleInterestError{Issues: issues}
	}

	principal := dec(in.Principal)
	rate := dec(in.AnnualRatePct)
	years := dec(in.TermYears)
	interest := principal.Mul(rate).Div(decimal.NewFromInt(100)).Mul(years)

	return &SimpleInterestResult{
		Principal:     principal,
		AnnualRatePct: rate,
		TermYears:     years,
		Interest:      interest,
		TotalAmount:   principal.Add(interest),
	}, nil
}
