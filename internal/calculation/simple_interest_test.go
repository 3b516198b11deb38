package calculation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

func TestSimpleInterest(t *testing.T) {
	tests := []struct {
		name     string
		input    SimpleInterestInput
		interest string
		total    string
	}{
		{"standard case", SimpleInterestInput{Principal: 10000, AnnualRatePct: 5, TermYears: 3}, "1500", "11500"},
		{"zero rate", SimpleInterestInput{Principal: 2500, AnnualRatePct: 0, TermYears: 4}, "0", "2500"},
		{"zero term", SimpleInterestInput{Principal: 2500, AnnualRatePct: 7, TermYears: 0}, "0", "2500"},
		{"decimal values", SimpleInterestInput{Principal: 1234.56, AnnualRatePct: 3.5, TermYears: 1.5}, "64.8144", "1299.3744"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SimpleInterest(tt.input)
			require.NoError(t, err)
			assertDecimal(t, tt.interest, result.Interest)
			assertDecimal(t, tt.total, result.TotalAmount)
			assert.Equal(t, tt.input.Principal, result.Principal.InexactFloat64())
		})
	}
}

func TestValidateSimpleInterest(t *testing.T) {
	tests := []struct {
		name   string
		input  SimpleInterestInput
		field  string
		code   string
		issues int
	}{
		{"valid", SimpleInterestInput{Principal: 10000, AnnualRatePct: 5, TermYears: 2}, "", "", 0},
		{"negative principal", SimpleInterestInput{Principal: -1, AnnualRatePct: 5, TermYears: 2}, "principal", domain.CodeNegativeValue, 1},
		{"negative rate", SimpleInterestInput{Principal: 1000, AnnualRatePct: -0.25, TermYears: 1}, "annualRatePct", domain.CodeNegativeValue, 1},
		{"negative term", SimpleInterestInput{Principal: 1000, AnnualRatePct: 5, TermYears: -1}, "termYears", domain.CodeNegativeValue, 1},
		{"NaN principal", SimpleInterestInput{Principal: math.NaN(), AnnualRatePct: 5, TermYears: 1}, "principal", domain.CodeRequiredNumberInvalid, 1},
		{"infinite term", SimpleInterestInput{Principal: 1000, AnnualRatePct: 5, TermYears: math.Inf(1)}, "termYears", domain.CodeRequiredNumberInvalid, 1},
		{"everything wrong", SimpleInterestInput{Principal: -1, AnnualRatePct: math.Inf(-1), TermYears: -2}, "principal", domain.CodeNegativeValue, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateSimpleInterest(tt.input)
			require.Len(t, issues, tt.issues)
			if tt.issues == 0 {
				return
			}
			assert.Equal(t, tt.field, issues[0].Field)
			assert.Equal(t, tt.code, issues[0].Code)
			for _, issue := range issues {
				assert.Equal(t, domain.SeverityError, issue.Severity)
			}
		})
	}
}

func TestSimpleInterest_InvalidInput(t *testing.T) {
	result, err := SimpleInterest(SimpleInterestInput{Principal: 100, AnnualRatePct: -1, TermYears: 1})
	require.Error(t, err)
	assert.Nil(t, result)

	var siErr *SimpleInterestError
	require.True(t, errors.As(err, &siErr))
	require.Len(t, siErr.Issues, 1)
	assert.Equal(t, "Annual rate cannot be negative.", err.Error())
}
