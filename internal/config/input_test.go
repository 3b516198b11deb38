package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"scenario.yaml":  FormatYAML,
		"scenario.YML":   FormatYAML,
		"scenario.json":  FormatJSON,
		"scenario.hjson": FormatHJSON,
		"scenario":       FormatYAML,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, DetectFormat(name))
		})
	}
}

func TestInputParser_LoadFromFile_YAML(t *testing.T) {
	parser := NewInputParser()

	scenario, err := parser.LoadFromFile(filepath.Join("testdata", "baseline.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.VehicleICE, scenario.Vehicle.VehicleType)
	assert.Equal(t, 50000.0, scenario.Vehicle.PurchasePriceInclGST)
	assert.Equal(t, 36, scenario.Finance.TermMonths)
	require.NotNil(t, scenario.Finance.AnnualInterestRatePct)
	assert.Equal(t, 8.5, *scenario.Finance.AnnualInterestRatePct)
	require.NotNil(t, scenario.Finance.PaymentsPerYear)
	assert.Equal(t, 12, *scenario.Finance.PaymentsPerYear)
	assert.Equal(t, domain.PayFortnightly, scenario.Salary.PayFrequency)
	assert.Equal(t, domain.FinancialYear("FY2025-26"), scenario.TaxOptions.IncomeTaxYear)
	assert.True(t, scenario.Packaging.UseECM)
	assert.Nil(t, scenario.QuoteContext)
	assert.Nil(t, scenario.Finance.ResidualValueOverride)
}

func TestInputParser_LoadFromFile_HJSON(t *testing.T) {
	parser := NewInputParser()

	scenario, err := parser.LoadFromFile(filepath.Join("testdata", "quote.hjson"))
	require.NoError(t, err)

	assert.Equal(t, domain.VehicleBEV, scenario.Vehicle.VehicleType)
	assert.Nil(t, scenario.Finance.AnnualInterestRatePct)
	require.NotNil(t, scenario.QuoteContext)
	assert.Equal(t, "Example Leasing", scenario.QuoteContext.ProviderName)
	require.NotNil(t, scenario.QuoteContext.QuotedAnnualDeductionTotal)
	assert.Equal(t, 19800.0, *scenario.QuoteContext.QuotedAnnualDeductionTotal)
	assert.Equal(t, domain.PayMonthly, scenario.Salary.PayFrequency)
}

func TestInputParser_LoadFromFile_RepairsJSON(t *testing.T) {
	parser := NewInputParser()

	scenario, err := parser.LoadFromFile(filepath.Join("testdata", "trailing_comma.json"))
	require.NoError(t, err)
	assert.Equal(t, 42000.0, scenario.Vehicle.PurchasePriceInclGST)
	assert.Equal(t, 60, scenario.Finance.TermMonths)
	assert.Equal(t, domain.PayWeekly, scenario.Salary.PayFrequency)

	strict := &InputParser{Strict: true}
	_, err = strict.LoadFromFile(filepath.Join("testdata", "trailing_comma.json"))
	assert.Error(t, err, "strict mode should reject malformed JSON")
}

func TestInputParser_Parse_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.Parse([]byte("   "), FormatYAML)
	assert.Error(t, err)

	_, err = parser.Parse([]byte("vehicle: [unclosed"), FormatYAML)
	assert.Error(t, err)

	_, err = parser.Parse([]byte("{}"), Format("toml"))
	assert.Error(t, err)

	_, err = parser.LoadFromFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsThroughParser(t *testing.T) {
	parser := NewInputParser()
	original, err := parser.LoadFromFile(filepath.Join("testdata", "baseline.yaml"))
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(original, format)
			require.NoError(t, err)

			dir := t.TempDir()
			path := filepath.Join(dir, "scenario."+string(format))
			require.NoError(t, os.WriteFile(path, data, 0o600))

			decoded, err := parser.LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}
