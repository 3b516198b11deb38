package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/compare"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/output"
	"github.com/laofangxose/au-finance-calculators/internal/server"
)

const baselinePath = "../../internal/config/testdata/baseline.yaml"

func setup(t *testing.T) (*calculation.Engine, *domain.ScenarioInput) {
	t.Helper()
	tables, err := config.DefaultTables()
	require.NoError(t, err)
	scenario, err := config.NewInputParser().LoadFromFile(baselinePath)
	require.NoError(t, err)
	return calculation.NewEngine(tables, tables.Assumptions), scenario
}

// TestIntegrationSuite runs all integration tests
func TestIntegrationSuite(t *testing.T) {
	t.Run("Input_Formats", testInputFormats)
	t.Run("Output_Formats", testOutputFormats)
	t.Run("Calculation_Consistency", testCalculationConsistency)
	t.Run("Comparison", testComparison)
	t.Run("HTTP_Round_Trip", testHTTPRoundTrip)
}

// testInputFormats checks that YAML, JSON and HJSON encodings of one scenario agree
func testInputFormats(t *testing.T) {
	engine, scenario := setup(t)
	want, err := json.Marshal(engine.Calculate(scenario))
	require.NoError(t, err)

	parser := config.NewInputParser()
	for _, format := range []config.Format{config.FormatYAML, config.FormatJSON, config.FormatHJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := config.Marshal(scenario, format)
			require.NoError(t, err)

			parsed, err := parser.Parse(data, format)
			require.NoError(t, err)

			got, err := json.Marshal(engine.Calculate(parsed))
			require.NoError(t, err)
			assert.JSONEq(t, string(want), string(got))
		})
	}
}

func testOutputFormats(t *testing.T) {
	engine, scenario := setup(t)
	out := engine.Calculate(scenario)
	require.True(t, out.OK)
	report := output.NewReport("baseline", scenario, out, engine.Assumptions.RoundingPrecisionDP)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(fmt.Sprintf("format_%s", name), func(t *testing.T) {
			start := time.Now()
			data, err := output.GetFormatterByName(name).Format(report)
			require.NoError(t, err, "Should generate %s output", name)
			assert.NotEmpty(t, data)
			assert.Less(t, time.Since(start), 5*time.Second)
		})
	}
}

// testCalculationConsistency runs the shared engine from many goroutines
func testCalculationConsistency(t *testing.T) {
	engine, scenario := setup(t)
	want, err := json.Marshal(engine.Calculate(scenario))
	require.NoError(t, err)

	results := make([][]byte, 32)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			data, err := json.Marshal(engine.Calculate(scenario.Clone()))
			results[i] = data
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, got := range results {
		assert.Equal(t, string(want), string(got), "run %d differs", i)
	}
}

func testComparison(t *testing.T) {
	engine, scenario := setup(t)

	compSet, err := compare.NewCompareEngine(engine).Compare(context.Background(), scenario, compare.CompareOptions{
		BaseScenarioName: "baseline",
		Templates:        []string{"term_24", "term_48", "finance_only", "ev_switch"},
	})
	require.NoError(t, err)
	require.NotNil(t, compSet.BaseResult)
	require.Len(t, compSet.AlternativeResults, 4)

	for _, alt := range compSet.AlternativeResults {
		assert.True(t, alt.OK, "%s should calculate", alt.ScenarioName)
	}
	assert.Equal(t, "baseline_term_24", compSet.AlternativeResults[0].ScenarioName)
	assert.True(t, compSet.AlternativeResults[0].MonthlyOutOfPocket.GreaterThan(compSet.BaseResult.MonthlyOutOfPocket),
		"a shorter term repays faster")
}

func testHTTPRoundTrip(t *testing.T) {
	engine, scenario := setup(t)
	cfg := server.DefaultConfig()
	cfg.RateLimit = 0
	srv, err := server.New(engine, server.NewMemoryCache(), cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, err := config.Marshal(scenario, config.FormatJSON)
	require.NoError(t, err)

	post := func() (*http.Response, []byte) {
		resp, err := http.Post(ts.URL+"/v1/calculate", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, data
	}

	first, firstBody := post()
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))

	second, secondBody := post()
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))
	assert.Equal(t, firstBody, secondBody)

	var got domain.Output
	require.NoError(t, json.Unmarshal(firstBody, &got))
	want := engine.Calculate(scenario)
	require.True(t, got.OK)
	require.NotNil(t, got.Packaging)
	assert.True(t, want.Packaging.AnnualPreTaxDeduction.Equal(got.Packaging.AnnualPreTaxDeduction))
	assert.True(t, want.BuyOutright.TotalCostDifferenceOverTerm.Equal(got.BuyOutright.TotalCostDifferenceOverTerm))
}
