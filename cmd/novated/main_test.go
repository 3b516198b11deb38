package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laofangxose/au-finance-calculators/internal/server"
)

const baselineScenario = "../../internal/config/testdata/baseline.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// invalidScenario writes a copy of the baseline with an unsupported term
func invalidScenario(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(baselineScenario)
	require.NoError(t, err)
	broken := strings.Replace(string(data), "termMonths: 36", "termMonths: 13", 1)
	require.NotEqual(t, string(data), broken)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))
	return path
}

func exitCode(err error) int {
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return -1
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "novated", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	expected := []string{"calculate", "validate", "compare", "breakeven", "simple-interest", "tables", "serve", "explore", "version"}
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, name := range expected {
		assert.Contains(t, names, name)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "novated dev")
}

func TestCalculate_Console(t *testing.T) {
	out, err := execute(t, "calculate", baselineScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "NOVATED LEASE ANALYSIS: baseline")
}

func TestCalculate_JSONWithTransform(t *testing.T) {
	out, err := execute(t, "calculate", baselineScenario, "--format", "json", "--transform", "set_term:months=48")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["ok"])
}

func TestCalculate_UnknownFormat(t *testing.T) {
	_, err := execute(t, "calculate", baselineScenario, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCalculate_BadTransform(t *testing.T) {
	_, err := execute(t, "calculate", baselineScenario, "--transform", "no_such_transform:x=1")
	require.Error(t, err)
	assert.Equal(t, -1, exitCode(err))
}

func TestCalculate_MissingFile(t *testing.T) {
	_, err := execute(t, "calculate", "does-not-exist.yaml")
	require.Error(t, err)
}

func TestCalculate_InvalidScenarioExitsTwo(t *testing.T) {
	out, err := execute(t, "calculate", invalidScenario(t), "--format", "console-lite")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Empty(t, err.Error())
	assert.Contains(t, out, "INVALID_TERM")
}

func TestCalculate_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	out, err := execute(t, "calculate", baselineScenario, "--format", "csv", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "section,item,value"))
}

func TestCalculate_Save(t *testing.T) {
	scenario, err := filepath.Abs(baselineScenario)
	require.NoError(t, err)
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "calculate", scenario, "--format", "markdown", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to novated_report_")

	matches, err := filepath.Glob(filepath.Join(dir, "novated_report_*.md"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", baselineScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = execute(t, "validate", invalidScenario(t))
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, "[error] INVALID_TERM (finance.termMonths)")
	assert.Contains(t, out, "is invalid:")
}

func TestCompare_Table(t *testing.T) {
	out, err := execute(t, "compare", baselineScenario, "--with", "term_48,rate_minus_1")
	require.NoError(t, err)
	assert.Contains(t, out, "NOVATED LEASE SCENARIO COMPARISON")
}

func TestCompare_TransformVariantsAsJSON(t *testing.T) {
	out, err := execute(t, "compare", baselineScenario, "--transform", "set_price:price=45000", "--format", "json", "--name", "mine")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotEmpty(t, result)
	assert.Contains(t, out, "mine_variant_1")
}

func TestCompare_Errors(t *testing.T) {
	_, err := execute(t, "compare", baselineScenario)
	require.Error(t, err)

	_, err = execute(t, "compare", baselineScenario, "--with", "no_such_template")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_template")

	_, err = execute(t, "compare", baselineScenario, "--with", "term_48", "--format", "xml")
	require.Error(t, err)

	_, err = execute(t, "compare")
	require.Error(t, err)
}

func TestCompare_ListTemplates(t *testing.T) {
	out, err := execute(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "term_48")
	assert.Contains(t, out, "ev_switch")
}

func TestBreakEven(t *testing.T) {
	out, err := execute(t, "breakeven", baselineScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN OPPORTUNITY COST RATE")
	assert.Contains(t, out, "Break-even rate:")
	assert.Contains(t, out, "INTERPRETATION:")

	for _, bound := range []string{"0", "Inf", "NaN"} {
		_, err = execute(t, "breakeven", baselineScenario, "--max-rate", bound)
		require.Error(t, err, "max rate %s", bound)
		assert.Contains(t, err.Error(), "positive finite")
	}

	_, err = execute(t, "breakeven", invalidScenario(t))
	require.Error(t, err)
}

func TestSimpleInterest(t *testing.T) {
	out, err := execute(t, "simple-interest", "--principal", "10000", "--rate", "5", "--years", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "SIMPLE INTEREST")
	assert.Contains(t, out, "5.00%")

	out, err = execute(t, "simple-interest", "--principal", "1234.56", "--rate", "3.5", "--years", "1.5", "--format", "json")
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "64.8144", result["interest"])
	assert.Equal(t, "1299.3744", result["totalAmount"])

	out, err = execute(t, "simple-interest", "--principal", "100", "--rate=-1", "--years", "1")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, "NEGATIVE_VALUE (annualRatePct)")

	_, err = execute(t, "simple-interest", "--principal", "100", "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestTables(t *testing.T) {
	out, err := execute(t, "tables", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FY2024-25")
	assert.Contains(t, out, "FY2025-26")
	assert.Contains(t, out, "FY2026-27")

	out, err = execute(t, "tables", "show", "FY2025-26")
	require.NoError(t, err)
	assert.Contains(t, out, "FY2025-26:")
	assert.Contains(t, out, "brackets:")

	_, err = execute(t, "tables", "show", "FY1999-00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available")

	_, err = execute(t, "tables", "list", "--tables", "missing.yaml")
	require.Error(t, err)
}

func TestServeConfig(t *testing.T) {
	t.Setenv("NOVATED_ADDR", ":9999")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("NOVATED_RATE_LIMIT", "5")

	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, mode, redisAddr, err := serveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, "localhost:6380", redisAddr)
	assert.Equal(t, "http", mode)

	cmd = newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--addr", ":7000", "--engine", "fasthttp", "--redis", ""}))
	cfg, mode, redisAddr, err = serveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "fasthttp", mode)
	assert.Equal(t, server.DefaultMemoryCacheEntries, cfg.CacheMaxEntries)
	assert.Empty(t, redisAddr, "an explicit flag beats the environment")
}

func TestServeConfig_Invalid(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--engine", "gin"}))
	_, _, _, err := serveConfig(cmd)
	require.Error(t, err)

	cmd = newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--cache-entries", "0"}))
	_, _, _, err = serveConfig(cmd)
	require.Error(t, err)

	t.Setenv("NOVATED_RATE_LIMIT", "fast")
	cmd = newServeCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	_, _, _, err = serveConfig(cmd)
	require.Error(t, err)
}

func TestExplore_MissingFile(t *testing.T) {
	_, err := execute(t, "explore", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
