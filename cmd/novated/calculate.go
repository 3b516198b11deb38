package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/output"
)

var formatExtensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"json":         "json",
	"yaml":         "yaml",
	"csv":          "csv",
	"markdown":     "md",
	"html":         "html",
}

func newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [scenario-file]",
		Short: "Calculate a novated lease scenario",
		Long: `Calculate a novated lease scenario and print the report.

Exits with status 2 when the scenario fails validation.

Examples:
  novated calculate car.yaml
  novated calculate car.yaml --format json --transform set_term:months=48
  novated calculate car.json --format html --save`,
		Args: cobra.ExactArgs(1),
		RunE: runCalculate,
	}
	cmd.Flags().StringP("format", "f", "console",
		fmt.Sprintf("Output format (%s)", strings.Join(output.AvailableFormatterNames(), ", ")))
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file in the working directory")
	cmd.Flags().StringArrayP("transform", "t", nil, "Transform to apply before calculating, e.g. set_term:months=48 (repeatable)")
	return cmd
}

func runCalculate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("transform")
	scenario, err := loadScenario(args[0], specs)
	if err != nil {
		return err
	}

	out := engine.Calculate(scenario)
	report := output.NewReport(scenarioName(args[0]), scenario, out, engine.Assumptions.RoundingPrecisionDP)

	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	switch {
	case save:
		filename, err := output.WriteFormatted(formatter, report, formatExtensions[formatter.Name()])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
	default:
		data, err := formatter.Format(report)
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		if outputPath != "" {
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
		} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if !out.OK {
		return &exitCodeError{code: 2}
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [scenario-file]",
		Short: "Validate a scenario file and list any issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			scenario, err := loadScenario(args[0], nil)
			if err != nil {
				return err
			}

			out := engine.Calculate(scenario)
			w := cmd.OutOrStdout()
			for _, issue := range out.ValidationIssues {
				fmt.Fprintf(w, "  [%s] %s\n", issue.Severity, formatIssue(issue))
			}
			if !out.OK {
				fmt.Fprintf(w, "Scenario %s is invalid: %d error(s)\n", args[0], len(out.Errors()))
				return &exitCodeError{code: 2}
			}
			fmt.Fprintf(w, "Scenario %s is valid (%d warning(s))\n", args[0], len(out.Warnings()))
			return nil
		},
	}
	return cmd
}

func formatIssue(issue domain.ValidationIssue) string {
	if issue.Field == "" {
		return fmt.Sprintf("%s: %s", issue.Code, issue.Message)
	}
	return fmt.Sprintf("%s (%s): %s", issue.Code, issue.Field, issue.Message)
}
