package main

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/output"
)

func newSimpleInterestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simple-interest",
		Short: "Calculate flat-rate interest on a principal",
		Long: `Calculate simple interest: principal x annual rate x years.

Example:
  novated simple-interest --principal 10000 --rate 5 --years 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var in calculation.SimpleInterestInput
			in.Principal, _ = flags.GetFloat64("principal")
			in.AnnualRatePct, _ = flags.GetFloat64("rate")
			in.TermYears, _ = flags.GetFloat64("years")
			format, _ := flags.GetString("format")
			if format != "console" && format != "json" {
				return fmt.Errorf("unknown output format %q (valid: console, json)", format)
			}

			w := cmd.OutOrStdout()
			result, err := calculation.SimpleInterest(in)
			var siErr *calculation.SimpleInterestError
			if errors.As(err, &siErr) {
				for _, issue := range siErr.Issues {
					fmt.Fprintf(w, "  [%s] %s\n", issue.Severity, formatIssue(issue))
				}
				return &exitCodeError{code: 2}
			}
			if err != nil {
				return err
			}

			if format == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			fmt.Fprintln(w, "SIMPLE INTEREST")
			fmt.Fprintln(w, "===============")
			fmt.Fprintf(w, "Principal:    %s\n", output.FormatCurrency(result.Principal))
			fmt.Fprintf(w, "Annual rate:  %s\n", output.FormatPercentage(result.AnnualRatePct))
			fmt.Fprintf(w, "Term:         %s years\n", result.TermYears.String())
			fmt.Fprintf(w, "Interest:     %s\n", output.FormatCurrency(result.Interest))
			fmt.Fprintf(w, "Total amount: %s\n", output.FormatCurrency(result.TotalAmount))
			return nil
		},
	}
	cmd.Flags().Float64("principal", 0, "Amount borrowed or invested")
	cmd.Flags().Float64("rate", 0, "Annual interest rate in percent")
	cmd.Flags().Float64("years", 0, "Term in years, fractions allowed")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	return cmd
}
