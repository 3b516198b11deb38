package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/output"
)

func newBreakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [scenario-file]",
		Short: "Find the opportunity cost rate where leasing and buying outright cost the same",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxRate, _ := cmd.Flags().GetFloat64("max-rate")
			if !(maxRate > 0) || math.IsInf(maxRate, 0) {
				return fmt.Errorf("--max-rate must be a positive finite number, got %g", maxRate)
			}

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			scenario, err := loadScenario(args[0], nil)
			if err != nil {
				return err
			}

			result, err := engine.BreakEvenOpportunityRate(scenario, maxRate)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "BREAK-EVEN OPPORTUNITY COST RATE")
			fmt.Fprintln(w, "================================")
			fmt.Fprintf(w, "Scenario: %s\n", scenarioName(args[0]))
			fmt.Fprintf(w, "Break-even rate: %s\n", output.FormatPercentage(result.RatePct))
			if result.Converged {
				fmt.Fprintf(w, "Converged: yes (%d iterations)\n", result.Iterations)
			} else {
				fmt.Fprintf(w, "Converged: no, best estimate after %d iterations\n", result.Iterations)
			}
			fmt.Fprintf(w, "Remaining difference: %s\n", output.FormatCurrency(result.Difference))
			if result.Output != nil && result.Output.BuyOutright != nil {
				fmt.Fprintf(w, "Novated cost over term: %s\n", output.FormatCurrency(result.Output.BuyOutright.NovatedTotalCostOverTerm))
				fmt.Fprintf(w, "Outright outlay over term: %s\n", output.FormatCurrency(result.Output.BuyOutright.TotalCashOutlayOverTerm))
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, "INTERPRETATION:")
			fmt.Fprintln(w, "- If your cash would earn less than this rate, buying outright is cheaper over the term")
			fmt.Fprintln(w, "- If it would earn more, the novated lease comes out ahead")
			if !result.Converged {
				fmt.Fprintf(w, "- No crossing found below %g%%; the rate shown is the closest point searched\n", maxRate)
			}
			return nil
		},
	}
	cmd.Flags().Float64("max-rate", 30, "Upper bound of the opportunity cost rate search, in percent")
	return cmd
}
