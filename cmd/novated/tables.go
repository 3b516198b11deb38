package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

func newTablesCmd() *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the reference tables",
		Long:  "Reference tables hold the income tax brackets, Medicare levy, LCT thresholds, FBT settings and residual percentages.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the financial years covered by the reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s reference tables (updated %s)\n", tables.Metadata.Jurisdiction, tables.Metadata.LastUpdated)
			if tables.Metadata.Description != "" {
				fmt.Fprintln(w, tables.Metadata.Description)
			}
			fmt.Fprintln(w)
			for _, year := range tables.SupportedYears() {
				yt, _ := tables.Year(year)
				fmt.Fprintf(w, "  %-10s %s\n", year, strings.Join(yearContents(yt), ", "))
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [year]",
		Short: "Print the tables for one financial year, or all tables, as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(cmd)
			if err != nil {
				return err
			}

			var v any = tables
			if len(args) == 1 {
				year := domain.FinancialYear(args[0])
				yt, ok := tables.Year(year)
				if !ok {
					return fmt.Errorf("no tables for %s (available: %s)", year, joinYears(tables.SupportedYears()))
				}
				v = map[domain.FinancialYear]domain.YearTables{year: yt}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("failed to encode tables: %w", err)
			}
			return enc.Close()
		},
	}

	tablesCmd.AddCommand(listCmd, showCmd)
	return tablesCmd
}

func yearContents(yt domain.YearTables) []string {
	var parts []string
	if yt.IncomeTax != nil {
		parts = append(parts, fmt.Sprintf("income tax (%d brackets)", len(yt.IncomeTax.Brackets)))
	}
	if yt.MedicareLevy != nil {
		parts = append(parts, "medicare levy "+yt.MedicareLevy.LevyRate.Mul(decimal.NewFromInt(100)).StringFixed(1)+"%")
	}
	if yt.LCT != nil {
		parts = append(parts, "LCT thresholds")
	}
	if len(parts) == 0 {
		parts = append(parts, "empty")
	}
	return parts
}

func joinYears(years []domain.FinancialYear) string {
	s := make([]string, len(years))
	for i, y := range years {
		s[i] = string(y)
	}
	return strings.Join(s, ", ")
}
