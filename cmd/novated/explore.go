package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/tui"
)

func newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [scenario-file]",
		Short: "Explore a scenario interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("scenario file not found: %s", path)
			}

			tables, err := loadTables(cmd)
			if err != nil {
				return err
			}
			// no logger: output would corrupt the alternate screen
			engine := calculation.NewEngine(tables, tables.Assumptions)

			p := tea.NewProgram(
				tui.NewModel(path, engine),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
}
