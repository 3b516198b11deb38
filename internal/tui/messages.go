package tui

import (
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ScenarioLoadedMsg carries the scenario read from disk
type ScenarioLoadedMsg struct {
	Name     string
	Scenario *domain.ScenarioInput
}

// CalculationCompleteMsg carries the engine result for the current inputs
type CalculationCompleteMsg struct {
	// Seq matches the request that produced it; stale results are dropped
	Seq      int
	Template string
	Output   *domain.Output
	Err      error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
