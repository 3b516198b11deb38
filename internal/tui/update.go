package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case ScenarioLoadedMsg:
		m.name = msg.Name
		m.err = nil
		m.setScenario(msg.Scenario)
		return m, m.recalculate()

	case CalculationCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.calculating = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.output = msg.Output
		if m.reference == nil && msg.Template == "" && msg.Output != nil && msg.Output.OK {
			m.reference = msg.Output
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.scenario == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.focused > 0 {
			m.focused--
			m.syncFocus()
		}

	case key.Matches(msg, m.keys.Down):
		if m.focused < len(m.sliders)-1 {
			m.focused++
			m.syncFocus()
		}

	case key.Matches(msg, m.keys.Left):
		if m.sliders[m.focused].Decrement() {
			m.applySlider(m.focused)
			return m, m.recalculate()
		}

	case key.Matches(msg, m.keys.Right):
		if m.sliders[m.focused].Increment() {
			m.applySlider(m.focused)
			return m, m.recalculate()
		}

	case key.Matches(msg, m.keys.Template):
		m.template++
		if m.template >= len(m.templateNames) {
			m.template = -1
		}
		return m, m.recalculate()

	case key.Matches(msg, m.keys.ECM):
		m.scenario.Packaging.UseECM = !m.scenario.Packaging.UseECM
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Running):
		m.scenario.Packaging.IncludeRunningCostsInPackage = !m.scenario.Packaging.IncludeRunningCostsInPackage
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Vehicle):
		m.scenario.Vehicle.VehicleType = nextVehicle(m.scenario.Vehicle.VehicleType)
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Reset):
		m.scenario = m.original.Clone()
		m.template = -1
		m.buildSliders()
		return m, m.recalculate()
	}

	return m, nil
}
