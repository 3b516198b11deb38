// Package tui is an interactive explorer for a single novated lease scenario.
// Sliders edit the main inputs, the engine reruns on every change and the
// headline figures are shown against the scenario as first loaded.
package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
	"github.com/laofangxose/au-finance-calculators/internal/tui/components"
)

type parameter int

const (
	paramPrice parameter = iota
	paramTerm
	paramRate
	paramSalary
	paramOpportunity
)

var vehicleCycle = []domain.VehicleType{
	domain.VehicleICE,
	domain.VehicleHEV,
	domain.VehiclePHEV,
	domain.VehicleBEV,
	domain.VehicleFCEV,
}

// Model is the explorer state
type Model struct {
	engine    *calculation.Engine
	templates *transform.TemplateRegistry
	keys      keyMap
	help      help.Model

	path     string
	name     string
	original *domain.ScenarioInput
	scenario *domain.ScenarioInput

	templateNames []string
	template      int // index into templateNames, -1 for none

	params  []parameter
	sliders []*components.ParameterSlider
	focused int

	seq         int
	calculating bool
	output      *domain.Output
	reference   *domain.Output

	err    error
	width  int
	height int
}

// NewModel creates an explorer that loads its scenario from path on Init
func NewModel(path string, engine *calculation.Engine) Model {
	templates := transform.CreateBuiltInTemplates()
	return Model{
		engine:        engine,
		templates:     templates,
		keys:          defaultKeyMap(),
		help:          help.New(),
		path:          path,
		name:          strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		templateNames: templates.List(),
		template:      -1,
		width:         100,
		height:        30,
	}
}

// NewModelWithScenario creates an explorer over an already parsed scenario
func NewModelWithScenario(name string, scenario *domain.ScenarioInput, engine *calculation.Engine) Model {
	m := NewModel("", engine)
	m.name = name
	m.setScenario(scenario)
	return m
}

// Init loads the scenario, or calculates it if one was supplied
func (m Model) Init() tea.Cmd {
	if m.scenario != nil {
		return calculateCmd(m.engine, m.seq, m.scenario.Clone(), m.activeTemplate())
	}
	return loadScenarioCmd(m.path)
}

// Output returns the latest engine result
func (m Model) Output() *domain.Output {
	return m.output
}

// Scenario returns the edited inputs before any template is applied
func (m Model) Scenario() *domain.ScenarioInput {
	return m.scenario
}

// TemplateName returns the active template, or "" when none is applied
func (m Model) TemplateName() string {
	if m.template < 0 || m.template >= len(m.templateNames) {
		return ""
	}
	return m.templateNames[m.template]
}

func (m Model) activeTemplate() *transform.Template {
	name := m.TemplateName()
	if name == "" {
		return nil
	}
	t, ok := m.templates.Get(name)
	if !ok {
		return nil
	}
	return &t
}

func (m *Model) setScenario(scenario *domain.ScenarioInput) {
	m.original = scenario.Clone()
	m.scenario = scenario.Clone()
	m.reference = nil
	m.template = -1
	m.buildSliders()
}

// buildSliders creates one slider per adjustable input
func (m *Model) buildSliders() {
	in := m.scenario
	a := m.engine.Assumptions

	price := in.Vehicle.PurchasePriceInclGST
	rate := a.DefaultQuoteInterestRatePct.InexactFloat64()
	rateDesc := "inferred until adjusted"
	if v := in.Finance.AnnualInterestRatePct; v != nil && !math.IsNaN(*v) && *v >= 0 {
		rate = *v
		rateDesc = ""
	} else if in.QuoteContext != nil && in.QuoteContext.QuotedInterestRatePct != nil {
		rate = *in.QuoteContext.QuotedInterestRatePct
	}
	opportunity := a.DefaultOpportunityCostRatePct.InexactFloat64()
	if in.Comparison != nil && in.Comparison.OpportunityCostRatePct != nil {
		opportunity = *in.Comparison.OpportunityCostRatePct
	}

	m.params = []parameter{paramPrice, paramTerm, paramRate, paramSalary, paramOpportunity}
	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider("Purchase price", price, 0, math.Max(150000, math.Ceil(price*2/10000)*10000), 1000).
			WithPrefix("$").WithFormat("%.0f").WithDescription("GST inclusive"),
		components.NewParameterSlider("Lease term", float64(in.Finance.TermMonths), 12, 60, 12).
			WithFormat("%.0f").WithUnit(" months"),
		components.NewParameterSlider("Interest rate", rate, 0, 20, 0.25).
			WithUnit("%").WithDescription(rateDesc),
		components.NewParameterSlider("Gross salary", in.Salary.GrossAnnualSalary, 0, math.Max(300000, math.Ceil(in.Salary.GrossAnnualSalary*2/10000)*10000), 5000).
			WithPrefix("$").WithFormat("%.0f"),
		components.NewParameterSlider("Opportunity rate", opportunity, 0, 15, 0.5).
			WithUnit("%").WithDescription("return on cash kept by leasing"),
	}
	if m.focused >= len(m.sliders) {
		m.focused = 0
	}
	m.syncFocus()
}

func (m *Model) syncFocus() {
	for i, s := range m.sliders {
		s.SetFocused(i == m.focused)
	}
}

// applySlider writes the focused slider back into the scenario
func (m *Model) applySlider(i int) {
	v := m.sliders[i].Value
	switch m.params[i] {
	case paramPrice:
		m.scenario.Vehicle.PurchasePriceInclGST = v
	case paramTerm:
		m.scenario.Finance.TermMonths = int(math.Round(v))
	case paramRate:
		m.scenario.Finance.AnnualInterestRatePct = domain.Float(v)
		m.sliders[i].Description = ""
	case paramSalary:
		m.scenario.Salary.GrossAnnualSalary = v
	case paramOpportunity:
		if m.scenario.Comparison == nil {
			m.scenario.Comparison = &domain.ComparisonInput{}
		}
		m.scenario.Comparison.OpportunityCostRatePct = domain.Float(v)
	}
}

// recalculate starts a fresh engine run and invalidates any in flight
func (m *Model) recalculate() tea.Cmd {
	m.seq++
	m.calculating = true
	return calculateCmd(m.engine, m.seq, m.scenario.Clone(), m.activeTemplate())
}

func nextVehicle(v domain.VehicleType) domain.VehicleType {
	for i, t := range vehicleCycle {
		if t == v {
			return vehicleCycle[(i+1)%len(vehicleCycle)]
		}
	}
	return vehicleCycle[0]
}

// loadScenarioCmd returns a command that reads a scenario file
func loadScenarioCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return ErrorMsg{Err: fmt.Errorf("no scenario file given")}
		}
		scenario, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ScenarioLoadedMsg{
			Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Scenario: scenario,
		}
	}
}

// calculateCmd returns a command that runs the engine over scenario with an optional template
func calculateCmd(engine *calculation.Engine, seq int, scenario *domain.ScenarioInput, tmpl *transform.Template) tea.Cmd {
	return func() tea.Msg {
		msg := CalculationCompleteMsg{Seq: seq}
		if tmpl != nil {
			msg.Template = tmpl.Name
			applied, err := transform.ApplyTemplate(scenario, *tmpl)
			if err != nil {
				msg.Err = err
				return msg
			}
			scenario = applied
		}
		msg.Output = engine.Calculate(scenario)
		return msg
	}
}
