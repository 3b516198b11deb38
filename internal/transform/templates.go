package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common lease what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, months := range []int{12, 24, 48, 60} {
		registry.Register(Template{
			Name:        fmt.Sprintf("term_%d", months),
			Description: fmt.Sprintf("Lease over %d months", months),
			Transforms:  []ScenarioTransform{&SetTerm{Months: months}},
		})
	}

	registry.Register(Template{
		Name:        "rate_minus_1",
		Description: "Negotiate the interest rate down by one point",
		Transforms:  []ScenarioTransform{&AdjustInterestRate{DeltaPct: -1}},
	})
	registry.Register(Template{
		Name:        "rate_plus_1",
		Description: "Interest rate one point higher",
		Transforms:  []ScenarioTransform{&AdjustInterestRate{DeltaPct: 1}},
	})

	registry.Register(Template{
		Name:        "no_ecm",
		Description: "Skip the employee contribution method",
		Transforms:  []ScenarioTransform{&SetECM{Enabled: false}},
	})
	registry.Register(Template{
		Name:        "finance_only",
		Description: "Package the finance repayments only, pay running costs from net pay",
		Transforms:  []ScenarioTransform{&SetRunningCostsPackaged{Included: false}},
	})
	registry.Register(Template{
		Name:        "weekly_pay",
		Description: "Deduct from weekly pay",
		Transforms:  []ScenarioTransform{&SetPayFrequency{Frequency: domain.PayWeekly}},
	})

	registry.Register(Template{
		Name:        "ev_switch",
		Description: "Same price as a battery electric vehicle with the FBT exemption",
		Transforms:  []ScenarioTransform{&SetVehicleType{VehicleType: domain.VehicleBEV}},
	})

	registry.Register(Template{
		Name:        "invest_5pct",
		Description: "Assume 5% return on cash not spent buying outright",
		Transforms:  []ScenarioTransform{&SetOpportunityRate{RatePct: 5}},
	})

	registry.Register(Template{
		Name:        "short_cheap",
		Description: "Two year term with running costs outside the package",
		Transforms: []ScenarioTransform{
			&SetTerm{Months: 24},
			&SetRunningCostsPackaged{Included: false},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.ScenarioInput, template Template) (*domain.ScenarioInput, error) {
	if len(template.Transforms) == 0 {
		if base == nil {
			return nil, fmt.Errorf("base scenario cannot be nil")
		}
		return base.Clone(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	order := []string{"Term", "Interest Rate", "Packaging", "Vehicle", "Comparison"}
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := "Packaging"
		switch {
		case strings.HasPrefix(name, "term_"):
			category = "Term"
		case strings.HasPrefix(name, "rate_"):
			category = "Interest Rate"
		case strings.HasPrefix(name, "ev_"):
			category = "Vehicle"
		case strings.HasPrefix(name, "invest_"):
			category = "Comparison"
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-16s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  novated compare scenario.yaml --with term_48,no_ecm\n")
	sb.WriteString("  novated compare scenario.yaml --with ev_switch,invest_5pct\n")

	return sb.String()
}
