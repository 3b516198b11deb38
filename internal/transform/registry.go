package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_price", createSetPurchasePrice)
	registry.Register("set_vehicle_type", createSetVehicleType)
	registry.Register("set_term", createSetTerm)
	registry.Register("set_rate", createSetInterestRate)
	registry.Register("adjust_rate", createAdjustInterestRate)
	registry.Register("set_residual", createSetResidualOverride)
	registry.Register("set_payments_per_year", createSetPaymentsPerYear)
	registry.Register("set_salary", createSetSalary)
	registry.Register("set_pay_frequency", createSetPayFrequency)
	registry.Register("set_tax_year", createSetTaxYear)
	registry.Register("set_ecm", createSetECM)
	registry.Register("set_running_costs", createSetRunningCostsPackaged)
	registry.Register("set_opportunity_rate", createSetOpportunityRate)
	registry.Register("quote_mode", func(map[string]string) (ScenarioTransform, error) {
		return &QuoteMode{}, nil
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_term:months=48". Transforms without parameters may omit the colon.
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			key, value, ok := strings.Cut(paramPair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses each spec in order
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ScenarioTransform, error) {
	transforms := make([]ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

// Factory functions for each transform

func requireParam(transform, key string, params map[string]string) (string, error) {
	value, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return value, nil
}

func floatParam(transform, key string, params map[string]string) (float64, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func intParam(transform, key string, params map[string]string) (int, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func boolParam(transform, key string, params map[string]string) (bool, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s value: %q is not a boolean", key, raw)
}

func createSetPurchasePrice(params map[string]string) (ScenarioTransform, error) {
	price, err := floatParam("set_price", "price", params)
	if err != nil {
		return nil, err
	}
	return &SetPurchasePrice{Price: price}, nil
}

func createSetVehicleType(params map[string]string) (ScenarioTransform, error) {
	vt, err := requireParam("set_vehicle_type", "type", params)
	if err != nil {
		return nil, err
	}
	return &SetVehicleType{VehicleType: domain.VehicleType(strings.ToLower(vt))}, nil
}

func createSetTerm(params map[string]string) (ScenarioTransform, error) {
	months, err := intParam("set_term", "months", params)
	if err != nil {
		return nil, err
	}
	return &SetTerm{Months: months}, nil
}

func createSetInterestRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("set_rate", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetInterestRate{RatePct: rate}, nil
}

func createAdjustInterestRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := floatParam("adjust_rate", "delta", params)
	if err != nil {
		return nil, err
	}
	return &AdjustInterestRate{DeltaPct: delta}, nil
}

func createSetResidualOverride(params map[string]string) (ScenarioTransform, error) {
	amount, err := floatParam("set_residual", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetResidualOverride{Amount: amount}, nil
}

func createSetPaymentsPerYear(params map[string]string) (ScenarioTransform, error) {
	payments, err := intParam("set_payments_per_year", "payments", params)
	if err != nil {
		return nil, err
	}
	return &SetPaymentsPerYear{Payments: payments}, nil
}

func createSetSalary(params map[string]string) (ScenarioTransform, error) {
	amount, err := floatParam("set_salary", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetSalary{Amount: amount}, nil
}

func createSetPayFrequency(params map[string]string) (ScenarioTransform, error) {
	freq, err := requireParam("set_pay_frequency", "frequency", params)
	if err != nil {
		return nil, err
	}
	return &SetPayFrequency{Frequency: domain.PayFrequency(strings.ToLower(freq))}, nil
}

func createSetTaxYear(params map[string]string) (ScenarioTransform, error) {
	year, err := requireParam("set_tax_year", "year", params)
	if err != nil {
		return nil, err
	}
	return &SetTaxYear{Year: domain.FinancialYear(year)}, nil
}

func createSetECM(params map[string]string) (ScenarioTransform, error) {
	enabled, err := boolParam("set_ecm", "enabled", params)
	if err != nil {
		return nil, err
	}
	return &SetECM{Enabled: enabled}, nil
}

func createSetRunningCostsPackaged(params map[string]string) (ScenarioTransform, error) {
	included, err := boolParam("set_running_costs", "included", params)
	if err != nil {
		return nil, err
	}
	return &SetRunningCostsPackaged{Included: included}, nil
}

func createSetOpportunityRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := floatParam("set_opportunity_rate", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetOpportunityRate{RatePct: rate}, nil
}
