package transform

import (
	"fmt"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// ScenarioTransform is one what-if edit of a lease scenario: a different
// price, term, rate, salary or packaging choice.
type ScenarioTransform interface {
	// Apply returns an edited copy. The input scenario is left untouched.
	Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error)

	// Name is the registry key, e.g. "set_term".
	Name() string

	Description() string

	// Validate reports whether the edit makes sense for this scenario
	// (for example quote_mode needs a quote context).
	Validate(base *domain.ScenarioInput) error
}

// ApplyTransforms runs transforms left to right over a copy of base. Each step
// is validated against the scenario produced by the step before it, so
// set_term followed by set_residual checks the residual against the new term.
// Errors name the failing step by position.
func ApplyTransforms(base *domain.ScenarioInput, transforms []ScenarioTransform) (*domain.ScenarioInput, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	current := base.Clone()
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("step %d: transform is nil", i+1)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError describes a rejected or failed edit
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError builds a *TransformError; err may be nil
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

// requireBase is the nil check every transform shares
func requireBase(name string, base *domain.ScenarioInput) error {
	if base == nil {
		return NewTransformError(name, "validate", "base scenario cannot be nil", nil)
	}
	return nil
}
