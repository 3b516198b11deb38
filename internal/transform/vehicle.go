package transform

import (
	"fmt"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// SetPurchasePrice replaces the GST-inclusive purchase price.
// A residual override that would no longer sit below the new price is cleared
// so the table residual applies.
type SetPurchasePrice struct {
	Price float64
}

func (sp *SetPurchasePrice) Name() string {
	return "set_price"
}

func (sp *SetPurchasePrice) Description() string {
	return fmt.Sprintf("Set purchase price to $%.0f", sp.Price)
}

func (sp *SetPurchasePrice) Validate(base *domain.ScenarioInput) error {
	if sp.Price < 0 {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("price must be non-negative, got %.2f", sp.Price), nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetPurchasePrice) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Vehicle.PurchasePriceInclGST = sp.Price
	if o := modified.Finance.ResidualValueOverride; o != nil && *o >= sp.Price {
		modified.Finance.ResidualValueOverride = nil
	}
	return modified, nil
}

// SetVehicleType switches the powertrain. Moving to a BEV or FCEV marks the
// vehicle as exemption-eligible and turns on the exemption toggle.
type SetVehicleType struct {
	VehicleType domain.VehicleType
}

func (sv *SetVehicleType) Name() string {
	return "set_vehicle_type"
}

func (sv *SetVehicleType) Description() string {
	return fmt.Sprintf("Change vehicle type to %s", sv.VehicleType)
}

func (sv *SetVehicleType) Validate(base *domain.ScenarioInput) error {
	if !sv.VehicleType.Valid() {
		return NewTransformError(sv.Name(), "validate", fmt.Sprintf("unknown vehicle type %q", sv.VehicleType), nil)
	}
	return requireBase(sv.Name(), base)
}

func (sv *SetVehicleType) Apply(base *domain.ScenarioInput) (*domain.ScenarioInput, error) {
	modified := base.Clone()
	modified.Vehicle.VehicleType = sv.VehicleType
	if sv.VehicleType.IsZeroEmission() {
		modified.Vehicle.EligibleForEVFBTExemption = true
		modified.Packaging.EVFBTExemptionToggle = true
	}
	return modified, nil
}
