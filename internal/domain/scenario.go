package domain

// VehicleType is the drive technology of the leased vehicle
type VehicleType string

const (
	VehicleICE  VehicleType = "ice"
	VehicleHEV  VehicleType = "hev"
	VehiclePHEV VehicleType = "phev"
	VehicleBEV  VehicleType = "bev"
	VehicleFCEV VehicleType = "fcev"
)

// Valid reports whether v is a known vehicle type
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleICE, VehicleHEV, VehiclePHEV, VehicleBEV, VehicleFCEV:
		return true
	}
	return false
}

// IsZeroEmission reports whether the vehicle is battery-electric or hydrogen
func (v VehicleType) IsZeroEmission() bool {
	return v == VehicleBEV || v == VehicleFCEV
}

// PayFrequency is how often salary is paid
type PayFrequency string

const (
	PayWeekly      PayFrequency = "weekly"
	PayFortnightly PayFrequency = "fortnightly"
	PayMonthly     PayFrequency = "monthly"
)

// Valid reports whether f is a known pay frequency
func (f PayFrequency) Valid() bool {
	switch f {
	case PayWeekly, PayFortnightly, PayMonthly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of pay periods in a year.
// Unknown frequencies are treated as monthly.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case PayWeekly:
		return 52
	case PayFortnightly:
		return 26
	default:
		return 12
	}
}

// FinancialYear identifies an Australian financial year, e.g. "FY2025-26"
type FinancialYear string

// Allowed enumerations for finance and FBT inputs
var (
	AllowedTermMonths      = []int{12, 24, 36, 48, 60}
	AllowedPaymentsPerYear = []int{12, 26, 52}
	AllowedFBTYearDays     = []int{365, 366}
)

// ScenarioInput is a complete novated lease scenario. Optional values are pointers;
// a nil pointer means the value was not supplied.
type ScenarioInput struct {
	Vehicle       VehicleInput       `yaml:"vehicle" json:"vehicle"`
	Finance       FinanceInput       `yaml:"finance" json:"finance"`
	RunningCosts  RunningCostsInput  `yaml:"runningCosts" json:"runningCosts"`
	Salary        SalaryInput        `yaml:"salary" json:"salary"`
	FilingProfile FilingProfile      `yaml:"filingProfile" json:"filingProfile"`
	TaxOptions    TaxOptionsInput    `yaml:"taxOptions" json:"taxOptions"`
	Packaging     PackagingInput     `yaml:"packaging" json:"packaging"`
	Comparison    *ComparisonInput   `yaml:"comparison,omitempty" json:"comparison,omitempty"`
	QuoteContext  *QuoteContextInput `yaml:"quoteContext,omitempty" json:"quoteContext,omitempty"`
}

// VehicleInput describes the vehicle being leased
type VehicleInput struct {
	VehicleType               VehicleType `yaml:"vehicleType" json:"vehicleType"`
	PurchasePriceInclGST      float64     `yaml:"purchasePriceInclGst" json:"purchasePriceInclGst"`
	BaseValueForFBT           *float64    `yaml:"baseValueForFbt,omitempty" json:"baseValueForFbt,omitempty"`
	// EligibleForEVFBTExemption is informational. The engine decides the
	// exemption from vehicle type, price and dates alone.
	EligibleForEVFBTExemption bool        `yaml:"eligibleForEvFbtExemption" json:"eligibleForEvFbtExemption"`
	// FirstHeldAndUsedDate is an ISO date (YYYY-MM-DD)
	FirstHeldAndUsedDate              string `yaml:"firstHeldAndUsedDate,omitempty" json:"firstHeldAndUsedDate,omitempty"`
	WasPHEVExemptBefore20250401       bool   `yaml:"wasPhevExemptBefore2025_04_01,omitempty" json:"wasPhevExemptBefore2025_04_01,omitempty"`
	HasBindingCommitmentPre20250401   bool   `yaml:"hasBindingCommitmentPre2025_04_01,omitempty" json:"hasBindingCommitmentPre2025_04_01,omitempty"`
}

// FinanceInput holds the lease finance terms
type FinanceInput struct {
	TermMonths int `yaml:"termMonths" json:"termMonths"`
	// AnnualInterestRatePct is missing when nil, NaN or negative; the engine then infers it
	AnnualInterestRatePct    *float64 `yaml:"annualInterestRatePct,omitempty" json:"annualInterestRatePct,omitempty"`
	PaymentsPerYear          *int     `yaml:"paymentsPerYear,omitempty" json:"paymentsPerYear,omitempty"`
	EstablishmentFee         float64  `yaml:"establishmentFee" json:"establishmentFee"`
	MonthlyAccountKeepingFee float64  `yaml:"monthlyAccountKeepingFee" json:"monthlyAccountKeepingFee"`
	ResidualValueOverride    *float64 `yaml:"residualValueOverride,omitempty" json:"residualValueOverride,omitempty"`
}

// RunningCostsInput holds the annual running cost categories
type RunningCostsInput struct {
	AnnualRegistration             float64 `yaml:"annualRegistration" json:"annualRegistration"`
	AnnualInsurance                float64 `yaml:"annualInsurance" json:"annualInsurance"`
	AnnualMaintenance              float64 `yaml:"annualMaintenance" json:"annualMaintenance"`
	AnnualTyres                    float64 `yaml:"annualTyres" json:"annualTyres"`
	AnnualFuelOrElectricity        float64 `yaml:"annualFuelOrElectricity" json:"annualFuelOrElectricity"`
	AnnualOtherEligibleCarExpenses float64 `yaml:"annualOtherEligibleCarExpenses" json:"annualOtherEligibleCarExpenses"`
}

// Fields returns each category paired with its field path, in a stable order
func (r RunningCostsInput) Fields() []NamedValue {
	return []NamedValue{
		{Field: "runningCosts.annualRegistration", Value: r.AnnualRegistration},
		{Field: "runningCosts.annualInsurance", Value: r.AnnualInsurance},
		{Field: "runningCosts.annualMaintenance", Value: r.AnnualMaintenance},
		{Field: "runningCosts.annualTyres", Value: r.AnnualTyres},
		{Field: "runningCosts.annualFuelOrElectricity", Value: r.AnnualFuelOrElectricity},
		{Field: "runningCosts.annualOtherEligibleCarExpenses", Value: r.AnnualOtherEligibleCarExpenses},
	}
}

// NamedValue pairs a numeric input with its dotted field path
type NamedValue struct {
	Field string
	Value float64
}

// SalaryInput holds the employee's salary
type SalaryInput struct {
	GrossAnnualSalary float64      `yaml:"grossAnnualSalary" json:"grossAnnualSalary"`
	PayFrequency      PayFrequency `yaml:"payFrequency" json:"payFrequency"`
}

// FilingProfile holds tax residency details
type FilingProfile struct {
	ResidentForTaxPurposes        bool `yaml:"residentForTaxPurposes" json:"residentForTaxPurposes"`
	MedicareLevyReductionEligible bool `yaml:"medicareLevyReductionEligible" json:"medicareLevyReductionEligible"`
}

// TaxOptionsInput selects the tax year and FBT settings
type TaxOptionsInput struct {
	IncomeTaxYear                       FinancialYear `yaml:"incomeTaxYear" json:"incomeTaxYear"`
	IncludeMedicareLevy                 bool          `yaml:"includeMedicareLevy" json:"includeMedicareLevy"`
	MedicareLevyRateOverride            *float64      `yaml:"medicareLevyRateOverride,omitempty" json:"medicareLevyRateOverride,omitempty"`
	FBTYearDays                         *int          `yaml:"fbtYearDays,omitempty" json:"fbtYearDays,omitempty"`
	DaysAvailableForPrivateUseInFBTYear *int          `yaml:"daysAvailableForPrivateUseInFbtYear,omitempty" json:"daysAvailableForPrivateUseInFbtYear,omitempty"`
	FBTStatutoryRateOverride            *float64      `yaml:"fbtStatutoryRateOverride,omitempty" json:"fbtStatutoryRateOverride,omitempty"`
}

// PackagingInput holds the salary packaging switches
type PackagingInput struct {
	UseECM                       bool `yaml:"useEcm" json:"useEcm"`
	// EVFBTExemptionToggle is accepted for compatibility and ignored by the
	// engine; the exemption follows from the vehicle.
	EVFBTExemptionToggle         bool `yaml:"evFbtExemptionToggle" json:"evFbtExemptionToggle"`
	IncludeRunningCostsInPackage bool `yaml:"includeRunningCostsInPackage" json:"includeRunningCostsInPackage"`
}

// ComparisonInput tunes the buy-outright comparison
type ComparisonInput struct {
	OpportunityCostRatePct *float64 `yaml:"opportunityCostRatePct,omitempty" json:"opportunityCostRatePct,omitempty"`
}

// QuoteContextInput carries figures from a provider quote. They are only used to
// infer a missing interest rate and to flag variance against the model.
type QuoteContextInput struct {
	ProviderName                  string   `yaml:"providerName,omitempty" json:"providerName,omitempty"`
	QuotedPayPeriodDeductionTotal *float64 `yaml:"quotedPayPeriodDeductionTotal,omitempty" json:"quotedPayPeriodDeductionTotal,omitempty"`
	QuotedAnnualDeductionTotal    *float64 `yaml:"quotedAnnualDeductionTotal,omitempty" json:"quotedAnnualDeductionTotal,omitempty"`
	QuotedResidualValue           *float64 `yaml:"quotedResidualValue,omitempty" json:"quotedResidualValue,omitempty"`
	QuotedResidualPct             *float64 `yaml:"quotedResidualPct,omitempty" json:"quotedResidualPct,omitempty"`
	QuoteIncludesRunningCosts     bool     `yaml:"quoteIncludesRunningCosts,omitempty" json:"quoteIncludesRunningCosts,omitempty"`
	QuoteIncludesFuel             bool     `yaml:"quoteIncludesFuel,omitempty" json:"quoteIncludesFuel,omitempty"`
	QuoteListsInterestRate        bool     `yaml:"quoteListsInterestRate,omitempty" json:"quoteListsInterestRate,omitempty"`
	QuotedInterestRatePct         *float64 `yaml:"quotedInterestRatePct,omitempty" json:"quotedInterestRatePct,omitempty"`
	QuotedUpfrontFeesTotal        *float64 `yaml:"quotedUpfrontFeesTotal,omitempty" json:"quotedUpfrontFeesTotal,omitempty"`
	QuotedMonthlyAdminFee         *float64 `yaml:"quotedMonthlyAdminFee,omitempty" json:"quotedMonthlyAdminFee,omitempty"`
}

// Clone returns a deep copy of the scenario so transforms never alias pointers
func (s *ScenarioInput) Clone() *ScenarioInput {
	if s == nil {
		return nil
	}
	c := *s
	c.Vehicle.BaseValueForFBT = cloneFloat(s.Vehicle.BaseValueForFBT)
	c.Finance.AnnualInterestRatePct = cloneFloat(s.Finance.AnnualInterestRatePct)
	c.Finance.PaymentsPerYear = cloneInt(s.Finance.PaymentsPerYear)
	c.Finance.ResidualValueOverride = cloneFloat(s.Finance.ResidualValueOverride)
	c.TaxOptions.MedicareLevyRateOverride = cloneFloat(s.TaxOptions.MedicareLevyRateOverride)
	c.TaxOptions.FBTYearDays = cloneInt(s.TaxOptions.FBTYearDays)
	c.TaxOptions.DaysAvailableForPrivateUseInFBTYear = cloneInt(s.TaxOptions.DaysAvailableForPrivateUseInFBTYear)
	c.TaxOptions.FBTStatutoryRateOverride = cloneFloat(s.TaxOptions.FBTStatutoryRateOverride)
	if s.Comparison != nil {
		cmp := ComparisonInput{OpportunityCostRatePct: cloneFloat(s.Comparison.OpportunityCostRatePct)}
		c.Comparison = &cmp
	}
	if s.QuoteContext != nil {
		q := *s.QuoteContext
		q.QuotedPayPeriodDeductionTotal = cloneFloat(q.QuotedPayPeriodDeductionTotal)
		q.QuotedAnnualDeductionTotal = cloneFloat(q.QuotedAnnualDeductionTotal)
		q.QuotedResidualValue = cloneFloat(q.QuotedResidualValue)
		q.QuotedResidualPct = cloneFloat(q.QuotedResidualPct)
		q.QuotedInterestRatePct = cloneFloat(q.QuotedInterestRatePct)
		q.QuotedUpfrontFeesTotal = cloneFloat(q.QuotedUpfrontFeesTotal)
		q.QuotedMonthlyAdminFee = cloneFloat(q.QuotedMonthlyAdminFee)
		c.QuoteContext = &q
	}
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v, for building optional inputs
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building optional inputs
func Int(v int) *int { return &v }
