package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// Engine evaluates novated lease scenarios against immutable reference tables.
// It holds no mutable state, so one Engine may serve concurrent callers.
type Engine struct {
	Tables      *domain.ReferenceTables
	Assumptions domain.EngineAssumptions
	Logger      Logger
}

// NewEngine creates an engine over the given tables and process-wide assumptions
func NewEngine(tables *domain.ReferenceTables, assumptions domain.EngineAssumptions) *Engine {
	return &Engine{
		Tables:      tables,
		Assumptions: assumptions,
		Logger:      NopLogger{},
	}
}

// SetLogger installs a logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// pipeline states. Each state returns the next; stateDone ends the run.
type state int

const (
	stateValidateStructure state = iota
	stateResolveRate
	stateCompute
	stateValidateComputed
	stateAssemble
	stateFail
	stateDone
)

func (s state) String() string {
	switch s {
	case stateValidateStructure:
		return "validate_structure"
	case stateResolveRate:
		return "resolve_rate"
	case stateCompute:
		return "compute"
	case stateValidateComputed:
		return "validate_computed"
	case stateAssemble:
		return "assemble"
	case stateFail:
		return "fail"
	default:
		return "done"
	}
}

// Calculate evaluates one scenario. It never returns nil and never panics on
// bad input: every problem is reported in Output.ValidationIssues.
func (e *Engine) Calculate(in *domain.ScenarioInput) *domain.Output {
	r := e.newRun(in)
	for s := stateValidateStructure; s != stateDone; {
		next := r.step(s)
		e.Logger.Debugf("calculation: %s -> %s", s, next)
		s = next
	}
	return r.out
}

// run carries one calculation through the pipeline
type run struct {
	e     *Engine
	in    *domain.ScenarioInput
	year  domain.YearTables
	money func(decimal.Decimal) decimal.Decimal

	issues      []domain.ValidationIssue
	assumptions []domain.AppliedAssumption
	inferred    []domain.InferredParameter

	// resolved inputs
	paymentsPerYear int
	payPeriods      int
	residual        decimal.Decimal
	residualSource  domain.ResidualSource
	ratePct         float64
	fbtYearDays     int
	daysAvailable   int
	fbtRate         decimal.Decimal
	levyRate        decimal.Decimal

	// computed values, unrounded
	lease     leaseSchedule
	fbt       fbtValuation
	packaging packageSplit
	tax       taxPosition

	out *domain.Output
}

func (e *Engine) newRun(in *domain.ScenarioInput) *run {
	dp := e.Assumptions.RoundingPrecisionDP
	r := &run{
		e:     e,
		in:    in,
		money: func(d decimal.Decimal) decimal.Decimal { return d.Round(dp) },
	}
	fbtSource := ""
	fbtMethod := domain.FBTMethodStatutory
	if e.Tables != nil {
		fbtSource = e.Tables.FBT.Source
		if e.Tables.FBT.Method != "" {
			fbtMethod = e.Tables.FBT.Method
		}
	}
	r.assumptions = []domain.AppliedAssumption{
		{Key: "rounding", Label: "Currency rounding precision", Value: int(dp), Source: e.Assumptions.Source},
		{Key: "fbt_method", Label: "FBT method", Value: fbtMethod, Source: fbtSource},
	}
	return r
}

func (r *run) step(s state) state {
	switch s {
	case stateValidateStructure:
		if r.in == nil {
			r.addError(domain.CodeRequiredNumberInvalid, "scenario", "Scenario is required.")
			return stateFail
		}
		r.validateStructure()
		if domain.HasErrors(r.issues) {
			return stateFail
		}
		return stateResolveRate
	case stateResolveRate:
		r.resolveRate()
		if domain.HasErrors(r.issues) {
			return stateFail
		}
		return stateCompute
	case stateCompute:
		r.computeLease()
		r.computeFBT()
		r.computePackaging()
		r.computeTax()
		return stateValidateComputed
	case stateValidateComputed:
		r.validateComputed()
		if domain.HasErrors(r.issues) {
			return stateFail
		}
		return stateAssemble
	case stateAssemble:
		r.assemble()
		return stateDone
	default:
		r.fail()
		return stateDone
	}
}

// fail builds the failure snapshot: no breakdowns, issues and audit trail kept
func (r *run) fail() {
	r.out = &domain.Output{
		OK:                 false,
		ValidationIssues:   nonNilIssues(r.issues),
		Assumptions:        r.assumptions,
		InferredParameters: nonNilInferred(r.inferred),
	}
}

func (r *run) addError(code, field, message string) {
	r.issues = append(r.issues, domain.ValidationIssue{Code: code, Field: field, Message: message, Severity: domain.SeverityError})
}

func (r *run) addWarning(code, field, message string) {
	r.issues = append(r.issues, domain.ValidationIssue{Code: code, Field: field, Message: message, Severity: domain.SeverityWarning})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finitePtr returns the value of an optional input when it is present and finite
func finitePtr(v *float64) (float64, bool) {
	if v == nil || !isFinite(*v) {
		return 0, false
	}
	return *v, true
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// num converts a rounded decimal into a plain number for audit entries
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nonNilIssues(issues []domain.ValidationIssue) []domain.ValidationIssue {
	if issues == nil {
		return []domain.ValidationIssue{}
	}
	return issues
}

func nonNilInferred(params []domain.InferredParameter) []domain.InferredParameter {
	if params == nil {
		return []domain.InferredParameter{}
	}
	return params
}
