package compare

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	// Concurrency bounds the variants calculated at once; zero means GOMAXPROCS
	Concurrency int
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(calcEngine.Assumptions.RoundingPrecisionDP),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// Variant is one named alternative to the base scenario
type Variant struct {
	Name        string
	Description string
	Transforms  []transform.ScenarioTransform
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string    // Display name of the base scenario
	Templates        []string  // Template names to apply, each producing one variant
	Variants         []Variant // Explicit variants, run after the templates
	ScenarioPath     string
}

// Compare calculates the base scenario and every variant. Variants run
// concurrently; results keep the order in which they were requested.
func (ce *CompareEngine) Compare(ctx context.Context, base *domain.ScenarioInput, options CompareOptions) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	variants := make([]Variant, 0, len(options.Templates)+len(options.Variants))
	for _, name := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}
		variants = append(variants, Variant{Name: template.Name, Description: template.Description, Transforms: template.Transforms})
	}
	variants = append(variants, options.Variants...)

	// Apply every transform up front so a bad template fails before any work
	scenarios := make([]*domain.ScenarioInput, len(variants))
	for i, v := range variants {
		modified, err := transform.ApplyTransforms(base, v.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", v.Name, err)
		}
		scenarios[i] = modified
	}

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, base, ce.CalcEngine.Calculate(base))
	baseResult.Description = "Base scenario"

	alternatives := make([]ComparisonResult, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ce.limit())
	for i := range variants {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := ce.CalcEngine.Calculate(scenarios[i])
			alt := ce.MetricsCalculator.CalculateMetrics(baseName+"_"+variants[i].Name, scenarios[i], out)
			alt.Description = variants[i].Description
			alternatives[i] = ce.MetricsCalculator.CalculateComparison(alt, baseResult)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison cancelled: %w", err)
	}

	compSet := &ComparisonSet{
		RunID:              uuid.NewString(),
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ScenarioPath:       options.ScenarioPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	ce.CalcEngine.Logger.Debugf("compare run %s: %d variants", compSet.RunID, len(alternatives))
	return compSet, nil
}

func (ce *CompareEngine) limit() int {
	if ce.Concurrency > 0 {
		return ce.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
