package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/compare"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [scenario-file]",
		Short: "Compare a scenario against what-if variants",
		Long: `Compare a base novated lease scenario against built-in templates and ad hoc transforms.

Examples:
  novated compare car.yaml --with term_48,rate_minus_1
  novated compare car.yaml --transform set_price:price=45000 --format csv
  novated compare --list-templates  # Show all available templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompare,
	}
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArrayP("transform", "t", nil, "Transform spec run as its own variant (repeatable)")
	cmd.Flags().String("name", "", "Display name of the base scenario (default: file name)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(w, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("scenario file required for comparison (use --list-templates to see available templates)")
	}

	templatesStr, _ := cmd.Flags().GetString("with")
	specs, _ := cmd.Flags().GetStringArray("transform")
	templateNames := transform.ParseTemplateList(templatesStr)
	if len(templateNames) == 0 && len(specs) == 0 {
		return fmt.Errorf("--with or --transform is required to specify what to compare")
	}

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	switch format {
	case "table", "console", "", "compact", "csv", "json":
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	scenario, err := loadScenario(args[0], nil)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = scenarioName(args[0])
	}
	opts := compare.CompareOptions{
		BaseScenarioName: name,
		Templates:        templateNames,
		ScenarioPath:     args[0],
	}
	registry := transform.NewTransformRegistry()
	for i, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return err
		}
		opts.Variants = append(opts.Variants, compare.Variant{
			Name:        fmt.Sprintf("variant_%d", i+1),
			Description: spec,
			Transforms:  []transform.ScenarioTransform{t},
		})
	}

	compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), scenario, opts)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	switch format {
	case "csv":
		data, err := (&compare.CSVFormatter{}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		fmt.Fprint(w, data)
	case "json":
		data, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprint(w, data)
	case "compact":
		fmt.Fprintln(w, (&compare.TableFormatter{}).FormatCompact(compSet))
	default:
		fmt.Fprint(w, (&compare.TableFormatter{}).Format(compSet))
	}
	return nil
}
