package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct {
	debug bool
}

func (l simpleCLILogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf("DEBUG: "+format, args...)
	}
}
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitCodeError ends the process with code. An empty message prints nothing.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := 1
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "novated",
		Short: "Novated lease calculator CLI",
		Long: "Models an Australian novated car lease against buying outright: lease finance, " +
			"FBT under the statutory formula, salary packaging, income tax and Medicare levy.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("tables", "", "Path to reference tables YAML (default: embedded tables)")
	root.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	root.AddCommand(
		newCalculateCmd(),
		newValidateCmd(),
		newCompareCmd(),
		newBreakEvenCmd(),
		newSimpleInterestCmd(),
		newTablesCmd(),
		newServeCmd(),
		newExploreCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "novated %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// loadTables returns the --tables file, or the embedded defaults
func loadTables(cmd *cobra.Command) (*domain.ReferenceTables, error) {
	path, _ := cmd.Flags().GetString("tables")
	if path == "" {
		return config.DefaultTables()
	}
	tables, err := config.LoadTables(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}
	return tables, nil
}

// newEngine builds an engine from the --tables and --debug flags
func newEngine(cmd *cobra.Command) (*calculation.Engine, error) {
	tables, err := loadTables(cmd)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewEngine(tables, tables.Assumptions)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{debug: true})
	}
	return engine, nil
}

// loadScenario reads a scenario file and applies transform specs in order
func loadScenario(path string, specs []string) (*domain.ScenarioInput, error) {
	scenario, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return scenario, nil
	}

	transforms, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
	if err != nil {
		return nil, err
	}
	return transform.ApplyTransforms(scenario, transforms)
}

// scenarioName derives a display name from a file path
func scenarioName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
