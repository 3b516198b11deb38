package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	json "github.com/goccy/go-json"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// Format is a scenario file encoding
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatHJSON Format = "hjson"
)

// InputParser handles parsing of scenario files.
// Field-level checks belong to the engine, which reports them as issues;
// the parser only rejects documents it cannot decode.
type InputParser struct {
	// Strict disables the repair and HJSON fallbacks for JSON input
	Strict bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DetectFormat picks a format from the file extension, defaulting to YAML
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".hjson":
		return FormatHJSON
	default:
		return FormatYAML
	}
}

// LoadFromFile loads a scenario from a YAML, JSON or HJSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.ScenarioInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	scenario, err := ip.Parse(data, DetectFormat(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scenario, nil
}

// Parse decodes a scenario document in the given format
func (ip *InputParser) Parse(data []byte, format Format) (*domain.ScenarioInput, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("scenario document is empty")
	}

	var scenario domain.ScenarioInput
	switch format {
	case FormatJSON:
		if err := ip.decodeJSON(data, &scenario); err != nil {
			return nil, err
		}
	case FormatHJSON:
		if err := decodeHJSON(data, &scenario); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}
	return &scenario, nil
}

// decodeJSON tries strict JSON first, then a repaired document, then HJSON
func (ip *InputParser) decodeJSON(data []byte, out *domain.ScenarioInput) error {
	err := json.Unmarshal(data, out)
	if err == nil || ip.Strict {
		if err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}

	if repaired, repairErr := jsonrepair.RepairJSON(string(data)); repairErr == nil {
		*out = domain.ScenarioInput{}
		if json.Unmarshal([]byte(repaired), out) == nil {
			return nil
		}
	}

	*out = domain.ScenarioInput{}
	if hjsonErr := decodeHJSON(data, out); hjsonErr == nil {
		return nil
	}
	return fmt.Errorf("failed to parse JSON: %w", err)
}

// decodeHJSON parses HJSON into generic values and re-encodes as JSON so the
// struct's json tags drive the final decode
func decodeHJSON(data []byte, out *domain.ScenarioInput) error {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to parse HJSON: %w", err)
	}
	normalized, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to normalize HJSON: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("failed to decode HJSON: %w", err)
	}
	return nil
}

// Marshal encodes a scenario in the given format
func Marshal(scenario *domain.ScenarioInput, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, FormatHJSON:
		return json.MarshalIndent(scenario, "", "  ")
	default:
		return yaml.Marshal(scenario)
	}
}
