// Package config holds the single immutable configuration value threaded
// through every stage of an analysis.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Decision id styles.
const (
	IDStyleSequential = "sequential"
	IDStyleName       = "name"
)

// Default ceilings.
const (
	DefaultMaxGates = 10
	DefaultMaxPaths = 1024
	// MaxGatesCeiling keeps 2^max_gates within an int on every platform.
	MaxGatesCeiling = 30
)

// Config is passed by value; components never mutate it.
type Config struct {
	StartLabel string `yaml:"start_label" mapstructure:"start_label" json:"start_label"`
	EndLabel   string `yaml:"end_label" mapstructure:"end_label" json:"end_label"`

	TrueLabel        string `yaml:"true_label" mapstructure:"true_label" json:"true_label"`
	FalseLabel       string `yaml:"false_label" mapstructure:"false_label" json:"false_label"`
	SignalTrueLabel  string `yaml:"signal_true_label" mapstructure:"signal_true_label" json:"signal_true_label"`
	SignalFalseLabel string `yaml:"signal_false_label" mapstructure:"signal_false_label" json:"signal_false_label"`

	// SplitWords turns "ValidateOrder" into "Validate Order" in node labels.
	SplitWords bool `yaml:"split_words" mapstructure:"split_words" json:"split_words"`
	// DecisionIDStyle is "sequential" (d0, d1, s0) or "name" (derived from the gate name).
	DecisionIDStyle string `yaml:"decision_id_style" mapstructure:"decision_id_style" json:"decision_id_style"`

	Compact            bool   `yaml:"compact" mapstructure:"compact" json:"compact"`
	MermaidOnly        bool   `yaml:"mermaid_only" mapstructure:"mermaid_only" json:"mermaid_only"`
	SuppressValidation bool   `yaml:"suppress_validation" mapstructure:"suppress_validation" json:"suppress_validation"`
	Direction          string `yaml:"direction" mapstructure:"direction" json:"direction"`
	Arrow              string `yaml:"arrow" mapstructure:"arrow" json:"arrow"`

	MaxGates int `yaml:"max_gates" mapstructure:"max_gates" json:"max_gates"`
	MaxPaths int `yaml:"max_paths" mapstructure:"max_paths" json:"max_paths"`

	Extract ExtractConfig `yaml:"extract" mapstructure:"extract" json:"extract"`
}

// ExtractConfig names the calls the Go front end recognizes.
type ExtractConfig struct {
	// ActivityCalls are fully qualified call expressions (pkg.Func) that run an activity.
	ActivityCalls  []string `yaml:"activity_calls" mapstructure:"activity_calls" json:"activity_calls"`
	DecisionHelper string   `yaml:"decision_helper" mapstructure:"decision_helper" json:"decision_helper"`
	SignalHelper   string   `yaml:"signal_helper" mapstructure:"signal_helper" json:"signal_helper"`
	// ContextType is the first-parameter type marking workflow entry points.
	ContextType string `yaml:"context_type" mapstructure:"context_type" json:"context_type"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		StartLabel:       "Start",
		EndLabel:         "End",
		TrueLabel:        "yes",
		FalseLabel:       "no",
		SignalTrueLabel:  "Signaled",
		SignalFalseLabel: "Timeout",
		SplitWords:       true,
		DecisionIDStyle:  IDStyleSequential,
		Direction:        "LR",
		Arrow:            " -> ",
		MaxGates:         DefaultMaxGates,
		MaxPaths:         DefaultMaxPaths,
		Extract: ExtractConfig{
			ActivityCalls:  []string{"workflow.ExecuteActivity", "workflow.ExecuteLocalActivity"},
			DecisionHelper: "ToDecision",
			SignalHelper:   "WaitSignal",
			ContextType:    "workflow.Context",
		},
	}
}

// Load reads a YAML file and overlays it on Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return FromMap(raw)
}

// FromMap overlays loosely typed values (decoded YAML or JSON) on Default.
// Unknown keys are rejected.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, cfg.Validate()
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the tunables for consistency.
func (c Config) Validate() error {
	var errs []error
	if c.MaxGates < 1 || c.MaxGates > MaxGatesCeiling {
		errs = append(errs, &ValidationError{Key: "max_gates", Reason: fmt.Sprintf("must be between 1 and %d", MaxGatesCeiling), Value: c.MaxGates})
	}
	if c.MaxPaths < 1 {
		errs = append(errs, &ValidationError{Key: "max_paths", Reason: "must be positive", Value: c.MaxPaths})
	}
	if c.DecisionIDStyle != IDStyleSequential && c.DecisionIDStyle != IDStyleName {
		errs = append(errs, &ValidationError{Key: "decision_id_style", Reason: `must be "sequential" or "name"`, Value: c.DecisionIDStyle})
	}
	switch c.Direction {
	case "LR", "RL", "TD", "TB", "BT":
	default:
		errs = append(errs, &ValidationError{Key: "direction", Reason: "must be one of LR, RL, TD, TB, BT", Value: c.Direction})
	}
	for key, v := range map[string]string{
		"start_label": c.StartLabel, "end_label": c.EndLabel,
		"true_label": c.TrueLabel, "false_label": c.FalseLabel,
		"signal_true_label": c.SignalTrueLabel, "signal_false_label": c.SignalFalseLabel,
	} {
		if v == "" {
			errs = append(errs, &ValidationError{Key: key, Reason: "must not be empty"})
		}
	}
	if len(errs) > 0 {
		sortErrors(errs)
		return &AggregateError{Errors: errs}
	}
	return nil
}

// OutcomeLabel returns the edge label for a gate outcome, honoring per-element overrides.
func (c Config) OutcomeLabel(e domain.SourceElement, outcome bool) string {
	if outcome {
		if e.TrueLabel != "" {
			return e.TrueLabel
		}
		if e.Kind == domain.KindSignal {
			return c.SignalTrueLabel
		}
		return c.TrueLabel
	}
	if e.FalseLabel != "" {
		return e.FalseLabel
	}
	if e.Kind == domain.KindSignal {
		return c.SignalFalseLabel
	}
	return c.FalseLabel
}
