package analyzer

import (
	"fmt"
	"os"

	"github.com/erraggy/jsctools/schemaerrors"
	"go.yaml.in/yaml/v4"
)

// Output mode values for OutputConfig.Mode.
const (
	// ModeErrorIfExists refuses to touch an existing output file.
	ModeErrorIfExists = "error_if_exists"
	// ModeOverwrite replaces the output file unconditionally.
	ModeOverwrite = "overwrite"
	// ModeMerge reconciles with an existing output file, preserving
	// custom code.
	ModeMerge = "merge"
)

// Merge strategy values for OutputConfig.MergeStrategy.
const (
	// StrategyError aborts on members present in the existing file but no
	// longer generated.
	StrategyError = "error"
	// StrategyMerge retains such members as-is.
	StrategyMerge = "merge"
	// StrategyDelete drops them.
	StrategyDelete = "delete"
)

// OutputConfig controls how generated text reaches the destination file.
type OutputConfig struct {
	Mode          string `yaml:"mode" json:"mode"`
	MergeStrategy string `yaml:"merge_strategy" json:"merge_strategy"`
}

// Config controls analysis. The zero value is not useful; start from
// DefaultConfig. The value is immutable once analysis begins and is
// threaded explicitly through every phase.
type Config struct {
	// IgnoreClasses lists definition or class names removed from the IR.
	// A surviving reference to a removed class fails analysis.
	IgnoreClasses []string `yaml:"ignore_classes" json:"ignore_classes"`

	// GlobalIgnoreFields lists property names stripped from every class.
	GlobalIgnoreFields []string `yaml:"global_ignore_fields" json:"global_ignore_fields"`

	// OrderClasses moves the named classes to the front of the emission
	// order, in the given order; the remainder keeps discovery order.
	OrderClasses []string `yaml:"order_classes" json:"order_classes"`

	// IgnoreSubClassOverrides drops a subclass field that duplicates an
	// ancestor's, unless the field carries a const value.
	IgnoreSubClassOverrides bool `yaml:"ignoreSubClassOverrides" json:"ignoreSubClassOverrides"`

	// DropMinMaxItems ignores array arity constraints, turning would-be
	// tuples into plain arrays.
	DropMinMaxItems bool `yaml:"drop_min_max_items" json:"drop_min_max_items"`

	// UseArrayOfSuperTypeForVariableLengthTuple collapses a
	// variable-length tuple of sibling classes to an array of their
	// common base.
	UseArrayOfSuperTypeForVariableLengthTuple bool `yaml:"use_array_of_super_type_for_variable_length_tuple" json:"use_array_of_super_type_for_variable_length_tuple"`

	// UseTuples emits fixed-arity tuple types for positional items lists.
	UseTuples bool `yaml:"use_tuples" json:"use_tuples"`

	// UseInlineUnions represents property-level oneOf/anyOf inline at each
	// use site instead of promoting a named type alias.
	UseInlineUnions bool `yaml:"use_inline_unions" json:"use_inline_unions"`

	// ExternalRefBaseModule is the import path prefix for types generated
	// from other schema documents.
	ExternalRefBaseModule string `yaml:"external_ref_base_module" json:"external_ref_base_module"`

	// ExternalRefSchemaToModule maps an external schema document path to
	// its module name under ExternalRefBaseModule.
	ExternalRefSchemaToModule map[string]string `yaml:"external_ref_schema_to_module" json:"external_ref_schema_to_module"`

	// SchemaBasePath is the directory external schema files resolve
	// against. Empty leaves external definitions unloaded.
	SchemaBasePath string `yaml:"schema_base_path" json:"schema_base_path"`

	Output OutputConfig `yaml:"output" json:"output"`
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		UseTuples: true,
		Output: OutputConfig{
			Mode:          ModeOverwrite,
			MergeStrategy: StrategyError,
		},
	}
}

// LoadConfig reads a YAML or JSON configuration file, layered over
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &schemaerrors.ConfigError{Option: "config", Value: path, Message: "cannot read config file", Cause: err}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &schemaerrors.ConfigError{Option: "config", Value: path, Message: "invalid config file", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks option values and cross-option consistency.
func (c Config) Validate() error {
	switch c.Output.Mode {
	case "", ModeErrorIfExists, ModeOverwrite, ModeMerge:
	default:
		return &schemaerrors.ConfigError{
			Option:  "output.mode",
			Value:   c.Output.Mode,
			Message: fmt.Sprintf("must be one of %q, %q, %q", ModeErrorIfExists, ModeOverwrite, ModeMerge),
		}
	}
	switch c.Output.MergeStrategy {
	case "", StrategyError, StrategyMerge, StrategyDelete:
	default:
		return &schemaerrors.ConfigError{
			Option:  "output.merge_strategy",
			Value:   c.Output.MergeStrategy,
			Message: fmt.Sprintf("must be one of %q, %q, %q", StrategyError, StrategyMerge, StrategyDelete),
		}
	}
	if len(c.ExternalRefSchemaToModule) > 0 && c.ExternalRefBaseModule == "" {
		return &schemaerrors.ConfigError{
			Option:  "external_ref_schema_to_module",
			Message: "requires external_ref_base_module",
		}
	}
	return nil
}
