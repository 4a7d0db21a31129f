package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/erraggy/jsctools/gogen"
	"github.com/erraggy/jsctools/internal/options"
	"github.com/erraggy/jsctools/merge"
	"github.com/erraggy/jsctools/schema"
)

// Result reports what a generate run produced.
type Result struct {
	// Source is the final generated file content, post-merge and
	// formatting.
	Source []byte

	// OutputPath is the destination file, empty when no output path was
	// configured and the source was only returned in memory.
	OutputPath string

	// Written reports whether the destination file was created or
	// replaced.
	Written bool

	// Merged reports whether an existing output file was reconciled.
	Merged bool

	// ClassCount, EnumCount, and AliasCount summarize the generated IR.
	ClassCount int
	EnumCount  int
	AliasCount int

	// Duration is the total pipeline time.
	Duration time.Duration
}

// Option is a function that configures a generate operation.
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation.
type generateConfig struct {
	// Input source (exactly one must be set)
	schemaPath string
	tree       *schema.Tree

	cfg        *analyzer.Config
	configPath string

	packageName   string
	outputPath    string
	outputMode    string
	mergeStrategy string
	backend       gogen.Backend
	logger        schema.Logger
}

// GenerateWithOptions runs the full pipeline — parse, analyze, generate,
// merge, write — as a pure function of its options. The same inputs always
// produce byte-identical output.
//
// Example:
//
//	result, err := codegen.GenerateWithOptions(
//	    codegen.WithSchemaPath("task.schema.json"),
//	    codegen.WithPackageName("task"),
//	    codegen.WithOutputPath("task/types.go"),
//	    codegen.WithOutputMode(analyzer.ModeMerge),
//	)
func GenerateWithOptions(opts ...Option) (*Result, error) {
	started := time.Now()

	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("codegen: invalid options: %w", err)
	}

	tree := cfg.tree
	if tree == nil {
		tree, err = schema.ParseFile(cfg.schemaPath)
		if err != nil {
			return nil, err
		}
	}

	ir, err := analyzer.AnalyzeWithLogger(tree, *cfg.cfg, cfg.logger)
	if err != nil {
		return nil, err
	}

	source, err := cfg.backend.Generate(ir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:     source,
		OutputPath: cfg.outputPath,
		ClassCount: len(ir.Classes),
		EnumCount:  len(ir.Enums),
		AliasCount: len(ir.Aliases),
	}

	if cfg.outputPath != "" {
		if err := writeOutput(cfg, result); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(started)
	cfg.logger.Info("generation complete",
		"classes", result.ClassCount,
		"enums", result.EnumCount,
		"aliases", result.AliasCount,
		"output", result.OutputPath,
		"written", result.Written,
		"duration", result.Duration)
	return result, nil
}

// writeOutput delivers result.Source to the destination per the output
// mode, reconciling with an existing file first in merge mode.
func writeOutput(cfg *generateConfig, result *Result) error {
	var writer merge.AtomicWriter

	switch cfg.outputMode {
	case analyzer.ModeErrorIfExists:
		if err := writer.WriteIfNotExists(cfg.outputPath, result.Source); err != nil {
			return err
		}
	case analyzer.ModeMerge:
		existing, err := os.ReadFile(cfg.outputPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// First run; nothing to reconcile.
		case err != nil:
			return fmt.Errorf("codegen: cannot read existing output: %w", err)
		default:
			merged, err := merge.Merge(result.Source, existing, merge.Strategy(cfg.mergeStrategy))
			if err != nil {
				return err
			}
			result.Source = merged
			result.Merged = true
		}
		if err := writer.Write(cfg.outputPath, result.Source); err != nil {
			return err
		}
	default: // analyzer.ModeOverwrite
		if err := writer.Write(cfg.outputPath, result.Source); err != nil {
			return err
		}
	}

	result.Written = true
	return nil
}

// applyOptions applies option functions, resolves the analyzer config, and
// validates the combination.
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		packageName: "types",
		logger:      schema.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithSchemaPath or WithSchemaTree)",
		"must specify exactly one input source",
		cfg.schemaPath != "", cfg.tree != nil,
	); err != nil {
		return nil, err
	}
	if cfg.cfg != nil && cfg.configPath != "" {
		return nil, fmt.Errorf("WithConfig and WithConfigPath are mutually exclusive")
	}

	switch {
	case cfg.configPath != "":
		loaded, err := analyzer.LoadConfig(cfg.configPath)
		if err != nil {
			return nil, err
		}
		cfg.cfg = &loaded
	case cfg.cfg == nil:
		def := analyzer.DefaultConfig()
		cfg.cfg = &def
	default:
		if err := cfg.cfg.Validate(); err != nil {
			return nil, err
		}
	}

	// Explicit options override the config file's output block.
	if cfg.outputMode == "" {
		cfg.outputMode = cfg.cfg.Output.Mode
	}
	if cfg.mergeStrategy == "" {
		cfg.mergeStrategy = cfg.cfg.Output.MergeStrategy
	}
	if cfg.outputMode == "" {
		cfg.outputMode = analyzer.ModeOverwrite
	}
	if cfg.mergeStrategy == "" {
		cfg.mergeStrategy = analyzer.StrategyError
	}

	if cfg.backend == nil {
		cfg.backend = gogen.NewBackend(cfg.packageName)
	}
	return cfg, nil
}

// WithSchemaPath specifies a schema file (JSON or YAML) as the input source.
func WithSchemaPath(path string) Option {
	return func(cfg *generateConfig) error {
		if path == "" {
			return fmt.Errorf("schema path must not be empty")
		}
		cfg.schemaPath = path
		return nil
	}
}

// WithSchemaTree specifies an already parsed schema tree as the input
// source.
func WithSchemaTree(tree *schema.Tree) Option {
	return func(cfg *generateConfig) error {
		if tree == nil {
			return fmt.Errorf("schema tree must not be nil")
		}
		cfg.tree = tree
		return nil
	}
}

// WithConfig supplies an analysis configuration directly. Mutually
// exclusive with WithConfigPath.
func WithConfig(c analyzer.Config) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg = &c
		return nil
	}
}

// WithConfigPath loads the analysis configuration from a YAML or JSON file.
func WithConfigPath(path string) Option {
	return func(cfg *generateConfig) error {
		if path == "" {
			return fmt.Errorf("config path must not be empty")
		}
		cfg.configPath = path
		return nil
	}
}

// WithPackageName sets the generated package name. Defaults to "types".
// Ignored when WithBackend supplies a custom backend.
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" {
			return fmt.Errorf("package name must not be empty")
		}
		cfg.packageName = name
		return nil
	}
}

// WithOutputPath sets the destination file. When unset, the generated
// source is only returned in Result.Source.
func WithOutputPath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.outputPath = path
		return nil
	}
}

// WithOutputMode overrides the configured output mode: error_if_exists,
// overwrite, or merge.
func WithOutputMode(mode string) Option {
	return func(cfg *generateConfig) error {
		switch mode {
		case analyzer.ModeErrorIfExists, analyzer.ModeOverwrite, analyzer.ModeMerge:
			cfg.outputMode = mode
			return nil
		default:
			return fmt.Errorf("unknown output mode %q", mode)
		}
	}
}

// WithMergeStrategy overrides the configured merge strategy: error, merge,
// or delete.
func WithMergeStrategy(strategy string) Option {
	return func(cfg *generateConfig) error {
		switch strategy {
		case analyzer.StrategyError, analyzer.StrategyMerge, analyzer.StrategyDelete:
			cfg.mergeStrategy = strategy
			return nil
		default:
			return fmt.Errorf("unknown merge strategy %q", strategy)
		}
	}
}

// WithBackend supplies a custom code generation backend.
func WithBackend(b gogen.Backend) Option {
	return func(cfg *generateConfig) error {
		if b == nil {
			return fmt.Errorf("backend must not be nil")
		}
		cfg.backend = b
		return nil
	}
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(logger schema.Logger) Option {
	return func(cfg *generateConfig) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}
