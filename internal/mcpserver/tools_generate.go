package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/erraggy/jsctools/codegen"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateInput struct {
	Schema        schemaInput `json:"schema"                   jsonschema:"The JSON Schema document to generate Go source from"`
	Config        configInput `json:"config,omitempty"         jsonschema:"Optional jsctools configuration (file path or inline content)"`
	PackageName   string      `json:"package_name,omitempty"   jsonschema:"Go package name for generated code (default: types)"`
	OutputPath    string      `json:"output_path,omitempty"    jsonschema:"File to write generated source to; omit to return the source inline"`
	OutputMode    string      `json:"output_mode,omitempty"    jsonschema:"How to treat an existing output file: error_if_exists, overwrite, or merge"`
	MergeStrategy string      `json:"merge_strategy,omitempty" jsonschema:"In merge mode, what to do with struct fields no longer generated: error, merge, or delete"`
}

type generateOutput struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Written    bool   `json:"written"`
	Merged     bool   `json:"merged"`
	ClassCount int    `json:"class_count"`
	EnumCount  int    `json:"enum_count"`
	AliasCount int    `json:"alias_count"`
	// Source carries the generated file inline when no output_path was
	// given.
	Source string `json:"source,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	tree, err := input.Schema.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	cfg, err := input.Config.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := []codegen.Option{
		codegen.WithSchemaTree(tree),
		codegen.WithConfig(cfg),
	}
	if input.PackageName != "" {
		opts = append(opts, codegen.WithPackageName(input.PackageName))
	}
	if input.OutputPath != "" {
		opts = append(opts, codegen.WithOutputPath(input.OutputPath))
	}
	if input.OutputMode != "" {
		opts = append(opts, codegen.WithOutputMode(input.OutputMode))
	}
	if input.MergeStrategy != "" {
		opts = append(opts, codegen.WithMergeStrategy(input.MergeStrategy))
	}
	if input.OutputPath == "" && input.OutputMode != "" && input.OutputMode != analyzer.ModeOverwrite {
		return errResult(fmt.Errorf("output_mode %q requires output_path", input.OutputMode)), generateOutput{}, nil
	}

	result, err := codegen.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:    true,
		OutputPath: result.OutputPath,
		Written:    result.Written,
		Merged:     result.Merged,
		ClassCount: result.ClassCount,
		EnumCount:  result.EnumCount,
		AliasCount: result.AliasCount,
	}
	if input.OutputPath == "" {
		output.Source = string(result.Source)
	}
	return nil, output, nil
}
