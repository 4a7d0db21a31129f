package mcpserver

import (
	"context"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type analyzeInput struct {
	Schema schemaInput `json:"schema"           jsonschema:"The JSON Schema document to analyze"`
	Config configInput `json:"config,omitempty" jsonschema:"Optional jsctools configuration (file path or inline content)"`
}

type fieldSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Const    bool   `json:"const,omitempty"`
	Override bool   `json:"override,omitempty"`
}

type classSummary struct {
	Name          string         `json:"name"`
	BaseClass     string         `json:"base_class,omitempty"`
	Abstract      bool           `json:"abstract,omitempty"`
	Discriminator string         `json:"discriminator,omitempty"`
	Subclasses    []string       `json:"subclasses,omitempty"`
	Fields        []fieldSummary `json:"fields,omitempty"`
}

type enumSummary struct {
	Name     string   `json:"name"`
	BaseType string   `json:"base_type"`
	Members  []string `json:"members"`
}

type aliasSummary struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type analyzeOutput struct {
	ClassCount int            `json:"class_count"`
	EnumCount  int            `json:"enum_count"`
	AliasCount int            `json:"alias_count"`
	Classes    []classSummary `json:"classes,omitempty"`
	Enums      []enumSummary  `json:"enums,omitempty"`
	Aliases    []aliasSummary `json:"aliases,omitempty"`
	Imports    []string       `json:"imports,omitempty"`
}

func handleAnalyze(ctx context.Context, _ *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, analyzeOutput, error) {
	tree, err := input.Schema.resolve(ctx)
	if err != nil {
		return errResult(err), analyzeOutput{}, nil
	}
	cfg, err := input.Config.resolve()
	if err != nil {
		return errResult(err), analyzeOutput{}, nil
	}

	ir, err := analyzer.Analyze(tree, cfg)
	if err != nil {
		return errResult(err), analyzeOutput{}, nil
	}

	output := analyzeOutput{
		ClassCount: len(ir.Classes),
		EnumCount:  len(ir.Enums),
		AliasCount: len(ir.Aliases),
	}

	output.Classes = makeSlice[classSummary](len(ir.Classes))
	for _, c := range ir.Classes {
		summary := classSummary{
			Name:          c.Name,
			BaseClass:     c.BaseClass,
			Abstract:      c.Abstract,
			Discriminator: c.Discriminator,
		}
		summary.Subclasses = makeSlice[string](len(c.Subclasses))
		for _, sub := range c.Subclasses {
			summary.Subclasses = append(summary.Subclasses, sub.Name)
		}
		summary.Fields = makeSlice[fieldSummary](len(c.Fields))
		for _, f := range c.Fields {
			summary.Fields = append(summary.Fields, fieldSummary{
				Name:     f.Name,
				Type:     f.Type.String(),
				Required: f.Required,
				Const:    f.IsConst,
				Override: f.IsOverride,
			})
		}
		output.Classes = append(output.Classes, summary)
	}

	output.Enums = makeSlice[enumSummary](len(ir.Enums))
	for _, e := range ir.Enums {
		summary := enumSummary{Name: e.Name, BaseType: e.BaseType}
		summary.Members = make([]string, 0, len(e.Members))
		for _, m := range e.Members {
			summary.Members = append(summary.Members, m.Name)
		}
		output.Enums = append(output.Enums, summary)
	}

	output.Aliases = makeSlice[aliasSummary](len(ir.Aliases))
	for _, a := range ir.Aliases {
		summary := aliasSummary{Name: a.Name}
		summary.Members = make([]string, 0, len(a.Members))
		for _, m := range a.Members {
			summary.Members = append(summary.Members, m.String())
		}
		output.Aliases = append(output.Aliases, summary)
	}

	output.Imports = makeSlice[string](len(ir.Imports))
	for _, imp := range ir.Imports {
		output.Imports = append(output.Imports, imp.Module)
	}

	return nil, output, nil
}
