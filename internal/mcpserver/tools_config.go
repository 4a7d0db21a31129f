package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.yaml.in/yaml/v4"
)

// configInput represents the two ways a configuration can be provided to a
// tool. At most one of File or Content may be set; neither means defaults.
type configInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a jsctools config file (YAML or JSON)"`
	Content string `json:"content,omitempty" jsonschema:"Inline config content (YAML or JSON)"`
}

// resolve loads the configuration, layered over defaults, and validates it.
func (c configInput) resolve() (analyzer.Config, error) {
	if c.File != "" && c.Content != "" {
		return analyzer.Config{}, fmt.Errorf("at most one of config.file and config.content may be provided")
	}
	switch {
	case c.File != "":
		return analyzer.LoadConfig(c.File)
	case c.Content != "":
		cfg := analyzer.DefaultConfig()
		if err := yaml.Unmarshal([]byte(c.Content), &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config content: %w", err)
		}
		return cfg, cfg.Validate()
	default:
		return analyzer.DefaultConfig(), nil
	}
}

type configValidateInput struct {
	Config configInput `json:"config" jsonschema:"The jsctools configuration to validate"`
}

type configValidateOutput struct {
	Valid bool `json:"valid"`
	// Effective is the validated configuration with defaults applied.
	Effective *analyzer.Config `json:"effective,omitempty"`
}

func handleConfigValidate(_ context.Context, _ *mcp.CallToolRequest, input configValidateInput) (*mcp.CallToolResult, configValidateOutput, error) {
	cfg, err := input.Config.resolve()
	if err != nil {
		return errResult(err), configValidateOutput{}, nil
	}
	return nil, configValidateOutput{Valid: true, Effective: &cfg}, nil
}
