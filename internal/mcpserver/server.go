// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes jsctools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/jsctools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `jsctools MCP server — analyzes JSON Schema documents and generates typed Go source from them.

Configuration: All defaults are configurable via JSCTOOLS_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- JSCTOOLS_CACHE_FILE_TTL (default: 15m) — cache TTL for local schema files
- JSCTOOLS_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched schemas
- JSCTOOLS_CACHE_ENABLED (default: true) — disable schema caching entirely
- JSCTOOLS_MAX_INLINE_SIZE (default: 4194304) — inline content size cap in bytes
- JSCTOOLS_ALLOW_PRIVATE_IPS (default: false) — allow URL inputs resolving to private address space

Caching: Parsed schema trees are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		treeCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "jsctools", Version: jsctools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze",
		Description: "Analyze a JSON Schema document and report the type model that code generation would produce: classes with their base class, fields, and discriminator; enums; type aliases; and external imports. Accepts the same configuration as generate, so the report reflects filters like ignore_classes. Use this to preview generation or to inspect a schema's inheritance structure.",
	}, handleAnalyze)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate typed Go source from a JSON Schema document. Returns the generated source inline unless output_path is set, in which case the file is written atomically. Output modes: overwrite (default), error_if_exists, merge. In merge mode, hand-written additions in the existing file are preserved; merge_strategy (error, merge, delete) governs struct fields that are no longer generated.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "config_validate",
		Description: "Validate a jsctools configuration document (YAML or JSON). Checks option values such as output.mode and output.merge_strategy and cross-option consistency such as external reference mappings. Returns the effective configuration on success.",
	}, handleConfigValidate)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
