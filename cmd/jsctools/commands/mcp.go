package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/erraggy/jsctools/internal/cliutil"
	"github.com/erraggy/jsctools/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: jsctools mcp\n\n")
		cliutil.Writef(fs.Output(), "Run the jsctools MCP server over stdio. The server exposes the\n")
		cliutil.Writef(fs.Output(), "analyze, generate, and config_validate tools to MCP clients.\n\n")
		cliutil.Writef(fs.Output(), "Defaults are configured via JSCTOOLS_* environment variables; see\n")
		cliutil.Writef(fs.Output(), "the server instructions reported to the client for the full list.\n")
	}
	return fs
}

// HandleMCP executes the mcp command, blocking until the client disconnects
// or the process receives an interrupt.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
