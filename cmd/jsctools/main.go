package main

import (
	"fmt"
	"os"

	"github.com/erraggy/jsctools"
	"github.com/erraggy/jsctools/cmd/jsctools/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("jsctools v%s\n", jsctools.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := commands.HandleGenerate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "analyze":
		if err := commands.HandleAnalyze(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := commands.HandleConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("jsctools - generate typed Go source from JSON Schema documents")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  jsctools <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate        Generate Go source from a schema")
	fmt.Println("  analyze         Report the type model a schema produces")
	fmt.Println("  config validate Validate a jsctools configuration file")
	fmt.Println("  mcp             Run the MCP server over stdio")
	fmt.Println("  version         Print the version")
	fmt.Println("  help            Show this help")
	fmt.Println()
	fmt.Println("Run 'jsctools <command> -h' for command-specific flags.")
}
