package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/erraggy/jsctools/codegen"
	"github.com/erraggy/jsctools/internal/cliutil"
	"github.com/erraggy/jsctools/schema"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output        string
	PackageName   string
	ConfigPath    string
	Mode          string
	MergeStrategy string
	Verbose       bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file for generated source (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file for generated source (default: stdout)")
	fs.StringVar(&flags.PackageName, "p", "types", "Go package name for generated code")
	fs.StringVar(&flags.PackageName, "package", "types", "Go package name for generated code")
	fs.StringVar(&flags.ConfigPath, "c", "", "jsctools config file (YAML or JSON)")
	fs.StringVar(&flags.ConfigPath, "config", "", "jsctools config file (YAML or JSON)")
	fs.StringVar(&flags.Mode, "mode", "", "output mode: error_if_exists, overwrite, or merge (default from config)")
	fs.StringVar(&flags.MergeStrategy, "strategy", "", "merge strategy for fields no longer generated: error, merge, or delete")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log pipeline diagnostics to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: jsctools generate [flags] <schema-file|->\n\n")
		cliutil.Writef(fs.Output(), "Generate typed Go source from a JSON Schema document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  jsctools generate -p task -o task/types.go task.schema.json\n")
		cliutil.Writef(fs.Output(), "  jsctools generate -c jsctools.yaml -o types.go task.schema.json\n")
		cliutil.Writef(fs.Output(), "  jsctools generate --mode merge --strategy delete -o types.go task.schema.json\n")
		cliutil.Writef(fs.Output(), "  cat task.schema.json | jsctools generate -p task -\n")
		cliutil.Writef(fs.Output(), "\nPipelining:\n")
		cliutil.Writef(fs.Output(), "  Use '-' as the schema path to read the document from stdin.\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Without -o the generated source is written to stdout\n")
		cliutil.Writef(fs.Output(), "  - In merge mode, hand-written additions in the output file are preserved\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one schema path or '-' for stdin")
	}
	schemaPath := fs.Arg(0)

	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{schemaPath, flags.ConfigPath}); err != nil {
			return err
		}
	}

	opts := []codegen.Option{
		codegen.WithPackageName(flags.PackageName),
	}
	if schemaPath == StdinFilePath {
		tree, err := ReadSchemaArg(schemaPath)
		if err != nil {
			return err
		}
		opts = append(opts, codegen.WithSchemaTree(tree))
	} else {
		opts = append(opts, codegen.WithSchemaPath(schemaPath))
	}
	if flags.ConfigPath != "" {
		opts = append(opts, codegen.WithConfigPath(flags.ConfigPath))
	}
	if flags.Output != "" {
		opts = append(opts, codegen.WithOutputPath(flags.Output))
	}
	if flags.Mode != "" {
		opts = append(opts, codegen.WithOutputMode(flags.Mode))
	}
	if flags.MergeStrategy != "" {
		opts = append(opts, codegen.WithMergeStrategy(flags.MergeStrategy))
	}
	if flags.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, codegen.WithLogger(schema.NewSlogAdapter(logger)))
	}

	result, err := codegen.GenerateWithOptions(opts...)
	if err != nil {
		return err
	}

	if flags.Output == "" {
		cliutil.Writef(os.Stdout, "%s", result.Source)
		return nil
	}

	action := "wrote"
	if result.Merged {
		action = "merged"
	}
	cliutil.Writef(os.Stdout, "%s %s (%d classes, %d enums, %d aliases) in %s\n",
		action, result.OutputPath, result.ClassCount, result.EnumCount, result.AliasCount,
		result.Duration.Round(time.Microsecond))
	return nil
}
