package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/erraggy/jsctools/internal/cliutil"
)

// ConfigFlags contains flags for the config command
type ConfigFlags struct {
	Format string
}

// SetupConfigFlags creates and configures a FlagSet for the config command.
func SetupConfigFlags() (*flag.FlagSet, *ConfigFlags) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	flags := &ConfigFlags{}

	fs.StringVar(&flags.Format, "f", FormatYAML, "output format for the effective config: json or yaml")
	fs.StringVar(&flags.Format, "format", FormatYAML, "output format for the effective config: json or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: jsctools config validate [flags] <config-file>\n\n")
		cliutil.Writef(fs.Output(), "Validate a jsctools configuration file and print the effective\n")
		cliutil.Writef(fs.Output(), "configuration with defaults applied.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  jsctools config validate jsctools.yaml\n")
		cliutil.Writef(fs.Output(), "  jsctools config validate -f json jsctools.yaml\n")
	}

	return fs, flags
}

// HandleConfig executes the config command and its subcommands.
func HandleConfig(args []string) error {
	if len(args) < 1 || args[0] != "validate" {
		fs, _ := SetupConfigFlags()
		fs.Usage()
		return fmt.Errorf("config command requires the 'validate' subcommand")
	}

	fs, flags := SetupConfigFlags()
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("config validate requires exactly one config file path")
	}
	if flags.Format == FormatText {
		flags.Format = FormatYAML
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := analyzer.LoadConfig(fs.Arg(0))
	if err != nil {
		return err
	}
	return OutputStructured(cfg, flags.Format)
}
