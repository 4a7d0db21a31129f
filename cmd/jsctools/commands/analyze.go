package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/jsctools/analyzer"
	"github.com/erraggy/jsctools/internal/cliutil"
)

// AnalyzeFlags contains flags for the analyze command
type AnalyzeFlags struct {
	ConfigPath string
	Format     string
}

// SetupAnalyzeFlags creates and configures a FlagSet for the analyze command.
func SetupAnalyzeFlags() (*flag.FlagSet, *AnalyzeFlags) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flags := &AnalyzeFlags{}

	fs.StringVar(&flags.ConfigPath, "c", "", "jsctools config file (YAML or JSON)")
	fs.StringVar(&flags.ConfigPath, "config", "", "jsctools config file (YAML or JSON)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: jsctools analyze [flags] <schema-file|->\n\n")
		cliutil.Writef(fs.Output(), "Analyze a JSON Schema document and report the type model that\n")
		cliutil.Writef(fs.Output(), "generation would produce: classes, bases, discriminators, enums,\n")
		cliutil.Writef(fs.Output(), "aliases, and external imports.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  jsctools analyze task.schema.json\n")
		cliutil.Writef(fs.Output(), "  jsctools analyze -f json -c jsctools.yaml task.schema.json\n")
		cliutil.Writef(fs.Output(), "  cat task.schema.json | jsctools analyze -\n")
	}

	return fs, flags
}

// analyzeReport is the structured form of the analyze command's output.
type analyzeReport struct {
	Classes []classReport `json:"classes,omitempty" yaml:"classes,omitempty"`
	Enums   []enumReport  `json:"enums,omitempty"   yaml:"enums,omitempty"`
	Aliases []aliasReport `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Imports []string      `json:"imports,omitempty" yaml:"imports,omitempty"`
}

type classReport struct {
	Name          string        `json:"name"                    yaml:"name"`
	BaseClass     string        `json:"base_class,omitempty"    yaml:"base_class,omitempty"`
	Abstract      bool          `json:"abstract,omitempty"      yaml:"abstract,omitempty"`
	Discriminator string        `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Fields        []fieldReport `json:"fields,omitempty"        yaml:"fields,omitempty"`
}

type fieldReport struct {
	Name     string `json:"name"               yaml:"name"`
	Type     string `json:"type"               yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Const    bool   `json:"const,omitempty"    yaml:"const,omitempty"`
}

type enumReport struct {
	Name     string   `json:"name"      yaml:"name"`
	BaseType string   `json:"base_type" yaml:"base_type"`
	Members  []string `json:"members"   yaml:"members"`
}

type aliasReport struct {
	Name    string   `json:"name"    yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// HandleAnalyze executes the analyze command
func HandleAnalyze(args []string) error {
	fs, flags := SetupAnalyzeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("analyze command requires exactly one schema path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	tree, err := ReadSchemaArg(fs.Arg(0))
	if err != nil {
		return err
	}

	cfg := analyzer.DefaultConfig()
	if flags.ConfigPath != "" {
		cfg, err = analyzer.LoadConfig(flags.ConfigPath)
		if err != nil {
			return err
		}
	}

	ir, err := analyzer.Analyze(tree, cfg)
	if err != nil {
		return err
	}

	report := buildReport(ir)
	if flags.Format == FormatText {
		printReport(report)
		return nil
	}
	return OutputStructured(report, flags.Format)
}

func buildReport(ir *analyzer.IR) analyzeReport {
	var report analyzeReport
	for _, c := range ir.Classes {
		cr := classReport{
			Name:          c.Name,
			BaseClass:     c.BaseClass,
			Abstract:      c.Abstract,
			Discriminator: c.Discriminator,
		}
		for _, f := range c.Fields {
			cr.Fields = append(cr.Fields, fieldReport{
				Name:     f.Name,
				Type:     f.Type.String(),
				Required: f.Required,
				Const:    f.IsConst,
			})
		}
		report.Classes = append(report.Classes, cr)
	}
	for _, e := range ir.Enums {
		er := enumReport{Name: e.Name, BaseType: e.BaseType}
		for _, m := range e.Members {
			er.Members = append(er.Members, m.Name)
		}
		report.Enums = append(report.Enums, er)
	}
	for _, a := range ir.Aliases {
		ar := aliasReport{Name: a.Name}
		for _, m := range a.Members {
			ar.Members = append(ar.Members, m.String())
		}
		report.Aliases = append(report.Aliases, ar)
	}
	for _, imp := range ir.Imports {
		report.Imports = append(report.Imports, imp.Module)
	}
	return report
}

func printReport(report analyzeReport) {
	for _, c := range report.Classes {
		header := "class " + c.Name
		if c.BaseClass != "" {
			header += " : " + c.BaseClass
		}
		if c.Abstract {
			header += " (abstract"
			if c.Discriminator != "" {
				header += ", discriminator " + c.Discriminator
			}
			header += ")"
		}
		cliutil.Writef(os.Stdout, "%s\n", header)
		for _, f := range c.Fields {
			marker := " "
			if f.Required {
				marker = "*"
			}
			if f.Const {
				marker = "="
			}
			cliutil.Writef(os.Stdout, "  %s %-20s %s\n", marker, f.Name, f.Type)
		}
	}
	for _, e := range report.Enums {
		cliutil.Writef(os.Stdout, "enum %s (%s): %v\n", e.Name, e.BaseType, e.Members)
	}
	for _, a := range report.Aliases {
		cliutil.Writef(os.Stdout, "alias %s = %v\n", a.Name, a.Members)
	}
	for _, imp := range report.Imports {
		cliutil.Writef(os.Stdout, "import %s\n", imp)
	}
}
