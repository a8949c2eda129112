package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-refgraph/refgraph/engine"
)

// ParseFlags contains flags for the parse command.
type ParseFlags struct {
	Output     string
	Quiet      bool
	AllowEmpty bool
}

// SetupParseFlags creates and configures a FlagSet for the parse command.
func SetupParseFlags() (*flag.FlagSet, *ParseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &ParseFlags{}

	fs.StringVar(&flags.Output, "o", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "output", FormatJSON, "output format: json or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages")
	fs.BoolVar(&flags.AllowEmpty, "allow-empty", false, "treat a zero-byte YAML/JSON document as null instead of failing")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refgraph parse [flags] <file|url|->\n\n")
		Writef(output, "Parse a document without following any $ref.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  refgraph parse schema.yaml\n")
		Writef(output, "  refgraph parse -o yaml https://example.com/schema.json\n")
		Writef(output, "  cat schema.yaml | refgraph parse -q -\n")
		Writef(output, "  refgraph parse --allow-empty empty.yaml\n")
	}

	return fs, flags
}

// HandleParse executes the parse command.
func HandleParse(args []string) error {
	fs, flags := SetupParseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Output); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one file path, URL, or '-' for stdin")
	}

	specPath := fs.Arg(0)

	opts := []engine.Option{engine.WithAllowEmptyYAML(flags.AllowEmpty)}

	var doc *engine.Document
	var err error
	if specPath == StdinFilePath {
		doc, err = engine.Parse("", append(opts, engine.WithReader(os.Stdin))...)
	} else {
		doc, err = engine.Parse(specPath, opts...)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", FormatSpecPath(specPath), err)
	}

	if !flags.Quiet {
		Writef(os.Stderr, "refgraph parse\n")
		Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
		Writef(os.Stderr, "Source URL: %s\n\n", doc.SourceURL)
	}

	return OutputStructured(doc.Value, flags.Output)
}
