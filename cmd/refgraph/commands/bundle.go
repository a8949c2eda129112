package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-refgraph/refgraph/engine"
)

// BundleFlags contains flags for the bundle command.
type BundleFlags struct {
	Output string
	Write  string
	Quiet  bool
}

// SetupBundleFlags creates and configures a FlagSet for the bundle command.
func SetupBundleFlags() (*flag.FlagSet, *BundleFlags) {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)
	flags := &BundleFlags{}

	fs.StringVar(&flags.Output, "o", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "output", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Write, "w", "", "write the bundled document to a file instead of stdout")
	fs.StringVar(&flags.Write, "write", "", "write the bundled document to a file instead of stdout")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refgraph bundle [flags] <file|url>\n\n")
		Writef(output, "Inline every external $ref target into a single self-contained document.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  refgraph bundle openapi.yaml\n")
		Writef(output, "  refgraph bundle -o yaml -w bundled.yaml openapi.yaml\n")
	}

	return fs, flags
}

// HandleBundle executes the bundle command.
func HandleBundle(args []string) error {
	fs, flags := SetupBundleFlags()

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
		return fmt.Errorf("bundle command requires exactly one file path or URL")
	}

	specPath := fs.Arg(0)

	doc, err := engine.Bundle(specPath)
	if err != nil {
		return fmt.Errorf("bundling %s: %w", specPath, err)
	}

	if !flags.Quiet {
		Writef(os.Stderr, "refgraph bundle\n")
		Writef(os.Stderr, "Specification: %s\n", specPath)
		Writef(os.Stderr, "Source URL: %s\n\n", doc.SourceURL)
	}

	if flags.Write == "" {
		return OutputStructured(doc.Value, flags.Output)
	}

	var data []byte
	switch flags.Output {
	case FormatJSON:
		data, err = doc.JSONIndent("", "  ")
	default:
		data, err = yamlMarshal(doc.Value)
	}
	if err != nil {
		return fmt.Errorf("marshaling bundled document: %w", err)
	}
	if err := os.WriteFile(flags.Write, data, 0600); err != nil {
		return fmt.Errorf("writing bundled document: %w", err)
	}
	if !flags.Quiet {
		Writef(os.Stderr, "Bundled document written to: %s\n", flags.Write)
	}
	return nil
}
