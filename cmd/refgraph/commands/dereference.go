package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-refgraph/refgraph/dereference"
	"github.com/go-refgraph/refgraph/engine"
)

// DereferenceFlags contains flags for the dereference command.
type DereferenceFlags struct {
	Output         string
	CircularPolicy string
	MaxRefDepth    int
	Quiet          bool
}

// SetupDereferenceFlags creates and configures a FlagSet for the dereference command.
func SetupDereferenceFlags() (*flag.FlagSet, *DereferenceFlags) {
	fs := flag.NewFlagSet("dereference", flag.ContinueOnError)
	flags := &DereferenceFlags{}

	fs.StringVar(&flags.Output, "o", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "output", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.CircularPolicy, "circular-policy", "reject", "one of reject, share, ignore")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", 0, "maximum nesting depth of the dereference traversal (0 for no limit)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refgraph dereference [flags] <file|url>\n\n")
		Writef(output, "Replace every $ref node with its target sub-tree.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nCircular Policies:\n")
		Writef(output, "  reject   Fail with an error on a circular $ref chain (default)\n")
		Writef(output, "  share    Replace a circular $ref with a shared pointer to its target\n")
		Writef(output, "  ignore   Leave a circular $ref node unexpanded\n")
		Writef(output, "\nExamples:\n")
		Writef(output, "  refgraph dereference openapi.yaml\n")
		Writef(output, "  refgraph dereference --circular-policy share schema.yaml\n")
	}

	return fs, flags
}

func parseCircularPolicyFlag(v string) (dereference.CircularPolicy, error) {
	switch v {
	case "reject":
		return dereference.CircularReject, nil
	case "share":
		return dereference.CircularShare, nil
	case "ignore":
		return dereference.CircularIgnore, nil
	default:
		return 0, fmt.Errorf("invalid circular-policy '%s'. Valid policies: reject, share, ignore", v)
	}
}

// HandleDereference executes the dereference command.
func HandleDereference(args []string) error {
	fs, flags := SetupDereferenceFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Output); err != nil {
		return err
	}
	policy, err := parseCircularPolicyFlag(flags.CircularPolicy)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("dereference command requires exactly one file path or URL")
	}

	specPath := fs.Arg(0)

	doc, err := engine.Dereference(specPath,
		engine.WithCircularPolicy(policy),
		engine.WithMaxRefDepth(flags.MaxRefDepth),
	)
	if err != nil {
		return fmt.Errorf("dereferencing %s: %w", specPath, err)
	}

	if !flags.Quiet {
		Writef(os.Stderr, "refgraph dereference\n")
		Writef(os.Stderr, "Specification: %s\n", specPath)
		Writef(os.Stderr, "Source URL: %s\n", doc.SourceURL)
		if doc.Circular() {
			Writef(os.Stderr, "Circular refs: %d\n", len(doc.CircularRefs()))
		}
		Writef(os.Stderr, "\n")
	}

	return OutputStructured(doc.Value, flags.Output)
}
