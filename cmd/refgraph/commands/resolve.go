package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/engine"
)

// ResolveFlags contains flags for the resolve command.
type ResolveFlags struct {
	Output          string
	ExternalOnly    bool
	ContinueOnError bool
	CacheTTL        time.Duration
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Output, "o", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "output", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.ExternalOnly, "external-only", false, "only crawl cross-document $ref targets")
	fs.BoolVar(&flags.ContinueOnError, "continue-on-error", false, "record a failed document instead of aborting the crawl")
	fs.DurationVar(&flags.CacheTTL, "cache-ttl", -1, "cache resolved documents for this long during the crawl (0 caches forever, negative disables caching)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refgraph resolve [flags] <file|url>\n\n")
		Writef(output, "Crawl every $ref reachable from a document to a fixpoint, without expanding them.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  refgraph resolve openapi.yaml\n")
		Writef(output, "  refgraph resolve -o json --external-only schema.yaml\n")
		Writef(output, "  refgraph resolve --cache-ttl 30s large-schema.yaml\n")
	}

	return fs, flags
}

// HandleResolve executes the resolve command.
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()

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
		return fmt.Errorf("resolve command requires exactly one file path or URL")
	}

	specPath := fs.Arg(0)

	opts := []engine.Option{
		engine.WithExternalOnly(flags.ExternalOnly),
		engine.WithContinueOnError(flags.ContinueOnError),
	}
	if flags.CacheTTL >= 0 {
		opts = append(opts, engine.WithCacheTTL(flags.CacheTTL))
	}

	cat, err := engine.Resolve(specPath, opts...)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", specPath, err)
	}

	result := struct {
		DocumentURLs []string              `json:"document_urls" yaml:"document_urls"`
		Circular     bool                  `json:"circular" yaml:"circular"`
		CircularRefs []string              `json:"circular_refs,omitempty" yaml:"circular_refs,omitempty"`
		Refs         []catalog.RefLocation `json:"refs,omitempty" yaml:"refs,omitempty"`
	}{
		DocumentURLs: cat.Paths(nil),
		Circular:     cat.Circular(),
		CircularRefs: cat.CircularRefs(),
		Refs:         cat.Refs(),
	}

	if flags.Output == FormatText {
		Writef(os.Stdout, "Documents visited: %d\n", len(result.DocumentURLs))
		for _, u := range result.DocumentURLs {
			Writef(os.Stdout, "  %s\n", u)
		}
		Writef(os.Stdout, "Refs discovered: %d\n", len(result.Refs))
		if result.Circular {
			Writef(os.Stdout, "\nCircular $ref chains detected:\n")
			for _, ref := range result.CircularRefs {
				Writef(os.Stdout, "  %s\n", ref)
			}
		}
		return nil
	}

	return OutputStructured(result, flags.Output)
}
