package main

import (
	"fmt"
	"os"

	"github.com/go-refgraph/refgraph/cmd/refgraph/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		err = commands.HandleVersion(args)
	case "help", "-h", "--help":
		printUsage()
	case "parse":
		err = commands.HandleParse(args)
	case "resolve":
		err = commands.HandleResolve(args)
	case "dereference":
		err = commands.HandleDereference(args)
	case "bundle":
		err = commands.HandleBundle(args)
	case "mcp":
		err = commands.HandleMCP(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`refgraph - reference graph engine

Usage:
  refgraph <command> [options]

Commands:
  parse         Parse a document without following any $ref
  resolve       Crawl every $ref reachable from a document to a fixpoint
  dereference   Replace every $ref node with its target sub-tree
  bundle        Inline every external $ref into a single self-contained document
  mcp           Run an MCP server over stdio exposing the above as tools
  version       Show version information
  help          Show this help message

Examples:
  refgraph parse schema.yaml
  refgraph resolve https://example.com/openapi.yaml
  refgraph dereference --circular-policy share api.yaml
  refgraph bundle -o yaml -w bundled.yaml api.yaml
  refgraph mcp

Run 'refgraph <command> --help' for more information on a command.`)
}
