// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the reference graph engine's parse/resolve/dereference/bundle
// operations as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/go-refgraph/refgraph"
)

const serverInstructions = `refgraph MCP server — parses, resolves, dereferences, and bundles JSON-Reference-bearing documents (JSON Schema, OpenAPI, or any JSON/YAML graph that uses "$ref").

Configuration: all defaults are configurable via REFGRAPH_* environment variables set in your MCP client config.

Key settings:
- REFGRAPH_HTTP_TIMEOUT (default: 30s) — per-request timeout for HTTP(S) ref targets
- REFGRAPH_MAX_REDIRECTS (default: 10) — redirect hops followed before failing
- REFGRAPH_CIRCULAR_POLICY (default: reject) — one of reject, share, ignore
- REFGRAPH_CONTINUE_ON_ERROR (default: false) — keep crawling past a resolve/parse failure`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "refgraph", Version: refgraph.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse a JSON-Reference-bearing document without following any $ref. Returns the decoded document and whether it is an object, array, null, or scalar at its root.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Crawl every $ref reachable from a document to a fixpoint, without expanding them. Returns the canonical URL of every document visited and every $ref location found. Circular $ref chains are detected only by dereference, so circular is always false here.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dereference",
		Description: "Build a transformed copy of a document in which every $ref node is replaced by its target sub-tree. Circular $ref handling is controlled by circular_policy (reject, share, ignore) and defaults to REFGRAPH_CIRCULAR_POLICY.",
	}, handleDereference)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Build a single self-contained document by inlining every external $ref target under definitions/<name> and rewriting the original $ref values to point at those internal locations.",
	}, handleBundle)
}
