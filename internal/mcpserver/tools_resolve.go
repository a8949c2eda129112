package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/go-refgraph/refgraph/catalog"
	"github.com/go-refgraph/refgraph/engine"
)

type resolveInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to crawl"`
}

type resolveOutput struct {
	DocumentURLs []string              `json:"document_urls"`
	Circular     bool                  `json:"circular"`
	CircularRefs []string              `json:"circular_refs,omitempty"`
	Refs         []catalog.RefLocation `json:"refs,omitempty"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	src, opts, err := input.Spec.resolve(baseOpts()...)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	cat, err := engine.Resolve(src, opts...)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	return nil, resolveOutput{
		DocumentURLs: cat.Paths(nil),
		Circular:     cat.Circular(),
		CircularRefs: cat.CircularRefs(),
		Refs:         cat.Refs(),
	}, nil
}
