package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/go-refgraph/refgraph/engine"
)

type bundleInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to bundle"`
}

type bundleOutput struct {
	SourceURL    string `json:"source_url"`
	FullDocument string `json:"full_document"`
}

func handleBundle(_ context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	src, opts, err := input.Spec.resolve(baseOpts()...)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	doc, err := engine.Bundle(src, opts...)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	data, err := doc.JSONIndent("", "  ")
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	return nil, bundleOutput{
		SourceURL:    doc.SourceURL,
		FullDocument: string(data),
	}, nil
}
