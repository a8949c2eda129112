package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/go-refgraph/refgraph/engine"
)

type parseInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to parse"`
}

type parseOutput struct {
	RootKind     string `json:"root_kind"`
	SourceURL    string `json:"source_url"`
	FullDocument string `json:"full_document,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	src, opts, err := input.Spec.resolve(baseOpts()...)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	doc, err := engine.Parse(src, opts...)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	data, err := doc.JSONIndent("", "  ")
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	return nil, parseOutput{
		RootKind:     rootKind(doc.Value),
		SourceURL:    doc.SourceURL,
		FullDocument: string(data),
	}, nil
}

func rootKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "scalar"
	}
}
