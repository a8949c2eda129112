package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/go-refgraph/refgraph/engine"
)

type dereferenceInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The document to dereference"`
	CircularPolicy string    `json:"circular_policy,omitempty" jsonschema:"One of reject, share, ignore; defaults to REFGRAPH_CIRCULAR_POLICY"`
}

type dereferenceOutput struct {
	SourceURL    string   `json:"source_url"`
	Circular     bool     `json:"circular"`
	CircularRefs []string `json:"circular_refs,omitempty"`
	FullDocument string   `json:"full_document"`
}

func handleDereference(_ context.Context, _ *mcp.CallToolRequest, input dereferenceInput) (*mcp.CallToolResult, dereferenceOutput, error) {
	extra := baseOpts()
	if input.CircularPolicy != "" {
		policy, err := parseCircularPolicy(input.CircularPolicy)
		if err != nil {
			return errResult(err), dereferenceOutput{}, nil
		}
		extra = append(extra, engine.WithCircularPolicy(policy))
	}

	src, opts, err := input.Spec.resolve(extra...)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	doc, err := engine.Dereference(src, opts...)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	data, err := doc.JSONIndent("", "  ")
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	return nil, dereferenceOutput{
		SourceURL:    doc.SourceURL,
		Circular:     doc.Circular(),
		CircularRefs: doc.CircularRefs(),
		FullDocument: string(data),
	}, nil
}
