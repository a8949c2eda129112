package commands

import (
	"context"
	"fmt"

	"github.com/go-refgraph/refgraph/internal/mcpserver"
)

// HandleMCP runs the MCP server over stdio until the client disconnects.
func HandleMCP(_ []string) error {
	if err := mcpserver.Run(context.Background()); err != nil {
		return fmt.Errorf("running mcp server: %w", err)
	}
	return nil
}
