package commands

import (
	"fmt"

	"github.com/go-refgraph/refgraph"
)

// HandleVersion prints the refgraph version.
func HandleVersion(_ []string) error {
	fmt.Printf("refgraph v%s\n", refgraph.Version())
	return nil
}
