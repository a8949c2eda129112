// Package options provides shared option-validation helpers for the engine
// facade.
package options

import (
	"fmt"
	"io"
)

// ValidateInputSource ensures an engine call was configured with exactly one
// of src (a path/URL), reader, or bytes. src is a pointer so that "unset"
// (nil) is distinct from any string value.
func ValidateInputSource(src *string, reader io.Reader, data []byte) error {
	sourceCount := 0
	if src != nil {
		sourceCount++
	}
	if reader != nil {
		sourceCount++
	}
	if data != nil {
		sourceCount++
	}

	if sourceCount == 0 {
		return fmt.Errorf("engine: must specify an input source (a src path/URL, WithReader, or WithBytes)")
	}
	if sourceCount > 1 {
		return fmt.Errorf("engine: must specify exactly one input source")
	}

	return nil
}
