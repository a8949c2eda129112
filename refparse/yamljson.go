package refparse

import (
	"bytes"

	"go.yaml.in/yaml/v4"

	"github.com/go-refgraph/refgraph/refdoc"
	"github.com/go-refgraph/refgraph/referrors"
)

// YAMLJSONParser decodes YAML or JSON documents into JSON-compatible value
// trees (map[string]any / []any / string / int / float64 / bool / nil).
// JSON is valid YAML 1.2, so both are handled by a single decoder,
// mirroring parser.Parser's go.yaml.in/yaml/v4 usage. Custom tags and
// anchors beyond plain aliasing are not supported.
type YAMLJSONParser struct {
	// OrderValue overrides the default Order (0) when non-zero.
	OrderValue int
	// AllowEmptyValue overrides the default empty-document policy (fail)
	// when true: a zero-byte .yaml/.yml/.json document then decodes to a
	// nil value instead of a *referrors.ParseError.
	AllowEmptyValue bool
}

// Order implements Parser.
func (p *YAMLJSONParser) Order() int { return p.OrderValue }

// AllowEmpty implements Parser. A YAML/JSON document must have content
// unless AllowEmptyValue is set.
func (p *YAMLJSONParser) AllowEmpty() bool { return p.AllowEmptyValue }

// CanParse implements Parser: recognizes the standard YAML/JSON extensions.
// Content without one of these extensions (e.g. an HTTP URL with no path
// suffix) falls through to the registry's fallback-to-all pass, where this
// parser is still tried.
func (p *YAMLJSONParser) CanParse(file refdoc.FileDescriptor) bool {
	switch file.Extension {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Parse implements Parser. A zero-byte document decodes to nil rather than
// going through the YAML decoder, which otherwise reports empty input as an
// io.EOF decode error.
func (p *YAMLJSONParser) Parse(file refdoc.FileDescriptor) (any, error) {
	if len(file.Data) == 0 {
		return nil, nil
	}
	var value any
	dec := yaml.NewDecoder(bytes.NewReader(file.Data))
	if err := dec.Decode(&value); err != nil {
		return nil, &referrors.ParseError{URL: file.URL.String(), Cause: err}
	}
	return normalize(value), nil
}

// normalize rewrites yaml.v4's map[string]any-by-default decode result into
// a tree using only map[string]any, []any, and JSON scalar types, so
// downstream packages (pointer, crawler, dereference, bundle) never need to
// special-case YAML-specific container types.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[toStringKey(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func toStringKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
