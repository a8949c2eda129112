package refparse

import (
	"unicode/utf8"

	"github.com/go-refgraph/refgraph/refdoc"
)

// TextParser is a fallback parser for UTF-8 content that YAMLJSONParser
// failed to decode: it returns the decoded string unchanged. Plain text that
// is a valid YAML scalar is already returned as a string by YAMLJSONParser,
// which sorts first. It never declares CanParse; it is only reached
// through the registry's fallback-to-all pass, per spec.md §4.3.
type TextParser struct {
	// OrderValue overrides the default Order (900) when non-zero.
	OrderValue int
}

// Order implements Parser.
func (p *TextParser) Order() int {
	if p.OrderValue != 0 {
		return p.OrderValue
	}
	return 900
}

// AllowEmpty implements Parser: an empty text document is just "".
func (p *TextParser) AllowEmpty() bool { return true }

// CanParse implements Parser: never opts in; reached only as a fallback.
func (p *TextParser) CanParse(refdoc.FileDescriptor) bool { return false }

// Parse implements Parser.
func (p *TextParser) Parse(file refdoc.FileDescriptor) (any, error) {
	if !utf8.Valid(file.Data) {
		return nil, errNotText
	}
	return string(file.Data), nil
}

// BinaryParser is the last-resort fallback: it returns file.Data unchanged.
// It always succeeds, so it must sort after every other parser.
type BinaryParser struct {
	// OrderValue overrides the default Order (1000) when non-zero.
	OrderValue int
}

// Order implements Parser.
func (p *BinaryParser) Order() int {
	if p.OrderValue != 0 {
		return p.OrderValue
	}
	return 1000
}

// AllowEmpty implements Parser: an empty byte slice is a valid value.
func (p *BinaryParser) AllowEmpty() bool { return true }

// CanParse implements Parser: never opts in; reached only as a fallback.
func (p *BinaryParser) CanParse(refdoc.FileDescriptor) bool { return false }

// Parse implements Parser.
func (p *BinaryParser) Parse(file refdoc.FileDescriptor) (any, error) {
	return file.Data, nil
}

type notTextError struct{}

func (notTextError) Error() string { return "content is not valid UTF-8 text" }

var errNotText = notTextError{}
