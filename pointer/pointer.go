package pointer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-refgraph/refgraph/referrors"
)

// Tokens splits a JSON Pointer string into its unescaped tokens. The empty
// pointer ("" or "/") yields a nil slice, meaning "the root itself".
func Tokens(ptr string) ([]string, error) {
	if ptr == "" || ptr == "/" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, &referrors.InvalidPointerError{Pointer: ptr, Reason: "must start with '/'"}
	}
	raw := strings.Split(ptr[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = unescape(t)
	}
	return tokens, nil
}

// Escape encodes a single reference token per RFC 6901 ('~' -> "~0", '/' ->
// "~1").
func Escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

func unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// Append returns ptr with token appended as a new final segment, escaping
// token per RFC 6901. Used by tree walkers building up a child pointer one
// token at a time as they descend.
func Append(ptr string, token string) string {
	tokens, _ := Tokens(ptr)
	return Join(append(tokens, token)...)
}

// Join builds a pointer string from already-unescaped tokens.
func Join(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// Get walks ptr into root and returns the value it addresses.
func Get(root any, ptr string) (any, error) {
	tokens, err := Tokens(ptr)
	if err != nil {
		return nil, err
	}
	current := root
	for i, tok := range tokens {
		next, err := step(current, tok)
		if err != nil {
			var invalid *referrors.InvalidPointerError
			if errors.As(err, &invalid) {
				return nil, err
			}
			return nil, &referrors.MissingPointerError{
				Pointer:  ptr,
				FailedAt: Join(tokens[:i+1]...),
			}
		}
		current = next
	}
	return current, nil
}

// Set walks all but the last token of ptr into root, then assigns value at
// the final token. The pointer must be non-empty; intermediate containers
// must already exist (Set grafts a leaf, it does not create structure).
func Set(root any, ptr string, value any) error {
	tokens, err := Tokens(ptr)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return &referrors.InvalidPointerError{Pointer: ptr, Reason: "cannot set the document root"}
	}

	current := root
	for i, tok := range tokens[:len(tokens)-1] {
		next, err := step(current, tok)
		if err != nil {
			return &referrors.MissingPointerError{Pointer: ptr, FailedAt: Join(tokens[:i+1]...)}
		}
		current = next
	}

	last := tokens[len(tokens)-1]
	switch container := current.(type) {
	case map[string]any:
		container[last] = value
		return nil
	case []any:
		idx, err := canonicalIndex(last, len(container))
		if err != nil {
			return err
		}
		container[idx] = value
		return nil
	default:
		return &referrors.MissingPointerError{Pointer: ptr, FailedAt: Join(tokens...)}
	}
}

// step advances current by a single unescaped token.
func step(current any, token string) (any, error) {
	switch v := current.(type) {
	case map[string]any:
		next, ok := v[token]
		if !ok {
			return nil, &referrors.MissingPointerError{FailedAt: token}
		}
		return next, nil
	case []any:
		idx, err := canonicalIndex(token, len(v))
		if err != nil {
			return nil, err
		}
		return v[idx], nil
	default:
		return nil, &referrors.MissingPointerError{FailedAt: token}
	}
}

// canonicalIndex validates token as a canonical RFC 6901 array index: a
// non-negative decimal integer with no leading zeros (except "0" itself).
func canonicalIndex(token string, length int) (int, error) {
	if token == "" || (token[0] == '0' && len(token) > 1) {
		return 0, &referrors.InvalidPointerError{Pointer: token, Reason: "non-canonical array index"}
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return 0, &referrors.InvalidPointerError{Pointer: token, Reason: "array index must be a non-negative integer"}
		}
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, &referrors.InvalidPointerError{Pointer: token, Reason: "array index out of range"}
	}
	if idx < 0 || idx >= length {
		return 0, &referrors.MissingPointerError{FailedAt: token}
	}
	return idx, nil
}
