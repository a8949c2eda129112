package mcpserver

import (
	"fmt"

	"github.com/go-refgraph/refgraph/engine"
)

// specInput represents the three ways a document can be provided to a
// tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a local document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"HTTP(S) URL to fetch the document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// resolve turns a specInput into the (src, opts) pair engine.Parse and its
// siblings expect.
func (s specInput) resolve(extra ...engine.Option) (string, []engine.Option, error) {
	count := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			count++
		}
	}
	if count == 0 {
		return "", nil, fmt.Errorf("mcpserver: exactly one of file, url, or content must be set")
	}
	if count > 1 {
		return "", nil, fmt.Errorf("mcpserver: only one of file, url, or content may be set")
	}

	switch {
	case s.File != "":
		return s.File, extra, nil
	case s.URL != "":
		return s.URL, extra, nil
	default:
		opts := append([]engine.Option{engine.WithBytes([]byte(s.Content))}, extra...)
		return "", opts, nil
	}
}

func baseOpts() []engine.Option {
	return []engine.Option{
		engine.WithHTTPTimeout(int64(cfg.HTTPTimeout)),
		engine.WithHTTPRedirects(cfg.MaxRedirects),
		engine.WithCircularPolicy(cfg.CircularPolicy),
		engine.WithContinueOnError(cfg.ContinueOnError),
	}
}
