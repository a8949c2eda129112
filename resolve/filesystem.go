package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-refgraph/refgraph/referrors"
	"github.com/go-refgraph/refgraph/refdoc"
)

// DefaultMaxFileSize is the maximum size, in bytes, FilesystemResolver will
// read before failing — prevents resource exhaustion from arbitrarily large
// documents. Grounded on parser.MaxFileSize (10MB default).
const DefaultMaxFileSize = 10 * 1024 * 1024

// FilesystemResolver reads file: URLs from local disk.
type FilesystemResolver struct {
	// BaseDir constrains reads to its subtree. Reads that resolve outside
	// BaseDir (via ".." traversal) fail with a path-traversal error. Empty
	// means no containment check is performed.
	BaseDir string
	// MaxFileSize caps how many bytes will be read. Zero uses
	// DefaultMaxFileSize.
	MaxFileSize int64
	// OrderValue overrides the default Order (0) when non-zero.
	OrderValue int
}

// Order implements Resolver.
func (r *FilesystemResolver) Order() int { return r.OrderValue }

// CanRead implements Resolver: true for any file: URL.
func (r *FilesystemResolver) CanRead(file refdoc.FileDescriptor) bool {
	return file.URL.Scheme == "file"
}

// Read implements Resolver.
func (r *FilesystemResolver) Read(_ context.Context, file refdoc.FileDescriptor) ([]byte, error) {
	path := file.URL.Path

	if r.BaseDir != "" {
		absBase, err := filepath.Abs(r.BaseDir)
		if err != nil {
			return nil, &referrors.ResolverError{URL: file.URL.String(), Cause: err, Message: "resolving base directory"}
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &referrors.ResolverError{URL: file.URL.String(), Cause: err, Message: "resolving file path"}
		}
		rel, err := filepath.Rel(absBase, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, &referrors.ResolverError{URL: file.URL.String(), Message: "path traversal outside base directory"}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &referrors.ResolverError{URL: file.URL.String(), Cause: err}
	}
	limit := r.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if info.Size() > limit {
		return nil, &referrors.ResolverError{
			URL:     file.URL.String(),
			Message: fmt.Sprintf("file size %d exceeds limit %d bytes", info.Size(), limit),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &referrors.ResolverError{URL: file.URL.String(), Cause: err}
	}
	return data, nil
}
