package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-refgraph/refgraph/refdoc"
	"github.com/go-refgraph/refgraph/refurl"
)

func TestFilesystemResolverReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	cwd := refurl.WorkingDirectoryURL(dir)
	u, err := refurl.Parse(path, cwd)
	require.NoError(t, err)

	r := &FilesystemResolver{BaseDir: dir}
	data, err := r.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestFilesystemResolverRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	sibling := t.TempDir()
	path := filepath.Join(sibling, "outside.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0o600))

	cwd := refurl.WorkingDirectoryURL(dir)
	u, err := refurl.Parse(path, cwd)
	require.NoError(t, err)

	r := &FilesystemResolver{BaseDir: dir}
	_, err = r.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.Error(t, err)
}

func TestRegistryOrderPrecedence(t *testing.T) {
	var calls []int

	mkResolver := func(order int, succeed bool) Resolver {
		return &fakeResolver{order: order, succeed: succeed, calls: &calls}
	}

	reg := NewRegistry(mkResolver(200, true), mkResolver(100, false))
	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse("/whatever.yaml", cwd)
	require.NoError(t, err)

	data, err := reg.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.NoError(t, err)
	assert.Equal(t, "200-succeeded", string(data))
	assert.Equal(t, []int{100, 200}, calls)
}

func TestRegistryUnmatched(t *testing.T) {
	reg := NewRegistry()
	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse("/whatever.yaml", cwd)
	require.NoError(t, err)

	_, err = reg.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.Error(t, err)
}

type fakeResolver struct {
	order   int
	succeed bool
	calls   *[]int
}

func (f *fakeResolver) Order() int { return f.order }
func (f *fakeResolver) CanRead(refdoc.FileDescriptor) bool { return true }
func (f *fakeResolver) Read(context.Context, refdoc.FileDescriptor) ([]byte, error) {
	*f.calls = append(*f.calls, f.order)
	if !f.succeed {
		return nil, assertErr{}
	}
	return []byte("200-succeeded"), nil
}

type assertErr struct{}

func (assertErr) Error() string { return "fake failure" }

func TestHTTPResolverRedirectOverflow(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusFound)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/d", http.StatusFound)
	})
	server := httptest.NewServer(&mux)
	defer server.Close()

	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse(server.URL+"/a", cwd)
	require.NoError(t, err)

	r := &HTTPResolver{MaxRedirects: 2}
	_, err = r.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect chain")
}

func TestHTTPResolverSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse(server.URL, cwd)
	require.NoError(t, err)

	r := &HTTPResolver{}
	data, err := r.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(data))
}

func TestHTTPResolverStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cwd := refurl.WorkingDirectoryURL("/")
	u, err := refurl.Parse(server.URL, cwd)
	require.NoError(t, err)

	r := &HTTPResolver{}
	_, err = r.Read(context.Background(), refdoc.FileDescriptor{URL: u})
	require.Error(t, err)
}

// countingResolver counts how many times Read is invoked, to verify the
// Registry's cache short-circuits repeat reads of the same URL.
type countingResolver struct {
	reads int
}

func (c *countingResolver) Order() int                         { return 0 }
func (c *countingResolver) CanRead(refdoc.FileDescriptor) bool { return true }
func (c *countingResolver) Read(context.Context, refdoc.FileDescriptor) ([]byte, error) {
	c.reads++
	return []byte("cached"), nil
}

func TestRegistryCachesReadsWhenTTLSet(t *testing.T) {
	cwd := refurl.WorkingDirectoryURL("/work")
	u, err := refurl.Parse("doc.yaml", cwd)
	require.NoError(t, err)

	res := &countingResolver{}
	reg := NewRegistry(res)
	reg.SetCacheTTL(0)

	for range 3 {
		data, err := reg.Read(context.Background(), refdoc.FileDescriptor{URL: u})
		require.NoError(t, err)
		assert.Equal(t, "cached", string(data))
	}
	assert.Equal(t, 1, res.reads)
}

func TestRegistryDoesNotCacheByDefault(t *testing.T) {
	cwd := refurl.WorkingDirectoryURL("/work")
	u, err := refurl.Parse("doc.yaml", cwd)
	require.NoError(t, err)

	res := &countingResolver{}
	reg := NewRegistry(res)

	for range 3 {
		_, err := reg.Read(context.Background(), refdoc.FileDescriptor{URL: u})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, res.reads)
}
