package refurl

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHTTP(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"HTTP URL", "http://example.com/api.yaml", true},
		{"HTTPS URL", "https://example.com/api.yaml", true},
		{"File path", "/path/to/file.yaml", false},
		{"Relative path", "../testdata/api.yaml", false},
		{"Windows path", `C:\path\to\file.yaml`, false},
		{"FTP URL (not supported)", "ftp://example.com/file.yaml", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHTTP(tt.path))
		})
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"yaml", "spec.YAML", ".yaml"},
		{"json with fragment", "api.json#/components/schemas/Pet", ".json"},
		{"no extension", "README", ""},
		{"dotfile", ".gitignore", ""},
		{"nested path", "/a/b/c.yml", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExtension(tt.in))
		})
	}
}

func TestGetHashAndStripHash(t *testing.T) {
	assert.Equal(t, "#/foo/bar", GetHash("a.yaml#/foo/bar"))
	assert.Equal(t, "#", GetHash("a.yaml"))
	assert.Equal(t, "a.yaml", StripHash("a.yaml#/foo/bar"))
	assert.Equal(t, "a.yaml", StripHash("a.yaml"))
}

func TestParseAbsoluteFilePath(t *testing.T) {
	cwd := WorkingDirectoryURL("/specs/")
	u, err := Parse("/specs/absolute-root/absolute-root.yaml", cwd)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)
	assert.Equal(t, "/specs/absolute-root/absolute-root.yaml", u.Path)
	assert.Equal(t, "", u.Fragment)
}

func TestParseRelativeFilePath(t *testing.T) {
	cwd := WorkingDirectoryURL("/specs/project")
	u, err := Parse("../shared/common.yaml", cwd)
	require.NoError(t, err)
	assert.Equal(t, "/specs/shared/common.yaml", path.Clean(u.Path))
}

func TestParseWindowsDriveLetter(t *testing.T) {
	cwd := WorkingDirectoryURL("/")
	u, err := Parse(`C:\Users\dev\api.yaml`, cwd)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)
	assert.Equal(t, "/C:/Users/dev/api.yaml", u.Path)
}

func TestParseHTTPURL(t *testing.T) {
	cwd := WorkingDirectoryURL("/")
	u, err := Parse("https://example.com/api/spec.yaml#/components/schemas/Pet", cwd)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "example.com", u.Authority)
	assert.Equal(t, "/api/spec.yaml", u.Path)
	assert.Equal(t, "/components/schemas/Pet", u.Fragment)
}

func TestParseBareFragmentInheritsBase(t *testing.T) {
	cwd := WorkingDirectoryURL("/")
	base, err := Parse("/specs/root.yaml", cwd)
	require.NoError(t, err)

	u, err := Parse("#/definitions/Pet", base)
	require.NoError(t, err)
	assert.True(t, u.Equal(base))
	assert.Equal(t, "/definitions/Pet", u.Fragment)
}

func TestEqualIgnoresFragment(t *testing.T) {
	cwd := WorkingDirectoryURL("/")
	a, err := Parse("/specs/root.yaml#/a", cwd)
	require.NoError(t, err)
	b, err := Parse("/specs/root.yaml#/b", cwd)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, a.Canonical(), b.Canonical())
}

func TestIsFileSystemPath(t *testing.T) {
	assert.True(t, IsFileSystemPath("./a.yaml"))
	assert.False(t, IsFileSystemPath("http://example.com/a.yaml"))
	assert.False(t, IsFileSystemPath("#/a"))
}
