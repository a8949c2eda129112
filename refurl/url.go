package refurl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// URL is an absolute, normalized location: a filesystem path, a file: URL,
// or an http(s): URL, always carrying a (possibly empty) fragment.
//
// Equality for catalog purposes is by Scheme+Authority+Path+Query, ignoring
// Fragment — see Equal.
type URL struct {
	Scheme    string // "file", "http", "https"
	Authority string // host[:port] for http(s); empty for file
	Path      string
	Query     string
	Fragment  string // JSON Pointer text, without the leading '#'
}

// driveLetterPattern matches a Windows drive-letter prefix: "C:\" or "C:/".
var driveLetterPattern = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)

// uncPrefixPattern matches a Windows UNC path: "\\server\share\...".
var uncPrefixPattern = regexp.MustCompile(`^\\\\[^\\]+\\`)

// IsHTTP reports whether s is an absolute http or https URL string.
func IsHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsFileSystemPath reports whether s looks like a filesystem path rather
// than a URL: not an http(s) URL, not a file: URL, and not a bare fragment.
func IsFileSystemPath(s string) bool {
	if IsHTTP(s) || strings.HasPrefix(s, "file://") || strings.HasPrefix(s, "#") {
		return false
	}
	return true
}

// GetHash returns the "#..." tail of s, or "#" if s carries no fragment.
func GetHash(s string) string {
	idx := strings.Index(s, "#")
	if idx < 0 {
		return "#"
	}
	return s[idx:]
}

// StripHash returns s with any "#..." fragment removed.
func StripHash(s string) string {
	idx := strings.Index(s, "#")
	if idx < 0 {
		return s
	}
	return s[:idx]
}

// GetExtension returns the lowercased suffix of the path segment of s
// (e.g. ".yaml", ".json", or "" if there is none).
func GetExtension(s string) string {
	p := StripHash(s)
	if qi := strings.IndexByte(p, '?'); qi >= 0 {
		p = p[:qi]
	}
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// Parse parses s — a filesystem path (Windows drive letter or UNC included),
// a file: URL, an http(s) URL, or a bare fragment — into a normalized URL.
// Relative inputs are joined against cwd: either a directory URL ending in
// "/" or a document's own URL, whose last path segment is then dropped.
// Against an http(s) cwd, the result keeps cwd's scheme and host.
func Parse(s string, cwd URL) (URL, error) {
	if s == "" {
		return URL{}, fmt.Errorf("refurl: empty location")
	}

	fragment := ""
	if idx := strings.Index(s, "#"); idx >= 0 {
		fragment = decodeFragment(s[idx+1:])
		s = s[:idx]
	}

	switch {
	case s == "":
		// Bare fragment: inherit everything from cwd.
		u := cwd
		u.Fragment = fragment
		return u, nil

	case IsHTTP(s):
		parsed, err := url.Parse(s)
		if err != nil {
			return URL{}, fmt.Errorf("refurl: invalid http(s) url %q: %w", s, err)
		}
		return URL{
			Scheme:    parsed.Scheme,
			Authority: parsed.Host,
			Path:      parsed.EscapedPath(),
			Query:     parsed.RawQuery,
			Fragment:  fragment,
		}, nil

	case strings.HasPrefix(s, "file://"):
		parsed, err := url.Parse(s)
		if err != nil {
			return URL{}, fmt.Errorf("refurl: invalid file url %q: %w", s, err)
		}
		return URL{
			Scheme:   "file",
			Path:     parsed.Path,
			Fragment: fragment,
		}, nil

	default:
		// Filesystem path: translate Windows forms, then join against cwd.
		// cwd may itself be a directory (trailing "/", e.g. from
		// WorkingDirectoryURL) or a document's own URL (a file path with no
		// trailing "/", when called from Resolve) — RFC 3986 relative
		// resolution drops the last path segment of the base in that case.
		fsPath := toSlashPath(s)
		scheme, authority := "file", ""
		if cwd.Scheme == "http" || cwd.Scheme == "https" {
			scheme, authority = cwd.Scheme, cwd.Authority
		}
		var u URL
		if path.IsAbs(fsPath) {
			u = URL{Scheme: scheme, Authority: authority, Path: fsPath}
		} else {
			base := cwd.Path
			if !strings.HasSuffix(base, "/") {
				base = path.Dir(base)
			}
			u = URL{Scheme: scheme, Authority: authority, Path: path.Join(base, fsPath)}
		}
		u.Fragment = fragment
		return u, nil
	}
}

// toSlashPath normalizes Windows drive-letter and UNC path forms into a
// leading-slash file: path (e.g. "C:\foo\bar.yaml" -> "/C:/foo/bar.yaml").
func toSlashPath(s string) string {
	s = strings.ReplaceAll(s, `\`, "/")
	if driveLetterPattern.MatchString(s) {
		return "/" + s
	}
	if uncPrefixPattern.MatchString(strings.ReplaceAll(s, "/", `\`)) {
		// UNC paths are represented as file://host/share/... ; fold the
		// host into the path since our Authority field is reserved for
		// http(s) URLs.
		return "//" + strings.TrimPrefix(s, "//")
	}
	return s
}

// decodeFragment URI-decodes a fragment tail. Percent-encoding on the path
// portion of a URL is preserved by Parse; only the fragment is decoded here,
// per spec.md §4.1.
func decodeFragment(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// Resolve resolves ref against base per RFC 3986 reference resolution and
// returns the resulting absolute URL.
func Resolve(base URL, ref string) (URL, error) {
	return Parse(ref, base)
}

// String renders u back into its canonical string form, including its
// fragment if non-empty.
func (u URL) String() string {
	var b strings.Builder
	switch u.Scheme {
	case "http", "https":
		b.WriteString(u.Scheme)
		b.WriteString("://")
		b.WriteString(u.Authority)
		b.WriteString(u.Path)
		if u.Query != "" {
			b.WriteByte('?')
			b.WriteString(u.Query)
		}
	case "file":
		b.WriteString("file://")
		b.WriteString(u.Path)
	default:
		b.WriteString(u.Path)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Canonical renders u without its fragment — the key used by the Document
// Catalog.
func (u URL) Canonical() string {
	u.Fragment = ""
	return u.String()
}

// Equal reports whether u and other name the same document, ignoring
// fragment, per spec.md §3.
func (u URL) Equal(other URL) bool {
	return u.Scheme == other.Scheme &&
		u.Authority == other.Authority &&
		u.Path == other.Path &&
		u.Query == other.Query
}

// IsRoot reports whether fragment is empty or targets the document root
// ("" or "/").
func IsRoot(fragment string) bool {
	return fragment == "" || fragment == "/"
}

// WorkingDirectoryURL builds the file: URL for cwd, ensuring it ends in "/"
// as spec.md §4.1 requires for use as a join base.
func WorkingDirectoryURL(cwd string) URL {
	p := toSlashPath(cwd)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return URL{Scheme: "file", Path: p}
}
