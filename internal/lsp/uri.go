package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// filePath resolves a file: URI, or a bare path, to an absolute local path.
func filePath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if uri == "" || err != nil {
		return "", false
	}
	var p string
	switch u.Scheme {
	case "":
		p = uri
	case "file":
		p = u.Path
	default:
		return "", false
	}
	if s, err := url.PathUnescape(p); err == nil {
		p = s
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return filepath.Clean(filepath.FromSlash(p)), true
	}
	return abs, true
}

func uriToPath(uri string) string {
	p, _ := filePath(uri)
	return p
}

// canonicalURI normalises file URIs so that one document has one key.
// Other schemes (untitled:, vscode-notebook:) are kept verbatim.
func canonicalURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	p, ok := filePath(uri)
	if !ok {
		return uri
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}
