package fetch

import (
	"net/url"

	wverrors "github.com/wippyai/webview-runtime/errors"
)

// ResolveURL resolves a raw reference through a three-tier fallback:
// used as-is when absolute, otherwise resolved against baseURL, otherwise
// against pageURL. baseURL is typically the URL of the document (or
// stylesheet) the reference appeared in; pageURL is the view's current
// page. Either may be empty.
func ResolveURL(src, baseURL, pageURL string) (*url.URL, error) {
	if src == "" {
		return nil, wverrors.InvalidInput(wverrors.PhaseResolve, "empty URL reference")
	}

	ref, err := url.Parse(src)
	if err != nil {
		return nil, wverrors.MalformedURL(src, err)
	}
	if ref.IsAbs() {
		return ref, nil
	}

	for _, raw := range []string{baseURL, pageURL} {
		if raw == "" {
			continue
		}
		base, err := url.Parse(raw)
		if err != nil || !base.IsAbs() {
			continue
		}
		return base.ResolveReference(ref), nil
	}
	return nil, wverrors.New(wverrors.PhaseResolve, wverrors.KindMalformedURL).
		URL(src).
		Detail("relative reference with no absolute base").
		Build()
}

// SamePage reports whether two URLs address the same document: equal
// scheme, host, port, path and query. Fragments are excluded, so
// "https://a/p#x" and "https://a/p#y" are the same page and navigation
// between them is a fragment scroll, not a fetch.
func SamePage(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Scheme == b.Scheme &&
		a.Host == b.Host &&
		normalPath(a.Path) == normalPath(b.Path) &&
		a.RawQuery == b.RawQuery
}

// normalPath treats an empty path as the root document.
func normalPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
