// Package fetch retrieves pages, stylesheets and images on behalf of
// rendering backends that do not fetch for themselves.
//
// FetchPage returns the page HTML unmodified, together with a
// StylesheetCache holding every stylesheet the page references through
// <link rel="stylesheet"> and, transitively, CSS @import rules. Imports
// recurse up to MaxImportDepth; the cache doubles as cycle protection
// because a URL already present is never fetched again.
//
// Every retrieval is bounded: the advertised Content-Length is rejected
// before the body is read, and the actual byte count is checked after,
// so chunked responses without a length header cannot exceed a cap.
// Stylesheet failures are logged and skipped; only the page itself
// failing is an error.
//
// URL references resolve through a three-tier fallback (absolute, then
// document base, then page URL) via ResolveURL. SamePage distinguishes
// fragment scrolls from real navigations.
package fetch
