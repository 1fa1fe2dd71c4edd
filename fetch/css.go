package fetch

import (
	"strings"
)

// extractCSSImports scans CSS text for @import rules and returns the
// referenced URLs in order of appearance. Handled forms, matched
// case-insensitively:
//
//	@import url(app.css);
//	@import url("app.css");
//	@import url('app.css');
//	@import "app.css";
//	@import 'app.css';
//
// Media queries and layer names after the URL are ignored. This is a
// lexical scan, not a CSS parser: an @import inside a comment or string
// would also match, which only risks a wasted fetch.
func extractCSSImports(css string) []string {
	var urls []string
	lower := strings.ToLower(css)

	pos := 0
	for {
		idx := strings.Index(lower[pos:], "@import")
		if idx < 0 {
			break
		}
		rest := pos + idx + len("@import")
		u, next := scanImportTarget(css, lower, rest)
		if u != "" {
			urls = append(urls, u)
		}
		pos = next
	}
	return urls
}

// scanImportTarget parses the URL token following an @import keyword.
// It returns the URL (or "" if malformed) and the position to resume
// scanning from.
func scanImportTarget(css, lower string, pos int) (string, int) {
	pos = skipSpace(css, pos)
	if pos >= len(css) {
		return "", pos
	}

	if strings.HasPrefix(lower[pos:], "url(") {
		pos += len("url(")
		end := strings.IndexByte(css[pos:], ')')
		if end < 0 {
			return "", len(css)
		}
		inner := strings.TrimSpace(css[pos : pos+end])
		inner = strings.Trim(inner, `"'`)
		return inner, pos + end + 1
	}

	quote := css[pos]
	if quote != '"' && quote != '\'' {
		return "", pos
	}
	end := strings.IndexByte(css[pos+1:], quote)
	if end < 0 {
		return "", len(css)
	}
	return css[pos+1 : pos+1+end], pos + end + 2
}

func skipSpace(s string, pos int) int {
	for pos < len(s) {
		switch s[pos] {
		case ' ', '\t', '\n', '\r', '\f':
			pos++
		default:
			return pos
		}
	}
	return pos
}
