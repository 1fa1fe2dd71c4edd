package webviewruntime

// ViewID is an opaque handle to a browsing context.
// ID 0 is reserved and always invalid.
type ViewID uint32

// Size is a view size in logical pixels (or cells for text backends).
type Size struct {
	Width  uint32
	Height uint32
}

// Point is a position within a view, relative to its top-left corner.
type Point struct {
	X float32
	Y float32
}

// PageKind discriminates the two kinds of view content source.
type PageKind uint8

const (
	// PageURL is a remote page identified by URL.
	PageURL PageKind = iota
	// PageHTML is inline markup supplied by the host.
	PageHTML
)

// Page is a view content source: either a remote URL or inline HTML.
type Page struct {
	kind  PageKind
	value string
}

// URLPage returns a content source for a remote page.
func URLPage(url string) Page {
	return Page{kind: PageURL, value: url}
}

// HTMLPage returns a content source for host-supplied markup.
func HTMLPage(html string) Page {
	return Page{kind: PageHTML, value: html}
}

// Kind reports whether the page is a URL or inline HTML.
func (p Page) Kind() PageKind { return p.kind }

// Value returns the URL string or the HTML markup, depending on Kind.
func (p Page) Value() string { return p.value }
