package webview

import (
	"fmt"
	"html"
)

// errorDocument synthesizes a minimal page shown when a fetch fails, so
// the view still reaches a renderable state. URL and cause are escaped
// before interpolation.
func errorDocument(pageURL string, cause error) string {
	return fmt.Sprintf(
		`<html><head><title>Problem loading page</title></head><body>`+
			`<h1>Unable to load page</h1>`+
			`<p>%s</p>`+
			`<p>%s</p>`+
			`</body></html>`,
		html.EscapeString(pageURL),
		html.EscapeString(cause.Error()),
	)
}
