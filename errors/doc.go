// Package errors provides structured error types for the webview-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes the URL involved and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFetch, errors.KindTooLarge).
//		URL("https://example.com/huge.html").
//		Detail("advertised length %d exceeds cap", length).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TooLarge(errors.PhaseFetch, url, size, limit)
//	err := errors.ViewNotFound(uint32(id))
//
// All errors implement the standard error interface and support errors.Is/As.
// Is() matches on Phase and Kind, so sentinel comparisons work:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindNotFound}) {
//		// recoverable: the view was already closed
//	}
package errors
