package engine

import (
	webviewruntime "github.com/wippyai/webview-runtime"
)

// Engine is the required surface of a rendering backend.
//
// Engines are not assumed thread-safe: the orchestrator calls every method
// from a single goroutine. An engine keeps only rendering internals
// (parsed document, layout, frame) keyed by ViewID; all orchestration
// state lives in the view registry.
//
// Everything beyond this interface is an optional capability declared in
// capabilities.go and queried by type assertion before use.
type Engine interface {
	// CreateView allocates rendering state for a view handle issued by the
	// registry.
	CreateView(id webviewruntime.ViewID, size webviewruntime.Size) error

	// RemoveView releases a view's rendering state. Unknown ids are a no-op.
	RemoveView(id webviewruntime.ViewID)

	// HasView reports whether rendering state exists for the id.
	HasView(id webviewruntime.ViewID) bool

	// SetContent parses the given HTML into the view and lays it out.
	// baseURL is the document base for resolving relative references; it
	// may be empty for host-supplied markup.
	SetContent(id webviewruntime.ViewID, baseURL, html string) error

	// Title returns the document title, or "" when none is known.
	Title(id webviewruntime.ViewID) string

	// Update drains engine-internal asynchronous work. Called once per
	// host tick, independent of presentation.
	Update()

	// RenderView performs a render pass for one view.
	RenderView(id webviewruntime.ViewID, size webviewruntime.Size) error

	// Resize applies a new view size to all views.
	Resize(size webviewruntime.Size)

	// Scroll applies a wheel delta to a view.
	Scroll(id webviewruntime.ViewID, delta webviewruntime.ScrollDelta)

	// HandleMouse delivers a pointer event to a view.
	HandleMouse(id webviewruntime.ViewID, ev webviewruntime.MouseEvent)

	// ScrollOffset returns the view's current vertical scroll position.
	ScrollOffset(id webviewruntime.ViewID) float32

	// ContentHeight returns the laid-out document height, or 0 when the
	// engine manages scrolling internally.
	ContentHeight(id webviewruntime.ViewID) float32
}
