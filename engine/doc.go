// Package engine defines the contract between the webview orchestrator and
// pluggable rendering backends.
//
// # Architecture
//
// A backend satisfies the required Engine interface and any subset of the
// optional capability interfaces:
//
//	Engine            - required: view lifecycle, content, render, input
//	URLLoader         - backend fetches and loads pages itself
//	URLReporter       - backend reports URL changes it made natively
//	KeyboardHandler   - backend consumes key events
//	TextSelector      - backend exposes a text selection
//	FragmentScroller  - backend scrolls to #fragment anchors
//	AnchorReporter    - backend reports clicked links
//	ImageStager       - backend stages externally fetched image bytes
//	StyleImporter     - backend accepts externally fetched stylesheets
//	Presenter         - backend rasterizes views to pixel frames
//	HistoryNavigator  - backend keeps its own history stack
//
// The orchestrator probes capabilities by type assertion:
//
//	if loader, ok := eng.(engine.URLLoader); ok {
//	    return loader.LoadURL(id, url)
//	}
//	// fall back to the built-in fetch pipeline
//
// A missing capability degrades the feature silently. Mouse input reaches
// every engine through the required HandleMouse; key input reaches only
// KeyboardHandler implementations.
//
// # Content Pipeline Split
//
// URLLoader engines own the whole page pipeline. Engines without it are
// document renderers: the orchestrator fetches the page and its
// stylesheets, calls SetContent and SetStylesheets, drains
// TakePendingImages, fetches each image concurrently, and hands the bytes
// back through StageImage. FlushStagedImages applies the whole batch once
// every outstanding fetch for the view has finished, so a page with N
// images relayouts once, not N times; a batch whose entries are all
// redraw-only skips even that single relayout and just repaints.
//
// # Thread Safety
//
// Engines are driven by a single goroutine and need no internal locking.
// All asynchronous work happens in the orchestrator's tasks, which
// re-enter the engine only through the host's update loop.
package engine
