package engine

import (
	webviewruntime "github.com/wippyai/webview-runtime"
)

// Optional capability interfaces. The orchestrator probes each with a type
// assertion and degrades gracefully when an engine does not implement one:
// the corresponding feature is skipped, never an error.

// URLLoader is implemented by engines that fetch and load pages themselves
// (typically embedded browsers). When present, the orchestrator delegates
// navigation via LoadURL instead of running its own fetch pipeline.
type URLLoader interface {
	LoadURL(id webviewruntime.ViewID, url string) error
}

// URLReporter exposes the engine's current document URL for views it
// navigates natively (redirects, in-engine link activation). Engines that
// rely on the orchestrator's fetch pipeline do not need it; the
// orchestrator already knows every URL it loaded itself.
type URLReporter interface {
	// ViewURL returns the view's current URL, or "" before the first load.
	ViewURL(id webviewruntime.ViewID) string
}

// KeyboardHandler receives key events. Without it, key input is dropped.
type KeyboardHandler interface {
	HandleKey(id webviewruntime.ViewID, ev webviewruntime.KeyEvent)
}

// TextSelector exposes an engine's text selection state.
type TextSelector interface {
	// SelectedText returns the current selection and whether one exists.
	SelectedText(id webviewruntime.ViewID) (string, bool)

	// SelectionRects returns the selection highlight rectangles as
	// [x, y, w, h] in view coordinates.
	SelectionRects(id webviewruntime.ViewID) [][4]float32
}

// FragmentScroller scrolls to a named anchor within the current document.
type FragmentScroller interface {
	// ScrollToFragment reports whether the fragment was found.
	ScrollToFragment(id webviewruntime.ViewID, fragment string) bool
}

// AnchorReporter surfaces link activations detected by the engine during
// input handling. The orchestrator polls it after delivering mouse events.
type AnchorReporter interface {
	// TakeAnchorClick returns a clicked link's href exactly once.
	TakeAnchorClick(id webviewruntime.ViewID) (string, bool)
}

// PendingImage describes one image reference the engine discovered while
// parsing a document. Src is the raw attribute value, BaseURL the document
// base it resolves against. RedrawOnly marks references that cannot move
// document flow once their bytes arrive because the layout already fixed
// their geometry; delivery then needs a pixel redraw, not a relayout. The
// bytes are fetched and staged either way.
type PendingImage struct {
	View       webviewruntime.ViewID
	Src        string
	BaseURL    string
	RedrawOnly bool
}

// ImageStager is implemented by engines that parse documents but leave
// image fetching to the orchestrator.
type ImageStager interface {
	// TakePendingImages drains the images queued by the last SetContent
	// across all views. Each entry is returned exactly once.
	TakePendingImages() []PendingImage

	// StageImage hands fetched image bytes to the engine. The engine
	// decodes and holds them but does not relayout yet. redrawOnly carries
	// the PendingImage flag through so the flush can tell whether the
	// batch moved layout.
	StageImage(id webviewruntime.ViewID, rawSrc string, data []byte, redrawOnly bool)

	// FlushStagedImages applies all staged images in one pass. A batch
	// with at least one layout-affecting entry relayouts; a batch of
	// redraw-only entries repaints without reflowing the document.
	FlushStagedImages(id webviewruntime.ViewID, size webviewruntime.Size)
}

// StyleImporter accepts externally fetched stylesheets, keyed by resolved
// URL, for a document loaded via SetContent.
type StyleImporter interface {
	SetStylesheets(id webviewruntime.ViewID, sheets map[string]string)
}

// Presenter is implemented by engines that rasterize views to pixel
// frames. Text-mode engines expose their own typed accessors instead.
type Presenter interface {
	// ViewFrame returns the last rendered frame, or nil before the first
	// render pass.
	ViewFrame(id webviewruntime.ViewID) *webviewruntime.Frame
}

// HistoryNavigator is implemented by engines that keep their own history
// stack (URLLoader engines, typically). Without it, the orchestrator
// maintains history itself.
type HistoryNavigator interface {
	GoBack(id webviewruntime.ViewID)
	GoForward(id webviewruntime.ViewID)
}
