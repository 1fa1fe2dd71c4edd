package htmltext

import (
	"strings"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/engine"
	wverrors "github.com/wippyai/webview-runtime/errors"
)

// Engine renders HTML documents as styled terminal text. It implements
// the required engine interface plus ImageStager, StyleImporter,
// FragmentScroller and AnchorReporter. It deliberately leaves out
// URLLoader, URLReporter, KeyboardHandler, TextSelector, Presenter and
// HistoryNavigator; the orchestrator degrades those features.
type Engine struct {
	views   map[webviewruntime.ViewID]*textView
	pending []engine.PendingImage
	size    webviewruntime.Size
}

type textView struct {
	source   string
	baseURL  string
	title    string
	lines    []renderedLine
	anchors  map[string]int
	links    []linkSpan
	images   map[string][]byte
	sheets   map[string]string
	scroll   float32
	clicked  string
	rendered string
	// relayout is set when the staged batch contains a layout-affecting
	// image; the next flush reflows only then.
	relayout bool
}

// New creates an empty text engine.
func New() *Engine {
	return &Engine{
		views: make(map[webviewruntime.ViewID]*textView),
		size:  webviewruntime.Size{Width: 80, Height: 24},
	}
}

func (e *Engine) CreateView(id webviewruntime.ViewID, size webviewruntime.Size) error {
	if _, ok := e.views[id]; ok {
		return wverrors.InvalidInput(wverrors.PhaseEngine, "view already exists")
	}
	e.size = size
	e.views[id] = &textView{
		anchors: make(map[string]int),
		images:  make(map[string][]byte),
	}
	return nil
}

func (e *Engine) RemoveView(id webviewruntime.ViewID) {
	delete(e.views, id)
}

func (e *Engine) HasView(id webviewruntime.ViewID) bool {
	_, ok := e.views[id]
	return ok
}

// SetContent parses and lays out a document. Image references found in
// the markup are queued for the orchestrator. References whose bytes
// survived from a previous load of this view already render their final
// placeholder, so their delivery cannot move the line layout and they
// are flagged redraw-only.
func (e *Engine) SetContent(id webviewruntime.ViewID, baseURL, html string) error {
	v, ok := e.views[id]
	if !ok {
		return wverrors.ViewNotFound(uint32(id))
	}
	v.source = html
	v.baseURL = baseURL
	v.scroll = 0
	e.layout(v)

	for _, src := range imageSources(html) {
		_, held := v.images[src]
		e.pending = append(e.pending, engine.PendingImage{
			View:       id,
			Src:        src,
			BaseURL:    baseURL,
			RedrawOnly: held,
		})
	}
	return nil
}

func (e *Engine) Title(id webviewruntime.ViewID) string {
	if v, ok := e.views[id]; ok {
		return v.title
	}
	return ""
}

// Update is a no-op: the layout is synchronous and the engine has no
// internal asynchronous work to drain.
func (e *Engine) Update() {}

func (e *Engine) RenderView(id webviewruntime.ViewID, size webviewruntime.Size) error {
	v, ok := e.views[id]
	if !ok {
		return wverrors.ViewNotFound(uint32(id))
	}
	e.size = size
	v.rendered = renderWindow(v.lines, int(v.scroll), int(size.Height))
	return nil
}

func (e *Engine) Resize(size webviewruntime.Size) {
	if size == e.size {
		return
	}
	e.size = size
	for _, v := range e.views {
		e.layout(v)
	}
}

// Scroll applies a wheel delta. Line units map one-to-one onto text
// rows; pixel units are divided by a nominal cell height.
func (e *Engine) Scroll(id webviewruntime.ViewID, delta webviewruntime.ScrollDelta) {
	v, ok := e.views[id]
	if !ok {
		return
	}
	dy := delta.Y
	if delta.Unit == webviewruntime.ScrollPixels {
		dy /= pixelsPerCell
	}
	v.scroll = clampScroll(v.scroll+dy, len(v.lines), int(e.size.Height))
}

// HandleMouse hit-tests link spans on release. A hit is reported once
// through TakeAnchorClick.
func (e *Engine) HandleMouse(id webviewruntime.ViewID, ev webviewruntime.MouseEvent) {
	v, ok := e.views[id]
	if !ok || ev.Kind != webviewruntime.MouseRelease {
		return
	}
	row := int(ev.Pos.Y) + int(v.scroll)
	col := int(ev.Pos.X)
	for _, l := range v.links {
		if l.line == row && col >= l.start && col < l.end {
			v.clicked = l.href
			return
		}
	}
}

func (e *Engine) ScrollOffset(id webviewruntime.ViewID) float32 {
	if v, ok := e.views[id]; ok {
		return v.scroll
	}
	return 0
}

func (e *Engine) ContentHeight(id webviewruntime.ViewID) float32 {
	if v, ok := e.views[id]; ok {
		return float32(len(v.lines))
	}
	return 0
}

// Text returns the last rendered window for text hosts, which this
// engine exposes instead of pixel frames.
func (e *Engine) Text(id webviewruntime.ViewID) string {
	if v, ok := e.views[id]; ok {
		return v.rendered
	}
	return ""
}

// TakePendingImages drains the queue built up by SetContent calls.
func (e *Engine) TakePendingImages() []engine.PendingImage {
	p := e.pending
	e.pending = nil
	return p
}

// StageImage records fetched bytes without relayouting. A
// layout-affecting entry marks the batch for reflow at the flush.
func (e *Engine) StageImage(id webviewruntime.ViewID, rawSrc string, data []byte, redrawOnly bool) {
	v, ok := e.views[id]
	if !ok {
		return
	}
	v.images[rawSrc] = data
	if !redrawOnly {
		v.relayout = true
	}
}

// FlushStagedImages applies the staged batch. A batch with at least one
// layout-affecting image relayouts so placeholders pick up their byte
// counts; a redraw-only batch leaves the line layout alone.
func (e *Engine) FlushStagedImages(id webviewruntime.ViewID, size webviewruntime.Size) {
	v, ok := e.views[id]
	if !ok {
		return
	}
	e.size = size
	if v.relayout {
		e.layout(v)
	}
	v.relayout = false
}

// SetStylesheets stores the page's stylesheet cache. Text rendering
// uses none of it beyond retention; the cache is kept so hosts can
// inspect what a page pulled in.
func (e *Engine) SetStylesheets(id webviewruntime.ViewID, sheets map[string]string) {
	if v, ok := e.views[id]; ok {
		v.sheets = sheets
	}
}

// Stylesheets returns the cache stored by SetStylesheets.
func (e *Engine) Stylesheets(id webviewruntime.ViewID) map[string]string {
	if v, ok := e.views[id]; ok {
		return v.sheets
	}
	return nil
}

// ScrollToFragment jumps to an element with a matching id or name
// attribute.
func (e *Engine) ScrollToFragment(id webviewruntime.ViewID, fragment string) bool {
	v, ok := e.views[id]
	if !ok {
		return false
	}
	if fragment == "" {
		v.scroll = 0
		return true
	}
	line, ok := v.anchors[fragment]
	if !ok {
		return false
	}
	v.scroll = clampScroll(float32(line), len(v.lines), int(e.size.Height))
	return true
}

// TakeAnchorClick reports the most recent link hit exactly once.
func (e *Engine) TakeAnchorClick(id webviewruntime.ViewID) (string, bool) {
	v, ok := e.views[id]
	if !ok || v.clicked == "" {
		return "", false
	}
	href := v.clicked
	v.clicked = ""
	return href, true
}

const pixelsPerCell = 16

func clampScroll(y float32, lines, height int) float32 {
	max := float32(lines - height)
	if max < 0 {
		max = 0
	}
	if y < 0 {
		return 0
	}
	if y > max {
		return max
	}
	return y
}

func renderWindow(lines []renderedLine, top, height int) string {
	if top < 0 {
		top = 0
	}
	if top > len(lines) {
		top = len(lines)
	}
	end := top + height
	if height <= 0 || end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := top; i < end; i++ {
		if i > top {
			b.WriteByte('\n')
		}
		b.WriteString(lines[i].styled())
	}
	return b.String()
}
