package webview

import (
	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/engine"
)

// fakeEngine records every call so tests can assert on orchestration
// behavior. It implements the full capability surface.
type fakeEngine struct {
	views    map[webviewruntime.ViewID]bool
	contents map[webviewruntime.ViewID]string
	baseURLs map[webviewruntime.ViewID]string
	titles   map[webviewruntime.ViewID]string
	sheets   map[webviewruntime.ViewID]map[string]string
	renders  map[webviewruntime.ViewID]int
	flushes  map[webviewruntime.ViewID]int
	staged   map[webviewruntime.ViewID][]stagedImage
	scrolled map[webviewruntime.ViewID]string
	resizes  int
	updates  int

	// nextTitle is recorded as the document title on SetContent.
	nextTitle string
	// imagesOnContent is queued as pending images on every SetContent.
	imagesOnContent []engine.PendingImage
	pending         []engine.PendingImage
	// anchorClick is returned once by TakeAnchorClick.
	anchorClick string
	// urls simulates native navigation: when set, ViewURL reports it.
	urls map[webviewruntime.ViewID]string
	// fragments holds the anchors ScrollToFragment can find.
	fragments map[string]bool
	// selection is returned by SelectedText when non-empty.
	selection string
}

type stagedImage struct {
	src        string
	data       []byte
	redrawOnly bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		views:     make(map[webviewruntime.ViewID]bool),
		contents:  make(map[webviewruntime.ViewID]string),
		baseURLs:  make(map[webviewruntime.ViewID]string),
		titles:    make(map[webviewruntime.ViewID]string),
		sheets:    make(map[webviewruntime.ViewID]map[string]string),
		renders:   make(map[webviewruntime.ViewID]int),
		flushes:   make(map[webviewruntime.ViewID]int),
		staged:    make(map[webviewruntime.ViewID][]stagedImage),
		scrolled:  make(map[webviewruntime.ViewID]string),
		fragments: make(map[string]bool),
		urls:      make(map[webviewruntime.ViewID]string),
	}
}

func (f *fakeEngine) CreateView(id webviewruntime.ViewID, size webviewruntime.Size) error {
	f.views[id] = true
	return nil
}

func (f *fakeEngine) RemoveView(id webviewruntime.ViewID) { delete(f.views, id) }

func (f *fakeEngine) HasView(id webviewruntime.ViewID) bool { return f.views[id] }

func (f *fakeEngine) SetContent(id webviewruntime.ViewID, baseURL, html string) error {
	f.contents[id] = html
	f.baseURLs[id] = baseURL
	f.titles[id] = f.nextTitle
	for _, p := range f.imagesOnContent {
		p.View = id
		p.BaseURL = baseURL
		f.pending = append(f.pending, p)
	}
	return nil
}

func (f *fakeEngine) Title(id webviewruntime.ViewID) string { return f.titles[id] }

func (f *fakeEngine) Update() { f.updates++ }

func (f *fakeEngine) RenderView(id webviewruntime.ViewID, size webviewruntime.Size) error {
	f.renders[id]++
	return nil
}

func (f *fakeEngine) Resize(size webviewruntime.Size) { f.resizes++ }

func (f *fakeEngine) Scroll(id webviewruntime.ViewID, delta webviewruntime.ScrollDelta) {}

func (f *fakeEngine) HandleMouse(id webviewruntime.ViewID, ev webviewruntime.MouseEvent) {}

func (f *fakeEngine) ScrollOffset(id webviewruntime.ViewID) float32 { return 0 }

func (f *fakeEngine) ContentHeight(id webviewruntime.ViewID) float32 { return 0 }

func (f *fakeEngine) TakePendingImages() []engine.PendingImage {
	p := f.pending
	f.pending = nil
	return p
}

func (f *fakeEngine) StageImage(id webviewruntime.ViewID, rawSrc string, data []byte, redrawOnly bool) {
	f.staged[id] = append(f.staged[id], stagedImage{src: rawSrc, data: data, redrawOnly: redrawOnly})
}

func (f *fakeEngine) FlushStagedImages(id webviewruntime.ViewID, size webviewruntime.Size) {
	f.flushes[id]++
}

func (f *fakeEngine) SetStylesheets(id webviewruntime.ViewID, sheets map[string]string) {
	f.sheets[id] = sheets
}

func (f *fakeEngine) ScrollToFragment(id webviewruntime.ViewID, fragment string) bool {
	if !f.fragments[fragment] {
		return false
	}
	f.scrolled[id] = fragment
	return true
}

func (f *fakeEngine) TakeAnchorClick(id webviewruntime.ViewID) (string, bool) {
	if f.anchorClick == "" {
		return "", false
	}
	href := f.anchorClick
	f.anchorClick = ""
	return href, true
}

func (f *fakeEngine) ViewURL(id webviewruntime.ViewID) string { return f.urls[id] }

func (f *fakeEngine) SelectedText(id webviewruntime.ViewID) (string, bool) {
	if f.selection == "" {
		return "", false
	}
	return f.selection, true
}

func (f *fakeEngine) SelectionRects(id webviewruntime.ViewID) [][4]float32 { return nil }

// bareEngine implements only the required interface, for capability
// degradation tests.
type bareEngine struct {
	views map[webviewruntime.ViewID]bool
}

func newBareEngine() *bareEngine {
	return &bareEngine{views: make(map[webviewruntime.ViewID]bool)}
}

func (b *bareEngine) CreateView(id webviewruntime.ViewID, size webviewruntime.Size) error {
	b.views[id] = true
	return nil
}

func (b *bareEngine) RemoveView(id webviewruntime.ViewID)                               { delete(b.views, id) }
func (b *bareEngine) HasView(id webviewruntime.ViewID) bool                             { return b.views[id] }
func (b *bareEngine) SetContent(id webviewruntime.ViewID, baseURL, html string) error   { return nil }
func (b *bareEngine) Title(id webviewruntime.ViewID) string                             { return "" }
func (b *bareEngine) Update()                                                           {}
func (b *bareEngine) RenderView(id webviewruntime.ViewID, s webviewruntime.Size) error  { return nil }
func (b *bareEngine) Resize(size webviewruntime.Size)                                   {}
func (b *bareEngine) Scroll(id webviewruntime.ViewID, delta webviewruntime.ScrollDelta) {}
func (b *bareEngine) HandleMouse(id webviewruntime.ViewID, ev webviewruntime.MouseEvent) {
}
func (b *bareEngine) ScrollOffset(id webviewruntime.ViewID) float32  { return 0 }
func (b *bareEngine) ContentHeight(id webviewruntime.ViewID) float32 { return 0 }
