package webview

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/engine"
	"github.com/wippyai/webview-runtime/fetch"
	"github.com/wippyai/webview-runtime/view"
)

// WebView orchestrates a set of views on top of one rendering engine.
// All methods must be called from a single goroutine; asynchronous work
// happens only inside the Tasks returned by Update.
type WebView struct {
	eng     engine.Engine
	views   *view.Registry
	fetcher *fetch.Fetcher
	size    webviewruntime.Size
	history map[webviewruntime.ViewID]*history

	onViewCreated func(webviewruntime.ViewID)
	onViewClosed  func(webviewruntime.ViewID)
	onURLChange   func(webviewruntime.ViewID, string)
	onTitleChange func(webviewruntime.ViewID, string)
	onCopy        func(string)
}

// Option configures a WebView.
type Option func(*WebView)

// WithFetcher replaces the default page/image fetcher.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(wv *WebView) { wv.fetcher = f }
}

// WithSize sets the initial view size.
func WithSize(s webviewruntime.Size) Option {
	return func(wv *WebView) { wv.size = s }
}

// OnViewCreated registers a callback fired when a view is created.
func OnViewCreated(fn func(webviewruntime.ViewID)) Option {
	return func(wv *WebView) { wv.onViewCreated = fn }
}

// OnViewClosed registers a callback fired when a view is closed.
func OnViewClosed(fn func(webviewruntime.ViewID)) Option {
	return func(wv *WebView) { wv.onViewClosed = fn }
}

// OnURLChange registers a callback fired when a view's URL changes.
func OnURLChange(fn func(webviewruntime.ViewID, string)) Option {
	return func(wv *WebView) { wv.onURLChange = fn }
}

// OnTitleChange registers a callback fired when a view's title changes.
func OnTitleChange(fn func(webviewruntime.ViewID, string)) Option {
	return func(wv *WebView) { wv.onTitleChange = fn }
}

// OnCopy registers a callback receiving selected text for CopySelection.
func OnCopy(fn func(string)) Option {
	return func(wv *WebView) { wv.onCopy = fn }
}

// New creates a WebView over the given engine.
func New(eng engine.Engine, opts ...Option) *WebView {
	wv := &WebView{
		eng:     eng,
		views:   view.NewRegistry(),
		size:    webviewruntime.Size{Width: 1024, Height: 768},
		history: make(map[webviewruntime.ViewID]*history),
	}
	for _, opt := range opts {
		opt(wv)
	}
	if wv.fetcher == nil {
		wv.fetcher = fetch.New()
	}
	wv.views.Subscribe(observerFunc(wv.handleViewEvent))
	return wv
}

// Views exposes the view registry for read access and typed lookup
// errors.
func (wv *WebView) Views() *view.Registry { return wv.views }

// Engine returns the rendering backend.
func (wv *WebView) Engine() engine.Engine { return wv.eng }

// Size returns the current view size.
func (wv *WebView) Size() webviewruntime.Size { return wv.size }

// Update handles one action and returns the asynchronous tasks it
// spawned, if any. A nil or unknown action only runs change detection.
// A canceled context means the host is shutting down; the action is
// dropped without spawning work.
func (wv *WebView) Update(ctx context.Context, a Action) []Task {
	if ctx.Err() != nil {
		return nil
	}
	wv.syncNavigation()

	switch a := a.(type) {
	case CreateView:
		return wv.handleCreate(a)
	case CloseView:
		wv.handleClose(a.ID)
	case GoToURL:
		return wv.withView(a.ID, func(v *view.View) []Task {
			return wv.navigate(v, a.URL, true)
		})
	case Refresh:
		return wv.withView(a.ID, wv.refresh)
	case GoBack:
		return wv.withView(a.ID, func(v *view.View) []Task {
			return wv.historyStep(v, -1)
		})
	case GoForward:
		return wv.withView(a.ID, func(v *view.View) []Task {
			return wv.historyStep(v, +1)
		})
	case SendMouse:
		return wv.withView(a.ID, func(v *view.View) []Task {
			return wv.handleMouse(v, a.Event)
		})
	case SendKey:
		wv.withView(a.ID, func(v *view.View) []Task {
			if kb, ok := wv.eng.(engine.KeyboardHandler); ok {
				kb.HandleKey(v.ID(), a.Event)
				v.MarkStale()
			}
			return nil
		})
	case UpdateView:
		return wv.withView(a.ID, func(v *view.View) []Task {
			wv.eng.Update()
			tasks := wv.harvestImages()
			wv.renderIfStale(v)
			return tasks
		})
	case Tick:
		return wv.handleTick()
	case Resize:
		wv.handleResize(a.Size)
	case CopySelection:
		wv.withView(a.ID, func(v *view.View) []Task {
			wv.copySelection(v)
			return nil
		})
	case pageFetched:
		return wv.handlePageFetched(a)
	case imageFetched:
		wv.handleImageFetched(a)
	}
	return nil
}

// withView looks up a live view and applies fn. Unknown or closed ids
// are recoverable no-ops; the typed error stays observable through
// Views().Get for callers who care.
func (wv *WebView) withView(id webviewruntime.ViewID, fn func(*view.View) []Task) []Task {
	v, err := wv.views.Get(id)
	if err != nil {
		engine.Logger().Debug("action dropped", zap.Uint32("view", uint32(id)), zap.Error(err))
		return nil
	}
	return fn(v)
}

func (wv *WebView) handleCreate(a CreateView) []Task {
	v := wv.views.Create(a.Page)
	wv.history[v.ID()] = newHistory()
	if err := wv.eng.CreateView(v.ID(), wv.size); err != nil {
		engine.Logger().Warn("engine rejected view", zap.Uint32("view", uint32(v.ID())), zap.Error(err))
	}

	switch a.Page.Kind() {
	case webviewruntime.PageHTML:
		if err := wv.eng.SetContent(v.ID(), "", a.Page.Value()); err != nil {
			engine.Logger().Warn("set content failed", zap.Uint32("view", uint32(v.ID())), zap.Error(err))
		}
		wv.views.UpdateTitle(v.ID(), wv.eng.Title(v.ID()))
		v.MarkStale()
		return wv.harvestImages()
	case webviewruntime.PageURL:
		return wv.navigate(v, a.Page.Value(), true)
	}
	return nil
}

func (wv *WebView) handleClose(id webviewruntime.ViewID) {
	if _, err := wv.views.Close(id); err != nil {
		engine.Logger().Debug("close dropped", zap.Uint32("view", uint32(id)), zap.Error(err))
		return
	}
	wv.eng.RemoveView(id)
	delete(wv.history, id)
}

// navigate starts a page load. The epoch bump invalidates every
// still-running fetch spawned for the previous page, and the in-flight
// image counter restarts for the new batch.
func (wv *WebView) navigate(v *view.View, rawURL string, push bool) []Task {
	epoch := v.BumpEpoch()
	v.ResetInflight()
	v.SetPage(webviewruntime.URLPage(rawURL))
	wv.views.UpdateURL(v.ID(), rawURL)

	if h := wv.history[v.ID()]; h != nil && push {
		h.push(rawURL)
	}

	if loader, ok := wv.eng.(engine.URLLoader); ok {
		if err := loader.LoadURL(v.ID(), rawURL); err != nil {
			engine.Logger().Warn("engine load failed", zap.String("url", rawURL), zap.Error(err))
		}
		v.MarkStale()
		return nil
	}

	v.MarkContentPending()
	id := v.ID()
	return []Task{func(ctx context.Context) Action {
		html, css, err := wv.fetcher.FetchPage(ctx, rawURL)
		return pageFetched{id: id, url: rawURL, epoch: epoch, html: html, css: css, err: err}
	}}
}

func (wv *WebView) refresh(v *view.View) []Task {
	if v.Page().Kind() == webviewruntime.PageHTML {
		v.BumpEpoch()
		v.ResetInflight()
		if err := wv.eng.SetContent(v.ID(), "", v.Page().Value()); err != nil {
			engine.Logger().Warn("set content failed", zap.Uint32("view", uint32(v.ID())), zap.Error(err))
		}
		v.MarkStale()
		return wv.harvestImages()
	}
	return wv.navigate(v, v.URL(), false)
}

func (wv *WebView) historyStep(v *view.View, dir int) []Task {
	if nav, ok := wv.eng.(engine.HistoryNavigator); ok {
		if dir < 0 {
			nav.GoBack(v.ID())
		} else {
			nav.GoForward(v.ID())
		}
		v.MarkStale()
		return nil
	}

	h := wv.history[v.ID()]
	if h == nil {
		return nil
	}
	var (
		target string
		ok     bool
	)
	if dir < 0 {
		target, ok = h.back()
	} else {
		target, ok = h.forward()
	}
	if !ok {
		return nil
	}
	return wv.navigate(v, target, false)
}

func (wv *WebView) handleMouse(v *view.View, ev webviewruntime.MouseEvent) []Task {
	id := v.ID()
	if ev.Kind == webviewruntime.MouseWheel {
		wv.eng.Scroll(id, ev.Scroll)
	} else {
		wv.eng.HandleMouse(id, ev)
	}
	v.SetScrollY(wv.eng.ScrollOffset(id))
	v.SetContentHeight(wv.eng.ContentHeight(id))
	v.MarkStale()

	if ev.Kind == webviewruntime.MouseRelease {
		return wv.interceptAnchor(v)
	}
	return nil
}

// interceptAnchor turns a clicked link into either a fragment scroll or
// a full navigation. Non-web schemes and unresolvable hrefs are ignored.
func (wv *WebView) interceptAnchor(v *view.View) []Task {
	ar, ok := wv.eng.(engine.AnchorReporter)
	if !ok {
		return nil
	}
	href, ok := ar.TakeAnchorClick(v.ID())
	if !ok {
		return nil
	}

	resolved, err := fetch.ResolveURL(href, v.URL(), v.URL())
	if err != nil {
		engine.Logger().Debug("ignoring unresolvable anchor", zap.String("href", href), zap.Error(err))
		return nil
	}
	if !webScheme(resolved.Scheme) {
		return nil
	}

	if cur, err := url.Parse(v.URL()); err == nil && fetch.SamePage(resolved, cur) {
		if fs, ok := wv.eng.(engine.FragmentScroller); ok {
			if fs.ScrollToFragment(v.ID(), resolved.Fragment) {
				v.SetScrollY(wv.eng.ScrollOffset(v.ID()))
				v.MarkStale()
			}
		}
		return nil
	}
	return wv.navigate(v, resolved.String(), true)
}

func (wv *WebView) handlePageFetched(a pageFetched) []Task {
	v, err := wv.views.Get(a.id)
	if err != nil {
		engine.Logger().Debug("page result dropped", zap.Uint32("view", uint32(a.id)), zap.Error(err))
		return nil
	}
	if a.epoch != v.Epoch() {
		engine.Logger().Debug("stale page result dropped",
			zap.Uint32("view", uint32(a.id)), zap.String("url", a.url))
		return nil
	}

	html := a.html
	if a.err != nil {
		engine.Logger().Warn("page load failed", zap.String("url", a.url), zap.Error(a.err))
		html = errorDocument(a.url, a.err)
	}

	if si, ok := wv.eng.(engine.StyleImporter); ok && len(a.css) > 0 {
		si.SetStylesheets(a.id, map[string]string(a.css))
	}
	if err := wv.eng.SetContent(a.id, a.url, html); err != nil {
		engine.Logger().Warn("set content failed", zap.String("url", a.url), zap.Error(err))
	}
	wv.views.UpdateTitle(a.id, wv.eng.Title(a.id))
	v.MarkStale()
	return wv.harvestImages()
}

// harvestImages drains the engine's pending image references and spawns
// one fetch task per usable reference. Each task captures the view's
// epoch at spawn time. The RedrawOnly flag rides along to StageImage; it
// controls what the flush does, not whether the bytes are fetched.
func (wv *WebView) harvestImages() []Task {
	stager, ok := wv.eng.(engine.ImageStager)
	if !ok {
		return nil
	}

	var tasks []Task
	for _, p := range stager.TakePendingImages() {
		v, err := wv.views.Get(p.View)
		if err != nil {
			continue
		}
		resolved, err := fetch.ResolveURL(p.Src, p.BaseURL, v.URL())
		if err != nil {
			engine.Logger().Debug("skipping unresolvable image",
				zap.String("src", p.Src), zap.Error(err))
			continue
		}
		if !webScheme(resolved.Scheme) {
			continue
		}

		id, src, epoch, redraw := p.View, p.Src, v.BeginImageFetch(), p.RedrawOnly
		target := resolved.String()
		tasks = append(tasks, func(ctx context.Context) Action {
			data, err := wv.fetcher.FetchImage(ctx, target)
			return imageFetched{id: id, rawSrc: src, data: data, err: err, redrawOnly: redraw, epoch: epoch}
		})
	}
	return tasks
}

// handleImageFetched applies one image completion. Results for closed
// views or superseded navigations are dropped before the counter is
// touched: the counter was reset at the epoch bump and tracks only the
// current batch. Within the current batch every completion decrements,
// failures included, and the single flush fires when the batch drains.
func (wv *WebView) handleImageFetched(a imageFetched) {
	v, err := wv.views.Get(a.id)
	if err != nil {
		return
	}
	if a.epoch != v.Epoch() {
		engine.Logger().Debug("stale image result dropped",
			zap.Uint32("view", uint32(a.id)), zap.String("src", a.rawSrc))
		return
	}

	remaining := v.FinishImageFetch()
	stager, _ := wv.eng.(engine.ImageStager)

	if a.err != nil {
		engine.Logger().Debug("image fetch failed", zap.String("src", a.rawSrc), zap.Error(a.err))
	} else if stager != nil {
		stager.StageImage(a.id, a.rawSrc, a.data, a.redrawOnly)
	}

	if remaining == 0 && stager != nil {
		stager.FlushStagedImages(a.id, wv.size)
		v.MarkStale()
	}
}

func (wv *WebView) handleTick() []Task {
	wv.eng.Update()
	tasks := wv.harvestImages()
	wv.views.Each(func(_ webviewruntime.ViewID, v *view.View) bool {
		wv.renderIfStale(v)
		return true
	})
	return tasks
}

func (wv *WebView) handleResize(s webviewruntime.Size) {
	if s == wv.size {
		return
	}
	wv.size = s
	wv.eng.Resize(s)
	wv.views.Each(func(_ webviewruntime.ViewID, v *view.View) bool {
		v.MarkStale()
		return true
	})
}

func (wv *WebView) renderIfStale(v *view.View) {
	if v.State() != view.StateStale {
		return
	}
	if err := wv.eng.RenderView(v.ID(), wv.size); err != nil {
		engine.Logger().Warn("render failed", zap.Uint32("view", uint32(v.ID())), zap.Error(err))
		return
	}
	v.MarkRendered()
}

func (wv *WebView) copySelection(v *view.View) {
	ts, ok := wv.eng.(engine.TextSelector)
	if !ok {
		return
	}
	if text, ok := ts.SelectedText(v.ID()); ok && wv.onCopy != nil {
		wv.onCopy(text)
	}
}

// syncNavigation runs change detection ahead of action handling so
// observers see URL and title changes the engine produced on its own
// (native redirects, in-engine link activation, script-set titles). A
// native URL change cannot be told apart from a redirect, so it replaces
// the current history entry instead of pushing.
func (wv *WebView) syncNavigation() {
	reporter, _ := wv.eng.(engine.URLReporter)
	wv.views.Each(func(id webviewruntime.ViewID, v *view.View) bool {
		if !wv.eng.HasView(id) {
			return true
		}
		if reporter != nil {
			if u := reporter.ViewURL(id); u != "" && u != v.URL() {
				wv.views.UpdateURL(id, u)
				if h := wv.history[id]; h != nil {
					h.replace(u)
				}
			}
		}
		if t := wv.eng.Title(id); t != "" {
			wv.views.UpdateTitle(id, t)
		}
		return true
	})
}

func (wv *WebView) handleViewEvent(e view.Event) {
	switch e.Type {
	case view.EventCreated:
		if wv.onViewCreated != nil {
			wv.onViewCreated(e.ID)
		}
	case view.EventClosed:
		if wv.onViewClosed != nil {
			wv.onViewClosed(e.ID)
		}
	case view.EventURLChanged:
		if wv.onURLChange != nil {
			wv.onURLChange(e.ID, e.Value)
		}
	case view.EventTitleChanged:
		if wv.onTitleChange != nil {
			wv.onTitleChange(e.ID, e.Value)
		}
	}
}

// observerFunc adapts a function to the registry's Observer interface.
type observerFunc func(view.Event)

func (f observerFunc) OnViewEvent(e view.Event) { f(e) }

func webScheme(s string) bool {
	return s == "http" || s == "https"
}
