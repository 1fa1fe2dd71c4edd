package webview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/engine"
	wverrors "github.com/wippyai/webview-runtime/errors"
	"github.com/wippyai/webview-runtime/view"
)

var (
	_ engine.Engine           = (*fakeEngine)(nil)
	_ engine.ImageStager      = (*fakeEngine)(nil)
	_ engine.StyleImporter    = (*fakeEngine)(nil)
	_ engine.FragmentScroller = (*fakeEngine)(nil)
	_ engine.AnchorReporter   = (*fakeEngine)(nil)
	_ engine.TextSelector     = (*fakeEngine)(nil)
	_ engine.URLReporter      = (*fakeEngine)(nil)
	_ engine.Engine           = (*bareEngine)(nil)
)

// runTasks executes tasks synchronously, feeding every resulting action
// back into Update until no work remains.
func runTasks(wv *WebView, tasks []Task) {
	ctx := context.Background()
	for len(tasks) > 0 {
		var next []Task
		for _, task := range tasks {
			if a := task(ctx); a != nil {
				next = append(next, wv.Update(ctx, a)...)
			}
		}
		tasks = next
	}
}

func createdID(t *testing.T, wv *WebView, page webviewruntime.Page) (webviewruntime.ViewID, []Task) {
	t.Helper()
	var id webviewruntime.ViewID
	wv.onViewCreated = func(v webviewruntime.ViewID) { id = v }
	tasks := wv.Update(context.Background(), CreateView{Page: page})
	if id == 0 {
		t.Fatal("view creation did not report an id")
	}
	return id, tasks
}

func TestCreateView_HTMLContent(t *testing.T) {
	eng := newFakeEngine()
	eng.nextTitle = "Greeting"
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.HTMLPage("<h1>hi</h1>"))
	if len(tasks) != 0 {
		t.Fatalf("host-supplied markup spawned %d tasks, want 0", len(tasks))
	}
	if !eng.views[id] {
		t.Error("engine never saw CreateView")
	}
	if eng.contents[id] != "<h1>hi</h1>" {
		t.Errorf("content = %q", eng.contents[id])
	}

	v, err := wv.Views().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if v.State() != view.StateStale {
		t.Errorf("state = %v, want stale", v.State())
	}

	wv.Update(context.Background(), Tick{})
	if v.State() != view.StateRendered {
		t.Errorf("state after tick = %v, want rendered", v.State())
	}
	if eng.renders[id] != 1 {
		t.Errorf("renders = %d, want 1", eng.renders[id])
	}
	if v.Title() != "Greeting" {
		t.Errorf("title = %q", v.Title())
	}
}

func TestImageBatch_SingleFlush(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "imgbytes")
	})

	eng := newFakeEngine()
	for i := 0; i < 3; i++ {
		eng.imagesOnContent = append(eng.imagesOnContent,
			engine.PendingImage{Src: fmt.Sprintf("%s/i%d.png", srv.URL, i)})
	}
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.HTMLPage("<p>images</p>"))
	if len(tasks) != 3 {
		t.Fatalf("expected 3 image tasks, got %d", len(tasks))
	}
	runTasks(wv, tasks)

	if got := len(eng.staged[id]); got != 3 {
		t.Errorf("staged %d images, want 3", got)
	}
	if eng.flushes[id] != 1 {
		t.Errorf("flushes = %d, want exactly 1", eng.flushes[id])
	}

	v, _ := wv.Views().Get(id)
	if v.InflightImages() != 0 {
		t.Errorf("inflight = %d after batch drained", v.InflightImages())
	}
	if v.State() != view.StateStale {
		t.Errorf("state = %v, want stale after flush", v.State())
	}
}

func TestImageBatch_FailureStillFlushes(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/good.png", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	eng := newFakeEngine()
	eng.imagesOnContent = []engine.PendingImage{
		{Src: srv.URL + "/good.png"},
		{Src: srv.URL + "/missing.png"},
	}
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.HTMLPage("<p></p>"))
	runTasks(wv, tasks)

	if got := len(eng.staged[id]); got != 1 {
		t.Errorf("staged %d images, want 1 (failure dropped)", got)
	}
	if eng.flushes[id] != 1 {
		t.Errorf("flushes = %d, want 1 despite the failed fetch", eng.flushes[id])
	}
}

func TestImageBatch_RedrawOnlyStillFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "pixels")
	}))
	defer srv.Close()

	eng := newFakeEngine()
	eng.imagesOnContent = []engine.PendingImage{
		{Src: srv.URL + "/fixed.png", RedrawOnly: true},
	}
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.HTMLPage("<p></p>"))
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	runTasks(wv, tasks)

	// The flag changes what the flush does, not whether the bytes move.
	if hits.Load() != 1 {
		t.Errorf("image fetched %d times, want 1", hits.Load())
	}
	staged := eng.staged[id]
	if len(staged) != 1 || !staged[0].redrawOnly || string(staged[0].data) != "pixels" {
		t.Errorf("staged = %+v, want one redraw-only entry carrying the bytes", staged)
	}
	if eng.flushes[id] != 1 {
		t.Errorf("flushes = %d, want 1", eng.flushes[id])
	}
}

func TestStaleImageResults_Discarded(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".png") {
			fmt.Fprint(w, "img")
			return
		}
		fmt.Fprint(w, "<html><body>page</body></html>")
	})

	eng := newFakeEngine()
	eng.imagesOnContent = []engine.PendingImage{
		{Src: srv.URL + "/one.png"},
		{Src: srv.URL + "/two.png"},
	}
	wv := New(eng)
	ctx := context.Background()

	id, pageTasks := createdID(t, wv, webviewruntime.URLPage(srv.URL+"/a.html"))
	if len(pageTasks) != 1 {
		t.Fatalf("expected 1 page task, got %d", len(pageTasks))
	}

	// Load the first page and collect its image tasks without running them.
	var oldImageTasks []Task
	if a := pageTasks[0](ctx); a != nil {
		oldImageTasks = wv.Update(ctx, a)
	}
	if len(oldImageTasks) != 2 {
		t.Fatalf("expected 2 image tasks, got %d", len(oldImageTasks))
	}

	// Navigate away before the first page's images arrive.
	newPageTasks := wv.Update(ctx, GoToURL{ID: id, URL: srv.URL + "/b.html"})

	// The late results must vanish without staging or flushing.
	for _, task := range oldImageTasks {
		if a := task(ctx); a != nil {
			wv.Update(ctx, a)
		}
	}
	if len(eng.staged[id]) != 0 {
		t.Errorf("stale images were staged: %+v", eng.staged[id])
	}
	if eng.flushes[id] != 0 {
		t.Errorf("stale batch triggered %d flushes", eng.flushes[id])
	}

	// The new page's own batch still completes normally.
	runTasks(wv, newPageTasks)
	if len(eng.staged[id]) != 2 {
		t.Errorf("new batch staged %d images, want 2", len(eng.staged[id]))
	}
	if eng.flushes[id] != 1 {
		t.Errorf("new batch flushes = %d, want 1", eng.flushes[id])
	}
}

func TestStalePageResult_Discarded(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/a.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "AAA")
	})
	mux.HandleFunc("/b.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "BBB")
	})

	eng := newFakeEngine()
	wv := New(eng)
	ctx := context.Background()

	id, aTasks := createdID(t, wv, webviewruntime.URLPage(srv.URL+"/a.html"))
	bTasks := wv.Update(ctx, GoToURL{ID: id, URL: srv.URL + "/b.html"})

	// The superseded page arrives late and must not become content.
	if a := aTasks[0](ctx); a != nil {
		wv.Update(ctx, a)
	}
	if eng.contents[id] != "" {
		t.Errorf("stale page became content: %q", eng.contents[id])
	}

	if a := bTasks[0](ctx); a != nil {
		wv.Update(ctx, a)
	}
	if eng.contents[id] != "BBB" {
		t.Errorf("content = %q, want BBB", eng.contents[id])
	}
}

func TestPageFailure_ErrorDocument(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	eng := newFakeEngine()
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.URLPage(srv.URL+"/gone.html"))
	runTasks(wv, tasks)

	content := eng.contents[id]
	if !strings.Contains(content, "Unable to load page") {
		t.Errorf("no error document synthesized, content = %q", content)
	}
	v, _ := wv.Views().Get(id)
	if v.State() != view.StateStale {
		t.Errorf("state = %v, view must stay renderable after a failed load", v.State())
	}
}

func TestPageFailure_EscapesURLAndCause(t *testing.T) {
	eng := newFakeEngine()
	wv := New(eng)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.HTMLPage("<p></p>"))
	v, _ := wv.Views().Get(id)

	wv.Update(ctx, pageFetched{
		id:    id,
		url:   "http://evil.example/<script>alert(1)</script>",
		epoch: v.Epoch(),
		err:   errors.New(`boom & <b>bold</b>`),
	})

	content := eng.contents[id]
	if strings.Contains(content, "<script>") || strings.Contains(content, "<b>bold") {
		t.Fatalf("unescaped markup in error document: %q", content)
	}
	if !strings.Contains(content, "&lt;script&gt;") || !strings.Contains(content, "boom &amp;") {
		t.Errorf("expected escaped URL and cause, got %q", content)
	}
}

func TestStylesheets_ReachStyleImporter(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<link rel="stylesheet" href="/app.css"><p>hi</p>`)
	})
	mux.HandleFunc("/app.css", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "p { color: red }")
	})

	eng := newFakeEngine()
	wv := New(eng)

	id, tasks := createdID(t, wv, webviewruntime.URLPage(srv.URL+"/index.html"))
	runTasks(wv, tasks)

	sheets := eng.sheets[id]
	if sheets[srv.URL+"/app.css"] != "p { color: red }" {
		t.Errorf("stylesheets not delivered, got %v", sheets)
	}
	if eng.baseURLs[id] != srv.URL+"/index.html" {
		t.Errorf("baseURL = %q", eng.baseURLs[id])
	}
}

func TestAnchor_FragmentScrollsWithoutFetch(t *testing.T) {
	eng := newFakeEngine()
	eng.fragments["section-2"] = true
	wv := New(eng)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/page.html"))
	eng.anchorClick = "#section-2"

	tasks := wv.Update(ctx, SendMouse{ID: id, Event: webviewruntime.MouseEvent{
		Kind:   webviewruntime.MouseRelease,
		Button: webviewruntime.ButtonLeft,
	}})
	if len(tasks) != 0 {
		t.Errorf("fragment navigation spawned %d tasks, want 0", len(tasks))
	}
	if eng.scrolled[id] != "section-2" {
		t.Errorf("scrolled = %q, want section-2", eng.scrolled[id])
	}

	v, _ := wv.Views().Get(id)
	if v.URL() != "http://example.com/page.html" {
		t.Errorf("fragment scroll changed the URL to %q", v.URL())
	}
}

func TestAnchor_CrossPageNavigates(t *testing.T) {
	eng := newFakeEngine()
	wv := New(eng)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/page.html"))
	v, _ := wv.Views().Get(id)
	before := v.Epoch()

	eng.anchorClick = "/other.html"
	tasks := wv.Update(ctx, SendMouse{ID: id, Event: webviewruntime.MouseEvent{
		Kind:   webviewruntime.MouseRelease,
		Button: webviewruntime.ButtonLeft,
	}})
	if len(tasks) != 1 {
		t.Fatalf("cross-page anchor spawned %d tasks, want 1", len(tasks))
	}
	if v.URL() != "http://example.com/other.html" {
		t.Errorf("URL = %q", v.URL())
	}
	if v.Epoch() == before {
		t.Error("cross-page navigation did not bump the epoch")
	}
}

func TestAnchor_NonWebSchemeIgnored(t *testing.T) {
	eng := newFakeEngine()
	wv := New(eng)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/page.html"))
	eng.anchorClick = "mailto:someone@example.com"

	tasks := wv.Update(ctx, SendMouse{ID: id, Event: webviewruntime.MouseEvent{
		Kind: webviewruntime.MouseRelease,
	}})
	if len(tasks) != 0 {
		t.Errorf("mailto anchor spawned tasks")
	}
	v, _ := wv.Views().Get(id)
	if v.URL() != "http://example.com/page.html" {
		t.Errorf("URL changed to %q", v.URL())
	}
}

func TestCloseView_LateActionsAreNoOps(t *testing.T) {
	eng := newFakeEngine()
	var closed webviewruntime.ViewID
	wv := New(eng, OnViewClosed(func(id webviewruntime.ViewID) { closed = id }))
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.HTMLPage("<p></p>"))
	wv.Update(ctx, CloseView{ID: id})

	if closed != id {
		t.Errorf("close callback got %d, want %d", closed, id)
	}
	if eng.views[id] {
		t.Error("engine still holds the view")
	}

	// Every follow-up action on the dead id must be a quiet no-op.
	if tasks := wv.Update(ctx, GoToURL{ID: id, URL: "http://example.com/"}); len(tasks) != 0 {
		t.Error("GoToURL on closed view spawned tasks")
	}
	wv.Update(ctx, SendMouse{ID: id, Event: webviewruntime.MouseEvent{Kind: webviewruntime.MouseRelease}})
	wv.Update(ctx, UpdateView{ID: id})
	wv.Update(ctx, CloseView{ID: id})

	_, err := wv.Views().Get(id)
	if !errors.Is(err, &wverrors.Error{Phase: wverrors.PhaseRegistry, Kind: wverrors.KindViewClosed}) {
		t.Errorf("expected typed view_closed error, got %v", err)
	}
}

func TestResize_UnchangedSizeIsNoOp(t *testing.T) {
	eng := newFakeEngine()
	size := webviewruntime.Size{Width: 800, Height: 600}
	wv := New(eng, WithSize(size))
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.HTMLPage("<p></p>"))
	wv.Update(ctx, Tick{})
	v, _ := wv.Views().Get(id)

	wv.Update(ctx, Resize{Size: size})
	if eng.resizes != 0 {
		t.Errorf("identical resize reached the engine %d times", eng.resizes)
	}
	if v.State() != view.StateRendered {
		t.Errorf("identical resize invalidated the view: %v", v.State())
	}

	wv.Update(ctx, Resize{Size: webviewruntime.Size{Width: 1024, Height: 600}})
	if eng.resizes != 1 {
		t.Errorf("resizes = %d, want 1", eng.resizes)
	}
	if v.State() != view.StateStale {
		t.Errorf("real resize left the view %v, want stale", v.State())
	}
}

func TestCapabilityDegradation_BareEngine(t *testing.T) {
	wv := New(newBareEngine())
	ctx := context.Background()

	id, tasks := createdID(t, wv, webviewruntime.HTMLPage("<p>plain</p>"))
	if len(tasks) != 0 {
		t.Errorf("engine without ImageStager produced %d tasks", len(tasks))
	}

	// None of these may panic or spawn work the engine cannot absorb.
	wv.Update(ctx, SendMouse{ID: id, Event: webviewruntime.MouseEvent{Kind: webviewruntime.MouseRelease}})
	wv.Update(ctx, SendKey{ID: id, Event: webviewruntime.KeyEvent{Rune: 'a'}})
	wv.Update(ctx, CopySelection{ID: id})
	wv.Update(ctx, Tick{})

	v, err := wv.Views().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if v.State() != view.StateRendered {
		t.Errorf("state = %v, want rendered", v.State())
	}
}

func TestHistory_BackAndForward(t *testing.T) {
	eng := newFakeEngine()
	wv := New(eng)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/a"))
	wv.Update(ctx, GoToURL{ID: id, URL: "http://example.com/b"})
	wv.Update(ctx, GoToURL{ID: id, URL: "http://example.com/c"})
	v, _ := wv.Views().Get(id)

	if tasks := wv.Update(ctx, GoBack{ID: id}); len(tasks) != 1 {
		t.Fatalf("GoBack spawned %d tasks, want 1", len(tasks))
	}
	if v.URL() != "http://example.com/b" {
		t.Errorf("after back URL = %q", v.URL())
	}

	wv.Update(ctx, GoBack{ID: id})
	if v.URL() != "http://example.com/a" {
		t.Errorf("after second back URL = %q", v.URL())
	}

	if tasks := wv.Update(ctx, GoBack{ID: id}); len(tasks) != 0 {
		t.Error("back past the bottom of history spawned tasks")
	}
	if v.URL() != "http://example.com/a" {
		t.Errorf("URL moved past history bottom: %q", v.URL())
	}

	wv.Update(ctx, GoForward{ID: id})
	if v.URL() != "http://example.com/b" {
		t.Errorf("after forward URL = %q", v.URL())
	}

	// A fresh navigation truncates the forward stack.
	wv.Update(ctx, GoToURL{ID: id, URL: "http://example.com/d"})
	wv.Update(ctx, GoForward{ID: id})
	if v.URL() != "http://example.com/d" {
		t.Errorf("forward after fresh navigation moved to %q", v.URL())
	}
}

func TestCopySelection(t *testing.T) {
	eng := newFakeEngine()
	eng.selection = "chosen words"
	var copied string
	wv := New(eng, OnCopy(func(s string) { copied = s }))
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.HTMLPage("<p>chosen words</p>"))
	wv.Update(ctx, CopySelection{ID: id})

	if copied != "chosen words" {
		t.Errorf("copied = %q", copied)
	}
}

func TestCallbacks_URLAndTitle(t *testing.T) {
	eng := newFakeEngine()
	eng.nextTitle = "Example Domain"

	var urls, titles []string
	wv := New(eng,
		OnURLChange(func(_ webviewruntime.ViewID, u string) { urls = append(urls, u) }),
		OnTitleChange(func(_ webviewruntime.ViewID, s string) { titles = append(titles, s) }),
	)
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/"))
	wv.Update(ctx, GoToURL{ID: id, URL: "http://example.com/next"})
	v, _ := wv.Views().Get(id)
	wv.Update(ctx, pageFetched{id: id, url: v.URL(), epoch: v.Epoch(), html: "<p>hi</p>"})

	if len(urls) != 1 || urls[0] != "http://example.com/next" {
		t.Errorf("url callbacks = %v", urls)
	}
	if len(titles) != 1 || titles[0] != "Example Domain" {
		t.Errorf("title callbacks = %v", titles)
	}
}

func TestNativeURLChange_SyncsRegistryAndHistory(t *testing.T) {
	eng := newFakeEngine()
	var urls []string
	wv := New(eng, OnURLChange(func(_ webviewruntime.ViewID, u string) { urls = append(urls, u) }))
	ctx := context.Background()

	id, _ := createdID(t, wv, webviewruntime.URLPage("http://example.com/a"))
	v, _ := wv.Views().Get(id)

	// The engine moved on its own, as after a redirect.
	eng.urls[id] = "http://example.com/landing"
	wv.Update(ctx, Tick{})

	if v.URL() != "http://example.com/landing" {
		t.Errorf("registry URL = %q, want the engine's", v.URL())
	}
	if len(urls) != 1 || urls[0] != "http://example.com/landing" {
		t.Errorf("url callbacks = %v", urls)
	}

	// The current history entry is rewritten, not pushed: going back must
	// not land on the pre-redirect URL.
	h := wv.history[id]
	if len(h.entries) != 1 || h.entries[0] != "http://example.com/landing" {
		t.Errorf("history = %v, want the redirected entry only", h.entries)
	}
}

func TestUpdate_CanceledContextDropsAction(t *testing.T) {
	eng := newFakeEngine()
	wv := New(eng)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := wv.Update(ctx, CreateView{Page: webviewruntime.URLPage("http://example.com/")})
	if len(tasks) != 0 {
		t.Errorf("canceled context spawned %d tasks", len(tasks))
	}
	if len(eng.views) != 0 {
		t.Error("canceled context still reached the engine")
	}
}
