package webview

import (
	"context"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/fetch"
)

// Action is a message handled by WebView.Update. Hosts construct the
// exported actions; completion actions for asynchronous work are produced
// internally by Tasks and fed back through Update by the host.
type Action interface{ isAction() }

// Task is a unit of asynchronous work. The host runs it off the update
// goroutine and feeds the resulting Action back into Update. A nil result
// means the task has nothing to report.
type Task func(ctx context.Context) Action

// CreateView opens a new view showing the given page.
type CreateView struct {
	Page webviewruntime.Page
}

// CloseView closes a view. Late async results for it are dropped.
type CloseView struct {
	ID webviewruntime.ViewID
}

// GoToURL navigates a view to a new page.
type GoToURL struct {
	ID  webviewruntime.ViewID
	URL string
}

// Refresh re-fetches a view's current page.
type Refresh struct {
	ID webviewruntime.ViewID
}

// GoBack navigates one step back in a view's history.
type GoBack struct {
	ID webviewruntime.ViewID
}

// GoForward navigates one step forward in a view's history.
type GoForward struct {
	ID webviewruntime.ViewID
}

// SendMouse delivers a pointer event to a view.
type SendMouse struct {
	ID    webviewruntime.ViewID
	Event webviewruntime.MouseEvent
}

// SendKey delivers a key event to a view. Engines without keyboard
// support drop it.
type SendKey struct {
	ID    webviewruntime.ViewID
	Event webviewruntime.KeyEvent
}

// UpdateView advances engine work and re-renders one view if needed.
type UpdateView struct {
	ID webviewruntime.ViewID
}

// Tick advances engine work and re-renders every view that needs it.
// Hosts send it at their frame cadence.
type Tick struct{}

// Resize applies a new view size. Sending the current size is a no-op.
type Resize struct {
	Size webviewruntime.Size
}

// CopySelection reports a view's selected text through the OnCopy
// callback. Engines without a text selection drop it.
type CopySelection struct {
	ID webviewruntime.ViewID
}

func (CreateView) isAction()    {}
func (CloseView) isAction()     {}
func (GoToURL) isAction()       {}
func (Refresh) isAction()       {}
func (GoBack) isAction()        {}
func (GoForward) isAction()     {}
func (SendMouse) isAction()     {}
func (SendKey) isAction()       {}
func (UpdateView) isAction()    {}
func (Tick) isAction()          {}
func (Resize) isAction()        {}
func (CopySelection) isAction() {}

// pageFetched is the completion of a page fetch task. epoch is the view's
// navigation epoch captured when the task was spawned.
type pageFetched struct {
	id    webviewruntime.ViewID
	url   string
	epoch uint64
	html  string
	css   fetch.StylesheetCache
	err   error
}

// imageFetched is the completion of one image fetch. redrawOnly carries
// the pending reference's flag through to StageImage: the image cannot
// move layout, so the flush repaints without reflowing.
type imageFetched struct {
	id         webviewruntime.ViewID
	rawSrc     string
	data       []byte
	err        error
	redrawOnly bool
	epoch      uint64
}

func (pageFetched) isAction()  {}
func (imageFetched) isAction() {}
