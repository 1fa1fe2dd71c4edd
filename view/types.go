package view

import (
	webviewruntime "github.com/wippyai/webview-runtime"
)

// State is a view's position in its render lifecycle.
type State uint8

const (
	// StateCreated is the initial state after Create.
	StateCreated State = iota
	// StateContentPending means the view points at a remote URL whose HTML
	// is still being fetched on the view's behalf.
	StateContentPending
	// StateStale means the view has content that needs a render pass.
	StateStale
	// StateRendered means the last render pass is still valid.
	StateRendered
	// StateClosed is terminal. Late async results for a closed view are
	// dropped, never errored.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateContentPending:
		return "content_pending"
	case StateStale:
		return "stale"
	case StateRendered:
		return "rendered"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Event types for view lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventClosed
	EventURLChanged
	EventTitleChanged
)

// Event represents a view lifecycle event.
type Event struct {
	Type EventType
	ID   webviewruntime.ViewID
	// Value carries the new URL or title for change events.
	Value string
}

// Observer receives notifications about view lifecycle events.
type Observer interface {
	OnViewEvent(Event)
}

// View is the registry's record for one browsing context. The registry is
// the single source of truth for this state; rendering backends keep only
// rendering internals keyed by the same ViewID.
//
// A View is owned by the orchestrator's update loop and is not safe for
// concurrent mutation.
type View struct {
	id            webviewruntime.ViewID
	state         State
	page          webviewruntime.Page
	url           string
	title         string
	epoch         uint64
	inflight      int
	scrollY       float32
	contentHeight float32
}

// ID returns the view's handle.
func (v *View) ID() webviewruntime.ViewID { return v.id }

// State returns the current lifecycle state.
func (v *View) State() State { return v.state }

// Page returns the view's content source.
func (v *View) Page() webviewruntime.Page { return v.page }

// SetPage replaces the view's content source.
func (v *View) SetPage(p webviewruntime.Page) { v.page = p }

// URL returns the view's current URL, or "about:blank" if none.
func (v *View) URL() string {
	if v.url == "" {
		return "about:blank"
	}
	return v.url
}

// Title returns the view's current title.
func (v *View) Title() string { return v.title }

// Epoch returns the current navigation epoch.
func (v *View) Epoch() uint64 { return v.epoch }

// BumpEpoch increments the navigation epoch and returns the new value.
// Called on every explicit cross-page navigation; any async result tagged
// with an older epoch must be discarded.
func (v *View) BumpEpoch() uint64 {
	v.epoch++
	return v.epoch
}

// InflightImages returns the number of image fetches currently in flight.
func (v *View) InflightImages() int { return v.inflight }

// BeginImageFetch increments the in-flight counter and returns the epoch
// captured at spawn time. The caller tags the fetch with this epoch, not
// the epoch at completion time.
func (v *View) BeginImageFetch() uint64 {
	v.inflight++
	return v.epoch
}

// FinishImageFetch decrements the in-flight counter, flooring at zero, and
// returns the remaining count. Must be called for every completion, even
// when the result is discarded, or batch flushing never fires.
func (v *View) FinishImageFetch() int {
	if v.inflight > 0 {
		v.inflight--
	}
	return v.inflight
}

// ResetInflight clears the in-flight counter. Called on navigation: the
// old fetches keep running but their completions are stale by epoch.
func (v *View) ResetInflight() { v.inflight = 0 }

// ScrollY returns the view's vertical scroll offset.
func (v *View) ScrollY() float32 { return v.scrollY }

// SetScrollY records the view's vertical scroll offset.
func (v *View) SetScrollY(y float32) { v.scrollY = y }

// ContentHeight returns the laid-out document height.
func (v *View) ContentHeight() float32 { return v.contentHeight }

// SetContentHeight records the laid-out document height.
func (v *View) SetContentHeight(h float32) { v.contentHeight = h }

// Closed reports whether the view is in the terminal state.
func (v *View) Closed() bool { return v.state == StateClosed }

// MarkContentPending moves the view into StateContentPending. No-op on a
// closed view.
func (v *View) MarkContentPending() {
	if v.state == StateClosed {
		return
	}
	v.state = StateContentPending
}

// MarkStale flags the view for a render pass. Any mutation (resize, scroll,
// navigation, DOM update, incoming image) routes through here. No-op on a
// closed view.
func (v *View) MarkStale() {
	if v.state == StateClosed {
		return
	}
	v.state = StateStale
}

// MarkRendered records a completed render pass. Only meaningful from
// StateStale; other states are unchanged so a mutation that raced the
// render is not lost.
func (v *View) MarkRendered() {
	if v.state == StateStale {
		v.state = StateRendered
	}
}
