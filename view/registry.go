package view

import (
	"sync"

	webviewruntime "github.com/wippyai/webview-runtime"
	"github.com/wippyai/webview-runtime/errors"
)

// Registry is the handle table for views. IDs are allocated monotonically
// and never reused, so a late asynchronous result can never alias a view
// created after the one it was spawned for.
//
// Closed views stay in the table (marked StateClosed) so callers can
// distinguish "closed" from "never existed"; both are recoverable, typed
// outcomes rather than faults.
type Registry struct {
	mu        sync.RWMutex
	views     map[webviewruntime.ViewID]*View
	order     []webviewruntime.ViewID
	next      uint32
	observers []Observer
	obsMu     sync.RWMutex
}

// NewRegistry creates an empty view registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[webviewruntime.ViewID]*View),
	}
}

// Create allocates a view for the given content source and returns it.
// The view starts in StateCreated.
func (r *Registry) Create(page webviewruntime.Page) *View {
	r.mu.Lock()
	r.next++
	id := webviewruntime.ViewID(r.next)
	v := &View{
		id:    id,
		state: StateCreated,
		page:  page,
	}
	if page.Kind() == webviewruntime.PageURL {
		v.url = page.Value()
	}
	r.views[id] = v
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.notify(Event{Type: EventCreated, ID: id, Value: v.URL()})
	return v
}

// Get retrieves a live view. Unknown ids yield a typed not-found error,
// closed ids a typed view-closed error; both are recoverable conditions.
func (r *Registry) Get(id webviewruntime.ViewID) (*View, error) {
	r.mu.RLock()
	v, ok := r.views[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.ViewNotFound(uint32(id))
	}
	if v.Closed() {
		return nil, errors.ViewClosed(uint32(id))
	}
	return v, nil
}

// Close moves a view to the terminal state and fires EventClosed.
// Closing an unknown or already-closed view returns the same typed errors
// as Get.
func (r *Registry) Close(id webviewruntime.ViewID) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	if !ok {
		r.mu.Unlock()
		return nil, errors.ViewNotFound(uint32(id))
	}
	if v.Closed() {
		r.mu.Unlock()
		return nil, errors.ViewClosed(uint32(id))
	}
	v.state = StateClosed
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify(Event{Type: EventClosed, ID: id})
	return v, nil
}

// UpdateURL records a URL change and fires EventURLChanged when the value
// actually changed. Returns true on change.
func (r *Registry) UpdateURL(id webviewruntime.ViewID, url string) bool {
	v, err := r.Get(id)
	if err != nil || v.url == url {
		return false
	}
	v.url = url
	r.notify(Event{Type: EventURLChanged, ID: id, Value: url})
	return true
}

// UpdateTitle records a title change and fires EventTitleChanged when the
// value actually changed. Returns true on change.
func (r *Registry) UpdateTitle(id webviewruntime.ViewID, title string) bool {
	v, err := r.Get(id)
	if err != nil || v.title == title {
		return false
	}
	v.title = title
	r.notify(Event{Type: EventTitleChanged, ID: id, Value: title})
	return true
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Each iterates over live views in creation order. Returning false from fn
// stops the iteration.
func (r *Registry) Each(fn func(webviewruntime.ViewID, *View) bool) {
	r.mu.RLock()
	ids := make([]webviewruntime.ViewID, len(r.order))
	copy(ids, r.order)
	r.mu.RUnlock()

	for _, id := range ids {
		r.mu.RLock()
		v, ok := r.views[id]
		r.mu.RUnlock()
		if !ok || v.Closed() {
			continue
		}
		if !fn(id, v) {
			break
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnViewEvent(e)
	}
}
