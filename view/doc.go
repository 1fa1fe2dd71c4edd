// Package view provides the view registry: the single source of truth for
// per-view orchestration state.
//
// Each View tracks its content source, current URL and title, scroll
// offset, content height, render lifecycle state, a monotonically
// increasing navigation epoch, and an in-flight image counter.
//
// # Lifecycle
//
// Views move through a small state machine:
//
//	Created → ContentPending → Stale → Rendered
//	                             ↑________|      (any mutation)
//	Closed (terminal)
//
// ContentPending only occurs for remote URLs on backends without native
// URL fetching. Closed cancels the association with any outstanding epoch:
// late results for a closed view are dropped, never errored.
//
// # Epochs
//
// The navigation epoch is bumped on every explicit cross-page navigation.
// Asynchronous work captures the epoch at spawn time; a completion whose
// captured epoch is older than the view's current epoch is discarded.
// Registry handles are never reused, so the epoch check composes with
// handle identity to make stale-result aliasing impossible.
//
// # Observers
//
// The registry emits Created, Closed, URLChanged, and TitleChanged events
// to subscribed observers; the webview layer forwards these to host
// callbacks.
package view
