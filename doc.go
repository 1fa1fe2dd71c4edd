// Package webviewruntime provides view-lifecycle and resource-fetch
// orchestration for embedding pluggable HTML rendering backends in Go hosts.
//
// The library sits between a rendering backend (the "engine") and a host UI.
// It owns creating and destroying logical views, scheduling redraws,
// fetching page HTML plus associated stylesheets and images, and guaranteeing
// that results from a superseded navigation never corrupt a view that has
// since moved on.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	webviewruntime/      Root package with shared primitives (ViewID, Page,
//	                     Size, Frame, input events)
//	├── webview/         High-level orchestrator: the Action/Task update
//	                     loop, render scheduling, the image pipeline, and
//	                     anchor navigation interception
//	├── engine/          Engine interface and optional capability interfaces
//	│   └── htmltext/    Text-mode reference backend (x/net/html + lipgloss)
//	├── fetch/           Bounded page, stylesheet, and image retrieval
//	├── view/            View registry: handle table, per-view state machine,
//	                     navigation epochs, lifecycle observers
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Create a webview over an engine and drive it from the host's event loop:
//
//	eng := htmltext.New()
//	wv := webview.New(eng,
//	    webview.WithFetcher(fetch.New()),
//	    webview.OnTitleChange(func(id webviewruntime.ViewID, title string) {
//	        // update window chrome
//	    }),
//	)
//
//	tasks := wv.Update(ctx, webview.CreateView{Page: webviewruntime.URLPage("https://example.com")})
//	for _, task := range tasks {
//	    go func(t webview.Task) { actions <- t(ctx) }(task)
//	}
//
// Actions produced by tasks are fed back into Update from the same
// goroutine. The orchestrator never touches engine state outside Update, so
// engines need not be thread-safe.
//
// # Concurrency Model
//
// Scheduling is single-threaded and cooperative: a host-driven periodic
// Tick advances everything. Network fetches run as Tasks on the host's
// runner; their completions re-enter Update as actions. Cancellation is
// logical: an in-flight fetch may still complete after the view navigates
// away, but its result is discarded by a per-view navigation epoch check.
//
// # Capability Polymorphism
//
// Backends are polymorphic over optional capabilities. The required Engine
// interface covers lifecycle, layout, and input; everything else (native
// URL fetch, keyboard input, text selection, fragment scrolling,
// incremental image staging) is an optional interface queried by type
// assertion before use. A missing capability degrades gracefully, never
// panics.
package webviewruntime
