// Package webview orchestrates view lifecycle, navigation and resource
// loading over a pluggable rendering engine.
//
// # Update Loop
//
// The package follows a message-driven model: the host owns a single
// update goroutine, feeds Actions into WebView.Update and runs the
// returned Tasks on whatever runner it has (plain goroutines, a TUI
// framework's command runner). Each Task's resulting Action is fed back
// into Update. Engine state is only ever touched inside Update, so
// engines need no locking.
//
//	wv := webview.New(eng)
//	tasks := wv.Update(ctx, webview.CreateView{Page: webviewruntime.URLPage(u)})
//	for _, t := range tasks {
//	    go func(t webview.Task) { results <- t(ctx) }(t)
//	}
//
// # Staleness
//
// Every navigation bumps the view's epoch. Page and image fetch tasks
// carry the epoch they were spawned under, and Update drops any result
// whose epoch no longer matches. A view that navigated twice in quick
// succession therefore never shows the first page's late content.
//
// # Image Batching
//
// After a document loads, its image references are fetched concurrently
// while the in-flight counter tracks the batch. Completions, including
// failures, decrement it; when it reaches zero the engine gets exactly
// one FlushStagedImages call and the view is re-rendered once, however
// many images the page had.
package webview
