package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/wippyai/webview-runtime/engine"
	wverrors "github.com/wippyai/webview-runtime/errors"
)

// Size caps and limits applied to every retrieval. Oversized responses are
// rejected both on the advertised Content-Length and on the actual bytes
// read, so a missing or lying header cannot bypass a cap.
const (
	MaxPageSize    = 10 * 1024 * 1024 // page HTML
	MaxImageSize   = 10 * 1024 * 1024 // single image
	MaxCSSSize     = 5 * 1024 * 1024  // single stylesheet
	MaxStylesheets = 50               // per page, linked plus imported
	MaxImportDepth = 3                // @import recursion depth

	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "webview-runtime/1.0"
)

// StylesheetCache maps resolved stylesheet URLs to their CSS text. A URL
// present in the cache is never fetched again, which also breaks @import
// cycles.
type StylesheetCache map[string]string

// Fetcher retrieves pages, stylesheets and images for document-renderer
// engines.
type Fetcher struct {
	client *resty.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.client = resty.NewWithClient(hc)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.SetTimeout(d)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.client.SetHeader("User-Agent", ua)
	}
}

// New creates a Fetcher. The default client retries transient transport
// failures and times out after DefaultTimeout.
func New(opts ...Option) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient())
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("User-Agent", defaultUserAgent)

	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage retrieves a page and every stylesheet it references, directly
// via <link rel="stylesheet"> or transitively via @import. The HTML is
// returned unmodified. Stylesheet failures are logged and skipped; only a
// failure to retrieve the page itself is an error, and then no partial
// HTML is returned.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, StylesheetCache, error) {
	body, err := f.get(ctx, pageURL, MaxPageSize)
	if err != nil {
		return "", nil, err
	}

	cache := make(StylesheetCache)
	for _, href := range f.stylesheetLinks(body, pageURL) {
		f.fetchStylesheet(ctx, href, cache, 0)
	}
	return string(body), cache, nil
}

// FetchImage retrieves a single image, subject to MaxImageSize.
func (f *Fetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	return f.get(ctx, imageURL, MaxImageSize)
}

// stylesheetLinks extracts <link rel="stylesheet"> hrefs resolved against
// the page URL, capped at MaxStylesheets.
func (f *Fetcher) stylesheetLinks(html []byte, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		engine.Logger().Debug("stylesheet scan failed", zap.String("url", pageURL), zap.Error(err))
		return nil
	}

	var hrefs []string
	doc.Find(`link[rel~="stylesheet"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return true
		}
		resolved, err := ResolveURL(href, "", pageURL)
		if err != nil {
			engine.Logger().Debug("skipping unresolvable stylesheet",
				zap.String("href", href), zap.Error(err))
			return true
		}
		hrefs = append(hrefs, resolved.String())
		return len(hrefs) < MaxStylesheets
	})
	return hrefs
}

// fetchStylesheet retrieves one stylesheet into the cache and recurses on
// its @import rules. Already-cached URLs short-circuit, which deduplicates
// shared imports and terminates cycles.
func (f *Fetcher) fetchStylesheet(ctx context.Context, cssURL string, cache StylesheetCache, depth int) {
	if depth > MaxImportDepth || len(cache) >= MaxStylesheets {
		return
	}
	if _, ok := cache[cssURL]; ok {
		return
	}

	body, err := f.get(ctx, cssURL, MaxCSSSize)
	if err != nil {
		engine.Logger().Debug("skipping stylesheet", zap.String("url", cssURL), zap.Error(err))
		return
	}
	css := string(body)
	cache[cssURL] = css

	for _, imp := range extractCSSImports(css) {
		resolved, err := ResolveURL(imp, cssURL, cssURL)
		if err != nil {
			engine.Logger().Debug("skipping unresolvable @import",
				zap.String("import", imp), zap.Error(err))
			continue
		}
		f.fetchStylesheet(ctx, resolved.String(), cache, depth+1)
	}
}

// get performs a capped GET. The advertised Content-Length is checked
// before the body is read, and the actual byte count after.
func (f *Fetcher) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, wverrors.Wrap(wverrors.PhaseFetch, wverrors.KindTimeout, err, "request timed out")
		}
		return nil, wverrors.Network(rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, wverrors.BadStatus(rawURL, code)
	}
	if cl := resp.RawResponse.ContentLength; cl > limit {
		return nil, wverrors.TooLarge(wverrors.PhaseFetch, rawURL, cl, limit)
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, wverrors.Network(rawURL, err)
	}
	if int64(len(data)) > limit {
		return nil, wverrors.TooLarge(wverrors.PhaseFetch, rawURL, int64(len(data)), limit)
	}
	return data, nil
}
