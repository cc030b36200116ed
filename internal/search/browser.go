// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// browserBinaries are the headless-capable browsers probed on PATH, in
// preference order.
var browserBinaries = []string{
	"google-chrome",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// Browser renders the catalog search page in a headless browser context to
// obtain JavaScript-populated content. It is the escalation of last resort:
// seconds per query rather than milliseconds, so concurrent contexts are
// capped independently of the HTTP rate limiters.
type Browser struct {
	UserAgent string
	Timeout   time.Duration

	execPath string
	sem      chan struct{}
}

// NewBrowser probes for a usable browser binary. A Browser with no binary
// still satisfies Strategy; Available reports the capability gap and Fetch
// fails softly.
func NewBrowser(cfg types.RetrievalConfig) *Browser {
	contexts := cfg.BrowserContexts
	if contexts < 1 {
		contexts = 1
	}
	b := &Browser{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		sem:       make(chan struct{}, contexts),
	}
	for _, bin := range browserBinaries {
		if path, err := exec.LookPath(bin); err == nil {
			b.execPath = path
			break
		}
	}
	return b
}

func (b *Browser) Name() string           { return "browser" }
func (b *Browser) Tag() types.StrategyTag { return types.StrategyBrowser }

// Available reports whether a browser binary was found on PATH.
func (b *Browser) Available() bool { return b.execPath != "" }

// Fetch navigates a fresh browser context to the catalog search page and
// returns the rendered document once the result list has hydrated.
func (b *Browser) Fetch(ctx context.Context, q types.Query) types.RawResponse {
	start := time.Now()

	if b.execPath == "" {
		return failure(b.Tag(), start, fmt.Errorf("no browser binary on PATH"))
	}

	select {
	case b.sem <- struct{}{}:
		defer func() { <-b.sem }()
	case <-ctx.Done():
		return failure(b.Tag(), start, ctx.Err())
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(b.execPath),
		chromedp.UserAgent(b.UserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	params := url.Values{"q": {q.Text}}
	pageURL := catalogSearchBase + "?" + params.Encode()

	var rendered string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return failure(b.Tag(), start, fmt.Errorf("rendering %s: %w", pageURL, err))
	}
	return success(b.Tag(), start, rendered)
}
