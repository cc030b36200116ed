// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// engineEndpoint is one third-party HTML search backend in the rotation.
// Declared as a slice of vars so tests can substitute httptest servers.
type engineEndpoint struct {
	name  string
	base  string
	param string
}

var defaultEngines = []engineEndpoint{
	{name: "duckduckgo", base: "https://html.duckduckgo.com/html/", param: "q"},
	{name: "bing", base: "https://www.bing.com/search", param: "q"},
	{name: "mojeek", base: "https://www.mojeek.com/search", param: "q"},
}

// siteFilter restricts engine results to catalog track pages.
const siteFilter = "site:beatport.com/track"

// EngineFallback rotates through independent search backends and stops at
// the first one returning a non-empty result set. A backend that fails or
// rate-limits is memoized as unhealthy for the remainder of the run, so it
// is not retried on every track; the health memo is deliberately separate
// from the content cache.
type EngineFallback struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string

	engines []engineEndpoint
	w       io.Writer

	mu        sync.Mutex
	unhealthy map[string]bool
}

// NewEngineFallback builds the rotation over the default backends.
func NewEngineFallback(cfg types.RetrievalConfig, client *http.Client, w io.Writer) *EngineFallback {
	if w == nil {
		w = io.Discard
	}
	return &EngineFallback{
		Client:    client,
		Limiter:   rate.NewLimiter(rate.Limit(cfg.EngineRPS), 1),
		UserAgent: cfg.UserAgent,
		engines:   defaultEngines,
		w:         w,
		unhealthy: make(map[string]bool),
	}
}

func (e *EngineFallback) Name() string           { return "engines" }
func (e *EngineFallback) Tag() types.StrategyTag { return types.StrategyEngine }

// Available is true while any backend in the rotation is still healthy.
func (e *EngineFallback) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.unhealthy) < len(e.engines)
}

// Fetch tries each healthy backend in rotation order and returns the first
// body that contains catalog track links. When every backend fails or
// comes back empty, the overall fetch is reported as failed.
func (e *EngineFallback) Fetch(ctx context.Context, q types.Query) types.RawResponse {
	start := time.Now()
	var lastErr error

	for _, engine := range e.engines {
		if e.isUnhealthy(engine.name) {
			continue
		}
		if err := e.Limiter.Wait(ctx); err != nil {
			return failure(e.Tag(), start, err)
		}

		body, err := e.fetchEngine(ctx, engine, q.Text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", engine.name, err)
			fmt.Fprintf(e.w, "warning: search engine %s failed: %v\n", engine.name, err)
			e.markUnhealthy(engine.name)
			continue
		}
		if !strings.Contains(body, "beatport.com/track/") {
			// Healthy backend, empty result set: rotate onward.
			continue
		}
		return success(e.Tag(), start, body)
	}

	if lastErr != nil {
		return failure(e.Tag(), start, fmt.Errorf("all engines exhausted: %w", lastErr))
	}
	return failure(e.Tag(), start, fmt.Errorf("no engine returned results"))
}

func (e *EngineFallback) fetchEngine(ctx context.Context, engine engineEndpoint, text string) (string, error) {
	params := url.Values{engine.param: {text + " " + siteFilter}}
	reqURL := engine.base + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limited (HTTP 429)")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return readBody(resp)
}

func (e *EngineFallback) isUnhealthy(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unhealthy[name]
}

func (e *EngineFallback) markUnhealthy(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unhealthy[name] = true
}
