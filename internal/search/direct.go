// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/trackmatch/internal/httputil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// catalogSearchBase is the catalog's own track search endpoint. Declared
// as a var so tests can substitute an httptest server.
var catalogSearchBase = "https://www.beatport.com/search/tracks"

// Direct issues a single HTTP query against the catalog's search endpoint.
// Fastest and first in the escalation order, with the lowest recall for
// obscure and remix tracks.
type Direct struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string
	RetryMax  int

	// Cookie is an optional catalog session value; some result fields are
	// only server-rendered for recognized sessions.
	Cookie string
}

func (d *Direct) Name() string          { return "direct" }
func (d *Direct) Tag() types.StrategyTag { return types.StrategyDirect }

// Available is always true: the strategy only needs an HTTP client.
func (d *Direct) Available() bool { return true }

// Fetch GETs the catalog search page for q. Rate-limited per the shared
// limiter; HTTP 429 is retried with backoff inside the HTTP helper.
func (d *Direct) Fetch(ctx context.Context, q types.Query) types.RawResponse {
	start := time.Now()

	if err := d.Limiter.Wait(ctx); err != nil {
		return failure(d.Tag(), start, err)
	}

	params := url.Values{"q": {q.Text}}
	reqURL := catalogSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return failure(d.Tag(), start, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "text/html")
	if d.Cookie != "" {
		req.Header.Set("Cookie", "session="+d.Cookie)
	}

	resp, err := httputil.DoWithRetry(ctx, d.Client, req, d.RetryMax)
	if err != nil {
		return failure(d.Tag(), start, fmt.Errorf("catalog search request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure(d.Tag(), start, fmt.Errorf("catalog search returned HTTP %d", resp.StatusCode))
	}

	body, err := readBody(resp)
	if err != nil {
		return failure(d.Tag(), start, err)
	}
	return success(d.Tag(), start, body)
}
