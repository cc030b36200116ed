// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/trackmatch/internal/httputil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

func fastRetrievalConfig() types.RetrievalConfig {
	cfg := types.DefaultConfig().Retrieval
	cfg.EngineRPS = 1000
	cfg.DirectRPS = 1000
	return cfg
}

func testDirect() *Direct {
	return &Direct{
		Client:    http.DefaultClient,
		Limiter:   rate.NewLimiter(rate.Inf, 1),
		UserAgent: "trackmatch-test",
	}
}

func TestDirectFetch(t *testing.T) {
	var gotQuery, gotAgent, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		io.WriteString(w, "<html>results</html>")
	}))
	defer server.Close()

	old := catalogSearchBase
	catalogSearchBase = server.URL
	defer func() { catalogSearchBase = old }()

	d := testDirect()
	d.Cookie = "abc123"
	resp := d.Fetch(context.Background(), types.Query{Text: "never sleep again example artist", Rank: 0})

	require.True(t, resp.OK, "fetch failed: %s", resp.Err)
	assert.Equal(t, types.StrategyDirect, resp.Strategy)
	assert.Equal(t, "<html>results</html>", resp.Body)
	assert.Equal(t, "never sleep again example artist", gotQuery)
	assert.Equal(t, "trackmatch-test", gotAgent)
	assert.Equal(t, "session=abc123", gotCookie)
	assert.False(t, resp.FetchedAt.IsZero())
}

func TestDirectFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	old := catalogSearchBase
	catalogSearchBase = server.URL
	defer func() { catalogSearchBase = old }()

	resp := testDirect().Fetch(context.Background(), types.Query{Text: "x"})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "HTTP 404")
}

func TestDirectFetchRetriesRateLimit(t *testing.T) {
	oldDelay := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = oldDelay }()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "recovered")
	}))
	defer server.Close()

	old := catalogSearchBase
	catalogSearchBase = server.URL
	defer func() { catalogSearchBase = old }()

	d := testDirect()
	d.RetryMax = 1
	resp := d.Fetch(context.Background(), types.Query{Text: "x"})

	require.True(t, resp.OK, "fetch failed: %s", resp.Err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "recovered", resp.Body)
}

func TestDirectFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := testDirect().Fetch(ctx, types.Query{Text: "x"})
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Err)
}

const engineResultBody = `<html><body>
<a href="https://www.beatport.com/track/never-sleep-again/11483710">Example Artist - Never Sleep Again</a>
</body></html>`

// testEngines builds an EngineFallback over two httptest backends.
func testEngines(t *testing.T, first, second http.HandlerFunc) *EngineFallback {
	t.Helper()
	a := httptest.NewServer(first)
	b := httptest.NewServer(second)
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	e := NewEngineFallback(fastRetrievalConfig(), http.DefaultClient, io.Discard)
	e.engines = []engineEndpoint{
		{name: "alpha", base: a.URL, param: "q"},
		{name: "beta", base: b.URL, param: "q"},
	}
	return e
}

func TestEngineFallbackFirstHit(t *testing.T) {
	var gotQuery string
	e := testEngines(t,
		func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			io.WriteString(w, engineResultBody)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("second engine consulted despite first returning results")
		},
	)

	resp := e.Fetch(context.Background(), types.Query{Text: "never sleep again"})
	require.True(t, resp.OK, "fetch failed: %s", resp.Err)
	assert.Equal(t, types.StrategyEngine, resp.Strategy)
	assert.Contains(t, gotQuery, "never sleep again")
	assert.Contains(t, gotQuery, siteFilter)
}

func TestEngineFallbackRotatesPastFailure(t *testing.T) {
	firstCalls := 0
	e := testEngines(t,
		func(w http.ResponseWriter, r *http.Request) {
			firstCalls++
			w.WriteHeader(http.StatusTooManyRequests)
		},
		func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, engineResultBody)
		},
	)

	resp := e.Fetch(context.Background(), types.Query{Text: "x"})
	require.True(t, resp.OK, "fetch failed: %s", resp.Err)

	// The rate-limited backend is memoized unhealthy and skipped on the
	// next fetch.
	resp = e.Fetch(context.Background(), types.Query{Text: "y"})
	require.True(t, resp.OK)
	assert.Equal(t, 1, firstCalls)
	assert.True(t, e.Available(), "one healthy backend remains")
}

func TestEngineFallbackEmptyResults(t *testing.T) {
	empty := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html><body>no relevant links</body></html>")
	}
	e := testEngines(t, empty, empty)

	resp := e.Fetch(context.Background(), types.Query{Text: "x"})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "no engine returned results")
	assert.True(t, e.Available(), "empty results do not mark a backend unhealthy")
}

func TestEngineFallbackAllUnhealthy(t *testing.T) {
	broken := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	e := testEngines(t, broken, broken)

	resp := e.Fetch(context.Background(), types.Query{Text: "x"})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "all engines exhausted")
	assert.False(t, e.Available())
}

func TestBrowserUnavailableWithoutBinary(t *testing.T) {
	b := &Browser{}
	assert.False(t, b.Available())

	resp := b.Fetch(context.Background(), types.Query{Text: "x"})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "no browser binary")
}

func TestNewBuildsEscalationOrder(t *testing.T) {
	cfg := fastRetrievalConfig()
	cfg.EnableDirect = true
	cfg.EnableEngines = true
	cfg.EnableBrowser = true

	strategies := New(cfg, nil, "", io.Discard)
	require.Len(t, strategies, 3)
	assert.Equal(t, types.StrategyDirect, strategies[0].Tag())
	assert.Equal(t, types.StrategyEngine, strategies[1].Tag())
	assert.Equal(t, types.StrategyBrowser, strategies[2].Tag())
}

func TestNewOmitsDisabledStrategies(t *testing.T) {
	cfg := fastRetrievalConfig()
	cfg.EnableDirect = true
	cfg.EnableEngines = false
	cfg.EnableBrowser = false

	strategies := New(cfg, nil, "", io.Discard)
	require.Len(t, strategies, 1)
	assert.Equal(t, "direct", strategies[0].Name())
}
