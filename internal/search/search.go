// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search implements the retrieval strategies that fetch raw
// catalog listings for a planned query. Strategies share one capability
// (Fetch) and differ in cost and recall: the catalog's own search endpoint
// is cheapest, the search-engine rotation recovers tracks the catalog
// indexes poorly, and browser rendering is the expensive last resort for
// client-side-rendered pages. Escalation between them is the adjudicator's
// call, not the strategies'.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// Strategy is the common retrieval capability. Fetch reports ordinary
// network and format failures inside the RawResponse; it never panics and
// never returns an error value.
type Strategy interface {
	// Name returns the strategy identifier used in logs and the audit trail.
	Name() string

	// Tag returns the strategy tag recorded on queries and cache keys.
	Tag() types.StrategyTag

	// Available reports whether the strategy can run in this environment.
	// An unavailable strategy degrades recall, not correctness.
	Available() bool

	// Fetch executes the query and returns the raw payload plus metadata.
	Fetch(ctx context.Context, q types.Query) types.RawResponse
}

// New builds the enabled strategies in escalation order: direct, engine
// fallback, browser. Disabled strategies are omitted; unavailable ones are
// kept so the adjudicator can log the capability gap. sessionCookie is the
// optional catalog session credential sent on direct fetches.
func New(cfg types.RetrievalConfig, client *http.Client, sessionCookie string, w io.Writer) []Strategy {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	var strategies []Strategy
	if cfg.EnableDirect {
		strategies = append(strategies, &Direct{
			Client:    client,
			Limiter:   rate.NewLimiter(rate.Limit(cfg.DirectRPS), 1),
			UserAgent: cfg.UserAgent,
			RetryMax:  cfg.RetryMax,
			Cookie:    sessionCookie,
		})
	}
	if cfg.EnableEngines {
		strategies = append(strategies, NewEngineFallback(cfg, client, w))
	}
	if cfg.EnableBrowser {
		strategies = append(strategies, NewBrowser(cfg))
	}
	return strategies
}

// failure builds a failed RawResponse for a strategy.
func failure(tag types.StrategyTag, start time.Time, err error) types.RawResponse {
	return types.RawResponse{
		Strategy:  tag,
		FetchedAt: start,
		Elapsed:   time.Since(start),
		OK:        false,
		Err:       err.Error(),
	}
}

// success builds a successful RawResponse carrying body.
func success(tag types.StrategyTag, start time.Time, body string) types.RawResponse {
	return types.RawResponse{
		Strategy:  tag,
		Body:      body,
		FetchedAt: start,
		Elapsed:   time.Since(start),
		OK:        true,
	}
}

// readBody drains an HTTP response body with a size cap. Catalog search
// pages run to a few hundred KB; anything past the cap is noise.
func readBody(resp *http.Response) (string, error) {
	const maxBody = 4 << 20
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(data), nil
}
