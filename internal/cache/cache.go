// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is the read-through response store consulted before any
// network call. Keys are (normalized query text, strategy tag); entries
// are whole RawResponses and are never partially updated: a miss always
// results in a full fetch-and-store. Writes are first-writer-wins, so two
// workers missing on the same key may both fetch; that bounded duplication
// is cheaper than a cross-worker lock.
package cache

import (
	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Cache is the read-through capability the adjudicator consults. Both
// backends are safe for concurrent use.
type Cache interface {
	// Get returns the fresh cached response for (queryText, tag), if any.
	Get(queryText string, tag types.StrategyTag) (types.RawResponse, bool)

	// Put stores resp under (queryText, tag) unless the key exists.
	Put(queryText string, tag types.StrategyTag, resp types.RawResponse)

	// Len reports the number of live entries.
	Len() int

	// Close releases the backing store.
	Close() error
}

// Key normalizes a query string into its cache-key form.
func Key(queryText string) string {
	return textutil.Normalize(queryText)
}

// Disabled is the bypass-cache mode entered when the configured backing
// store is unavailable: every lookup misses and every store is dropped.
type Disabled struct{}

func (Disabled) Get(string, types.StrategyTag) (types.RawResponse, bool) {
	return types.RawResponse{}, false
}
func (Disabled) Put(string, types.StrategyTag, types.RawResponse) {}
func (Disabled) Len() int                                         { return 0 }
func (Disabled) Close() error                                     { return nil }
