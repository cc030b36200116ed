// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"sync"
	"time"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// Memory is the per-run in-memory cache used when no persistent path is
// configured.
type Memory struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[memoryKey]memoryEntry
}

type memoryKey struct {
	query string
	tag   types.StrategyTag
}

type memoryEntry struct {
	resp   types.RawResponse
	stored time.Time
}

// NewMemory builds an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[memoryKey]memoryEntry)}
}

func (m *Memory) Get(queryText string, tag types.StrategyTag) (types.RawResponse, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[memoryKey{query: Key(queryText), tag: tag}]
	if !ok || time.Since(e.stored) > m.ttl {
		return types.RawResponse{}, false
	}
	return e.resp, true
}

func (m *Memory) Put(queryText string, tag types.StrategyTag, resp types.RawResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := memoryKey{query: Key(queryText), tag: tag}
	if e, ok := m.entries[k]; ok && time.Since(e.stored) <= m.ttl {
		// First writer wins.
		return
	}
	m.entries[k] = memoryEntry{resp: resp, stored: time.Now()}
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
